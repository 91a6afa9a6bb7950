package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func setupTestCalendar(cache SettingsCache) (CalendarProvider, *mockStore) {
	store := newMockStore()
	return NewCalendarProvider(store.toRepository(), cache, 0, zap.NewNop()), store
}

func TestCalendarProvider_ForSchedule(t *testing.T) {
	provider, store := setupTestCalendar(nil)
	seedSchedule(store, "2024-01-01", "2024-12-31")

	cal, err := provider.ForSchedule(context.Background(), testScheduleID)
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if cal.PeriodCount != 5 {
		t.Errorf("期望 5 节，实际=%d", cal.PeriodCount)
	}
	if cal.WeekdayMask != "1111100" {
		t.Errorf("期望掩码 1111100，实际=%s", cal.WeekdayMask)
	}
	if !cal.SchoolYearStart.Equal(mustDate("2024-01-01")) || !cal.SchoolYearEnd.Equal(mustDate("2024-12-31")) {
		t.Errorf("学年范围不符: %v ~ %v", cal.SchoolYearStart, cal.SchoolYearEnd)
	}
}

func TestCalendarProvider_NotFound(t *testing.T) {
	provider, _ := setupTestCalendar(nil)

	if _, err := provider.ForSchedule(context.Background(), "missing"); !errors.Is(err, ErrScheduleSettingsNotFound) {
		t.Errorf("期望 ErrScheduleSettingsNotFound，实际: %v", err)
	}
}

func TestCalendarProvider_UsesCache(t *testing.T) {
	cache := newMockSettingsCache()
	provider, store := setupTestCalendar(cache)
	seedSchedule(store, "2024-01-01", "2024-12-31")

	for i := 0; i < 3; i++ {
		cal, err := provider.ForSchedule(context.Background(), testScheduleID)
		if err != nil {
			t.Fatalf("第 %d 次查询失败: %v", i+1, err)
		}
		if !cal.Contains(mustDate("2024-06-03")) {
			t.Errorf("第 %d 次查询结果不符: %+v", i+1, cal)
		}
	}
	if store.settingsHit != 1 {
		t.Errorf("期望只查库 1 次，实际=%d", store.settingsHit)
	}
	if _, ok := cache.data[settingsCacheKeyPrefix+testScheduleID]; !ok {
		t.Error("期望写入缓存")
	}
}

func TestCalendarProvider_CacheErrorFallsBack(t *testing.T) {
	cache := newMockSettingsCache()
	cache.getErr = errors.New("connection refused")
	provider, store := setupTestCalendar(cache)
	seedSchedule(store, "2024-01-01", "2024-12-31")

	if _, err := provider.ForSchedule(context.Background(), testScheduleID); err != nil {
		t.Fatalf("缓存故障应降级查库: %v", err)
	}
	if store.settingsHit != 1 {
		t.Errorf("期望查库 1 次，实际=%d", store.settingsHit)
	}
}

func TestCalendar_ContainsAndWeekday(t *testing.T) {
	cal := &Calendar{
		SchoolYearStart: mustDate("2024-01-01"),
		SchoolYearEnd:   mustDate("2024-12-31"),
		PeriodCount:     5,
		WeekdayMask:     "1111100",
	}

	tests := []struct {
		date     string
		contains bool
		allowed  bool
		weekday  int
	}{
		{date: "2024-01-01", contains: true, allowed: true, weekday: 0},
		{date: "2024-12-31", contains: true, allowed: true, weekday: 1},
		{date: "2024-12-15", contains: true, allowed: false, weekday: 6},
		{date: "2024-03-09", contains: true, allowed: false, weekday: 5},
		{date: "2023-12-29", contains: false, allowed: true, weekday: 4},
		{date: "2025-01-01", contains: false, allowed: true, weekday: 2},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d := mustDate(tt.date)
			if got := cal.Contains(d); got != tt.contains {
				t.Errorf("Contains=%v，期望 %v", got, tt.contains)
			}
			if got := cal.AllowsWeekday(d); got != tt.allowed {
				t.Errorf("AllowsWeekday=%v，期望 %v", got, tt.allowed)
			}
			if got := WeekdayIndex(d); got != tt.weekday {
				t.Errorf("WeekdayIndex=%d，期望 %d", got, tt.weekday)
			}
		})
	}
}

func TestCalendar_ShortMaskDeniesMissingDays(t *testing.T) {
	cal := &Calendar{WeekdayMask: "11"}

	if !cal.AllowsWeekday(mustDate("2024-01-02")) {
		t.Error("周二应允许")
	}
	if cal.AllowsWeekday(mustDate("2024-01-03")) {
		t.Error("掩码缺失位应视为不允许")
	}
}
