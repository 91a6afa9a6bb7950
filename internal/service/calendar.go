package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"alpimi-planner/backend/internal/repository"
	"alpimi-planner/backend/pkg/redis"
)

// ── 学年日历模块业务错误 ──

var (
	ErrScheduleSettingsNotFound = errors.New("课表学年设置不存在")
)

const settingsCacheKeyPrefix = "schedule:settings:"

// SettingsCache 学年日历缓存（由 pkg/redis.Client 实现）
type SettingsCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// Calendar 课表学年日历
// SchoolYearStart / SchoolYearEnd 均为 UTC 零点且包含端点；WeekdayMask 第 i 位对应 0=周一..6=周日
type Calendar struct {
	ScheduleID      string    `json:"schedule_id"`
	SchoolYearStart time.Time `json:"school_year_start"`
	SchoolYearEnd   time.Time `json:"school_year_end"`
	PeriodCount     int       `json:"period_count"`
	WeekdayMask     string    `json:"weekday_mask"`
}

// Contains 日期是否落在学年范围内
func (c *Calendar) Contains(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(c.SchoolYearStart) && !d.After(c.SchoolYearEnd)
}

// AllowsWeekday 日期所在星期是否允许上课，掩码不足 7 位时缺失位视为不允许
func (c *Calendar) AllowsWeekday(date time.Time) bool {
	i := WeekdayIndex(date)
	return i < len(c.WeekdayMask) && c.WeekdayMask[i] == '1'
}

// WeekdayIndex 返回 0=周一 .. 6=周日
func WeekdayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

var weekdayNames = [7]string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// WeekdayName 星期中文名，越界返回空串
func WeekdayName(index int) string {
	if index < 0 || index >= len(weekdayNames) {
		return ""
	}
	return weekdayNames[index]
}

// CalendarProvider 学年日历查询接口
type CalendarProvider interface {
	// ForSchedule 解析课表的学年范围、节次数与星期掩码，不存在时返回 ErrScheduleSettingsNotFound
	ForSchedule(ctx context.Context, scheduleID string) (*Calendar, error)
}

type calendarProvider struct {
	repo   *repository.Repository
	cache  SettingsCache // 可为 nil
	ttl    time.Duration
	logger *zap.Logger
}

// NewCalendarProvider 创建 CalendarProvider 实例；cache 为 nil 时每次直接查库
func NewCalendarProvider(repo *repository.Repository, cache SettingsCache, ttl time.Duration, logger *zap.Logger) CalendarProvider {
	return &calendarProvider{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (p *calendarProvider) ForSchedule(ctx context.Context, scheduleID string) (*Calendar, error) {
	key := settingsCacheKeyPrefix + scheduleID

	if p.cache != nil {
		var cached Calendar
		err := p.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			// 缓存故障降级为直接查库
			p.logger.Warn("读取学年日历缓存失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		}
	}

	settings, err := p.repo.ScheduleSettings.GetByScheduleID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleSettingsNotFound
		}
		p.logger.Error("查询课表设置失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, err
	}

	cal := &Calendar{
		ScheduleID:      scheduleID,
		SchoolYearStart: dateOnly(settings.SchoolYearStart),
		SchoolYearEnd:   dateOnly(settings.SchoolYearEnd),
		PeriodCount:     len(settings.LessonPeriods),
		WeekdayMask:     settings.SchoolDays,
	}

	if p.cache != nil {
		if err := p.cache.SetJSON(ctx, key, cal, p.ttl); err != nil {
			p.logger.Warn("写入学年日历缓存失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		}
	}

	return cal, nil
}

// ── 日期辅助 ──

const dateLayout = "2006-01-02"

// dateOnly 丢弃时分秒与时区，返回同一日历日的 UTC 零点
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseDate 解析 YYYY-MM-DD
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// daysBetween 两个 UTC 零点日期之间的天数差 (b - a)
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
