package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestHourAccumulator_Recalculate(t *testing.T) {
	store := newMockStore()
	seedSchedule(store, "2024-01-01", "2024-12-31")
	repo := store.toRepository()
	acc := NewHourAccumulator(zap.NewNop())

	seedBlock(store, "b-1", "c-1", "2024-03-04", 1, 3)
	seedBlock(store, "b-2", "c-1", "2024-03-11", 2, 2)
	// 陈旧值应被覆盖
	store.lessons[testLessonID].CurrentHours = 42

	hours, err := acc.Recalculate(context.Background(), repo, testLessonID)
	if err != nil {
		t.Fatalf("重算应成功: %v", err)
	}
	if hours != 4 || store.lessons[testLessonID].CurrentHours != 4 {
		t.Errorf("期望 4 课时，实际 返回=%d 存储=%d", hours, store.lessons[testLessonID].CurrentHours)
	}
}

func TestHourAccumulator_NoBlocksResetsToZero(t *testing.T) {
	store := newMockStore()
	seedSchedule(store, "2024-01-01", "2024-12-31")
	store.lessons[testLessonID].CurrentHours = 9

	hours, err := NewHourAccumulator(zap.NewNop()).Recalculate(context.Background(), store.toRepository(), testLessonID)
	if err != nil {
		t.Fatalf("重算应成功: %v", err)
	}
	if hours != 0 || store.lessons[testLessonID].CurrentHours != 0 {
		t.Errorf("无课时块时期望 0，实际=%d", store.lessons[testLessonID].CurrentHours)
	}
}
