package service

import (
	"context"

	"go.uber.org/zap"

	"alpimi-planner/backend/internal/repository"
)

// HourAccumulator 课程已排课时累加器
//
// 每次课时块增删改后按库中现存行全量重算 lessons.current_hours，
// 不做增量加减，创建 / 课组更新 / 删除都收敛到同一结果。
// repo 由调用方传入，通常是绑定到当前事务的 Repository。
type HourAccumulator struct {
	logger *zap.Logger
}

// NewHourAccumulator 创建 HourAccumulator 实例
func NewHourAccumulator(logger *zap.Logger) *HourAccumulator {
	return &HourAccumulator{logger: logger}
}

// Recalculate 重算并写回课程 current_hours，返回新值
func (a *HourAccumulator) Recalculate(ctx context.Context, repo *repository.Repository, lessonID string) (int, error) {
	hours, err := repo.LessonBlock.SumHoursByLesson(ctx, lessonID)
	if err != nil {
		a.logger.Error("汇总课时失败", zap.String("lesson_id", lessonID), zap.Error(err))
		return 0, err
	}

	if err := repo.Lesson.UpdateCurrentHours(ctx, lessonID, hours); err != nil {
		a.logger.Error("更新课程已排课时失败", zap.String("lesson_id", lessonID), zap.Error(err))
		return 0, err
	}

	a.logger.Debug("课程课时已重算", zap.String("lesson_id", lessonID), zap.Int("current_hours", hours))
	return hours, nil
}
