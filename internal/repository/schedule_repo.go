package repository

import (
	"context"

	"gorm.io/gorm"

	"alpimi-planner/backend/internal/model"
)

// ScheduleRepository 课表数据访问接口（只读，课表 CRUD 由外部模块负责）
type ScheduleRepository interface {
	GetByID(ctx context.Context, id string, scope AccessScope) (*model.Schedule, error)
}

// ScheduleSettingsRepository 课表学年设置数据访问接口
type ScheduleSettingsRepository interface {
	// GetByScheduleID 查询课表设置，LessonPeriods 按开始时间升序预加载
	GetByScheduleID(ctx context.Context, scheduleID string) (*model.ScheduleSettings, error)
}

// ── Schedule Repository 实现 ──

type scheduleRepo struct {
	db *gorm.DB
}

func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string, scope AccessScope) (*model.Schedule, error) {
	var schedule model.Schedule
	db := r.db.WithContext(ctx).Where("schedule_id = ?", id)
	db = scope.applySchedule(db, "schedule_id")
	if err := db.First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ── ScheduleSettings Repository 实现 ──

type scheduleSettingsRepo struct {
	db *gorm.DB
}

func NewScheduleSettingsRepo(db *gorm.DB) ScheduleSettingsRepository {
	return &scheduleSettingsRepo{db: db}
}

func (r *scheduleSettingsRepo) GetByScheduleID(ctx context.Context, scheduleID string) (*model.ScheduleSettings, error) {
	var settings model.ScheduleSettings
	err := r.db.WithContext(ctx).
		Preload("LessonPeriods", func(db *gorm.DB) *gorm.DB {
			return db.Order("start ASC")
		}).
		Where("schedule_id = ?", scheduleID).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
