package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alpimi-planner/backend/internal/model"
)

// LessonRepository 课程数据访问接口
// 课程 CRUD 由外部模块负责，这里只暴露课时引擎需要的读取与 current_hours 写入
type LessonRepository interface {
	GetByID(ctx context.Context, id string, scope AccessScope) (*model.Lesson, error)
	// LockByID 在当前事务中对课程行加 FOR UPDATE 锁，串行化同一课程的课时块变更
	LockByID(ctx context.Context, id string) error
	UpdateCurrentHours(ctx context.Context, id string, hours int) error
}

// TeacherRepository 教师数据访问接口（只读）
type TeacherRepository interface {
	GetByID(ctx context.Context, id string, scope AccessScope) (*model.Teacher, error)
}

// ClassroomRepository 教室数据访问接口（只读）
type ClassroomRepository interface {
	GetByID(ctx context.Context, id string, scope AccessScope) (*model.Classroom, error)
}

// ── Lesson Repository 实现 ──

type lessonRepo struct {
	db *gorm.DB
}

func NewLessonRepo(db *gorm.DB) LessonRepository {
	return &lessonRepo{db: db}
}

func (r *lessonRepo) GetByID(ctx context.Context, id string, scope AccessScope) (*model.Lesson, error) {
	var lesson model.Lesson
	db := r.db.WithContext(ctx).
		Preload("LessonType").
		Where("lesson_id = ?", id)
	db = scope.applyLesson(db, "lesson_id")
	if err := db.First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepo) LockByID(ctx context.Context, id string) error {
	var lesson model.Lesson
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("lesson_id").
		Where("lesson_id = ?", id).
		First(&lesson).Error
}

func (r *lessonRepo) UpdateCurrentHours(ctx context.Context, id string, hours int) error {
	return r.db.WithContext(ctx).
		Model(&model.Lesson{}).
		Where("lesson_id = ?", id).
		Updates(map[string]interface{}{
			"current_hours": hours,
			"updated_at":    gorm.Expr("NOW()"),
		}).Error
}

// ── Teacher Repository 实现 ──

type teacherRepo struct {
	db *gorm.DB
}

func NewTeacherRepo(db *gorm.DB) TeacherRepository {
	return &teacherRepo{db: db}
}

func (r *teacherRepo) GetByID(ctx context.Context, id string, scope AccessScope) (*model.Teacher, error) {
	var teacher model.Teacher
	db := r.db.WithContext(ctx).Where("teacher_id = ?", id)
	db = scope.applySchedule(db, "schedule_id")
	if err := db.First(&teacher).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

// ── Classroom Repository 实现 ──

type classroomRepo struct {
	db *gorm.DB
}

func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

func (r *classroomRepo) GetByID(ctx context.Context, id string, scope AccessScope) (*model.Classroom, error) {
	var classroom model.Classroom
	db := r.db.WithContext(ctx).Where("classroom_id = ?", id)
	db = scope.applySchedule(db, "schedule_id")
	if err := db.First(&classroom).Error; err != nil {
		return nil, err
	}
	return &classroom, nil
}
