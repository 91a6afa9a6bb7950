package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"alpimi-planner/backend/internal/model"
)

// 课时块列表过滤维度
const (
	FilterByLesson    = "lesson"
	FilterByTeacher   = "teacher"
	FilterByClassroom = "classroom"
	FilterByCluster   = "cluster"
	FilterBySchedule  = "schedule"
)

// LessonBlockFilter 课时块列表过滤条件
// FromDate / ToDate 为零值时不限制对应端点
type LessonBlockFilter struct {
	Type     string
	ID       string
	FromDate time.Time
	ToDate   time.Time
}

// LessonBlockPatch 批量更新写入的字段（已由 Service 层补全默认值）
type LessonBlockPatch struct {
	DayShift    int // lesson_date 平移天数
	LessonStart int
	LessonEnd   int
	TeacherID   *string
	ClassroomID *string
}

// LessonBlockRepository 课时块数据访问接口
type LessonBlockRepository interface {
	BatchCreate(ctx context.Context, blocks []model.LessonBlock) error
	// GetByID 按行 ID 查询，预加载课程 / 教师 / 教室
	GetByID(ctx context.Context, id string, scope AccessScope) (*model.LessonBlock, error)
	// FindFirstByKey 将 key 同时视为行 ID 或 cluster_id，返回日期最早的一行
	FindFirstByKey(ctx context.Context, key string, scope AccessScope) (*model.LessonBlock, error)
	List(ctx context.Context, filter LessonBlockFilter, scope AccessScope, offset, limit int) ([]model.LessonBlock, int64, error)
	UpdateByIDs(ctx context.Context, ids []string, patch LessonBlockPatch) (int64, error)
	// DeleteByKey 删除 lesson_block_id = key 或 cluster_id = key 的所有行
	DeleteByKey(ctx context.Context, key string, scope AccessScope) (int64, error)
	DeleteByCluster(ctx context.Context, clusterID string, scope AccessScope) (int64, error)
	// SumHoursByLesson 汇总课程下全部课时块时长
	SumHoursByLesson(ctx context.Context, lessonID string) (int, error)
}

type lessonBlockRepo struct {
	db *gorm.DB
}

// NewLessonBlockRepo 创建 LessonBlockRepository 实例
func NewLessonBlockRepo(db *gorm.DB) LessonBlockRepository {
	return &lessonBlockRepo{db: db}
}

func (r *lessonBlockRepo) BatchCreate(ctx context.Context, blocks []model.LessonBlock) error {
	if len(blocks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Lesson", "Teacher", "Classroom").Create(&blocks).Error
}

func (r *lessonBlockRepo) GetByID(ctx context.Context, id string, scope AccessScope) (*model.LessonBlock, error) {
	var block model.LessonBlock
	db := r.preload(r.db.WithContext(ctx)).Where("lesson_block_id = ?", id)
	db = scope.applyLesson(db, "lesson_blocks.lesson_id")
	if err := db.First(&block).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *lessonBlockRepo) FindFirstByKey(ctx context.Context, key string, scope AccessScope) (*model.LessonBlock, error) {
	var block model.LessonBlock
	db := r.db.WithContext(ctx).
		Where("lesson_block_id = ? OR cluster_id = ?", key, key)
	db = scope.applyLesson(db, "lesson_blocks.lesson_id")
	err := db.Order("lesson_date ASC, lesson_start ASC").
		First(&block).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *lessonBlockRepo) List(ctx context.Context, filter LessonBlockFilter, scope AccessScope, offset, limit int) ([]model.LessonBlock, int64, error) {
	var blocks []model.LessonBlock
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LessonBlock{})

	switch filter.Type {
	case FilterByLesson:
		db = db.Where("lesson_blocks.lesson_id = ?", filter.ID)
	case FilterByTeacher:
		db = db.Where("lesson_blocks.teacher_id = ?", filter.ID)
	case FilterByClassroom:
		db = db.Where("lesson_blocks.classroom_id = ?", filter.ID)
	case FilterByCluster:
		db = db.Where("lesson_blocks.cluster_id = ?", filter.ID)
	case FilterBySchedule:
		lessons := r.db.Session(&gorm.Session{NewDB: true}).
			Table("lessons").
			Select("lessons.lesson_id").
			Joins("JOIN lesson_types ON lesson_types.lesson_type_id = lessons.lesson_type_id").
			Where("lesson_types.schedule_id = ?", filter.ID)
		db = db.Where("lesson_blocks.lesson_id IN (?)", lessons)
	}
	if !filter.FromDate.IsZero() {
		db = db.Where("lesson_blocks.lesson_date >= ?", filter.FromDate)
	}
	if !filter.ToDate.IsZero() {
		db = db.Where("lesson_blocks.lesson_date <= ?", filter.ToDate)
	}
	db = scope.applyLesson(db, "lesson_blocks.lesson_id")

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.preload(db).
		Order("lesson_blocks.lesson_date ASC, lesson_blocks.lesson_start ASC").
		Offset(offset).Limit(limit).
		Find(&blocks).Error
	return blocks, total, err
}

func (r *lessonBlockRepo) UpdateByIDs(ctx context.Context, ids []string, patch LessonBlockPatch) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.LessonBlock{}).
		Where("lesson_block_id IN ?", ids).
		Updates(map[string]interface{}{
			"lesson_date":  gorm.Expr("lesson_date + ?::integer", patch.DayShift),
			"lesson_start": patch.LessonStart,
			"lesson_end":   patch.LessonEnd,
			"teacher_id":   patch.TeacherID,
			"classroom_id": patch.ClassroomID,
			"updated_at":   gorm.Expr("NOW()"),
		})
	return result.RowsAffected, result.Error
}

func (r *lessonBlockRepo) DeleteByKey(ctx context.Context, key string, scope AccessScope) (int64, error) {
	db := r.db.WithContext(ctx).Where("lesson_block_id = ? OR cluster_id = ?", key, key)
	db = scope.applyLesson(db, "lesson_id")
	result := db.Delete(&model.LessonBlock{})
	return result.RowsAffected, result.Error
}

func (r *lessonBlockRepo) DeleteByCluster(ctx context.Context, clusterID string, scope AccessScope) (int64, error) {
	db := r.db.WithContext(ctx).Where("cluster_id = ?", clusterID)
	db = scope.applyLesson(db, "lesson_id")
	result := db.Delete(&model.LessonBlock{})
	return result.RowsAffected, result.Error
}

func (r *lessonBlockRepo) SumHoursByLesson(ctx context.Context, lessonID string) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&model.LessonBlock{}).
		Select("COALESCE(SUM(lesson_end - lesson_start + 1), 0)").
		Where("lesson_id = ?", lessonID).
		Scan(&sum).Error
	return sum, err
}

func (r *lessonBlockRepo) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lesson").Preload("Lesson.LessonType").
		Preload("Teacher").
		Preload("Classroom")
}
