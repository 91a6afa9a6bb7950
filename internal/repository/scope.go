package repository

import "gorm.io/gorm"

// AccessScope 调用方的数据可见范围
// 管理员（Privileged）可见全部课表；普通用户仅可见 schedules.user_id 为自己的课表及其下属数据
type AccessScope struct {
	UserID     string
	Privileged bool
}

// AdminScope 不做任何所有权过滤的范围（内部任务与测试使用）
func AdminScope() AccessScope {
	return AccessScope{Privileged: true}
}

// ownedSchedules 当前用户拥有的 schedule_id 子查询
func (s AccessScope) ownedSchedules(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Table("schedules").
		Select("schedules.schedule_id").
		Where("schedules.user_id = ?", s.UserID)
}

// ownedLessons 当前用户拥有的 lesson_id 子查询（lessons → lesson_types → schedules）
func (s AccessScope) ownedLessons(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Table("lessons").
		Select("lessons.lesson_id").
		Joins("JOIN lesson_types ON lesson_types.lesson_type_id = lessons.lesson_type_id").
		Joins("JOIN schedules ON schedules.schedule_id = lesson_types.schedule_id").
		Where("schedules.user_id = ?", s.UserID)
}

// applySchedule 为直接挂在课表下的实体追加所有权过滤
func (s AccessScope) applySchedule(db *gorm.DB, column string) *gorm.DB {
	if s.Privileged {
		return db
	}
	return db.Where(column+" IN (?)", s.ownedSchedules(db))
}

// applyLesson 为引用课程的实体追加所有权过滤
func (s AccessScope) applyLesson(db *gorm.DB, column string) *gorm.DB {
	if s.Privileged {
		return db
	}
	return db.Where(column+" IN (?)", s.ownedLessons(db))
}
