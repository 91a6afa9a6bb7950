package model

import (
	"time"

	"gorm.io/datatypes"
)

// LessonBlock 课时块，对应 lesson_blocks，一次上课的具体日期与节次区间
// 同一次创建请求展开出的所有行共享 ClusterID
type LessonBlock struct {
	LessonBlockID string         `gorm:"type:uuid;primaryKey"        json:"lesson_block_id"`
	LessonDate    datatypes.Date `gorm:"type:date;not null"          json:"lesson_date"`
	LessonStart   int            `gorm:"type:smallint;not null"      json:"lesson_start"` // 1-based，含
	LessonEnd     int            `gorm:"type:smallint;not null"      json:"lesson_end"`   // 1-based，含
	LessonID      string         `gorm:"type:uuid;not null;index"    json:"lesson_id"`
	TeacherID     *string        `gorm:"type:uuid;index"             json:"teacher_id,omitempty"`
	ClassroomID   *string        `gorm:"type:uuid;index"             json:"classroom_id,omitempty"`
	ClusterID     string         `gorm:"type:uuid;not null;index"    json:"cluster_id"`
	BaseModel

	// 关联
	Lesson    *Lesson    `gorm:"foreignKey:LessonID;references:LessonID"       json:"lesson,omitempty"`
	Teacher   *Teacher   `gorm:"foreignKey:TeacherID;references:TeacherID"     json:"teacher,omitempty"`
	Classroom *Classroom `gorm:"foreignKey:ClassroomID;references:ClassroomID" json:"classroom,omitempty"`
}

func (LessonBlock) TableName() string { return "lesson_blocks" }

// Date 以 UTC 零点返回上课日期
func (b *LessonBlock) Date() time.Time {
	t := time.Time(b.LessonDate)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Hours 课时块时长 = lesson_end - lesson_start + 1
func (b *LessonBlock) Hours() int {
	return b.LessonEnd - b.LessonStart + 1
}
