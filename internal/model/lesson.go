package model

// LessonType 课程类型，对应 lesson_types，决定课程所属课表
type LessonType struct {
	LessonTypeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"lesson_type_id"`
	Name         string `gorm:"type:varchar(255);not null"                     json:"name"`
	Color        int    `gorm:"not null;default:0"                             json:"color"`
	ScheduleID   string `gorm:"type:uuid;not null"                             json:"schedule_id"`
	BaseModel
}

func (LessonType) TableName() string { return "lesson_types" }

// Lesson 课程，对应 lessons
// CurrentHours 由课时累加器根据 lesson_blocks 全量重算，客户端不可直接写入
type Lesson struct {
	LessonID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"lesson_id"`
	Name          string `gorm:"type:varchar(255);not null"                     json:"name"`
	AmountOfHours int    `gorm:"not null;default:0"                             json:"amount_of_hours"`
	CurrentHours  int    `gorm:"not null;default:0"                             json:"current_hours"`
	LessonTypeID  string `gorm:"type:uuid;not null"                             json:"lesson_type_id"`
	SubgroupID    string `gorm:"type:uuid;not null"                             json:"subgroup_id"`
	BaseModel

	// 关联
	LessonType *LessonType `gorm:"foreignKey:LessonTypeID;references:LessonTypeID" json:"lesson_type,omitempty"`
}

func (Lesson) TableName() string { return "lessons" }

// ScheduleID 课程经由课程类型归属的课表
func (l *Lesson) ScheduleID() string {
	if l.LessonType == nil {
		return ""
	}
	return l.LessonType.ScheduleID
}
