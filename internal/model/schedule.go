package model

import "time"

// Schedule 课表，对应 schedules
// UserID 为课表所有者，非管理员只能访问自己名下课表的数据
type Schedule struct {
	ScheduleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	Name       string `gorm:"type:varchar(255);not null"                     json:"name"`
	SchoolHour int    `gorm:"type:smallint;not null;default:45"              json:"school_hour"` // 每节课分钟数
	UserID     string `gorm:"type:uuid;not null"                             json:"user_id"`
	BaseModel

	// 关联
	Settings *ScheduleSettings `gorm:"foreignKey:ScheduleID;references:ScheduleID" json:"settings,omitempty"`
}

func (Schedule) TableName() string { return "schedules" }

// ScheduleSettings 课表学年设置，对应 schedule_settings（每个课表一条）
type ScheduleSettings struct {
	ScheduleSettingsID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_settings_id"`
	ScheduleID         string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"schedule_id"`
	SchoolYearStart    time.Time `gorm:"type:date;not null"                             json:"school_year_start"`
	SchoolYearEnd      time.Time `gorm:"type:date;not null"                             json:"school_year_end"`
	SchoolDays         string    `gorm:"type:char(7);not null;default:'1111100'"        json:"school_days"` // 周一..周日，'1' 允许上课
	BaseModel

	// 关联
	LessonPeriods []LessonPeriod `gorm:"foreignKey:ScheduleSettingsID;references:ScheduleSettingsID" json:"lesson_periods,omitempty"`
}

func (ScheduleSettings) TableName() string { return "schedule_settings" }

// LessonPeriod 节次，对应 lesson_periods，按 start 排序后编号 1..N
type LessonPeriod struct {
	LessonPeriodID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"lesson_period_id"`
	ScheduleSettingsID string `gorm:"type:uuid;not null"                             json:"schedule_settings_id"`
	Start              string `gorm:"type:time;not null"                             json:"start"` // "08:00"
	BaseModel
}

func (LessonPeriod) TableName() string { return "lesson_periods" }
