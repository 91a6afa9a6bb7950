package model

// Teacher 教师，对应 teachers
type Teacher struct {
	TeacherID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Name       string `gorm:"type:varchar(255);not null"                     json:"name"`
	Surname    string `gorm:"type:varchar(255);not null"                     json:"surname"`
	ScheduleID string `gorm:"type:uuid;not null"                             json:"schedule_id"`
	BaseModel
}

func (Teacher) TableName() string { return "teachers" }

// Classroom 教室，对应 classrooms
type Classroom struct {
	ClassroomID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"classroom_id"`
	Name        string `gorm:"type:varchar(255);not null"                     json:"name"`
	Capacity    int    `gorm:"not null;default:0"                             json:"capacity"`
	ScheduleID  string `gorm:"type:uuid;not null"                             json:"schedule_id"`
	BaseModel
}

func (Classroom) TableName() string { return "classrooms" }
