package dto

// ── 课时块模块 DTO ──

// CreateLessonBlockRequest 创建课时块请求
// week_interval 缺省表示单次课；给定时按 7*week_interval 天展开到学年结束
type CreateLessonBlockRequest struct {
	LessonID     string  `json:"lesson_id"     binding:"required,uuid"`
	LessonDate   string  `json:"lesson_date"   binding:"required,datetime=2006-01-02"`
	LessonStart  int     `json:"lesson_start"`
	LessonEnd    int     `json:"lesson_end"`
	TeacherID    *string `json:"teacher_id"    binding:"omitempty,uuid"`
	ClassroomID  *string `json:"classroom_id"  binding:"omitempty,uuid"`
	WeekInterval *int    `json:"week_interval"`
}

// UpdateLessonBlockRequest 更新课时块请求
// 未传字段沿用锚点行（单行模式为该行，课组模式为日期最早的一行）的当前值
type UpdateLessonBlockRequest struct {
	LessonStart   *int    `json:"lesson_start"`
	LessonEnd     *int    `json:"lesson_end"`
	TeacherID     *string `json:"teacher_id"     binding:"omitempty,uuid"`
	ClassroomID   *string `json:"classroom_id"   binding:"omitempty,uuid"`
	WeekDay       *int    `json:"week_day"`       // 0=周一 .. 6=周日
	UpdateCluster bool    `json:"update_cluster"` // true 时作用于同一课组的全部行
}

// LessonBlockListRequest 课时块列表查询参数
type LessonBlockListRequest struct {
	FilterType string `form:"filter_type" binding:"required,oneof=lesson teacher classroom cluster schedule"`
	FilterID   string `form:"filter_id"   binding:"required,uuid"`
	FromDate   string `form:"from_date"   binding:"omitempty,datetime=2006-01-02"`
	ToDate     string `form:"to_date"     binding:"omitempty,datetime=2006-01-02"`
	PaginationRequest
}

// LessonBlockResponse 课时块信息响应（含课程 / 教师 / 教室摘要）
type LessonBlockResponse struct {
	ID          string          `json:"id"`
	LessonDate  string          `json:"lesson_date"`
	WeekDay     int             `json:"week_day"`
	LessonStart int             `json:"lesson_start"`
	LessonEnd   int             `json:"lesson_end"`
	Hours       int             `json:"hours"`
	LessonID    string          `json:"lesson_id"`
	TeacherID   *string         `json:"teacher_id,omitempty"`
	ClassroomID *string         `json:"classroom_id,omitempty"`
	ClusterID   string          `json:"cluster_id"`
	Lesson      *LessonBrief    `json:"lesson,omitempty"`
	Teacher     *TeacherBrief   `json:"teacher,omitempty"`
	Classroom   *ClassroomBrief `json:"classroom,omitempty"`
}

// LessonBrief 课程简要信息
type LessonBrief struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AmountOfHours int    `json:"amount_of_hours"`
	CurrentHours  int    `json:"current_hours"`
}

// TeacherBrief 教师简要信息
type TeacherBrief struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// ClassroomBrief 教室简要信息
type ClassroomBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
