package dto

// ── 缺勤策略配置 DTO ──

// UpdateAbsencePolicyRequest 更新缺勤阈值请求
type UpdateAbsencePolicyRequest struct {
	WarnThreshold      *int `json:"warn_threshold"      binding:"omitempty,min=1,max=20"`
	EliminateThreshold *int `json:"eliminate_threshold" binding:"omitempty,min=1,max=50"`
}

// AbsencePolicyResponse 缺勤阈值响应
type AbsencePolicyResponse struct {
	WarnThreshold      int    `json:"warn_threshold"`
	EliminateThreshold int    `json:"eliminate_threshold"`
	UpdatedAt          string `json:"updated_at"`
}
