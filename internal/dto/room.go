package dto

// ── 教室模块 DTO ──

// CreateRoomRequest 创建教室请求
type CreateRoomRequest struct {
	Name     string `json:"name"      binding:"required,min=1,max=50"`
	Building string `json:"building"  binding:"omitempty,max=50"`
	Capacity int    `json:"capacity"  binding:"omitempty,min=1,max=1000"`
	RoomType string `json:"room_type" binding:"required,oneof=classroom amphi lab"`
}

// UpdateRoomRequest 更新教室请求
type UpdateRoomRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=1,max=50"`
	Building *string `json:"building"  binding:"omitempty,max=50"`
	Capacity *int    `json:"capacity"  binding:"omitempty,min=1,max=1000"`
	RoomType *string `json:"room_type" binding:"omitempty,oneof=classroom amphi lab"`
}
