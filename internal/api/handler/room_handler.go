package handler

import (
	"github.com/gin-gonic/gin"

	"university-platform/backend/internal/dto"
	"university-platform/backend/internal/service"
	"university-platform/backend/pkg/response"
)

// RoomHandler 教室模块 HTTP 处理器
type RoomHandler struct {
	roomSvc service.RoomService
}

// NewRoomHandler 创建 RoomHandler
func NewRoomHandler(roomSvc service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// Create 创建教室
// POST /api/v1/rooms
func (h *RoomHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	room, err := h.roomSvc.Create(c.Request.Context(), &req, actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, room)
}

// List 教室列表
// GET /api/v1/rooms
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.roomSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, rooms)
}

// Get 教室详情
// GET /api/v1/rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	room, err := h.roomSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, room)
}

// Update 更新教室
// PUT /api/v1/rooms/:id
func (h *RoomHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	room, err := h.roomSvc.Update(c.Request.Context(), c.Param("id"), &req, actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, room)
}

// Delete 删除教室
// DELETE /api/v1/rooms/:id
func (h *RoomHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.roomSvc.Delete(c.Request.Context(), c.Param("id"), actor.UserID); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, nil)
}
