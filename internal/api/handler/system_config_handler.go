package handler

import (
	"github.com/gin-gonic/gin"

	"university-platform/backend/internal/dto"
	"university-platform/backend/internal/service"
	"university-platform/backend/pkg/response"
)

// SystemConfigHandler 缺勤策略配置 HTTP 处理器
type SystemConfigHandler struct {
	configSvc service.SystemConfigService
}

// NewSystemConfigHandler 创建 SystemConfigHandler
func NewSystemConfigHandler(configSvc service.SystemConfigService) *SystemConfigHandler {
	return &SystemConfigHandler{configSvc: configSvc}
}

// Get 读取缺勤阈值配置
// GET /api/v1/system-config/absence-policy
func (h *SystemConfigHandler) Get(c *gin.Context) {
	cfg, err := h.configSvc.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, cfg)
}

// Update 更新缺勤阈值配置（管理员）
// PUT /api/v1/system-config/absence-policy
func (h *SystemConfigHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateAbsencePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	cfg, err := h.configSvc.Update(c.Request.Context(), &req, actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, cfg)
}
