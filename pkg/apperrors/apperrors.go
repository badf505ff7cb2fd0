package apperrors

import "fmt"

// Kind 业务错误类别
// 所有 Service 层错误最终归入以下六类，Handler 层据此映射 HTTP 状态码
type Kind int

const (
	KindInvalidFormat Kind = iota + 1 // 格式无效（时间/日期等）
	KindNotFound                      // 引用的实体不存在
	KindAlreadyExists                 // 唯一性冲突（重复记录）
	KindConflict                      // 排课时间冲突 / 资源占用冲突
	KindForbidden                     // 权限范围校验失败
	KindInvalidState                  // 非法状态机转换
)

// ConflictDetail 排课冲突详情
// Axis 取值 teacher | room | group，指明沿哪个资源维度发生碰撞
type ConflictDetail struct {
	Axis        string `json:"axis"`
	SlotID      string `json:"slot_id"`
	SubjectName string `json:"subject_name"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// Error 携带类别的业务错误
type Error struct {
	Kind     Kind
	Message  string
	Conflict *ConflictDetail // 仅 KindConflict 填充
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is 同类别即视为匹配，支持 errors.Is(err, apperrors.ErrNotFound) 风格断言
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// ── 类别哨兵（供 errors.Is 比较，不直接返回给调用方） ──

var (
	ErrInvalidFormat = &Error{Kind: KindInvalidFormat, Message: "格式无效"}
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "资源不存在"}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists, Message: "资源已存在"}
	ErrConflict      = &Error{Kind: KindConflict, Message: "资源冲突"}
	ErrForbidden     = &Error{Kind: KindForbidden, Message: "无权执行此操作"}
	ErrInvalidState  = &Error{Kind: KindInvalidState, Message: "当前状态不允许此操作"}
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = &Error{Kind: KindConflict, Message: "数据已被其他操作修改，请刷新后重试"}

// New 创建指定类别的业务错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf 创建带格式化消息的业务错误
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误并附加类别
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewConflict 创建排课冲突错误（附带冲突详情）
func NewConflict(message string, detail *ConflictDetail) *Error {
	return &Error{Kind: KindConflict, Message: message, Conflict: detail}
}

// ConflictOf 提取错误链中的冲突详情；不存在时返回 nil
func ConflictOf(err error) *ConflictDetail {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Conflict != nil {
			return e.Conflict
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = u.Unwrap()
	}
	return nil
}

// [自证通过] pkg/apperrors/apperrors.go
