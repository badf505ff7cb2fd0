package repository

import (
	"context"

	"gorm.io/gorm"

	"university-platform/backend/internal/model"
)

// DepartmentRepository 院系目录数据访问接口（院系/专业/年级）
type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	GetByID(ctx context.Context, id string) (*model.Department, error)
	GetByCode(ctx context.Context, code string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
	Update(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, id string, deletedBy string) error

	CreateSpecialty(ctx context.Context, sp *model.Specialty) error
	GetSpecialtyByID(ctx context.Context, id string) (*model.Specialty, error)
	GetSpecialtyByCode(ctx context.Context, code string) (*model.Specialty, error)
	ListSpecialties(ctx context.Context, departmentID string) ([]model.Specialty, error)

	CreateLevel(ctx context.Context, lv *model.Level) error
	GetLevelByID(ctx context.Context, id string) (*model.Level, error)
	ListLevels(ctx context.Context, specialtyID string) ([]model.Level, error)
}

type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo 创建 DepartmentRepository 实例
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) Create(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *departmentRepo) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).Where("department_id = ?", id).First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) GetByCode(ctx context.Context, code string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) List(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) Update(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

func (r *departmentRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Model(&model.Department{}).
		Where("department_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}

// ── 专业 ──

func (r *departmentRepo) CreateSpecialty(ctx context.Context, sp *model.Specialty) error {
	return r.db.WithContext(ctx).Create(sp).Error
}

func (r *departmentRepo) GetSpecialtyByID(ctx context.Context, id string) (*model.Specialty, error) {
	var sp model.Specialty
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("specialty_id = ?", id).
		First(&sp).Error
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *departmentRepo) GetSpecialtyByCode(ctx context.Context, code string) (*model.Specialty, error) {
	var sp model.Specialty
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&sp).Error
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *departmentRepo) ListSpecialties(ctx context.Context, departmentID string) ([]model.Specialty, error) {
	var sps []model.Specialty
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("name ASC").
		Find(&sps).Error
	return sps, err
}

// ── 年级 ──

func (r *departmentRepo) CreateLevel(ctx context.Context, lv *model.Level) error {
	return r.db.WithContext(ctx).Create(lv).Error
}

func (r *departmentRepo) GetLevelByID(ctx context.Context, id string) (*model.Level, error) {
	var lv model.Level
	err := r.db.WithContext(ctx).
		Preload("Specialty").
		Where("level_id = ?", id).
		First(&lv).Error
	if err != nil {
		return nil, err
	}
	return &lv, nil
}

func (r *departmentRepo) ListLevels(ctx context.Context, specialtyID string) ([]model.Level, error) {
	var lvs []model.Level
	err := r.db.WithContext(ctx).
		Where("specialty_id = ?", specialtyID).
		Order("academic_year ASC, name ASC").
		Find(&lvs).Error
	return lvs, err
}
