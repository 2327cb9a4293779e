package repository

import (
	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"gorm.io/gorm"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// --- 物料分类 ---

func (r *MaterialRepository) CreateCategory(c *entity.MaterialCategory) error {
	return r.db.Create(c).Error
}

func (r *MaterialRepository) GetCategoryByID(id string) (*entity.MaterialCategory, error) {
	var c entity.MaterialCategory
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&c).Error
	return &c, err
}

func (r *MaterialRepository) UpdateCategory(c *entity.MaterialCategory) error {
	return r.db.Save(c).Error
}

func (r *MaterialRepository) ListCategories(parentID string) ([]entity.MaterialCategory, error) {
	query := r.db.Where("deleted_at IS NULL")
	if parentID != "" {
		query = query.Where("parent_category_id = ?", parentID)
	}
	var categories []entity.MaterialCategory
	err := query.Order("code").Find(&categories).Error
	return categories, err
}

func (r *MaterialRepository) CountMaterialsByCategory(categoryID string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Material{}).
		Where("category_id = ? AND deleted_at IS NULL", categoryID).
		Count(&count).Error
	return count, err
}

// --- 计量单位 ---

func (r *MaterialRepository) CreateUnit(u *entity.MaterialUnit) error {
	return r.db.Create(u).Error
}

func (r *MaterialRepository) GetUnitByID(id string) (*entity.MaterialUnit, error) {
	var u entity.MaterialUnit
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&u).Error
	return &u, err
}

func (r *MaterialRepository) GetUnitByCode(code string) (*entity.MaterialUnit, error) {
	var u entity.MaterialUnit
	err := r.db.Where("code = ? AND deleted_at IS NULL", code).First(&u).Error
	return &u, err
}

func (r *MaterialRepository) UpdateUnit(u *entity.MaterialUnit) error {
	return r.db.Save(u).Error
}

func (r *MaterialRepository) ListUnits() ([]entity.MaterialUnit, error) {
	var units []entity.MaterialUnit
	err := r.db.Where("deleted_at IS NULL").Order("code").Find(&units).Error
	return units, err
}

// --- 物料 ---

func (r *MaterialRepository) Create(m *entity.Material) error {
	return r.db.Create(m).Error
}

func (r *MaterialRepository) GetByID(id string) (*entity.Material, error) {
	var m entity.Material
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&m).Error
	return &m, err
}

func (r *MaterialRepository) GetByCode(code string) (*entity.Material, error) {
	var m entity.Material
	err := r.db.Where("code = ? AND deleted_at IS NULL", code).First(&m).Error
	return &m, err
}

func (r *MaterialRepository) Update(m *entity.Material) error {
	return r.db.Save(m).Error
}

type MaterialListParams struct {
	CategoryID string
	Keyword    string
	ActiveOnly bool
	Page       int
	Size       int
}

func (r *MaterialRepository) List(params MaterialListParams) ([]entity.Material, int64, error) {
	query := r.db.Model(&entity.Material{}).Where("deleted_at IS NULL")
	if params.CategoryID != "" {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ? OR specification ILIKE ?", kw, kw, kw)
	}
	if params.ActiveOnly {
		query = query.Where("is_active = true")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var materials []entity.Material
	err := query.Order("code").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&materials).Error
	return materials, total, err
}

// ListForAlert 返回设置了最低库存或最高库存的启用物料
func (r *MaterialRepository) ListForAlert() ([]entity.Material, error) {
	var materials []entity.Material
	err := r.db.Where("deleted_at IS NULL AND is_active = true").
		Where("min_stock > 0 OR max_stock IS NOT NULL").
		Find(&materials).Error
	return materials, err
}
