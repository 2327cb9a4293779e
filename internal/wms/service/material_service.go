package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
)

type MaterialService struct {
	repo *repository.MaterialRepository
}

func NewMaterialService(repo *repository.MaterialRepository) *MaterialService {
	return &MaterialService{repo: repo}
}

// --- 物料分类 ---

type CategoryRequest struct {
	Code             string  `json:"code" binding:"required"`
	Name             string  `json:"name" binding:"required"`
	ParentCategoryID *string `json:"parent_category_id"`
	Description      string  `json:"description"`
}

func (s *MaterialService) CreateCategory(req CategoryRequest) (*entity.MaterialCategory, error) {
	if req.ParentCategoryID != nil && *req.ParentCategoryID != "" {
		if _, err := s.repo.GetCategoryByID(*req.ParentCategoryID); err != nil {
			return nil, fmt.Errorf("上级分类不存在: %w", err)
		}
	}
	c := &entity.MaterialCategory{
		ID:               uuid.New().String(),
		Code:             req.Code,
		Name:             req.Name,
		ParentCategoryID: req.ParentCategoryID,
		Description:      req.Description,
		IsActive:         true,
	}
	if err := s.repo.CreateCategory(c); err != nil {
		return nil, fmt.Errorf("创建物料分类失败: %w", err)
	}
	return c, nil
}

func (s *MaterialService) ListCategories(parentID string) ([]entity.MaterialCategory, error) {
	return s.repo.ListCategories(parentID)
}

// DeactivateCategory 停用分类，仅当分类下无启用物料
func (s *MaterialService) DeactivateCategory(id string) error {
	c, err := s.repo.GetCategoryByID(id)
	if err != nil {
		return fmt.Errorf("物料分类不存在: %w", err)
	}
	count, err := s.repo.CountMaterialsByCategory(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("分类 %s 下仍有 %d 个物料，不能停用", c.Code, count)
	}
	c.IsActive = false
	return s.repo.UpdateCategory(c)
}

// --- 计量单位 ---

type UnitRequest struct {
	Code             string          `json:"code" binding:"required"`
	Name             string          `json:"name" binding:"required"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	IsBaseUnit       bool            `json:"is_base_unit"`
	Description      string          `json:"description"`
}

func (s *MaterialService) CreateUnit(req UnitRequest) (*entity.MaterialUnit, error) {
	factor := req.ConversionFactor
	if req.IsBaseUnit {
		// 基础单位的换算因子恒为 1
		factor = decimal.NewFromInt(1)
	}
	if !factor.IsPositive() {
		return nil, errors.New("换算因子必须为正数")
	}
	u := &entity.MaterialUnit{
		ID:               uuid.New().String(),
		Code:             req.Code,
		Name:             req.Name,
		ConversionFactor: factor,
		IsBaseUnit:       req.IsBaseUnit,
		IsActive:         true,
		Description:      req.Description,
	}
	if err := s.repo.CreateUnit(u); err != nil {
		return nil, fmt.Errorf("创建计量单位失败: %w", err)
	}
	return u, nil
}

func (s *MaterialService) UpdateUnit(id string, req UnitRequest) (*entity.MaterialUnit, error) {
	u, err := s.repo.GetUnitByID(id)
	if err != nil {
		return nil, fmt.Errorf("计量单位不存在: %w", err)
	}
	if u.IsBaseUnit && !req.ConversionFactor.Equal(decimal.NewFromInt(1)) {
		return nil, errors.New("基础单位的换算因子不可修改")
	}
	if !req.ConversionFactor.IsPositive() {
		return nil, errors.New("换算因子必须为正数")
	}
	u.Name = req.Name
	u.ConversionFactor = req.ConversionFactor
	u.Description = req.Description
	if err := s.repo.UpdateUnit(u); err != nil {
		return nil, fmt.Errorf("更新计量单位失败: %w", err)
	}
	return u, nil
}

func (s *MaterialService) ListUnits() ([]entity.MaterialUnit, error) {
	return s.repo.ListUnits()
}

func (s *MaterialService) DeactivateUnit(id string) error {
	u, err := s.repo.GetUnitByID(id)
	if err != nil {
		return fmt.Errorf("计量单位不存在: %w", err)
	}
	u.IsActive = false
	return s.repo.UpdateUnit(u)
}

// --- 物料 ---

type MaterialRequest struct {
	Code          string           `json:"code" binding:"required"`
	Name          string           `json:"name" binding:"required"`
	CategoryID    string           `json:"category_id" binding:"required"`
	Specification string           `json:"specification"`
	BaseUnitID    string           `json:"base_unit_id" binding:"required"`
	PackageUnitID *string          `json:"package_unit_id"`
	UnitWeight    *decimal.Decimal `json:"unit_weight"`
	UnitVolume    *decimal.Decimal `json:"unit_volume"`
	MinStock      decimal.Decimal  `json:"min_stock"`
	MaxStock      *decimal.Decimal `json:"max_stock"`
	ExpiryDays    int              `json:"expiry_days"`
	Description   string           `json:"description"`
}

func (s *MaterialService) validateMaterial(req *MaterialRequest) error {
	if _, err := s.repo.GetCategoryByID(req.CategoryID); err != nil {
		return fmt.Errorf("物料分类不存在: %w", err)
	}
	base, err := s.repo.GetUnitByID(req.BaseUnitID)
	if err != nil {
		return fmt.Errorf("基础单位不存在: %w", err)
	}
	if !base.IsActive {
		return fmt.Errorf("基础单位 %s 已停用", base.Code)
	}
	if req.PackageUnitID != nil && *req.PackageUnitID != "" {
		if _, err := s.repo.GetUnitByID(*req.PackageUnitID); err != nil {
			return fmt.Errorf("包装单位不存在: %w", err)
		}
	}
	if req.MinStock.IsNegative() {
		return errors.New("最低库存不能为负")
	}
	if req.MaxStock != nil && req.MaxStock.LessThan(req.MinStock) {
		return errors.New("最高库存不能低于最低库存")
	}
	return nil
}

func (s *MaterialService) Create(req MaterialRequest) (*entity.Material, error) {
	if err := s.validateMaterial(&req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByCode(req.Code); err == nil {
		return nil, fmt.Errorf("物料编码 %s 已存在", req.Code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	m := &entity.Material{
		ID:            uuid.New().String(),
		Code:          req.Code,
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		Specification: req.Specification,
		BaseUnitID:    req.BaseUnitID,
		PackageUnitID: req.PackageUnitID,
		UnitWeight:    req.UnitWeight,
		UnitVolume:    req.UnitVolume,
		MinStock:      req.MinStock,
		MaxStock:      req.MaxStock,
		ExpiryDays:    req.ExpiryDays,
		IsActive:      true,
		Description:   req.Description,
	}
	if err := s.repo.Create(m); err != nil {
		return nil, fmt.Errorf("创建物料失败: %w", err)
	}
	return m, nil
}

func (s *MaterialService) Update(id string, req MaterialRequest) (*entity.Material, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("物料不存在: %w", err)
	}
	if err := s.validateMaterial(&req); err != nil {
		return nil, err
	}
	if req.BaseUnitID != m.BaseUnitID {
		// 基础单位是记账口径，建账后不可更换
		return nil, errors.New("物料的基础单位不可修改")
	}
	m.Name = req.Name
	m.CategoryID = req.CategoryID
	m.Specification = req.Specification
	m.PackageUnitID = req.PackageUnitID
	m.UnitWeight = req.UnitWeight
	m.UnitVolume = req.UnitVolume
	m.MinStock = req.MinStock
	m.MaxStock = req.MaxStock
	m.ExpiryDays = req.ExpiryDays
	m.Description = req.Description
	if err := s.repo.Update(m); err != nil {
		return nil, fmt.Errorf("更新物料失败: %w", err)
	}
	return m, nil
}

func (s *MaterialService) Get(id string) (*entity.Material, error) {
	return s.repo.GetByID(id)
}

func (s *MaterialService) List(params repository.MaterialListParams) ([]entity.Material, int64, error) {
	return s.repo.List(params)
}

// Deactivate 停用物料。历史库存与流水保留，新单据不再接受该物料
func (s *MaterialService) Deactivate(id string) error {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("物料不存在: %w", err)
	}
	m.IsActive = false
	return s.repo.Update(m)
}
