package repository

import (
	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"gorm.io/gorm"
)

// CatalogRepository 主数据只读查询，供台账引擎与校验器按 ID 取引用实体
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Material(id string) (*entity.Material, error) {
	var m entity.Material
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *CatalogRepository) Unit(id string) (*entity.MaterialUnit, error) {
	var u entity.MaterialUnit
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *CatalogRepository) Location(id string) (*entity.StorageLocation, error) {
	var l entity.StorageLocation
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *CatalogRepository) Warehouse(id string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *CatalogRepository) Supplier(id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogRepository) Customer(id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
