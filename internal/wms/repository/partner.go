package repository

import (
	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"gorm.io/gorm"
)

type PartnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// --- 供应商 ---

func (r *PartnerRepository) CreateSupplier(s *entity.Supplier) error {
	return r.db.Create(s).Error
}

func (r *PartnerRepository) GetSupplierByID(id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&s).Error
	return &s, err
}

func (r *PartnerRepository) UpdateSupplier(s *entity.Supplier) error {
	return r.db.Save(s).Error
}

type PartnerListParams struct {
	Keyword    string
	Level      string
	ActiveOnly bool
	Page       int
	Size       int
}

func (r *PartnerRepository) ListSuppliers(params PartnerListParams) ([]entity.Supplier, int64, error) {
	query := r.db.Model(&entity.Supplier{}).Where("deleted_at IS NULL")
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", kw, kw)
	}
	if params.Level != "" {
		query = query.Where("level = ?", params.Level)
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
	var suppliers []entity.Supplier
	err := query.Order("code").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&suppliers).Error
	return suppliers, total, err
}

// --- 客户 ---

func (r *PartnerRepository) CreateCustomer(c *entity.Customer) error {
	return r.db.Create(c).Error
}

func (r *PartnerRepository) GetCustomerByID(id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&c).Error
	return &c, err
}

func (r *PartnerRepository) UpdateCustomer(c *entity.Customer) error {
	return r.db.Save(c).Error
}

func (r *PartnerRepository) ListCustomers(params PartnerListParams) ([]entity.Customer, int64, error) {
	query := r.db.Model(&entity.Customer{}).Where("deleted_at IS NULL")
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", kw, kw)
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
	var customers []entity.Customer
	err := query.Order("code").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&customers).Error
	return customers, total, err
}
