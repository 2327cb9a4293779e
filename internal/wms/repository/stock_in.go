package repository

import (
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

type StockInRepository struct {
	db *gorm.DB
}

func NewStockInRepository(db *gorm.DB) *StockInRepository {
	return &StockInRepository{db: db}
}

func (r *StockInRepository) WithTx(tx *gorm.DB) *StockInRepository {
	return &StockInRepository{db: tx}
}

func (r *StockInRepository) Create(order *entity.StockInOrder) error {
	return r.db.Create(order).Error
}

func (r *StockInRepository) GetByID(id string) (*entity.StockInOrder, error) {
	var order entity.StockInOrder
	err := r.db.Preload("Details").
		Where("id = ? AND deleted_at IS NULL", id).First(&order).Error
	return &order, err
}

type StockOrderListParams struct {
	Status      string
	WarehouseID string
	SourceType  string
	Keyword     string
	Page        int
	Size        int
}

func (r *StockInRepository) List(params StockOrderListParams) ([]entity.StockInOrder, int64, error) {
	query := r.db.Model(&entity.StockInOrder{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.WarehouseID != "" {
		query = query.Where("warehouse_id = ?", params.WarehouseID)
	}
	if params.SourceType != "" {
		query = query.Where("source_type = ?", params.SourceType)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("order_no ILIKE ? OR source_no ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.StockInOrder
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&orders).Error
	return orders, total, err
}
