package repository

import (
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

type StockOutRepository struct {
	db *gorm.DB
}

func NewStockOutRepository(db *gorm.DB) *StockOutRepository {
	return &StockOutRepository{db: db}
}

func (r *StockOutRepository) WithTx(tx *gorm.DB) *StockOutRepository {
	return &StockOutRepository{db: tx}
}

func (r *StockOutRepository) Create(order *entity.StockOutOrder) error {
	return r.db.Create(order).Error
}

func (r *StockOutRepository) GetByID(id string) (*entity.StockOutOrder, error) {
	var order entity.StockOutOrder
	err := r.db.Preload("Details").
		Where("id = ? AND deleted_at IS NULL", id).First(&order).Error
	return &order, err
}

func (r *StockOutRepository) List(params StockOrderListParams) ([]entity.StockOutOrder, int64, error) {
	query := r.db.Model(&entity.StockOutOrder{}).Where("deleted_at IS NULL")
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
	var orders []entity.StockOutOrder
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&orders).Error
	return orders, total, err
}
