package repository

import (
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) WithTx(tx *gorm.DB) *TransferRepository {
	return &TransferRepository{db: tx}
}

func (r *TransferRepository) Create(order *entity.TransferOrder) error {
	return r.db.Create(order).Error
}

func (r *TransferRepository) GetByID(id string) (*entity.TransferOrder, error) {
	var order entity.TransferOrder
	err := r.db.Preload("Details").
		Where("id = ? AND deleted_at IS NULL", id).First(&order).Error
	return &order, err
}

type TransferListParams struct {
	Status          string
	FromWarehouseID string
	ToWarehouseID   string
	Keyword         string
	Page            int
	Size            int
}

func (r *TransferRepository) List(params TransferListParams) ([]entity.TransferOrder, int64, error) {
	query := r.db.Model(&entity.TransferOrder{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.FromWarehouseID != "" {
		query = query.Where("from_warehouse_id = ?", params.FromWarehouseID)
	}
	if params.ToWarehouseID != "" {
		query = query.Where("to_warehouse_id = ?", params.ToWarehouseID)
	}
	if params.Keyword != "" {
		query = query.Where("transfer_no ILIKE ?", "%"+params.Keyword+"%")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.TransferOrder
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&orders).Error
	return orders, total, err
}
