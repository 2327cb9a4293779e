package repository

import (
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

type AdjustmentRepository struct {
	db *gorm.DB
}

func NewAdjustmentRepository(db *gorm.DB) *AdjustmentRepository {
	return &AdjustmentRepository{db: db}
}

func (r *AdjustmentRepository) WithTx(tx *gorm.DB) *AdjustmentRepository {
	return &AdjustmentRepository{db: tx}
}

func (r *AdjustmentRepository) Create(adj *entity.InventoryAdjustment) error {
	return r.db.Create(adj).Error
}

func (r *AdjustmentRepository) GetByID(id string) (*entity.InventoryAdjustment, error) {
	var adj entity.InventoryAdjustment
	err := r.db.Preload("Details").
		Where("id = ? AND deleted_at IS NULL", id).First(&adj).Error
	return &adj, err
}

type AdjustmentListParams struct {
	Status         string
	WarehouseID    string
	AdjustmentType string
	Page           int
	Size           int
}

func (r *AdjustmentRepository) List(params AdjustmentListParams) ([]entity.InventoryAdjustment, int64, error) {
	query := r.db.Model(&entity.InventoryAdjustment{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.WarehouseID != "" {
		query = query.Where("warehouse_id = ?", params.WarehouseID)
	}
	if params.AdjustmentType != "" {
		query = query.Where("adjustment_type = ?", params.AdjustmentType)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var adjustments []entity.InventoryAdjustment
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&adjustments).Error
	return adjustments, total, err
}
