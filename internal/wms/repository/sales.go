package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
)

type SalesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

func (r *SalesRepository) WithTx(tx *gorm.DB) *SalesRepository {
	return &SalesRepository{db: tx}
}

func (r *SalesRepository) Create(so *entity.SalesOrder) error {
	return r.db.Create(so).Error
}

func (r *SalesRepository) GetByID(id string) (*entity.SalesOrder, error) {
	var so entity.SalesOrder
	err := r.db.Preload("Details").
		Where("id = ? AND deleted_at IS NULL", id).First(&so).Error
	return &so, err
}

func (r *SalesRepository) GetByNo(orderNo string) (*entity.SalesOrder, error) {
	var so entity.SalesOrder
	err := r.db.Preload("Details").
		Where("order_no = ? AND deleted_at IS NULL", orderNo).First(&so).Error
	return &so, err
}

// UpdateDetailShipped 在前值守卫下累加明细的已发数量。
// 快照里的已发数量与账面不一致时更新 0 行，按 ErrBusy 处理
func (r *SalesRepository) UpdateDetailShipped(detailID string, prev, delta decimal.Decimal) error {
	res := r.db.Model(&entity.SalesOrderDetail{}).
		Where("id = ? AND shipped_quantity = ?", detailID, prev).
		Update("shipped_quantity", gorm.Expr("shipped_quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ledger.ErrBusy
	}
	return nil
}

func (r *SalesRepository) List(params OrderListParams) ([]entity.SalesOrder, int64, error) {
	query := r.db.Model(&entity.SalesOrder{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.PartnerID != "" {
		query = query.Where("customer_id = ?", params.PartnerID)
	}
	if params.Keyword != "" {
		query = query.Where("order_no ILIKE ?", "%"+params.Keyword+"%")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.SalesOrder
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&orders).Error
	return orders, total, err
}
