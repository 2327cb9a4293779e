package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) WithTx(tx *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: tx}
}

// Create 连同明细一起创建
func (r *PurchaseRepository) Create(po *entity.PurchaseOrder) error {
	return r.db.Create(po).Error
}

func (r *PurchaseRepository) GetByID(id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.Preload("Details").
		Where("id = ? AND deleted_at IS NULL", id).First(&po).Error
	return &po, err
}

func (r *PurchaseRepository) GetByNo(orderNo string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.Preload("Details").
		Where("order_no = ? AND deleted_at IS NULL", orderNo).First(&po).Error
	return &po, err
}

// UpdateDetailReceived 在前值守卫下累加明细的已收数量。
// 快照里的已收数量与账面不一致时更新 0 行，按 ErrBusy 处理
func (r *PurchaseRepository) UpdateDetailReceived(detailID string, prev, delta decimal.Decimal) error {
	res := r.db.Model(&entity.PurchaseOrderDetail{}).
		Where("id = ? AND received_quantity = ?", detailID, prev).
		Update("received_quantity", gorm.Expr("received_quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ledger.ErrBusy
	}
	return nil
}

type OrderListParams struct {
	Status    string
	PartnerID string
	Keyword   string
	Page      int
	Size      int
}

func (r *PurchaseRepository) List(params OrderListParams) ([]entity.PurchaseOrder, int64, error) {
	query := r.db.Model(&entity.PurchaseOrder{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.PartnerID != "" {
		query = query.Where("supplier_id = ?", params.PartnerID)
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
	var orders []entity.PurchaseOrder
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&orders).Error
	return orders, total, err
}
