package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockInOrder 入库单。SourceType 为采购入库且 SourceNo 指向采购订单时，
// 执行入库会同步推进对应采购明细的已收数量
type StockInOrder struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderNo       string          `json:"order_no" gorm:"size:50;not null;uniqueIndex"`
	SourceType    string          `json:"source_type" gorm:"size:20;not null;default:其他"`
	SourceNo      string          `json:"source_no" gorm:"size:50;index"`
	WarehouseID   string          `json:"warehouse_id" gorm:"type:uuid;not null;index"`
	InDate        time.Time       `json:"in_date" gorm:"not null"`
	TotalQuantity decimal.Decimal `json:"total_quantity" gorm:"type:decimal(18,4);not null;default:0"`
	Status        DocumentStatus  `json:"status" gorm:"size:20;not null;default:DRAFT"`
	Remark        string          `json:"remark" gorm:"type:text"`
	CreatedBy     string          `json:"created_by" gorm:"size:64;not null"`
	UpdatedBy     string          `json:"updated_by" gorm:"size:64"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at" gorm:"index"`

	Details []StockInOrderDetail `json:"details,omitempty" gorm:"foreignKey:OrderID"`
}

func (StockInOrder) TableName() string {
	return "wms_stock_in_orders"
}

// StockInOrderDetail 入库单明细，执行时在 LocationID 增加库存
type StockInOrderDetail struct {
	ID             string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID        string          `json:"order_id" gorm:"type:uuid;not null;index"`
	MaterialID     string          `json:"material_id" gorm:"type:uuid;not null;index"`
	BatchNo        string          `json:"batch_no" gorm:"size:50;index"`
	Quantity       decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	UnitID         string          `json:"unit_id" gorm:"type:uuid;not null"`
	LocationID     string          `json:"location_id" gorm:"type:uuid;not null;index"`
	ProductionDate *time.Time      `json:"production_date"`
	ExpiryDate     *time.Time      `json:"expiry_date"`
	Remark         string          `json:"remark" gorm:"type:text"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (StockInOrderDetail) TableName() string {
	return "wms_stock_in_order_details"
}
