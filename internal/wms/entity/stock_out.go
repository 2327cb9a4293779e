package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockOutOrder 出库单。SourceType 为销售出库且 SourceNo 指向销售订单时，
// 执行出库会同步推进对应销售明细的已发数量
type StockOutOrder struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderNo       string          `json:"order_no" gorm:"size:50;not null;uniqueIndex"`
	SourceType    string          `json:"source_type" gorm:"size:20;not null;default:其他"`
	SourceNo      string          `json:"source_no" gorm:"size:50;index"`
	WarehouseID   string          `json:"warehouse_id" gorm:"type:uuid;not null;index"`
	OutDate       time.Time       `json:"out_date" gorm:"not null"`
	TotalQuantity decimal.Decimal `json:"total_quantity" gorm:"type:decimal(18,4);not null;default:0"`
	Status        DocumentStatus  `json:"status" gorm:"size:20;not null;default:DRAFT"`
	Remark        string          `json:"remark" gorm:"type:text"`
	CreatedBy     string          `json:"created_by" gorm:"size:64;not null"`
	UpdatedBy     string          `json:"updated_by" gorm:"size:64"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at" gorm:"index"`

	Details []StockOutOrderDetail `json:"details,omitempty" gorm:"foreignKey:OrderID"`
}

func (StockOutOrder) TableName() string {
	return "wms_stock_out_orders"
}

// StockOutOrderDetail 出库单明细，执行时在 LocationID 扣减库存，
// 基础单位换算后的数量不得超过该库位当时的在库量
type StockOutOrderDetail struct {
	ID         string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID    string          `json:"order_id" gorm:"type:uuid;not null;index"`
	MaterialID string          `json:"material_id" gorm:"type:uuid;not null;index"`
	BatchNo    string          `json:"batch_no" gorm:"size:50;index"`
	Quantity   decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	UnitID     string          `json:"unit_id" gorm:"type:uuid;not null"`
	LocationID string          `json:"location_id" gorm:"type:uuid;not null;index"`
	Remark     string          `json:"remark" gorm:"type:text"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (StockOutOrderDetail) TableName() string {
	return "wms_stock_out_order_details"
}
