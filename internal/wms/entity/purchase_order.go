package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder 采购订单。TotalAmount = 所有明细 Amount 之和，
// Status 由明细收货进度推导（状态机见 ledger）
type PurchaseOrder struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderNo      string          `json:"order_no" gorm:"size:50;not null;uniqueIndex"`
	SupplierID   string          `json:"supplier_id" gorm:"type:uuid;not null;index"`
	OrderDate    time.Time       `json:"order_date" gorm:"not null"`
	ExpectedDate *time.Time      `json:"expected_date"`
	TotalAmount  decimal.Decimal `json:"total_amount" gorm:"type:decimal(18,2);not null;default:0"`
	Status       DocumentStatus  `json:"status" gorm:"size:20;not null;default:DRAFT"`
	Remark       string          `json:"remark" gorm:"type:text"`
	CreatedBy    string          `json:"created_by" gorm:"size:64;not null"`
	UpdatedBy    string          `json:"updated_by" gorm:"size:64"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    *time.Time      `json:"deleted_at" gorm:"index"`

	Details []PurchaseOrderDetail `json:"details,omitempty" gorm:"foreignKey:OrderID"`
}

func (PurchaseOrder) TableName() string {
	return "wms_purchase_orders"
}

// PurchaseOrderDetail 采购订单明细。
// 0 <= ReceivedQuantity <= Quantity，Amount = Quantity * UnitPrice
type PurchaseOrderDetail struct {
	ID               string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID          string          `json:"order_id" gorm:"type:uuid;not null;index"`
	MaterialID       string          `json:"material_id" gorm:"type:uuid;not null;index"`
	Quantity         decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	UnitID           string          `json:"unit_id" gorm:"type:uuid;not null"`
	UnitPrice        decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity" gorm:"type:decimal(18,4);not null;default:0"`
	Remark           string          `json:"remark" gorm:"type:text"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (PurchaseOrderDetail) TableName() string {
	return "wms_purchase_order_details"
}
