package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrder 销售订单，Status 由明细发货进度推导
type SalesOrder struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderNo      string          `json:"order_no" gorm:"size:50;not null;uniqueIndex"`
	CustomerID   string          `json:"customer_id" gorm:"type:uuid;not null;index"`
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

	Details []SalesOrderDetail `json:"details,omitempty" gorm:"foreignKey:OrderID"`
}

func (SalesOrder) TableName() string {
	return "wms_sales_orders"
}

// SalesOrderDetail 销售订单明细。
// 0 <= ShippedQuantity <= Quantity，Amount = Quantity * UnitPrice
type SalesOrderDetail struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID         string          `json:"order_id" gorm:"type:uuid;not null;index"`
	MaterialID      string          `json:"material_id" gorm:"type:uuid;not null;index"`
	Quantity        decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	UnitID          string          `json:"unit_id" gorm:"type:uuid;not null"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
	ShippedQuantity decimal.Decimal `json:"shipped_quantity" gorm:"type:decimal(18,4);not null;default:0"`
	Remark          string          `json:"remark" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (SalesOrderDetail) TableName() string {
	return "wms_sales_order_details"
}
