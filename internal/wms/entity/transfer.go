package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferOrder 调拨单，物料在仓库间转移
type TransferOrder struct {
	ID              string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TransferNo      string         `json:"transfer_no" gorm:"size:50;not null;uniqueIndex"`
	FromWarehouseID string         `json:"from_warehouse_id" gorm:"type:uuid;not null;index"`
	ToWarehouseID   string         `json:"to_warehouse_id" gorm:"type:uuid;not null;index"`
	TransferDate    time.Time      `json:"transfer_date" gorm:"not null"`
	Status          DocumentStatus `json:"status" gorm:"size:20;not null;default:DRAFT"`
	Remark          string         `json:"remark" gorm:"type:text"`
	CreatedBy       string         `json:"created_by" gorm:"size:64;not null"`
	UpdatedBy       string         `json:"updated_by" gorm:"size:64"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       *time.Time     `json:"deleted_at" gorm:"index"`

	Details []TransferOrderDetail `json:"details,omitempty" gorm:"foreignKey:TransferID"`
}

func (TransferOrder) TableName() string {
	return "wms_transfer_orders"
}

// TransferOrderDetail 调拨单明细。执行时源库位扣减、目标库位增加，
// 两笔变更在同一原子提交内；FromLocationID 不得等于 ToLocationID
type TransferOrderDetail struct {
	ID             string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TransferID     string          `json:"transfer_id" gorm:"type:uuid;not null;index"`
	MaterialID     string          `json:"material_id" gorm:"type:uuid;not null;index"`
	BatchNo        string          `json:"batch_no" gorm:"size:50"`
	Quantity       decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	UnitID         string          `json:"unit_id" gorm:"type:uuid;not null"`
	FromLocationID string          `json:"from_location_id" gorm:"type:uuid;not null;index"`
	ToLocationID   string          `json:"to_location_id" gorm:"type:uuid;not null;index"`
	Remark         string          `json:"remark" gorm:"type:text"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (TransferOrderDetail) TableName() string {
	return "wms_transfer_order_details"
}
