package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryAdjustment 库存调整单。盘盈增加库存、盘亏扣减库存；
// 冻结/解冻在可用与冻结子账之间转移数量，库位在库总量不变
type InventoryAdjustment struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AdjustmentNo   string         `json:"adjustment_no" gorm:"size:50;not null;uniqueIndex"`
	WarehouseID    string         `json:"warehouse_id" gorm:"type:uuid;not null;index"`
	AdjustmentDate time.Time      `json:"adjustment_date" gorm:"not null"`
	AdjustmentType AdjustmentType `json:"adjustment_type" gorm:"size:10;not null"`
	Status         DocumentStatus `json:"status" gorm:"size:20;not null;default:DRAFT"`
	Remark         string         `json:"remark" gorm:"type:text"`
	CreatedBy      string         `json:"created_by" gorm:"size:64;not null"`
	UpdatedBy      string         `json:"updated_by" gorm:"size:64"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      *time.Time     `json:"deleted_at" gorm:"index"`

	Details []InventoryAdjustmentDetail `json:"details,omitempty" gorm:"foreignKey:AdjustmentID"`
}

func (InventoryAdjustment) TableName() string {
	return "wms_inventory_adjustments"
}

// InventoryAdjustmentDetail 库存调整明细，指明调整的物料、库位与数量
type InventoryAdjustmentDetail struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AdjustmentID string          `json:"adjustment_id" gorm:"type:uuid;not null;index"`
	MaterialID   string          `json:"material_id" gorm:"type:uuid;not null;index"`
	LocationID   string          `json:"location_id" gorm:"type:uuid;not null;index"`
	BatchNo      string          `json:"batch_no" gorm:"size:50"`
	Quantity     decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	UnitID       string          `json:"unit_id" gorm:"type:uuid;not null"`
	Remark       string          `json:"remark" gorm:"type:text"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (InventoryAdjustmentDetail) TableName() string {
	return "wms_inventory_adjustment_details"
}
