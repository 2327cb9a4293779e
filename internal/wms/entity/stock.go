package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel (物料, 库位) 维度的在库数量，数量账的唯一事实。
// AvailableQty 与 FrozenQty 分账：冻结调整在两者间转移，均不得为负。
// 数量一律以物料基础单位记账
type StockLevel struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MaterialID   string          `json:"material_id" gorm:"type:uuid;not null;uniqueIndex:idx_stock_material_location,priority:1"`
	LocationID   string          `json:"location_id" gorm:"type:uuid;not null;uniqueIndex:idx_stock_material_location,priority:2"`
	AvailableQty decimal.Decimal `json:"available_qty" gorm:"type:decimal(18,4);not null;default:0"`
	FrozenQty    decimal.Decimal `json:"frozen_qty" gorm:"type:decimal(18,4);not null;default:0"`
	LastMovedAt  *time.Time      `json:"last_moved_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (StockLevel) TableName() string {
	return "wms_stock_levels"
}

// OnHand 可用与冻结之和，即库位上该物料的在库总量
func (s StockLevel) OnHand() decimal.Decimal {
	return s.AvailableQty.Add(s.FrozenQty)
}

// StockTransaction 库存流水，记录每一笔已提交的数量变更（正入负出）
type StockTransaction struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MaterialID   string          `json:"material_id" gorm:"type:uuid;not null;index"`
	LocationID   string          `json:"location_id" gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	FrozenDelta  decimal.Decimal `json:"frozen_delta" gorm:"type:decimal(18,4);not null;default:0"`
	BatchNo      string          `json:"batch_no" gorm:"size:50"`
	DocumentType DocumentType    `json:"document_type" gorm:"size:20;not null"`
	DocumentID   string          `json:"document_id" gorm:"type:uuid;not null;index"`
	DocumentNo   string          `json:"document_no" gorm:"size:50"`
	Remark       string          `json:"remark" gorm:"type:text"`
	CreatedBy    string          `json:"created_by" gorm:"size:64;not null"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (StockTransaction) TableName() string {
	return "wms_stock_transactions"
}
