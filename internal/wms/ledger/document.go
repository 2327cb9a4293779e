package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

// Document 引擎视角的单据：单据头 + 明细行，与具体存储实体解耦。
// 采购收货/销售发货在 Lines 里带上订单的全部明细，本次未触达的行 Quantity 为零
type Document struct {
	ID             string
	No             string
	Type           entity.DocumentType
	Status         entity.DocumentStatus
	WarehouseID    string
	SupplierID     string
	CustomerID     string
	AdjustmentType entity.AdjustmentType
	Lines          []Line
}

// Line 单据明细行。Quantity 为本次执行数量（行单位口径）；
// Ordered/Fulfilled 用于采购/销售的累计履约跟踪，
// 一次性完成的单据（出入库/调拨/调整）Ordered 等于 Quantity
type Line struct {
	DetailID       string
	MaterialID     string
	UnitID         string
	LocationID     string
	FromLocationID string
	ToLocationID   string
	BatchNo        string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	Ordered        decimal.Decimal
	Fulfilled      decimal.Decimal
}

// Result 一次成功执行的产物，由调用方在同一事务内落库
type Result struct {
	Status       entity.DocumentStatus
	Deltas       []Delta
	Levels       []entity.StockLevel
	Fulfillments map[string]decimal.Decimal
	Journal      []entity.StockTransaction
}
