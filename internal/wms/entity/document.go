package entity

// DocumentStatus 单据状态，封闭取值集合，状态迁移由 ledger 的状态机控制
type DocumentStatus string

const (
	StatusDraft              DocumentStatus = "DRAFT"
	StatusApproved           DocumentStatus = "APPROVED"
	StatusPartiallyFulfilled DocumentStatus = "PARTIAL"
	StatusFullyFulfilled     DocumentStatus = "COMPLETED"
	StatusCancelled          DocumentStatus = "CANCELLED"
)

// statusLabels 中文显示名，沿用原始单据口径
var statusLabels = map[DocumentStatus]string{
	StatusDraft:              "草稿",
	StatusApproved:           "已审核",
	StatusPartiallyFulfilled: "部分完成",
	StatusFullyFulfilled:     "已完成",
	StatusCancelled:          "取消",
}

// Label 返回状态的中文显示名
func (s DocumentStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid 判断是否属于封闭取值集合
func (s DocumentStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal 完成与取消为终态，终态单据不可再变更
func (s DocumentStatus) Terminal() bool {
	return s == StatusFullyFulfilled || s == StatusCancelled
}

// DocumentType 单据类型
type DocumentType string

const (
	DocTypePurchaseOrder DocumentType = "PURCHASE_ORDER"
	DocTypeSalesOrder    DocumentType = "SALES_ORDER"
	DocTypeStockIn       DocumentType = "STOCK_IN"
	DocTypeStockOut      DocumentType = "STOCK_OUT"
	DocTypeTransfer      DocumentType = "TRANSFER"
	DocTypeAdjustment    DocumentType = "ADJUSTMENT"
)

// SourceType 出入库单来源类型
const (
	SourcePurchase   = "采购入库"
	SourceProduction = "生产退料"
	SourceTransferIn = "调拨入库"
	SourceReturn     = "退货入库"
	SourceSales      = "销售出库"
	SourcePicking    = "生产领料"
	SourceTransfer   = "调拨出库"
	SourceScrap      = "报废出库"
	SourceOther      = "其他"
)

// AdjustmentType 库存调整类型
type AdjustmentType string

const (
	AdjustSurplus  AdjustmentType = "盘盈"
	AdjustShortage AdjustmentType = "盘亏"
	AdjustFreeze   AdjustmentType = "冻结"
	AdjustUnfreeze AdjustmentType = "解冻"
)

// Valid 判断调整类型是否合法
func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustSurplus, AdjustShortage, AdjustFreeze, AdjustUnfreeze:
		return true
	}
	return false
}
