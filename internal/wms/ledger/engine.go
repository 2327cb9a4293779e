package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

// Engine 台账引擎。把一张已审核的单据作为一个原子变更集落到数量账上：
// 换算基础单位 -> 组合变更集 -> 一次 Apply -> 推导履约计数与新状态。
// 任何一步失败整单拒绝，不产生部分效果
type Engine struct {
	catalog   Catalog
	store     Store
	units     *UnitResolver
	validator *Validator
}

// NewEngine 创建台账引擎
func NewEngine(catalog Catalog, store Store) *Engine {
	units := NewUnitResolver(catalog)
	return &Engine{
		catalog:   catalog,
		store:     store,
		units:     units,
		validator: NewValidator(catalog, store, units),
	}
}

// Validator 暴露校验器供调用方做只读预检
func (e *Engine) Validator() *Validator {
	return e.validator
}

// Execute 执行单据：校验 -> 原子落账 -> 履约推进。
// 调用方负责在读取单据快照之前取得单据锁，并持有到事务提交之后；
// 返回的 Result 由调用方与单据更新一起在同一事务内持久化
func (e *Engine) Execute(ctx context.Context, doc *Document, operator string) (*Result, error) {
	if len(doc.Lines) == 0 {
		return nil, ErrEmptyDocument
	}
	if doc.Status.Terminal() {
		return nil, ErrAlreadyTerminal
	}
	if !Executable(doc.Status) {
		return nil, headerErr(fmt.Sprintf("状态 %s 的单据不可执行", doc.Status.Label()))
	}

	if err := e.validator.Validate(ctx, doc); err != nil {
		return nil, err
	}

	deltas, err := buildDeltas(doc, e.units)
	if err != nil {
		return nil, err
	}

	levels, err := e.store.Apply(ctx, deltas)
	if err != nil {
		return nil, err
	}

	fulfillments, fulfillment := advanceFulfillment(doc)
	status, err := Advance(doc.Status, fulfillment)
	if err != nil {
		// 落账已成功却推不动状态说明状态被并发改写，单据锁应当排除这种情况
		return nil, err
	}

	return &Result{
		Status:       status,
		Deltas:       deltas,
		Levels:       levels,
		Fulfillments: fulfillments,
		Journal:      journalEntries(doc, deltas, operator),
	}, nil
}

// buildDeltas 把单据明细换算为基础单位并组合成带符号的变更集
func buildDeltas(doc *Document, units *UnitResolver) ([]Delta, error) {
	deltas := make([]Delta, 0, len(doc.Lines))
	for i, line := range doc.Lines {
		if line.Quantity.IsZero() {
			continue
		}
		base, err := units.ToBase(line.MaterialID, line.UnitID, line.Quantity)
		if err != nil {
			return nil, lineErr(i, err.Error(), err)
		}

		switch doc.Type {
		case entity.DocTypeStockIn, entity.DocTypePurchaseOrder:
			deltas = append(deltas, Delta{
				MaterialID: line.MaterialID, LocationID: line.LocationID,
				Available: base, BatchNo: line.BatchNo,
			})
		case entity.DocTypeStockOut, entity.DocTypeSalesOrder:
			deltas = append(deltas, Delta{
				MaterialID: line.MaterialID, LocationID: line.LocationID,
				Available: base.Neg(), BatchNo: line.BatchNo,
			})
		case entity.DocTypeTransfer:
			deltas = append(deltas,
				Delta{
					MaterialID: line.MaterialID, LocationID: line.FromLocationID,
					Available: base.Neg(), BatchNo: line.BatchNo,
				},
				Delta{
					MaterialID: line.MaterialID, LocationID: line.ToLocationID,
					Available: base, BatchNo: line.BatchNo,
				})
		case entity.DocTypeAdjustment:
			switch doc.AdjustmentType {
			case entity.AdjustSurplus:
				deltas = append(deltas, Delta{
					MaterialID: line.MaterialID, LocationID: line.LocationID,
					Available: base, BatchNo: line.BatchNo,
				})
			case entity.AdjustShortage:
				deltas = append(deltas, Delta{
					MaterialID: line.MaterialID, LocationID: line.LocationID,
					Available: base.Neg(), BatchNo: line.BatchNo,
				})
			case entity.AdjustFreeze:
				// 可用转冻结，库位净变化为零
				deltas = append(deltas, Delta{
					MaterialID: line.MaterialID, LocationID: line.LocationID,
					Available: base.Neg(), Frozen: base, BatchNo: line.BatchNo,
				})
			case entity.AdjustUnfreeze:
				deltas = append(deltas, Delta{
					MaterialID: line.MaterialID, LocationID: line.LocationID,
					Available: base, Frozen: base.Neg(), BatchNo: line.BatchNo,
				})
			default:
				return nil, headerErr(fmt.Sprintf("非法的调整类型: %s", doc.AdjustmentType))
			}
		default:
			return nil, headerErr(fmt.Sprintf("未知的单据类型: %s", doc.Type))
		}
	}
	return deltas, nil
}

// advanceFulfillment 计算每行新的累计履约量与单据整体完成度
func advanceFulfillment(doc *Document) (map[string]decimal.Decimal, Fulfillment) {
	fulfillments := make(map[string]decimal.Decimal, len(doc.Lines))
	full := true
	executed := false
	for _, line := range doc.Lines {
		target := line.Ordered
		if target.IsZero() {
			// 一次性完成的单据，执行量即目标量
			target = line.Quantity
		}
		next := line.Fulfilled.Add(line.Quantity)
		fulfillments[line.DetailID] = next
		if !line.Quantity.IsZero() {
			executed = true
		}
		if next.LessThan(target) {
			full = false
		}
	}
	switch {
	case !executed:
		return fulfillments, FulfillmentNone
	case full:
		return fulfillments, FulfillmentFull
	default:
		return fulfillments, FulfillmentPartial
	}
}

// journalEntries 为每条变更生成一条库存流水
func journalEntries(doc *Document, deltas []Delta, operator string) []entity.StockTransaction {
	entries := make([]entity.StockTransaction, 0, len(deltas))
	for _, d := range deltas {
		entries = append(entries, entity.StockTransaction{
			MaterialID:   d.MaterialID,
			LocationID:   d.LocationID,
			Quantity:     d.Available,
			FrozenDelta:  d.Frozen,
			BatchNo:      d.BatchNo,
			DocumentType: doc.Type,
			DocumentID:   doc.ID,
			DocumentNo:   doc.No,
			CreatedBy:    operator,
		})
	}
	return entries
}
