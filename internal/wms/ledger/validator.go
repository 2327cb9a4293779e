package ledger

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

// Validator 单据校验器。只读校验，不触碰数量账；
// 校验通过不代表执行必然成功，执行期仍由 Store.Apply 原子把关
type Validator struct {
	catalog Catalog
	store   Store
	units   *UnitResolver
}

// NewValidator 创建单据校验器
func NewValidator(catalog Catalog, store Store, units *UnitResolver) *Validator {
	return &Validator{catalog: catalog, store: store, units: units}
}

// Validate 依次校验：单据头引用激活 -> 逐行物料/单位/库位激活与数量合法
// -> 履约增量不超过订购量 -> 出库方向的库存试算（不落账）
func (v *Validator) Validate(ctx context.Context, doc *Document) error {
	if err := v.validateHeader(doc); err != nil {
		return err
	}

	executable := 0
	for i, line := range doc.Lines {
		if line.Quantity.IsNegative() {
			return lineErr(i, "数量不能为负", nil)
		}
		if line.Quantity.IsZero() {
			// 收货/发货单据中本次未触达的行
			continue
		}
		executable++
		if err := v.validateLine(i, doc, line); err != nil {
			return err
		}
	}
	if executable == 0 {
		return ErrEmptyDocument
	}

	return v.projectOutbound(ctx, doc)
}

func (v *Validator) validateHeader(doc *Document) error {
	if doc.WarehouseID != "" {
		wh, err := v.catalog.Warehouse(doc.WarehouseID)
		if err != nil {
			return headerErr("仓库不存在")
		}
		if !wh.IsActive {
			return headerErr(fmt.Sprintf("仓库 %s 已停用", wh.Code))
		}
	}
	if doc.Type == entity.DocTypePurchaseOrder {
		sup, err := v.catalog.Supplier(doc.SupplierID)
		if err != nil {
			return headerErr("供应商不存在")
		}
		if !sup.IsActive {
			return headerErr(fmt.Sprintf("供应商 %s 已停用", sup.Code))
		}
	}
	if doc.Type == entity.DocTypeSalesOrder {
		cus, err := v.catalog.Customer(doc.CustomerID)
		if err != nil {
			return headerErr("客户不存在")
		}
		if !cus.IsActive {
			return headerErr(fmt.Sprintf("客户 %s 已停用", cus.Code))
		}
	}
	if doc.Type == entity.DocTypeAdjustment && !doc.AdjustmentType.Valid() {
		return headerErr(fmt.Sprintf("非法的调整类型: %s", doc.AdjustmentType))
	}
	return nil
}

func (v *Validator) validateLine(i int, doc *Document, line Line) error {
	mat, err := v.catalog.Material(line.MaterialID)
	if err != nil {
		return lineErr(i, "物料不存在", err)
	}
	if !mat.IsActive {
		return lineErr(i, fmt.Sprintf("物料 %s 已停用", mat.Code), ErrInactiveMaterial)
	}

	unit, err := v.catalog.Unit(line.UnitID)
	if err != nil {
		return lineErr(i, "计量单位未登记", ErrUnknownUnit)
	}
	if !unit.IsActive {
		return lineErr(i, fmt.Sprintf("计量单位 %s 已停用", unit.Code), ErrInactiveUnit)
	}

	switch doc.Type {
	case entity.DocTypeTransfer:
		if line.FromLocationID == line.ToLocationID {
			return lineErr(i, "源库位与目标库位不能相同", nil)
		}
		if err := v.checkLocation(i, line.FromLocationID); err != nil {
			return err
		}
		if err := v.checkLocation(i, line.ToLocationID); err != nil {
			return err
		}
	default:
		if err := v.checkLocation(i, line.LocationID); err != nil {
			return err
		}
	}

	// 采购收货/销售发货的累计履约不得超过订购数量
	if doc.Type == entity.DocTypePurchaseOrder || doc.Type == entity.DocTypeSalesOrder {
		if line.Fulfilled.Add(line.Quantity).GreaterThan(line.Ordered) {
			return lineErr(i, fmt.Sprintf("累计数量 %s 超过订购数量 %s",
				line.Fulfilled.Add(line.Quantity), line.Ordered), nil)
		}
	}
	return nil
}

func (v *Validator) checkLocation(i int, locationID string) error {
	loc, err := v.catalog.Location(locationID)
	if err != nil {
		return lineErr(i, "库位不存在", err)
	}
	if !loc.IsActive {
		return lineErr(i, fmt.Sprintf("库位 %s 已停用", loc.Code), nil)
	}
	return nil
}

// projectOutbound 对出库方向做试算：扣减后的可用/冻结数量不得为负。
// 同一 (物料, 库位) 的多行先合并再比对
func (v *Validator) projectOutbound(ctx context.Context, doc *Document) error {
	deltas, err := buildDeltas(doc, v.units)
	if err != nil {
		return err
	}
	for key, d := range MergeDeltas(deltas) {
		if !d.Available.IsNegative() && !d.Frozen.IsNegative() {
			continue
		}
		lvl, err := v.store.Get(ctx, key.MaterialID, key.LocationID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if d.Available.IsNegative() && lvl.AvailableQty.Add(d.Available).IsNegative() {
			return &StockError{MaterialID: key.MaterialID, LocationID: key.LocationID, Err: ErrInsufficientStock}
		}
		if d.Frozen.IsNegative() && lvl.FrozenQty.Add(d.Frozen).IsNegative() {
			return &StockError{MaterialID: key.MaterialID, LocationID: key.LocationID, Err: ErrInsufficientStock}
		}
	}
	return nil
}
