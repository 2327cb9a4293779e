package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UnitResolver 单位换算。所有记账数量统一折算为物料基础单位，
// 换算为精确十进制乘法，无浮点舍入
type UnitResolver struct {
	catalog Catalog
}

// NewUnitResolver 创建单位换算器
func NewUnitResolver(catalog Catalog) *UnitResolver {
	return &UnitResolver{catalog: catalog}
}

// ToBase 把 quantity 从 unitID 折算为 materialID 的基础单位数量。
// 物料或单位停用、单位未登记、因子非法时报错
func (r *UnitResolver) ToBase(materialID, unitID string, quantity decimal.Decimal) (decimal.Decimal, error) {
	mat, err := r.catalog.Material(materialID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("物料不存在: %w", err)
	}
	if !mat.IsActive {
		return decimal.Zero, ErrInactiveMaterial
	}

	unit, err := r.catalog.Unit(unitID)
	if err != nil {
		return decimal.Zero, ErrUnknownUnit
	}
	if !unit.IsActive {
		return decimal.Zero, ErrInactiveUnit
	}

	if unit.IsBaseUnit {
		// 基础单位因子恒为 1
		return quantity, nil
	}
	if !unit.ConversionFactor.IsPositive() {
		return decimal.Zero, fmt.Errorf("单位 %s 的转换因子非法: %s", unit.Code, unit.ConversionFactor)
	}
	return quantity.Mul(unit.ConversionFactor), nil
}
