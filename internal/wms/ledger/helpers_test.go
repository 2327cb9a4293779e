package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

// fakeCatalog 测试用主数据，按 ID 直查的内存表
type fakeCatalog struct {
	materials  map[string]*entity.Material
	units      map[string]*entity.MaterialUnit
	locations  map[string]*entity.StorageLocation
	warehouses map[string]*entity.Warehouse
	suppliers  map[string]*entity.Supplier
	customers  map[string]*entity.Customer
}

func (c *fakeCatalog) Material(id string) (*entity.Material, error) {
	if m, ok := c.materials[id]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("material %s not found", id)
}

func (c *fakeCatalog) Unit(id string) (*entity.MaterialUnit, error) {
	if u, ok := c.units[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("unit %s not found", id)
}

func (c *fakeCatalog) Location(id string) (*entity.StorageLocation, error) {
	if l, ok := c.locations[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("location %s not found", id)
}

func (c *fakeCatalog) Warehouse(id string) (*entity.Warehouse, error) {
	if w, ok := c.warehouses[id]; ok {
		return w, nil
	}
	return nil, fmt.Errorf("warehouse %s not found", id)
}

func (c *fakeCatalog) Supplier(id string) (*entity.Supplier, error) {
	if s, ok := c.suppliers[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("supplier %s not found", id)
}

func (c *fakeCatalog) Customer(id string) (*entity.Customer, error) {
	if cu, ok := c.customers[id]; ok {
		return cu, nil
	}
	return nil, fmt.Errorf("customer %s not found", id)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// newFakeCatalog 准备一套常用主数据：
// 物料 M1（基础单位 U-PCS，包装单位 U-BOX 因子 10，MinStock 20，MaxStock 500），
// 库位 L1（上限 150）、L2、L3，仓库 WH1，供应商 SUP1，客户 CUS1
func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		materials: map[string]*entity.Material{
			"M1": {ID: "M1", Code: "MAT-001", Name: "电阻1kΩ", BaseUnitID: "U-PCS",
				MinStock: dec("20"), MaxStock: decPtr("500"), IsActive: true},
			"M2": {ID: "M2", Code: "MAT-002", Name: "轴承6203", BaseUnitID: "U-PCS",
				MinStock: dec("0"), IsActive: true},
			"M-OFF": {ID: "M-OFF", Code: "MAT-OFF", Name: "停用物料", BaseUnitID: "U-PCS",
				MinStock: dec("0"), IsActive: false},
		},
		units: map[string]*entity.MaterialUnit{
			"U-PCS": {ID: "U-PCS", Code: "PC", Name: "个", ConversionFactor: dec("1"),
				IsBaseUnit: true, IsActive: true},
			"U-BOX": {ID: "U-BOX", Code: "BOX", Name: "箱", ConversionFactor: dec("10"),
				IsActive: true},
			"U-OFF": {ID: "U-OFF", Code: "OFF", Name: "停用单位", ConversionFactor: dec("5"),
				IsActive: false},
		},
		locations: map[string]*entity.StorageLocation{
			"L1": {ID: "L1", Code: "L0101", RackID: "R1", MaxQuantity: decPtr("150"), IsActive: true},
			"L2": {ID: "L2", Code: "L0102", RackID: "R1", IsActive: true},
			"L3": {ID: "L3", Code: "L0103", RackID: "R1", IsActive: true},
			"L-OFF": {ID: "L-OFF", Code: "L0199", RackID: "R1", IsActive: false},
		},
		warehouses: map[string]*entity.Warehouse{
			"WH1":    {ID: "WH1", Code: "WH001", Name: "上海中央仓", IsActive: true},
			"WH-OFF": {ID: "WH-OFF", Code: "WH099", Name: "停用仓", IsActive: false},
		},
		suppliers: map[string]*entity.Supplier{
			"SUP1":    {ID: "SUP1", Code: "SP001", Name: "供应商一", IsActive: true},
			"SUP-OFF": {ID: "SUP-OFF", Code: "SP099", Name: "停用供应商", IsActive: false},
		},
		customers: map[string]*entity.Customer{
			"CUS1": {ID: "CUS1", Code: "CS001", Name: "客户一", IsActive: true},
		},
	}
}

// seedStock 直接向数量账灌入期初库存
func seedStock(t *testing.T, store Store, materialID, locationID, qty string) {
	t.Helper()
	_, err := store.Apply(context.Background(), []Delta{{
		MaterialID: materialID, LocationID: locationID, Available: dec(qty),
	}})
	if err != nil {
		t.Fatalf("seed stock %s@%s=%s: %v", materialID, locationID, qty, err)
	}
}

func mustGet(t *testing.T, store Store, materialID, locationID string) entity.StockLevel {
	t.Helper()
	lvl, err := store.Get(context.Background(), materialID, locationID)
	if err != nil {
		t.Fatalf("get %s@%s: %v", materialID, locationID, err)
	}
	return lvl
}

func assertAvailable(t *testing.T, store Store, materialID, locationID, want string) {
	t.Helper()
	lvl := mustGet(t, store, materialID, locationID)
	if !lvl.AvailableQty.Equal(dec(want)) {
		t.Errorf("available %s@%s = %s, want %s", materialID, locationID, lvl.AvailableQty, want)
	}
}
