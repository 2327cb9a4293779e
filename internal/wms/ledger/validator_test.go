package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/shopspring/decimal"
)

func newTestValidator() (*Validator, *MemStore) {
	catalog := newFakeCatalog()
	store := NewMemStore(catalog)
	return NewValidator(catalog, store, NewUnitResolver(catalog)), store
}

func stockOutDoc(lines ...Line) *Document {
	return &Document{
		ID: "D1", No: "OUT-001", Type: entity.DocTypeStockOut,
		Status: entity.StatusApproved, WarehouseID: "WH1", Lines: lines,
	}
}

func TestValidateInactiveWarehouse(t *testing.T) {
	v, store := newTestValidator()
	seedStock(t, store, "M1", "L2", "100")
	doc := stockOutDoc(Line{MaterialID: "M1", UnitID: "U-PCS", LocationID: "L2", Quantity: dec("1")})
	doc.WarehouseID = "WH-OFF"

	err := v.Validate(context.Background(), doc)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Line != HeaderLine {
		t.Fatalf("expected header validation error, got %v", err)
	}
}

func TestValidateInactiveSupplierAndCustomer(t *testing.T) {
	v, store := newTestValidator()
	seedStock(t, store, "M1", "L2", "100")

	po := &Document{
		ID: "D2", No: "PO-001", Type: entity.DocTypePurchaseOrder,
		Status: entity.StatusApproved, WarehouseID: "WH1", SupplierID: "SUP-OFF",
		Lines: []Line{{MaterialID: "M1", UnitID: "U-PCS", LocationID: "L2",
			Quantity: dec("1"), Ordered: dec("10")}},
	}
	if err := v.Validate(context.Background(), po); err == nil {
		t.Error("inactive supplier: expected error")
	}

	so := &Document{
		ID: "D3", No: "SO-001", Type: entity.DocTypeSalesOrder,
		Status: entity.StatusApproved, WarehouseID: "WH1", CustomerID: "CUS-NOPE",
		Lines: []Line{{MaterialID: "M1", UnitID: "U-PCS", LocationID: "L2",
			Quantity: dec("1"), Ordered: dec("10")}},
	}
	if err := v.Validate(context.Background(), so); err == nil {
		t.Error("unknown customer: expected error")
	}
}

func TestValidateNegativeQuantity(t *testing.T) {
	v, _ := newTestValidator()
	doc := stockOutDoc(Line{MaterialID: "M1", UnitID: "U-PCS", LocationID: "L2", Quantity: dec("-5")})

	err := v.Validate(context.Background(), doc)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Line != 0 {
		t.Fatalf("expected line 0 validation error, got %v", err)
	}
}

func TestValidateAllZeroLinesRejected(t *testing.T) {
	v, _ := newTestValidator()
	doc := stockOutDoc(
		Line{MaterialID: "M1", UnitID: "U-PCS", LocationID: "L2", Quantity: decimal.Zero},
		Line{MaterialID: "M2", UnitID: "U-PCS", LocationID: "L2", Quantity: decimal.Zero},
	)
	if err := v.Validate(context.Background(), doc); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestValidateZeroLinesSkipped(t *testing.T) {
	v, store := newTestValidator()
	seedStock(t, store, "M1", "L2", "100")
	// 第二行是停用物料但数量为零，不应参与校验
	doc := stockOutDoc(
		Line{MaterialID: "M1", UnitID: "U-PCS", LocationID: "L2", Quantity: dec("10")},
		Line{MaterialID: "M-OFF", UnitID: "U-PCS", LocationID: "L2", Quantity: decimal.Zero},
	)
	if err := v.Validate(context.Background(), doc); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateInactiveReferences(t *testing.T) {
	v, store := newTestValidator()
	seedStock(t, store, "M1", "L2", "100")

	cases := []struct {
		name string
		line Line
		want error
	}{
		{"inactive material", Line{MaterialID: "M-OFF", UnitID: "U-PCS", LocationID: "L2",
			Quantity: dec("1")}, ErrInactiveMaterial},
		{"unknown unit", Line{MaterialID: "M1", UnitID: "U-NOPE", LocationID: "L2",
			Quantity: dec("1")}, ErrUnknownUnit},
		{"inactive unit", Line{MaterialID: "M1", UnitID: "U-OFF", LocationID: "L2",
			Quantity: dec("1")}, ErrInactiveUnit},
	}
	for _, c := range cases {
		err := v.Validate(context.Background(), stockOutDoc(c.line))
		if !errors.Is(err, c.want) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, err)
		}
	}

	err := v.Validate(context.Background(), stockOutDoc(Line{
		MaterialID: "M1", UnitID: "U-PCS", LocationID: "L-OFF", Quantity: dec("1")}))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("inactive location: expected validation error, got %v", err)
	}
}

func TestValidateTransferSameLocation(t *testing.T) {
	v, store := newTestValidator()
	seedStock(t, store, "M1", "L2", "100")
	doc := &Document{
		ID: "D4", No: "TR-001", Type: entity.DocTypeTransfer,
		Status: entity.StatusApproved, WarehouseID: "WH1",
		Lines: []Line{{MaterialID: "M1", UnitID: "U-PCS",
			FromLocationID: "L2", ToLocationID: "L2", Quantity: dec("10")}},
	}
	err := v.Validate(context.Background(), doc)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("same-location transfer: expected validation error, got %v", err)
	}
}

func TestValidateOverFulfillment(t *testing.T) {
	v, store := newTestValidator()
	seedStock(t, store, "M1", "L2", "100")
	doc := &Document{
		ID: "D5", No: "SO-002", Type: entity.DocTypeSalesOrder,
		Status: entity.StatusPartiallyFulfilled, WarehouseID: "WH1", CustomerID: "CUS1",
		Lines: []Line{{DetailID: "DT1", MaterialID: "M1", UnitID: "U-PCS", LocationID: "L2",
			Quantity: dec("7"), Ordered: dec("10"), Fulfilled: dec("4")}},
	}
	err := v.Validate(context.Background(), doc)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Line != 0 {
		t.Fatalf("over-fulfillment: expected line 0 validation error, got %v", err)
	}
}

func TestValidateOutboundProjection(t *testing.T) {
	v, store := newTestValidator()
	seedStock(t, store, "M1", "L2", "15")
	// 两行合计 2 箱 = 20 个，超过在库 15 个
	doc := stockOutDoc(
		Line{MaterialID: "M1", UnitID: "U-BOX", LocationID: "L2", Quantity: dec("1")},
		Line{MaterialID: "M1", UnitID: "U-BOX", LocationID: "L2", Quantity: dec("1")},
	)
	err := v.Validate(context.Background(), doc)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	var serr *StockError
	if !errors.As(err, &serr) || serr.MaterialID != "M1" || serr.LocationID != "L2" {
		t.Errorf("expected stock error for M1@L2, got %v", err)
	}
}

func TestValidateAdjustmentType(t *testing.T) {
	v, store := newTestValidator()
	seedStock(t, store, "M1", "L2", "100")
	doc := &Document{
		ID: "D6", No: "ADJ-001", Type: entity.DocTypeAdjustment,
		Status: entity.StatusApproved, WarehouseID: "WH1", AdjustmentType: "随便",
		Lines: []Line{{MaterialID: "M1", UnitID: "U-PCS", LocationID: "L2", Quantity: dec("1")}},
	}
	err := v.Validate(context.Background(), doc)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Line != HeaderLine {
		t.Fatalf("bad adjustment type: expected header validation error, got %v", err)
	}
}
