package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
	"github.com/bitfantasy/nimo-wms/internal/wms/testutil"
)

func TestAdjustmentFreezeUnfreezeFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svcs := NewServices(repos, db, nil, nil, "")

	unit := testutil.SeedBaseUnit(t, db, "PCS")
	material := testutil.SeedMaterial(t, db, "MAT-ADJ-001", unit.ID)
	warehouseID, locationID := testutil.SeedWarehouseTree(t, db, "adj1")
	testutil.SeedStock(t, db, material.ID, locationID, decimal.NewFromInt(100), decimal.Zero)

	freeze, err := svcs.Adjustment.Create(CreateAdjustmentRequest{
		WarehouseID:    warehouseID,
		AdjustmentType: entity.AdjustFreeze,
		Details: []AdjustmentDetailRequest{
			{MaterialID: material.ID, LocationID: locationID, Quantity: decimal.NewFromInt(40), UnitID: unit.ID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create freeze failed: %v", err)
	}
	if err := svcs.Adjustment.Approve(freeze.ID, "tester"); err != nil {
		t.Fatalf("Approve freeze failed: %v", err)
	}
	if _, err := svcs.Adjustment.Execute(context.Background(), freeze.ID, "tester"); err != nil {
		t.Fatalf("Execute freeze failed: %v", err)
	}

	level, err := svcs.Stock.Get(context.Background(), material.ID, locationID)
	if err != nil {
		t.Fatalf("Get stock level failed: %v", err)
	}
	if !level.AvailableQty.Equal(decimal.NewFromInt(60)) || !level.FrozenQty.Equal(decimal.NewFromInt(40)) {
		t.Errorf("After freeze: available=%s frozen=%s, want 60/40", level.AvailableQty, level.FrozenQty)
	}
	if !level.OnHand().Equal(decimal.NewFromInt(100)) {
		t.Errorf("OnHand changed by freeze: %s, want 100", level.OnHand())
	}

	// 可用仅剩 60，冻结后出库 70 应被拒绝
	out, err := svcs.StockOut.Create(CreateStockOutRequest{
		WarehouseID: warehouseID,
		Details: []StockOutDetailRequest{
			{MaterialID: material.ID, Quantity: decimal.NewFromInt(70), UnitID: unit.ID, LocationID: locationID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create stock-out failed: %v", err)
	}
	if err := svcs.StockOut.Approve(out.ID, "tester"); err != nil {
		t.Fatalf("Approve stock-out failed: %v", err)
	}
	if _, err := svcs.StockOut.Execute(context.Background(), out.ID, "tester"); !errors.Is(err, ledger.ErrInsufficientStock) {
		t.Errorf("Stock-out beyond available: err = %v, want ErrInsufficientStock", err)
	}

	unfreeze, err := svcs.Adjustment.Create(CreateAdjustmentRequest{
		WarehouseID:    warehouseID,
		AdjustmentType: entity.AdjustUnfreeze,
		Details: []AdjustmentDetailRequest{
			{MaterialID: material.ID, LocationID: locationID, Quantity: decimal.NewFromInt(40), UnitID: unit.ID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create unfreeze failed: %v", err)
	}
	if err := svcs.Adjustment.Approve(unfreeze.ID, "tester"); err != nil {
		t.Fatalf("Approve unfreeze failed: %v", err)
	}
	if _, err := svcs.Adjustment.Execute(context.Background(), unfreeze.ID, "tester"); err != nil {
		t.Fatalf("Execute unfreeze failed: %v", err)
	}

	level, _ = svcs.Stock.Get(context.Background(), material.ID, locationID)
	if !level.AvailableQty.Equal(decimal.NewFromInt(100)) || !level.FrozenQty.IsZero() {
		t.Errorf("After unfreeze: available=%s frozen=%s, want 100/0", level.AvailableQty, level.FrozenQty)
	}
}

func TestAdjustmentSurplusAndShortage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svcs := NewServices(repos, db, nil, nil, "")

	unit := testutil.SeedBaseUnit(t, db, "PCS")
	material := testutil.SeedMaterial(t, db, "MAT-ADJ-002", unit.ID)
	warehouseID, locationID := testutil.SeedWarehouseTree(t, db, "adj2")

	// 盘盈可在空库位上建账
	surplus, err := svcs.Adjustment.Create(CreateAdjustmentRequest{
		WarehouseID:    warehouseID,
		AdjustmentType: entity.AdjustSurplus,
		Details: []AdjustmentDetailRequest{
			{MaterialID: material.ID, LocationID: locationID, Quantity: decimal.NewFromInt(30), UnitID: unit.ID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create surplus failed: %v", err)
	}
	if err := svcs.Adjustment.Approve(surplus.ID, "tester"); err != nil {
		t.Fatalf("Approve surplus failed: %v", err)
	}
	if _, err := svcs.Adjustment.Execute(context.Background(), surplus.ID, "tester"); err != nil {
		t.Fatalf("Execute surplus failed: %v", err)
	}

	level, err := svcs.Stock.Get(context.Background(), material.ID, locationID)
	if err != nil {
		t.Fatalf("Get stock level failed: %v", err)
	}
	if !level.AvailableQty.Equal(decimal.NewFromInt(30)) {
		t.Errorf("After surplus: available=%s, want 30", level.AvailableQty)
	}

	// 盘亏超出在库数量应被拒绝
	shortage, err := svcs.Adjustment.Create(CreateAdjustmentRequest{
		WarehouseID:    warehouseID,
		AdjustmentType: entity.AdjustShortage,
		Details: []AdjustmentDetailRequest{
			{MaterialID: material.ID, LocationID: locationID, Quantity: decimal.NewFromInt(31), UnitID: unit.ID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create shortage failed: %v", err)
	}
	if err := svcs.Adjustment.Approve(shortage.ID, "tester"); err != nil {
		t.Fatalf("Approve shortage failed: %v", err)
	}
	if _, err := svcs.Adjustment.Execute(context.Background(), shortage.ID, "tester"); !errors.Is(err, ledger.ErrInsufficientStock) {
		t.Errorf("Shortage beyond on-hand: err = %v, want ErrInsufficientStock", err)
	}

	// 库存流水应只记录成功的那一笔
	txs, total, err := svcs.Stock.ListTransactions(repository.TransactionListParams{MaterialID: material.ID})
	if err != nil {
		t.Fatalf("List transactions failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("Transaction count = %d, want 1", total)
	}
	if !txs[0].Quantity.Equal(decimal.NewFromInt(30)) {
		t.Errorf("Transaction quantity = %s, want 30", txs[0].Quantity)
	}
}
