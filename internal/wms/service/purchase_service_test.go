package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
	"github.com/bitfantasy/nimo-wms/internal/wms/testutil"
)

func setupPurchaseTest(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewServices(repos, db, nil, nil, ""), db
}

func seedSupplier(t *testing.T, db *gorm.DB, code string) *entity.Supplier {
	t.Helper()
	sup := &entity.Supplier{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      "测试供应商" + code,
		Level:     entity.SupplierLevelFirst,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(sup).Error; err != nil {
		t.Fatalf("Failed to seed supplier: %v", err)
	}
	return sup
}

func TestPurchaseReceiveFlow(t *testing.T) {
	svcs, db := setupPurchaseTest(t)

	sup := seedSupplier(t, db, "SUP-001")
	unit := testutil.SeedBaseUnit(t, db, "PCS")
	material := testutil.SeedMaterial(t, db, "MAT-001", unit.ID)
	warehouseID, locationID := testutil.SeedWarehouseTree(t, db, "001")

	po, err := svcs.Purchase.Create(CreatePurchaseRequest{
		SupplierID: sup.ID,
		Details: []PurchaseDetailRequest{
			{MaterialID: material.ID, Quantity: decimal.NewFromInt(10), UnitID: unit.ID, UnitPrice: decimal.NewFromFloat(2.5)},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create PO failed: %v", err)
	}
	if !po.TotalAmount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("TotalAmount = %s, want 25", po.TotalAmount)
	}
	if po.Status != entity.StatusDraft {
		t.Errorf("Status = %s, want DRAFT", po.Status)
	}

	if err := svcs.Purchase.Approve(po.ID, "tester"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	detailID := po.Details[0].ID
	res, err := svcs.Purchase.Receive(context.Background(), po.ID, ReceiveRequest{
		WarehouseID: warehouseID,
		Lines: []ReceiveLineRequest{
			{DetailID: detailID, Quantity: decimal.NewFromInt(4), LocationID: locationID, BatchNo: "B-001"},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("First receive failed: %v", err)
	}
	if res.Status != entity.StatusPartiallyFulfilled {
		t.Errorf("Status after partial receive = %s, want PARTIAL", res.Status)
	}

	got, err := svcs.Purchase.Get(po.ID)
	if err != nil {
		t.Fatalf("Get PO failed: %v", err)
	}
	if got.Status != entity.StatusPartiallyFulfilled {
		t.Errorf("Persisted status = %s, want PARTIAL", got.Status)
	}
	if !got.Details[0].ReceivedQuantity.Equal(decimal.NewFromInt(4)) {
		t.Errorf("ReceivedQuantity = %s, want 4", got.Details[0].ReceivedQuantity)
	}

	level, err := svcs.Stock.Get(context.Background(), material.ID, locationID)
	if err != nil {
		t.Fatalf("Get stock level failed: %v", err)
	}
	if !level.AvailableQty.Equal(decimal.NewFromInt(4)) {
		t.Errorf("AvailableQty = %s, want 4", level.AvailableQty)
	}

	// 收货应生成一张已完成的入库单凭证
	records, total, err := svcs.StockIn.List(repository.StockOrderListParams{SourceType: entity.SourcePurchase})
	if err != nil {
		t.Fatalf("List stock-in records failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("Receipt record count = %d, want 1", total)
	}
	if records[0].SourceNo != po.OrderNo {
		t.Errorf("Receipt SourceNo = %s, want %s", records[0].SourceNo, po.OrderNo)
	}
	if records[0].Status != entity.StatusFullyFulfilled {
		t.Errorf("Receipt status = %s, want COMPLETED", records[0].Status)
	}

	// 凭证上的来源单号可回溯原始订单
	byNo, err := svcs.Purchase.GetByNo(records[0].SourceNo)
	if err != nil {
		t.Fatalf("GetByNo failed: %v", err)
	}
	if byNo.ID != po.ID {
		t.Errorf("GetByNo returned order %s, want %s", byNo.ID, po.ID)
	}

	// 收满剩余数量，订单完成
	res, err = svcs.Purchase.Receive(context.Background(), po.ID, ReceiveRequest{
		WarehouseID: warehouseID,
		Lines: []ReceiveLineRequest{
			{DetailID: detailID, Quantity: decimal.NewFromInt(6), LocationID: locationID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Second receive failed: %v", err)
	}
	if res.Status != entity.StatusFullyFulfilled {
		t.Errorf("Status after full receive = %s, want COMPLETED", res.Status)
	}

	// 已完成订单不允许再收货
	_, err = svcs.Purchase.Receive(context.Background(), po.ID, ReceiveRequest{
		WarehouseID: warehouseID,
		Lines: []ReceiveLineRequest{
			{DetailID: detailID, Quantity: decimal.NewFromInt(1), LocationID: locationID},
		},
	}, "tester")
	if !errors.Is(err, ledger.ErrAlreadyTerminal) {
		t.Errorf("Receive on completed order: err = %v, want ErrAlreadyTerminal", err)
	}
}

func TestPurchaseReceiveOverOrdered(t *testing.T) {
	svcs, db := setupPurchaseTest(t)

	sup := seedSupplier(t, db, "SUP-002")
	unit := testutil.SeedBaseUnit(t, db, "PCS")
	material := testutil.SeedMaterial(t, db, "MAT-002", unit.ID)
	warehouseID, locationID := testutil.SeedWarehouseTree(t, db, "002")

	po, err := svcs.Purchase.Create(CreatePurchaseRequest{
		SupplierID: sup.ID,
		Details: []PurchaseDetailRequest{
			{MaterialID: material.ID, Quantity: decimal.NewFromInt(10), UnitID: unit.ID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create PO failed: %v", err)
	}
	if err := svcs.Purchase.Approve(po.ID, "tester"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	_, err = svcs.Purchase.Receive(context.Background(), po.ID, ReceiveRequest{
		WarehouseID: warehouseID,
		Lines: []ReceiveLineRequest{
			{DetailID: po.Details[0].ID, Quantity: decimal.NewFromInt(11), LocationID: locationID},
		},
	}, "tester")
	var verr *ledger.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Over-ordered receive: err = %v, want ValidationError", err)
	}

	// 拒绝的收货不落账
	level, err := svcs.Stock.Get(context.Background(), material.ID, locationID)
	if err != nil {
		t.Fatalf("Get stock level failed: %v", err)
	}
	if !level.OnHand().IsZero() {
		t.Errorf("OnHand after rejected receive = %s, want 0", level.OnHand())
	}
}

// 同一订单的并发收货要么被单据锁挡下，要么基于提交后的新快照执行，
// 账面入库量始终等于明细累计已收数量
func TestPurchaseReceiveConcurrentConsistency(t *testing.T) {
	svcs, db := setupPurchaseTest(t)

	sup := seedSupplier(t, db, "SUP-004")
	unit := testutil.SeedBaseUnit(t, db, "PCS")
	material := testutil.SeedMaterial(t, db, "MAT-004", unit.ID)
	warehouseID, locationID := testutil.SeedWarehouseTree(t, db, "004")

	po, err := svcs.Purchase.Create(CreatePurchaseRequest{
		SupplierID: sup.ID,
		Details: []PurchaseDetailRequest{
			{MaterialID: material.ID, Quantity: decimal.NewFromInt(10), UnitID: unit.ID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create PO failed: %v", err)
	}
	if err := svcs.Purchase.Approve(po.ID, "tester"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	detailID := po.Details[0].ID

	_, err = svcs.Purchase.Receive(context.Background(), po.ID, ReceiveRequest{
		WarehouseID: warehouseID,
		Lines: []ReceiveLineRequest{
			{DetailID: detailID, Quantity: decimal.NewFromInt(4), LocationID: locationID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("First receive failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svcs.Purchase.Receive(context.Background(), po.ID, ReceiveRequest{
				WarehouseID: warehouseID,
				Lines: []ReceiveLineRequest{
					{DetailID: detailID, Quantity: decimal.NewFromInt(2), LocationID: locationID},
				},
			}, "tester")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, ledger.ErrBusy) {
			t.Fatalf("Concurrent receive: err = %v, want nil or ErrBusy", err)
		}
	}
	if succeeded == 0 {
		t.Fatal("At least one concurrent receive should succeed")
	}

	want := decimal.NewFromInt(int64(4 + 2*succeeded))
	got, err := svcs.Purchase.Get(po.ID)
	if err != nil {
		t.Fatalf("Get PO failed: %v", err)
	}
	if !got.Details[0].ReceivedQuantity.Equal(want) {
		t.Errorf("ReceivedQuantity = %s, want %s", got.Details[0].ReceivedQuantity, want)
	}
	level, err := svcs.Stock.Get(context.Background(), material.ID, locationID)
	if err != nil {
		t.Fatalf("Get stock level failed: %v", err)
	}
	if !level.AvailableQty.Equal(want) {
		t.Errorf("AvailableQty = %s, want %s (counter and ledger diverged)", level.AvailableQty, want)
	}
}

// 基于过期快照的履约计数更新被前值守卫拒绝
func TestPurchaseReceiveStaleSnapshotRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svcs := NewServices(repos, db, nil, nil, "")

	sup := seedSupplier(t, db, "SUP-005")
	unit := testutil.SeedBaseUnit(t, db, "PCS")
	material := testutil.SeedMaterial(t, db, "MAT-005", unit.ID)
	warehouseID, locationID := testutil.SeedWarehouseTree(t, db, "005")

	po, err := svcs.Purchase.Create(CreatePurchaseRequest{
		SupplierID: sup.ID,
		Details: []PurchaseDetailRequest{
			{MaterialID: material.ID, Quantity: decimal.NewFromInt(10), UnitID: unit.ID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create PO failed: %v", err)
	}
	if err := svcs.Purchase.Approve(po.ID, "tester"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	detailID := po.Details[0].ID

	_, err = svcs.Purchase.Receive(context.Background(), po.ID, ReceiveRequest{
		WarehouseID: warehouseID,
		Lines: []ReceiveLineRequest{
			{DetailID: detailID, Quantity: decimal.NewFromInt(4), LocationID: locationID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Receive failed: %v", err)
	}

	// 前值已是 4，带 0 前值的累加来自过期快照
	err = repos.Purchase.UpdateDetailReceived(detailID, decimal.Zero, decimal.NewFromInt(2))
	if !errors.Is(err, ledger.ErrBusy) {
		t.Errorf("Stale counter update: err = %v, want ErrBusy", err)
	}
	if err := repos.Purchase.UpdateDetailReceived(detailID, decimal.NewFromInt(4), decimal.NewFromInt(2)); err != nil {
		t.Errorf("Guarded counter update with matching prev failed: %v", err)
	}

	got, err := svcs.Purchase.Get(po.ID)
	if err != nil {
		t.Fatalf("Get PO failed: %v", err)
	}
	if !got.Details[0].ReceivedQuantity.Equal(decimal.NewFromInt(6)) {
		t.Errorf("ReceivedQuantity = %s, want 6", got.Details[0].ReceivedQuantity)
	}
}

func TestPurchaseReceiveDraftRejected(t *testing.T) {
	svcs, db := setupPurchaseTest(t)

	sup := seedSupplier(t, db, "SUP-003")
	unit := testutil.SeedBaseUnit(t, db, "PCS")
	material := testutil.SeedMaterial(t, db, "MAT-003", unit.ID)
	warehouseID, locationID := testutil.SeedWarehouseTree(t, db, "003")

	po, err := svcs.Purchase.Create(CreatePurchaseRequest{
		SupplierID: sup.ID,
		Details: []PurchaseDetailRequest{
			{MaterialID: material.ID, Quantity: decimal.NewFromInt(5), UnitID: unit.ID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create PO failed: %v", err)
	}

	_, err = svcs.Purchase.Receive(context.Background(), po.ID, ReceiveRequest{
		WarehouseID: warehouseID,
		Lines: []ReceiveLineRequest{
			{DetailID: po.Details[0].ID, Quantity: decimal.NewFromInt(5), LocationID: locationID},
		},
	}, "tester")
	if err == nil {
		t.Fatal("Receive on draft order should fail")
	}
}
