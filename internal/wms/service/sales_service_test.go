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

func seedCustomer(t *testing.T, db *gorm.DB, code string) *entity.Customer {
	t.Helper()
	cus := &entity.Customer{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      "测试客户" + code,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(cus).Error; err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	return cus
}

func TestSalesShipFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svcs := NewServices(repos, db, nil, nil, "")

	cus := seedCustomer(t, db, "CUS-001")
	unit := testutil.SeedBaseUnit(t, db, "PCS")
	material := testutil.SeedMaterial(t, db, "MAT-101", unit.ID)
	warehouseID, locationID := testutil.SeedWarehouseTree(t, db, "101")
	testutil.SeedStock(t, db, material.ID, locationID, decimal.NewFromInt(20), decimal.Zero)

	so, err := svcs.Sales.Create(CreateSalesRequest{
		CustomerID: cus.ID,
		Details: []SalesDetailRequest{
			{MaterialID: material.ID, Quantity: decimal.NewFromInt(10), UnitID: unit.ID, UnitPrice: decimal.NewFromInt(3)},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create SO failed: %v", err)
	}
	if err := svcs.Sales.Approve(so.ID, "tester"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	detailID := so.Details[0].ID

	res, err := svcs.Sales.Ship(context.Background(), so.ID, ShipRequest{
		WarehouseID: warehouseID,
		Lines: []ShipLineRequest{
			{DetailID: detailID, Quantity: decimal.NewFromInt(4), LocationID: locationID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("First ship failed: %v", err)
	}
	if res.Status != entity.StatusPartiallyFulfilled {
		t.Errorf("Status after partial ship = %s, want PARTIAL", res.Status)
	}

	got, err := svcs.Sales.Get(so.ID)
	if err != nil {
		t.Fatalf("Get SO failed: %v", err)
	}
	if !got.Details[0].ShippedQuantity.Equal(decimal.NewFromInt(4)) {
		t.Errorf("ShippedQuantity = %s, want 4", got.Details[0].ShippedQuantity)
	}

	// 发货应生成一张已完成的出库单凭证
	records, total, err := svcs.StockOut.List(repository.StockOrderListParams{SourceType: entity.SourceSales})
	if err != nil {
		t.Fatalf("List stock-out records failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("Shipment record count = %d, want 1", total)
	}
	if records[0].SourceNo != so.OrderNo {
		t.Errorf("Shipment SourceNo = %s, want %s", records[0].SourceNo, so.OrderNo)
	}

	byNo, err := svcs.Sales.GetByNo(so.OrderNo)
	if err != nil {
		t.Fatalf("GetByNo failed: %v", err)
	}
	if byNo.ID != so.ID {
		t.Errorf("GetByNo returned order %s, want %s", byNo.ID, so.ID)
	}

	res, err = svcs.Sales.Ship(context.Background(), so.ID, ShipRequest{
		WarehouseID: warehouseID,
		Lines: []ShipLineRequest{
			{DetailID: detailID, Quantity: decimal.NewFromInt(6), LocationID: locationID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Second ship failed: %v", err)
	}
	if res.Status != entity.StatusFullyFulfilled {
		t.Errorf("Status after full ship = %s, want COMPLETED", res.Status)
	}

	level, err := svcs.Stock.Get(context.Background(), material.ID, locationID)
	if err != nil {
		t.Fatalf("Get stock level failed: %v", err)
	}
	if !level.AvailableQty.Equal(decimal.NewFromInt(10)) {
		t.Errorf("AvailableQty = %s, want 10", level.AvailableQty)
	}
}

// 同一订单的并发发货要么被单据锁挡下，要么基于提交后的新快照执行，
// 账面出库量始终等于明细累计已发数量
func TestSalesShipConcurrentConsistency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svcs := NewServices(repos, db, nil, nil, "")

	cus := seedCustomer(t, db, "CUS-002")
	unit := testutil.SeedBaseUnit(t, db, "PCS")
	material := testutil.SeedMaterial(t, db, "MAT-102", unit.ID)
	warehouseID, locationID := testutil.SeedWarehouseTree(t, db, "102")
	testutil.SeedStock(t, db, material.ID, locationID, decimal.NewFromInt(20), decimal.Zero)

	so, err := svcs.Sales.Create(CreateSalesRequest{
		CustomerID: cus.ID,
		Details: []SalesDetailRequest{
			{MaterialID: material.ID, Quantity: decimal.NewFromInt(10), UnitID: unit.ID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("Create SO failed: %v", err)
	}
	if err := svcs.Sales.Approve(so.ID, "tester"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	detailID := so.Details[0].ID

	_, err = svcs.Sales.Ship(context.Background(), so.ID, ShipRequest{
		WarehouseID: warehouseID,
		Lines: []ShipLineRequest{
			{DetailID: detailID, Quantity: decimal.NewFromInt(4), LocationID: locationID},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("First ship failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svcs.Sales.Ship(context.Background(), so.ID, ShipRequest{
				WarehouseID: warehouseID,
				Lines: []ShipLineRequest{
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
			t.Fatalf("Concurrent ship: err = %v, want nil or ErrBusy", err)
		}
	}
	if succeeded == 0 {
		t.Fatal("At least one concurrent ship should succeed")
	}

	shipped := decimal.NewFromInt(int64(4 + 2*succeeded))
	got, err := svcs.Sales.Get(so.ID)
	if err != nil {
		t.Fatalf("Get SO failed: %v", err)
	}
	if !got.Details[0].ShippedQuantity.Equal(shipped) {
		t.Errorf("ShippedQuantity = %s, want %s", got.Details[0].ShippedQuantity, shipped)
	}
	level, err := svcs.Stock.Get(context.Background(), material.ID, locationID)
	if err != nil {
		t.Fatalf("Get stock level failed: %v", err)
	}
	want := decimal.NewFromInt(20).Sub(shipped)
	if !level.AvailableQty.Equal(want) {
		t.Errorf("AvailableQty = %s, want %s (counter and ledger diverged)", level.AvailableQty, want)
	}
}
