package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
	"github.com/bitfantasy/nimo-wms/internal/wms/testutil"
)

// 行锁等待超时映射为 ErrBusy，调用方可整单重试
func TestApplyLockTimeoutMapsToBusy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)

	unit := testutil.SeedBaseUnit(t, db, "PCS")
	material := testutil.SeedMaterial(t, db, "MAT-201", unit.ID)
	_, locationID := testutil.SeedWarehouseTree(t, db, "201")
	testutil.SeedStock(t, db, material.ID, locationID, decimal.NewFromInt(10), decimal.Zero)

	// 另一个事务占住账面行不放
	blocker := db.Begin()
	if blocker.Error != nil {
		t.Fatalf("Begin blocker tx: %v", blocker.Error)
	}
	defer blocker.Rollback()
	var lvl entity.StockLevel
	err := blocker.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("material_id = ? AND location_id = ?", material.ID, locationID).
		First(&lvl).Error
	if err != nil {
		t.Fatalf("Lock stock row: %v", err)
	}

	_, err = repos.Stock.Apply(context.Background(), []ledger.Delta{{
		MaterialID: material.ID, LocationID: locationID, Available: decimal.NewFromInt(-1),
	}})
	if !errors.Is(err, ledger.ErrBusy) {
		t.Fatalf("Apply under contention: err = %v, want ErrBusy", err)
	}

	blocker.Rollback()
	applied, err := repos.Stock.Apply(context.Background(), []ledger.Delta{{
		MaterialID: material.ID, LocationID: locationID, Available: decimal.NewFromInt(-1),
	}})
	if err != nil {
		t.Fatalf("Apply after lock released: %v", err)
	}
	if !applied[0].AvailableQty.Equal(decimal.NewFromInt(9)) {
		t.Errorf("AvailableQty = %s, want 9", applied[0].AvailableQty)
	}
}
