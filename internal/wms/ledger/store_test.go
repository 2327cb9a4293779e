package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemStoreGetUnknownKeyIsZero(t *testing.T) {
	store := NewMemStore(newFakeCatalog())
	lvl := mustGet(t, store, "M1", "L1")
	if !lvl.AvailableQty.IsZero() || !lvl.FrozenQty.IsZero() {
		t.Errorf("expected zero level, got available=%s frozen=%s", lvl.AvailableQty, lvl.FrozenQty)
	}
}

func TestMemStoreApplyInAndOut(t *testing.T) {
	store := NewMemStore(newFakeCatalog())
	seedStock(t, store, "M1", "L1", "100")

	_, err := store.Apply(context.Background(), []Delta{{
		MaterialID: "M1", LocationID: "L1", Available: dec("-30"),
	}})
	if err != nil {
		t.Fatalf("apply out: %v", err)
	}
	assertAvailable(t, store, "M1", "L1", "70")

	total, err := store.LocationTotal(context.Background(), "L1")
	if err != nil {
		t.Fatalf("location total: %v", err)
	}
	if !total.Equal(dec("70")) {
		t.Errorf("location total = %s, want 70", total)
	}
}

func TestMemStoreInsufficientStockRejectsWholeSet(t *testing.T) {
	store := NewMemStore(newFakeCatalog())
	seedStock(t, store, "M1", "L1", "10")
	seedStock(t, store, "M2", "L2", "50")

	// 第二行超扣，第一行也不得生效
	_, err := store.Apply(context.Background(), []Delta{
		{MaterialID: "M2", LocationID: "L2", Available: dec("-5")},
		{MaterialID: "M1", LocationID: "L1", Available: dec("-11")},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	assertAvailable(t, store, "M1", "L1", "10")
	assertAvailable(t, store, "M2", "L2", "50")

	var stockErr *StockError
	if !errors.As(err, &stockErr) {
		t.Fatal("expected *StockError")
	}
	if stockErr.MaterialID != "M1" || stockErr.LocationID != "L1" {
		t.Errorf("offending key = %s@%s, want M1@L1", stockErr.MaterialID, stockErr.LocationID)
	}
}

func TestMemStoreCapacityExceededLeavesStoreUnmodified(t *testing.T) {
	store := NewMemStore(newFakeCatalog())
	seedStock(t, store, "M1", "L1", "70")

	// L1 上限 150，再入 81 超限
	_, err := store.Apply(context.Background(), []Delta{{
		MaterialID: "M1", LocationID: "L1", Available: dec("81"),
	}})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	assertAvailable(t, store, "M1", "L1", "70")

	// 刚好到上限可以入
	if _, err := store.Apply(context.Background(), []Delta{{
		MaterialID: "M1", LocationID: "L1", Available: dec("80"),
	}}); err != nil {
		t.Fatalf("apply to capacity: %v", err)
	}
	assertAvailable(t, store, "M1", "L1", "150")
}

func TestMemStoreCapacityCountsAllMaterialsAtLocation(t *testing.T) {
	store := NewMemStore(newFakeCatalog())
	seedStock(t, store, "M1", "L1", "100")

	// 另一物料入同一库位，占用同一容量
	_, err := store.Apply(context.Background(), []Delta{{
		MaterialID: "M2", LocationID: "L1", Available: dec("60"),
	}})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded across materials, got %v", err)
	}
}

func TestMemStoreMergesSameKeyDeltas(t *testing.T) {
	store := NewMemStore(newFakeCatalog())
	seedStock(t, store, "M1", "L2", "10")

	// 两行同键：-10 和 +5，合并后 -5 可行
	if _, err := store.Apply(context.Background(), []Delta{
		{MaterialID: "M1", LocationID: "L2", Available: dec("-10")},
		{MaterialID: "M1", LocationID: "L2", Available: dec("5")},
	}); err != nil {
		t.Fatalf("apply merged: %v", err)
	}
	assertAvailable(t, store, "M1", "L2", "5")
}

func TestMemStoreFrozenBucketNonNegative(t *testing.T) {
	store := NewMemStore(newFakeCatalog())
	seedStock(t, store, "M1", "L2", "40")

	// 冻结 15：可用 25 / 冻结 15，净变化为零
	if _, err := store.Apply(context.Background(), []Delta{{
		MaterialID: "M1", LocationID: "L2", Available: dec("-15"), Frozen: dec("15"),
	}}); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	lvl := mustGet(t, store, "M1", "L2")
	if !lvl.AvailableQty.Equal(dec("25")) || !lvl.FrozenQty.Equal(dec("15")) {
		t.Fatalf("after freeze available=%s frozen=%s", lvl.AvailableQty, lvl.FrozenQty)
	}
	if !lvl.OnHand().Equal(dec("40")) {
		t.Errorf("on-hand changed by freeze: %s", lvl.OnHand())
	}

	// 解冻 20 超过冻结量，拒绝
	_, err := store.Apply(context.Background(), []Delta{{
		MaterialID: "M1", LocationID: "L2", Available: dec("20"), Frozen: dec("-20"),
	}})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock on over-unfreeze, got %v", err)
	}
}

func TestMemStoreTransferConservation(t *testing.T) {
	store := NewMemStore(newFakeCatalog())
	seedStock(t, store, "M1", "L2", "50")
	seedStock(t, store, "M1", "L3", "10")

	before, _ := store.TotalOnHand(context.Background(), "M1")

	if _, err := store.Apply(context.Background(), []Delta{
		{MaterialID: "M1", LocationID: "L2", Available: dec("-20")},
		{MaterialID: "M1", LocationID: "L3", Available: dec("20")},
	}); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	assertAvailable(t, store, "M1", "L2", "30")
	assertAvailable(t, store, "M1", "L3", "30")

	after, _ := store.TotalOnHand(context.Background(), "M1")
	if !before.Equal(after) {
		t.Errorf("conservation violated: before=%s after=%s", before, after)
	}
}

func TestMemStoreConcurrentApplyKeepsNonNegativity(t *testing.T) {
	store := NewMemStore(newFakeCatalog())
	seedStock(t, store, "M1", "L2", "100")

	// 200 个并发出库各扣 1，只有 100 个能成功
	var wg sync.WaitGroup
	var okCount int64
	var mu sync.Mutex
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Apply(context.Background(), []Delta{{
				MaterialID: "M1", LocationID: "L2", Available: dec("-1"),
			}})
			if err == nil {
				mu.Lock()
				okCount++
				mu.Unlock()
			} else if !errors.Is(err, ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if okCount != 100 {
		t.Errorf("succeeded applies = %d, want 100", okCount)
	}
	lvl := mustGet(t, store, "M1", "L2")
	if lvl.AvailableQty.IsNegative() {
		t.Fatalf("available went negative: %s", lvl.AvailableQty)
	}
	if !lvl.AvailableQty.IsZero() {
		t.Errorf("available = %s, want 0", lvl.AvailableQty)
	}
}

func TestMemStoreLockTimeoutMapsToBusy(t *testing.T) {
	store := NewMemStore(newFakeCatalog())
	store.SetLockTimeout(20 * time.Millisecond)
	seedStock(t, store, "M1", "L2", "10")

	// 手工占住 L2 的库位锁
	ch := store.lockFor("L2")
	ch <- struct{}{}
	defer func() { <-ch }()

	_, err := store.Apply(context.Background(), []Delta{{
		MaterialID: "M1", LocationID: "L2", Available: dec("-1"),
	}})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestMemStoreDisjointLocationsProceedConcurrently(t *testing.T) {
	store := NewMemStore(newFakeCatalog())
	store.SetLockTimeout(200 * time.Millisecond)
	seedStock(t, store, "M1", "L2", "10")
	seedStock(t, store, "M1", "L3", "10")

	// 占住 L3，不应影响只触达 L2 的提交
	ch := store.lockFor("L3")
	ch <- struct{}{}
	defer func() { <-ch }()

	if _, err := store.Apply(context.Background(), []Delta{{
		MaterialID: "M1", LocationID: "L2", Available: dec("-1"),
	}}); err != nil {
		t.Fatalf("disjoint apply blocked: %v", err)
	}
}
