package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

// Store 数量账。Apply 对一张单据的全部变更要么全部生效要么全不生效：
// 任一结果为负或超出库位容量时整组拒绝。所有数量均为基础单位
type Store interface {
	// Get 返回 (物料, 库位) 的当前账面数量，不存在时返回零值记录
	Get(ctx context.Context, materialID, locationID string) (entity.StockLevel, error)
	// TotalOnHand 物料在所有库位的在库总量（可用+冻结）
	TotalOnHand(ctx context.Context, materialID string) (decimal.Decimal, error)
	// LocationTotal 库位上所有物料的在库总量，即派生的 CurrentQuantity
	LocationTotal(ctx context.Context, locationID string) (decimal.Decimal, error)
	// Apply 原子提交一组变更，返回每个触达键提交后的账面记录
	Apply(ctx context.Context, deltas []Delta) ([]entity.StockLevel, error)
}

// DefaultLockTimeout 库位锁等待上限，超时映射为 ErrBusy
const DefaultLockTimeout = 3 * time.Second

// MemStore 进程内数量账。每个库位一把锁，Apply 按库位ID升序加锁，
// 触达不相交库位集的提交可以并发执行
type MemStore struct {
	catalog     Catalog
	lockTimeout time.Duration

	mu        sync.RWMutex
	levels    map[StockKey]entity.StockLevel
	locTotals map[string]decimal.Decimal

	lockMu   sync.Mutex
	locLocks map[string]chan struct{}
}

// NewMemStore 创建进程内数量账，容量约束通过 catalog 查询库位
func NewMemStore(catalog Catalog) *MemStore {
	return &MemStore{
		catalog:     catalog,
		lockTimeout: DefaultLockTimeout,
		levels:      make(map[StockKey]entity.StockLevel),
		locTotals:   make(map[string]decimal.Decimal),
		locLocks:    make(map[string]chan struct{}),
	}
}

func (m *MemStore) Get(ctx context.Context, materialID, locationID string) (entity.StockLevel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if lvl, ok := m.levels[StockKey{MaterialID: materialID, LocationID: locationID}]; ok {
		return lvl, nil
	}
	return entity.StockLevel{MaterialID: materialID, LocationID: locationID}, nil
}

func (m *MemStore) TotalOnHand(ctx context.Context, materialID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for k, lvl := range m.levels {
		if k.MaterialID == materialID {
			total = total.Add(lvl.OnHand())
		}
	}
	return total, nil
}

func (m *MemStore) LocationTotal(ctx context.Context, locationID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.locTotals[locationID], nil
}

func (m *MemStore) lockFor(locationID string) chan struct{} {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	ch, ok := m.locLocks[locationID]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locLocks[locationID] = ch
	}
	return ch
}

// acquireLocations 按升序获取库位锁，等待超时返回 ErrBusy 并释放已持有的锁
func (m *MemStore) acquireLocations(ctx context.Context, locationIDs []string) (func(), error) {
	acquired := make([]chan struct{}, 0, len(locationIDs))
	release := func() {
		for _, ch := range acquired {
			<-ch
		}
	}
	timer := time.NewTimer(m.lockTimeout)
	defer timer.Stop()
	for _, id := range locationIDs {
		ch := m.lockFor(id)
		select {
		case ch <- struct{}{}:
			acquired = append(acquired, ch)
		case <-timer.C:
			release()
			return nil, ErrBusy
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}
	return release, nil
}

func (m *MemStore) Apply(ctx context.Context, deltas []Delta) ([]entity.StockLevel, error) {
	if len(deltas) == 0 {
		return nil, nil
	}
	merged := MergeDeltas(deltas)

	// 锁顺序：库位ID升序，避免调拨互相等待形成死锁
	locSet := make(map[string]struct{})
	for k := range merged {
		locSet[k.LocationID] = struct{}{}
	}
	locationIDs := make([]string, 0, len(locSet))
	for id := range locSet {
		locationIDs = append(locationIDs, id)
	}
	sort.Strings(locationIDs)

	release, err := m.acquireLocations(ctx, locationIDs)
	if err != nil {
		return nil, err
	}
	defer release()

	// 先全部试算，再一次提交
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[StockKey]entity.StockLevel, len(merged))
	locNet := make(map[string]decimal.Decimal)
	for k, d := range merged {
		lvl, ok := m.levels[k]
		if !ok {
			lvl = entity.StockLevel{MaterialID: k.MaterialID, LocationID: k.LocationID}
		}
		lvl.AvailableQty = lvl.AvailableQty.Add(d.Available)
		lvl.FrozenQty = lvl.FrozenQty.Add(d.Frozen)
		if lvl.AvailableQty.IsNegative() || lvl.FrozenQty.IsNegative() {
			return nil, &StockError{MaterialID: k.MaterialID, LocationID: k.LocationID, Err: ErrInsufficientStock}
		}
		next[k] = lvl
		locNet[k.LocationID] = locNet[k.LocationID].Add(d.Net())
	}
	for locID, net := range locNet {
		if !net.IsPositive() {
			continue
		}
		loc, err := m.catalog.Location(locID)
		if err != nil {
			return nil, err
		}
		if loc.MaxQuantity == nil {
			continue
		}
		if m.locTotals[locID].Add(net).GreaterThan(*loc.MaxQuantity) {
			return nil, &StockError{LocationID: locID, Err: ErrCapacityExceeded}
		}
	}

	// 提交
	now := time.Now()
	applied := make([]entity.StockLevel, 0, len(next))
	for k, lvl := range next {
		lvl.LastMovedAt = &now
		m.levels[k] = lvl
		applied = append(applied, lvl)
	}
	for locID, net := range locNet {
		m.locTotals[locID] = m.locTotals[locID].Add(net)
	}
	sort.Slice(applied, func(i, j int) bool {
		if applied[i].LocationID != applied[j].LocationID {
			return applied[i].LocationID < applied[j].LocationID
		}
		return applied[i].MaterialID < applied[j].MaterialID
	})
	return applied, nil
}

// SetLockTimeout 调整库位锁等待上限，仅用于构造期
func (m *MemStore) SetLockTimeout(d time.Duration) {
	m.lockTimeout = d
}
