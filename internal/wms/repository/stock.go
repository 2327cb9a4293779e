package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
)

// pgLockNotAvailable 是 lock_timeout 到期时 postgres 返回的 SQLSTATE
const pgLockNotAvailable = "55P03"

// StockRepository 数据库数量账。Apply 在单个数据库事务内完成
// 行锁 -> 试算 -> 落账，与 MemStore 遵守同一份契约：
// 整组变更要么全部生效要么全不生效，拒绝负库存与超容
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// WithTx 返回绑定到指定事务的数量账，供服务层把落账和单据更新放进同一事务
func (r *StockRepository) WithTx(tx *gorm.DB) *StockRepository {
	return &StockRepository{db: tx}
}

func (r *StockRepository) Get(ctx context.Context, materialID, locationID string) (entity.StockLevel, error) {
	var lvl entity.StockLevel
	err := r.db.WithContext(ctx).
		Where("material_id = ? AND location_id = ?", materialID, locationID).
		First(&lvl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.StockLevel{MaterialID: materialID, LocationID: locationID}, nil
	}
	return lvl, err
}

func (r *StockRepository) TotalOnHand(ctx context.Context, materialID string) (decimal.Decimal, error) {
	var result struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(available_qty + frozen_qty), 0) AS total
		FROM wms_stock_levels
		WHERE material_id = ?
	`, materialID).Scan(&result).Error
	return result.Total, err
}

func (r *StockRepository) LocationTotal(ctx context.Context, locationID string) (decimal.Decimal, error) {
	var result struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(available_qty + frozen_qty), 0) AS total
		FROM wms_stock_levels
		WHERE location_id = ?
	`, locationID).Scan(&result).Error
	return result.Total, err
}

func (r *StockRepository) Apply(ctx context.Context, deltas []ledger.Delta) ([]entity.StockLevel, error) {
	if len(deltas) == 0 {
		return nil, nil
	}
	merged := ledger.MergeDeltas(deltas)

	// 锁顺序固定为 (库位, 物料) 升序，并发调拨不会互相死锁
	keys := make([]ledger.StockKey, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].LocationID != keys[j].LocationID {
			return keys[i].LocationID < keys[j].LocationID
		}
		return keys[i].MaterialID < keys[j].MaterialID
	})

	var applied []entity.StockLevel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 行锁等待上限与 MemStore 对齐，超时映射为 ErrBusy 供调用方重试
		timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", ledger.DefaultLockTimeout.Milliseconds())
		if err := tx.Exec(timeout).Error; err != nil {
			return err
		}
		now := time.Now()
		locNet := make(map[string]decimal.Decimal)

		for _, k := range keys {
			d := merged[k]
			lvl, err := lockLevel(tx, k)
			if err != nil {
				return err
			}
			lvl.AvailableQty = lvl.AvailableQty.Add(d.Available)
			lvl.FrozenQty = lvl.FrozenQty.Add(d.Frozen)
			if lvl.AvailableQty.IsNegative() || lvl.FrozenQty.IsNegative() {
				return &ledger.StockError{MaterialID: k.MaterialID, LocationID: k.LocationID, Err: ledger.ErrInsufficientStock}
			}
			lvl.LastMovedAt = &now
			if err := tx.Save(&lvl).Error; err != nil {
				return err
			}
			applied = append(applied, lvl)
			locNet[k.LocationID] = locNet[k.LocationID].Add(d.Net())
		}

		// 库位容量与派生在库量：锁库位行后重算
		locIDs := make([]string, 0, len(locNet))
		for id := range locNet {
			locIDs = append(locIDs, id)
		}
		sort.Strings(locIDs)
		for _, locID := range locIDs {
			var loc entity.StorageLocation
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ? AND deleted_at IS NULL", locID).
				First(&loc).Error
			if err != nil {
				return err
			}
			var result struct{ Total decimal.Decimal }
			err = tx.Raw(`
				SELECT COALESCE(SUM(available_qty + frozen_qty), 0) AS total
				FROM wms_stock_levels
				WHERE location_id = ?
			`, locID).Scan(&result).Error
			if err != nil {
				return err
			}
			if locNet[locID].IsPositive() && loc.MaxQuantity != nil &&
				result.Total.GreaterThan(*loc.MaxQuantity) {
				return &ledger.StockError{LocationID: locID, Err: ledger.ErrCapacityExceeded}
			}
			err = tx.Model(&entity.StorageLocation{}).Where("id = ?", locID).
				Update("current_quantity", result.Total).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
			return nil, ledger.ErrBusy
		}
		return nil, err
	}
	return applied, nil
}

// lockLevel 用 FOR UPDATE 取出账面行，不存在则当场建零值行再锁定，
// 唯一索引保证并发创建只有一个成功
func lockLevel(tx *gorm.DB, k ledger.StockKey) (entity.StockLevel, error) {
	var lvl entity.StockLevel
	locked := func() error {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("material_id = ? AND location_id = ?", k.MaterialID, k.LocationID).
			First(&lvl).Error
	}
	err := locked()
	if err == nil {
		return lvl, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return lvl, err
	}
	seed := entity.StockLevel{
		MaterialID:   k.MaterialID,
		LocationID:   k.LocationID,
		AvailableQty: decimal.Zero,
		FrozenQty:    decimal.Zero,
	}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "material_id"}, {Name: "location_id"}},
		DoNothing: true,
	}).Create(&seed).Error
	if err != nil {
		return lvl, err
	}
	return lvl, locked()
}

type StockListParams struct {
	MaterialID  string
	LocationID  string
	WarehouseID string
	NonZeroOnly bool
	Page        int
	Size        int
}

func (r *StockRepository) ListLevels(params StockListParams) ([]entity.StockLevel, int64, error) {
	query := r.db.Model(&entity.StockLevel{})
	if params.MaterialID != "" {
		query = query.Where("material_id = ?", params.MaterialID)
	}
	if params.LocationID != "" {
		query = query.Where("location_id = ?", params.LocationID)
	}
	if params.WarehouseID != "" {
		query = query.Where(`location_id IN (
			SELECT l.id FROM wms_storage_locations l
			JOIN wms_storage_racks r ON r.id = l.rack_id
			JOIN wms_storage_zones z ON z.id = r.zone_id
			WHERE z.warehouse_id = ?
		)`, params.WarehouseID)
	}
	if params.NonZeroOnly {
		query = query.Where("available_qty + frozen_qty > 0")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var levels []entity.StockLevel
	err := query.Order("location_id, material_id").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&levels).Error
	return levels, total, err
}

// CreateTransactions 批量写入库存流水
func (r *StockRepository) CreateTransactions(txs []entity.StockTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.Create(&txs).Error
}

// ListTransactions 按物料/单据分页查询流水
type TransactionListParams struct {
	MaterialID string
	LocationID string
	DocumentID string
	Page       int
	Size       int
}

func (r *StockRepository) ListTransactions(params TransactionListParams) ([]entity.StockTransaction, int64, error) {
	query := r.db.Model(&entity.StockTransaction{})
	if params.MaterialID != "" {
		query = query.Where("material_id = ?", params.MaterialID)
	}
	if params.LocationID != "" {
		query = query.Where("location_id = ?", params.LocationID)
	}
	if params.DocumentID != "" {
		query = query.Where("document_id = ?", params.DocumentID)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var txs []entity.StockTransaction
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&txs).Error
	return txs, total, err
}
