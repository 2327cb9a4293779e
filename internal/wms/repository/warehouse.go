package repository

import (
	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"gorm.io/gorm"
)

type WarehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

// --- 仓库 ---

func (r *WarehouseRepository) Create(w *entity.Warehouse) error {
	return r.db.Create(w).Error
}

func (r *WarehouseRepository) GetByID(id string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&w).Error
	return &w, err
}

func (r *WarehouseRepository) GetByCode(code string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.db.Where("code = ? AND deleted_at IS NULL", code).First(&w).Error
	return &w, err
}

func (r *WarehouseRepository) Update(w *entity.Warehouse) error {
	return r.db.Save(w).Error
}

func (r *WarehouseRepository) List(activeOnly bool) ([]entity.Warehouse, error) {
	query := r.db.Where("deleted_at IS NULL")
	if activeOnly {
		query = query.Where("is_active = true")
	}
	var warehouses []entity.Warehouse
	err := query.Order("code").Find(&warehouses).Error
	return warehouses, err
}

// --- 库区 ---

func (r *WarehouseRepository) CreateZone(z *entity.StorageZone) error {
	return r.db.Create(z).Error
}

func (r *WarehouseRepository) GetZoneByID(id string) (*entity.StorageZone, error) {
	var z entity.StorageZone
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&z).Error
	return &z, err
}

func (r *WarehouseRepository) UpdateZone(z *entity.StorageZone) error {
	return r.db.Save(z).Error
}

func (r *WarehouseRepository) ListZones(warehouseID string) ([]entity.StorageZone, error) {
	var zones []entity.StorageZone
	err := r.db.Where("warehouse_id = ? AND deleted_at IS NULL", warehouseID).
		Order("code").Find(&zones).Error
	return zones, err
}

// --- 货架 ---

func (r *WarehouseRepository) CreateRack(rk *entity.StorageRack) error {
	return r.db.Create(rk).Error
}

func (r *WarehouseRepository) GetRackByID(id string) (*entity.StorageRack, error) {
	var rk entity.StorageRack
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&rk).Error
	return &rk, err
}

func (r *WarehouseRepository) UpdateRack(rk *entity.StorageRack) error {
	return r.db.Save(rk).Error
}

func (r *WarehouseRepository) ListRacks(zoneID string) ([]entity.StorageRack, error) {
	var racks []entity.StorageRack
	err := r.db.Where("zone_id = ? AND deleted_at IS NULL", zoneID).
		Order("code").Find(&racks).Error
	return racks, err
}

// --- 库位 ---

func (r *WarehouseRepository) CreateLocation(l *entity.StorageLocation) error {
	return r.db.Create(l).Error
}

func (r *WarehouseRepository) GetLocationByID(id string) (*entity.StorageLocation, error) {
	var l entity.StorageLocation
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&l).Error
	return &l, err
}

func (r *WarehouseRepository) UpdateLocation(l *entity.StorageLocation) error {
	return r.db.Save(l).Error
}

func (r *WarehouseRepository) ListLocations(rackID string, activeOnly bool) ([]entity.StorageLocation, error) {
	query := r.db.Where("deleted_at IS NULL")
	if rackID != "" {
		query = query.Where("rack_id = ?", rackID)
	}
	if activeOnly {
		query = query.Where("is_active = true")
	}
	var locations []entity.StorageLocation
	err := query.Order("code").Find(&locations).Error
	return locations, err
}

// WarehouseIDOfLocation 沿 库位->货架->库区 找所属仓库
func (r *WarehouseRepository) WarehouseIDOfLocation(locationID string) (string, error) {
	var result struct{ WarehouseID string }
	err := r.db.Raw(`
		SELECT z.warehouse_id
		FROM wms_storage_locations l
		JOIN wms_storage_racks r ON r.id = l.rack_id
		JOIN wms_storage_zones z ON z.id = r.zone_id
		WHERE l.id = ?
	`, locationID).Scan(&result).Error
	return result.WarehouseID, err
}
