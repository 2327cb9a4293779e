package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseType 仓库类型
const (
	WarehouseTypeCentral  = "中央仓"
	WarehouseTypeRegional = "区域仓"
	WarehouseTypeOther    = "其他"
)

// Warehouse 仓库，库存组织的顶层单位
type Warehouse struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code          string     `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name          string     `json:"name" gorm:"size:100;not null"`
	WarehouseType string     `json:"warehouse_type" gorm:"size:20;not null;default:其他"`
	Address       string     `json:"address" gorm:"size:500"`
	ContactPerson string     `json:"contact_person" gorm:"size:64"`
	ContactPhone  string     `json:"contact_phone" gorm:"size:32"`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"`
	Description   string     `json:"description" gorm:"type:text"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at" gorm:"index"`
}

func (Warehouse) TableName() string {
	return "wms_warehouses"
}

// StorageZone 库区，仓库内的分区
type StorageZone struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WarehouseID string     `json:"warehouse_id" gorm:"type:uuid;not null;index"`
	Code        string     `json:"code" gorm:"size:50;not null"`
	Name        string     `json:"name" gorm:"size:100;not null"`
	IsActive    bool       `json:"is_active" gorm:"not null;default:true"`
	Description string     `json:"description" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`
}

func (StorageZone) TableName() string {
	return "wms_storage_zones"
}

// StorageRack 货架，库区内的存储架
type StorageRack struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ZoneID      string     `json:"zone_id" gorm:"type:uuid;not null;index"`
	Code        string     `json:"code" gorm:"size:50;not null"`
	Name        string     `json:"name" gorm:"size:100;not null"`
	IsActive    bool       `json:"is_active" gorm:"not null;default:true"`
	Description string     `json:"description" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`
}

func (StorageRack) TableName() string {
	return "wms_storage_racks"
}

// StorageLocation 库位，库存的最小存放单位。
// CurrentQuantity 是该库位所有物料数量的派生缓存，提交成功后由台账引擎重算；
// MaxQuantity 存在时，任何已提交的变更后 CurrentQuantity <= MaxQuantity
type StorageLocation struct {
	ID              string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RackID          string           `json:"rack_id" gorm:"type:uuid;not null;index"`
	Code            string           `json:"code" gorm:"size:50;not null"`
	Name            string           `json:"name" gorm:"size:100"`
	MaxQuantity     *decimal.Decimal `json:"max_quantity" gorm:"type:decimal(18,4)"`
	CurrentQuantity decimal.Decimal  `json:"current_quantity" gorm:"type:decimal(18,4);not null;default:0"`
	IsActive        bool             `json:"is_active" gorm:"not null;default:true"`
	Description     string           `json:"description" gorm:"type:text"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       *time.Time       `json:"deleted_at" gorm:"index"`
}

func (StorageLocation) TableName() string {
	return "wms_storage_locations"
}
