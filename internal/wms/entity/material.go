package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialCategory 物料分类，ParentCategoryID 自关联实现层级（顶级分类为空）
type MaterialCategory struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code             string     `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name             string     `json:"name" gorm:"size:100;not null"`
	ParentCategoryID *string    `json:"parent_category_id" gorm:"type:uuid;index"`
	Description      string     `json:"description" gorm:"type:text"`
	IsActive         bool       `json:"is_active" gorm:"not null;default:true"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at" gorm:"index"`
}

func (MaterialCategory) TableName() string {
	return "wms_material_categories"
}

// MaterialUnit 计量单位。ConversionFactor 为 1 个该单位折算的基础单位数量，
// 基础单位因子恒为 1，其余单位因子必须为正
type MaterialUnit struct {
	ID               string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code             string          `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name             string          `json:"name" gorm:"size:100;not null"`
	ConversionFactor decimal.Decimal `json:"conversion_factor" gorm:"type:decimal(18,6);not null;default:1"`
	IsBaseUnit       bool            `json:"is_base_unit" gorm:"not null;default:false"`
	IsActive         bool            `json:"is_active" gorm:"not null;default:true"`
	Description      string          `json:"description" gorm:"type:text"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        *time.Time      `json:"deleted_at" gorm:"index"`
}

func (MaterialUnit) TableName() string {
	return "wms_material_units"
}

// Material 物料主数据。MinStock/MaxStock 用于库存预警，
// 约束 MinStock >= 0，MaxStock 存在时 MaxStock >= MinStock
type Material struct {
	ID            string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code          string           `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name          string           `json:"name" gorm:"size:128;not null"`
	CategoryID    string           `json:"category_id" gorm:"type:uuid;not null;index"`
	Specification string           `json:"specification" gorm:"size:255"`
	BaseUnitID    string           `json:"base_unit_id" gorm:"type:uuid;not null"`
	PackageUnitID *string          `json:"package_unit_id" gorm:"type:uuid"`
	UnitWeight    *decimal.Decimal `json:"unit_weight" gorm:"type:decimal(18,4)"`
	UnitVolume    *decimal.Decimal `json:"unit_volume" gorm:"type:decimal(18,4)"`
	MinStock      decimal.Decimal  `json:"min_stock" gorm:"type:decimal(18,4);not null;default:0"`
	MaxStock      *decimal.Decimal `json:"max_stock" gorm:"type:decimal(18,4)"`
	ExpiryDays    int              `json:"expiry_days" gorm:"not null;default:0"`
	IsActive      bool             `json:"is_active" gorm:"not null;default:true"`
	Description   string           `json:"description" gorm:"type:text"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     *time.Time       `json:"deleted_at" gorm:"index"`
}

func (Material) TableName() string {
	return "wms_materials"
}
