package ledger

import (
	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

// Catalog 主数据只读查询，引擎与校验器通过它按需取引用实体，
// 不持有双向对象图。查不到时返回错误
type Catalog interface {
	Material(id string) (*entity.Material, error)
	Unit(id string) (*entity.MaterialUnit, error)
	Location(id string) (*entity.StorageLocation, error)
	Warehouse(id string) (*entity.Warehouse, error)
	Supplier(id string) (*entity.Supplier, error)
	Customer(id string) (*entity.Customer, error)
}
