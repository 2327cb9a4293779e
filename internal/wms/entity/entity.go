package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有WMS表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&MaterialCategory{},
		&MaterialUnit{},
		&Material{},
		&Warehouse{},
		&StorageZone{},
		&StorageRack{},
		&StorageLocation{},
		&Supplier{},
		&Customer{},

		// 采购 / 销售
		&PurchaseOrder{},
		&PurchaseOrderDetail{},
		&SalesOrder{},
		&SalesOrderDetail{},

		// 出入库 / 调拨 / 调整
		&StockInOrder{},
		&StockInOrderDetail{},
		&StockOutOrder{},
		&StockOutOrderDetail{},
		&TransferOrder{},
		&TransferOrderDetail{},
		&InventoryAdjustment{},
		&InventoryAdjustmentDetail{},

		// 数量账
		&StockLevel{},
		&StockTransaction{},

		// 附件
		&Attachment{},
	)
}
