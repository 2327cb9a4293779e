package repository

import "gorm.io/gorm"

// Repositories WMS 仓库集合
type Repositories struct {
	Catalog    *CatalogRepository
	Stock      *StockRepository
	Material   *MaterialRepository
	Warehouse  *WarehouseRepository
	Partner    *PartnerRepository
	Purchase   *PurchaseRepository
	Sales      *SalesRepository
	StockIn    *StockInRepository
	StockOut   *StockOutRepository
	Transfer   *TransferRepository
	Adjustment *AdjustmentRepository
	Attachment *AttachmentRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Catalog:    NewCatalogRepository(db),
		Stock:      NewStockRepository(db),
		Material:   NewMaterialRepository(db),
		Warehouse:  NewWarehouseRepository(db),
		Partner:    NewPartnerRepository(db),
		Purchase:   NewPurchaseRepository(db),
		Sales:      NewSalesRepository(db),
		StockIn:    NewStockInRepository(db),
		StockOut:   NewStockOutRepository(db),
		Transfer:   NewTransferRepository(db),
		Adjustment: NewAdjustmentRepository(db),
		Attachment: NewAttachmentRepository(db),
	}
}
