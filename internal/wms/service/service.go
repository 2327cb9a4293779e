package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
)

// Services WMS 服务集合
type Services struct {
	Material   *MaterialService
	Warehouse  *WarehouseService
	Partner    *PartnerService
	Purchase   *PurchaseService
	Sales      *SalesService
	StockIn    *StockInService
	StockOut   *StockOutService
	Transfer   *TransferService
	Adjustment *AdjustmentService
	Stock      *StockService
	Attachment *AttachmentService
}

// NewServices 组装服务层。rdb 提供时单据锁跨实例生效，
// 否则退化为进程内锁（单实例部署与测试）
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, minioClient *minio.Client, bucketName string) *Services {
	var locker ledger.Locker
	if rdb != nil {
		locker = repository.NewRedisLocker(rdb)
	} else {
		locker = ledger.NewKeyedLock()
	}

	return &Services{
		Material:   NewMaterialService(repos.Material),
		Warehouse:  NewWarehouseService(repos.Warehouse, repos.Stock),
		Partner:    NewPartnerService(repos.Partner),
		Purchase:   NewPurchaseService(repos, db, locker),
		Sales:      NewSalesService(repos, db, locker),
		StockIn:    NewStockInService(repos, db, locker),
		StockOut:   NewStockOutService(repos, db, locker),
		Transfer:   NewTransferService(repos, db, locker),
		Adjustment: NewAdjustmentService(repos, db, locker),
		Stock:      NewStockService(repos),
		Attachment: NewAttachmentService(repos.Attachment, minioClient, bucketName),
	}
}
