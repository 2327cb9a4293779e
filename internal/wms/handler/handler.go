package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
	"github.com/bitfantasy/nimo-wms/internal/wms/service"
)

// Handlers WMS HTTP处理器集合
type Handlers struct {
	Material   *MaterialHandler
	Warehouse  *WarehouseHandler
	Partner    *PartnerHandler
	Purchase   *PurchaseHandler
	Sales      *SalesHandler
	StockIn    *StockInHandler
	StockOut   *StockOutHandler
	Transfer   *TransferHandler
	Adjustment *AdjustmentHandler
	Stock      *StockHandler
	Attachment *AttachmentHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Material:   NewMaterialHandler(services.Material),
		Warehouse:  NewWarehouseHandler(services.Warehouse),
		Partner:    NewPartnerHandler(services.Partner),
		Purchase:   NewPurchaseHandler(services.Purchase),
		Sales:      NewSalesHandler(services.Sales),
		StockIn:    NewStockInHandler(services.StockIn),
		StockOut:   NewStockOutHandler(services.StockOut),
		Transfer:   NewTransferHandler(services.Transfer),
		Adjustment: NewAdjustmentHandler(services.Adjustment),
		Stock:      NewStockHandler(services.Stock),
		Attachment: NewAttachmentHandler(services.Attachment),
	}
}

// operator 从认证中间件取当前操作人
func operator(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "system"
}

// respondError 业务错误到 HTTP 状态码的统一映射
func respondError(c *gin.Context, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.Is(err, ledger.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"code": 20001, "message": err.Error()})
	case errors.Is(err, ledger.ErrInsufficientStock),
		errors.Is(err, ledger.ErrCapacityExceeded),
		errors.Is(err, ledger.ErrAlreadyTerminal),
		errors.Is(err, ledger.ErrEmptyDocument),
		errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"code": 20002, "message": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}
