package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
	"github.com/bitfantasy/nimo-wms/internal/wms/service"
)

type StockInHandler struct {
	svc *service.StockInService
}

func NewStockInHandler(svc *service.StockInService) *StockInHandler {
	return &StockInHandler{svc: svc}
}

func (h *StockInHandler) Create(c *gin.Context) {
	var req service.CreateStockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	order, err := h.svc.Create(req, operator(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": order})
}

func (h *StockInHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": order})
}

func (h *StockInHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.StockOrderListParams{
		Status:      c.Query("status"),
		WarehouseID: c.Query("warehouse_id"),
		SourceType:  c.Query("source_type"),
		Keyword:     c.Query("keyword"),
		Page:        page,
		Size:        size,
	}
	orders, total, err := h.svc.List(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{
		"items": orders,
		"total": total,
		"page":  page,
		"size":  size,
	}})
}

func (h *StockInHandler) Approve(c *gin.Context) {
	if err := h.svc.Approve(c.Param("id"), operator(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

func (h *StockInHandler) Cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Param("id"), operator(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

// Execute 执行入库，库存变更与单据状态推进在同一事务内完成
func (h *StockInHandler) Execute(c *gin.Context) {
	res, err := h.svc.Execute(c.Request.Context(), c.Param("id"), operator(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": res})
}
