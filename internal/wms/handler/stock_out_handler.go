package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
	"github.com/bitfantasy/nimo-wms/internal/wms/service"
)

type StockOutHandler struct {
	svc *service.StockOutService
}

func NewStockOutHandler(svc *service.StockOutService) *StockOutHandler {
	return &StockOutHandler{svc: svc}
}

func (h *StockOutHandler) Create(c *gin.Context) {
	var req service.CreateStockOutRequest
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

func (h *StockOutHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": order})
}

func (h *StockOutHandler) List(c *gin.Context) {
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

func (h *StockOutHandler) Approve(c *gin.Context) {
	if err := h.svc.Approve(c.Param("id"), operator(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

func (h *StockOutHandler) Cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Param("id"), operator(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

// Execute 执行出库，可用库存不足时整单拒绝
func (h *StockOutHandler) Execute(c *gin.Context) {
	res, err := h.svc.Execute(c.Request.Context(), c.Param("id"), operator(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": res})
}
