package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
	"github.com/bitfantasy/nimo-wms/internal/wms/service"
)

type SalesHandler struct {
	svc *service.SalesService
}

func NewSalesHandler(svc *service.SalesService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

func (h *SalesHandler) Create(c *gin.Context) {
	var req service.CreateSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	so, err := h.svc.Create(req, operator(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": so})
}

func (h *SalesHandler) Get(c *gin.Context) {
	so, err := h.svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": so})
}

// GetByNo 按单号查询，供出库凭证按来源单号回溯原始订单
func (h *SalesHandler) GetByNo(c *gin.Context) {
	so, err := h.svc.GetByNo(c.Param("no"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": so})
}

func (h *SalesHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.OrderListParams{
		Status:    c.Query("status"),
		PartnerID: c.Query("customer_id"),
		Keyword:   c.Query("keyword"),
		Page:      page,
		Size:      size,
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

func (h *SalesHandler) Approve(c *gin.Context) {
	if err := h.svc.Approve(c.Param("id"), operator(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

func (h *SalesHandler) Cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Param("id"), operator(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

// Ship 销售发货，校验库存后按明细行出库
func (h *SalesHandler) Ship(c *gin.Context) {
	var req service.ShipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	res, err := h.svc.Ship(c.Request.Context(), c.Param("id"), req, operator(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": res})
}
