package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
	"github.com/bitfantasy/nimo-wms/internal/wms/service"
)

type AdjustmentHandler struct {
	svc *service.AdjustmentService
}

func NewAdjustmentHandler(svc *service.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{svc: svc}
}

func (h *AdjustmentHandler) Create(c *gin.Context) {
	var req service.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	adjustment, err := h.svc.Create(req, operator(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": adjustment})
}

func (h *AdjustmentHandler) Get(c *gin.Context) {
	adjustment, err := h.svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": adjustment})
}

func (h *AdjustmentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.AdjustmentListParams{
		Status:         c.Query("status"),
		WarehouseID:    c.Query("warehouse_id"),
		AdjustmentType: c.Query("adjustment_type"),
		Page:           page,
		Size:           size,
	}
	adjustments, total, err := h.svc.List(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{
		"items": adjustments,
		"total": total,
		"page":  page,
		"size":  size,
	}})
}

func (h *AdjustmentHandler) Approve(c *gin.Context) {
	if err := h.svc.Approve(c.Param("id"), operator(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

func (h *AdjustmentHandler) Cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Param("id"), operator(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

// Execute 执行调整，盘盈盘亏直接增减，冻结解冻在可用与冻结之间划转
func (h *AdjustmentHandler) Execute(c *gin.Context) {
	res, err := h.svc.Execute(c.Request.Context(), c.Param("id"), operator(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": res})
}
