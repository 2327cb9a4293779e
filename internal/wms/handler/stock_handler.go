package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
	"github.com/bitfantasy/nimo-wms/internal/wms/service"
)

type StockHandler struct {
	svc *service.StockService
}

func NewStockHandler(svc *service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

func stockListParams(c *gin.Context) repository.StockListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	return repository.StockListParams{
		MaterialID:  c.Query("material_id"),
		LocationID:  c.Query("location_id"),
		WarehouseID: c.Query("warehouse_id"),
		NonZeroOnly: c.Query("non_zero") == "true",
		Page:        page,
		Size:        size,
	}
}

func (h *StockHandler) ListLevels(c *gin.Context) {
	params := stockListParams(c)
	levels, total, err := h.svc.ListLevels(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{
		"items": levels,
		"total": total,
		"page":  params.Page,
		"size":  params.Size,
	}})
}

func (h *StockHandler) GetLevel(c *gin.Context) {
	materialID := c.Query("material_id")
	locationID := c.Query("location_id")
	if materialID == "" || locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "material_id 和 location_id 不能为空"})
		return
	}
	level, err := h.svc.Get(c.Request.Context(), materialID, locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": level})
}

// TotalOnHand 物料在所有库位的在库总量
func (h *StockHandler) TotalOnHand(c *gin.Context) {
	total, err := h.svc.TotalOnHand(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{
		"material_id": c.Param("id"),
		"on_hand":     total,
	}})
}

func (h *StockHandler) ListTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.TransactionListParams{
		MaterialID: c.Query("material_id"),
		LocationID: c.Query("location_id"),
		DocumentID: c.Query("document_id"),
		Page:       page,
		Size:       size,
	}
	transactions, total, err := h.svc.ListTransactions(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{
		"items": transactions,
		"total": total,
		"page":  page,
		"size":  size,
	}})
}

// Alerts 低于安全库存或超出上限的物料预警
func (h *StockHandler) Alerts(c *gin.Context) {
	alerts, err := h.svc.Alerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": alerts})
}

// Export 导出库存明细 Excel
func (h *StockHandler) Export(c *gin.Context) {
	f, filename, err := h.svc.Export(stockListParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": "写入 Excel 失败: " + err.Error()})
	}
}
