package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
	"github.com/bitfantasy/nimo-wms/internal/wms/service"
	"github.com/bitfantasy/nimo-wms/internal/wms/testutil"
)

func setupWMSRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, nil, nil, "")
	handlers := NewHandlers(services)

	router := testutil.SetupRouter()
	RegisterRoutes(router, handlers, testutil.JWTSecret)
	return router, db
}

func TestStockInExecuteFlow(t *testing.T) {
	router, db := setupWMSRouter(t)
	token := testutil.DefaultTestToken()

	unit := testutil.SeedBaseUnit(t, db, "PCS")
	material := testutil.SeedMaterial(t, db, "MAT-H-001", unit.ID)
	warehouseID, locationID := testutil.SeedWarehouseTree(t, db, "h1")

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/wms/stock-in-orders", map[string]interface{}{
		"warehouse_id": warehouseID,
		"details": []map[string]interface{}{
			{"material_id": material.ID, "quantity": "100", "unit_id": unit.ID, "location_id": locationID},
		},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Create status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 0 {
		t.Fatalf("Create code = %v, want 0", resp["code"])
	}
	orderID := resp["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/wms/stock-in-orders/%s/approve", orderID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Approve status = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/wms/stock-in-orders/%s/execute", orderID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Execute status = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, http.MethodGet,
		fmt.Sprintf("/api/v1/wms/stock/level?material_id=%s&location_id=%s", material.ID, locationID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Get level status = %d", w.Code)
	}
	resp = testutil.ParseResponse(w)
	level := resp["data"].(map[string]interface{})
	if !decimal.RequireFromString(level["available_qty"].(string)).Equal(decimal.NewFromInt(100)) {
		t.Errorf("available_qty = %v, want 100", level["available_qty"])
	}

	// 已完成的入库单不允许再次执行
	w = testutil.DoRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/wms/stock-in-orders/%s/execute", orderID), nil, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Re-execute status = %d, want 422", w.Code)
	}
	resp = testutil.ParseResponse(w)
	if resp["code"].(float64) != 20002 {
		t.Errorf("Re-execute code = %v, want 20002", resp["code"])
	}
}

func TestStockInCreateValidation(t *testing.T) {
	router, _ := setupWMSRouter(t)
	token := testutil.DefaultTestToken()

	// 缺少明细
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/wms/stock-in-orders", map[string]interface{}{
		"warehouse_id": "00000000-0000-0000-0000-000000000000",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Missing details status = %d, want 400", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 10001 {
		t.Errorf("Missing details code = %v, want 10001", resp["code"])
	}
}

func TestRequestWithoutToken(t *testing.T) {
	router, _ := setupWMSRouter(t)

	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/wms/stock", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("No token status = %d, want 401", w.Code)
	}
}
