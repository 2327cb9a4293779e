package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-wms/internal/middleware"
)

// RegisterRoutes 挂载 WMS 的全部业务路由
func RegisterRoutes(router *gin.Engine, handlers *Handlers, jwtSecret string) {
	v1 := router.Group("/api/v1/wms")
	v1.Use(middleware.JWTAuth(jwtSecret))
	{
		// 物料主数据
		categories := v1.Group("/material-categories")
		{
			categories.GET("", handlers.Material.ListCategories)
			categories.POST("", handlers.Material.CreateCategory)
			categories.DELETE("/:id", handlers.Material.DeactivateCategory)
		}

		units := v1.Group("/units")
		{
			units.GET("", handlers.Material.ListUnits)
			units.POST("", handlers.Material.CreateUnit)
			units.PUT("/:id", handlers.Material.UpdateUnit)
			units.DELETE("/:id", handlers.Material.DeactivateUnit)
		}

		materials := v1.Group("/materials")
		{
			materials.GET("", handlers.Material.List)
			materials.POST("", handlers.Material.Create)
			materials.GET("/:id", handlers.Material.Get)
			materials.PUT("/:id", handlers.Material.Update)
			materials.DELETE("/:id", handlers.Material.Deactivate)
			materials.GET("/:id/on-hand", handlers.Stock.TotalOnHand)
		}

		// 仓库结构
		warehouses := v1.Group("/warehouses")
		{
			warehouses.GET("", handlers.Warehouse.List)
			warehouses.POST("", handlers.Warehouse.Create)
			warehouses.GET("/:id", handlers.Warehouse.Get)
			warehouses.PUT("/:id", handlers.Warehouse.Update)
			warehouses.DELETE("/:id", handlers.Warehouse.Deactivate)
			warehouses.GET("/:id/zones", handlers.Warehouse.ListZones)
		}

		zones := v1.Group("/zones")
		{
			zones.POST("", handlers.Warehouse.CreateZone)
			zones.GET("/:id/racks", handlers.Warehouse.ListRacks)
		}

		racks := v1.Group("/racks")
		{
			racks.POST("", handlers.Warehouse.CreateRack)
		}

		locations := v1.Group("/locations")
		{
			locations.GET("", handlers.Warehouse.ListLocations)
			locations.POST("", handlers.Warehouse.CreateLocation)
			locations.PUT("/:id", handlers.Warehouse.UpdateLocation)
			locations.DELETE("/:id", handlers.Warehouse.DeactivateLocation)
		}

		// 往来单位
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", handlers.Partner.ListSuppliers)
			suppliers.POST("", handlers.Partner.CreateSupplier)
			suppliers.GET("/:id", handlers.Partner.GetSupplier)
			suppliers.PUT("/:id", handlers.Partner.UpdateSupplier)
			suppliers.DELETE("/:id", handlers.Partner.DeactivateSupplier)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("", handlers.Partner.ListCustomers)
			customers.POST("", handlers.Partner.CreateCustomer)
			customers.GET("/:id", handlers.Partner.GetCustomer)
			customers.PUT("/:id", handlers.Partner.UpdateCustomer)
			customers.DELETE("/:id", handlers.Partner.DeactivateCustomer)
		}

		// 采购 / 销售
		pos := v1.Group("/purchase-orders")
		{
			pos.GET("", handlers.Purchase.List)
			pos.POST("", handlers.Purchase.Create)
			pos.GET("/:id", handlers.Purchase.Get)
			pos.GET("/no/:no", handlers.Purchase.GetByNo)
			pos.POST("/:id/approve", handlers.Purchase.Approve)
			pos.POST("/:id/cancel", handlers.Purchase.Cancel)
			pos.POST("/:id/receive", handlers.Purchase.Receive)
		}

		sos := v1.Group("/sales-orders")
		{
			sos.GET("", handlers.Sales.List)
			sos.POST("", handlers.Sales.Create)
			sos.GET("/:id", handlers.Sales.Get)
			sos.GET("/no/:no", handlers.Sales.GetByNo)
			sos.POST("/:id/approve", handlers.Sales.Approve)
			sos.POST("/:id/cancel", handlers.Sales.Cancel)
			sos.POST("/:id/ship", handlers.Sales.Ship)
		}

		// 仓储单据
		stockIns := v1.Group("/stock-in-orders")
		{
			stockIns.GET("", handlers.StockIn.List)
			stockIns.POST("", handlers.StockIn.Create)
			stockIns.GET("/:id", handlers.StockIn.Get)
			stockIns.POST("/:id/approve", handlers.StockIn.Approve)
			stockIns.POST("/:id/cancel", handlers.StockIn.Cancel)
			stockIns.POST("/:id/execute", handlers.StockIn.Execute)
		}

		stockOuts := v1.Group("/stock-out-orders")
		{
			stockOuts.GET("", handlers.StockOut.List)
			stockOuts.POST("", handlers.StockOut.Create)
			stockOuts.GET("/:id", handlers.StockOut.Get)
			stockOuts.POST("/:id/approve", handlers.StockOut.Approve)
			stockOuts.POST("/:id/cancel", handlers.StockOut.Cancel)
			stockOuts.POST("/:id/execute", handlers.StockOut.Execute)
		}

		transfers := v1.Group("/transfer-orders")
		{
			transfers.GET("", handlers.Transfer.List)
			transfers.POST("", handlers.Transfer.Create)
			transfers.GET("/:id", handlers.Transfer.Get)
			transfers.POST("/:id/approve", handlers.Transfer.Approve)
			transfers.POST("/:id/cancel", handlers.Transfer.Cancel)
			transfers.POST("/:id/execute", handlers.Transfer.Execute)
		}

		adjustments := v1.Group("/adjustments")
		{
			adjustments.GET("", handlers.Adjustment.List)
			adjustments.POST("", handlers.Adjustment.Create)
			adjustments.GET("/:id", handlers.Adjustment.Get)
			adjustments.POST("/:id/approve", handlers.Adjustment.Approve)
			adjustments.POST("/:id/cancel", handlers.Adjustment.Cancel)
			adjustments.POST("/:id/execute", handlers.Adjustment.Execute)
		}

		// 库存查询
		stock := v1.Group("/stock")
		{
			stock.GET("", handlers.Stock.ListLevels)
			stock.GET("/level", handlers.Stock.GetLevel)
			stock.GET("/transactions", handlers.Stock.ListTransactions)
			stock.GET("/alerts", handlers.Stock.Alerts)
			stock.GET("/export", handlers.Stock.Export)
		}

		// 附件
		attachments := v1.Group("/attachments")
		{
			attachments.GET("", handlers.Attachment.ListByRelated)
			attachments.POST("", handlers.Attachment.Upload)
			attachments.GET("/:id/download", handlers.Attachment.Download)
			attachments.DELETE("/:id", handlers.Attachment.Delete)
		}
	}
}
