package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
)

// StockService 库存查询、预警与导出，对数量账只读
type StockService struct {
	repos *repository.Repositories
	alert *ledger.AlertEvaluator
}

func NewStockService(repos *repository.Repositories) *StockService {
	return &StockService{
		repos: repos,
		alert: ledger.NewAlertEvaluator(repos.Catalog, repos.Stock),
	}
}

func (s *StockService) ListLevels(params repository.StockListParams) ([]entity.StockLevel, int64, error) {
	return s.repos.Stock.ListLevels(params)
}

func (s *StockService) Get(ctx context.Context, materialID, locationID string) (entity.StockLevel, error) {
	return s.repos.Stock.Get(ctx, materialID, locationID)
}

func (s *StockService) TotalOnHand(ctx context.Context, materialID string) (decimal.Decimal, error) {
	return s.repos.Stock.TotalOnHand(ctx, materialID)
}

func (s *StockService) ListTransactions(params repository.TransactionListParams) ([]entity.StockTransaction, int64, error) {
	return s.repos.Stock.ListTransactions(params)
}

// StockAlert 一条触发了预警的物料
type StockAlert struct {
	Material entity.Material   `json:"material"`
	Level    ledger.AlertLevel `json:"level"`
	OnHand   decimal.Decimal   `json:"on_hand"`
}

// Alerts 扫描设置了最低/最高库存的启用物料，返回低于最低或超过最高的
func (s *StockService) Alerts(ctx context.Context) ([]StockAlert, error) {
	materials, err := s.repos.Material.ListForAlert()
	if err != nil {
		return nil, fmt.Errorf("查询预警物料失败: %w", err)
	}
	var alerts []StockAlert
	for _, m := range materials {
		level, err := s.alert.Evaluate(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if level == ledger.AlertNormal {
			continue
		}
		onHand, err := s.repos.Stock.TotalOnHand(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, StockAlert{Material: m, Level: level, OnHand: onHand})
	}
	return alerts, nil
}

var stockExportHeaders = []string{
	"物料编码", "物料名称", "库位编码", "可用数量", "冻结数量", "在库数量", "最后移动时间",
}

// Export 导出当前账面数量为 xlsx
func (s *StockService) Export(params repository.StockListParams) (*excelize.File, string, error) {
	params.Page = 1
	params.Size = 100000
	levels, _, err := s.repos.Stock.ListLevels(params)
	if err != nil {
		return nil, "", fmt.Errorf("查询库存失败: %w", err)
	}

	f := excelize.NewFile()
	sheet := "库存"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range stockExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, lvl := range levels {
		row := rowIdx + 2
		materialCode, materialName := "", ""
		if m, err := s.repos.Catalog.Material(lvl.MaterialID); err == nil {
			materialCode, materialName = m.Code, m.Name
		}
		locationCode := ""
		if l, err := s.repos.Catalog.Location(lvl.LocationID); err == nil {
			locationCode = l.Code
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), materialCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), materialName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), locationCode)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), lvl.AvailableQty.String())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), lvl.FrozenQty.String())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), lvl.OnHand().String())
		if lvl.LastMovedAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), lvl.LastMovedAt.Format("2006-01-02 15:04:05"))
		}
	}

	colWidths := []float64{14, 20, 12, 12, 12, 12, 20}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("库存_%s.xlsx", time.Now().Format("20060102150405"))
	return f, filename, nil
}
