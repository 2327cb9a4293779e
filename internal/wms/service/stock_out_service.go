package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
)

type StockOutService struct {
	repos  *repository.Repositories
	db     *gorm.DB
	locker ledger.Locker
}

func NewStockOutService(repos *repository.Repositories, db *gorm.DB, locker ledger.Locker) *StockOutService {
	return &StockOutService{repos: repos, db: db, locker: locker}
}

type StockOutDetailRequest struct {
	MaterialID string          `json:"material_id" binding:"required"`
	BatchNo    string          `json:"batch_no"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitID     string          `json:"unit_id" binding:"required"`
	LocationID string          `json:"location_id" binding:"required"`
	Remark     string          `json:"remark"`
}

type CreateStockOutRequest struct {
	SourceType  string                  `json:"source_type"`
	SourceNo    string                  `json:"source_no"`
	WarehouseID string                  `json:"warehouse_id" binding:"required"`
	OutDate     *time.Time              `json:"out_date"`
	Remark      string                  `json:"remark"`
	Details     []StockOutDetailRequest `json:"details" binding:"required,min=1"`
}

func (s *StockOutService) Create(req CreateStockOutRequest, operator string) (*entity.StockOutOrder, error) {
	wh, err := s.repos.Warehouse.GetByID(req.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("仓库不存在: %w", err)
	}
	if !wh.IsActive {
		return nil, fmt.Errorf("仓库 %s 已停用", wh.Code)
	}
	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = entity.SourceOther
	}
	outDate := time.Now()
	if req.OutDate != nil {
		outDate = *req.OutDate
	}

	orderID := uuid.New().String()
	total := decimal.Zero
	details := make([]entity.StockOutOrderDetail, 0, len(req.Details))
	for _, d := range req.Details {
		if !d.Quantity.IsPositive() {
			return nil, errors.New("明细数量必须为正数")
		}
		total = total.Add(d.Quantity)
		details = append(details, entity.StockOutOrderDetail{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			MaterialID: d.MaterialID,
			BatchNo:    d.BatchNo,
			Quantity:   d.Quantity,
			UnitID:     d.UnitID,
			LocationID: d.LocationID,
			Remark:     d.Remark,
		})
	}

	order := &entity.StockOutOrder{
		ID:            orderID,
		OrderNo:       fmt.Sprintf("OUT-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		SourceType:    sourceType,
		SourceNo:      req.SourceNo,
		WarehouseID:   req.WarehouseID,
		OutDate:       outDate,
		TotalQuantity: total,
		Status:        entity.StatusDraft,
		Remark:        req.Remark,
		CreatedBy:     operator,
		Details:       details,
	}
	if err := s.repos.StockOut.Create(order); err != nil {
		return nil, fmt.Errorf("创建出库单失败: %w", err)
	}
	return order, nil
}

func (s *StockOutService) Get(id string) (*entity.StockOutOrder, error) {
	return s.repos.StockOut.GetByID(id)
}

func (s *StockOutService) List(params repository.StockOrderListParams) ([]entity.StockOutOrder, int64, error) {
	return s.repos.StockOut.List(params)
}

func (s *StockOutService) Approve(id, operator string) error {
	order, err := s.repos.StockOut.GetByID(id)
	if err != nil {
		return fmt.Errorf("出库单不存在: %w", err)
	}
	next, err := ledger.Approve(order.Status)
	if err != nil {
		return err
	}
	return transitionStatus(s.db, &entity.StockOutOrder{}, id, order.Status, next, operator)
}

func (s *StockOutService) Cancel(id, operator string) error {
	order, err := s.repos.StockOut.GetByID(id)
	if err != nil {
		return fmt.Errorf("出库单不存在: %w", err)
	}
	next, err := ledger.Cancel(order.Status)
	if err != nil {
		return err
	}
	return transitionStatus(s.db, &entity.StockOutOrder{}, id, order.Status, next, operator)
}

// Execute 执行出库。库存不足时整单拒绝，账面不产生任何变化
func (s *StockOutService) Execute(ctx context.Context, id, operator string) (*ledger.Result, error) {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.repos.StockOut.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("出库单不存在: %w", err)
	}

	doc := &ledger.Document{
		ID:          order.ID,
		No:          order.OrderNo,
		Type:        entity.DocTypeStockOut,
		Status:      order.Status,
		WarehouseID: order.WarehouseID,
	}
	for _, d := range order.Details {
		doc.Lines = append(doc.Lines, ledger.Line{
			DetailID:   d.ID,
			MaterialID: d.MaterialID,
			UnitID:     d.UnitID,
			LocationID: d.LocationID,
			BatchNo:    d.BatchNo,
			Quantity:   d.Quantity,
		})
	}

	var result *ledger.Result
	err = s.db.Transaction(func(tx *gorm.DB) error {
		engine := ledger.NewEngine(s.repos.Catalog, s.repos.Stock.WithTx(tx))
		res, err := engine.Execute(ctx, doc, operator)
		if err != nil {
			return err
		}
		if err := persistJournal(tx, res.Journal); err != nil {
			return err
		}
		if err := transitionStatus(tx, &entity.StockOutOrder{}, order.ID, order.Status, res.Status, operator); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
