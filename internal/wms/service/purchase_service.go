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

type PurchaseService struct {
	repos  *repository.Repositories
	db     *gorm.DB
	locker ledger.Locker
}

func NewPurchaseService(repos *repository.Repositories, db *gorm.DB, locker ledger.Locker) *PurchaseService {
	return &PurchaseService{repos: repos, db: db, locker: locker}
}

type PurchaseDetailRequest struct {
	MaterialID string          `json:"material_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitID     string          `json:"unit_id" binding:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Remark     string          `json:"remark"`
}

type CreatePurchaseRequest struct {
	SupplierID   string                  `json:"supplier_id" binding:"required"`
	OrderDate    *time.Time              `json:"order_date"`
	ExpectedDate *time.Time              `json:"expected_date"`
	Remark       string                  `json:"remark"`
	Details      []PurchaseDetailRequest `json:"details" binding:"required,min=1"`
}

func (s *PurchaseService) Create(req CreatePurchaseRequest, operator string) (*entity.PurchaseOrder, error) {
	sup, err := s.repos.Partner.GetSupplierByID(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("供应商不存在: %w", err)
	}
	if !sup.IsActive {
		return nil, fmt.Errorf("供应商 %s 已停用", sup.Code)
	}
	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	orderID := uuid.New().String()
	totalAmount := decimal.Zero
	details := make([]entity.PurchaseOrderDetail, 0, len(req.Details))
	for _, d := range req.Details {
		if !d.Quantity.IsPositive() {
			return nil, errors.New("明细数量必须为正数")
		}
		if d.UnitPrice.IsNegative() {
			return nil, errors.New("单价不能为负")
		}
		amount := d.Quantity.Mul(d.UnitPrice).Round(2)
		totalAmount = totalAmount.Add(amount)
		details = append(details, entity.PurchaseOrderDetail{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			MaterialID: d.MaterialID,
			Quantity:   d.Quantity,
			UnitID:     d.UnitID,
			UnitPrice:  d.UnitPrice,
			Amount:     amount,
			Remark:     d.Remark,
		})
	}

	po := &entity.PurchaseOrder{
		ID:           orderID,
		OrderNo:      fmt.Sprintf("PO-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		SupplierID:   req.SupplierID,
		OrderDate:    orderDate,
		ExpectedDate: req.ExpectedDate,
		TotalAmount:  totalAmount,
		Status:       entity.StatusDraft,
		Remark:       req.Remark,
		CreatedBy:    operator,
		Details:      details,
	}
	if err := s.repos.Purchase.Create(po); err != nil {
		return nil, fmt.Errorf("创建采购订单失败: %w", err)
	}
	return po, nil
}

func (s *PurchaseService) Get(id string) (*entity.PurchaseOrder, error) {
	return s.repos.Purchase.GetByID(id)
}

func (s *PurchaseService) GetByNo(orderNo string) (*entity.PurchaseOrder, error) {
	return s.repos.Purchase.GetByNo(orderNo)
}

func (s *PurchaseService) List(params repository.OrderListParams) ([]entity.PurchaseOrder, int64, error) {
	return s.repos.Purchase.List(params)
}

func (s *PurchaseService) Approve(id, operator string) error {
	po, err := s.repos.Purchase.GetByID(id)
	if err != nil {
		return fmt.Errorf("采购订单不存在: %w", err)
	}
	next, err := ledger.Approve(po.Status)
	if err != nil {
		return err
	}
	return transitionStatus(s.db, &entity.PurchaseOrder{}, id, po.Status, next, operator)
}

func (s *PurchaseService) Cancel(id, operator string) error {
	po, err := s.repos.Purchase.GetByID(id)
	if err != nil {
		return fmt.Errorf("采购订单不存在: %w", err)
	}
	next, err := ledger.Cancel(po.Status)
	if err != nil {
		return err
	}
	return transitionStatus(s.db, &entity.PurchaseOrder{}, id, po.Status, next, operator)
}

type ReceiveLineRequest struct {
	DetailID   string          `json:"detail_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	LocationID string          `json:"location_id" binding:"required"`
	BatchNo    string          `json:"batch_no"`
}

type ReceiveRequest struct {
	WarehouseID string               `json:"warehouse_id" binding:"required"`
	Lines       []ReceiveLineRequest `json:"lines" binding:"required,min=1"`
}

// Receive 采购收货。订单全部明细进入引擎，本次未触达的行数量为零；
// 累计已收不得超过订购量。落账、明细进度、订单状态与生成的入库单
// 在同一数据库事务内提交。单据锁覆盖从读取订单快照到事务提交的全程
func (s *PurchaseService) Receive(ctx context.Context, poID string, req ReceiveRequest, operator string) (*ledger.Result, error) {
	release, err := s.locker.Acquire(ctx, poID)
	if err != nil {
		return nil, err
	}
	defer release()

	po, err := s.repos.Purchase.GetByID(poID)
	if err != nil {
		return nil, fmt.Errorf("采购订单不存在: %w", err)
	}

	requested := make(map[string]ReceiveLineRequest, len(req.Lines))
	for _, line := range req.Lines {
		if _, dup := requested[line.DetailID]; dup {
			return nil, fmt.Errorf("明细 %s 在本次收货中重复出现", line.DetailID)
		}
		requested[line.DetailID] = line
	}

	doc := &ledger.Document{
		ID:          po.ID,
		No:          po.OrderNo,
		Type:        entity.DocTypePurchaseOrder,
		Status:      po.Status,
		WarehouseID: req.WarehouseID,
		SupplierID:  po.SupplierID,
	}
	matched := 0
	for _, d := range po.Details {
		line := ledger.Line{
			DetailID:   d.ID,
			MaterialID: d.MaterialID,
			UnitID:     d.UnitID,
			UnitPrice:  d.UnitPrice,
			Ordered:    d.Quantity,
			Fulfilled:  d.ReceivedQuantity,
		}
		if r, ok := requested[d.ID]; ok {
			line.Quantity = r.Quantity
			line.LocationID = r.LocationID
			line.BatchNo = r.BatchNo
			matched++
		}
		doc.Lines = append(doc.Lines, line)
	}
	if matched != len(requested) {
		return nil, errors.New("收货明细与订单明细不匹配")
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
		purchaseTx := s.repos.Purchase.WithTx(tx)
		for _, line := range doc.Lines {
			if line.Quantity.IsZero() {
				continue
			}
			if err := purchaseTx.UpdateDetailReceived(line.DetailID, line.Fulfilled, line.Quantity); err != nil {
				return err
			}
		}
		if err := transitionStatus(tx, &entity.PurchaseOrder{}, po.ID, po.Status, res.Status, operator); err != nil {
			return err
		}
		if err := s.createReceiptRecord(tx, po, req, operator); err != nil {
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

// createReceiptRecord 为本次收货生成一张已完成的入库单作为业务凭证
func (s *PurchaseService) createReceiptRecord(tx *gorm.DB, po *entity.PurchaseOrder, req ReceiveRequest, operator string) error {
	detailByID := make(map[string]entity.PurchaseOrderDetail, len(po.Details))
	for _, d := range po.Details {
		detailByID[d.ID] = d
	}

	orderID := uuid.New().String()
	total := decimal.Zero
	details := make([]entity.StockInOrderDetail, 0, len(req.Lines))
	for _, line := range req.Lines {
		d := detailByID[line.DetailID]
		total = total.Add(line.Quantity)
		details = append(details, entity.StockInOrderDetail{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			MaterialID: d.MaterialID,
			BatchNo:    line.BatchNo,
			Quantity:   line.Quantity,
			UnitID:     d.UnitID,
			LocationID: line.LocationID,
		})
	}

	record := &entity.StockInOrder{
		ID:            orderID,
		OrderNo:       fmt.Sprintf("IN-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		SourceType:    entity.SourcePurchase,
		SourceNo:      po.OrderNo,
		WarehouseID:   req.WarehouseID,
		InDate:        time.Now(),
		TotalQuantity: total,
		Status:        entity.StatusFullyFulfilled,
		CreatedBy:     operator,
		Details:       details,
	}
	return s.repos.StockIn.WithTx(tx).Create(record)
}
