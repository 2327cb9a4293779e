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

type SalesService struct {
	repos  *repository.Repositories
	db     *gorm.DB
	locker ledger.Locker
}

func NewSalesService(repos *repository.Repositories, db *gorm.DB, locker ledger.Locker) *SalesService {
	return &SalesService{repos: repos, db: db, locker: locker}
}

type SalesDetailRequest struct {
	MaterialID string          `json:"material_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitID     string          `json:"unit_id" binding:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Remark     string          `json:"remark"`
}

type CreateSalesRequest struct {
	CustomerID   string               `json:"customer_id" binding:"required"`
	OrderDate    *time.Time           `json:"order_date"`
	ExpectedDate *time.Time           `json:"expected_date"`
	Remark       string               `json:"remark"`
	Details      []SalesDetailRequest `json:"details" binding:"required,min=1"`
}

func (s *SalesService) Create(req CreateSalesRequest, operator string) (*entity.SalesOrder, error) {
	cus, err := s.repos.Partner.GetCustomerByID(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("客户不存在: %w", err)
	}
	if !cus.IsActive {
		return nil, fmt.Errorf("客户 %s 已停用", cus.Code)
	}
	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	orderID := uuid.New().String()
	totalAmount := decimal.Zero
	details := make([]entity.SalesOrderDetail, 0, len(req.Details))
	for _, d := range req.Details {
		if !d.Quantity.IsPositive() {
			return nil, errors.New("明细数量必须为正数")
		}
		if d.UnitPrice.IsNegative() {
			return nil, errors.New("单价不能为负")
		}
		amount := d.Quantity.Mul(d.UnitPrice).Round(2)
		totalAmount = totalAmount.Add(amount)
		details = append(details, entity.SalesOrderDetail{
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

	so := &entity.SalesOrder{
		ID:           orderID,
		OrderNo:      fmt.Sprintf("SO-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		CustomerID:   req.CustomerID,
		OrderDate:    orderDate,
		ExpectedDate: req.ExpectedDate,
		TotalAmount:  totalAmount,
		Status:       entity.StatusDraft,
		Remark:       req.Remark,
		CreatedBy:    operator,
		Details:      details,
	}
	if err := s.repos.Sales.Create(so); err != nil {
		return nil, fmt.Errorf("创建销售订单失败: %w", err)
	}
	return so, nil
}

func (s *SalesService) Get(id string) (*entity.SalesOrder, error) {
	return s.repos.Sales.GetByID(id)
}

func (s *SalesService) GetByNo(orderNo string) (*entity.SalesOrder, error) {
	return s.repos.Sales.GetByNo(orderNo)
}

func (s *SalesService) List(params repository.OrderListParams) ([]entity.SalesOrder, int64, error) {
	return s.repos.Sales.List(params)
}

func (s *SalesService) Approve(id, operator string) error {
	so, err := s.repos.Sales.GetByID(id)
	if err != nil {
		return fmt.Errorf("销售订单不存在: %w", err)
	}
	next, err := ledger.Approve(so.Status)
	if err != nil {
		return err
	}
	return transitionStatus(s.db, &entity.SalesOrder{}, id, so.Status, next, operator)
}

func (s *SalesService) Cancel(id, operator string) error {
	so, err := s.repos.Sales.GetByID(id)
	if err != nil {
		return fmt.Errorf("销售订单不存在: %w", err)
	}
	next, err := ledger.Cancel(so.Status)
	if err != nil {
		return err
	}
	return transitionStatus(s.db, &entity.SalesOrder{}, id, so.Status, next, operator)
}

type ShipLineRequest struct {
	DetailID   string          `json:"detail_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	LocationID string          `json:"location_id" binding:"required"`
	BatchNo    string          `json:"batch_no"`
}

type ShipRequest struct {
	WarehouseID string            `json:"warehouse_id" binding:"required"`
	Lines       []ShipLineRequest `json:"lines" binding:"required,min=1"`
}

// Ship 销售发货。累计已发不得超过订购量，库存不足整单拒绝；
// 落账、明细进度、订单状态与生成的出库单在同一数据库事务内提交。
// 单据锁覆盖从读取订单快照到事务提交的全程
func (s *SalesService) Ship(ctx context.Context, soID string, req ShipRequest, operator string) (*ledger.Result, error) {
	release, err := s.locker.Acquire(ctx, soID)
	if err != nil {
		return nil, err
	}
	defer release()

	so, err := s.repos.Sales.GetByID(soID)
	if err != nil {
		return nil, fmt.Errorf("销售订单不存在: %w", err)
	}

	requested := make(map[string]ShipLineRequest, len(req.Lines))
	for _, line := range req.Lines {
		if _, dup := requested[line.DetailID]; dup {
			return nil, fmt.Errorf("明细 %s 在本次发货中重复出现", line.DetailID)
		}
		requested[line.DetailID] = line
	}

	doc := &ledger.Document{
		ID:          so.ID,
		No:          so.OrderNo,
		Type:        entity.DocTypeSalesOrder,
		Status:      so.Status,
		WarehouseID: req.WarehouseID,
		CustomerID:  so.CustomerID,
	}
	matched := 0
	for _, d := range so.Details {
		line := ledger.Line{
			DetailID:   d.ID,
			MaterialID: d.MaterialID,
			UnitID:     d.UnitID,
			UnitPrice:  d.UnitPrice,
			Ordered:    d.Quantity,
			Fulfilled:  d.ShippedQuantity,
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
		return nil, errors.New("发货明细与订单明细不匹配")
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
		salesTx := s.repos.Sales.WithTx(tx)
		for _, line := range doc.Lines {
			if line.Quantity.IsZero() {
				continue
			}
			if err := salesTx.UpdateDetailShipped(line.DetailID, line.Fulfilled, line.Quantity); err != nil {
				return err
			}
		}
		if err := transitionStatus(tx, &entity.SalesOrder{}, so.ID, so.Status, res.Status, operator); err != nil {
			return err
		}
		if err := s.createShipmentRecord(tx, so, req, operator); err != nil {
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

// createShipmentRecord 为本次发货生成一张已完成的出库单作为业务凭证
func (s *SalesService) createShipmentRecord(tx *gorm.DB, so *entity.SalesOrder, req ShipRequest, operator string) error {
	detailByID := make(map[string]entity.SalesOrderDetail, len(so.Details))
	for _, d := range so.Details {
		detailByID[d.ID] = d
	}

	orderID := uuid.New().String()
	total := decimal.Zero
	details := make([]entity.StockOutOrderDetail, 0, len(req.Lines))
	for _, line := range req.Lines {
		d := detailByID[line.DetailID]
		total = total.Add(line.Quantity)
		details = append(details, entity.StockOutOrderDetail{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			MaterialID: d.MaterialID,
			BatchNo:    line.BatchNo,
			Quantity:   line.Quantity,
			UnitID:     d.UnitID,
			LocationID: line.LocationID,
		})
	}

	record := &entity.StockOutOrder{
		ID:            orderID,
		OrderNo:       fmt.Sprintf("OUT-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		SourceType:    entity.SourceSales,
		SourceNo:      so.OrderNo,
		WarehouseID:   req.WarehouseID,
		OutDate:       time.Now(),
		TotalQuantity: total,
		Status:        entity.StatusFullyFulfilled,
		CreatedBy:     operator,
		Details:       details,
	}
	return s.repos.StockOut.WithTx(tx).Create(record)
}
