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

type TransferService struct {
	repos  *repository.Repositories
	db     *gorm.DB
	locker ledger.Locker
}

func NewTransferService(repos *repository.Repositories, db *gorm.DB, locker ledger.Locker) *TransferService {
	return &TransferService{repos: repos, db: db, locker: locker}
}

type TransferDetailRequest struct {
	MaterialID     string          `json:"material_id" binding:"required"`
	BatchNo        string          `json:"batch_no"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	UnitID         string          `json:"unit_id" binding:"required"`
	FromLocationID string          `json:"from_location_id" binding:"required"`
	ToLocationID   string          `json:"to_location_id" binding:"required"`
	Remark         string          `json:"remark"`
}

type CreateTransferRequest struct {
	FromWarehouseID string                  `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   string                  `json:"to_warehouse_id" binding:"required"`
	TransferDate    *time.Time              `json:"transfer_date"`
	Remark          string                  `json:"remark"`
	Details         []TransferDetailRequest `json:"details" binding:"required,min=1"`
}

func (s *TransferService) Create(req CreateTransferRequest, operator string) (*entity.TransferOrder, error) {
	for _, whID := range []string{req.FromWarehouseID, req.ToWarehouseID} {
		wh, err := s.repos.Warehouse.GetByID(whID)
		if err != nil {
			return nil, fmt.Errorf("仓库不存在: %w", err)
		}
		if !wh.IsActive {
			return nil, fmt.Errorf("仓库 %s 已停用", wh.Code)
		}
	}
	transferDate := time.Now()
	if req.TransferDate != nil {
		transferDate = *req.TransferDate
	}

	orderID := uuid.New().String()
	details := make([]entity.TransferOrderDetail, 0, len(req.Details))
	for _, d := range req.Details {
		if !d.Quantity.IsPositive() {
			return nil, errors.New("明细数量必须为正数")
		}
		if d.FromLocationID == d.ToLocationID {
			return nil, errors.New("源库位与目标库位不能相同")
		}
		details = append(details, entity.TransferOrderDetail{
			ID:             uuid.New().String(),
			TransferID:     orderID,
			MaterialID:     d.MaterialID,
			BatchNo:        d.BatchNo,
			Quantity:       d.Quantity,
			UnitID:         d.UnitID,
			FromLocationID: d.FromLocationID,
			ToLocationID:   d.ToLocationID,
			Remark:         d.Remark,
		})
	}

	order := &entity.TransferOrder{
		ID:              orderID,
		TransferNo:      fmt.Sprintf("TR-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		FromWarehouseID: req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		TransferDate:    transferDate,
		Status:          entity.StatusDraft,
		Remark:          req.Remark,
		CreatedBy:       operator,
		Details:         details,
	}
	if err := s.repos.Transfer.Create(order); err != nil {
		return nil, fmt.Errorf("创建调拨单失败: %w", err)
	}
	return order, nil
}

func (s *TransferService) Get(id string) (*entity.TransferOrder, error) {
	return s.repos.Transfer.GetByID(id)
}

func (s *TransferService) List(params repository.TransferListParams) ([]entity.TransferOrder, int64, error) {
	return s.repos.Transfer.List(params)
}

func (s *TransferService) Approve(id, operator string) error {
	order, err := s.repos.Transfer.GetByID(id)
	if err != nil {
		return fmt.Errorf("调拨单不存在: %w", err)
	}
	next, err := ledger.Approve(order.Status)
	if err != nil {
		return err
	}
	return transitionStatus(s.db, &entity.TransferOrder{}, id, order.Status, next, operator)
}

func (s *TransferService) Cancel(id, operator string) error {
	order, err := s.repos.Transfer.GetByID(id)
	if err != nil {
		return fmt.Errorf("调拨单不存在: %w", err)
	}
	next, err := ledger.Cancel(order.Status)
	if err != nil {
		return err
	}
	return transitionStatus(s.db, &entity.TransferOrder{}, id, order.Status, next, operator)
}

// Execute 执行调拨。每行的扣减与增加成对进入同一个原子变更集，
// 目标库位超容或源库位不足都会让整单回退
func (s *TransferService) Execute(ctx context.Context, id, operator string) (*ledger.Result, error) {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.repos.Transfer.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("调拨单不存在: %w", err)
	}

	doc := &ledger.Document{
		ID:     order.ID,
		No:     order.TransferNo,
		Type:   entity.DocTypeTransfer,
		Status: order.Status,
	}
	for _, d := range order.Details {
		doc.Lines = append(doc.Lines, ledger.Line{
			DetailID:       d.ID,
			MaterialID:     d.MaterialID,
			UnitID:         d.UnitID,
			FromLocationID: d.FromLocationID,
			ToLocationID:   d.ToLocationID,
			BatchNo:        d.BatchNo,
			Quantity:       d.Quantity,
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
		if err := transitionStatus(tx, &entity.TransferOrder{}, order.ID, order.Status, res.Status, operator); err != nil {
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
