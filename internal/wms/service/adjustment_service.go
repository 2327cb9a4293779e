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

type AdjustmentService struct {
	repos  *repository.Repositories
	db     *gorm.DB
	locker ledger.Locker
}

func NewAdjustmentService(repos *repository.Repositories, db *gorm.DB, locker ledger.Locker) *AdjustmentService {
	return &AdjustmentService{repos: repos, db: db, locker: locker}
}

type AdjustmentDetailRequest struct {
	MaterialID string          `json:"material_id" binding:"required"`
	LocationID string          `json:"location_id" binding:"required"`
	BatchNo    string          `json:"batch_no"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitID     string          `json:"unit_id" binding:"required"`
	Remark     string          `json:"remark"`
}

type CreateAdjustmentRequest struct {
	WarehouseID    string                    `json:"warehouse_id" binding:"required"`
	AdjustmentDate *time.Time                `json:"adjustment_date"`
	AdjustmentType entity.AdjustmentType     `json:"adjustment_type" binding:"required"`
	Remark         string                    `json:"remark"`
	Details        []AdjustmentDetailRequest `json:"details" binding:"required,min=1"`
}

func (s *AdjustmentService) Create(req CreateAdjustmentRequest, operator string) (*entity.InventoryAdjustment, error) {
	if !req.AdjustmentType.Valid() {
		return nil, fmt.Errorf("非法的调整类型: %s", req.AdjustmentType)
	}
	wh, err := s.repos.Warehouse.GetByID(req.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("仓库不存在: %w", err)
	}
	if !wh.IsActive {
		return nil, fmt.Errorf("仓库 %s 已停用", wh.Code)
	}
	adjustDate := time.Now()
	if req.AdjustmentDate != nil {
		adjustDate = *req.AdjustmentDate
	}

	adjID := uuid.New().String()
	details := make([]entity.InventoryAdjustmentDetail, 0, len(req.Details))
	for _, d := range req.Details {
		if !d.Quantity.IsPositive() {
			return nil, errors.New("明细数量必须为正数")
		}
		details = append(details, entity.InventoryAdjustmentDetail{
			ID:           uuid.New().String(),
			AdjustmentID: adjID,
			MaterialID:   d.MaterialID,
			LocationID:   d.LocationID,
			BatchNo:      d.BatchNo,
			Quantity:     d.Quantity,
			UnitID:       d.UnitID,
			Remark:       d.Remark,
		})
	}

	adj := &entity.InventoryAdjustment{
		ID:             adjID,
		AdjustmentNo:   fmt.Sprintf("ADJ-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		WarehouseID:    req.WarehouseID,
		AdjustmentDate: adjustDate,
		AdjustmentType: req.AdjustmentType,
		Status:         entity.StatusDraft,
		Remark:         req.Remark,
		CreatedBy:      operator,
		Details:        details,
	}
	if err := s.repos.Adjustment.Create(adj); err != nil {
		return nil, fmt.Errorf("创建库存调整单失败: %w", err)
	}
	return adj, nil
}

func (s *AdjustmentService) Get(id string) (*entity.InventoryAdjustment, error) {
	return s.repos.Adjustment.GetByID(id)
}

func (s *AdjustmentService) List(params repository.AdjustmentListParams) ([]entity.InventoryAdjustment, int64, error) {
	return s.repos.Adjustment.List(params)
}

func (s *AdjustmentService) Approve(id, operator string) error {
	adj, err := s.repos.Adjustment.GetByID(id)
	if err != nil {
		return fmt.Errorf("库存调整单不存在: %w", err)
	}
	next, err := ledger.Approve(adj.Status)
	if err != nil {
		return err
	}
	return transitionStatus(s.db, &entity.InventoryAdjustment{}, id, adj.Status, next, operator)
}

func (s *AdjustmentService) Cancel(id, operator string) error {
	adj, err := s.repos.Adjustment.GetByID(id)
	if err != nil {
		return fmt.Errorf("库存调整单不存在: %w", err)
	}
	next, err := ledger.Cancel(adj.Status)
	if err != nil {
		return err
	}
	return transitionStatus(s.db, &entity.InventoryAdjustment{}, id, adj.Status, next, operator)
}

// Execute 执行调整。盘盈增账、盘亏减账，
// 冻结/解冻在可用与冻结子账之间转移数量，在库总量不变
func (s *AdjustmentService) Execute(ctx context.Context, id, operator string) (*ledger.Result, error) {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	adj, err := s.repos.Adjustment.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("库存调整单不存在: %w", err)
	}

	doc := &ledger.Document{
		ID:             adj.ID,
		No:             adj.AdjustmentNo,
		Type:           entity.DocTypeAdjustment,
		Status:         adj.Status,
		WarehouseID:    adj.WarehouseID,
		AdjustmentType: adj.AdjustmentType,
	}
	for _, d := range adj.Details {
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
		if err := transitionStatus(tx, &entity.InventoryAdjustment{}, adj.ID, adj.Status, res.Status, operator); err != nil {
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
