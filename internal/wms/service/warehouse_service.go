package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
)

type WarehouseService struct {
	repo      *repository.WarehouseRepository
	stockRepo *repository.StockRepository
}

func NewWarehouseService(repo *repository.WarehouseRepository, stockRepo *repository.StockRepository) *WarehouseService {
	return &WarehouseService{repo: repo, stockRepo: stockRepo}
}

// --- 仓库 ---

type WarehouseRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	WarehouseType string `json:"warehouse_type"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	ContactPhone  string `json:"contact_phone"`
	Description   string `json:"description"`
}

func (s *WarehouseService) Create(req WarehouseRequest) (*entity.Warehouse, error) {
	whType := req.WarehouseType
	if whType == "" {
		whType = entity.WarehouseTypeOther
	}
	w := &entity.Warehouse{
		ID:            uuid.New().String(),
		Code:          req.Code,
		Name:          req.Name,
		WarehouseType: whType,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		ContactPhone:  req.ContactPhone,
		IsActive:      true,
		Description:   req.Description,
	}
	if err := s.repo.Create(w); err != nil {
		return nil, fmt.Errorf("创建仓库失败: %w", err)
	}
	return w, nil
}

func (s *WarehouseService) Get(id string) (*entity.Warehouse, error) {
	return s.repo.GetByID(id)
}

func (s *WarehouseService) List(activeOnly bool) ([]entity.Warehouse, error) {
	return s.repo.List(activeOnly)
}

func (s *WarehouseService) Update(id string, req WarehouseRequest) (*entity.Warehouse, error) {
	w, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("仓库不存在: %w", err)
	}
	w.Name = req.Name
	if req.WarehouseType != "" {
		w.WarehouseType = req.WarehouseType
	}
	w.Address = req.Address
	w.ContactPerson = req.ContactPerson
	w.ContactPhone = req.ContactPhone
	w.Description = req.Description
	if err := s.repo.Update(w); err != nil {
		return nil, fmt.Errorf("更新仓库失败: %w", err)
	}
	return w, nil
}

// Deactivate 停用仓库。在库单据与库存不受影响，新单据不再接受该仓库
func (s *WarehouseService) Deactivate(id string) error {
	w, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("仓库不存在: %w", err)
	}
	w.IsActive = false
	return s.repo.Update(w)
}

// --- 库区 ---

type ZoneRequest struct {
	WarehouseID string `json:"warehouse_id" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *WarehouseService) CreateZone(req ZoneRequest) (*entity.StorageZone, error) {
	wh, err := s.repo.GetByID(req.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("仓库不存在: %w", err)
	}
	if !wh.IsActive {
		return nil, fmt.Errorf("仓库 %s 已停用", wh.Code)
	}
	z := &entity.StorageZone{
		ID:          uuid.New().String(),
		WarehouseID: req.WarehouseID,
		Code:        req.Code,
		Name:        req.Name,
		IsActive:    true,
		Description: req.Description,
	}
	if err := s.repo.CreateZone(z); err != nil {
		return nil, fmt.Errorf("创建库区失败: %w", err)
	}
	return z, nil
}

func (s *WarehouseService) ListZones(warehouseID string) ([]entity.StorageZone, error) {
	return s.repo.ListZones(warehouseID)
}

// --- 货架 ---

type RackRequest struct {
	ZoneID      string `json:"zone_id" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *WarehouseService) CreateRack(req RackRequest) (*entity.StorageRack, error) {
	z, err := s.repo.GetZoneByID(req.ZoneID)
	if err != nil {
		return nil, fmt.Errorf("库区不存在: %w", err)
	}
	if !z.IsActive {
		return nil, fmt.Errorf("库区 %s 已停用", z.Code)
	}
	rk := &entity.StorageRack{
		ID:          uuid.New().String(),
		ZoneID:      req.ZoneID,
		Code:        req.Code,
		Name:        req.Name,
		IsActive:    true,
		Description: req.Description,
	}
	if err := s.repo.CreateRack(rk); err != nil {
		return nil, fmt.Errorf("创建货架失败: %w", err)
	}
	return rk, nil
}

func (s *WarehouseService) ListRacks(zoneID string) ([]entity.StorageRack, error) {
	return s.repo.ListRacks(zoneID)
}

// --- 库位 ---

type LocationRequest struct {
	RackID      string           `json:"rack_id" binding:"required"`
	Code        string           `json:"code" binding:"required"`
	Name        string           `json:"name"`
	MaxQuantity *decimal.Decimal `json:"max_quantity"`
	Description string           `json:"description"`
}

func (s *WarehouseService) CreateLocation(req LocationRequest) (*entity.StorageLocation, error) {
	rk, err := s.repo.GetRackByID(req.RackID)
	if err != nil {
		return nil, fmt.Errorf("货架不存在: %w", err)
	}
	if !rk.IsActive {
		return nil, fmt.Errorf("货架 %s 已停用", rk.Code)
	}
	if req.MaxQuantity != nil && !req.MaxQuantity.IsPositive() {
		return nil, errors.New("库位容量必须为正数")
	}
	l := &entity.StorageLocation{
		ID:          uuid.New().String(),
		RackID:      req.RackID,
		Code:        req.Code,
		Name:        req.Name,
		MaxQuantity: req.MaxQuantity,
		IsActive:    true,
		Description: req.Description,
	}
	if err := s.repo.CreateLocation(l); err != nil {
		return nil, fmt.Errorf("创建库位失败: %w", err)
	}
	return l, nil
}

func (s *WarehouseService) ListLocations(rackID string, activeOnly bool) ([]entity.StorageLocation, error) {
	return s.repo.ListLocations(rackID, activeOnly)
}

// UpdateLocation 调整库位。容量不能压到当前在库量之下
func (s *WarehouseService) UpdateLocation(ctx context.Context, id string, req LocationRequest) (*entity.StorageLocation, error) {
	l, err := s.repo.GetLocationByID(id)
	if err != nil {
		return nil, fmt.Errorf("库位不存在: %w", err)
	}
	if req.MaxQuantity != nil {
		if !req.MaxQuantity.IsPositive() {
			return nil, errors.New("库位容量必须为正数")
		}
		current, err := s.stockRepo.LocationTotal(ctx, id)
		if err != nil {
			return nil, err
		}
		if req.MaxQuantity.LessThan(current) {
			return nil, fmt.Errorf("库位容量 %s 低于当前在库量 %s", req.MaxQuantity, current)
		}
	}
	l.Name = req.Name
	l.MaxQuantity = req.MaxQuantity
	l.Description = req.Description
	if err := s.repo.UpdateLocation(l); err != nil {
		return nil, fmt.Errorf("更新库位失败: %w", err)
	}
	return l, nil
}

// DeactivateLocation 停用库位，要求库位已清空
func (s *WarehouseService) DeactivateLocation(ctx context.Context, id string) error {
	l, err := s.repo.GetLocationByID(id)
	if err != nil {
		return fmt.Errorf("库位不存在: %w", err)
	}
	current, err := s.stockRepo.LocationTotal(ctx, id)
	if err != nil {
		return err
	}
	if current.IsPositive() {
		return fmt.Errorf("库位 %s 仍有在库量 %s，不能停用", l.Code, current)
	}
	l.IsActive = false
	return s.repo.UpdateLocation(l)
}
