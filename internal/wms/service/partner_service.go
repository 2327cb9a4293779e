package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
)

type PartnerService struct {
	repo *repository.PartnerRepository
}

func NewPartnerService(repo *repository.PartnerRepository) *PartnerService {
	return &PartnerService{repo: repo}
}

// --- 供应商 ---

type SupplierRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Level         string `json:"level"`
	ContactPerson string `json:"contact_person"`
	ContactPhone  string `json:"contact_phone"`
	Address       string `json:"address"`
	Email         string `json:"email"`
	Description   string `json:"description"`
}

func validSupplierLevel(level string) bool {
	switch level {
	case entity.SupplierLevelFirst, entity.SupplierLevelSecond, entity.SupplierLevelThird, entity.SupplierLevelOther:
		return true
	}
	return false
}

func (s *PartnerService) CreateSupplier(req SupplierRequest) (*entity.Supplier, error) {
	level := req.Level
	if level == "" {
		level = entity.SupplierLevelOther
	}
	if !validSupplierLevel(level) {
		return nil, fmt.Errorf("非法的供应商等级: %s", level)
	}
	sup := &entity.Supplier{
		ID:            uuid.New().String(),
		Code:          req.Code,
		Name:          req.Name,
		Level:         level,
		ContactPerson: req.ContactPerson,
		ContactPhone:  req.ContactPhone,
		Address:       req.Address,
		Email:         req.Email,
		IsActive:      true,
		Description:   req.Description,
	}
	if err := s.repo.CreateSupplier(sup); err != nil {
		return nil, fmt.Errorf("创建供应商失败: %w", err)
	}
	return sup, nil
}

func (s *PartnerService) GetSupplier(id string) (*entity.Supplier, error) {
	return s.repo.GetSupplierByID(id)
}

func (s *PartnerService) UpdateSupplier(id string, req SupplierRequest) (*entity.Supplier, error) {
	sup, err := s.repo.GetSupplierByID(id)
	if err != nil {
		return nil, fmt.Errorf("供应商不存在: %w", err)
	}
	if req.Level != "" {
		if !validSupplierLevel(req.Level) {
			return nil, fmt.Errorf("非法的供应商等级: %s", req.Level)
		}
		sup.Level = req.Level
	}
	sup.Name = req.Name
	sup.ContactPerson = req.ContactPerson
	sup.ContactPhone = req.ContactPhone
	sup.Address = req.Address
	sup.Email = req.Email
	sup.Description = req.Description
	if err := s.repo.UpdateSupplier(sup); err != nil {
		return nil, fmt.Errorf("更新供应商失败: %w", err)
	}
	return sup, nil
}

func (s *PartnerService) ListSuppliers(params repository.PartnerListParams) ([]entity.Supplier, int64, error) {
	return s.repo.ListSuppliers(params)
}

// DeactivateSupplier 停用供应商，存续中的采购订单仍可继续收货
func (s *PartnerService) DeactivateSupplier(id string) error {
	sup, err := s.repo.GetSupplierByID(id)
	if err != nil {
		return fmt.Errorf("供应商不存在: %w", err)
	}
	sup.IsActive = false
	return s.repo.UpdateSupplier(sup)
}

// --- 客户 ---

type CustomerRequest struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	ContactPerson string          `json:"contact_person"`
	ContactPhone  string          `json:"contact_phone"`
	Address       string          `json:"address"`
	Email         string          `json:"email"`
	Description   string          `json:"description"`
}

func (s *PartnerService) CreateCustomer(req CustomerRequest) (*entity.Customer, error) {
	if req.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("信用额度不能为负")
	}
	c := &entity.Customer{
		ID:            uuid.New().String(),
		Code:          req.Code,
		Name:          req.Name,
		CreditLimit:   req.CreditLimit,
		ContactPerson: req.ContactPerson,
		ContactPhone:  req.ContactPhone,
		Address:       req.Address,
		Email:         req.Email,
		IsActive:      true,
		Description:   req.Description,
	}
	if err := s.repo.CreateCustomer(c); err != nil {
		return nil, fmt.Errorf("创建客户失败: %w", err)
	}
	return c, nil
}

func (s *PartnerService) GetCustomer(id string) (*entity.Customer, error) {
	return s.repo.GetCustomerByID(id)
}

func (s *PartnerService) UpdateCustomer(id string, req CustomerRequest) (*entity.Customer, error) {
	c, err := s.repo.GetCustomerByID(id)
	if err != nil {
		return nil, fmt.Errorf("客户不存在: %w", err)
	}
	if req.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("信用额度不能为负")
	}
	c.Name = req.Name
	c.CreditLimit = req.CreditLimit
	c.ContactPerson = req.ContactPerson
	c.ContactPhone = req.ContactPhone
	c.Address = req.Address
	c.Email = req.Email
	c.Description = req.Description
	if err := s.repo.UpdateCustomer(c); err != nil {
		return nil, fmt.Errorf("更新客户失败: %w", err)
	}
	return c, nil
}

func (s *PartnerService) ListCustomers(params repository.PartnerListParams) ([]entity.Customer, int64, error) {
	return s.repo.ListCustomers(params)
}

func (s *PartnerService) DeactivateCustomer(id string) error {
	c, err := s.repo.GetCustomerByID(id)
	if err != nil {
		return fmt.Errorf("客户不存在: %w", err)
	}
	c.IsActive = false
	return s.repo.UpdateCustomer(c)
}
