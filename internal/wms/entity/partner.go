package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierLevel 供应商等级
const (
	SupplierLevelFirst  = "一级"
	SupplierLevelSecond = "二级"
	SupplierLevelThird  = "三级"
	SupplierLevelOther  = "其他"
)

// Supplier 供应商，停用后无法创建新采购订单
type Supplier struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code          string     `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name          string     `json:"name" gorm:"size:255;not null"`
	Level         string     `json:"level" gorm:"size:20;not null;default:其他"`
	ContactPerson string     `json:"contact_person" gorm:"size:64"`
	ContactPhone  string     `json:"contact_phone" gorm:"size:32"`
	Address       string     `json:"address" gorm:"size:500"`
	Email         string     `json:"email" gorm:"size:128"`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"`
	Description   string     `json:"description" gorm:"type:text"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at" gorm:"index"`
}

func (Supplier) TableName() string {
	return "wms_suppliers"
}

// Customer 客户，停用后无法创建新销售订单
type Customer struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code          string          `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name          string          `json:"name" gorm:"size:255;not null"`
	CreditLimit   decimal.Decimal `json:"credit_limit" gorm:"type:decimal(18,2);not null;default:0"`
	ContactPerson string          `json:"contact_person" gorm:"size:64"`
	ContactPhone  string          `json:"contact_phone" gorm:"size:32"`
	Address       string          `json:"address" gorm:"size:500"`
	Email         string          `json:"email" gorm:"size:128"`
	IsActive      bool            `json:"is_active" gorm:"not null;default:true"`
	Description   string          `json:"description" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at" gorm:"index"`
}

func (Customer) TableName() string {
	return "wms_customers"
}
