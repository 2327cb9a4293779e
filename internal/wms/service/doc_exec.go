package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
)

// persistJournal 给引擎产出的流水编号并落库
func persistJournal(tx *gorm.DB, journal []entity.StockTransaction) error {
	if len(journal) == 0 {
		return nil
	}
	for i := range journal {
		journal[i].ID = uuid.New().String()
	}
	return tx.Create(&journal).Error
}

// transitionStatus 带前置状态守卫的状态更新。
// 并发改写导致前置状态不再成立时更新 0 行，按 ErrBusy 处理
func transitionStatus(tx *gorm.DB, model interface{}, id string, from, to entity.DocumentStatus, operator string) error {
	res := tx.Model(model).Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_by": operator})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ledger.ErrBusy
	}
	return nil
}
