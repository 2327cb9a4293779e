package ledger

import (
	"context"
	"fmt"
)

// AlertLevel 库存预警级别
type AlertLevel string

const (
	AlertNormal   AlertLevel = "NORMAL"
	AlertBelowMin AlertLevel = "BELOW_MIN"
	AlertAboveMax AlertLevel = "ABOVE_MAX"
)

// AlertEvaluator 库存预警。对数量账只读：汇总物料全库位在库量，
// 与 MinStock/MaxStock 比对。重复预警的节流去重由调用方负责
type AlertEvaluator struct {
	catalog Catalog
	store   Store
}

// NewAlertEvaluator 创建库存预警评估器
func NewAlertEvaluator(catalog Catalog, store Store) *AlertEvaluator {
	return &AlertEvaluator{catalog: catalog, store: store}
}

// Evaluate 评估单个物料的预警级别
func (e *AlertEvaluator) Evaluate(ctx context.Context, materialID string) (AlertLevel, error) {
	mat, err := e.catalog.Material(materialID)
	if err != nil {
		return "", fmt.Errorf("物料不存在: %w", err)
	}
	total, err := e.store.TotalOnHand(ctx, materialID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if total.LessThan(mat.MinStock) {
		return AlertBelowMin, nil
	}
	if mat.MaxStock != nil && total.GreaterThan(*mat.MaxStock) {
		return AlertAboveMax, nil
	}
	return AlertNormal, nil
}
