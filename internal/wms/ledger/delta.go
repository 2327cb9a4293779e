package ledger

import (
	"github.com/shopspring/decimal"
)

// StockKey 数量账的键，(物料, 库位)
type StockKey struct {
	MaterialID string
	LocationID string
}

// Delta 一笔基础单位口径的数量变更。Available 与 Frozen 为带符号分量：
// 普通出入库只动 Available，冻结/解冻用一正一负的两个分量转移，净变化为零
type Delta struct {
	MaterialID string
	LocationID string
	Available  decimal.Decimal
	Frozen     decimal.Decimal
	BatchNo    string
}

// Key 返回变更所属的数量账键
func (d Delta) Key() StockKey {
	return StockKey{MaterialID: d.MaterialID, LocationID: d.LocationID}
}

// Net 库位在库总量的净变化
func (d Delta) Net() decimal.Decimal {
	return d.Available.Add(d.Frozen)
}

// MergeDeltas 把同键的变更合并成每键一条，库位集合保持稳定
func MergeDeltas(deltas []Delta) map[StockKey]Delta {
	merged := make(map[StockKey]Delta, len(deltas))
	for _, d := range deltas {
		k := d.Key()
		if cur, ok := merged[k]; ok {
			cur.Available = cur.Available.Add(d.Available)
			cur.Frozen = cur.Frozen.Add(d.Frozen)
			merged[k] = cur
		} else {
			merged[k] = d
		}
	}
	return merged
}
