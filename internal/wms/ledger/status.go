package ledger

import (
	"fmt"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

// Fulfillment 一次执行后的单据整体完成度
type Fulfillment int

const (
	FulfillmentNone Fulfillment = iota
	FulfillmentPartial
	FulfillmentFull
)

// Approve 草稿 -> 已审核。重复审核被拒绝而不是幂等接受
func Approve(cur entity.DocumentStatus) (entity.DocumentStatus, error) {
	if cur.Terminal() {
		return cur, ErrAlreadyTerminal
	}
	if cur != entity.StatusDraft {
		return cur, fmt.Errorf("状态 %s 的单据不可审核", cur.Label())
	}
	return entity.StatusApproved, nil
}

// Cancel 任何非终态单据可取消，终态拒绝
func Cancel(cur entity.DocumentStatus) (entity.DocumentStatus, error) {
	if cur.Terminal() {
		return cur, ErrAlreadyTerminal
	}
	return entity.StatusCancelled, nil
}

// Advance 执行成功后按完成度推进状态。只有已审核或部分完成的单据可执行，
// 单据状态只会单调前进，不会回退
func Advance(cur entity.DocumentStatus, f Fulfillment) (entity.DocumentStatus, error) {
	if cur.Terminal() {
		return cur, ErrAlreadyTerminal
	}
	if cur != entity.StatusApproved && cur != entity.StatusPartiallyFulfilled {
		return cur, fmt.Errorf("状态 %s 的单据不可执行", cur.Label())
	}
	switch f {
	case FulfillmentFull:
		return entity.StatusFullyFulfilled, nil
	case FulfillmentPartial:
		return entity.StatusPartiallyFulfilled, nil
	default:
		return cur, nil
	}
}

// Executable 单据当前是否处于可执行状态
func Executable(cur entity.DocumentStatus) bool {
	return cur == entity.StatusApproved || cur == entity.StatusPartiallyFulfilled
}
