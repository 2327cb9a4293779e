package ledger

import (
	"errors"
	"fmt"
)

// 业务错误。除 ErrBusy 可整单重试外，其余都需要修正后重新提交
var (
	ErrInsufficientStock = errors.New("库存不足")
	ErrCapacityExceeded  = errors.New("超出库位最大存放数量")
	ErrAlreadyTerminal   = errors.New("单据已处于终态")
	ErrEmptyDocument     = errors.New("单据没有可执行的明细行")
	ErrBusy              = errors.New("单据或库位正在被处理，请稍后重试")

	ErrUnknownUnit      = errors.New("未登记的计量单位")
	ErrInactiveUnit     = errors.New("计量单位已停用")
	ErrInactiveMaterial = errors.New("物料已停用")

	// ErrStoreUnavailable 记录存储协作方失败，引擎原样上抛，不做重试
	ErrStoreUnavailable = errors.New("存储不可用")
)

// HeaderLine 表示校验错误发生在单据头而非某一明细行
const HeaderLine = -1

// ValidationError 单据校验错误，Line 定位出错的明细行（头部为 HeaderLine）
type ValidationError struct {
	Line   int
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Line == HeaderLine {
		return fmt.Sprintf("单据校验失败: %s", e.Reason)
	}
	return fmt.Sprintf("第%d行校验失败: %s", e.Line+1, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func headerErr(reason string) *ValidationError {
	return &ValidationError{Line: HeaderLine, Reason: reason}
}

func lineErr(line int, reason string, err error) *ValidationError {
	return &ValidationError{Line: line, Reason: reason, Err: err}
}

// StockError 数量账拒绝，携带触发拒绝的 (物料, 库位)
type StockError struct {
	MaterialID string
	LocationID string
	Err        error
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s (material=%s location=%s)", e.Err.Error(), e.MaterialID, e.LocationID)
}

func (e *StockError) Unwrap() error {
	return e.Err
}
