package ledger

import (
	"context"
	"sync"
)

// Locker 单据级单写者锁。计数器更新与状态迁移不可交换，
// 同一单据的并发执行必须被挡掉，第二个提交者得到 ErrBusy 自行重试。
// 锁在读取单据快照之前取得，持有到事务提交之后才释放，
// 否则两次执行会基于同一份快照各落一次账
type Locker interface {
	Acquire(ctx context.Context, docID string) (release func(), err error)
}

// KeyedLock 进程内单据锁。已被持有时立即返回 ErrBusy 而不是排队等待
type KeyedLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewKeyedLock 创建进程内单据锁
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{held: make(map[string]struct{})}
}

func (l *KeyedLock) Acquire(ctx context.Context, docID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[docID]; ok {
		return nil, ErrBusy
	}
	l.held[docID] = struct{}{}
	return func() {
		l.mu.Lock()
		delete(l.held, docID)
		l.mu.Unlock()
	}, nil
}
