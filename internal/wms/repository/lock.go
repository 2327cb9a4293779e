package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bitfantasy/nimo-wms/internal/wms/ledger"
)

// DocumentLockTTL 单据锁兜底过期时间，持有者崩溃后锁自动失效
const DocumentLockTTL = 30 * time.Second

// releaseScript 只删除自己持有的锁，避免释放掉别人续期后的锁
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker 跨实例的单据锁。同一单据已被持有时立即返回 ErrBusy，
// 不排队等待，由调用方决定是否重试
type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: DocumentLockTTL}
}

func (l *RedisLocker) Acquire(ctx context.Context, docID string) (func(), error) {
	key := "wms:doclock:" + docID
	token := uuid.New().String()
	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ledger.ErrBusy
	}
	return func() {
		releaseScript.Run(context.Background(), l.rdb, []string{key}, token)
	}, nil
}
