package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	apperrors "salescheck/errors"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hàm lấy data từ Redis. found == false khi key không tồn tại.
func GetFromRedis(ctx context.Context, rdb *redis.Client, key string, target interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	cachedData, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// Parse JSON thành object
	if err := json.Unmarshal([]byte(cachedData), target); err != nil {
		return false, err
	}
	return true, nil
}

// Hàm lưu dữ liệu vào Redis
func SetToRedis(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	dataJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, dataJSON, ttl).Err()
}

// Hàm xóa cache Redis
func DeleteFromRedis(ctx context.Context, rdb *redis.Client, key string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, key).Err()
}

// SessionLock loại trừ hai thao tác check-in/check-out chạy cùng lúc cho một
// user. Acquire trả về ErrLockHeld khi khóa đang bị giữ.
type SessionLock interface {
	Acquire(ctx context.Context, userID string) (release func(), err error)
}

// RedisSessionLock dùng SET NX với TTL, dùng được khi chạy nhiều instance
type RedisSessionLock struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSessionLock(rdb *redis.Client, prefix string, ttl time.Duration) *RedisSessionLock {
	return &RedisSessionLock{rdb: rdb, prefix: prefix, ttl: ttl}
}

// releaseScript chỉ xóa khóa nếu vẫn là token của mình
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func (l *RedisSessionLock) Acquire(ctx context.Context, userID string) (func(), error) {
	key := l.prefix + userID
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrLockHeld
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			log.Printf("[ERROR] release lock %s: %v", key, err)
		}
	}, nil
}

// LocalSessionLock là khóa trong tiến trình, dùng khi không có Redis
type LocalSessionLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalSessionLock() *LocalSessionLock {
	return &LocalSessionLock{held: make(map[string]struct{})}
}

func (l *LocalSessionLock) Acquire(ctx context.Context, userID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[userID]; ok {
		return nil, apperrors.ErrLockHeld
	}
	l.held[userID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, userID)
			l.mu.Unlock()
		})
	}, nil
}
