package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Hàm kết nối đến Redis, trả về nil khi chưa cấu hình REDIS_ADDR
func ConnectRedis(cfg *Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, running without Redis")
		return nil, nil
	}

	// Khởi tạo client Redis với các tùy chọn
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUser,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	// Kiểm tra kết nối
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	log.Println("Kết nối Redis thành công:", res)
	return rdb, nil
}
