// file: database/redis.go
package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
		PoolSize: 100,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RDB.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Println("Redis connection successfully established.")
}

// InvalidateResultCaches 重算完成后清掉所有成绩相关缓存
func InvalidateResultCaches() {
	keys, err := RDB.Keys(Ctx, "results:*").Result()
	if err == nil && len(keys) > 0 {
		RDB.Del(Ctx, keys...)
		log.Printf("Cleared %d result cache keys from Redis.", len(keys))
	}
}
