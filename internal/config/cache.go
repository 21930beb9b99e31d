package config

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis using environment variables and
// verifies the connection with a ping.
func NewRedisClient() *redis.Client {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	password := getEnv("REDIS_PASSWORD", "")

	db := 0
	if v := getEnv("REDIS_DB", "0"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid REDIS_DB value %q: %v", v, err)
		}
		db = parsed
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis at %s: %v", addr, err)
	}

	return rdb
}
