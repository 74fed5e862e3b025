package database

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/chirpnet/backend/internal/config"
)

// InitRedis initializes the Redis client used for response caching.
// Redis is optional: on connection failure a nil client is returned and
// callers skip caching.
func InitRedis(config *config.Config) *redis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisAddr := config.GetRedisAddr()
	log.Printf("Connecting to Redis at %s...", redisAddr)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Username: config.RedisUsername,
		Password: config.RedisPassword,
	})

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("Application will continue without Redis caching")
		return nil
	}

	log.Println("Successfully connected to Redis")
	return redisClient
}
