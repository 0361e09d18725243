package configuration

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis dials the Redis server used for OTP staging and the logout
// token denylist. Startup retries a few times so the app survives Redis
// coming up slightly later.
func ConnectRedis(cfg *Config) (*redis.Client, error) {
	const (
		maxRetries = 5
		retryDelay = 5 * time.Second
	)

	var err error
	for i := 0; i < maxRetries; i++ {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_, err = client.Ping(ctx).Result()
		cancel()
		if err == nil {
			return client, nil
		}

		client.Close()
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("connect to redis after %d attempts: %w", maxRetries, err)
}
