package redis

import (
	"time"

	"github.com/angelmondragon/orderdesk/pkg/config"
)

func configWith(url, addr string) config.RedisConfig {
	return config.RedisConfig{
		URL:          url,
		Address:      addr,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}
