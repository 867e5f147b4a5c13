package app

import (
	"strings"

	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/internal/repository"
)

// RedisClientConfig converts the application cache configuration into the cache package representation.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  strings.TrimSpace(c.Redis.Address),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TLS:      c.Redis.TLS,
		Timeout:  c.Redis.Timeout,
	}
}

// RepositoryTTLs converts the configured lifetimes into the repository representation.
func (c CacheConfig) RepositoryTTLs() repository.TTLConfig {
	return repository.TTLConfig{
		Entry: c.TTL.Entry,
		List:  c.TTL.List,
		Stats: c.TTL.Stats,
	}
}
