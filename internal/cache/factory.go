// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config holds configuration for cache backend creation.
type Config struct {
	// Type is the cache backend type: "memory" or "redis"
	Type string

	// RedisURL is the Redis connection URL (only for redis type)
	RedisURL string

	// Prefix is the key prefix for Redis (only for redis type)
	Prefix string

	// DefaultTTL is the default TTL for cache entries
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for memory cache (0 = unlimited)
	MaxSize int

	// CleanupInterval is the interval for expired entry cleanup
	CleanupInterval time.Duration

	// FallbackToMemory falls back to an in-memory cache when Redis is
	// configured but unreachable.
	FallbackToMemory bool
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		Type:            "memory",
		DefaultTTL:      time.Hour,
		MaxSize:         10000,
		CleanupInterval: time.Minute,
	}
}

// Info describes the backend a NewBackend call actually produced.
type Info struct {
	Backend    string // "memory" or "redis"
	IsFallback bool   // true when Redis was requested but memory was used
}

// NewBackend creates a cache backend based on the provided configuration.
func NewBackend(cfg Config, logger *slog.Logger) (Cacher, Info, error) {
	if cfg.Type == "redis" && cfg.RedisURL != "" {
		redisCache, err := NewRedisCache(RedisCacheOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			return redisCache, Info{Backend: "redis"}, nil
		}
		if !cfg.FallbackToMemory {
			return nil, Info{}, err
		}
		if logger != nil {
			logger.Warn("redis unavailable, falling back to memory cache", "error", err)
		}
		mem := newMemoryFromConfig(cfg)
		return mem, Info{Backend: "memory", IsFallback: true}, nil
	}

	mem := newMemoryFromConfig(cfg)
	return mem, Info{Backend: "memory"}, nil
}

func newMemoryFromConfig(cfg Config) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}
