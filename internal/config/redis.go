package config

import (
    "context"
    "crypto/tls"
    "os"
    "time"

    "github.com/redis/go-redis/v9"
)

// redisPingTimeout bounds the startup connectivity probe.  Redis only backs
// the rate limiter and the availability response cache, so an unreachable
// server must not delay boot for long.
const redisPingTimeout = 2 * time.Second

// RedisSettings describes how to reach Redis.  Every field is optional:
// both middlewares that depend on Redis degrade to pass-through when no
// client is available.
type RedisSettings struct {
    Addr     string
    Password string
    DB       int
    TLS      bool
}

// LoadRedisSettings reads Redis connection settings from the environment.
// REDIS_HOST plus REDIS_PORT take precedence over REDIS_ADDR; with neither
// set the local default applies.
func LoadRedisSettings() RedisSettings {
    s := RedisSettings{
        Addr:     getenv("REDIS_ADDR", "localhost:6379"),
        Password: os.Getenv("REDIS_PASSWORD"),
        DB:       atoi(getenv("REDIS_DB", "0")),
        TLS:      getenv("REDIS_TLS", "false") == "true",
    }
    if host := os.Getenv("REDIS_HOST"); host != "" {
        s.Addr = host + ":" + getenv("REDIS_PORT", "6379")
    }
    return s
}

// NewRedisClient connects with the environment's settings and verifies the
// connection with a short ping.  A nil return means Redis is unreachable;
// the caller then runs without rate limiting and response caching.
func NewRedisClient() *redis.Client {
    s := LoadRedisSettings()
    opts := &redis.Options{
        Addr:     s.Addr,
        Password: s.Password,
        DB:       s.DB,
    }
    if s.TLS {
        opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    client := redis.NewClient(opts)

    ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
