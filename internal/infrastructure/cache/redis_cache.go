// Package cache implements the best-effort Redis store behind the cache-aside read paths.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github-relay/internal/config"
	"github-relay/internal/domain/account"
	"github-relay/internal/metrics"
)

const pingTimeout = 2 * time.Second

// ConnectionState is the store's view of its link to Redis
type ConnectionState int32

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Options configures a RedisCache
type Options struct {
	DefaultTTL   time.Duration
	PingInterval time.Duration
	Metrics      *metrics.Metrics
	Logger       *logrus.Entry
}

// RedisCache implements account.Cache on top of go-redis.
// Connectivity is observed by a background ping loop; while not Connected every
// operation returns immediately with the "unreachable" outcome. Reconnecting is
// left to go-redis, which redials on the next command.
type RedisCache struct {
	client       redis.UniversalClient
	defaultTTL   time.Duration
	pingInterval time.Duration
	metrics      *metrics.Metrics
	log          *logrus.Entry

	state     atomic.Int32
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Ensure RedisCache implements account.Cache
var _ account.Cache = (*RedisCache)(nil)

// NewRedisClient creates the go-redis client from configuration. It does not dial.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisCache wraps client and starts the connectivity monitor.
// It returns immediately in the Connecting state.
func NewRedisCache(client redis.UniversalClient, opts Options) *RedisCache {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = time.Hour
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	c := &RedisCache{
		client:       client,
		defaultTTL:   opts.DefaultTTL,
		pingInterval: opts.PingInterval,
		metrics:      opts.Metrics,
		log:          opts.Logger.WithField("component", "redis"),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	c.state.Store(int32(Connecting))

	go c.monitor()

	return c
}

// State returns the current connection state
func (c *RedisCache) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// WaitConnected blocks until the store is Connected or ctx is done
func (c *RedisCache) WaitConnected(ctx context.Context) bool {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if c.State() == Connected {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

// Get decodes the JSON stored under key into dest.
// Missing keys, an unreachable store and undecodable values all report false.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	if !c.available("get") {
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.CacheOperation("get", metrics.ResultMiss)
		return false
	}
	if err != nil {
		c.fail("get", key, err)
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.fail("decode", key, err)
		return false
	}

	c.metrics.CacheOperation("get", metrics.ResultHit)
	return true
}

// Set stores value as JSON under key, replacing any previous value.
// ttl <= 0 selects the default expiry.
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if !c.available("set") {
		return false
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.fail("encode", key, err)
		return false
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.fail("set", key, err)
		return false
	}

	c.metrics.CacheOperation("set", metrics.ResultOK)
	return true
}

// Delete removes key. Deleting a missing key succeeds.
func (c *RedisCache) Delete(ctx context.Context, key string) bool {
	if !c.available("delete") {
		return false
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.fail("delete", key, err)
		return false
	}

	c.metrics.CacheOperation("delete", metrics.ResultOK)
	return true
}

// FlushAll removes every key in the selected database
func (c *RedisCache) FlushAll(ctx context.Context) bool {
	if !c.available("flush") {
		return false
	}

	if err := c.client.FlushDB(ctx).Err(); err != nil {
		c.fail("flush", "*", err)
		return false
	}

	c.metrics.CacheOperation("flush", metrics.ResultOK)
	return true
}

// Close stops the monitor and closes the client. Safe to call more than once.
func (c *RedisCache) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done
		c.setState(Disconnected)
		err = c.client.Close()
	})
	return err
}

func (c *RedisCache) available(operation string) bool {
	if c.State() == Connected {
		return true
	}
	c.log.WithField("operation", operation).Warn("Redis not connected, skipping cache operation")
	c.metrics.CacheOperation(operation, metrics.ResultSkipped)
	return false
}

func (c *RedisCache) fail(operation, key string, err error) {
	c.log.WithError(account.ErrCache(operation, key, err)).Error("Redis operation failed")
	c.metrics.CacheOperation(operation, metrics.ResultError)
	if isConnectionError(err) {
		c.setState(Disconnected)
	}
}

func (c *RedisCache) monitor() {
	defer close(c.done)

	c.ping()

	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.ping()
		}
	}
}

func (c *RedisCache) ping() {
	prev := c.State()
	if prev == Disconnected {
		c.setState(Connecting)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		if prev != Disconnected {
			c.log.WithError(err).Error("Redis error")
		}
		c.setState(Disconnected)
		return
	}
	c.setState(Connected)
}

func (c *RedisCache) setState(next ConnectionState) {
	prev := ConnectionState(c.state.Swap(int32(next)))
	if prev == next {
		return
	}
	switch {
	case next == Connected:
		c.log.Info("Redis client connected")
	case next == Connecting:
		c.log.Debug("Redis client reconnecting")
	case prev == Connected:
		c.log.Info("Redis client connection ended")
	default:
		c.log.Debug("Redis connection attempt failed")
	}
}

// isConnectionError reports failures that mean the server is unreachable,
// as opposed to a bad command or a cancelled request.
func isConnectionError(err error) bool {
	if errors.Is(err, redis.ErrClosed) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
