package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func stubRedisSeams(t *testing.T) {
	t.Helper()
	origNew := newRedisClient
	origPing := redisPing
	t.Cleanup(func() {
		newRedisClient = origNew
		redisPing = origPing
	})
}

func TestNewRedisDB_PingError(t *testing.T) {
	stubRedisSeams(t)
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return &redis.Client{}
	}
	redisPing = func(ctx context.Context, client *redis.Client) error {
		return errors.New("ping failed")
	}

	_, err := NewRedisDB("localhost:6379", "pass", 2)
	if err == nil || !strings.Contains(err.Error(), "pinging redis") {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestNewRedisDB_SetsOptions(t *testing.T) {
	stubRedisSeams(t)
	var got redis.Options
	newRedisClient = func(opts *redis.Options) *redis.Client {
		got = *opts
		return &redis.Client{}
	}
	redisPing = func(ctx context.Context, client *redis.Client) error {
		return nil
	}

	db, err := NewRedisDB("localhost:6379", "pass", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.Client == nil {
		t.Fatal("expected client")
	}
	if got.Addr != "localhost:6379" || got.Password != "pass" || got.DB != 2 {
		t.Fatalf("unexpected connection options: %+v", got)
	}
	if got.DialTimeout != 5*time.Second {
		t.Fatalf("expected DialTimeout 5s, got %v", got.DialTimeout)
	}
	if got.ReadTimeout != 3*time.Second || got.WriteTimeout != 3*time.Second {
		t.Fatalf("unexpected io timeouts: read=%v write=%v", got.ReadTimeout, got.WriteTimeout)
	}
	if got.PoolSize != 10 || got.MinIdleConns != 3 {
		t.Fatalf("unexpected pool sizing: size=%d idle=%d", got.PoolSize, got.MinIdleConns)
	}
}

func TestRedisDB_Health(t *testing.T) {
	stubRedisSeams(t)
	redisPing = func(ctx context.Context, client *redis.Client) error {
		return errors.New("down")
	}

	db := &RedisDB{Client: &redis.Client{}}
	if err := db.Health(context.Background()); err == nil {
		t.Fatal("expected health error")
	}

	redisPing = func(ctx context.Context, client *redis.Client) error {
		return nil
	}
	if err := db.Health(context.Background()); err != nil {
		t.Fatalf("unexpected health error: %v", err)
	}
}

func TestRedisDB_Close_NilClient(t *testing.T) {
	db := &RedisDB{}
	if err := db.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}

func TestRedisDB_Close(t *testing.T) {
	db := &RedisDB{Client: redis.NewClient(&redis.Options{Addr: "localhost:0"})}
	if err := db.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}
