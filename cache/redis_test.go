package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/go-redis/redismock/v9"
	"github.com/google/go-cmp/cmp"
)

func TestRedisCache_Get_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, time.Hour, "test:")
	mock.ExpectGet("test:mykey").SetVal("myvalue")

	val, ok := cache.Get("mykey")
	if !ok || val != "myvalue" {
		t.Errorf("Get() = %q, %v", val, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Get_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, time.Hour, "test:")
	mock.ExpectGet("test:mykey").RedisNil()
	mock.ExpectGet("test:broken").SetErr(errors.New("connection reset"))

	if val, ok := cache.Get("mykey"); ok || val != "" {
		t.Errorf("Get(mykey) = %q, %v, want miss", val, ok)
	}
	if val, ok := cache.Get("broken"); ok || val != "" {
		t.Errorf("Get(broken) = %q, %v, want miss", val, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Set(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{"with ttl", time.Hour},
		{"without ttl", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			defer db.Close()

			cache := NewRedisCacheFromClient(db, tt.ttl, "test:")
			mock.ExpectSet("test:mykey", "myvalue", tt.ttl).SetVal("OK")

			if err := cache.Set("mykey", "myvalue"); err != nil {
				t.Errorf("Set failed: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("Unmet expectations: %v", err)
			}
		})
	}
}

func TestRedisCache_SetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "")
	mock.ExpectSet("i18nsync:k", "v", 0).SetErr(errors.New("READONLY"))

	err := cache.Set("k", "v")
	var ce *i18nsync.CacheError
	if !errors.As(err, &ce) {
		t.Errorf("Set() error = %v, want *CacheError", err)
	}
}

func TestRedisCache_DefaultPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, time.Hour, "")
	mock.ExpectGet("i18nsync:hash123").SetVal("translated")

	val, ok := cache.Get("hash123")
	if !ok || val != "translated" {
		t.Errorf("Expected 'translated', got %q (ok=%v)", val, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Entries(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")
	mock.ExpectScan(0, "test:*", 100).SetVal([]string{"test:b", "test:gone"}, 7)
	mock.ExpectGet("test:b").SetVal("2")
	mock.ExpectGet("test:gone").RedisNil()
	mock.ExpectScan(7, "test:*", 100).SetVal([]string{"test:a"}, 0)
	mock.ExpectGet("test:a").SetVal("1")

	got, err := cache.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	want := []i18nsync.KeyEntry{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, time.Hour, "test:")
	mock.ExpectPing().SetVal("PONG")

	if err := cache.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Close(t *testing.T) {
	db, _ := redismock.NewClientMock()

	cache := NewRedisCacheFromClient(db, time.Hour, "test:")
	if err := cache.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisConfig{URL: "http://not-redis"})
	var ce *i18nsync.CacheError
	if !errors.As(err, &ce) {
		t.Errorf("NewRedisCache() error = %v, want *CacheError", err)
	}
}
