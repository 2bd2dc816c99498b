package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/vcaremart/offerlink/internal/config"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(srv.Close)

	port, err := strconv.Atoi(srv.Port())
	if err != nil {
		t.Fatalf("parse miniredis port: %v", err)
	}
	if err := InitRedis(&config.RedisConfig{
		Enabled: true,
		Host:    srv.Host(),
		Port:    port,
		Prefix:  "oltest",
	}); err != nil {
		t.Fatalf("init redis: %v", err)
	}
	return srv
}

func TestOTPSetGetDelete(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	if err := SetOTP(ctx, "9876543210", "123456", 5*time.Minute); err != nil {
		t.Fatalf("set otp: %v", err)
	}

	code, err := GetOTP(ctx, "9876543210")
	if err != nil {
		t.Fatalf("get otp: %v", err)
	}
	if code != "123456" {
		t.Fatalf("expected otp 123456, got %q", code)
	}

	if err := DelOTP(ctx, "9876543210"); err != nil {
		t.Fatalf("del otp: %v", err)
	}
	code, err = GetOTP(ctx, "9876543210")
	if err != nil {
		t.Fatalf("get otp after delete: %v", err)
	}
	if code != "" {
		t.Fatalf("expected empty otp after delete, got %q", code)
	}
}

func TestOTPExpires(t *testing.T) {
	srv := setupTestRedis(t)
	ctx := context.Background()

	if err := SetOTP(ctx, "9876543210", "654321", 5*time.Minute); err != nil {
		t.Fatalf("set otp: %v", err)
	}
	srv.FastForward(6 * time.Minute)

	code, err := GetOTP(ctx, "9876543210")
	if err != nil {
		t.Fatalf("get otp: %v", err)
	}
	if code != "" {
		t.Fatalf("expected expired otp to be gone, got %q", code)
	}
}

func TestOTPAttemptCounter(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, err := IncrOTPAttempts(ctx, "9876543210", time.Minute)
		if err != nil {
			t.Fatalf("incr attempts: %v", err)
		}
		if count != int64(i) {
			t.Fatalf("expected attempt count %d, got %d", i, count)
		}
	}

	// 新验证码写入后计数应清零
	if err := SetOTP(ctx, "9876543210", "111222", time.Minute); err != nil {
		t.Fatalf("set otp: %v", err)
	}
	count, err := IncrOTPAttempts(ctx, "9876543210", time.Minute)
	if err != nil {
		t.Fatalf("incr attempts: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected counter reset to 1, got %d", count)
	}
}

func TestMarkOTPSentInterval(t *testing.T) {
	srv := setupTestRedis(t)
	ctx := context.Background()

	ok, err := MarkOTPSent(ctx, "9876543210", time.Minute)
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if !ok {
		t.Fatal("first send should be allowed")
	}

	ok, err = MarkOTPSent(ctx, "9876543210", time.Minute)
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if ok {
		t.Fatal("second send within interval should be blocked")
	}

	srv.FastForward(2 * time.Minute)
	ok, err = MarkOTPSent(ctx, "9876543210", time.Minute)
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if !ok {
		t.Fatal("send after interval should be allowed")
	}
}
