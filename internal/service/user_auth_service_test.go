package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/vcaremart/offerlink/internal/cache"
	"github.com/vcaremart/offerlink/internal/config"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthTest(t *testing.T) (*gorm.DB, *UserAuthService) {
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
	if err := cache.InitRedis(&config.RedisConfig{
		Enabled: true,
		Host:    srv.Host(),
		Port:    port,
		Prefix:  "oltest",
	}); err != nil {
		t.Fatalf("init redis: %v", err)
	}

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Customer{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	for _, table := range []string{"users", "customers"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean table %s failed: %v", table, err)
		}
	}

	cfg := &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "user-test-secret", ExpireHours: 1},
		OTP: config.OTPConfig{
			ExpireMinutes:       5,
			SendIntervalSeconds: 60,
			MaxAttempts:         3,
			Length:              6,
		},
	}
	svc := NewUserAuthService(cfg, repository.NewUserRepository(db), repository.NewCustomerRepository(db), nil, nil)
	return db, svc
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"9876543210", "9876543210", false},
		{"+91 98765 43210", "9876543210", false},
		{"919876543210", "9876543210", false},
		{"98765", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := normalizePhone(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidPhone) {
				t.Fatalf("normalizePhone(%q): expected ErrInvalidPhone, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("normalizePhone(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("normalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRequestOTP_UnregisteredPhone(t *testing.T) {
	_, svc := setupUserAuthTest(t)
	if err := svc.RequestOTP("9999999999"); !errors.Is(err, ErrPhoneNotRegistered) {
		t.Fatalf("expected ErrPhoneNotRegistered, got %v", err)
	}
}

func TestRequestOTP_IntervalGate(t *testing.T) {
	db, svc := setupUserAuthTest(t)
	seedCustomer(t, db, "C001", "Acme Traders", "919876543210", "CL01")

	if err := svc.RequestOTP("9876543210"); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if err := svc.RequestOTP("9876543210"); !errors.Is(err, ErrOTPTooFrequent) {
		t.Fatalf("expected ErrOTPTooFrequent, got %v", err)
	}
}

func TestVerifyOTP_ProvisionsUser(t *testing.T) {
	db, svc := setupUserAuthTest(t)
	seedCustomer(t, db, "C001", "Acme Traders", "919876543210", "CL01")

	if err := svc.RequestOTP("9876543210"); err != nil {
		t.Fatalf("request otp failed: %v", err)
	}
	code, err := cache.GetOTP(context.Background(), "9876543210")
	if err != nil || code == "" {
		t.Fatalf("expected stored otp, got %q err %v", code, err)
	}

	user, token, _, err := svc.VerifyOTP("9876543210", code)
	if err != nil {
		t.Fatalf("verify otp failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}
	if user.Username != "debtor_C001_9876543210" {
		t.Fatalf("unexpected provisioned username %q", user.Username)
	}
	if user.ClientID != "CL01" || user.BusinessName != "Acme Traders" {
		t.Fatalf("provisioned user missing ledger fields: %+v", user)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Phone != "9876543210" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// 验证码一次性使用
	if _, _, _, err := svc.VerifyOTP("9876543210", code); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired on reuse, got %v", err)
	}

	// 再次登录复用已有账号
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single provisioned user, got %d", count)
	}
}

func TestLoginByPhone(t *testing.T) {
	db, svc := setupUserAuthTest(t)
	seedCustomer(t, db, "C002", "Bay Stores", "919812345670", "CL01")

	user, token, _, err := svc.LoginByPhone("+91 98123 45670")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || user.Phone != "9812345670" {
		t.Fatalf("unexpected login result: token=%q user=%+v", token, user)
	}

	if _, _, _, err := svc.LoginByPhone("9999999999"); !errors.Is(err, ErrPhoneNotRegistered) {
		t.Fatalf("expected ErrPhoneNotRegistered, got %v", err)
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", "disabled").Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.LoginByPhone("9812345670"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestVerifyOTP_AttemptLimit(t *testing.T) {
	db, svc := setupUserAuthTest(t)
	seedCustomer(t, db, "C001", "Acme Traders", "919876543210", "CL01")

	if err := svc.RequestOTP("9876543210"); err != nil {
		t.Fatalf("request otp failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, _, _, err := svc.VerifyOTP("9876543210", "000000"); !errors.Is(err, ErrOTPInvalid) {
			t.Fatalf("attempt %d: expected ErrOTPInvalid, got %v", i+1, err)
		}
	}
	if _, _, _, err := svc.VerifyOTP("9876543210", "000000"); !errors.Is(err, ErrOTPTooManyAttempts) {
		t.Fatalf("expected ErrOTPTooManyAttempts, got %v", err)
	}

	// 超限后验证码作废
	if _, _, _, err := svc.VerifyOTP("9876543210", "000000"); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired after lockout, got %v", err)
	}
}
