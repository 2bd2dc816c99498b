package service

import (
	"errors"
	"testing"

	"github.com/vcaremart/offerlink/internal/config"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*gorm.DB, *AuthService) {
	t.Helper()
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
		JWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6},
		},
	}
	svc := NewAuthService(cfg, repository.NewUserRepository(db), repository.NewCustomerRepository(db))
	return db, svc
}

func seedAdmin(t *testing.T, db *gorm.DB, username, password, status, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func seedCustomer(t *testing.T, db *gorm.DB, code, name, phone, clientID string) *models.Customer {
	t.Helper()
	customer := &models.Customer{Code: code, Name: name, Phone: phone, ClientID: clientID}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer failed: %v", err)
	}
	return customer
}

func TestAdminLogin(t *testing.T) {
	db, svc := setupAuthTest(t)
	seedCustomer(t, db, "C001", "Acme Traders", "9876543210", "CL01")
	admin := seedAdmin(t, db, "boss", "secret123", "active", "admin")

	user, token, expiresAt, err := svc.Login("CL01", "boss", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatal("expected token and expiry")
	}
	if user.ID != admin.ID {
		t.Fatalf("expected user %d, got %d", admin.ID, user.ID)
	}

	// client_id 回写
	var reloaded models.User
	if err := db.First(&reloaded, admin.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.ClientID != "CL01" {
		t.Fatalf("expected client_id CL01, got %q", reloaded.ClientID)
	}
	if reloaded.LastLoginAt == nil {
		t.Fatal("expected last_login_at to be set")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != admin.ID || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAdminLoginRejections(t *testing.T) {
	db, svc := setupAuthTest(t)
	seedCustomer(t, db, "C001", "Acme Traders", "9876543210", "CL01")
	seedAdmin(t, db, "boss", "secret123", "active", "admin")
	seedAdmin(t, db, "shopuser", "secret123", "active", "user")
	seedAdmin(t, db, "locked", "secret123", "disabled", "admin")

	cases := []struct {
		name     string
		clientID string
		username string
		password string
		want     error
	}{
		{"unknown client id", "NOPE", "boss", "secret123", ErrInvalidClientID},
		{"empty client id", "", "boss", "secret123", ErrInvalidClientID},
		{"unknown username", "CL01", "ghost", "secret123", ErrInvalidCredentials},
		{"wrong password", "CL01", "boss", "wrong", ErrInvalidCredentials},
		{"non admin role", "CL01", "shopuser", "secret123", ErrForbidden},
		{"disabled account", "CL01", "locked", "secret123", ErrAccountDisabled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, _, err := svc.Login(tc.clientID, tc.username, tc.password); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestChangePassword(t *testing.T) {
	db, svc := setupAuthTest(t)
	admin := seedAdmin(t, db, "boss", "secret123", "active", "admin")

	if err := svc.ChangePassword(admin.ID, "wrong", "newpass456"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "secret123", "tiny"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "secret123", "newpass456"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, admin.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if err := svc.VerifyPassword(reloaded.PasswordHash, "newpass456"); err != nil {
		t.Fatal("new password should verify")
	}
}
