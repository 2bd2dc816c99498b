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

func setupUserServiceTest(t *testing.T) (*gorm.DB, *UserService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := db.Exec("DELETE FROM users").Error; err != nil {
		t.Fatalf("clean table users failed: %v", err)
	}

	cfg := &config.Config{
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6},
		},
	}
	return db, NewUserService(cfg, repository.NewUserRepository(db))
}

func TestUserCreate(t *testing.T) {
	_, svc := setupUserServiceTest(t)

	user, err := svc.Create(UserInput{
		Username: "owner1",
		Password: "secret123",
		ShopName: "Corner Store",
		ClientID: "CL01",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Role != "user" || user.Status != "active" {
		t.Fatalf("expected defaults user/active, got %s/%s", user.Role, user.Status)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")); err != nil {
		t.Fatal("password hash does not match input")
	}
}

func TestUserCreateRejections(t *testing.T) {
	_, svc := setupUserServiceTest(t)
	if _, err := svc.Create(UserInput{Username: "owner1", Password: "secret123"}); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	tests := []struct {
		name  string
		input UserInput
		want  error
	}{
		{"missing username", UserInput{Password: "secret123"}, ErrInvalidUser},
		{"missing password", UserInput{Username: "owner2"}, ErrInvalidUser},
		{"duplicate username", UserInput{Username: "owner1", Password: "secret123"}, ErrInvalidUser},
		{"weak password", UserInput{Username: "owner2", Password: "abc"}, ErrWeakPassword},
		{"unknown role", UserInput{Username: "owner2", Password: "secret123", Role: "superuser"}, ErrInvalidUser},
		{"unknown status", UserInput{Username: "owner2", Password: "secret123", Status: "paused"}, ErrInvalidUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUserUpdateKeepsPasswordWhenBlank(t *testing.T) {
	_, svc := setupUserServiceTest(t)
	created, err := svc.Create(UserInput{Username: "owner1", Password: "secret123"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(created.ID, UserInput{ShopName: "Renamed", Status: "disabled"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ShopName != "Renamed" || updated.Status != "disabled" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("secret123")); err != nil {
		t.Fatal("blank password should keep the old hash")
	}
}

func TestUserStats(t *testing.T) {
	_, svc := setupUserServiceTest(t)
	if _, err := svc.Create(UserInput{Username: "owner1", Password: "secret123"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(UserInput{Username: "owner2", Password: "secret123", Status: "disabled"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(UserInput{Username: "boss", Password: "secret123", Role: "admin"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	counts, err := svc.Stats("user")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if counts.Total != 2 || counts.Active != 1 || counts.Disabled != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	if err := svc.Delete(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}
}
