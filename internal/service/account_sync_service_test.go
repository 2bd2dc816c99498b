package service

import (
	"testing"

	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAccountSyncTest(t *testing.T) (*gorm.DB, *AccountSyncService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.LedgerShop{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	for _, table := range []string{"users", "ledger_shops"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean table %s failed: %v", table, err)
		}
	}
	svc := NewAccountSyncService(repository.NewUserRepository(db), repository.NewLedgerShopRepository(db))
	return db, svc
}

func seedShop(t *testing.T, db *gorm.DB, firmName, address, clientID string) {
	t.Helper()
	shop := &models.LedgerShop{FirmName: firmName, Address: address, ClientID: clientID}
	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("seed shop failed: %v", err)
	}
}

func TestSyncShops(t *testing.T) {
	db, svc := setupAccountSyncTest(t)
	seedShop(t, db, "Acme Stores", "MG Road", "CL01")
	seedShop(t, db, "Beta Mart", "Fort", "CL02")
	seedShop(t, db, "No Client Shop", "Nowhere", "")

	result, err := svc.SyncShops()
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.Created != 2 || result.Skipped != 0 || result.MissingClientID != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var user models.User
	if err := db.Where("username = ?", "misel_CL01").First(&user).Error; err != nil {
		t.Fatalf("expected provisioned account: %v", err)
	}
	if user.ShopName != "Acme Stores" || user.ClientID != "CL01" {
		t.Fatalf("provisioned account missing fields: %+v", user)
	}
	if user.PasswordHash == "" {
		t.Fatal("provisioned account must carry a password hash")
	}

	// 重跑幂等：已有账号全部跳过
	again, err := svc.SyncShops()
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if again.Created != 0 || again.Skipped != 2 || again.MissingClientID != 1 {
		t.Fatalf("second run should skip existing accounts: %+v", again)
	}
}
