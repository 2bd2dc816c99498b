package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCustomerTest(t *testing.T) (*gorm.DB, *CustomerService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.LedgerShop{}, &models.Invoice{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	for _, table := range []string{"customers", "ledger_shops", "invoices"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean table %s failed: %v", table, err)
		}
	}
	svc := NewCustomerService(
		repository.NewCustomerRepository(db),
		repository.NewLedgerShopRepository(db),
		repository.NewInvoiceRepository(db),
	)
	return db, svc
}

func TestDebtorCodeFromUsername(t *testing.T) {
	cases := []struct {
		username string
		want     string
		ok       bool
	}{
		{"debtor_C001_9876543210", "C001", true},
		{"debtor_AB_12_9876543210", "AB_12", true},
		{"misel_CL01", "", false},
		{"debtor_", "", false},
		{"debtor_9876543210", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := debtorCodeFromUsername(tc.username)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("debtorCodeFromUsername(%q) = (%q, %v), want (%q, %v)", tc.username, got, ok, tc.want, tc.ok)
		}
	}
}

func TestUserInvoices(t *testing.T) {
	db, svc := setupCustomerTest(t)
	for i := 1; i <= 30; i++ {
		invoice := &models.Invoice{
			SerialNo:   fmt.Sprintf("INV%03d", i),
			CustomerID: "C001",
			ClientID:   "CL01",
		}
		if err := db.Create(invoice).Error; err != nil {
			t.Fatalf("seed invoice failed: %v", err)
		}
	}

	invoices, err := svc.UserInvoices("debtor_C001_9876543210", 0)
	if err != nil {
		t.Fatalf("user invoices failed: %v", err)
	}
	if len(invoices) != defaultInvoiceLimit {
		t.Fatalf("expected default limit %d, got %d", defaultInvoiceLimit, len(invoices))
	}
	if invoices[0].SerialNo != "INV030" {
		t.Fatalf("expected newest invoice first, got %s", invoices[0].SerialNo)
	}

	invoices, err = svc.UserInvoices("debtor_C001_9876543210", 100)
	if err != nil {
		t.Fatalf("user invoices failed: %v", err)
	}
	if len(invoices) != 30 {
		t.Fatalf("cap should still return all 30 rows here, got %d", len(invoices))
	}

	if _, err := svc.UserInvoices("misel_CL01", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("non debtor username must be rejected, got %v", err)
	}
}

func TestUserPoints(t *testing.T) {
	db, svc := setupCustomerTest(t)
	customer := &models.Customer{Code: "C001", Name: "Acme Traders", Points: "1250.50CR", ClientID: "CL01"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer failed: %v", err)
	}

	points, err := svc.UserPoints("debtor_C001_9876543210")
	if err != nil {
		t.Fatalf("user points failed: %v", err)
	}
	if points != "1250.50CR" {
		t.Fatalf("points must pass through untouched, got %q", points)
	}

	if _, err := svc.UserPoints("debtor_NOPE_9876543210"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown customer code must return ErrNotFound, got %v", err)
	}
}
