package service

import (
	"testing"
	"time"

	"github.com/vcaremart/offerlink/internal/clock"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOfferSyncTest(t *testing.T) (*gorm.DB, repository.OfferRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Branch{}, &models.Offer{}, &models.OfferMedia{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	for _, table := range []string{"offer_branches", "offer_media", "offers", "branches", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean table %s failed: %v", table, err)
		}
	}
	return db, repository.NewOfferRepository(db)
}

func seedOffer(t *testing.T, db *gorm.DB, offer *models.Offer) *models.Offer {
	t.Helper()
	if err := db.Create(offer).Error; err != nil {
		t.Fatalf("seed offer failed: %v", err)
	}
	return offer
}

func storedStatus(t *testing.T, db *gorm.DB, id uint) models.OfferStatus {
	t.Helper()
	var offer models.Offer
	if err := db.First(&offer, id).Error; err != nil {
		t.Fatalf("reload offer failed: %v", err)
	}
	return offer.Status
}

func syncServiceAt(repo repository.OfferRepository, now time.Time) *OfferSyncService {
	return NewOfferSyncService(repo, clock.Fixed{At: now}, nil)
}

func TestSynchronize_ExpiredPersistsAsInactive(t *testing.T) {
	db, repo := setupOfferSyncTest(t)
	offer := seedOffer(t, db, &models.Offer{
		UserID:    1,
		Title:     "ended last week",
		ValidFrom: models.NewDateOnly(2025, time.January, 1),
		ValidTo:   models.NewDateOnly(2025, time.January, 7),
		Status:    models.OfferStatusActive,
	})

	svc := syncServiceAt(repo, at(15, 12, 0))
	result, err := svc.Synchronize()
	if err != nil {
		t.Fatalf("synchronize failed: %v", err)
	}
	if result.Expired != 1 {
		t.Fatalf("expected 1 expired row, got %d", result.Expired)
	}
	if got := storedStatus(t, db, offer.ID); got != models.OfferStatusInactive {
		t.Fatalf("expired offer must be stored inactive, got %s", got)
	}
}

func TestSynchronize_FutureOfferBecomesScheduled(t *testing.T) {
	db, repo := setupOfferSyncTest(t)
	offer := seedOffer(t, db, &models.Offer{
		UserID:    1,
		Title:     "starts next month",
		ValidFrom: models.NewDateOnly(2025, time.February, 1),
		ValidTo:   models.NewDateOnly(2025, time.February, 10),
		Status:    models.OfferStatusActive,
	})

	svc := syncServiceAt(repo, at(15, 12, 0))
	result, err := svc.Synchronize()
	if err != nil {
		t.Fatalf("synchronize failed: %v", err)
	}
	if result.ScheduledByDate != 1 {
		t.Fatalf("expected 1 scheduled row, got %d", result.ScheduledByDate)
	}
	if got := storedStatus(t, db, offer.ID); got != models.OfferStatusScheduled {
		t.Fatalf("future offer must be stored scheduled, got %s", got)
	}
}

func TestSynchronize_WindowTransitions(t *testing.T) {
	start := models.NewTimeOfDay(9, 0)
	end := models.NewTimeOfDay(18, 0)
	newWindowed := func(status models.OfferStatus) *models.Offer {
		return &models.Offer{
			UserID:         1,
			Title:          "daily window offer",
			ValidFrom:      models.NewDateOnly(2025, time.January, 10),
			ValidTo:        models.NewDateOnly(2025, time.January, 20),
			DailyStartTime: &start,
			DailyEndTime:   &end,
			Status:         status,
		}
	}

	t.Run("before window opens", func(t *testing.T) {
		db, repo := setupOfferSyncTest(t)
		offer := seedOffer(t, db, newWindowed(models.OfferStatusActive))
		if _, err := syncServiceAt(repo, at(15, 8, 0)).Synchronize(); err != nil {
			t.Fatalf("synchronize failed: %v", err)
		}
		if got := storedStatus(t, db, offer.ID); got != models.OfferStatusScheduled {
			t.Fatalf("expected scheduled before window, got %s", got)
		}
	})

	t.Run("after window closes", func(t *testing.T) {
		db, repo := setupOfferSyncTest(t)
		offer := seedOffer(t, db, newWindowed(models.OfferStatusActive))
		if _, err := syncServiceAt(repo, at(15, 19, 0)).Synchronize(); err != nil {
			t.Fatalf("synchronize failed: %v", err)
		}
		if got := storedStatus(t, db, offer.ID); got != models.OfferStatusInactive {
			t.Fatalf("expected inactive after window, got %s", got)
		}
	})

	t.Run("inside window reactivates scheduled", func(t *testing.T) {
		db, repo := setupOfferSyncTest(t)
		offer := seedOffer(t, db, newWindowed(models.OfferStatusScheduled))
		if _, err := syncServiceAt(repo, at(15, 12, 0)).Synchronize(); err != nil {
			t.Fatalf("synchronize failed: %v", err)
		}
		if got := storedStatus(t, db, offer.ID); got != models.OfferStatusActive {
			t.Fatalf("expected active inside window, got %s", got)
		}
	})

	t.Run("window boundaries are inclusive", func(t *testing.T) {
		db, repo := setupOfferSyncTest(t)
		offer := seedOffer(t, db, newWindowed(models.OfferStatusScheduled))
		if _, err := syncServiceAt(repo, at(15, 9, 0)).Synchronize(); err != nil {
			t.Fatalf("synchronize failed: %v", err)
		}
		if got := storedStatus(t, db, offer.ID); got != models.OfferStatusActive {
			t.Fatalf("expected active at window start, got %s", got)
		}
	})
}

func TestSynchronize_SecondRunIsNoop(t *testing.T) {
	db, repo := setupOfferSyncTest(t)
	start := models.NewTimeOfDay(9, 0)
	end := models.NewTimeOfDay(18, 0)
	seedOffer(t, db, &models.Offer{
		UserID:    1,
		Title:     "expired one",
		ValidFrom: models.NewDateOnly(2025, time.January, 1),
		ValidTo:   models.NewDateOnly(2025, time.January, 7),
		Status:    models.OfferStatusActive,
	})
	seedOffer(t, db, &models.Offer{
		UserID:         1,
		Title:          "windowed one",
		ValidFrom:      models.NewDateOnly(2025, time.January, 10),
		ValidTo:        models.NewDateOnly(2025, time.January, 20),
		DailyStartTime: &start,
		DailyEndTime:   &end,
		Status:         models.OfferStatusScheduled,
	})

	svc := syncServiceAt(repo, at(15, 12, 0))
	first, err := svc.Synchronize()
	if err != nil {
		t.Fatalf("first synchronize failed: %v", err)
	}
	if first.Total() == 0 {
		t.Fatal("first run should apply changes")
	}

	second, err := svc.Synchronize()
	if err != nil {
		t.Fatalf("second synchronize failed: %v", err)
	}
	if second.Total() != 0 {
		t.Fatalf("second run with same clock must be a no-op, got %d changes", second.Total())
	}
}

func TestSynchronize_NeverResurrectsManualInactive(t *testing.T) {
	db, repo := setupOfferSyncTest(t)
	offer := seedOffer(t, db, &models.Offer{
		UserID:    1,
		Title:     "pulled by operator",
		ValidFrom: models.NewDateOnly(2025, time.January, 10),
		ValidTo:   models.NewDateOnly(2025, time.January, 20),
		Status:    models.OfferStatusInactive,
	})

	// 日期与窗口条件完全满足，但人工下线的优惠不得被拉回
	result, err := syncServiceAt(repo, at(15, 12, 0)).Synchronize()
	if err != nil {
		t.Fatalf("synchronize failed: %v", err)
	}
	if result.Total() != 0 {
		t.Fatalf("sync must not touch manually disabled offers, got %d changes", result.Total())
	}
	if got := storedStatus(t, db, offer.ID); got != models.OfferStatusInactive {
		t.Fatalf("manually disabled offer must stay inactive, got %s", got)
	}
}
