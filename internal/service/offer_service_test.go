package service

import (
	"testing"
	"time"

	"github.com/vcaremart/offerlink/internal/clock"
	"github.com/vcaremart/offerlink/internal/models"
	"github.com/vcaremart/offerlink/internal/repository"

	"gorm.io/gorm"
)

func setupOfferServiceTest(t *testing.T, now time.Time) (*gorm.DB, *OfferService) {
	t.Helper()
	db, repo := setupOfferSyncTest(t)
	branchRepo := repository.NewBranchRepository(db)
	clk := clock.Fixed{At: now}
	sync := NewOfferSyncService(repo, clk, nil)
	return db, NewOfferService(repo, branchRepo, sync, clk)
}

func seedBranch(t *testing.T, db *gorm.DB, name, location, city, token string) *models.Branch {
	t.Helper()
	branch := &models.Branch{
		UserID:     1,
		BranchName: name,
		Location:   location,
		City:       city,
		Status:     "active",
		LinkToken:  token,
	}
	if err := db.Create(branch).Error; err != nil {
		t.Fatalf("seed branch failed: %v", err)
	}
	return branch
}

func seedBranchOffer(t *testing.T, db *gorm.DB, title string, status models.OfferStatus, branches ...models.Branch) *models.Offer {
	t.Helper()
	offer := &models.Offer{
		UserID:    1,
		Title:     title,
		ValidFrom: models.NewDateOnly(2025, time.January, 10),
		ValidTo:   models.NewDateOnly(2025, time.January, 20),
		Status:    status,
		Branches:  branches,
	}
	if err := db.Create(offer).Error; err != nil {
		t.Fatalf("seed offer failed: %v", err)
	}
	return offer
}

func TestActiveOffersForBranch(t *testing.T) {
	db, svc := setupOfferServiceTest(t, at(15, 12, 0))
	branch := seedBranch(t, db, "MG Road", "MG Road", "Kochi", "tok-agg-1")
	other := seedBranch(t, db, "Fort", "Fort Area", "Kochi", "tok-agg-2")

	visible := seedBranchOffer(t, db, "lunch special", models.OfferStatusActive, *branch)
	seedBranchOffer(t, db, "pulled offer", models.OfferStatusInactive, *branch)
	seedBranchOffer(t, db, "other branch only", models.OfferStatusActive, *other)

	got, offers, err := svc.ActiveOffersForBranch(branch.ID)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if got.ID != branch.ID {
		t.Fatalf("expected branch %d, got %d", branch.ID, got.ID)
	}
	if len(offers) != 1 {
		t.Fatalf("expected 1 visible offer, got %d", len(offers))
	}
	if offers[0].ID != visible.ID {
		t.Fatalf("expected offer %d, got %d", visible.ID, offers[0].ID)
	}
	if offers[0].ComputedStatus != models.EffectiveActive {
		t.Fatalf("expected computed active, got %s", offers[0].ComputedStatus)
	}
}

func TestActiveOffersForBranch_WindowClosedOfferHidden(t *testing.T) {
	// 09:00-18:00 窗口，20:00 访问：同步会把它落为 inactive，实时校验同样排除
	db, svc := setupOfferServiceTest(t, at(15, 20, 0))
	branch := seedBranch(t, db, "MG Road", "MG Road", "Kochi", "tok-agg-3")

	start := models.NewTimeOfDay(9, 0)
	end := models.NewTimeOfDay(18, 0)
	offer := &models.Offer{
		UserID:         1,
		Title:          "daytime only",
		ValidFrom:      models.NewDateOnly(2025, time.January, 10),
		ValidTo:        models.NewDateOnly(2025, time.January, 20),
		DailyStartTime: &start,
		DailyEndTime:   &end,
		Status:         models.OfferStatusActive,
		Branches:       []models.Branch{*branch},
	}
	if err := db.Create(offer).Error; err != nil {
		t.Fatalf("seed offer failed: %v", err)
	}

	_, offers, err := svc.ActiveOffersForBranch(branch.ID)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if len(offers) != 0 {
		t.Fatalf("expected no visible offers after window close, got %d", len(offers))
	}
}

func TestActiveOffersForBranch_UnknownBranch(t *testing.T) {
	_, svc := setupOfferServiceTest(t, at(15, 12, 0))
	if _, _, err := svc.ActiveOffersForBranch(9999); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDiscover_FilterPrecedence(t *testing.T) {
	db, svc := setupOfferServiceTest(t, at(15, 12, 0))
	kochiBranch := seedBranch(t, db, "Kochi Central", "Marine Drive", "Kochi", "tok-disc-1")
	trivBranch := seedBranch(t, db, "Trivandrum Central", "Statue", "Trivandrum", "tok-disc-2")

	kochiOffer := seedBranchOffer(t, db, "kochi deal", models.OfferStatusActive, *kochiBranch)
	trivOffer := seedBranchOffer(t, db, "trivandrum deal", models.OfferStatusActive, *trivBranch)

	// branch_id 优先于 location 与 city
	offers, err := svc.Discover(trivBranch.ID, "Marine Drive", "Kochi")
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(offers) != 1 || offers[0].ID != trivOffer.ID {
		t.Fatalf("branch_id filter must win, got %d offers", len(offers))
	}

	// location 优先于 city，大小写不敏感子串匹配
	offers, err = svc.Discover(0, "marine", "Trivandrum")
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(offers) != 1 || offers[0].ID != kochiOffer.ID {
		t.Fatalf("location filter must win over city, got %d offers", len(offers))
	}

	// 只剩 city
	offers, err = svc.Discover(0, "", "kochi")
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(offers) != 1 || offers[0].ID != kochiOffer.ID {
		t.Fatalf("city filter expected kochi deal, got %d offers", len(offers))
	}
}

func TestDiscover_DeduplicatesAcrossBranches(t *testing.T) {
	db, svc := setupOfferServiceTest(t, at(15, 12, 0))
	first := seedBranch(t, db, "Kochi North", "Kaloor", "Kochi", "tok-dedup-1")
	second := seedBranch(t, db, "Kochi South", "Vyttila", "Kochi", "tok-dedup-2")

	offer := seedBranchOffer(t, db, "citywide deal", models.OfferStatusActive, *first, *second)

	offers, err := svc.Discover(0, "", "Kochi")
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("offer on two matching branches must appear once, got %d", len(offers))
	}
	if offers[0].ID != offer.ID {
		t.Fatalf("expected offer %d, got %d", offer.ID, offers[0].ID)
	}
}

func TestDiscover_OnlyLiveActive(t *testing.T) {
	db, svc := setupOfferServiceTest(t, at(15, 8, 0))
	branch := seedBranch(t, db, "Kochi Central", "Marine Drive", "Kochi", "tok-live-1")

	start := models.NewTimeOfDay(9, 0)
	end := models.NewTimeOfDay(18, 0)
	windowed := &models.Offer{
		UserID:         1,
		Title:          "opens at nine",
		ValidFrom:      models.NewDateOnly(2025, time.January, 10),
		ValidTo:        models.NewDateOnly(2025, time.January, 20),
		DailyStartTime: &start,
		DailyEndTime:   &end,
		Status:         models.OfferStatusActive,
		Branches:       []models.Branch{*branch},
	}
	if err := db.Create(windowed).Error; err != nil {
		t.Fatalf("seed offer failed: %v", err)
	}
	allDay := seedBranchOffer(t, db, "all day deal", models.OfferStatusActive, *branch)

	offers, err := svc.Discover(0, "", "Kochi")
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(offers) != 1 || offers[0].ID != allDay.ID {
		t.Fatalf("only the all-day offer should be live at 08:00, got %d offers", len(offers))
	}
}

func TestOfferCreateValidation(t *testing.T) {
	_, svc := setupOfferServiceTest(t, at(15, 12, 0))

	_, err := svc.Create(1, OfferInput{
		Title:     "backwards range",
		ValidFrom: models.NewDateOnly(2025, time.January, 20),
		ValidTo:   models.NewDateOnly(2025, time.January, 10),
	})
	if err != ErrInvalidDateRange {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}

	start := models.NewTimeOfDay(9, 0)
	_, err = svc.Create(1, OfferInput{
		Title:          "half a window",
		ValidFrom:      models.NewDateOnly(2025, time.January, 10),
		ValidTo:        models.NewDateOnly(2025, time.January, 20),
		DailyStartTime: &start,
	})
	if err != ErrInvalidTimeWindow {
		t.Fatalf("expected ErrInvalidTimeWindow, got %v", err)
	}

	end := models.NewTimeOfDay(8, 0)
	_, err = svc.Create(1, OfferInput{
		Title:          "inverted window",
		ValidFrom:      models.NewDateOnly(2025, time.January, 10),
		ValidTo:        models.NewDateOnly(2025, time.January, 20),
		DailyStartTime: &start,
		DailyEndTime:   &end,
	})
	if err != ErrInvalidTimeWindow {
		t.Fatalf("expected ErrInvalidTimeWindow for inverted window, got %v", err)
	}

	// 零长度窗口同样拒绝，结束必须严格晚于开始
	sameAsStart := models.NewTimeOfDay(9, 0)
	_, err = svc.Create(1, OfferInput{
		Title:          "zero length window",
		ValidFrom:      models.NewDateOnly(2025, time.January, 10),
		ValidTo:        models.NewDateOnly(2025, time.January, 20),
		DailyStartTime: &start,
		DailyEndTime:   &sameAsStart,
	})
	if err != ErrInvalidTimeWindow {
		t.Fatalf("expected ErrInvalidTimeWindow for zero-length window, got %v", err)
	}
}

func TestOfferCreateAndStats(t *testing.T) {
	db, svc := setupOfferServiceTest(t, at(15, 12, 0))
	branch := seedBranch(t, db, "MG Road", "MG Road", "Kochi", "tok-create-1")

	view, err := svc.Create(1, OfferInput{
		Title:     "fresh deal",
		ValidFrom: models.NewDateOnly(2025, time.January, 10),
		ValidTo:   models.NewDateOnly(2025, time.January, 20),
		BranchIDs: []uint{branch.ID},
		Media: []OfferMediaInput{
			{FileURL: "https://cdn.example.com/a.jpg", FileType: "image", Caption: "poster"},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if view.ComputedStatus != models.EffectiveActive {
		t.Fatalf("expected computed active, got %s", view.ComputedStatus)
	}
	if len(view.Branches) != 1 || view.Branches[0].ID != branch.ID {
		t.Fatal("expected branch assignment to persist")
	}
	if len(view.Media) != 1 {
		t.Fatalf("expected 1 media row, got %d", len(view.Media))
	}

	counts, err := svc.Stats(0)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if counts.Total != 1 || counts.Active != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
