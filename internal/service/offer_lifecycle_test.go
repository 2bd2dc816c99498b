package service

import (
	"testing"
	"time"

	"github.com/vcaremart/offerlink/internal/models"
)

func windowedOffer(status models.OfferStatus) *models.Offer {
	start := models.NewTimeOfDay(9, 0)
	end := models.NewTimeOfDay(18, 0)
	return &models.Offer{
		Title:          "weekday lunch deal",
		ValidFrom:      models.NewDateOnly(2025, time.January, 10),
		ValidTo:        models.NewDateOnly(2025, time.January, 20),
		DailyStartTime: &start,
		DailyEndTime:   &end,
		Status:         status,
	}
}

func allDayOffer(status models.OfferStatus) *models.Offer {
	return &models.Offer{
		Title:     "storewide sale",
		ValidFrom: models.NewDateOnly(2025, time.January, 10),
		ValidTo:   models.NewDateOnly(2025, time.January, 20),
		Status:    status,
	}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.January, day, hour, minute, 0, 0, time.UTC)
}

func TestComputeEffectiveStatus_DailyWindow(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want models.EffectiveStatus
	}{
		{"inside window", at(15, 12, 0), models.EffectiveActive},
		{"before window opens", at(15, 8, 59), models.EffectiveScheduled},
		{"after window closes", at(15, 18, 1), models.EffectiveExpired},
		{"window start boundary", at(15, 9, 0), models.EffectiveActive},
		{"window end boundary", at(15, 18, 0), models.EffectiveActive},
		{"before first day", at(9, 12, 0), models.EffectiveScheduled},
		{"after last day", at(21, 12, 0), models.EffectiveInactive},
		{"first day in window", at(10, 9, 0), models.EffectiveActive},
		{"last day in window", at(20, 18, 0), models.EffectiveActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeEffectiveStatus(windowedOffer(models.OfferStatusActive), tc.now)
			if got != tc.want {
				t.Fatalf("expected %s at %s, got %s", tc.want, tc.now, got)
			}
		})
	}
}

func TestComputeEffectiveStatus_NoWindow(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want models.EffectiveStatus
	}{
		{"any time inside range", at(15, 3, 30), models.EffectiveActive},
		{"midnight on first day", at(10, 0, 0), models.EffectiveActive},
		{"end of last day", at(20, 23, 59), models.EffectiveActive},
		{"before range", at(9, 23, 59), models.EffectiveScheduled},
		{"after range", at(21, 0, 0), models.EffectiveInactive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeEffectiveStatus(allDayOffer(models.OfferStatusActive), tc.now)
			if got != tc.want {
				t.Fatalf("expected %s at %s, got %s", tc.want, tc.now, got)
			}
		})
	}
}

func TestComputeEffectiveStatus_ElapsedRangeIsInactive(t *testing.T) {
	// 日期区间整体结束后一律为 inactive；expired 只描述当日窗口收盘
	offer := &models.Offer{
		Title:     "january clearance",
		ValidFrom: models.NewDateOnly(2024, time.January, 1),
		ValidTo:   models.NewDateOnly(2024, time.January, 31),
		Status:    models.OfferStatusActive,
	}
	now := time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)
	if got := ComputeEffectiveStatus(offer, now); got != models.EffectiveInactive {
		t.Fatalf("expected inactive after the date range, got %s", got)
	}

	// 带窗口且处于窗口时段内也不例外
	start := models.NewTimeOfDay(9, 0)
	end := models.NewTimeOfDay(18, 0)
	offer.DailyStartTime = &start
	offer.DailyEndTime = &end
	if got := ComputeEffectiveStatus(offer, now); got != models.EffectiveInactive {
		t.Fatalf("expected inactive after the date range with window, got %s", got)
	}
}

func TestComputeEffectiveStatus_ManualInactiveAlwaysWins(t *testing.T) {
	times := []time.Time{
		at(15, 12, 0), // would otherwise be active
		at(9, 12, 0),  // would otherwise be scheduled
		at(21, 12, 0), // past the date range
		at(15, 8, 0),  // would otherwise be scheduled by window
	}
	for _, now := range times {
		if got := ComputeEffectiveStatus(windowedOffer(models.OfferStatusInactive), now); got != models.EffectiveInactive {
			t.Fatalf("manually disabled offer must stay inactive at %s, got %s", now, got)
		}
		if got := ComputeEffectiveStatus(allDayOffer(models.OfferStatusInactive), now); got != models.EffectiveInactive {
			t.Fatalf("manually disabled all-day offer must stay inactive at %s, got %s", now, got)
		}
	}
}

func TestComputeEffectiveStatus_StoredScheduledCanBeLiveActive(t *testing.T) {
	// 存储状态落后于真实时间时，实时计算以时间为准
	offer := windowedOffer(models.OfferStatusScheduled)
	if got := ComputeEffectiveStatus(offer, at(15, 12, 0)); got != models.EffectiveActive {
		t.Fatalf("expected live active despite stale stored scheduled, got %s", got)
	}
}

func TestEffectiveStatusStoredMapping(t *testing.T) {
	if models.EffectiveExpired.Stored() != models.OfferStatusInactive {
		t.Fatal("expired must persist as inactive")
	}
	if models.EffectiveActive.Stored() != models.OfferStatusActive {
		t.Fatal("active must persist as active")
	}
	if models.EffectiveScheduled.Stored() != models.OfferStatusScheduled {
		t.Fatal("scheduled must persist as scheduled")
	}
}

func TestIsEffectivelyActive(t *testing.T) {
	if !IsEffectivelyActive(windowedOffer(models.OfferStatusActive), at(15, 12, 0)) {
		t.Fatal("expected offer to be live inside window")
	}
	if IsEffectivelyActive(windowedOffer(models.OfferStatusActive), at(15, 20, 0)) {
		t.Fatal("expected offer not to be live after window")
	}
}
