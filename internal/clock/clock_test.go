package clock

import (
	"testing"
	"time"
)

func TestNewBusinessInvalidTimezone(t *testing.T) {
	if _, err := NewBusiness("Mars/Olympus"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestBusinessNowTruncatesToMinute(t *testing.T) {
	clk, err := NewBusiness("Asia/Kolkata")
	if err != nil {
		t.Fatalf("create business clock: %v", err)
	}

	now := clk.Now()
	if now.Second() != 0 || now.Nanosecond() != 0 {
		t.Fatalf("expected minute granularity, got %v", now)
	}
	if now.Location().String() != "Asia/Kolkata" {
		t.Fatalf("unexpected location %s", now.Location())
	}
}

func TestFixedNow(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 30, 45, 123, time.UTC)
	clk := Fixed{At: at}

	want := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	if got := clk.Now(); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
