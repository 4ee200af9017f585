package blood

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(nil, 0)
	m.SetClock(func() time.Time { return testNow })
	return m
}

func days(n int) time.Time {
	return testNow.Add(time.Duration(n) * 24 * time.Hour)
}

func TestManager_AddStock(t *testing.T) {
	m := newTestManager(t)

	lot, err := m.AddStock("A+", 10, days(20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lot.ID == "" || lot.Group != "A+" || lot.TotalUnits != 10 {
		t.Fatalf("unexpected lot: %+v", lot)
	}
	if lot.Status != LotAvailable || lot.AvailableUnits != 10 {
		t.Fatalf("new lot should be fully available: %+v", lot)
	}

	if _, err := m.AddStock("X+", 5, days(20)); !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}
	if _, err := m.AddStock("A+", 0, days(20)); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for zero units, got %v", err)
	}
	if _, err := m.AddStock("A+", 5, days(-1)); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for expired lot, got %v", err)
	}
}

func TestManager_ConsumeStock_FEFO(t *testing.T) {
	m := newTestManager(t)

	late, _ := m.AddStock("O+", 10, days(30))
	early, _ := m.AddStock("O+", 5, days(5))
	mid, _ := m.AddStock("O+", 8, days(12))

	draws, err := m.ConsumeStock("O+", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draws) != 2 {
		t.Fatalf("expected 2 draws, got %+v", draws)
	}
	if draws[0].LotID != early.ID || draws[0].Units != 5 {
		t.Fatalf("first draw should drain the earliest lot: %+v", draws[0])
	}
	if draws[1].LotID != mid.ID || draws[1].Units != 2 {
		t.Fatalf("second draw should come from the next expiry: %+v", draws[1])
	}

	avail, _ := m.Available("O+")
	if avail != 16 {
		t.Fatalf("available = %d, want 16", avail)
	}

	// The drained lot stays on the books as used with its total intact.
	s, _ := m.GroupStock("O+")
	if len(s.Lots) != 3 {
		t.Fatalf("expected all 3 lots retained, got %+v", s.Lots)
	}
	for _, lot := range s.Lots {
		switch lot.ID {
		case early.ID:
			if lot.Status != LotUsed || lot.AvailableUnits != 0 || lot.TotalUnits != 5 {
				t.Fatalf("drained lot should be used: %+v", lot)
			}
		case mid.ID:
			if lot.Status != LotAvailable || lot.AvailableUnits != 6 {
				t.Fatalf("partially drawn lot: %+v", lot)
			}
		case late.ID:
			if lot.Status != LotAvailable || lot.AvailableUnits != 10 {
				t.Fatalf("untouched lot: %+v", lot)
			}
		}
	}
}

func TestManager_ConsumeStock_AllOrNothing(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.AddStock("B-", 4, days(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := m.ConsumeStock("B-", 5)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	avail, _ := m.Available("B-")
	if avail != 4 {
		t.Fatalf("failed consume must not touch stock, available = %d", avail)
	}
}

func TestManager_ConsumeStock_SkipsExpired(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.AddStock("A-", 6, days(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fresh, err := m.AddStock("A-", 6, days(15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Move the clock past the first lot's expiry.
	m.SetClock(func() time.Time { return testNow.Add(3 * 24 * time.Hour) })

	avail, _ := m.Available("A-")
	if avail != 6 {
		t.Fatalf("expired units still counted, available = %d", avail)
	}

	draws, err := m.ConsumeStock("A-", 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draws) != 1 || draws[0].LotID != fresh.ID {
		t.Fatalf("consumption must skip expired lots: %+v", draws)
	}
}

func TestManager_Status(t *testing.T) {
	m := newTestManager(t)

	// O+ threshold defaults to 25, critical at <= 7.5 units.
	s, _ := m.GroupStock("O+")
	if s.Status != StatusCritical {
		t.Fatalf("empty group should be critical, got %q", s.Status)
	}

	if _, err := m.AddStock("O+", 7, days(20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, _ = m.GroupStock("O+")
	if s.Status != StatusCritical {
		t.Fatalf("7 <= 7.5 should stay critical, got %q", s.Status)
	}

	if _, err := m.AddStock("O+", 10, days(20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, _ = m.GroupStock("O+")
	if s.Status != StatusLow {
		t.Fatalf("17 of 25 should be low, got %q", s.Status)
	}

	if _, err := m.AddStock("O+", 20, days(20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, _ = m.GroupStock("O+")
	if s.Status != StatusGood {
		t.Fatalf("37 of 25 should be good, got %q", s.Status)
	}
}

func TestManager_ThresholdOverrides(t *testing.T) {
	m := NewManager(map[string]int{"AB-": 2, "X+": 99, "A+": -5}, 0.5)
	m.SetClock(func() time.Time { return testNow })

	if _, err := m.AddStock("AB-", 1, days(20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, _ := m.GroupStock("AB-")
	if s.MinThreshold != 2 {
		t.Fatalf("threshold override lost: %+v", s)
	}
	if s.Status != StatusCritical {
		t.Fatalf("1 <= 0.5*2 should be critical, got %q", s.Status)
	}

	// Unknown groups and negative overrides are ignored.
	s, _ = m.GroupStock("A+")
	if s.MinThreshold != DefaultThresholds["A+"] {
		t.Fatalf("negative override should be ignored: %+v", s)
	}
}

func TestManager_DaysUntilExpiry(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.AddStock("B+", 3, testNow.Add(36*time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.AddStock("B+", 3, days(9)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, _ := m.GroupStock("B+")
	if s.DaysUntilExpiry != 2 {
		t.Fatalf("36h away rounds up to 2 days, got %d", s.DaysUntilExpiry)
	}
}

func TestManager_ExpireLots_Idempotent(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.AddStock("O-", 5, days(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.AddStock("O-", 5, days(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.SetClock(func() time.Time { return testNow.Add(2 * 24 * time.Hour) })

	expired := m.ExpireLots(time.Time{})
	if len(expired) != 1 || expired[0].TotalUnits != 5 {
		t.Fatalf("expected one expired lot, got %+v", expired)
	}
	if expired[0].Status != LotExpired {
		t.Fatalf("swept lot should be expired, got %q", expired[0].Status)
	}
	if again := m.ExpireLots(time.Time{}); len(again) != 0 {
		t.Fatalf("second sweep should move nothing, got %+v", again)
	}
	avail, _ := m.Available("O-")
	if avail != 5 {
		t.Fatalf("available = %d, want 5", avail)
	}
}

func TestManager_ExpireLots_RetainsLot(t *testing.T) {
	m := newTestManager(t)
	lot, err := m.AddStock("O+", 4, days(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.SetClock(func() time.Time { return testNow.Add(3 * 24 * time.Hour) })
	if expired := m.ExpireLots(time.Time{}); len(expired) != 1 {
		t.Fatalf("expected one expired lot, got %+v", expired)
	}

	s, _ := m.GroupStock("O+")
	if len(s.Lots) != 1 {
		t.Fatalf("expired lot must stay on the books, got %d lots", len(s.Lots))
	}
	if s.Lots[0].ID != lot.ID || s.Lots[0].Status != LotExpired {
		t.Fatalf("retained lot should be expired: %+v", s.Lots[0])
	}
	if s.Available != 0 {
		t.Fatalf("expired units still counted, available = %d", s.Available)
	}
}

func TestManager_ExpireLots_AsOfDate(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.AddStock("A+", 6, days(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Sweep against a future date without touching the clock.
	expired := m.ExpireLots(days(5))
	if len(expired) != 1 || expired[0].Status != LotExpired {
		t.Fatalf("expected the lot expired as of day 5, got %+v", expired)
	}
	avail, _ := m.Available("A+")
	if avail != 0 {
		t.Fatalf("available = %d, want 0", avail)
	}
}

func TestManager_StockOrderAndCritical(t *testing.T) {
	m := newTestManager(t)
	stock := m.Stock()
	if len(stock) != len(Groups) {
		t.Fatalf("expected %d groups, got %d", len(Groups), len(stock))
	}
	for i, g := range Groups {
		if stock[i].Group != g {
			t.Fatalf("group order broken at %d: %q", i, stock[i].Group)
		}
	}

	// Fill every group past its threshold except AB-.
	for _, g := range Groups {
		if g == "AB-" {
			continue
		}
		if _, err := m.AddStock(g, DefaultThresholds[g]*2, days(20)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	critical := m.CriticalGroups()
	if len(critical) != 1 || critical[0].Group != "AB-" {
		t.Fatalf("expected only AB- critical, got %+v", critical)
	}
}
