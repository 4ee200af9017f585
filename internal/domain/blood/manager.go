package blood

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCriticalRatio is the fraction of the minimum threshold at or
// below which a group is graded critical instead of merely low.
const DefaultCriticalRatio = 0.3

// Manager tracks blood stock for one facility. Every mutation happens
// under the one mutex, so lot order and group totals never tear.
type Manager struct {
	mu            sync.Mutex
	lots          map[string][]*Lot
	thresholds    map[string]int
	criticalRatio float64
	now           func() time.Time
}

// NewManager builds a manager with per-group minimum thresholds.
// Missing groups fall back to DefaultThresholds; a ratio outside (0, 1)
// falls back to DefaultCriticalRatio.
func NewManager(thresholds map[string]int, criticalRatio float64) *Manager {
	merged := make(map[string]int, len(DefaultThresholds))
	for g, v := range DefaultThresholds {
		merged[g] = v
	}
	for g, v := range thresholds {
		if knownGroup(g) && v >= 0 {
			merged[g] = v
		}
	}
	if criticalRatio <= 0 || criticalRatio >= 1 {
		criticalRatio = DefaultCriticalRatio
	}
	lots := make(map[string][]*Lot, len(Groups))
	for _, g := range Groups {
		lots[g] = nil
	}
	return &Manager{
		lots:          lots,
		thresholds:    merged,
		criticalRatio: criticalRatio,
		now:           time.Now,
	}
}

// SetClock replaces the time source. Tests use it to pin expiry math.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// AddStock registers a new lot. Units must be positive and the expiry
// must lie in the future.
func (m *Manager) AddStock(group string, units int, expiry time.Time) (Lot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !knownGroup(group) {
		return Lot{}, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	if units <= 0 {
		return Lot{}, fmt.Errorf("%w: units must be positive", ErrValidation)
	}
	now := m.now()
	if daysUntil(now, expiry) <= 0 {
		return Lot{}, fmt.Errorf("%w: lot is already expired", ErrValidation)
	}

	lot := &Lot{
		ID:             uuid.New().String(),
		Group:          group,
		Status:         LotAvailable,
		TotalUnits:     units,
		AvailableUnits: units,
		Expiry:         expiry,
		ReceivedAt:     now,
	}
	m.lots[group] = append(m.lots[group], lot)
	m.sortGroupLocked(group)
	return *lot, nil
}

// ConsumeStock draws units from the group, nearest expiry first. A
// request is filled completely or not at all; expired lots never count
// toward availability.
func (m *Manager) ConsumeStock(group string, units int) ([]Draw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !knownGroup(group) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	if units <= 0 {
		return nil, fmt.Errorf("%w: units must be positive", ErrValidation)
	}

	now := m.now()
	avail := m.availableLocked(group, now)
	if avail < units {
		return nil, fmt.Errorf("%w: %s has %d units, requested %d", ErrInsufficientStock, group, avail, units)
	}

	var draws []Draw
	remaining := units
	for _, lot := range m.lots[group] {
		if remaining == 0 {
			break
		}
		if !lot.active(now) {
			continue
		}
		take := lot.AvailableUnits
		if take > remaining {
			take = remaining
		}
		draws = append(draws, Draw{LotID: lot.ID, Units: take, Expiry: lot.Expiry})
		lot.AvailableUnits -= take
		remaining -= take
		if lot.AvailableUnits == 0 {
			lot.Status = LotUsed
		}
	}
	return draws, nil
}

// ExpireLots moves every lot whose expiry has passed as of the given
// date to status expired and returns the moved lots. A zero asOf means
// now. Running it twice in a row moves nothing the second time.
func (m *Manager) ExpireLots(asOf time.Time) []Lot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if asOf.IsZero() {
		asOf = m.now()
	}
	var expired []Lot
	for _, g := range Groups {
		for _, lot := range m.lots[g] {
			if lot.Status != LotAvailable && lot.Status != LotReserved {
				continue
			}
			if daysUntil(asOf, lot.Expiry) <= 0 {
				lot.Status = LotExpired
				expired = append(expired, *lot)
			}
		}
	}
	return expired
}

// Available reports non-expired units on hand for the group.
func (m *Manager) Available(group string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !knownGroup(group) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	return m.availableLocked(group, m.now()), nil
}

// GroupStock snapshots one group.
func (m *Manager) GroupStock(group string) (GroupStock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !knownGroup(group) {
		return GroupStock{}, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	return m.groupStockLocked(group), nil
}

// Stock snapshots every group in display order.
func (m *Manager) Stock() []GroupStock {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]GroupStock, 0, len(Groups))
	for _, g := range Groups {
		out = append(out, m.groupStockLocked(g))
	}
	return out
}

// CriticalGroups lists groups currently graded critical, for alerting.
func (m *Manager) CriticalGroups() []GroupStock {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []GroupStock
	for _, g := range Groups {
		if s := m.groupStockLocked(g); s.Status == StatusCritical {
			out = append(out, s)
		}
	}
	return out
}

func (m *Manager) groupStockLocked(group string) GroupStock {
	now := m.now()
	s := GroupStock{
		Group:        group,
		MinThreshold: m.thresholds[group],
		Lots:         []Lot{},
	}
	nearest := 0
	for _, lot := range m.lots[group] {
		s.Lots = append(s.Lots, *lot)
		if !lot.active(now) {
			continue
		}
		s.Available += lot.AvailableUnits
		if d := daysUntil(now, lot.Expiry); nearest == 0 || d < nearest {
			nearest = d
		}
	}
	s.DaysUntilExpiry = nearest
	s.Status = m.statusFor(s.Available, s.MinThreshold)
	return s
}

func (m *Manager) statusFor(available, threshold int) StockStatus {
	switch {
	case float64(available) <= m.criticalRatio*float64(threshold):
		return StatusCritical
	case available <= threshold:
		return StatusLow
	default:
		return StatusGood
	}
}

func (m *Manager) availableLocked(group string, now time.Time) int {
	total := 0
	for _, lot := range m.lots[group] {
		if lot.active(now) {
			total += lot.AvailableUnits
		}
	}
	return total
}

// active reports whether the lot still contributes to availability.
func (l *Lot) active(now time.Time) bool {
	return l.Status == LotAvailable && daysUntil(now, l.Expiry) > 0
}

func (m *Manager) sortGroupLocked(group string) {
	sort.SliceStable(m.lots[group], func(i, j int) bool {
		return m.lots[group][i].Expiry.Before(m.lots[group][j].Expiry)
	})
}

// daysUntil counts whole days from now to expiry, rounding partial days
// up. A value of zero or less means the lot is expired.
func daysUntil(now, expiry time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}
