package facility

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arogya/arogya/internal/domain/alert"
	"github.com/arogya/arogya/internal/domain/blood"
	"github.com/arogya/arogya/internal/domain/supply"
	"github.com/arogya/arogya/internal/domain/ward"
	"github.com/arogya/arogya/internal/platform/notify"
)

// Options carries the knobs every facility's managers are built with.
type Options struct {
	BedLowAvailThreshold int
	BloodThresholds      map[string]int
	BloodCriticalRatio   float64
	AlertRadiusMinKm     float64
	AlertRadiusMaxKm     float64
	Sender               notify.Sender
	Logger               zerolog.Logger
}

type site struct {
	info     Facility
	wards    *ward.Manager
	blood    *blood.Manager
	supplies *supply.Manager
	alerts   *alert.Dispatcher
}

// Registry owns every registered facility and its resource managers.
// Facility creation is rare; per-facility operations take the manager
// out of the registry and run under that manager's own lock.
type Registry struct {
	mu    sync.Mutex
	sites map[string]*site
	order []string
	opts  Options
	now   func() time.Time
}

func NewRegistry(opts Options) *Registry {
	if opts.Sender == nil {
		opts.Sender = notify.NewStaticSender()
	}
	return &Registry{
		sites: map[string]*site{},
		opts:  opts,
		now:   time.Now,
	}
}

// SetClock replaces the time source for tests.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Register adds a facility and builds its managers. Blood banks get no
// ward inventory.
func (r *Registry) Register(d Draft) (Facility, error) {
	if d.ID == "" || d.Name == "" {
		return Facility{}, fmt.Errorf("%w: id and name are required", ErrValidation)
	}
	if d.Kind != KindHospital && d.Kind != KindBloodBank {
		return Facility{}, fmt.Errorf("%w: unknown facility kind %q", ErrValidation, d.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sites[d.ID]; exists {
		return Facility{}, fmt.Errorf("%w: facility %q already registered", ErrValidation, d.ID)
	}

	s := &site{
		info: Facility{
			ID:           d.ID,
			Name:         d.Name,
			Kind:         d.Kind,
			City:         d.City,
			Contact:      d.Contact,
			RegisteredAt: r.now(),
		},
		blood:    blood.NewManager(r.opts.BloodThresholds, r.opts.BloodCriticalRatio),
		supplies: supply.NewManager(),
	}
	if d.Kind == KindHospital {
		s.wards = ward.NewManager(r.opts.BedLowAvailThreshold)
	}
	log := r.opts.Logger.With().Str("facility", d.ID).Logger()
	s.alerts = alert.NewDispatcher(r.opts.Sender, log)
	s.alerts.SetRadiusBounds(r.opts.AlertRadiusMinKm, r.opts.AlertRadiusMaxKm)

	r.sites[d.ID] = s
	r.order = append(r.order, d.ID)
	return s.info, nil
}

// Get returns one facility's record.
func (r *Registry) Get(id string) (Facility, error) {
	s, err := r.site(id)
	if err != nil {
		return Facility{}, err
	}
	return s.info, nil
}

// List returns facilities in registration order.
func (r *Registry) List() []Facility {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Facility, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sites[id].info)
	}
	return out
}

// WardManager resolves the bed inventory of a hospital.
func (r *Registry) WardManager(facilityID string) (*ward.Manager, error) {
	s, err := r.site(facilityID)
	if err != nil {
		return nil, err
	}
	if s.wards == nil {
		return nil, fmt.Errorf("%w: %q keeps no wards", ErrNotFound, facilityID)
	}
	return s.wards, nil
}

// BloodManager resolves a facility's blood stock.
func (r *Registry) BloodManager(facilityID string) (*blood.Manager, error) {
	s, err := r.site(facilityID)
	if err != nil {
		return nil, err
	}
	return s.blood, nil
}

// SupplyManager resolves a facility's supply inventory.
func (r *Registry) SupplyManager(facilityID string) (*supply.Manager, error) {
	s, err := r.site(facilityID)
	if err != nil {
		return nil, err
	}
	return s.supplies, nil
}

// AlertDispatcher resolves a facility's alert dispatcher.
func (r *Registry) AlertDispatcher(facilityID string) (*alert.Dispatcher, error) {
	s, err := r.site(facilityID)
	if err != nil {
		return nil, err
	}
	return s.alerts, nil
}

// Summary aggregates one facility's live position.
func (r *Registry) Summary(id string) (Summary, error) {
	s, err := r.site(id)
	if err != nil {
		return Summary{}, err
	}
	return r.summarize(s), nil
}

// Summaries aggregates every facility in registration order.
func (r *Registry) Summaries() []Summary {
	r.mu.Lock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	r.mu.Unlock()

	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		if sum, err := r.Summary(id); err == nil {
			out = append(out, sum)
		}
	}
	return out
}

func (r *Registry) summarize(s *site) Summary {
	sum := Summary{Facility: s.info}
	if s.wards != nil {
		t := s.wards.Totals()
		sum.TotalBeds = t.Total
		sum.OccupiedBeds = t.Occupied
		sum.AvailableBeds = t.Available
	}
	sum.CriticalGroups = len(s.blood.CriticalGroups())
	sum.OpenReorders = len(s.supplies.Reorders())
	sum.AlertsSent = len(s.alerts.History())
	return sum
}

func (r *Registry) site(id string) (*site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sites[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s, nil
}
