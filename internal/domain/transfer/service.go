package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arogya/arogya/internal/platform/directory"
)

// Service coordinates patient transfers between facilities. It searches
// the regional directory for receiving capacity and tracks the
// accept/decline lifecycle of each request.
type Service struct {
	mu       sync.Mutex
	requests map[string]*Request
	order    []string

	dir directory.Directory
	now func() time.Time
	log zerolog.Logger
}

func NewService(dir directory.Directory, log zerolog.Logger) *Service {
	return &Service{
		requests: map[string]*Request{},
		dir:      dir,
		now:      time.Now,
		log:      log,
	}
}

// SetClock replaces the time source for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SearchDestinations lists hospitals able to take at least minBeds
// patients, optionally narrowed by city, maximum distance, and required
// resource tags.
func (s *Service) SearchDestinations(ctx context.Context, q DestinationQuery) ([]directory.Entry, error) {
	if q.MinBeds < 1 {
		q.MinBeds = 1
	}
	return s.dir.Search(ctx, directory.Filter{
		Kind:          directory.KindHospital,
		City:          q.City,
		MinBeds:       q.MinBeds,
		MaxDistanceKm: q.MaxDistanceKm,
		Resources:     q.Resources,
	})
}

// DestinationQuery narrows a destination search.
type DestinationQuery struct {
	City          string
	MinBeds       int
	MaxDistanceKm float64
	Resources     []string
}

// Create opens a pending transfer request.
func (s *Service) Create(d Draft) (Request, error) {
	if d.FromFacility == "" || d.ToFacility == "" {
		return Request{}, fmt.Errorf("%w: both facilities are required", ErrValidation)
	}
	if d.FromFacility == d.ToFacility {
		return Request{}, fmt.Errorf("%w: cannot transfer within one facility", ErrValidation)
	}
	if d.PatientName == "" {
		return Request{}, fmt.Errorf("%w: patient name is required", ErrValidation)
	}
	if d.DistanceKm < 0 || d.ETAMinutes < 0 {
		return Request{}, fmt.Errorf("%w: distance and eta cannot be negative", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req := &Request{
		ID:                uuid.New().String(),
		FromFacility:      d.FromFacility,
		ToFacility:        d.ToFacility,
		PatientName:       d.PatientName,
		Reason:            d.Reason,
		RequiredResources: d.RequiredResources,
		DistanceKm:        d.DistanceKm,
		ETAMinutes:        d.ETAMinutes,
		Status:            StatusPending,
		CreatedAt:         s.now(),
	}
	s.requests[req.ID] = req
	s.order = append(s.order, req.ID)

	s.log.Info().
		Str("transfer_id", req.ID).
		Str("from", req.FromFacility).
		Str("to", req.ToFacility).
		Msg("transfer requested")
	return *req, nil
}

// Accept marks a pending request accepted.
func (s *Service) Accept(id, note string) (Request, error) {
	return s.decide(id, StatusAccepted, note)
}

// Decline marks a pending request declined.
func (s *Service) Decline(id, note string) (Request, error) {
	return s.decide(id, StatusDeclined, note)
}

func (s *Service) decide(id string, status Status, note string) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return Request{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if req.Status != StatusPending {
		return Request{}, fmt.Errorf("%w: already %s", ErrAlreadyDecided, req.Status)
	}
	req.Status = status
	req.Note = note
	req.DecidedAt = s.now()

	s.log.Info().
		Str("transfer_id", req.ID).
		Str("status", string(status)).
		Msg("transfer decided")
	return *req, nil
}

// Get returns one request by id.
func (s *Service) Get(id string) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return Request{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *req, nil
}

// List returns requests touching the facility, as sender or receiver,
// in creation order. An empty facility id lists everything.
func (s *Service) List(facilityID string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Request
	for _, id := range s.order {
		req := s.requests[id]
		if facilityID != "" && req.FromFacility != facilityID && req.ToFacility != facilityID {
			continue
		}
		out = append(out, *req)
	}
	return out
}
