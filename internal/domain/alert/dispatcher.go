package alert

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arogya/arogya/internal/platform/notify"
)

// Radius bounds for a donor alert, in kilometres.
const (
	DefaultMinRadiusKm = 1.0
	DefaultMaxRadiusKm = 25.0
)

// donorBase approximates registered donors per group per unit of
// coverage in a typical urban catchment.
var donorBase = map[string]int{
	"O+": 150, "O-": 50,
	"A+": 120, "A-": 40,
	"B+": 100, "B-": 35,
	"AB+": 60, "AB-": 25,
}

// Dispatcher sends urgent donation appeals and keeps an append-only
// history of every attempt.
type Dispatcher struct {
	mu      sync.Mutex
	records []Record

	sender      notify.Sender
	tmpl        *TemplateEngine
	minRadiusKm float64
	maxRadiusKm float64
	now         func() time.Time
	log         zerolog.Logger
}

func NewDispatcher(sender notify.Sender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		tmpl:        NewTemplateEngine(),
		minRadiusKm: DefaultMinRadiusKm,
		maxRadiusKm: DefaultMaxRadiusKm,
		now:         time.Now,
		log:         log,
	}
}

// SetRadiusBounds overrides the accepted radius window. Bounds that do
// not satisfy 0 < min <= max are ignored.
func (d *Dispatcher) SetRadiusBounds(minKm, maxKm float64) {
	if minKm <= 0 || maxKm < minKm {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.minRadiusKm = minKm
	d.maxRadiusKm = maxKm
}

// SetClock replaces the time source for tests.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
}

// Templates exposes the engine so deployments can register custom
// appeal wordings.
func (d *Dispatcher) Templates() *TemplateEngine {
	return d.tmpl
}

// EstimateRecipients predicts how many donors an alert would reach.
// The estimate grows with radius and saturates at ten coverage units.
// Unknown groups and non-positive radii estimate to zero.
func EstimateRecipients(group string, radiusKm float64) int {
	base, ok := donorBase[group]
	if !ok || radiusKm <= 0 {
		return 0
	}
	coverage := math.Min(radiusKm*0.8, 10)
	return int(math.Floor(float64(base) * coverage))
}

// Dispatch validates the request, renders the appeal, sends it, and
// appends the outcome to the history. The send happens outside the
// dispatcher lock so a slow gateway never blocks readers, and the
// record is committed even when the send fails or the context is
// cancelled mid-flight.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Record, error) {
	d.mu.Lock()
	minR, maxR := d.minRadiusKm, d.maxRadiusKm
	now := d.now
	d.mu.Unlock()

	if _, ok := donorBase[req.Group]; !ok {
		return Record{}, fmt.Errorf("%w: unknown blood group %q", ErrValidation, req.Group)
	}
	if req.RadiusKm < minR || req.RadiusKm > maxR {
		return Record{}, fmt.Errorf("%w: radius %.1f km outside [%.0f, %.0f]", ErrValidation, req.RadiusKm, minR, maxR)
	}

	name := req.Template
	if name == "" {
		name = DefaultTemplateName
	}
	msg, err := d.tmpl.Render(name, TemplateData{
		Facility: req.Facility,
		Group:    req.Group,
		RadiusKm: req.RadiusKm,
		Note:     req.Note,
	})
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	estimated := EstimateRecipients(req.Group, req.RadiusKm)
	if estimated == 0 {
		return Record{}, ErrNoRecipients
	}

	rec := Record{
		ID:        uuid.New().String(),
		Facility:  req.Facility,
		Group:     req.Group,
		RadiusKm:  req.RadiusKm,
		Message:   msg,
		Estimated: estimated,
		CreatedAt: now(),
	}

	res, sendErr := d.sender.Send(ctx, notify.Broadcast{
		FacilityID: req.Facility,
		Group:      req.Group,
		RadiusKm:   req.RadiusKm,
		Message:    msg,
		Recipients: estimated,
	})

	switch {
	case sendErr != nil:
		rec.Outcome = OutcomeFailed
		rec.Error = sendErr.Error()
	case res.Delivered >= estimated:
		rec.Delivered = estimated
		rec.Outcome = OutcomeSent
	default:
		rec.Delivered = res.Delivered
		rec.Outcome = OutcomePartial
	}

	d.mu.Lock()
	d.records = append(d.records, rec)
	d.mu.Unlock()

	evt := d.log.Info()
	if sendErr != nil {
		evt = d.log.Error().Err(sendErr)
	}
	evt.Str("alert_id", rec.ID).
		Str("group", rec.Group).
		Int("estimated", rec.Estimated).
		Int("delivered", rec.Delivered).
		Str("outcome", string(rec.Outcome)).
		Msg("alert dispatched")

	return rec, sendErr
}

// History returns dispatch records, newest first.
func (d *Dispatcher) History() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Record, len(d.records))
	for i, r := range d.records {
		out[len(d.records)-1-i] = r
	}
	return out
}
