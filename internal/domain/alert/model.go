package alert

import (
	"errors"
	"time"
)

// Outcome records how a dispatch ended.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNoRecipients = errors.New("no recipients in range")
)

// Request asks for a donor alert around one facility.
type Request struct {
	Facility string  `json:"facility"`
	Group    string  `json:"group"`
	RadiusKm float64 `json:"radius_km"`
	Note     string  `json:"note"`
	Template string  `json:"template"`
}

// Record is the append-only log entry for one dispatch attempt. Failed
// dispatches are logged too.
type Record struct {
	ID        string    `json:"id"`
	Facility  string    `json:"facility"`
	Group     string    `json:"group"`
	RadiusKm  float64   `json:"radius_km"`
	Message   string    `json:"message"`
	Estimated int       `json:"estimated"`
	Delivered int       `json:"delivered"`
	Outcome   Outcome   `json:"outcome"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
