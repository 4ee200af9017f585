package transfer

import (
	"errors"
	"time"
)

// Status of a transfer request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

var (
	ErrNotFound       = errors.New("transfer request not found")
	ErrAlreadyDecided = errors.New("transfer request already decided")
	ErrValidation     = errors.New("validation failed")
)

// Request is an inter-facility patient transfer in flight. Distance and
// ETA come from the directory candidate the sender chose; the resource
// tags record what the patient needs at the receiving end. Requests are
// held in memory only; a restart clears the queue.
type Request struct {
	ID                string    `json:"id"`
	FromFacility      string    `json:"from_facility"`
	ToFacility        string    `json:"to_facility"`
	PatientName       string    `json:"patient_name"`
	Reason            string    `json:"reason"`
	RequiredResources []string  `json:"required_resources,omitempty"`
	DistanceKm        float64   `json:"distance_km"`
	ETAMinutes        int       `json:"eta_minutes"`
	Status            Status    `json:"status"`
	Note              string    `json:"note,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	DecidedAt         time.Time `json:"decided_at,omitempty"`
}

// Draft carries the fields a caller supplies when opening a request.
type Draft struct {
	FromFacility      string   `json:"from_facility"`
	ToFacility        string   `json:"to_facility"`
	PatientName       string   `json:"patient_name"`
	Reason            string   `json:"reason"`
	RequiredResources []string `json:"required_resources"`
	DistanceKm        float64  `json:"distance_km"`
	ETAMinutes        int      `json:"eta_minutes"`
}
