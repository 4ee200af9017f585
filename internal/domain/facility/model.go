package facility

import (
	"errors"
	"time"
)

// Kind distinguishes what a facility operates.
type Kind string

const (
	KindHospital  Kind = "hospital"
	KindBloodBank Kind = "blood_bank"
)

var (
	ErrNotFound   = errors.New("facility not found")
	ErrValidation = errors.New("validation failed")
)

// Facility is one registered site with its live resource managers.
type Facility struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Kind         Kind      `json:"kind"`
	City         string    `json:"city"`
	Contact      string    `json:"contact"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Draft carries the fields needed to register a facility.
type Draft struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	City    string `json:"city"`
	Contact string `json:"contact"`
}

// Summary is the dashboard view of one facility.
type Summary struct {
	Facility
	TotalBeds      int `json:"total_beds"`
	OccupiedBeds   int `json:"occupied_beds"`
	AvailableBeds  int `json:"available_beds"`
	CriticalGroups int `json:"critical_groups"`
	OpenReorders   int `json:"open_reorders"`
	AlertsSent     int `json:"alerts_sent"`
}
