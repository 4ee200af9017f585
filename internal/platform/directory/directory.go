// Package directory looks up partner facilities in the regional health
// network. Transfer coordination uses it to find hospitals with free
// capacity.
package directory

import "context"

// Facility kinds as the regional directory reports them.
const (
	KindHospital  = "hospital"
	KindBloodBank = "blood_bank"
)

// Entry is one directory listing. Distance and ETA are measured from
// the requesting facility; Resources maps resource tags such as
// "icu_bed" or "ventilator" to free units.
type Entry struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Kind          string         `json:"kind"`
	City          string         `json:"city"`
	Contact       string         `json:"contact"`
	AvailableBeds int            `json:"available_beds"`
	DistanceKm    float64        `json:"distance_km"`
	ETAMinutes    int            `json:"eta_minutes"`
	Resources     map[string]int `json:"resources,omitempty"`
}

// Filter narrows a directory search. Zero values match everything; a
// listed resource tag requires at least one free unit of it.
type Filter struct {
	Kind          string
	City          string
	MinBeds       int
	MaxDistanceKm float64
	Resources     []string
}

// Directory lists partner facilities.
type Directory interface {
	Search(ctx context.Context, f Filter) ([]Entry, error)
}
