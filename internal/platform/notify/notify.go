// Package notify fans alert messages out to registered donors through a
// messaging gateway. The dispatcher decides who should be reached; this
// package only moves the message.
package notify

import "context"

// Broadcast is one outbound campaign.
type Broadcast struct {
	FacilityID string  `json:"facility_id"`
	Group      string  `json:"group"`
	RadiusKm   float64 `json:"radius_km"`
	Message    string  `json:"message"`
	Recipients int     `json:"recipients"`
}

// Result reports how many recipients the gateway accepted the message
// for. Delivered may be lower than Broadcast.Recipients.
type Result struct {
	Delivered int `json:"delivered"`
}

// Sender delivers a broadcast.
type Sender interface {
	Send(ctx context.Context, b Broadcast) (Result, error)
}
