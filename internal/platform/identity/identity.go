// Package identity resolves national health tokens into patient
// demographics. Facilities scan a token at intake and receive the
// registered record instead of re-keying it by hand.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the token is well formed but no record matches it.
	ErrNotFound = errors.New("identity: no record for token")
)

// Record is the demographic slice of a registry entry. Clinical fields
// stay local to the admitting facility.
type Record struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	Contact          string `json:"contact"`
	Address          string `json:"address"`
	NationalID       string `json:"national_id"`
	EmergencyContact string `json:"emergency_contact"`
}

// Provider looks up a record by token.
type Provider interface {
	Resolve(ctx context.Context, token string) (Record, error)
}
