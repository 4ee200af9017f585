package supply

import (
	"errors"
	"time"
)

var (
	ErrItemNotFound      = errors.New("supply item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation failed")
)

// Consumable is a depletable supply line such as gloves or IV fluid.
type Consumable struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	Unit             string `json:"unit"`
	Quantity         int    `json:"quantity"`
	ReorderThreshold int    `json:"reorder_threshold"`
	AutoReorder      bool   `json:"auto_reorder"`
}

// ConsumableDraft carries the fields needed to register a consumable.
type ConsumableDraft struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	Unit             string `json:"unit"`
	Quantity         int    `json:"quantity"`
	ReorderThreshold int    `json:"reorder_threshold"`
	AutoReorder      bool   `json:"auto_reorder"`
}

// Reorder is an open purchase request raised when an auto-reorder item
// drops to its threshold.
type Reorder struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// Equipment is a pooled asset tracked by unit state. The three state
// counts always sum to the pool total.
type Equipment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Total       int    `json:"total"`
	Available   int    `json:"available"`
	InUse       int    `json:"in_use"`
	Maintenance int    `json:"maintenance"`
}
