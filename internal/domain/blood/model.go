package blood

import (
	"errors"
	"time"
)

// StockStatus grades how close a group's availability sits to its
// minimum threshold.
type StockStatus string

const (
	StatusGood     StockStatus = "good"
	StatusLow      StockStatus = "low"
	StatusCritical StockStatus = "critical"
)

var (
	ErrUnknownGroup      = errors.New("unknown blood group")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation failed")
)

// Groups lists the supported ABO/Rh groups in display order.
var Groups = []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}

// DefaultThresholds are the minimum unit counts below which a group is
// flagged, tuned for a mid-size facility.
var DefaultThresholds = map[string]int{
	"A+": 15, "A-": 12,
	"B+": 15, "B-": 10,
	"O+": 25, "O-": 12,
	"AB+": 8, "AB-": 6,
}

// LotStatus tracks where a lot sits in its lifecycle. Consumed and
// expired lots stay on the books under their terminal status.
type LotStatus string

const (
	LotAvailable LotStatus = "available"
	LotReserved  LotStatus = "reserved"
	LotExpired   LotStatus = "expired"
	LotUsed      LotStatus = "used"
)

// Lot is a received batch of whole-blood units sharing one expiry date.
// TotalUnits never changes after receipt; AvailableUnits counts down as
// the lot is drawn from.
type Lot struct {
	ID             string    `json:"id"`
	Group          string    `json:"group"`
	Status         LotStatus `json:"status"`
	TotalUnits     int       `json:"total_units"`
	AvailableUnits int       `json:"available_units"`
	Expiry         time.Time `json:"expiry"`
	ReceivedAt     time.Time `json:"received_at"`
}

// Draw records how many units one consumption took from one lot.
type Draw struct {
	LotID  string    `json:"lot_id"`
	Units  int       `json:"units"`
	Expiry time.Time `json:"expiry"`
}

// GroupStock is a read-only snapshot of one group's position.
type GroupStock struct {
	Group           string      `json:"group"`
	Available       int         `json:"available"`
	MinThreshold    int         `json:"min_threshold"`
	Status          StockStatus `json:"status"`
	DaysUntilExpiry int         `json:"days_until_expiry"`
	Lots            []Lot       `json:"lots"`
}

func knownGroup(group string) bool {
	_, ok := DefaultThresholds[group]
	return ok
}
