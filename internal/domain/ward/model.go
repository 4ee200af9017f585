package ward

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// BedStatus is the allocation state of a single bed.
type BedStatus string

const (
	StatusEmpty       BedStatus = "empty"
	StatusOccupied    BedStatus = "occupied"
	StatusReserved    BedStatus = "reserved"
	StatusCleaning    BedStatus = "cleaning"
	StatusMaintenance BedStatus = "maintenance"
)

// holdStatuses are administrative states excluded from admission eligibility.
var holdStatuses = map[BedStatus]bool{
	StatusReserved:    true,
	StatusCleaning:    true,
	StatusMaintenance: true,
}

var (
	ErrWardNotFound = errors.New("ward not found")
	ErrBedNotFound  = errors.New("bed not found")
	// ErrInvalidBedState is returned when an operation's precondition on the
	// bed status does not hold (e.g. admitting into a non-empty bed).
	ErrInvalidBedState = errors.New("invalid bed state")
	ErrValidation      = errors.New("validation failed")
	// ErrImmutableField is returned when a patient patch attempts to change
	// the patient identifier or admission date.
	ErrImmutableField = errors.New("immutable field")
	// ErrConfirmationRequired is returned when removing an occupied bed
	// without the force flag. The caller must confirm and retry with force.
	ErrConfirmationRequired = errors.New("confirmation required")
)

// Patient is the record held by an occupied bed. It is owned exclusively by
// that bed and discarded at discharge.
type Patient struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Gender           string    `json:"gender"`
	Contact          string    `json:"contact"`
	Address          string    `json:"address,omitempty"`
	NationalID       string    `json:"national_id,omitempty"`
	Diagnosis        string    `json:"diagnosis,omitempty"`
	Doctor           string    `json:"doctor"`
	AdmissionDate    time.Time `json:"admission_date"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
}

// PatientDraft is the input to an admission, either entered manually or
// resolved through the identity provider.
type PatientDraft struct {
	Name             string     `json:"name"`
	Age              int        `json:"age"`
	Gender           string     `json:"gender"`
	Contact          string     `json:"contact"`
	Address          string     `json:"address"`
	NationalID       string     `json:"national_id"`
	Diagnosis        string     `json:"diagnosis"`
	Doctor           string     `json:"doctor"`
	AdmissionDate    *time.Time `json:"admission_date"`
	EmergencyContact string     `json:"emergency_contact"`
}

// PatientPatch carries partial updates to an admitted patient. Nil fields are
// left untouched. ID and AdmissionDate are immutable: supplying either with a
// value different from the current record fails the whole patch.
type PatientPatch struct {
	ID               *uuid.UUID `json:"id"`
	Name             *string    `json:"name"`
	Age              *int       `json:"age"`
	Gender           *string    `json:"gender"`
	Contact          *string    `json:"contact"`
	Address          *string    `json:"address"`
	NationalID       *string    `json:"national_id"`
	Diagnosis        *string    `json:"diagnosis"`
	Doctor           *string    `json:"doctor"`
	AdmissionDate    *time.Time `json:"admission_date"`
	EmergencyContact *string    `json:"emergency_contact"`
}

// Bed is the unit of allocation. Patient is set iff Status is occupied.
type Bed struct {
	ID      string    `json:"id"`
	Number  string    `json:"number"`
	Status  BedStatus `json:"status"`
	Patient *Patient  `json:"patient,omitempty"`
}

func (b *Bed) clone() Bed {
	out := *b
	if b.Patient != nil {
		p := *b.Patient
		out.Patient = &p
	}
	return out
}

type wardState struct {
	id        string
	name      string
	beds      []*Bed
	updatedAt time.Time
}

// Counts holds occupancy counters derived from the bed collection. The sum of
// the five states always equals Total.
type Counts struct {
	Total       int `json:"total"`
	Occupied    int `json:"occupied"`
	Available   int `json:"available"`
	Reserved    int `json:"reserved"`
	Cleaning    int `json:"cleaning"`
	Maintenance int `json:"maintenance"`
}

func (w *wardState) counts() Counts {
	c := Counts{Total: len(w.beds)}
	for _, b := range w.beds {
		switch b.Status {
		case StatusOccupied:
			c.Occupied++
		case StatusReserved:
			c.Reserved++
		case StatusCleaning:
			c.Cleaning++
		case StatusMaintenance:
			c.Maintenance++
		default:
			c.Available++
		}
	}
	return c
}

// Summary is a ward-level view without bed details.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Counts
	OccupancyRate int       `json:"occupancy_rate"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Detail is a ward-level view including a snapshot of every bed.
type Detail struct {
	Summary
	Beds []Bed `json:"beds"`
}
