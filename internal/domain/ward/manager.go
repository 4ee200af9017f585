package ward

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultLowAvailThreshold is the free-bed count at or below which a ward is
// flagged for transfer initiation.
const DefaultLowAvailThreshold = 2

// Manager is the single source of truth for one facility's bed inventory.
// Every mutation runs under the manager's mutex, so no interleaving of two
// operations can observe a ward with inconsistent counters.
type Manager struct {
	mu                sync.Mutex
	wards             map[string]*wardState
	order             []string
	lowAvailThreshold int
	now               func() time.Time
}

// NewManager creates an empty bed inventory. A lowAvailThreshold <= 0 selects
// the default of 2 free beds.
func NewManager(lowAvailThreshold int) *Manager {
	if lowAvailThreshold <= 0 {
		lowAvailThreshold = DefaultLowAvailThreshold
	}
	return &Manager{
		wards:             make(map[string]*wardState),
		lowAvailThreshold: lowAvailThreshold,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the manager's clock. Test hook.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// AddWard registers a new empty ward.
func (m *Manager) AddWard(id, name string) (Summary, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Summary{}, fmt.Errorf("%w: ward id is required", ErrValidation)
	}
	if name == "" {
		return Summary{}, fmt.Errorf("%w: ward name is required", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.wards[id]; exists {
		return Summary{}, fmt.Errorf("%w: ward %q already exists", ErrValidation, id)
	}
	w := &wardState{id: id, name: name, updatedAt: m.now()}
	m.wards[id] = w
	m.order = append(m.order, id)
	return m.summaryLocked(w), nil
}

// Wards lists all wards in registration order.
func (m *Manager) Wards() []Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Summary, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.summaryLocked(m.wards[id]))
	}
	return out
}

// Ward returns a full snapshot of one ward, beds included.
func (m *Manager) Ward(wardID string) (Detail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wards[wardID]
	if !ok {
		return Detail{}, fmt.Errorf("%w: %s", ErrWardNotFound, wardID)
	}
	d := Detail{Summary: m.summaryLocked(w), Beds: make([]Bed, 0, len(w.beds))}
	for _, b := range w.beds {
		d.Beds = append(d.Beds, b.clone())
	}
	return d, nil
}

// AddBed appends a new empty bed. The display number is the ward prefix
// (first three characters of the ward id, uppercased) followed by the
// bed sequence zero-padded to two digits: ward "icu" -> ICU01, ICU02, ...
func (m *Manager) AddBed(wardID string) (Bed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wards[wardID]
	if !ok {
		return Bed{}, fmt.Errorf("%w: %s", ErrWardNotFound, wardID)
	}

	seq := len(w.beds) + 1
	prefix := strings.ToUpper(w.id)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	b := &Bed{
		ID:     fmt.Sprintf("%s-%d", w.id, seq),
		Number: fmt.Sprintf("%s%02d", prefix, seq),
		Status: StatusEmpty,
	}
	w.beds = append(w.beds, b)
	w.updatedAt = m.now()
	return b.clone(), nil
}

// RemoveBed removes the last bed in insertion order. Removing an occupied bed
// requires force; with force the patient is discharged as part of removal.
func (m *Manager) RemoveBed(wardID string, force bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wards[wardID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWardNotFound, wardID)
	}
	if len(w.beds) == 0 {
		return fmt.Errorf("%w: ward %s has no beds", ErrBedNotFound, wardID)
	}

	last := w.beds[len(w.beds)-1]
	if last.Status == StatusOccupied && !force {
		return fmt.Errorf("%w: bed %s is occupied", ErrConfirmationRequired, last.Number)
	}

	last.Patient = nil
	w.beds = w.beds[:len(w.beds)-1]
	w.updatedAt = m.now()
	return nil
}

// AdmitPatient places a patient into an empty bed. The draft must carry a
// name, a non-negative age, gender, contact, and an assigned doctor; the
// admission date defaults to now. The patient receives a fresh identifier.
func (m *Manager) AdmitPatient(wardID, bedID string, draft PatientDraft) (Patient, error) {
	if err := validateDraft(draft); err != nil {
		return Patient{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bedLocked(wardID, bedID)
	if err != nil {
		return Patient{}, err
	}
	if b.Status != StatusEmpty {
		return Patient{}, fmt.Errorf("%w: bed %s is %s", ErrInvalidBedState, b.Number, b.Status)
	}

	admitted := m.now()
	if draft.AdmissionDate != nil {
		admitted = *draft.AdmissionDate
	}
	p := &Patient{
		ID:               uuid.New(),
		Name:             draft.Name,
		Age:              draft.Age,
		Gender:           draft.Gender,
		Contact:          draft.Contact,
		Address:          draft.Address,
		NationalID:       draft.NationalID,
		Diagnosis:        draft.Diagnosis,
		Doctor:           draft.Doctor,
		AdmissionDate:    admitted,
		EmergencyContact: draft.EmergencyContact,
	}
	b.Status = StatusOccupied
	b.Patient = p
	m.wards[wardID].updatedAt = m.now()
	return *p, nil
}

// DischargePatient empties an occupied bed and discards its patient record.
// A second discharge of the same bed fails; callers rely on the error to
// detect already-discharged beds.
func (m *Manager) DischargePatient(wardID, bedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bedLocked(wardID, bedID)
	if err != nil {
		return err
	}
	if b.Status != StatusOccupied {
		return fmt.Errorf("%w: bed %s is %s", ErrInvalidBedState, b.Number, b.Status)
	}

	b.Status = StatusEmpty
	b.Patient = nil
	m.wards[wardID].updatedAt = m.now()
	return nil
}

// UpdatePatient merges the patch into the admitted patient. The patch is
// applied wholesale or not at all.
func (m *Manager) UpdatePatient(wardID, bedID string, patch PatientPatch) (Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bedLocked(wardID, bedID)
	if err != nil {
		return Patient{}, err
	}
	if b.Status != StatusOccupied {
		return Patient{}, fmt.Errorf("%w: bed %s is %s", ErrInvalidBedState, b.Number, b.Status)
	}

	p := b.Patient
	if patch.ID != nil && *patch.ID != p.ID {
		return Patient{}, fmt.Errorf("%w: patient id", ErrImmutableField)
	}
	if patch.AdmissionDate != nil && !patch.AdmissionDate.Equal(p.AdmissionDate) {
		return Patient{}, fmt.Errorf("%w: admission date", ErrImmutableField)
	}

	// Validate before touching the record so a failed patch leaves it intact.
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return Patient{}, fmt.Errorf("%w: name cannot be blank", ErrValidation)
	}
	if patch.Age != nil && *patch.Age < 0 {
		return Patient{}, fmt.Errorf("%w: age must be >= 0", ErrValidation)
	}
	if patch.Gender != nil && *patch.Gender == "" {
		return Patient{}, fmt.Errorf("%w: gender cannot be blank", ErrValidation)
	}
	if patch.Contact != nil && *patch.Contact == "" {
		return Patient{}, fmt.Errorf("%w: contact cannot be blank", ErrValidation)
	}
	if patch.Doctor != nil && *patch.Doctor == "" {
		return Patient{}, fmt.Errorf("%w: doctor cannot be blank", ErrValidation)
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Age != nil {
		p.Age = *patch.Age
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.Contact != nil {
		p.Contact = *patch.Contact
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.NationalID != nil {
		p.NationalID = *patch.NationalID
	}
	if patch.Diagnosis != nil {
		p.Diagnosis = *patch.Diagnosis
	}
	if patch.Doctor != nil {
		p.Doctor = *patch.Doctor
	}
	if patch.EmergencyContact != nil {
		p.EmergencyContact = *patch.EmergencyContact
	}
	m.wards[wardID].updatedAt = m.now()
	return *p, nil
}

// HoldBed moves an empty or held bed into an administrative hold state
// (reserved, cleaning, or maintenance). Held beds are not admission eligible.
func (m *Manager) HoldBed(wardID, bedID string, status BedStatus) error {
	if !holdStatuses[status] {
		return fmt.Errorf("%w: %q is not a hold status", ErrValidation, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bedLocked(wardID, bedID)
	if err != nil {
		return err
	}
	if b.Status != StatusEmpty && !holdStatuses[b.Status] {
		return fmt.Errorf("%w: bed %s is %s", ErrInvalidBedState, b.Number, b.Status)
	}
	b.Status = status
	m.wards[wardID].updatedAt = m.now()
	return nil
}

// ReleaseBed resets a held bed back to empty.
func (m *Manager) ReleaseBed(wardID, bedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bedLocked(wardID, bedID)
	if err != nil {
		return err
	}
	if !holdStatuses[b.Status] {
		return fmt.Errorf("%w: bed %s is %s", ErrInvalidBedState, b.Number, b.Status)
	}
	b.Status = StatusEmpty
	m.wards[wardID].updatedAt = m.now()
	return nil
}

// OccupancyRate returns round(occupied/total*100) for a ward, 0 when the
// ward has no beds.
func (m *Manager) OccupancyRate(wardID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wards[wardID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrWardNotFound, wardID)
	}
	return occupancyRate(w.counts()), nil
}

// LowAvailabilityWards lists wards whose free-bed count is at or below the
// threshold. A threshold < 0 selects the manager's configured default.
func (m *Manager) LowAvailabilityWards(threshold int) []Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	if threshold < 0 {
		threshold = m.lowAvailThreshold
	}
	var out []Summary
	for _, id := range m.order {
		w := m.wards[id]
		if w.counts().Available <= threshold {
			out = append(out, m.summaryLocked(w))
		}
	}
	return out
}

// Totals aggregates counts across every ward.
func (m *Manager) Totals() Counts {
	m.mu.Lock()
	defer m.mu.Unlock()

	var t Counts
	for _, w := range m.wards {
		c := w.counts()
		t.Total += c.Total
		t.Occupied += c.Occupied
		t.Available += c.Available
		t.Reserved += c.Reserved
		t.Cleaning += c.Cleaning
		t.Maintenance += c.Maintenance
	}
	return t
}

func (m *Manager) bedLocked(wardID, bedID string) (*Bed, error) {
	w, ok := m.wards[wardID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWardNotFound, wardID)
	}
	for _, b := range w.beds {
		if b.ID == bedID {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in ward %s", ErrBedNotFound, bedID, wardID)
}

func (m *Manager) summaryLocked(w *wardState) Summary {
	c := w.counts()
	return Summary{
		ID:            w.id,
		Name:          w.name,
		Counts:        c,
		OccupancyRate: occupancyRate(c),
		UpdatedAt:     w.updatedAt,
	}
}

func occupancyRate(c Counts) int {
	if c.Total == 0 {
		return 0
	}
	return int(math.Round(float64(c.Occupied) / float64(c.Total) * 100))
}

func validateDraft(d PatientDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if d.Age < 0 {
		return fmt.Errorf("%w: age must be >= 0", ErrValidation)
	}
	if d.Gender == "" {
		return fmt.Errorf("%w: gender is required", ErrValidation)
	}
	if d.Contact == "" {
		return fmt.Errorf("%w: contact is required", ErrValidation)
	}
	if d.Doctor == "" {
		return fmt.Errorf("%w: assigned doctor is required", ErrValidation)
	}
	return nil
}
