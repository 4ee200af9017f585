package supply

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager tracks consumable stock and pooled equipment for one
// facility. All state lives behind the one mutex.
type Manager struct {
	mu          sync.Mutex
	consumables map[string]*Consumable
	equipment   map[string]*Equipment
	consOrder   []string
	equipOrder  []string
	reorders    []Reorder
	now         func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		consumables: map[string]*Consumable{},
		equipment:   map[string]*Equipment{},
		now:         time.Now,
	}
}

// SetClock replaces the time source for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// AddConsumable registers a new supply line.
func (m *Manager) AddConsumable(d ConsumableDraft) (Consumable, error) {
	if d.Name == "" {
		return Consumable{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if d.Quantity < 0 || d.ReorderThreshold < 0 {
		return Consumable{}, fmt.Errorf("%w: quantity and threshold must be non-negative", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item := &Consumable{
		ID:               uuid.New().String(),
		Name:             d.Name,
		Category:         d.Category,
		Unit:             d.Unit,
		Quantity:         d.Quantity,
		ReorderThreshold: d.ReorderThreshold,
		AutoReorder:      d.AutoReorder,
	}
	m.consumables[item.ID] = item
	m.consOrder = append(m.consOrder, item.ID)
	return *item, nil
}

// Consumables lists supply lines in registration order.
func (m *Manager) Consumables() []Consumable {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Consumable, 0, len(m.consOrder))
	for _, id := range m.consOrder {
		out = append(out, *m.consumables[id])
	}
	return out
}

// Restock adds quantity to a supply line.
func (m *Manager) Restock(id string, qty int) (Consumable, error) {
	if qty <= 0 {
		return Consumable{}, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.consumables[id]
	if !ok {
		return Consumable{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	item.Quantity += qty
	return *item, nil
}

// Consume draws quantity from a supply line, all or nothing. Dropping
// to the reorder threshold on an auto-reorder item raises one open
// reorder for twice the threshold.
func (m *Manager) Consume(id string, qty int) (Consumable, error) {
	if qty <= 0 {
		return Consumable{}, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.consumables[id]
	if !ok {
		return Consumable{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if item.Quantity < qty {
		return Consumable{}, fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, item.Name, item.Quantity, qty)
	}

	wasAbove := item.Quantity > item.ReorderThreshold
	item.Quantity -= qty
	if item.AutoReorder && wasAbove && item.Quantity <= item.ReorderThreshold {
		m.reorders = append(m.reorders, Reorder{
			ID:        uuid.New().String(),
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  item.ReorderThreshold * 2,
			CreatedAt: m.now(),
		})
	}
	return *item, nil
}

// LowStock lists supply lines at or below their reorder threshold.
func (m *Manager) LowStock() []Consumable {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Consumable
	for _, id := range m.consOrder {
		if item := m.consumables[id]; item.Quantity <= item.ReorderThreshold {
			out = append(out, *item)
		}
	}
	return out
}

// Reorders lists open reorder requests, oldest first.
func (m *Manager) Reorders() []Reorder {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Reorder, len(m.reorders))
	copy(out, m.reorders)
	return out
}

// AddEquipment registers a pool with every unit available.
func (m *Manager) AddEquipment(name string, total int) (Equipment, error) {
	if name == "" {
		return Equipment{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if total <= 0 {
		return Equipment{}, fmt.Errorf("%w: total must be positive", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	eq := &Equipment{
		ID:        uuid.New().String(),
		Name:      name,
		Total:     total,
		Available: total,
	}
	m.equipment[eq.ID] = eq
	m.equipOrder = append(m.equipOrder, eq.ID)
	return *eq, nil
}

// Equipment lists pools in registration order.
func (m *Manager) Equipment() []Equipment {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Equipment, 0, len(m.equipOrder))
	for _, id := range m.equipOrder {
		out = append(out, *m.equipment[id])
	}
	return out
}

// CheckOut moves one available unit into use.
func (m *Manager) CheckOut(id string) (Equipment, error) {
	return m.move(id, func(eq *Equipment) error {
		if eq.Available == 0 {
			return fmt.Errorf("%w: no %s available", ErrInsufficientStock, eq.Name)
		}
		eq.Available--
		eq.InUse++
		return nil
	})
}

// Return moves one in-use unit back to available.
func (m *Manager) Return(id string) (Equipment, error) {
	return m.move(id, func(eq *Equipment) error {
		if eq.InUse == 0 {
			return fmt.Errorf("%w: no %s checked out", ErrValidation, eq.Name)
		}
		eq.InUse--
		eq.Available++
		return nil
	})
}

// StartMaintenance takes one available unit out of service.
func (m *Manager) StartMaintenance(id string) (Equipment, error) {
	return m.move(id, func(eq *Equipment) error {
		if eq.Available == 0 {
			return fmt.Errorf("%w: no %s available", ErrInsufficientStock, eq.Name)
		}
		eq.Available--
		eq.Maintenance++
		return nil
	})
}

// EndMaintenance returns one serviced unit to available.
func (m *Manager) EndMaintenance(id string) (Equipment, error) {
	return m.move(id, func(eq *Equipment) error {
		if eq.Maintenance == 0 {
			return fmt.Errorf("%w: no %s under maintenance", ErrValidation, eq.Name)
		}
		eq.Maintenance--
		eq.Available++
		return nil
	})
}

func (m *Manager) move(id string, apply func(*Equipment) error) (Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	eq, ok := m.equipment[id]
	if !ok {
		return Equipment{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if err := apply(eq); err != nil {
		return Equipment{}, err
	}
	return *eq, nil
}
