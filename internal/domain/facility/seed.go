package facility

import (
	"fmt"
	"time"

	"github.com/arogya/arogya/internal/domain/supply"
)

// SeedDemo loads a small dataset so a fresh deployment has something to
// show: one hospital with the usual ward mix and one blood bank with a
// few lots on the shelf.
func (r *Registry) SeedDemo() error {
	if _, err := r.Register(Draft{
		ID: "apollo", Name: "Apollo Multispeciality Hospital",
		Kind: KindHospital, City: "Pune", Contact: "+91-2026110000",
	}); err != nil {
		return fmt.Errorf("seed hospital: %w", err)
	}
	if _, err := r.Register(Draft{
		ID: "redcross", Name: "Red Cross Blood Bank",
		Kind: KindBloodBank, City: "Pune", Contact: "+91-2026140000",
	}); err != nil {
		return fmt.Errorf("seed blood bank: %w", err)
	}

	wards, err := r.WardManager("apollo")
	if err != nil {
		return err
	}
	seedWards := []struct {
		id, name string
		beds     int
	}{
		{"general", "General Ward", 12},
		{"icu", "Intensive Care Unit", 6},
		{"emergency", "Emergency Ward", 8},
		{"surgical", "Surgical Ward", 6},
		{"maternity", "Maternity Ward", 6},
		{"pediatric", "Pediatric Ward", 8},
	}
	for _, w := range seedWards {
		if _, err := wards.AddWard(w.id, w.name); err != nil {
			return fmt.Errorf("seed ward %s: %w", w.id, err)
		}
		for i := 0; i < w.beds; i++ {
			if _, err := wards.AddBed(w.id); err != nil {
				return fmt.Errorf("seed ward %s: %w", w.id, err)
			}
		}
	}

	bank, err := r.BloodManager("redcross")
	if err != nil {
		return err
	}
	now := time.Now()
	seedLots := []struct {
		group string
		units int
		days  int
	}{
		{"A+", 18, 28},
		{"A-", 6, 21},
		{"B-", 4, 14},
		{"O+", 30, 35},
	}
	for _, l := range seedLots {
		expiry := now.Add(time.Duration(l.days) * 24 * time.Hour)
		if _, err := bank.AddStock(l.group, l.units, expiry); err != nil {
			return fmt.Errorf("seed lot %s: %w", l.group, err)
		}
	}

	supplies, err := r.SupplyManager("apollo")
	if err != nil {
		return err
	}
	if _, err := supplies.AddConsumable(supplyDraft("Nitrile Gloves", "ppe", "box", 120, 30)); err != nil {
		return err
	}
	if _, err := supplies.AddConsumable(supplyDraft("IV Fluid 500ml", "fluids", "bag", 80, 25)); err != nil {
		return err
	}
	if _, err := supplies.AddEquipment("Ventilator", 4); err != nil {
		return err
	}
	if _, err := supplies.AddEquipment("Infusion Pump", 10); err != nil {
		return err
	}
	return nil
}

func supplyDraft(name, category, unit string, qty, threshold int) supply.ConsumableDraft {
	return supply.ConsumableDraft{
		Name:             name,
		Category:         category,
		Unit:             unit,
		Quantity:         qty,
		ReorderThreshold: threshold,
		AutoReorder:      true,
	}
}
