package directory

import "context"

// StaticDirectory serves listings from a fixed slice. Demo deployments
// and tests use it in place of the regional directory service.
type StaticDirectory struct {
	entries []Entry
}

func NewStaticDirectory(entries []Entry) *StaticDirectory {
	return &StaticDirectory{entries: entries}
}

// NewDemoDirectory seeds a handful of partner facilities.
func NewDemoDirectory() *StaticDirectory {
	return NewStaticDirectory([]Entry{
		{ID: "citygen", Name: "City General Hospital", Kind: KindHospital, City: "Pune", Contact: "+91-2026120000",
			AvailableBeds: 12, DistanceKm: 4.2, ETAMinutes: 15,
			Resources: map[string]int{"general_bed": 12, "icu_bed": 3, "ventilator": 2}},
		{ID: "lakeside", Name: "Lakeside Medical Centre", Kind: KindHospital, City: "Pune", Contact: "+91-2026130000",
			AvailableBeds: 3, DistanceKm: 7.8, ETAMinutes: 24,
			Resources: map[string]int{"general_bed": 3, "isolation_bed": 1}},
		{ID: "stmarys", Name: "St. Mary's Hospital", Kind: KindHospital, City: "Nagpur", Contact: "+91-7122440000",
			AvailableBeds: 0, DistanceKm: 48.5, ETAMinutes: 65,
			Resources: map[string]int{"icu_bed": 1}},
		{ID: "redcross", Name: "Red Cross Blood Bank", Kind: KindBloodBank, City: "Pune", Contact: "+91-2026140000",
			DistanceKm: 3.1, ETAMinutes: 12},
	})
}

func (d *StaticDirectory) Search(_ context.Context, f Filter) ([]Entry, error) {
	var out []Entry
	for _, e := range d.entries {
		if f.Kind != "" && e.Kind != f.Kind {
			continue
		}
		if f.City != "" && e.City != f.City {
			continue
		}
		if f.MinBeds > 0 && e.AvailableBeds < f.MinBeds {
			continue
		}
		if f.MaxDistanceKm > 0 && e.DistanceKm > f.MaxDistanceKm {
			continue
		}
		if !hasResources(e, f.Resources) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func hasResources(e Entry, tags []string) bool {
	for _, tag := range tags {
		if e.Resources[tag] <= 0 {
			return false
		}
	}
	return true
}
