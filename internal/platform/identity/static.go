package identity

import "context"

// StaticProvider serves records from a fixed in-memory table. It backs
// demo deployments and tests where no registry endpoint exists.
type StaticProvider struct {
	records map[string]Record
}

func NewStaticProvider(records map[string]Record) *StaticProvider {
	if records == nil {
		records = map[string]Record{}
	}
	return &StaticProvider{records: records}
}

// NewDemoProvider seeds a small registry used by the demo dataset.
func NewDemoProvider() *StaticProvider {
	return NewStaticProvider(map[string]Record{
		"ABHA-1001": {
			Name:             "Ravi Kulkarni",
			Age:              58,
			Gender:           "male",
			Contact:          "+91-9812001001",
			Address:          "14 MG Road, Pune",
			NationalID:       "ABHA-1001",
			EmergencyContact: "+91-9812001002",
		},
		"ABHA-1002": {
			Name:             "Meena Joshi",
			Age:              34,
			Gender:           "female",
			Contact:          "+91-9812002001",
			Address:          "7 Lake View, Nagpur",
			NationalID:       "ABHA-1002",
			EmergencyContact: "+91-9812002002",
		},
	})
}

func (p *StaticProvider) Resolve(_ context.Context, token string) (Record, error) {
	rec, ok := p.records[token]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}
