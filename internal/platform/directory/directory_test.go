package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arogya/arogya/internal/platform/retry"
)

func TestStaticDirectory_Search(t *testing.T) {
	d := NewDemoDirectory()

	all, err := d.Search(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(all))
	}

	hospitals, _ := d.Search(context.Background(), Filter{Kind: KindHospital, City: "Pune"})
	if len(hospitals) != 2 {
		t.Fatalf("expected 2 Pune hospitals, got %+v", hospitals)
	}

	withBeds, _ := d.Search(context.Background(), Filter{Kind: KindHospital, MinBeds: 5})
	if len(withBeds) != 1 || withBeds[0].ID != "citygen" {
		t.Fatalf("expected only citygen with 5+ beds, got %+v", withBeds)
	}

	near, _ := d.Search(context.Background(), Filter{MaxDistanceKm: 5})
	if len(near) != 2 {
		t.Fatalf("expected 2 entries within 5 km, got %+v", near)
	}

	vented, _ := d.Search(context.Background(), Filter{Resources: []string{"ventilator"}})
	if len(vented) != 1 || vented[0].ID != "citygen" {
		t.Fatalf("expected only citygen with a ventilator, got %+v", vented)
	}
	if vented[0].ETAMinutes != 15 || vented[0].DistanceKm != 4.2 {
		t.Fatalf("entry should carry distance and eta: %+v", vented[0])
	}

	none, _ := d.Search(context.Background(), Filter{Resources: []string{"ventilator", "isolation_bed"}})
	if len(none) != 0 {
		t.Fatalf("no facility has both tags, got %+v", none)
	}
}

func TestHTTPDirectory_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/facilities" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("kind"); got != "hospital" {
			t.Errorf("kind = %q, want hospital", got)
		}
		if got := r.URL.Query().Get("min_beds"); got != "2" {
			t.Errorf("min_beds = %q, want 2", got)
		}
		if got := r.URL.Query().Get("max_distance_km"); got != "10" {
			t.Errorf("max_distance_km = %q, want 10", got)
		}
		if got := r.URL.Query().Get("resources"); got != "icu_bed,ventilator" {
			t.Errorf("resources = %q, want icu_bed,ventilator", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"citygen","name":"City General Hospital","kind":"hospital","available_beds":12}]`))
	}))
	defer srv.Close()

	d := NewHTTPDirectory(srv.URL, time.Second, 0)
	entries, err := d.Search(context.Background(), Filter{
		Kind:          KindHospital,
		MinBeds:       2,
		MaxDistanceKm: 10,
		Resources:     []string{"icu_bed", "ventilator"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "citygen" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestHTTPDirectory_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewHTTPDirectory(srv.URL, time.Second, 1)
	if _, err := d.Search(context.Background(), Filter{}); !errors.Is(err, retry.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
