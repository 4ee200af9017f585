package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arogya/arogya/internal/platform/retry"
)

func TestStaticProvider_Resolve(t *testing.T) {
	p := NewDemoProvider()
	rec, err := p.Resolve(context.Background(), "ABHA-1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Name != "Ravi Kulkarni" || rec.Age != 58 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if _, err := p.Resolve(context.Background(), "ABHA-9999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHTTPProvider_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/records/ABHA-1001" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Ravi Kulkarni","age":58,"gender":"male","contact":"+91-9812001001"}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, time.Second, 0)
	rec, err := p.Resolve(context.Background(), "ABHA-1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Name != "Ravi Kulkarni" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := p.Resolve(context.Background(), "ABHA-9999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHTTPProvider_Resolve_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, time.Second, 1)
	_, err := p.Resolve(context.Background(), "ABHA-1001")
	if !errors.Is(err, retry.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
