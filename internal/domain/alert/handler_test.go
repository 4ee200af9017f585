package alert

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type staticResolver struct {
	d *Dispatcher
}

func (r staticResolver) AlertDispatcher(facilityID string) (*Dispatcher, error) {
	if facilityID != "redcross" {
		return nil, fmt.Errorf("facility %q not found", facilityID)
	}
	return r.d, nil
}

func newHandlerServer(t *testing.T, sender *fakeSender) *echo.Echo {
	t.Helper()
	e := echo.New()
	NewHandler(staticResolver{d: newTestDispatcher(sender)}).RegisterRoutes(e.Group("/api"))
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Dispatch(t *testing.T) {
	e := newHandlerServer(t, &fakeSender{deliverAll: true})

	rec := postJSON(e, "/api/facilities/redcross/alerts",
		`{"facility":"Red Cross Blood Bank","group":"O-","radius_km":5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var r Record
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Outcome != OutcomeSent || r.Delivered != 200 {
		t.Fatalf("unexpected record: %+v", r)
	}

	rec = postJSON(e, "/api/facilities/redcross/alerts",
		`{"facility":"Red Cross Blood Bank","group":"O-","radius_km":50}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range radius: status = %d, want 400", rec.Code)
	}
}

func TestHandler_Dispatch_GatewayFailure(t *testing.T) {
	e := newHandlerServer(t, &fakeSender{err: fmt.Errorf("gateway down")})

	rec := postJSON(e, "/api/facilities/redcross/alerts",
		`{"facility":"Red Cross Blood Bank","group":"A+","radius_km":5}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var r Record
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Outcome != OutcomeFailed {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestHandler_HistoryAndEstimate(t *testing.T) {
	e := newHandlerServer(t, &fakeSender{deliverAll: true})

	rec := postJSON(e, "/api/facilities/redcross/alerts",
		`{"facility":"Red Cross Blood Bank","group":"O+","radius_km":5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/facilities/redcross/alerts", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var page struct {
		Data  []Record `json:"data"`
		Total int      `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Data) != 1 {
		t.Fatalf("expected 1 record, got %+v", page)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/facilities/redcross/alerts/estimate?group=O%2B&radius_km=5", nil)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var est map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &est); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est["estimated"] != 600 {
		t.Fatalf("estimated = %d, want 600", est["estimated"])
	}

	req = httptest.NewRequest(http.MethodGet, "/api/facilities/redcross/alerts/estimate?group=O%2B&radius_km=abc", nil)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad radius: status = %d, want 400", w.Code)
	}
}

func TestHandler_UnknownFacility(t *testing.T) {
	e := newHandlerServer(t, &fakeSender{deliverAll: true})
	req := httptest.NewRequest(http.MethodGet, "/api/facilities/ghost/alerts", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
