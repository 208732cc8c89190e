package burns

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/burnunit/emr/internal/domain/patient"
)

func newTestHandler(t *testing.T) (*Handler, *echo.Echo, *patient.Patient) {
	t.Helper()
	svc, _, p := newTestService()
	h := NewHandler(svc, nil)
	e := echo.New()
	return h, e, p
}

func TestHandler_Create(t *testing.T) {
	h, e, p := newTestHandler(t)
	body := `{"patient_id":"` + p.ID.String() + `","injury_time":"2026-06-01T10:00:00Z","mechanism":"flame","weight_kg":70}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Create(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusCreated { t.Errorf("expected 201, got %d", rec.Code) }
}

func TestHandler_Create_InvalidMechanism(t *testing.T) {
	h, e, p := newTestHandler(t)
	body := `{"patient_id":"` + p.ID.String() + `","injury_time":"2026-06-01T10:00:00Z","mechanism":"meteor"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Create(c); err == nil { t.Error("expected error") }
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, e, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(uuid.New().String())
	if err := h.Get(c); err == nil { t.Error("expected error") }
}

func TestHandler_ReplaceRegions(t *testing.T) {
	h, e, p := newTestHandler(t)
	bc := newTestCase(t, h.svc, p)
	body := `{"regions":[{"region":"anterior_trunk","depth":"full","fraction":1}]}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(bc.ID.String())
	if err := h.ReplaceRegions(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusOK { t.Errorf("expected 200, got %d", rec.Code) }
	if !strings.Contains(rec.Body.String(), `"tbsa_pct":13`) { t.Errorf("expected updated tbsa in body, got %s", rec.Body.String()) }
}

func TestHandler_Assessment(t *testing.T) {
	h, e, p := newTestHandler(t)
	bc := newTestCase(t, h.svc, p)
	if _, err := h.svc.ReplaceRegions(nil, bc.ID, []*RegionRecord{
		{Region: "anterior_trunk", Depth: "full", Fraction: 1},
	}); err != nil { t.Fatalf("replace regions: %v", err) }
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(bc.ID.String())
	if err := h.Assessment(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusOK { t.Errorf("expected 200, got %d", rec.Code) }
	for _, field := range []string{`"tbsa_pct"`, `"baux"`, `"revised_baux"`, `"absi"`, `"curreri_kcal_day"`} {
		if !strings.Contains(rec.Body.String(), field) { t.Errorf("missing %s in assessment body", field) }
	}
}

func TestHandler_FluidPlan(t *testing.T) {
	h, e, p := newTestHandler(t)
	bc := newTestCase(t, h.svc, p)
	if _, err := h.svc.ReplaceRegions(nil, bc.ID, []*RegionRecord{
		{Region: "anterior_trunk", Depth: "full", Fraction: 1},
		{Region: "posterior_trunk", Depth: "full", Fraction: 1},
	}); err != nil { t.Fatalf("replace regions: %v", err) }
	at := injuryTime.Add(2 * time.Hour).Format(time.RFC3339)
	req := httptest.NewRequest(http.MethodGet, "/?at="+at, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(bc.ID.String())
	if err := h.FluidPlan(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if !strings.Contains(rec.Body.String(), `"indicated":true`) { t.Errorf("expected indicated plan, got %s", rec.Body.String()) }
}

func TestHandler_FluidPlan_BadTimestamp(t *testing.T) {
	h, e, p := newTestHandler(t)
	bc := newTestCase(t, h.svc, p)
	req := httptest.NewRequest(http.MethodGet, "/?at=yesterday", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(bc.ID.String())
	if err := h.FluidPlan(c); err == nil { t.Error("expected error") }
}

func TestHandler_AddVitals(t *testing.T) {
	h, e, p := newTestHandler(t)
	bc := newTestCase(t, h.svc, p)
	body := `{"recorded_at":"2026-06-01T12:00:00Z","heart_rate":110,"systolic_bp":120,"diastolic_bp":80,"spo2":97,"temp_c":37.2}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(bc.ID.String())
	if err := h.AddVitals(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusCreated { t.Errorf("expected 201, got %d", rec.Code) }
}

func TestHandler_Alerts(t *testing.T) {
	h, e, p := newTestHandler(t)
	bc := newTestCase(t, h.svc, p)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(bc.ID.String())
	if err := h.Alerts(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusOK { t.Errorf("expected 200, got %d", rec.Code) }
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e, _ := newTestHandler(t)
	h.RegisterRoutes(e.Group("/api/v1"))
	routePaths := make(map[string]bool)
	for _, r := range e.Routes() { routePaths[r.Method+":"+r.Path] = true }
	for _, path := range []string{
		"POST:/api/v1/burn-cases",
		"PUT:/api/v1/burn-cases/:id/regions",
		"GET:/api/v1/burn-cases/:id/assessment",
		"GET:/api/v1/burn-cases/:id/fluid-plan",
		"GET:/api/v1/burn-cases/:id/alerts",
		"POST:/api/v1/burn-cases/:id/vitals",
		"POST:/api/v1/burn-cases/:id/fluids",
	} {
		if !routePaths[path] { t.Errorf("missing route: %s", path) }
	}
}
