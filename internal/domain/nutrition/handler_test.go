package nutrition

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/burnunit/emr/internal/domain/burns"
	"github.com/burnunit/emr/internal/domain/patient"
)

func newTestHandler() (*Handler, *echo.Echo, *patient.Patient, *mockCases) {
	svc, p, cases := newTestService()
	return NewHandler(svc), echo.New(), p, cases
}

func TestHandler_Create(t *testing.T) {
	h, e, p, _ := newTestHandler()
	body := `{"patient_id":"` + p.ID.String() + `","height_cm":175,"weight_kg":70}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Create(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusCreated { t.Errorf("expected 201, got %d", rec.Code) }
	if !strings.Contains(rec.Body.String(), `"bmi":22.9`) { t.Errorf("expected derived BMI in body, got %s", rec.Body.String()) }
	if !strings.Contains(rec.Body.String(), `"risk_band":"low"`) { t.Errorf("expected risk band in body, got %s", rec.Body.String()) }
}

func TestHandler_Create_CurreriTarget(t *testing.T) {
	h, e, p, cases := newTestHandler()
	bc := &burns.BurnCase{ID: uuid.New(), PatientID: p.ID, TBSAPct: 26}
	cases.store[bc.ID] = bc
	body := `{"patient_id":"` + p.ID.String() + `","burn_case_id":"` + bc.ID.String() + `","height_cm":175,"weight_kg":70}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Create(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if !strings.Contains(rec.Body.String(), `"calorie_target":2790`) { t.Errorf("expected Curreri target, got %s", rec.Body.String()) }
}

func TestHandler_Create_UnknownPatient(t *testing.T) {
	h, e, _, _ := newTestHandler()
	body := `{"patient_id":"` + uuid.New().String() + `","height_cm":175,"weight_kg":70}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Create(c); err == nil { t.Error("expected error for unknown patient") }
}

func TestHandler_DueScreens_BadTimestamp(t *testing.T) {
	h, e, _, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/?before=yesterday", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.DueScreens(c); err == nil { t.Error("expected error for bad timestamp") }
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e, _, _ := newTestHandler()
	h.RegisterRoutes(e.Group("/api/v1"))
	routePaths := make(map[string]bool)
	for _, r := range e.Routes() { routePaths[r.Method+":"+r.Path] = true }
	for _, path := range []string{
		"POST:/api/v1/nutrition-assessments",
		"GET:/api/v1/nutrition-assessments",
		"GET:/api/v1/nutrition-assessments/due",
		"GET:/api/v1/patients/:id/nutrition-assessments",
	} {
		if !routePaths[path] { t.Errorf("missing route: %s", path) }
	}
}
