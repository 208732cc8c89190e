package encounter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	return h, e
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()
	body := `{"patient_id":"` + uuid.New().String() + `","class":"inpatient"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Create(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusCreated { t.Errorf("expected 201, got %d", rec.Code) }
}

func TestHandler_Transition(t *testing.T) {
	h, e := newTestHandler()
	enc := &Encounter{PatientID: uuid.New(), Class: "inpatient"}
	h.svc.Create(nil, enc)
	body := `{"status":"in-progress"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(enc.ID.String())
	if err := h.Transition(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusOK { t.Errorf("expected 200, got %d", rec.Code) }
}

func TestHandler_Transition_MissingStatus(t *testing.T) {
	h, e := newTestHandler()
	enc := &Encounter{PatientID: uuid.New(), Class: "inpatient"}
	h.svc.Create(nil, enc)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(enc.ID.String())
	if err := h.Transition(c); err == nil { t.Error("expected error") }
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(uuid.New().String())
	if err := h.Get(c); err == nil { t.Error("expected error") }
}

func TestHandler_List(t *testing.T) {
	h, e := newTestHandler()
	h.svc.Create(nil, &Encounter{PatientID: uuid.New(), Class: "emergency"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.List(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusOK { t.Errorf("expected 200, got %d", rec.Code) }
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e := newTestHandler()
	h.RegisterRoutes(e.Group("/api/v1"))
	routePaths := make(map[string]bool)
	for _, r := range e.Routes() { routePaths[r.Method+":"+r.Path] = true }
	for _, path := range []string{"POST:/api/v1/encounters", "GET:/api/v1/encounters/:id", "POST:/api/v1/encounters/:id/transition"} {
		if !routePaths[path] { t.Errorf("missing route: %s", path) }
	}
}
