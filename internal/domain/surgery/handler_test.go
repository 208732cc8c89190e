package surgery

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(newTestService())
	e := echo.New()
	return h, e
}

func TestHandler_CreateCase(t *testing.T) {
	h, e := newTestHandler()
	body := `{"patient_id":"` + uuid.New().String() + `","procedure":"debridement","scheduled_start":"2026-07-01T09:00:00Z","scheduled_end":"2026-07-01T11:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreateCase(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusCreated { t.Errorf("expected 201, got %d", rec.Code) }
}

func TestHandler_Transition(t *testing.T) {
	h, e := newTestHandler()
	tc := newTestCase(t, h.svc)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"pre-op"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(tc.ID.String())
	if err := h.Transition(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusOK { t.Errorf("expected 200, got %d", rec.Code) }
}

func TestHandler_AddSwabCount(t *testing.T) {
	h, e := newTestHandler()
	tc := newTestCase(t, h.svc)
	body := `{"item":"swabs","expected":10,"actual":9}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(tc.ID.String())
	if err := h.AddSwabCount(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if !strings.Contains(rec.Body.String(), `"correct":false`) { t.Errorf("expected derived correct=false, got %s", rec.Body.String()) }
}

func TestHandler_GetCase_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id"); c.SetParamValues(uuid.New().String())
	if err := h.GetCase(c); err == nil { t.Error("expected error") }
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e := newTestHandler()
	h.RegisterRoutes(e.Group("/api/v1"))
	routePaths := make(map[string]bool)
	for _, r := range e.Routes() { routePaths[r.Method+":"+r.Path] = true }
	for _, path := range []string{
		"POST:/api/v1/theatre-cases",
		"POST:/api/v1/theatre-cases/:id/transition",
		"POST:/api/v1/theatre-cases/:id/grafts",
		"POST:/api/v1/theatre-cases/:id/swab-counts",
		"GET:/api/v1/theatres",
	} {
		if !routePaths[path] { t.Errorf("missing route: %s", path) }
	}
}
