package woundcare

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

func TestHandler_CreateAssessment(t *testing.T) {
	h, e := newTestHandler()
	body := `{"patient_id":"` + uuid.New().String() + `","site":"left forearm","appearance":"sloughy","exudate_amount":"moderate","pain_score":6}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreateAssessment(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusCreated { t.Errorf("expected 201, got %d", rec.Code) }
}

func TestHandler_RecordDressingChange(t *testing.T) {
	h, e := newTestHandler()
	body := `{"patient_id":"` + uuid.New().String() + `","site":"left forearm","products":"silver foam"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.RecordDressingChange(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if !strings.Contains(rec.Body.String(), `"next_review_at"`) { t.Error("expected derived next_review_at in body") }
}

func TestHandler_DueReviews_BadTimestamp(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/?before=tomorrow", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.DueReviews(c); err == nil { t.Error("expected error") }
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e := newTestHandler()
	h.RegisterRoutes(e.Group("/api/v1"))
	routePaths := make(map[string]bool)
	for _, r := range e.Routes() { routePaths[r.Method+":"+r.Path] = true }
	for _, path := range []string{
		"POST:/api/v1/wound-assessments",
		"POST:/api/v1/dressing-changes",
		"GET:/api/v1/dressing-changes/due",
	} {
		if !routePaths[path] { t.Errorf("missing route: %s", path) }
	}
}
