package documents

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/burnunit/emr/internal/domain/burns"
	"github.com/burnunit/emr/internal/domain/patient"
	"github.com/burnunit/emr/pkg/burnscore"
)

type mockNotes struct{ store map[uuid.UUID]*ClinicalNote }

func (m *mockNotes) Create(_ context.Context, n *ClinicalNote) error {
	n.ID = uuid.New(); m.store[n.ID] = n; return nil
}
func (m *mockNotes) GetByID(_ context.Context, id uuid.UUID) (*ClinicalNote, error) {
	n, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; cp := *n; return &cp, nil
}
func (m *mockNotes) Update(_ context.Context, n *ClinicalNote) error {
	if _, ok := m.store[n.ID]; !ok { return fmt.Errorf("not found") }; m.store[n.ID] = n; return nil
}
func (m *mockNotes) Delete(_ context.Context, id uuid.UUID) error { delete(m.store, id); return nil }
func (m *mockNotes) Search(_ context.Context, params map[string]string, limit, offset int) ([]*ClinicalNote, int, error) {
	var r []*ClinicalNote; for _, n := range m.store { r = append(r, n) }; return r, len(r), nil
}

type mockTemplates struct{ store map[uuid.UUID]*DocumentTemplate }

func (m *mockTemplates) Create(_ context.Context, t *DocumentTemplate) error {
	t.ID = uuid.New(); m.store[t.ID] = t; return nil
}
func (m *mockTemplates) GetByID(_ context.Context, id uuid.UUID) (*DocumentTemplate, error) {
	t, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; cp := *t; return &cp, nil
}
func (m *mockTemplates) GetByName(_ context.Context, name string) (*DocumentTemplate, error) {
	for _, t := range m.store { if t.Name == name { cp := *t; return &cp, nil } }
	return nil, fmt.Errorf("not found")
}
func (m *mockTemplates) Update(_ context.Context, t *DocumentTemplate) error {
	if _, ok := m.store[t.ID]; !ok { return fmt.Errorf("not found") }; m.store[t.ID] = t; return nil
}
func (m *mockTemplates) Delete(_ context.Context, id uuid.UUID) error { delete(m.store, id); return nil }
func (m *mockTemplates) List(_ context.Context) ([]*DocumentTemplate, error) {
	var r []*DocumentTemplate; for _, t := range m.store { r = append(r, t) }; return r, nil
}

type mockRendered struct{ store map[uuid.UUID]*RenderedDocument }

func (m *mockRendered) Create(_ context.Context, d *RenderedDocument) error {
	d.ID = uuid.New(); m.store[d.ID] = d; return nil
}
func (m *mockRendered) GetByID(_ context.Context, id uuid.UUID) (*RenderedDocument, error) {
	d, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; cp := *d; return &cp, nil
}
func (m *mockRendered) ListByPatient(_ context.Context, pid uuid.UUID) ([]*RenderedDocument, error) {
	var r []*RenderedDocument; for _, d := range m.store { if d.PatientID == pid { r = append(r, d) } }; return r, nil
}

type mockPatients struct{ store map[uuid.UUID]*patient.Patient }

func (m *mockPatients) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; return p, nil
}

type mockCaseSource struct {
	bc         *burns.BurnCase
	assessment *burns.AssessmentResult
}

func (m *mockCaseSource) GetCase(_ context.Context, id uuid.UUID) (*burns.BurnCase, error) {
	if m.bc == nil || m.bc.ID != id { return nil, fmt.Errorf("not found") }; cp := *m.bc; return &cp, nil
}
func (m *mockCaseSource) Assessment(_ context.Context, id uuid.UUID) (*burns.AssessmentResult, error) {
	if m.assessment == nil || m.assessment.CaseID != id { return nil, fmt.Errorf("not found") }
	return m.assessment, nil
}

func newTestService() (*Service, *patient.Patient, *mockCaseSource) {
	p := &patient.Patient{
		ID:         uuid.New(),
		MRN:        "MRN-3001",
		GivenName:  "June",
		FamilyName: "Okafor",
		BirthDate:  time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC),
		Gender:     "female",
	}
	patients := &mockPatients{store: map[uuid.UUID]*patient.Patient{p.ID: p}}
	cases := &mockCaseSource{}
	svc := NewService(
		&mockNotes{store: make(map[uuid.UUID]*ClinicalNote)},
		&mockTemplates{store: make(map[uuid.UUID]*DocumentTemplate)},
		&mockRendered{store: make(map[uuid.UUID]*RenderedDocument)},
		patients, cases)
	return svc, p, cases
}

func newTestNote(t *testing.T, svc *Service, p *patient.Patient) *ClinicalNote {
	t.Helper()
	n := &ClinicalNote{PatientID: p.ID, Author: "Dr Achebe", Type: NoteProgress, Title: "day 2", Body: "dressings intact, afebrile"}
	if err := svc.CreateNote(context.Background(), n); err != nil {
		t.Fatalf("create note: %v", err)
	}
	return n
}

func TestCreateNote_Defaults(t *testing.T) {
	svc, p, _ := newTestService()
	n := newTestNote(t, svc, p)
	if n.Status != StatusDraft {
		t.Errorf("expected draft, got %q", n.Status)
	}
	if n.Version != 1 {
		t.Errorf("expected version 1, got %d", n.Version)
	}
}

func TestCreateNote_Validation(t *testing.T) {
	svc, p, _ := newTestService()
	tests := []struct {
		name string
		n    *ClinicalNote
	}{
		{"missing patient", &ClinicalNote{Author: "a", Type: NoteProgress, Body: "b"}},
		{"unknown patient", &ClinicalNote{PatientID: uuid.New(), Author: "a", Type: NoteProgress, Body: "b"}},
		{"missing author", &ClinicalNote{PatientID: p.ID, Type: NoteProgress, Body: "b"}},
		{"bad type", &ClinicalNote{PatientID: p.ID, Author: "a", Type: "haiku", Body: "b"}},
		{"empty body", &ClinicalNote{PatientID: p.ID, Author: "a", Type: NoteProgress}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.CreateNote(context.Background(), tt.n); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFinalizeNote_LocksEdits(t *testing.T) {
	svc, p, _ := newTestService()
	n := newTestNote(t, svc, p)
	got, err := svc.FinalizeNote(context.Background(), n.ID, time.Now())
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if got.Status != StatusFinal || got.FinalizedAt == nil {
		t.Errorf("expected final with timestamp, got %q", got.Status)
	}
	upd := *got
	upd.Body = "sneaky edit"
	if err := svc.UpdateNote(context.Background(), &upd); err == nil {
		t.Fatal("expected error: final note not editable")
	}
	if err := svc.DeleteNote(context.Background(), n.ID); err == nil {
		t.Fatal("expected error: final note not deletable")
	}
	if _, err := svc.FinalizeNote(context.Background(), n.ID, time.Now()); err == nil {
		t.Fatal("expected error: already final")
	}
}

func TestAmendNote(t *testing.T) {
	svc, p, _ := newTestService()
	n := newTestNote(t, svc, p)
	if _, err := svc.AmendNote(context.Background(), n.ID, "new text", "typo", time.Now()); err == nil {
		t.Fatal("expected error: draft cannot be amended")
	}
	if _, err := svc.FinalizeNote(context.Background(), n.ID, time.Now()); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, err := svc.AmendNote(context.Background(), n.ID, "new text", "", time.Now()); err == nil {
		t.Fatal("expected error: amendment needs a reason")
	}
	got, err := svc.AmendNote(context.Background(), n.ID, "dressings intact, febrile overnight", "omitted overnight observation", time.Now())
	if err != nil {
		t.Fatalf("amend: %v", err)
	}
	if got.Status != StatusAmended || got.Version != 2 {
		t.Errorf("expected amended v2, got %s v%d", got.Status, got.Version)
	}
	if got.PriorBody == nil || *got.PriorBody != "dressings intact, afebrile" {
		t.Errorf("expected prior body preserved, got %v", got.PriorBody)
	}
	again, err := svc.AmendNote(context.Background(), n.ID, "third version", "correction", time.Now())
	if err != nil {
		t.Fatalf("re-amend: %v", err)
	}
	if again.Version != 3 || *again.PriorBody != "dressings intact, febrile overnight" {
		t.Errorf("expected v3 with previous body, got v%d", again.Version)
	}
}

func TestCreateTemplate_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ok := &DocumentTemplate{Name: "burn-summary", Kind: KindBurnSummary, Body: DefaultBurnSummaryBody}
	if err := svc.CreateTemplate(context.Background(), ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.CreateTemplate(context.Background(), &DocumentTemplate{Name: "burn-summary", Kind: KindBurnSummary, Body: "x"}); err == nil {
		t.Error("expected error: duplicate name")
	}
	if err := svc.CreateTemplate(context.Background(), &DocumentTemplate{Name: "bad", Kind: "poem", Body: "x"}); err == nil {
		t.Error("expected error: invalid kind")
	}
	if err := svc.CreateTemplate(context.Background(), &DocumentTemplate{Name: "broken", Kind: KindBurnSummary, Body: "{{.Unclosed"}); err == nil {
		t.Error("expected error: body does not parse")
	}
}

func TestRender_BurnSummary(t *testing.T) {
	svc, p, cases := newTestService()
	caseID := uuid.New()
	cases.bc = &burns.BurnCase{ID: caseID, PatientID: p.ID, Mechanism: "flame", Status: "active", TBSAPct: 26}
	cases.assessment = &burns.AssessmentResult{
		CaseID:           caseID,
		TBSAPct:          26,
		Baux:             67,
		RevisedBaux:      84,
		ABSI:             burnscore.ABSIResult{Score: 8, Band: "serious"},
		CurreriKcalDay:   2790,
		FullThickness:    true,
		AgeYearsAtInjury: 41,
	}
	tpl := &DocumentTemplate{Name: "burn-summary", Kind: KindBurnSummary, Body: DefaultBurnSummaryBody}
	if err := svc.CreateTemplate(context.Background(), tpl); err != nil {
		t.Fatalf("create template: %v", err)
	}
	doc, err := svc.Render(context.Background(), "burn-summary", caseID, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"June Okafor (MRN MRN-3001)",
		"TBSA: 26.0%",
		"Baux: 67  Revised Baux: 84",
		"Estimated caloric need: 2790 kcal/day",
		"Full-thickness involvement present.",
	} {
		if !strings.Contains(doc.Text, want) {
			t.Errorf("rendered text missing %q:\n%s", want, doc.Text)
		}
	}
	if doc.Kind != KindBurnSummary {
		t.Errorf("expected kind %s, got %s", KindBurnSummary, doc.Kind)
	}
	if !strings.Contains(string(doc.Context), `"tbsa_pct":26`) {
		t.Errorf("expected structured context, got %s", doc.Context)
	}
	docs, err := svc.ListDocuments(context.Background(), p.ID)
	if err != nil || len(docs) != 1 {
		t.Errorf("expected one stored document, got %d (%v)", len(docs), err)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Render(context.Background(), "nope", uuid.New(), nil); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusDraft, StatusFinal, true},
		{StatusFinal, StatusAmended, true},
		{StatusAmended, StatusAmended, true},
		{StatusDraft, StatusAmended, false},
		{StatusFinal, StatusDraft, false},
		{StatusAmended, StatusFinal, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
