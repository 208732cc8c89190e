package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/burnunit/emr/internal/domain/burns"
	"github.com/burnunit/emr/internal/domain/patient"
)

// PatientLookup is the slice of the patient repository the service needs.
type PatientLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// CaseSource supplies the stored case data summaries are rendered from.
// The burns service satisfies it.
type CaseSource interface {
	GetCase(ctx context.Context, id uuid.UUID) (*burns.BurnCase, error)
	Assessment(ctx context.Context, caseID uuid.UUID) (*burns.AssessmentResult, error)
}

type Service struct {
	notes     NoteRepository
	templates TemplateRepository
	rendered  RenderedRepository
	patients  PatientLookup
	cases     CaseSource
}

func NewService(notes NoteRepository, templates TemplateRepository, rendered RenderedRepository, patients PatientLookup, cases CaseSource) *Service {
	return &Service{notes: notes, templates: templates, rendered: rendered, patients: patients, cases: cases}
}

var validNoteTypes = map[string]bool{
	NoteProgress: true, NoteWardRound: true, NoteOperative: true,
	NoteDischarge: true, NoteNursing: true,
}

func (s *Service) CreateNote(ctx context.Context, n *ClinicalNote) error {
	if n.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if _, err := s.patients.GetByID(ctx, n.PatientID); err != nil {
		return fmt.Errorf("patient not found: %w", err)
	}
	if n.Author == "" {
		return fmt.Errorf("author is required")
	}
	if !validNoteTypes[n.Type] {
		return fmt.Errorf("invalid note type: %s", n.Type)
	}
	if n.Body == "" {
		return fmt.Errorf("body is required")
	}
	n.Status = StatusDraft
	n.Version = 1
	return s.notes.Create(ctx, n)
}

func (s *Service) GetNote(ctx context.Context, id uuid.UUID) (*ClinicalNote, error) {
	return s.notes.GetByID(ctx, id)
}

// UpdateNote edits a draft in place. Finalized notes only change through
// amendment.
func (s *Service) UpdateNote(ctx context.Context, n *ClinicalNote) error {
	existing, err := s.notes.GetByID(ctx, n.ID)
	if err != nil {
		return fmt.Errorf("note not found: %w", err)
	}
	if existing.Status != StatusDraft {
		return fmt.Errorf("a %s note can only change through amendment", existing.Status)
	}
	if n.Body == "" {
		return fmt.Errorf("body is required")
	}
	n.Status = existing.Status
	n.Version = existing.Version
	return s.notes.Update(ctx, n)
}

func (s *Service) DeleteNote(ctx context.Context, id uuid.UUID) error {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("note not found: %w", err)
	}
	if n.Status != StatusDraft {
		return fmt.Errorf("only draft notes can be deleted")
	}
	return s.notes.Delete(ctx, id)
}

func (s *Service) SearchNotes(ctx context.Context, params map[string]string, limit, offset int) ([]*ClinicalNote, int, error) {
	return s.notes.Search(ctx, params, limit, offset)
}

func (s *Service) FinalizeNote(ctx context.Context, id uuid.UUID, at time.Time) (*ClinicalNote, error) {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("note not found: %w", err)
	}
	if !CanTransition(n.Status, StatusFinal) {
		return nil, fmt.Errorf("cannot finalize a %s note", n.Status)
	}
	n.Status = StatusFinal
	n.FinalizedAt = &at
	if err := s.notes.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// AmendNote replaces the body of a finalized note, keeping the replaced text
// as the prior version and bumping the version counter.
func (s *Service) AmendNote(ctx context.Context, id uuid.UUID, body, reason string, at time.Time) (*ClinicalNote, error) {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("note not found: %w", err)
	}
	if !CanTransition(n.Status, StatusAmended) {
		return nil, fmt.Errorf("cannot amend a %s note", n.Status)
	}
	if body == "" {
		return nil, fmt.Errorf("body is required")
	}
	if reason == "" {
		return nil, fmt.Errorf("an amendment requires a reason")
	}
	prior := n.Body
	n.PriorBody = &prior
	n.Body = body
	n.AmendReason = &reason
	n.Status = StatusAmended
	n.Version++
	n.AmendedAt = &at
	if err := s.notes.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

var validKinds = map[string]bool{
	KindDischargeSummary: true, KindBurnSummary: true,
}

func (s *Service) CreateTemplate(ctx context.Context, t *DocumentTemplate) error {
	if err := s.validateTemplate(t); err != nil {
		return err
	}
	if existing, err := s.templates.GetByName(ctx, t.Name); err == nil && existing != nil {
		return fmt.Errorf("template %s already exists", t.Name)
	}
	return s.templates.Create(ctx, t)
}

func (s *Service) UpdateTemplate(ctx context.Context, t *DocumentTemplate) error {
	if _, err := s.templates.GetByID(ctx, t.ID); err != nil {
		return fmt.Errorf("template not found: %w", err)
	}
	if err := s.validateTemplate(t); err != nil {
		return err
	}
	return s.templates.Update(ctx, t)
}

func (s *Service) validateTemplate(t *DocumentTemplate) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validKinds[t.Kind] {
		return fmt.Errorf("invalid template kind: %s", t.Kind)
	}
	if _, err := template.New(t.Name).Parse(t.Body); err != nil {
		return fmt.Errorf("template does not parse: %w", err)
	}
	return nil
}

func (s *Service) GetTemplate(ctx context.Context, id uuid.UUID) (*DocumentTemplate, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *Service) ListTemplates(ctx context.Context) ([]*DocumentTemplate, error) {
	return s.templates.List(ctx)
}

func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.templates.Delete(ctx, id)
}

// renderContext is the data a summary template executes against. It is also
// what gets persisted as the document's structured context.
type renderContext struct {
	Patient     *patient.Patient        `json:"patient"`
	Case        *burns.BurnCase         `json:"case"`
	Assessment  *burns.AssessmentResult `json:"assessment"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// Render executes a named template against the stored data for a burn case
// and persists both the structured context and the plain-text output.
func (s *Service) Render(ctx context.Context, templateName string, caseID uuid.UUID, renderedBy *string) (*RenderedDocument, error) {
	tpl, err := s.templates.GetByName(ctx, templateName)
	if err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	parsed, err := template.New(tpl.Name).Parse(tpl.Body)
	if err != nil {
		return nil, fmt.Errorf("template does not parse: %w", err)
	}

	bc, err := s.cases.GetCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("burn case not found: %w", err)
	}
	p, err := s.patients.GetByID(ctx, bc.PatientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found: %w", err)
	}
	assessment, err := s.cases.Assessment(ctx, caseID)
	if err != nil {
		return nil, err
	}

	data := renderContext{Patient: p, Case: bc, Assessment: assessment, GeneratedAt: time.Now()}
	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", tpl.Name, err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	doc := &RenderedDocument{
		TemplateID: tpl.ID,
		PatientID:  bc.PatientID,
		CaseID:     &bc.ID,
		Kind:       tpl.Kind,
		Context:    raw,
		Text:       buf.String(),
		RenderedBy: renderedBy,
		RenderedAt: data.GeneratedAt,
	}
	if err := s.rendered.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*RenderedDocument, error) {
	return s.rendered.GetByID(ctx, id)
}

func (s *Service) ListDocuments(ctx context.Context, patientID uuid.UUID) ([]*RenderedDocument, error) {
	return s.rendered.ListByPatient(ctx, patientID)
}
