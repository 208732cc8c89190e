package surgery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	theatres TheatreRepository
	cases    CaseRepository
}

func NewService(theatres TheatreRepository, cases CaseRepository) *Service {
	return &Service{theatres: theatres, cases: cases}
}

var validTheatreStatuses = map[string]bool{
	TheatreAvailable: true, TheatreInUse: true, TheatreTurnover: true, TheatreBlocked: true,
}

var validCaseStatuses = map[string]bool{
	StatusScheduled: true, StatusPreOp: true, StatusInTheatre: true,
	StatusRecovery: true, StatusCompleted: true, StatusCancelled: true,
}

var validGraftTypes = map[string]bool{
	GraftExcision: true, GraftSplit: true, GraftFull: true, GraftDebridement: true,
}

var validEventKinds = map[string]bool{
	EventAnaesthesiaStart: true, EventIncision: true,
	EventClosure: true, EventOutOfTheatre: true,
}

func (s *Service) CreateTheatre(ctx context.Context, t *Theatre) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if t.Status == "" {
		t.Status = TheatreAvailable
	}
	if !validTheatreStatuses[t.Status] {
		return fmt.Errorf("invalid theatre status: %s", t.Status)
	}
	return s.theatres.Create(ctx, t)
}

func (s *Service) GetTheatre(ctx context.Context, id uuid.UUID) (*Theatre, error) {
	return s.theatres.GetByID(ctx, id)
}

func (s *Service) UpdateTheatre(ctx context.Context, t *Theatre) error {
	if !validTheatreStatuses[t.Status] {
		return fmt.Errorf("invalid theatre status: %s", t.Status)
	}
	return s.theatres.Update(ctx, t)
}

func (s *Service) ListTheatres(ctx context.Context, limit, offset int) ([]*Theatre, int, error) {
	return s.theatres.List(ctx, limit, offset)
}

func (s *Service) CreateCase(ctx context.Context, tc *TheatreCase) error {
	if tc.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if tc.Procedure == "" {
		return fmt.Errorf("procedure is required")
	}
	if tc.ScheduledStart.IsZero() || tc.ScheduledEnd.IsZero() {
		return fmt.Errorf("scheduled_start and scheduled_end are required")
	}
	if !tc.ScheduledEnd.After(tc.ScheduledStart) {
		return fmt.Errorf("scheduled_end must be after scheduled_start")
	}
	if tc.Status == "" {
		tc.Status = StatusScheduled
	}
	if !validCaseStatuses[tc.Status] {
		return fmt.Errorf("invalid status: %s", tc.Status)
	}
	if err := s.checkTheatreFree(ctx, tc); err != nil {
		return err
	}
	return s.cases.Create(ctx, tc)
}

// checkTheatreFree rejects a booking whose scheduled window collides with
// another non-cancelled case in the same theatre.
func (s *Service) checkTheatreFree(ctx context.Context, tc *TheatreCase) error {
	if tc.TheatreID == nil {
		return nil
	}
	others, err := s.cases.ListOverlapping(ctx, *tc.TheatreID, tc.ScheduledStart, tc.ScheduledEnd)
	if err != nil {
		return err
	}
	for _, o := range others {
		if o.ID != tc.ID {
			return fmt.Errorf("theatre is already booked from %s to %s",
				o.ScheduledStart.Format(time.RFC3339), o.ScheduledEnd.Format(time.RFC3339))
		}
	}
	return nil
}

func (s *Service) GetCase(ctx context.Context, id uuid.UUID) (*TheatreCase, error) {
	return s.cases.GetByID(ctx, id)
}

func (s *Service) UpdateCase(ctx context.Context, tc *TheatreCase) error {
	existing, err := s.cases.GetByID(ctx, tc.ID)
	if err != nil {
		return fmt.Errorf("theatre case not found: %w", err)
	}
	if tc.Status != "" && tc.Status != existing.Status {
		if !validCaseStatuses[tc.Status] {
			return fmt.Errorf("invalid status: %s", tc.Status)
		}
		if !CanTransition(existing.Status, tc.Status) {
			return fmt.Errorf("cannot transition theatre case from %s to %s", existing.Status, tc.Status)
		}
	} else {
		tc.Status = existing.Status
	}
	if tc.Status == StatusCompleted && tc.ActualEnd == nil {
		return fmt.Errorf("completed case requires actual_end")
	}
	if err := s.checkTheatreFree(ctx, tc); err != nil {
		return err
	}
	return s.cases.Update(ctx, tc)
}

// Transition moves a case through the theatre workflow, stamping actual start
// on entry to theatre and actual end on completion.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to string, at time.Time) (*TheatreCase, error) {
	tc, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("theatre case not found: %w", err)
	}
	if !validCaseStatuses[to] {
		return nil, fmt.Errorf("invalid status: %s", to)
	}
	if !CanTransition(tc.Status, to) {
		return nil, fmt.Errorf("cannot transition theatre case from %s to %s", tc.Status, to)
	}
	tc.Status = to
	switch to {
	case StatusInTheatre:
		if tc.ActualStart == nil {
			tc.ActualStart = &at
		}
	case StatusCompleted:
		if tc.ActualEnd == nil {
			tc.ActualEnd = &at
		}
	}
	if err := s.cases.Update(ctx, tc); err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *Service) DeleteCase(ctx context.Context, id uuid.UUID) error {
	return s.cases.Delete(ctx, id)
}

func (s *Service) SearchCases(ctx context.Context, params map[string]string, limit, offset int) ([]*TheatreCase, int, error) {
	return s.cases.Search(ctx, params, limit, offset)
}

// AddGraft records a graft or excision against a case that is in theatre or
// in recovery.
func (s *Service) AddGraft(ctx context.Context, g *GraftProcedure) error {
	tc, err := s.cases.GetByID(ctx, g.CaseID)
	if err != nil {
		return fmt.Errorf("theatre case not found: %w", err)
	}
	if tc.Status != StatusInTheatre && tc.Status != StatusRecovery {
		return fmt.Errorf("grafts can only be recorded while the case is in theatre or recovery")
	}
	if !validGraftTypes[g.Type] {
		return fmt.Errorf("invalid graft type: %s", g.Type)
	}
	if g.Site == "" {
		return fmt.Errorf("site is required")
	}
	if g.ExcisedAreaCm2 < 0 {
		return fmt.Errorf("excised_area_cm2 cannot be negative")
	}
	if g.PerformedAt.IsZero() {
		g.PerformedAt = time.Now()
	}
	return s.cases.AddGraft(ctx, g)
}

func (s *Service) ListGrafts(ctx context.Context, caseID uuid.UUID) ([]*GraftProcedure, error) {
	return s.cases.ListGrafts(ctx, caseID)
}

func (s *Service) AddEvent(ctx context.Context, ev *CaseEvent) error {
	if _, err := s.cases.GetByID(ctx, ev.CaseID); err != nil {
		return fmt.Errorf("theatre case not found: %w", err)
	}
	if !validEventKinds[ev.Kind] {
		return fmt.Errorf("invalid event kind: %s", ev.Kind)
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	return s.cases.AddEvent(ctx, ev)
}

func (s *Service) ListEvents(ctx context.Context, caseID uuid.UUID) ([]*CaseEvent, error) {
	return s.cases.ListEvents(ctx, caseID)
}

// AddSwabCount records a count; correctness is derived from expected vs
// actual, not taken from the client.
func (s *Service) AddSwabCount(ctx context.Context, sc *SwabCount) error {
	if _, err := s.cases.GetByID(ctx, sc.CaseID); err != nil {
		return fmt.Errorf("theatre case not found: %w", err)
	}
	if sc.Item == "" {
		return fmt.Errorf("item is required")
	}
	if sc.Expected < 0 || sc.Actual < 0 {
		return fmt.Errorf("counts cannot be negative")
	}
	sc.Correct = sc.Expected == sc.Actual
	if sc.CountedAt.IsZero() {
		sc.CountedAt = time.Now()
	}
	return s.cases.AddSwabCount(ctx, sc)
}

func (s *Service) ListSwabCounts(ctx context.Context, caseID uuid.UUID) ([]*SwabCount, error) {
	return s.cases.ListSwabCounts(ctx, caseID)
}
