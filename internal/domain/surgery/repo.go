package surgery

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TheatreRepository interface {
	Create(ctx context.Context, t *Theatre) error
	GetByID(ctx context.Context, id uuid.UUID) (*Theatre, error)
	Update(ctx context.Context, t *Theatre) error
	List(ctx context.Context, limit, offset int) ([]*Theatre, int, error)
}

type CaseRepository interface {
	Create(ctx context.Context, tc *TheatreCase) error
	GetByID(ctx context.Context, id uuid.UUID) (*TheatreCase, error)
	Update(ctx context.Context, tc *TheatreCase) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*TheatreCase, int, error)
	ListOverlapping(ctx context.Context, theatreID uuid.UUID, start, end time.Time) ([]*TheatreCase, error)

	AddGraft(ctx context.Context, g *GraftProcedure) error
	ListGrafts(ctx context.Context, caseID uuid.UUID) ([]*GraftProcedure, error)

	AddEvent(ctx context.Context, ev *CaseEvent) error
	ListEvents(ctx context.Context, caseID uuid.UUID) ([]*CaseEvent, error)

	AddSwabCount(ctx context.Context, sc *SwabCount) error
	ListSwabCounts(ctx context.Context, caseID uuid.UUID) ([]*SwabCount, error)
}
