package documents

import (
	"context"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, n *ClinicalNote) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClinicalNote, error)
	Update(ctx context.Context, n *ClinicalNote) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*ClinicalNote, int, error)
}

type TemplateRepository interface {
	Create(ctx context.Context, t *DocumentTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*DocumentTemplate, error)
	GetByName(ctx context.Context, name string) (*DocumentTemplate, error)
	Update(ctx context.Context, t *DocumentTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*DocumentTemplate, error)
}

type RenderedRepository interface {
	Create(ctx context.Context, d *RenderedDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*RenderedDocument, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*RenderedDocument, error)
}
