package burns

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, bc *BurnCase) error
	GetByID(ctx context.Context, id uuid.UUID) (*BurnCase, error)
	Update(ctx context.Context, bc *BurnCase) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*BurnCase, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*BurnCase, int, error)

	// Regions. ReplaceRegions swaps the whole region map for a case and
	// persists the recomputed TBSA snapshot in the same transaction.
	ReplaceRegions(ctx context.Context, caseID uuid.UUID, regions []*RegionRecord, tbsaPct float64) error
	GetRegions(ctx context.Context, caseID uuid.UUID) ([]*RegionRecord, error)

	// Vitals
	AddVitals(ctx context.Context, v *VitalsRecord) error
	ListVitals(ctx context.Context, caseID uuid.UUID) ([]*VitalsRecord, error)

	// Fluids
	AddFluid(ctx context.Context, f *FluidRecord) error
	ListFluids(ctx context.Context, caseID uuid.UUID) ([]*FluidRecord, error)
}
