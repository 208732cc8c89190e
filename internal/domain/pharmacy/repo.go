package pharmacy

import (
	"context"

	"github.com/google/uuid"
)

type MedicationRepository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	GetByCode(ctx context.Context, code string) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	List(ctx context.Context, limit, offset int) ([]*Medication, int, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *MedicationOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicationOrder, error)
	Update(ctx context.Context, o *MedicationOrder) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*MedicationOrder, int, error)
	ListActiveByPatientMedication(ctx context.Context, patientID, medicationID uuid.UUID) ([]*MedicationOrder, error)

	AddAdministration(ctx context.Context, a *Administration) error
	ListAdministrations(ctx context.Context, orderID uuid.UUID) ([]*Administration, error)
}
