package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	MRN         string     `db:"mrn" json:"mrn"`
	GivenName   string     `db:"given_name" json:"given_name"`
	FamilyName  string     `db:"family_name" json:"family_name"`
	BirthDate   time.Time  `db:"birth_date" json:"birth_date"`
	Gender      string     `db:"gender" json:"gender"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	Email       *string    `db:"email" json:"email,omitempty"`
	AddressLine *string    `db:"address_line" json:"address_line,omitempty"`
	City        *string    `db:"city" json:"city,omitempty"`
	PostalCode  *string    `db:"postal_code" json:"postal_code,omitempty"`
	DeceasedAt  *time.Time `db:"deceased_at" json:"deceased_at,omitempty"`
	Active      bool       `db:"active" json:"active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// AgeYearsAt returns the patient's age in whole years at the given time.
// The burns and nutrition services use this for age-banded calculations.
func (p *Patient) AgeYearsAt(at time.Time) int {
	years := at.Year() - p.BirthDate.Year()
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Practitioner maps to the practitioner table.
type Practitioner struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	GivenName          string    `db:"given_name" json:"given_name"`
	FamilyName         string    `db:"family_name" json:"family_name"`
	Role               string    `db:"role" json:"role"`
	RegistrationNumber *string   `db:"registration_number" json:"registration_number,omitempty"`
	Active             bool      `db:"active" json:"active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
