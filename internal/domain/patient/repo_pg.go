package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/burnunit/emr/internal/platform/db"
	"github.com/burnunit/emr/internal/platform/search"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Patient Repository ===========

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, mrn, given_name, family_name, birth_date, gender,
	phone, email, address_line, city, postal_code, deceased_at, active,
	created_at, updated_at`

var patientSearchConfigs = map[string]search.ParamConfig{
	"name":       {Type: search.ParamString, Column: "given_name"},
	"family":     {Type: search.ParamString, Column: "family_name"},
	"birthdate":  {Type: search.ParamDate, Column: "birth_date"},
	"gender":     {Type: search.ParamToken, Column: "gender"},
	"identifier": {Type: search.ParamToken, Column: "mrn"},
	"active":     {Type: search.ParamToken, Column: "active"},
}

func (r *repoPG) scan(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.MRN, &p.GivenName, &p.FamilyName, &p.BirthDate,
		&p.Gender, &p.Phone, &p.Email, &p.AddressLine, &p.City, &p.PostalCode,
		&p.DeceasedAt, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, mrn, given_name, family_name, birth_date, gender,
			phone, email, address_line, city, postal_code, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.MRN, p.GivenName, p.FamilyName, p.BirthDate, p.Gender,
		p.Phone, p.Email, p.AddressLine, p.City, p.PostalCode, p.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE mrn = $1`, mrn))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET given_name=$2, family_name=$3, birth_date=$4, gender=$5,
			phone=$6, email=$7, address_line=$8, city=$9, postal_code=$10,
			deceased_at=$11, active=$12, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.GivenName, p.FamilyName, p.BirthDate, p.Gender,
		p.Phone, p.Email, p.AddressLine, p.City, p.PostalCode,
		p.DeceasedAt, p.Active)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return r.Search(ctx, nil, limit, offset)
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	q := search.NewQuery("patient", patientCols)
	q.ApplyParams(params, patientSearchConfigs)
	q.ApplySort(params["sort"], "created_at DESC", patientSearchConfigs)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// =========== Practitioner Repository ===========

type practitionerRepoPG struct{ pool *pgxpool.Pool }

func NewPractitionerRepoPG(pool *pgxpool.Pool) PractitionerRepository {
	return &practitionerRepoPG{pool: pool}
}

func (r *practitionerRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const practitionerCols = `id, given_name, family_name, role, registration_number,
	active, created_at, updated_at`

var practitionerSearchConfigs = map[string]search.ParamConfig{
	"name":   {Type: search.ParamString, Column: "given_name"},
	"family": {Type: search.ParamString, Column: "family_name"},
	"role":   {Type: search.ParamToken, Column: "role"},
	"active": {Type: search.ParamToken, Column: "active"},
}

func (r *practitionerRepoPG) scan(row pgx.Row) (*Practitioner, error) {
	var p Practitioner
	err := row.Scan(&p.ID, &p.GivenName, &p.FamilyName, &p.Role,
		&p.RegistrationNumber, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *practitionerRepoPG) Create(ctx context.Context, p *Practitioner) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO practitioner (id, given_name, family_name, role, registration_number, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.GivenName, p.FamilyName, p.Role, p.RegistrationNumber, p.Active)
	return err
}

func (r *practitionerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+practitionerCols+` FROM practitioner WHERE id = $1`, id))
}

func (r *practitionerRepoPG) Update(ctx context.Context, p *Practitioner) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE practitioner SET given_name=$2, family_name=$3, role=$4,
			registration_number=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.GivenName, p.FamilyName, p.Role, p.RegistrationNumber, p.Active)
	return err
}

func (r *practitionerRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM practitioner WHERE id = $1`, id)
	return err
}

func (r *practitionerRepoPG) List(ctx context.Context, limit, offset int) ([]*Practitioner, int, error) {
	return r.Search(ctx, nil, limit, offset)
}

func (r *practitionerRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Practitioner, int, error) {
	q := search.NewQuery("practitioner", practitionerCols)
	q.ApplyParams(params, practitionerSearchConfigs)
	q.ApplySort(params["sort"], "family_name ASC", practitionerSearchConfigs)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Practitioner
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
