package pharmacy

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

type medicationRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationRepoPG(pool *pgxpool.Pool) MedicationRepository {
	return &medicationRepoPG{pool: pool}
}

const medCols = `id, code, name, form, strength, active, created_at, updated_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.Code, &m.Name, &m.Form, &m.Strength, &m.Active,
		&m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *medicationRepoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO medication (id, code, name, form, strength, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.Code, m.Name, m.Form, m.Strength, m.Active)
	return err
}

func (r *medicationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMedication(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+medCols+` FROM medication WHERE id = $1`, id))
}

func (r *medicationRepoPG) GetByCode(ctx context.Context, code string) (*Medication, error) {
	return scanMedication(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+medCols+` FROM medication WHERE code = $1`, code))
}

func (r *medicationRepoPG) Update(ctx context.Context, m *Medication) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE medication SET code=$2, name=$3, form=$4, strength=$5, active=$6,
			updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Code, m.Name, m.Form, m.Strength, m.Active)
	return err
}

func (r *medicationRepoPG) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM medication`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+medCols+` FROM medication ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

type orderRepoPG struct{ pool *pgxpool.Pool }

func NewOrderRepoPG(pool *pgxpool.Pool) OrderRepository {
	return &orderRepoPG{pool: pool}
}

const orderCols = `id, patient_id, encounter_id, medication_id, dose, route,
	frequency, status, prn, ordered_by, start_at, end_at, created_at, updated_at`

var orderSearchConfigs = map[string]search.ParamConfig{
	"patient":    {Type: search.ParamRef, Column: "patient_id"},
	"medication": {Type: search.ParamRef, Column: "medication_id"},
	"status":     {Type: search.ParamToken, Column: "status"},
	"date":       {Type: search.ParamDate, Column: "start_at"},
}

func (r *orderRepoPG) scan(row pgx.Row) (*MedicationOrder, error) {
	var o MedicationOrder
	err := row.Scan(&o.ID, &o.PatientID, &o.EncounterID, &o.MedicationID, &o.Dose,
		&o.Route, &o.Frequency, &o.Status, &o.PRN, &o.OrderedBy, &o.StartAt,
		&o.EndAt, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *orderRepoPG) Create(ctx context.Context, o *MedicationOrder) error {
	o.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO medication_order (id, patient_id, encounter_id, medication_id,
			dose, route, frequency, status, prn, ordered_by, start_at, end_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, o.PatientID, o.EncounterID, o.MedicationID, o.Dose, o.Route,
		o.Frequency, o.Status, o.PRN, o.OrderedBy, o.StartAt, o.EndAt)
	return err
}

func (r *orderRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicationOrder, error) {
	return r.scan(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+orderCols+` FROM medication_order WHERE id = $1`, id))
}

func (r *orderRepoPG) Update(ctx context.Context, o *MedicationOrder) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE medication_order SET dose=$2, route=$3, frequency=$4, status=$5,
			prn=$6, start_at=$7, end_at=$8, updated_at=NOW()
		WHERE id = $1`,
		o.ID, o.Dose, o.Route, o.Frequency, o.Status, o.PRN, o.StartAt, o.EndAt)
	return err
}

func (r *orderRepoPG) ListActiveByPatientMedication(ctx context.Context, patientID, medicationID uuid.UUID) ([]*MedicationOrder, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+orderCols+` FROM medication_order
		WHERE patient_id = $1 AND medication_id = $2 AND status = $3
		ORDER BY start_at`,
		patientID, medicationID, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*MedicationOrder
	for rows.Next() {
		o, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, nil
}

func (r *orderRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*MedicationOrder, int, error) {
	q := search.NewQuery("medication_order", orderCols)
	q.ApplyParams(params, orderSearchConfigs)
	q.ApplySort(params["sort"], "start_at DESC", orderSearchConfigs)

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, q.DataSQL(), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MedicationOrder
	for rows.Next() {
		o, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}

func (r *orderRepoPG) AddAdministration(ctx context.Context, a *Administration) error {
	a.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO administration (id, order_id, given, reason, at, given_by)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.OrderID, a.Given, a.Reason, a.At, a.GivenBy)
	return err
}

func (r *orderRepoPG) ListAdministrations(ctx context.Context, orderID uuid.UUID) ([]*Administration, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, order_id, given, reason, at, given_by, created_at
		FROM administration WHERE order_id = $1 ORDER BY at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Administration
	for rows.Next() {
		var a Administration
		if err := rows.Scan(&a.ID, &a.OrderID, &a.Given, &a.Reason, &a.At,
			&a.GivenBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, nil
}
