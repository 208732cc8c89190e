package encounter

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

const encounterCols = `id, patient_id, status, class, location, attending_id,
	reason_text, start_time, end_time, created_at, updated_at`

var encounterSearchConfigs = map[string]search.ParamConfig{
	"patient": {Type: search.ParamRef, Column: "patient_id"},
	"status":  {Type: search.ParamToken, Column: "status"},
	"class":   {Type: search.ParamToken, Column: "class"},
	"date":    {Type: search.ParamDate, Column: "start_time"},
}

func (r *repoPG) scan(row pgx.Row) (*Encounter, error) {
	var e Encounter
	err := row.Scan(&e.ID, &e.PatientID, &e.Status, &e.Class, &e.Location,
		&e.AttendingID, &e.ReasonText, &e.StartTime, &e.EndTime,
		&e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Encounter) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO encounter (id, patient_id, status, class, location, attending_id,
			reason_text, start_time, end_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		e.ID, e.PatientID, e.Status, e.Class, e.Location, e.AttendingID,
		e.ReasonText, e.StartTime, e.EndTime)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Encounter, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+encounterCols+` FROM encounter WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, e *Encounter) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE encounter SET status=$2, class=$3, location=$4, attending_id=$5,
			reason_text=$6, start_time=$7, end_time=$8, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.Status, e.Class, e.Location, e.AttendingID,
		e.ReasonText, e.StartTime, e.EndTime)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM encounter WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Encounter, int, error) {
	return r.Search(ctx, map[string]string{"patient": patientID.String()}, limit, offset)
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Encounter, int, error) {
	q := search.NewQuery("encounter", encounterCols)
	q.ApplyParams(params, encounterSearchConfigs)
	q.ApplySort(params["sort"], "created_at DESC", encounterSearchConfigs)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Encounter
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}
