package lab

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

const orderCols = `id, patient_id, encounter_id, panel_code, priority, status,
	ordered_by, ordered_at, collected_at, resulted_at, created_at, updated_at`

var orderSearchConfigs = map[string]search.ParamConfig{
	"patient":  {Type: search.ParamRef, Column: "patient_id"},
	"status":   {Type: search.ParamToken, Column: "status"},
	"panel":    {Type: search.ParamToken, Column: "panel_code"},
	"priority": {Type: search.ParamToken, Column: "priority"},
	"date":     {Type: search.ParamDate, Column: "ordered_at"},
}

func (r *repoPG) scanOrder(row pgx.Row) (*LabOrder, error) {
	var o LabOrder
	err := row.Scan(&o.ID, &o.PatientID, &o.EncounterID, &o.PanelCode, &o.Priority,
		&o.Status, &o.OrderedBy, &o.OrderedAt, &o.CollectedAt, &o.ResultedAt,
		&o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *repoPG) CreateOrder(ctx context.Context, o *LabOrder) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_order (id, patient_id, encounter_id, panel_code, priority,
			status, ordered_by, ordered_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.ID, o.PatientID, o.EncounterID, o.PanelCode, o.Priority, o.Status,
		o.OrderedBy, o.OrderedAt)
	return err
}

func (r *repoPG) GetOrder(ctx context.Context, id uuid.UUID) (*LabOrder, error) {
	return r.scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM lab_order WHERE id = $1`, id))
}

func (r *repoPG) UpdateOrder(ctx context.Context, o *LabOrder) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_order SET panel_code=$2, priority=$3, status=$4,
			collected_at=$5, resulted_at=$6, updated_at=NOW()
		WHERE id = $1`,
		o.ID, o.PanelCode, o.Priority, o.Status, o.CollectedAt, o.ResultedAt)
	return err
}

func (r *repoPG) SearchOrders(ctx context.Context, params map[string]string, limit, offset int) ([]*LabOrder, int, error) {
	q := search.NewQuery("lab_order", orderCols)
	q.ApplyParams(params, orderSearchConfigs)
	q.ApplySort(params["sort"], "ordered_at DESC", orderSearchConfigs)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*LabOrder
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}

func (r *repoPG) AddResult(ctx context.Context, res *LabResult) error {
	res.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_result (id, order_id, analyte, value, unit, ref_low,
			ref_high, flag, resulted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		res.ID, res.OrderID, res.Analyte, res.Value, res.Unit, res.RefLow,
		res.RefHigh, res.Flag, res.ResultedAt)
	return err
}

func (r *repoPG) ListResults(ctx context.Context, orderID uuid.UUID) ([]*LabResult, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, order_id, analyte, value, unit, ref_low, ref_high, flag,
			resulted_at, created_at
		FROM lab_result WHERE order_id = $1 ORDER BY analyte`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*LabResult
	for rows.Next() {
		var res LabResult
		if err := rows.Scan(&res.ID, &res.OrderID, &res.Analyte, &res.Value,
			&res.Unit, &res.RefLow, &res.RefHigh, &res.Flag, &res.ResultedAt,
			&res.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &res)
	}
	return items, nil
}
