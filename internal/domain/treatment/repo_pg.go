package treatment

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

const planCols = `id, patient_id, title, description, status, authored_by,
	activated_at, ended_at, created_at, updated_at`

var planSearchConfigs = map[string]search.ParamConfig{
	"patient": {Type: search.ParamRef, Column: "patient_id"},
	"status":  {Type: search.ParamToken, Column: "status"},
	"title":   {Type: search.ParamString, Column: "title"},
	"date":    {Type: search.ParamDate, Column: "created_at"},
}

func (r *repoPG) scanPlan(row pgx.Row) (*TreatmentPlan, error) {
	var p TreatmentPlan
	err := row.Scan(&p.ID, &p.PatientID, &p.Title, &p.Description, &p.Status,
		&p.AuthoredBy, &p.ActivatedAt, &p.EndedAt, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) CreatePlan(ctx context.Context, p *TreatmentPlan) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO treatment_plan (id, patient_id, title, description, status,
			authored_by, activated_at, ended_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.PatientID, p.Title, p.Description, p.Status, p.AuthoredBy,
		p.ActivatedAt, p.EndedAt)
	return err
}

func (r *repoPG) GetPlan(ctx context.Context, id uuid.UUID) (*TreatmentPlan, error) {
	return r.scanPlan(r.conn(ctx).QueryRow(ctx, `SELECT `+planCols+` FROM treatment_plan WHERE id = $1`, id))
}

func (r *repoPG) UpdatePlan(ctx context.Context, p *TreatmentPlan) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE treatment_plan SET title=$2, description=$3, status=$4,
			activated_at=$5, ended_at=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Title, p.Description, p.Status, p.ActivatedAt, p.EndedAt)
	return err
}

func (r *repoPG) DeletePlan(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM treatment_plan WHERE id = $1`, id)
	return err
}

func (r *repoPG) SearchPlans(ctx context.Context, params map[string]string, limit, offset int) ([]*TreatmentPlan, int, error) {
	q := search.NewQuery("treatment_plan", planCols)
	q.ApplyParams(params, planSearchConfigs)
	q.ApplySort(params["sort"], "created_at DESC", planSearchConfigs)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TreatmentPlan
	for rows.Next() {
		p, err := r.scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *repoPG) AddGoal(ctx context.Context, g *Goal) error {
	g.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO plan_goal (id, plan_id, description, target_date, achieved)
		VALUES ($1,$2,$3,$4,$5)`,
		g.ID, g.PlanID, g.Description, g.TargetDate, g.Achieved)
	return err
}

func (r *repoPG) UpdateGoal(ctx context.Context, g *Goal) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE plan_goal SET description=$2, target_date=$3, achieved=$4,
			updated_at=NOW()
		WHERE id = $1`,
		g.ID, g.Description, g.TargetDate, g.Achieved)
	return err
}

func (r *repoPG) ListGoals(ctx context.Context, planID uuid.UUID) ([]*Goal, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, plan_id, description, target_date, achieved, created_at, updated_at
		FROM plan_goal WHERE plan_id = $1 ORDER BY created_at`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.PlanID, &g.Description, &g.TargetDate,
			&g.Achieved, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &g)
	}
	return items, nil
}

func (r *repoPG) AddActivity(ctx context.Context, a *PlanActivity) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO plan_activity (id, plan_id, kind, schedule, completed)
		VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.PlanID, a.Kind, a.Schedule, a.Completed)
	return err
}

func (r *repoPG) UpdateActivity(ctx context.Context, a *PlanActivity) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE plan_activity SET kind=$2, schedule=$3, completed=$4, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Kind, a.Schedule, a.Completed)
	return err
}

func (r *repoPG) ListActivities(ctx context.Context, planID uuid.UUID) ([]*PlanActivity, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, plan_id, kind, schedule, completed, created_at, updated_at
		FROM plan_activity WHERE plan_id = $1 ORDER BY created_at`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*PlanActivity
	for rows.Next() {
		var a PlanActivity
		if err := rows.Scan(&a.ID, &a.PlanID, &a.Kind, &a.Schedule, &a.Completed,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, nil
}
