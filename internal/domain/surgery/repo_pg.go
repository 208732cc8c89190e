package surgery

import (
	"context"
	"time"

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

type theatreRepoPG struct{ pool *pgxpool.Pool }

func NewTheatreRepoPG(pool *pgxpool.Pool) TheatreRepository {
	return &theatreRepoPG{pool: pool}
}

func (r *theatreRepoPG) Create(ctx context.Context, t *Theatre) error {
	t.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO theatre (id, name, room, status) VALUES ($1,$2,$3,$4)`,
		t.ID, t.Name, t.Room, t.Status)
	return err
}

func (r *theatreRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Theatre, error) {
	var t Theatre
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, name, room, status, created_at, updated_at FROM theatre WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Room, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *theatreRepoPG) Update(ctx context.Context, t *Theatre) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE theatre SET name=$2, room=$3, status=$4, updated_at=NOW() WHERE id = $1`,
		t.ID, t.Name, t.Room, t.Status)
	return err
}

func (r *theatreRepoPG) List(ctx context.Context, limit, offset int) ([]*Theatre, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM theatre`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, name, room, status, created_at, updated_at
		FROM theatre ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Theatre
	for rows.Next() {
		var t Theatre
		if err := rows.Scan(&t.ID, &t.Name, &t.Room, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &t)
	}
	return items, total, nil
}

const caseCols = `id, patient_id, burn_case_id, surgeon_id, theatre_id, procedure,
	status, scheduled_start, scheduled_end, actual_start, actual_end, notes,
	created_at, updated_at`

var caseSearchConfigs = map[string]search.ParamConfig{
	"patient": {Type: search.ParamRef, Column: "patient_id"},
	"surgeon": {Type: search.ParamRef, Column: "surgeon_id"},
	"theatre": {Type: search.ParamRef, Column: "theatre_id"},
	"status":  {Type: search.ParamToken, Column: "status"},
	"date":    {Type: search.ParamDate, Column: "scheduled_start"},
}

type caseRepoPG struct{ pool *pgxpool.Pool }

func NewCaseRepoPG(pool *pgxpool.Pool) CaseRepository {
	return &caseRepoPG{pool: pool}
}

func (r *caseRepoPG) scan(row pgx.Row) (*TheatreCase, error) {
	var tc TheatreCase
	err := row.Scan(&tc.ID, &tc.PatientID, &tc.BurnCaseID, &tc.SurgeonID,
		&tc.TheatreID, &tc.Procedure, &tc.Status, &tc.ScheduledStart,
		&tc.ScheduledEnd, &tc.ActualStart, &tc.ActualEnd, &tc.Notes,
		&tc.CreatedAt, &tc.UpdatedAt)
	return &tc, err
}

func (r *caseRepoPG) Create(ctx context.Context, tc *TheatreCase) error {
	tc.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO theatre_case (id, patient_id, burn_case_id, surgeon_id, theatre_id,
			procedure, status, scheduled_start, scheduled_end, actual_start, actual_end, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		tc.ID, tc.PatientID, tc.BurnCaseID, tc.SurgeonID, tc.TheatreID,
		tc.Procedure, tc.Status, tc.ScheduledStart, tc.ScheduledEnd,
		tc.ActualStart, tc.ActualEnd, tc.Notes)
	return err
}

func (r *caseRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*TheatreCase, error) {
	return r.scan(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+caseCols+` FROM theatre_case WHERE id = $1`, id))
}

func (r *caseRepoPG) Update(ctx context.Context, tc *TheatreCase) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE theatre_case SET burn_case_id=$2, surgeon_id=$3, theatre_id=$4,
			procedure=$5, status=$6, scheduled_start=$7, scheduled_end=$8,
			actual_start=$9, actual_end=$10, notes=$11, updated_at=NOW()
		WHERE id = $1`,
		tc.ID, tc.BurnCaseID, tc.SurgeonID, tc.TheatreID, tc.Procedure,
		tc.Status, tc.ScheduledStart, tc.ScheduledEnd, tc.ActualStart,
		tc.ActualEnd, tc.Notes)
	return err
}

func (r *caseRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM theatre_case WHERE id = $1`, id)
	return err
}

func (r *caseRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*TheatreCase, int, error) {
	q := search.NewQuery("theatre_case", caseCols)
	q.ApplyParams(params, caseSearchConfigs)
	q.ApplySort(params["sort"], "scheduled_start DESC", caseSearchConfigs)

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, q.DataSQL(), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TheatreCase
	for rows.Next() {
		tc, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, tc)
	}
	return items, total, nil
}

// ListOverlapping returns non-cancelled cases in the theatre whose scheduled
// window intersects [start, end).
func (r *caseRepoPG) ListOverlapping(ctx context.Context, theatreID uuid.UUID, start, end time.Time) ([]*TheatreCase, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+caseCols+` FROM theatre_case
		WHERE theatre_id = $1 AND status <> $2
			AND scheduled_start < $4 AND scheduled_end > $3
		ORDER BY scheduled_start`,
		theatreID, StatusCancelled, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*TheatreCase
	for rows.Next() {
		tc, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, tc)
	}
	return items, nil
}

func (r *caseRepoPG) AddGraft(ctx context.Context, g *GraftProcedure) error {
	g.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO graft_procedure (id, case_id, type, site, donor_site,
			excised_area_cm2, mesh_ratio, performed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		g.ID, g.CaseID, g.Type, g.Site, g.DonorSite, g.ExcisedAreaCm2, g.MeshRatio, g.PerformedAt)
	return err
}

func (r *caseRepoPG) ListGrafts(ctx context.Context, caseID uuid.UUID) ([]*GraftProcedure, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, case_id, type, site, donor_site, excised_area_cm2, mesh_ratio,
			performed_at, created_at
		FROM graft_procedure WHERE case_id = $1 ORDER BY performed_at`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*GraftProcedure
	for rows.Next() {
		var g GraftProcedure
		if err := rows.Scan(&g.ID, &g.CaseID, &g.Type, &g.Site, &g.DonorSite,
			&g.ExcisedAreaCm2, &g.MeshRatio, &g.PerformedAt, &g.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &g)
	}
	return items, nil
}

func (r *caseRepoPG) AddEvent(ctx context.Context, ev *CaseEvent) error {
	ev.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO case_event (id, case_id, kind, at, recorded_by)
		VALUES ($1,$2,$3,$4,$5)`,
		ev.ID, ev.CaseID, ev.Kind, ev.At, ev.RecordedBy)
	return err
}

func (r *caseRepoPG) ListEvents(ctx context.Context, caseID uuid.UUID) ([]*CaseEvent, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, case_id, kind, at, recorded_by, created_at
		FROM case_event WHERE case_id = $1 ORDER BY at`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*CaseEvent
	for rows.Next() {
		var ev CaseEvent
		if err := rows.Scan(&ev.ID, &ev.CaseID, &ev.Kind, &ev.At, &ev.RecordedBy, &ev.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &ev)
	}
	return items, nil
}

func (r *caseRepoPG) AddSwabCount(ctx context.Context, sc *SwabCount) error {
	sc.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO swab_count (id, case_id, item, expected, actual, correct,
			counted_at, counted_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		sc.ID, sc.CaseID, sc.Item, sc.Expected, sc.Actual, sc.Correct, sc.CountedAt, sc.CountedBy)
	return err
}

func (r *caseRepoPG) ListSwabCounts(ctx context.Context, caseID uuid.UUID) ([]*SwabCount, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, case_id, item, expected, actual, correct, counted_at,
			counted_by, created_at
		FROM swab_count WHERE case_id = $1 ORDER BY counted_at`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*SwabCount
	for rows.Next() {
		var sc SwabCount
		if err := rows.Scan(&sc.ID, &sc.CaseID, &sc.Item, &sc.Expected, &sc.Actual,
			&sc.Correct, &sc.CountedAt, &sc.CountedBy, &sc.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &sc)
	}
	return items, nil
}
