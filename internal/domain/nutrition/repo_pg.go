package nutrition

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

const assessmentCols = `id, patient_id, burn_case_id, height_cm, weight_kg, bmi,
	weight_loss_pct, acutely_ill, must_score, risk_band, calorie_target,
	feeding_route, assessed_by, assessed_at, next_screen_due, created_at`

var assessmentSearchConfigs = map[string]search.ParamConfig{
	"patient": {Type: search.ParamRef, Column: "patient_id"},
	"case":    {Type: search.ParamRef, Column: "burn_case_id"},
	"risk":    {Type: search.ParamToken, Column: "risk_band"},
	"date":    {Type: search.ParamDate, Column: "assessed_at"},
}

func (r *repoPG) scan(row pgx.Row) (*NutritionAssessment, error) {
	var na NutritionAssessment
	err := row.Scan(&na.ID, &na.PatientID, &na.BurnCaseID, &na.HeightCm, &na.WeightKg,
		&na.BMI, &na.WeightLossPct, &na.AcutelyIll, &na.MUSTScore, &na.RiskBand,
		&na.CalorieTarget, &na.FeedingRoute, &na.AssessedBy, &na.AssessedAt,
		&na.NextScreenDue, &na.CreatedAt)
	return &na, err
}

func (r *repoPG) Create(ctx context.Context, na *NutritionAssessment) error {
	na.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO nutrition_assessment (id, patient_id, burn_case_id, height_cm,
			weight_kg, bmi, weight_loss_pct, acutely_ill, must_score, risk_band,
			calorie_target, feeding_route, assessed_by, assessed_at, next_screen_due)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		na.ID, na.PatientID, na.BurnCaseID, na.HeightCm, na.WeightKg, na.BMI,
		na.WeightLossPct, na.AcutelyIll, na.MUSTScore, na.RiskBand,
		na.CalorieTarget, na.FeedingRoute, na.AssessedBy, na.AssessedAt, na.NextScreenDue)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*NutritionAssessment, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+assessmentCols+` FROM nutrition_assessment WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*NutritionAssessment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+assessmentCols+` FROM nutrition_assessment
		WHERE patient_id = $1 ORDER BY assessed_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*NutritionAssessment
	for rows.Next() {
		na, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, na)
	}
	return items, nil
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*NutritionAssessment, int, error) {
	q := search.NewQuery("nutrition_assessment", assessmentCols)
	q.ApplyParams(params, assessmentSearchConfigs)
	q.ApplySort(params["sort"], "assessed_at DESC", assessmentSearchConfigs)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*NutritionAssessment
	for rows.Next() {
		na, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, na)
	}
	return items, total, nil
}

func (r *repoPG) ListDueScreens(ctx context.Context, before time.Time, limit, offset int) ([]*NutritionAssessment, int, error) {
	// Only the most recent assessment per patient counts; an older one that
	// is overdue has been superseded.
	const latest = `
		SELECT DISTINCT ON (patient_id) ` + assessmentCols + `
		FROM nutrition_assessment
		ORDER BY patient_id, assessed_at DESC`

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM (`+latest+`) latest WHERE next_screen_due <= $1`, before).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT * FROM (`+latest+`) latest
		WHERE next_screen_due <= $1 ORDER BY next_screen_due LIMIT $2 OFFSET $3`,
		before, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*NutritionAssessment
	for rows.Next() {
		na, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, na)
	}
	return items, total, nil
}
