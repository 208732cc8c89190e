package woundcare

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

const assessmentCols = `id, patient_id, burn_case_id, site, appearance,
	exudate_amount, exudate_type, infection_signs, pain_score, photo_doc_id,
	assessed_by, assessed_at, created_at`

var assessmentSearchConfigs = map[string]search.ParamConfig{
	"patient":   {Type: search.ParamRef, Column: "patient_id"},
	"case":      {Type: search.ParamRef, Column: "burn_case_id"},
	"site":      {Type: search.ParamString, Column: "site"},
	"infection": {Type: search.ParamToken, Column: "infection_signs"},
	"date":      {Type: search.ParamDate, Column: "assessed_at"},
}

func (r *repoPG) scanAssessment(row pgx.Row) (*WoundAssessment, error) {
	var wa WoundAssessment
	err := row.Scan(&wa.ID, &wa.PatientID, &wa.BurnCaseID, &wa.Site, &wa.Appearance,
		&wa.ExudateAmount, &wa.ExudateType, &wa.InfectionSigns, &wa.PainScore,
		&wa.PhotoDocID, &wa.AssessedBy, &wa.AssessedAt, &wa.CreatedAt)
	return &wa, err
}

func (r *repoPG) CreateAssessment(ctx context.Context, wa *WoundAssessment) error {
	wa.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO wound_assessment (id, patient_id, burn_case_id, site, appearance,
			exudate_amount, exudate_type, infection_signs, pain_score, photo_doc_id,
			assessed_by, assessed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		wa.ID, wa.PatientID, wa.BurnCaseID, wa.Site, wa.Appearance,
		wa.ExudateAmount, wa.ExudateType, wa.InfectionSigns, wa.PainScore,
		wa.PhotoDocID, wa.AssessedBy, wa.AssessedAt)
	return err
}

func (r *repoPG) GetAssessment(ctx context.Context, id uuid.UUID) (*WoundAssessment, error) {
	return r.scanAssessment(r.conn(ctx).QueryRow(ctx, `SELECT `+assessmentCols+` FROM wound_assessment WHERE id = $1`, id))
}

func (r *repoPG) SearchAssessments(ctx context.Context, params map[string]string, limit, offset int) ([]*WoundAssessment, int, error) {
	q := search.NewQuery("wound_assessment", assessmentCols)
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
	var items []*WoundAssessment
	for rows.Next() {
		wa, err := r.scanAssessment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, wa)
	}
	return items, total, nil
}

const changeCols = `id, assessment_id, patient_id, site, products, changed_at,
	next_review_at, changed_by, created_at`

func (r *repoPG) scanChange(row pgx.Row) (*DressingChange, error) {
	var dc DressingChange
	err := row.Scan(&dc.ID, &dc.AssessmentID, &dc.PatientID, &dc.Site, &dc.Products,
		&dc.ChangedAt, &dc.NextReviewAt, &dc.ChangedBy, &dc.CreatedAt)
	return &dc, err
}

func (r *repoPG) CreateDressingChange(ctx context.Context, dc *DressingChange) error {
	dc.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO dressing_change (id, assessment_id, patient_id, site, products,
			changed_at, next_review_at, changed_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		dc.ID, dc.AssessmentID, dc.PatientID, dc.Site, dc.Products,
		dc.ChangedAt, dc.NextReviewAt, dc.ChangedBy)
	return err
}

func (r *repoPG) ListDressingChanges(ctx context.Context, patientID uuid.UUID) ([]*DressingChange, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+changeCols+` FROM dressing_change
		WHERE patient_id = $1 ORDER BY changed_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*DressingChange
	for rows.Next() {
		dc, err := r.scanChange(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, dc)
	}
	return items, nil
}

func (r *repoPG) ListDueReviews(ctx context.Context, before time.Time, limit, offset int) ([]*DressingChange, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM dressing_change WHERE next_review_at <= $1`, before).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+changeCols+` FROM dressing_change
		WHERE next_review_at <= $1 ORDER BY next_review_at LIMIT $2 OFFSET $3`,
		before, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*DressingChange
	for rows.Next() {
		dc, err := r.scanChange(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, dc)
	}
	return items, total, nil
}
