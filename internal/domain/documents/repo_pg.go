package documents

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

type noteRepoPG struct{ pool *pgxpool.Pool }

func NewNoteRepoPG(pool *pgxpool.Pool) NoteRepository {
	return &noteRepoPG{pool: pool}
}

const noteCols = `id, patient_id, encounter_id, author, type, title, body, status,
	version, prior_body, amend_reason, finalized_at, amended_at, created_at, updated_at`

var noteSearchConfigs = map[string]search.ParamConfig{
	"patient":   {Type: search.ParamRef, Column: "patient_id"},
	"encounter": {Type: search.ParamRef, Column: "encounter_id"},
	"author":    {Type: search.ParamString, Column: "author"},
	"type":      {Type: search.ParamToken, Column: "type"},
	"status":    {Type: search.ParamToken, Column: "status"},
	"date":      {Type: search.ParamDate, Column: "created_at"},
}

func scanNote(row pgx.Row) (*ClinicalNote, error) {
	var n ClinicalNote
	err := row.Scan(&n.ID, &n.PatientID, &n.EncounterID, &n.Author, &n.Type, &n.Title,
		&n.Body, &n.Status, &n.Version, &n.PriorBody, &n.AmendReason,
		&n.FinalizedAt, &n.AmendedAt, &n.CreatedAt, &n.UpdatedAt)
	return &n, err
}

func (r *noteRepoPG) Create(ctx context.Context, n *ClinicalNote) error {
	n.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO clinical_note (id, patient_id, encounter_id, author, type, title,
			body, status, version)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		n.ID, n.PatientID, n.EncounterID, n.Author, n.Type, n.Title,
		n.Body, n.Status, n.Version)
	return err
}

func (r *noteRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ClinicalNote, error) {
	return scanNote(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+noteCols+` FROM clinical_note WHERE id = $1`, id))
}

func (r *noteRepoPG) Update(ctx context.Context, n *ClinicalNote) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE clinical_note SET title = $2, body = $3, status = $4, version = $5,
			prior_body = $6, amend_reason = $7, finalized_at = $8, amended_at = $9,
			updated_at = NOW()
		WHERE id = $1`,
		n.ID, n.Title, n.Body, n.Status, n.Version,
		n.PriorBody, n.AmendReason, n.FinalizedAt, n.AmendedAt)
	return err
}

func (r *noteRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM clinical_note WHERE id = $1`, id)
	return err
}

func (r *noteRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*ClinicalNote, int, error) {
	q := search.NewQuery("clinical_note", noteCols)
	q.ApplyParams(params, noteSearchConfigs)
	q.ApplySort(params["sort"], "created_at DESC", noteSearchConfigs)

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, q.DataSQL(), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ClinicalNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, nil
}

type templateRepoPG struct{ pool *pgxpool.Pool }

func NewTemplateRepoPG(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepoPG{pool: pool}
}

const templateCols = `id, name, kind, body, created_at, updated_at`

func scanTemplate(row pgx.Row) (*DocumentTemplate, error) {
	var t DocumentTemplate
	err := row.Scan(&t.ID, &t.Name, &t.Kind, &t.Body, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *templateRepoPG) Create(ctx context.Context, t *DocumentTemplate) error {
	t.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO document_template (id, name, kind, body)
		VALUES ($1,$2,$3,$4)`,
		t.ID, t.Name, t.Kind, t.Body)
	return err
}

func (r *templateRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*DocumentTemplate, error) {
	return scanTemplate(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+templateCols+` FROM document_template WHERE id = $1`, id))
}

func (r *templateRepoPG) GetByName(ctx context.Context, name string) (*DocumentTemplate, error) {
	return scanTemplate(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+templateCols+` FROM document_template WHERE name = $1`, name))
}

func (r *templateRepoPG) Update(ctx context.Context, t *DocumentTemplate) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE document_template SET name = $2, kind = $3, body = $4, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.Kind, t.Body)
	return err
}

func (r *templateRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM document_template WHERE id = $1`, id)
	return err
}

func (r *templateRepoPG) List(ctx context.Context) ([]*DocumentTemplate, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+templateCols+` FROM document_template ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*DocumentTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, nil
}

type renderedRepoPG struct{ pool *pgxpool.Pool }

func NewRenderedRepoPG(pool *pgxpool.Pool) RenderedRepository {
	return &renderedRepoPG{pool: pool}
}

const renderedCols = `id, template_id, patient_id, case_id, kind, context, text,
	rendered_by, rendered_at, created_at`

func scanRendered(row pgx.Row) (*RenderedDocument, error) {
	var d RenderedDocument
	err := row.Scan(&d.ID, &d.TemplateID, &d.PatientID, &d.CaseID, &d.Kind,
		&d.Context, &d.Text, &d.RenderedBy, &d.RenderedAt, &d.CreatedAt)
	return &d, err
}

func (r *renderedRepoPG) Create(ctx context.Context, d *RenderedDocument) error {
	d.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO rendered_document (id, template_id, patient_id, case_id, kind,
			context, text, rendered_by, rendered_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		d.ID, d.TemplateID, d.PatientID, d.CaseID, d.Kind,
		d.Context, d.Text, d.RenderedBy, d.RenderedAt)
	return err
}

func (r *renderedRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*RenderedDocument, error) {
	return scanRendered(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+renderedCols+` FROM rendered_document WHERE id = $1`, id))
}

func (r *renderedRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*RenderedDocument, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+renderedCols+` FROM rendered_document
		WHERE patient_id = $1 ORDER BY rendered_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*RenderedDocument
	for rows.Next() {
		d, err := scanRendered(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, nil
}
