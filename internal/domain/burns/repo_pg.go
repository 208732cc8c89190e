package burns

import (
	"context"
	"fmt"

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

const caseCols = `id, patient_id, encounter_id, injury_time, mechanism,
	inhalation_injury, weight_kg, tbsa_pct, status, notes, created_at, updated_at`

var caseSearchConfigs = map[string]search.ParamConfig{
	"patient":   {Type: search.ParamRef, Column: "patient_id"},
	"status":    {Type: search.ParamToken, Column: "status"},
	"mechanism": {Type: search.ParamToken, Column: "mechanism"},
	"tbsa":      {Type: search.ParamNumber, Column: "tbsa_pct"},
	"date":      {Type: search.ParamDate, Column: "injury_time"},
}

func (r *repoPG) scanCase(row pgx.Row) (*BurnCase, error) {
	var bc BurnCase
	err := row.Scan(&bc.ID, &bc.PatientID, &bc.EncounterID, &bc.InjuryTime,
		&bc.Mechanism, &bc.InhalationInjury, &bc.WeightKg, &bc.TBSAPct,
		&bc.Status, &bc.Notes, &bc.CreatedAt, &bc.UpdatedAt)
	return &bc, err
}

func (r *repoPG) Create(ctx context.Context, bc *BurnCase) error {
	bc.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO burn_case (id, patient_id, encounter_id, injury_time, mechanism,
			inhalation_injury, weight_kg, tbsa_pct, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		bc.ID, bc.PatientID, bc.EncounterID, bc.InjuryTime, bc.Mechanism,
		bc.InhalationInjury, bc.WeightKg, bc.TBSAPct, bc.Status, bc.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*BurnCase, error) {
	return r.scanCase(r.conn(ctx).QueryRow(ctx, `SELECT `+caseCols+` FROM burn_case WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, bc *BurnCase) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE burn_case SET encounter_id=$2, injury_time=$3, mechanism=$4,
			inhalation_injury=$5, weight_kg=$6, tbsa_pct=$7, status=$8, notes=$9,
			updated_at=NOW()
		WHERE id = $1`,
		bc.ID, bc.EncounterID, bc.InjuryTime, bc.Mechanism,
		bc.InhalationInjury, bc.WeightKg, bc.TBSAPct, bc.Status, bc.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM burn_case WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*BurnCase, int, error) {
	return r.Search(ctx, map[string]string{"patient": patientID.String()}, limit, offset)
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*BurnCase, int, error) {
	q := search.NewQuery("burn_case", caseCols)
	q.ApplyParams(params, caseSearchConfigs)
	q.ApplySort(params["sort"], "created_at DESC", caseSearchConfigs)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*BurnCase
	for rows.Next() {
		bc, err := r.scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, bc)
	}
	return items, total, nil
}

// ReplaceRegions deletes the existing region map, inserts the new one, and
// writes the recomputed TBSA snapshot atomically. When the caller has not
// already opened a transaction one is opened here.
func (r *repoPG) ReplaceRegions(ctx context.Context, caseID uuid.UUID, regions []*RegionRecord, tbsaPct float64) error {
	if tx := db.TxFromContext(ctx); tx != nil {
		return r.replaceRegions(ctx, tx, caseID, regions, tbsaPct)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin region replacement: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.replaceRegions(ctx, tx, caseID, regions, tbsaPct); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *repoPG) replaceRegions(ctx context.Context, q queryable, caseID uuid.UUID, regions []*RegionRecord, tbsaPct float64) error {
	if _, err := q.Exec(ctx, `DELETE FROM burn_region WHERE case_id = $1`, caseID); err != nil {
		return err
	}
	for _, reg := range regions {
		reg.ID = uuid.New()
		reg.CaseID = caseID
		if _, err := q.Exec(ctx, `
			INSERT INTO burn_region (id, case_id, region, depth, fraction)
			VALUES ($1,$2,$3,$4,$5)`,
			reg.ID, reg.CaseID, reg.Region, reg.Depth, reg.Fraction); err != nil {
			return err
		}
	}
	_, err := q.Exec(ctx, `UPDATE burn_case SET tbsa_pct=$2, updated_at=NOW() WHERE id = $1`, caseID, tbsaPct)
	return err
}

func (r *repoPG) GetRegions(ctx context.Context, caseID uuid.UUID) ([]*RegionRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, case_id, region, depth, fraction
		FROM burn_region WHERE case_id = $1 ORDER BY region`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*RegionRecord
	for rows.Next() {
		var reg RegionRecord
		if err := rows.Scan(&reg.ID, &reg.CaseID, &reg.Region, &reg.Depth, &reg.Fraction); err != nil {
			return nil, err
		}
		items = append(items, &reg)
	}
	return items, nil
}

func (r *repoPG) AddVitals(ctx context.Context, v *VitalsRecord) error {
	v.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO burn_vitals (id, case_id, recorded_at, heart_rate, systolic_bp,
			diastolic_bp, spo2, temp_c, urine_output_ml, interval_hours, recorded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		v.ID, v.CaseID, v.RecordedAt, v.HeartRate, v.SystolicBP,
		v.DiastolicBP, v.SpO2, v.TempC, v.UrineOutputML, v.IntervalHours, v.RecordedBy)
	return err
}

func (r *repoPG) ListVitals(ctx context.Context, caseID uuid.UUID) ([]*VitalsRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, case_id, recorded_at, heart_rate, systolic_bp, diastolic_bp,
			spo2, temp_c, urine_output_ml, interval_hours, recorded_by, created_at
		FROM burn_vitals WHERE case_id = $1 ORDER BY recorded_at`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*VitalsRecord
	for rows.Next() {
		var v VitalsRecord
		if err := rows.Scan(&v.ID, &v.CaseID, &v.RecordedAt, &v.HeartRate,
			&v.SystolicBP, &v.DiastolicBP, &v.SpO2, &v.TempC, &v.UrineOutputML,
			&v.IntervalHours, &v.RecordedBy, &v.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &v)
	}
	return items, nil
}

func (r *repoPG) AddFluid(ctx context.Context, f *FluidRecord) error {
	f.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO burn_fluid (id, case_id, volume_ml, fluid_type, period_start,
			period_end, recorded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		f.ID, f.CaseID, f.VolumeML, f.FluidType, f.PeriodStart, f.PeriodEnd, f.RecordedBy)
	return err
}

func (r *repoPG) ListFluids(ctx context.Context, caseID uuid.UUID) ([]*FluidRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, case_id, volume_ml, fluid_type, period_start, period_end,
			recorded_by, created_at
		FROM burn_fluid WHERE case_id = $1 ORDER BY period_start`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*FluidRecord
	for rows.Next() {
		var f FluidRecord
		if err := rows.Scan(&f.ID, &f.CaseID, &f.VolumeML, &f.FluidType,
			&f.PeriodStart, &f.PeriodEnd, &f.RecordedBy, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &f)
	}
	return items, nil
}
