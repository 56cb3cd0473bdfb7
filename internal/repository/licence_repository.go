package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
)

const licenceColumns = `id, booking_id, licence, stage, version, vary_version, transition_date`

// versionBump raises version (or vary_version for post-release edits) on the first edit after the
// current version was saved as an approved version. It expects the post-release flag as $3.
const versionBump = `version = CASE WHEN NOT $3 AND EXISTS (
    SELECT 1 FROM licence_versions v
    WHERE v.booking_id = licences.booking_id AND v.version = licences.version AND v.vary_version = licences.vary_version
  ) THEN licences.version + 1 ELSE licences.version END,
  vary_version = CASE WHEN $3 AND EXISTS (
    SELECT 1 FROM licence_versions v
    WHERE v.booking_id = licences.booking_id AND v.version = licences.version AND v.vary_version = licences.vary_version
  ) THEN licences.vary_version + 1 ELSE licences.vary_version END`

// LicenceRepository stores licences and their approved versions in Postgres.
type LicenceRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewLicenceRepository constructs the repository.
func NewLicenceRepository(db *sqlx.DB) *LicenceRepository {
	return &LicenceRepository{db: db, now: time.Now}
}

// GetLicence returns the licence row for a booking, or nil when the booking has none.
func (r *LicenceRepository) GetLicence(ctx context.Context, bookingID int64) (*models.LicenceRow, error) {
	query := `SELECT ` + licenceColumns + ` FROM licences WHERE booking_id = $1`
	var row models.LicenceRow
	if err := r.db.GetContext(ctx, &row, query, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get licence: %w", err)
	}
	return &row, nil
}

// GetApprovedLicenceVersion returns the most recent approved version, or nil when none was saved.
func (r *LicenceRepository) GetApprovedLicenceVersion(ctx context.Context, bookingID int64) (*models.ApprovedVersion, error) {
	const query = `SELECT id, booking_id, licence, version, vary_version, template, timestamp FROM licence_versions
WHERE booking_id = $1 ORDER BY version DESC, vary_version DESC, id DESC LIMIT 1`
	var version models.ApprovedVersion
	if err := r.db.GetContext(ctx, &version, query, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approved licence version: %w", err)
	}
	return &version, nil
}

// CreateLicence inserts a new licence row.
func (r *LicenceRepository) CreateLicence(ctx context.Context, row *models.LicenceRow) error {
	const query = `INSERT INTO licences (booking_id, licence, stage, version, vary_version)
VALUES (:booking_id, :licence, :stage, :version, :vary_version)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create licence: %w", err)
	}
	return nil
}

// UpdateLicence replaces the whole licence document.
func (r *LicenceRepository) UpdateLicence(ctx context.Context, bookingID int64, licence models.Licence, postRelease bool) error {
	query := `UPDATE licences SET licence = $1, ` + versionBump + ` WHERE booking_id = $2`
	res, err := r.db.ExecContext(ctx, query, licence, bookingID, postRelease)
	if err != nil {
		return fmt.Errorf("update licence: %w", err)
	}
	return requireRow(res, "update licence")
}

// UpdateSection replaces one top-level section of the licence document.
func (r *LicenceRepository) UpdateSection(ctx context.Context, section string, bookingID int64, value []byte, postRelease bool) error {
	query := `UPDATE licences SET licence = jsonb_set(licence, $1, $2::jsonb, true), ` + versionBump + ` WHERE booking_id = $4`
	res, err := r.db.ExecContext(ctx, query, pq.Array([]string{section}), string(value), postRelease, bookingID)
	if err != nil {
		return fmt.Errorf("update licence section %s: %w", section, err)
	}
	return requireRow(res, "update licence section")
}

// UpdateStage moves the licence to stage and records the transition time.
func (r *LicenceRepository) UpdateStage(ctx context.Context, bookingID int64, stage models.Stage) error {
	const query = `UPDATE licences SET stage = $2, transition_date = $3 WHERE booking_id = $1`
	res, err := r.db.ExecContext(ctx, query, bookingID, stage, r.now().UTC())
	if err != nil {
		return fmt.Errorf("update licence stage: %w", err)
	}
	return requireRow(res, "update licence stage")
}

// SaveApprovedLicenceVersion snapshots the current licence with the chosen template.
func (r *LicenceRepository) SaveApprovedLicenceVersion(ctx context.Context, bookingID int64, template string) error {
	const query = `INSERT INTO licence_versions (booking_id, licence, version, vary_version, template, timestamp)
SELECT booking_id, licence, version, vary_version, $2, $3 FROM licences WHERE booking_id = $1`
	res, err := r.db.ExecContext(ctx, query, bookingID, template, r.now().UTC())
	if err != nil {
		return fmt.Errorf("save approved licence version: %w", err)
	}
	return requireRow(res, "save approved licence version")
}

// ListCases returns licences in any of stages, or every licence when stages is empty.
func (r *LicenceRepository) ListCases(ctx context.Context, stages []models.Stage) ([]models.LicenceRow, error) {
	query := `SELECT ` + licenceColumns + ` FROM licences`
	var args []interface{}
	if len(stages) > 0 {
		names := make([]string, len(stages))
		for i, stage := range stages {
			names[i] = string(stage)
		}
		query += ` WHERE stage = ANY($1)`
		args = append(args, pq.Array(names))
	}
	query += ` ORDER BY booking_id ASC`

	var rows []models.LicenceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return rows, nil
}

// DeleteAll removes every licence and approved version.
func (r *LicenceRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete licences tx: %w", err)
	}
	for _, query := range []string{`DELETE FROM licence_versions`, `DELETE FROM licences`} {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete licences: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete licences: %w", err)
	}
	return nil
}

func requireRow(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
