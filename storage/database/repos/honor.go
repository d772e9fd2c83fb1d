package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/honor"
)

type honorRollRow struct {
	ID                     int           `db:"id"`
	Reference              string        `db:"reference"`
	TeacherID              int           `db:"teacher_id"`
	ClassID                int           `db:"class_id"`
	SchoolYear             string        `db:"school_year"`
	Quarter                string        `db:"quarter"`
	PrincipalName          string        `db:"principal_name"`
	WithHonorsCount        int           `db:"with_honors_count"`
	WithHighHonorsCount    int           `db:"with_high_honors_count"`
	WithHighestHonorsCount int           `db:"with_highest_honors_count"`
	Status                 string        `db:"status"`
	ReviewedBy             sql.NullInt64 `db:"reviewed_by"`
	ReviewedAt             sql.NullTime  `db:"reviewed_at"`
	CreatedAt              time.Time     `db:"created_at"`
	UpdatedAt              time.Time     `db:"updated_at"`
}

func (r honorRollRow) toHonorRoll() honor.HonorRoll {
	hr := honor.HonorRoll{
		ID:                     r.ID,
		Reference:              r.Reference,
		TeacherID:              r.TeacherID,
		ClassID:                r.ClassID,
		SchoolYear:             r.SchoolYear,
		Quarter:                r.Quarter,
		PrincipalName:          r.PrincipalName,
		WithHonorsCount:        r.WithHonorsCount,
		WithHighHonorsCount:    r.WithHighHonorsCount,
		WithHighestHonorsCount: r.WithHighestHonorsCount,
		Status:                 r.Status,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
	if r.ReviewedBy.Valid {
		id := int(r.ReviewedBy.Int64)
		hr.ReviewedBy = &id
	}
	if r.ReviewedAt.Valid {
		at := r.ReviewedAt.Time
		hr.ReviewedAt = &at
	}
	return hr
}

const honorRollCols = `id, reference, teacher_id, class_id, school_year, quarter, principal_name,
	with_honors_count, with_high_honors_count, with_highest_honors_count,
	status, reviewed_by, reviewed_at, created_at, updated_at`

type honorRepository struct {
	db core.DBExecutor
}

func NewHonorRepository(db core.DBExecutor) honor.Repository {
	return &honorRepository{db: db}
}

func (repo *honorRepository) CreateHonorRoll(ctx context.Context, hr honor.HonorRoll, exec ...core.DBExecutor) (honor.HonorRoll, error) {
	const q = `
		INSERT INTO honor_rolls (reference, teacher_id, class_id, school_year, quarter, principal_name,
			with_honors_count, with_high_honors_count, with_highest_honors_count, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING id`
	err := executor(repo.db, exec).
		QueryRowContext(ctx, q, hr.Reference, hr.TeacherID, hr.ClassID, hr.SchoolYear, hr.Quarter, hr.PrincipalName,
			hr.WithHonorsCount, hr.WithHighHonorsCount, hr.WithHighestHonorsCount, hr.Status, hr.UpdatedAt).
		Scan(&hr.ID)
	if err != nil {
		return honor.HonorRoll{}, errors.Wrap(err, "inserting honor roll")
	}
	return hr, nil
}

func (repo *honorRepository) GetHonorRollByID(ctx context.Context, id int, exec ...core.DBExecutor) (honor.HonorRoll, error) {
	q := `SELECT ` + honorRollCols + ` FROM honor_rolls WHERE id = $1`
	var row honorRollRow
	if err := executor(repo.db, exec).GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return honor.HonorRoll{}, honor.ErrNotFound
		}
		return honor.HonorRoll{}, errors.Wrap(err, "getting honor roll")
	}
	return row.toHonorRoll(), nil
}

func (repo *honorRepository) QueryByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]honor.HonorRoll, error) {
	q := `SELECT ` + honorRollCols + ` FROM honor_rolls WHERE teacher_id = $1 ORDER BY created_at DESC`
	var rows []honorRollRow
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying honor rolls")
	}
	return honorRollRows(rows), nil
}

func (repo *honorRepository) QueryAll(ctx context.Context, filter honor.QueryFilter, exec ...core.DBExecutor) ([]honor.HonorRoll, error) {
	q := `SELECT ` + honorRollCols + ` FROM honor_rolls`
	var args []interface{}
	where := func(cond string, val interface{}) {
		args = append(args, val)
		if len(args) == 1 {
			q += ` WHERE `
		} else {
			q += ` AND `
		}
		q += fmt.Sprintf(cond, len(args))
	}
	if filter.TeacherID != nil {
		where(`teacher_id = $%d`, *filter.TeacherID)
	}
	if filter.Status != "" {
		where(`status = $%d`, filter.Status)
	}
	q += ` ORDER BY created_at DESC`

	var rows []honorRollRow
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying honor rolls")
	}
	return honorRollRows(rows), nil
}

func (repo *honorRepository) UpdateReview(ctx context.Context, hr honor.HonorRoll, exec ...core.DBExecutor) (honor.HonorRoll, error) {
	const q = `
		UPDATE honor_rolls
		SET status = $2, reviewed_by = $3, reviewed_at = $4, updated_at = $5
		WHERE id = $1`
	reviewedBy := sql.NullInt64{}
	if hr.ReviewedBy != nil {
		reviewedBy = sql.NullInt64{Int64: int64(*hr.ReviewedBy), Valid: true}
	}
	reviewedAt := sql.NullTime{}
	if hr.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *hr.ReviewedAt, Valid: true}
	}
	res, err := executor(repo.db, exec).ExecContext(ctx, q, hr.ID, hr.Status, reviewedBy, reviewedAt, hr.UpdatedAt)
	if err != nil {
		return honor.HonorRoll{}, errors.Wrap(err, "updating honor roll review")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return honor.HonorRoll{}, honor.ErrNotFound
	}
	return hr, nil
}

func (repo *honorRepository) DeleteHonorRoll(ctx context.Context, id int, exec ...core.DBExecutor) error {
	const q = `DELETE FROM honor_rolls WHERE id = $1`
	res, err := executor(repo.db, exec).ExecContext(ctx, q, id)
	if err != nil {
		return errors.Wrap(err, "deleting honor roll")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return honor.ErrNotFound
	}
	return nil
}

func (repo *honorRepository) DeleteByTeacherClasses(ctx context.Context, teacherID int, classIDs []int, exec ...core.DBExecutor) error {
	const q = `DELETE FROM honor_rolls WHERE teacher_id = $1 AND class_id = ANY($2)`
	if _, err := executor(repo.db, exec).ExecContext(ctx, q, teacherID, pq.Array(classIDs)); err != nil {
		return errors.Wrap(err, "deleting honor rolls")
	}
	return nil
}

func honorRollRows(rows []honorRollRow) []honor.HonorRoll {
	hrs := make([]honor.HonorRoll, len(rows))
	for i, r := range rows {
		hrs[i] = r.toHonorRoll()
	}
	return hrs
}
