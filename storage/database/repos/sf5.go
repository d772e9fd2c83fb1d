package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/sf5"
)

type sf5Row struct {
	ID              int           `db:"id"`
	Reference       string        `db:"reference"`
	TeacherID       int           `db:"teacher_id"`
	ClassID         int           `db:"class_id"`
	Region          string        `db:"region"`
	Division        string        `db:"division"`
	SchoolID        string        `db:"school_id"`
	SchoolName      string        `db:"school_name"`
	SchoolYear      string        `db:"school_year"`
	SchoolHeadChair string        `db:"school_head_chair"`
	sf5.Summary
	Status     string        `db:"status"`
	ReviewedBy sql.NullInt64 `db:"reviewed_by"`
	ReviewedAt sql.NullTime  `db:"reviewed_at"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

func (r sf5Row) toRecord() sf5.Record {
	rec := sf5.Record{
		ID:              r.ID,
		Reference:       r.Reference,
		TeacherID:       r.TeacherID,
		ClassID:         r.ClassID,
		Region:          r.Region,
		Division:        r.Division,
		SchoolID:        r.SchoolID,
		SchoolName:      r.SchoolName,
		SchoolYear:      r.SchoolYear,
		SchoolHeadChair: r.SchoolHeadChair,
		Summary:         r.Summary,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.ReviewedBy.Valid {
		id := int(r.ReviewedBy.Int64)
		rec.ReviewedBy = &id
	}
	if r.ReviewedAt.Valid {
		at := r.ReviewedAt.Time
		rec.ReviewedAt = &at
	}
	return rec
}

const sf5Cols = `id, reference, teacher_id, class_id, region, division, school_id, school_name,
	school_year, school_head_chair, male_count, female_count, overall_count,
	promoted_male, promoted_female, conditional_male, conditional_female,
	retained_male, retained_female, below_75_male, below_75_female,
	fair_75_79_male, fair_75_79_female, satisfactory_80_84_male, satisfactory_80_84_female,
	very_satisfactory_85_89_male, very_satisfactory_85_89_female,
	outstanding_90_100_male, outstanding_90_100_female, class_average,
	status, reviewed_by, reviewed_at, created_at, updated_at`

type sf5Repository struct {
	db core.DBExecutor
}

func NewSF5Repository(db core.DBExecutor) sf5.Repository {
	return &sf5Repository{db: db}
}

func (repo *sf5Repository) CreateRecord(ctx context.Context, rec sf5.Record, exec ...core.DBExecutor) (sf5.Record, error) {
	const q = `
		INSERT INTO sf5_records (reference, teacher_id, class_id, region, division, school_id, school_name,
			school_year, school_head_chair, male_count, female_count, overall_count,
			promoted_male, promoted_female, conditional_male, conditional_female,
			retained_male, retained_female, below_75_male, below_75_female,
			fair_75_79_male, fair_75_79_female, satisfactory_80_84_male, satisfactory_80_84_female,
			very_satisfactory_85_89_male, very_satisfactory_85_89_female,
			outstanding_90_100_male, outstanding_90_100_female, class_average,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $31)
		RETURNING id`
	err := executor(repo.db, exec).
		QueryRowContext(ctx, q,
			rec.Reference, rec.TeacherID, rec.ClassID, rec.Region, rec.Division, rec.SchoolID, rec.SchoolName,
			rec.SchoolYear, rec.SchoolHeadChair, rec.MaleCount, rec.FemaleCount, rec.OverallCount,
			rec.PromotedMale, rec.PromotedFemale, rec.ConditionalMale, rec.ConditionalFemale,
			rec.RetainedMale, rec.RetainedFemale, rec.Below75Male, rec.Below75Female,
			rec.Fair7579Male, rec.Fair7579Female, rec.Satisfactory8084Male, rec.Satisfactory8084Female,
			rec.VerySatisfactory8589Male, rec.VerySatisfactory8589Female,
			rec.Outstanding90100Male, rec.Outstanding90100Female, rec.ClassAverage,
			rec.Status, rec.UpdatedAt).
		Scan(&rec.ID)
	if err != nil {
		return sf5.Record{}, errors.Wrap(err, "inserting sf5 record")
	}
	return rec, nil
}

func (repo *sf5Repository) GetRecordByID(ctx context.Context, id int, exec ...core.DBExecutor) (sf5.Record, error) {
	q := `SELECT ` + sf5Cols + ` FROM sf5_records WHERE id = $1`
	var row sf5Row
	if err := executor(repo.db, exec).GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sf5.Record{}, sf5.ErrNotFound
		}
		return sf5.Record{}, errors.Wrap(err, "getting sf5 record")
	}
	return row.toRecord(), nil
}

func (repo *sf5Repository) QueryByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]sf5.Record, error) {
	q := `SELECT ` + sf5Cols + ` FROM sf5_records WHERE teacher_id = $1 ORDER BY created_at DESC`
	var rows []sf5Row
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying sf5 records")
	}
	return sf5Rows(rows), nil
}

func (repo *sf5Repository) QueryAll(ctx context.Context, filter sf5.QueryFilter, exec ...core.DBExecutor) ([]sf5.Record, error) {
	q := `SELECT ` + sf5Cols + ` FROM sf5_records`
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

	var rows []sf5Row
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying sf5 records")
	}
	return sf5Rows(rows), nil
}

func (repo *sf5Repository) UpdateRecord(ctx context.Context, rec sf5.Record, exec ...core.DBExecutor) (sf5.Record, error) {
	const q = `
		UPDATE sf5_records
		SET region = $2, division = $3, school_id = $4, school_name = $5, school_year = $6,
			school_head_chair = $7, status = $8, reviewed_by = $9, reviewed_at = $10, updated_at = $11
		WHERE id = $1`
	reviewedBy := sql.NullInt64{}
	if rec.ReviewedBy != nil {
		reviewedBy = sql.NullInt64{Int64: int64(*rec.ReviewedBy), Valid: true}
	}
	reviewedAt := sql.NullTime{}
	if rec.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *rec.ReviewedAt, Valid: true}
	}
	res, err := executor(repo.db, exec).ExecContext(ctx, q,
		rec.ID, rec.Region, rec.Division, rec.SchoolID, rec.SchoolName, rec.SchoolYear,
		rec.SchoolHeadChair, rec.Status, reviewedBy, reviewedAt, rec.UpdatedAt)
	if err != nil {
		return sf5.Record{}, errors.Wrap(err, "updating sf5 record")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sf5.Record{}, sf5.ErrNotFound
	}
	return rec, nil
}

func (repo *sf5Repository) DeleteRecord(ctx context.Context, id int, exec ...core.DBExecutor) error {
	const q = `DELETE FROM sf5_records WHERE id = $1`
	res, err := executor(repo.db, exec).ExecContext(ctx, q, id)
	if err != nil {
		return errors.Wrap(err, "deleting sf5 record")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sf5.ErrNotFound
	}
	return nil
}

func (repo *sf5Repository) DeleteByTeacherClasses(ctx context.Context, teacherID int, classIDs []int, exec ...core.DBExecutor) error {
	const q = `DELETE FROM sf5_records WHERE teacher_id = $1 AND class_id = ANY($2)`
	if _, err := executor(repo.db, exec).ExecContext(ctx, q, teacherID, pq.Array(classIDs)); err != nil {
		return errors.Wrap(err, "deleting sf5 records")
	}
	return nil
}

func sf5Rows(rows []sf5Row) []sf5.Record {
	recs := make([]sf5.Record, len(rows))
	for i, r := range rows {
		recs[i] = r.toRecord()
	}
	return recs
}
