package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
)

type gradeRow struct {
	ID        int          `db:"id"`
	StudentID int          `db:"student_id"`
	SubjectID int          `db:"subject_id"`
	ClassID   int          `db:"class_id"`
	Quarter   core.Quarter `db:"quarter"`
	Grade     float64      `db:"grade"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

func (r gradeRow) toGrade() grade.Grade {
	return grade.Grade(r)
}

type remarkRow struct {
	ID           int       `db:"id"`
	StudentID    int       `db:"student_id"`
	ClassID      int       `db:"class_id"`
	FinalAverage float64   `db:"final_average"`
	Remarks      string    `db:"remarks"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r remarkRow) toRemark() grade.Remark {
	return grade.Remark(r)
}

type gradeRepository struct {
	db core.DBExecutor
}

func NewGradeRepository(db core.DBExecutor) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) UpsertGrade(ctx context.Context, g grade.Grade, exec ...core.DBExecutor) (grade.Grade, error) {
	const q = `
		INSERT INTO grades (student_id, subject_id, class_id, quarter, grade, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (student_id, subject_id, quarter, class_id)
		DO UPDATE SET grade = EXCLUDED.grade, updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := executor(repo.db, exec).
		QueryRowContext(ctx, q, g.StudentID, g.SubjectID, g.ClassID, g.Quarter, g.Grade, g.UpdatedAt).
		Scan(&g.ID)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "upserting grade")
	}
	return g, nil
}

func (repo *gradeRepository) GradesByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]grade.Grade, error) {
	const q = `
		SELECT id, student_id, subject_id, class_id, quarter, grade, created_at, updated_at
		FROM grades WHERE student_id = $1 ORDER BY quarter, subject_id`
	var rows []gradeRow
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student grades")
	}
	grades := make([]grade.Grade, len(rows))
	for i, r := range rows {
		grades[i] = r.toGrade()
	}
	return grades, nil
}

func (repo *gradeRepository) CountByQuarter(ctx context.Context, studentID, classID int, exec ...core.DBExecutor) (map[core.Quarter]int, error) {
	const q = `
		SELECT quarter, COUNT(*) AS count
		FROM grades WHERE student_id = $1 AND class_id = $2
		GROUP BY quarter`
	var rows []struct {
		Quarter core.Quarter `db:"quarter"`
		Count   int          `db:"count"`
	}
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q, studentID, classID); err != nil {
		return nil, errors.Wrap(err, "counting grades per quarter")
	}
	counts := make(map[core.Quarter]int, len(rows))
	for _, r := range rows {
		counts[r.Quarter] = r.Count
	}
	return counts, nil
}

const tupleCols = `student_id, subject_id, quarter, grade`

func (repo *gradeRepository) TuplesByStudentClass(ctx context.Context, studentID, classID int, exec ...core.DBExecutor) ([]grade.Tuple, error) {
	q := `SELECT ` + tupleCols + ` FROM grades WHERE student_id = $1 AND class_id = $2`
	var tuples []grade.Tuple
	if err := executor(repo.db, exec).SelectContext(ctx, &tuples, q, studentID, classID); err != nil {
		return nil, errors.Wrap(err, "querying grade tuples")
	}
	return tuples, nil
}

func (repo *gradeRepository) TuplesByClassQuarter(ctx context.Context, classID int, quarter core.Quarter, exec ...core.DBExecutor) ([]grade.Tuple, error) {
	q := `SELECT ` + tupleCols + ` FROM grades WHERE class_id = $1 AND quarter = $2`
	var tuples []grade.Tuple
	if err := executor(repo.db, exec).SelectContext(ctx, &tuples, q, classID, quarter); err != nil {
		return nil, errors.Wrap(err, "querying grade tuples")
	}
	return tuples, nil
}

func (repo *gradeRepository) TuplesByClass(ctx context.Context, classID int, exec ...core.DBExecutor) ([]grade.Tuple, error) {
	q := `SELECT ` + tupleCols + ` FROM grades WHERE class_id = $1`
	var tuples []grade.Tuple
	if err := executor(repo.db, exec).SelectContext(ctx, &tuples, q, classID); err != nil {
		return nil, errors.Wrap(err, "querying grade tuples")
	}
	return tuples, nil
}

func (repo *gradeRepository) UpsertRemark(ctx context.Context, r grade.Remark, exec ...core.DBExecutor) (grade.Remark, error) {
	const q = `
		INSERT INTO grade_remarks (student_id, class_id, final_average, remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (student_id, class_id)
		DO UPDATE SET final_average = EXCLUDED.final_average, remarks = EXCLUDED.remarks, updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := executor(repo.db, exec).
		QueryRowContext(ctx, q, r.StudentID, r.ClassID, r.FinalAverage, r.Remarks, r.UpdatedAt).
		Scan(&r.ID)
	if err != nil {
		return grade.Remark{}, errors.Wrap(err, "upserting remark")
	}
	return r, nil
}

func (repo *gradeRepository) GetRemark(ctx context.Context, studentID, classID int, exec ...core.DBExecutor) (grade.Remark, error) {
	const q = `
		SELECT id, student_id, class_id, final_average, remarks, created_at, updated_at
		FROM grade_remarks WHERE student_id = $1 AND class_id = $2`
	var row remarkRow
	if err := executor(repo.db, exec).GetContext(ctx, &row, q, studentID, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return grade.Remark{}, grade.ErrRemarkNotFound
		}
		return grade.Remark{}, errors.Wrap(err, "getting remark")
	}
	return row.toRemark(), nil
}

func (repo *gradeRepository) StudentIDsWithRemarkByClasses(ctx context.Context, classIDs []int, exec ...core.DBExecutor) ([]int, error) {
	const q = `SELECT DISTINCT student_id FROM grade_remarks WHERE class_id = ANY($1)`
	var ids []int
	if err := executor(repo.db, exec).SelectContext(ctx, &ids, q, pq.Array(classIDs)); err != nil {
		return nil, errors.Wrap(err, "querying remarked students")
	}
	return ids, nil
}

func (repo *gradeRepository) StudentIDsGradedInSubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]int, error) {
	const q = `SELECT DISTINCT student_id FROM grades WHERE subject_id = $1`
	var ids []int
	if err := executor(repo.db, exec).SelectContext(ctx, &ids, q, subjectID); err != nil {
		return nil, errors.Wrap(err, "querying graded students")
	}
	return ids, nil
}

func (repo *gradeRepository) DeleteGradesByStudents(ctx context.Context, studentIDs []int, exec ...core.DBExecutor) error {
	const q = `DELETE FROM grades WHERE student_id = ANY($1)`
	if _, err := executor(repo.db, exec).ExecContext(ctx, q, pq.Array(studentIDs)); err != nil {
		return errors.Wrap(err, "deleting grades")
	}
	return nil
}

func (repo *gradeRepository) DeleteRemarksByStudents(ctx context.Context, studentIDs []int, exec ...core.DBExecutor) error {
	const q = `DELETE FROM grade_remarks WHERE student_id = ANY($1)`
	if _, err := executor(repo.db, exec).ExecContext(ctx, q, pq.Array(studentIDs)); err != nil {
		return errors.Wrap(err, "deleting remarks")
	}
	return nil
}
