package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
)

type classRow struct {
	ID         int       `db:"id"`
	Name       string    `db:"name"`
	GradeLevel int       `db:"grade_level"`
	TeacherID  null.Int  `db:"teacher_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r classRow) toClass() school.Class {
	cls := school.Class{
		ID:         r.ID,
		Name:       r.Name,
		GradeLevel: r.GradeLevel,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.TeacherID.Valid {
		id := int(r.TeacherID.Int)
		cls.TeacherID = &id
	}
	return cls
}

type subjectRow struct {
	ID         int       `db:"id"`
	Name       string    `db:"name"`
	GradeLevel int       `db:"grade_level"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r subjectRow) toSubject() school.Subject {
	return school.Subject(r)
}

type schoolRepository struct {
	db core.DBExecutor
}

func NewSchoolRepository(db core.DBExecutor) school.Repository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) CreateClass(ctx context.Context, cls school.Class, exec ...core.DBExecutor) (school.Class, error) {
	const q = `
		INSERT INTO classes (name, grade_level, teacher_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	teacherID := null.IntFromPtr(cls.TeacherID)
	err := executor(repo.db, exec).
		QueryRowContext(ctx, q, cls.Name, cls.GradeLevel, teacherID, cls.CreatedAt, cls.UpdatedAt).
		Scan(&cls.ID)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo *schoolRepository) GetClassByID(ctx context.Context, id int, exec ...core.DBExecutor) (school.Class, error) {
	const q = `SELECT id, name, grade_level, teacher_id, created_at, updated_at FROM classes WHERE id = $1`
	var row classRow
	if err := executor(repo.db, exec).GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return school.Class{}, school.ErrClassNotFound
		}
		return school.Class{}, errors.Wrap(err, "getting class")
	}
	return row.toClass(), nil
}

func (repo *schoolRepository) QueryAllClasses(ctx context.Context, exec ...core.DBExecutor) ([]school.Class, error) {
	const q = `SELECT id, name, grade_level, teacher_id, created_at, updated_at FROM classes ORDER BY grade_level, name`
	var rows []classRow
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classRows(rows), nil
}

func (repo *schoolRepository) GetClassesByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]school.Class, error) {
	const q = `SELECT id, name, grade_level, teacher_id, created_at, updated_at FROM classes WHERE teacher_id = $1 ORDER BY grade_level, name`
	var rows []classRow
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying teacher classes")
	}
	return classRows(rows), nil
}

func (repo *schoolRepository) SetClassTeacher(ctx context.Context, classID, teacherID int, exec ...core.DBExecutor) error {
	const q = `UPDATE classes SET teacher_id = $2, updated_at = now() WHERE id = $1`
	res, err := executor(repo.db, exec).ExecContext(ctx, q, classID, teacherID)
	if err != nil {
		return errors.Wrap(err, "assigning teacher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return school.ErrClassNotFound
	}
	return nil
}

func (repo *schoolRepository) CreateSubject(ctx context.Context, sub school.Subject, exec ...core.DBExecutor) (school.Subject, error) {
	const q = `
		INSERT INTO subjects (name, grade_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := executor(repo.db, exec).
		QueryRowContext(ctx, q, sub.Name, sub.GradeLevel, sub.CreatedAt, sub.UpdatedAt).
		Scan(&sub.ID)
	if err != nil {
		return school.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return sub, nil
}

func (repo *schoolRepository) GetSubjectByID(ctx context.Context, id int, exec ...core.DBExecutor) (school.Subject, error) {
	const q = `SELECT id, name, grade_level, created_at, updated_at FROM subjects WHERE id = $1`
	var row subjectRow
	if err := executor(repo.db, exec).GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return school.Subject{}, school.ErrSubjectNotFound
		}
		return school.Subject{}, errors.Wrap(err, "getting subject")
	}
	return row.toSubject(), nil
}

func (repo *schoolRepository) QuerySubjects(ctx context.Context, gradeLevel *int, exec ...core.DBExecutor) ([]school.Subject, error) {
	q := `SELECT id, name, grade_level, created_at, updated_at FROM subjects`
	args := make([]interface{}, 0, 1)
	if gradeLevel != nil {
		q += ` WHERE grade_level = $1`
		args = append(args, *gradeLevel)
	}
	q += ` ORDER BY grade_level, name`

	var rows []subjectRow
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	return subjectRows(rows), nil
}

func (repo *schoolRepository) GetSubjectsByGradeLevel(ctx context.Context, gradeLevel int, exec ...core.DBExecutor) ([]school.Subject, error) {
	return repo.QuerySubjects(ctx, &gradeLevel, exec...)
}

func (repo *schoolRepository) CountSubjectsByGradeLevel(ctx context.Context, gradeLevel int, exec ...core.DBExecutor) (int, error) {
	const q = `SELECT COUNT(*) FROM subjects WHERE grade_level = $1`
	var count int
	if err := executor(repo.db, exec).GetContext(ctx, &count, q, gradeLevel); err != nil {
		return 0, errors.Wrap(err, "counting subjects")
	}
	return count, nil
}

func (repo *schoolRepository) UpdateSubject(ctx context.Context, sub school.Subject, exec ...core.DBExecutor) (school.Subject, error) {
	const q = `UPDATE subjects SET name = $2, grade_level = $3, updated_at = $4 WHERE id = $1`
	res, err := executor(repo.db, exec).ExecContext(ctx, q, sub.ID, sub.Name, sub.GradeLevel, sub.UpdatedAt)
	if err != nil {
		return school.Subject{}, errors.Wrap(err, "updating subject")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return school.Subject{}, school.ErrSubjectNotFound
	}
	return sub, nil
}

func (repo *schoolRepository) DeleteSubject(ctx context.Context, id int, exec ...core.DBExecutor) error {
	const q = `DELETE FROM subjects WHERE id = $1`
	res, err := executor(repo.db, exec).ExecContext(ctx, q, id)
	if err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return school.ErrSubjectNotFound
	}
	return nil
}

func classRows(rows []classRow) []school.Class {
	classes := make([]school.Class, len(rows))
	for i, r := range rows {
		classes[i] = r.toClass()
	}
	return classes
}

func subjectRows(rows []subjectRow) []school.Subject {
	subjects := make([]school.Subject, len(rows))
	for i, r := range rows {
		subjects[i] = r.toSubject()
	}
	return subjects
}

func intPtr64(p *int) *int64 {
	if p == nil {
		return nil
	}
	v := int64(*p)
	return &v
}
