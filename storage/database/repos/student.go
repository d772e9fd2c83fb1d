package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

type studentRow struct {
	ID         int       `db:"id"`
	ParentID   int       `db:"parent_id"`
	FirstName  string    `db:"first_name"`
	MiddleName string    `db:"middle_name"`
	LastName   string    `db:"last_name"`
	LRN        string    `db:"lrn"`
	Gender     string    `db:"gender"`
	ClassID    null.Int  `db:"class_id"`
	Approved   bool      `db:"approved_by_teacher"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r studentRow) toStudent() student.Student {
	std := student.Student{
		ID:         r.ID,
		FirstName:  r.FirstName,
		MiddleName: r.MiddleName,
		LastName:   r.LastName,
		LRN:        r.LRN,
		Gender:     r.Gender,
		ParentID:   r.ParentID,
		Approved:   r.Approved,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.ClassID.Valid {
		id := int(r.ClassID.Int)
		std.ClassID = &id
	}
	return std
}

const studentCols = `id, parent_id, first_name, middle_name, last_name, lrn, gender, class_id, approved_by_teacher, created_at, updated_at`

type studentRepository struct {
	db core.DBExecutor
}

func NewStudentRepository(db core.DBExecutor) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student, exec ...core.DBExecutor) (student.Student, error) {
	const q = `
		INSERT INTO students (parent_id, first_name, middle_name, last_name, lrn, gender, class_id, approved_by_teacher, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	classID := null.IntFromPtr(std.ClassID)
	err := executor(repo.db, exec).
		QueryRowContext(ctx, q, std.ParentID, std.FirstName, std.MiddleName, std.LastName, std.LRN, std.Gender, classID, std.Approved, std.CreatedAt, std.UpdatedAt).
		Scan(&std.ID)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (student.Student, error) {
	q := `SELECT ` + studentCols + ` FROM students WHERE id = $1`
	var row studentRow
	if err := executor(repo.db, exec).GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.toStudent(), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student, exec ...core.DBExecutor) (student.Student, error) {
	const q = `
		UPDATE students
		SET first_name = $2, middle_name = $3, last_name = $4, lrn = $5, gender = $6, class_id = $7, updated_at = $8
		WHERE id = $1`
	classID := null.IntFromPtr(std.ClassID)
	res, err := executor(repo.db, exec).ExecContext(ctx, q, std.ID, std.FirstName, std.MiddleName, std.LastName, std.LRN, std.Gender, classID, std.UpdatedAt)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id int, exec ...core.DBExecutor) error {
	const q = `DELETE FROM students WHERE id = $1`
	res, err := executor(repo.db, exec).ExecContext(ctx, q, id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo *studentRepository) QueryByParent(ctx context.Context, parentID int, exec ...core.DBExecutor) ([]student.Student, error) {
	q := `SELECT ` + studentCols + ` FROM students WHERE parent_id = $1 ORDER BY last_name, first_name`
	var rows []studentRow
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q, parentID); err != nil {
		return nil, errors.Wrap(err, "querying students by parent")
	}
	return studentRows(rows), nil
}

func (repo *studentRepository) QueryPendingByClasses(ctx context.Context, classIDs []int, exec ...core.DBExecutor) ([]student.Student, error) {
	q := `SELECT ` + studentCols + ` FROM students WHERE class_id = ANY($1) AND NOT approved_by_teacher ORDER BY created_at`
	var rows []studentRow
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q, pq.Array(classIDs)); err != nil {
		return nil, errors.Wrap(err, "querying pending students")
	}
	return studentRows(rows), nil
}

func (repo *studentRepository) QueryRoster(ctx context.Context, classID int, filter student.QueryFilter, exec ...core.DBExecutor) ([]student.Student, error) {
	q := `SELECT ` + studentCols + ` FROM students WHERE class_id = $1 AND approved_by_teacher`
	args := []interface{}{classID}
	if filter.Search != "" {
		q += ` AND (first_name ILIKE $2 OR last_name ILIKE $2 OR lrn ILIKE $2)`
		args = append(args, "%"+filter.Search+"%")
	}
	q += rosterOrderBy(filter.Ordering)

	var rows []studentRow
	if err := executor(repo.db, exec).SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying roster")
	}
	return studentRows(rows), nil
}

func (repo *studentRepository) StudentIDsByClasses(ctx context.Context, classIDs []int, exec ...core.DBExecutor) ([]int, error) {
	const q = `SELECT id FROM students WHERE class_id = ANY($1)`
	var ids []int
	if err := executor(repo.db, exec).SelectContext(ctx, &ids, q, pq.Array(classIDs)); err != nil {
		return nil, errors.Wrap(err, "querying student ids")
	}
	return ids, nil
}

func (repo *studentRepository) SetApproval(ctx context.Context, id int, approved bool, exec ...core.DBExecutor) error {
	const q = `UPDATE students SET approved_by_teacher = $2, updated_at = now() WHERE id = $1`
	res, err := executor(repo.db, exec).ExecContext(ctx, q, id, approved)
	if err != nil {
		return errors.Wrap(err, "setting approval")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo *studentRepository) ClearClass(ctx context.Context, ids []int, exec ...core.DBExecutor) error {
	const q = `UPDATE students SET class_id = NULL, updated_at = now() WHERE id = ANY($1)`
	if _, err := executor(repo.db, exec).ExecContext(ctx, q, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "clearing class assignment")
	}
	return nil
}

func (repo *studentRepository) MoveStudentsToClass(ctx context.Context, studentIDs []int, classID int, exec ...core.DBExecutor) error {
	const q = `UPDATE students SET class_id = $2, updated_at = now() WHERE id = ANY($1)`
	if _, err := executor(repo.db, exec).ExecContext(ctx, q, pq.Array(studentIDs), classID); err != nil {
		return errors.Wrap(err, "moving students")
	}
	return nil
}

// AcquireClassLock blocks concurrent batch moves on the same class until the
// surrounding transaction ends.
func (repo *studentRepository) AcquireClassLock(ctx context.Context, classID int, exec ...core.DBExecutor) error {
	const q = `SELECT pg_advisory_xact_lock($1)`
	if _, err := executor(repo.db, exec).ExecContext(ctx, q, classID); err != nil {
		return errors.Wrap(err, "acquiring class lock")
	}
	return nil
}

// rosterOrderableCols whitelists the columns a caller may order rosters by.
var rosterOrderableCols = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"lrn":        true,
	"created_at": true,
}

func rosterOrderBy(orderings []core.DBOrdering) string {
	var clauses []string
	for _, ord := range orderings {
		if rosterOrderableCols[ord.Field] {
			clauses = append(clauses, ord.String())
		}
	}
	if len(clauses) == 0 {
		return ` ORDER BY last_name, first_name`
	}
	return ` ORDER BY ` + strings.Join(clauses, ", ")
}

func studentRows(rows []studentRow) []student.Student {
	students := make([]student.Student, len(rows))
	for i, r := range rows {
		students[i] = r.toStudent()
	}
	return students
}
