package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
)

var (
	// errors
	ErrNotFound  = errors.New("student not found")
	ErrNotOwned  = errors.New("student does not belong to this parent")
	ErrNoClass   = errors.New("student is not assigned to any class")
	ErrClassFull = errors.New("class roster is full") // reserved; no cap enforced yet
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student, exec ...core.DBExecutor) (Student, error)
		GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (Student, error)
		UpdateStudent(ctx context.Context, std Student, exec ...core.DBExecutor) (Student, error)
		DeleteStudent(ctx context.Context, id int, exec ...core.DBExecutor) error

		QueryByParent(ctx context.Context, parentID int, exec ...core.DBExecutor) ([]Student, error)
		QueryPendingByClasses(ctx context.Context, classIDs []int, exec ...core.DBExecutor) ([]Student, error)
		QueryRoster(ctx context.Context, classID int, filter QueryFilter, exec ...core.DBExecutor) ([]Student, error)
		StudentIDsByClasses(ctx context.Context, classIDs []int, exec ...core.DBExecutor) ([]int, error)

		SetApproval(ctx context.Context, id int, approved bool, exec ...core.DBExecutor) error
		ClearClass(ctx context.Context, ids []int, exec ...core.DBExecutor) error
	}

	// ClassDirectory is the read-only class lookup supplied by the class
	// management module.
	ClassDirectory interface {
		GetClassByID(ctx context.Context, id int, exec ...core.DBExecutor) (school.Class, error)
		GetClassesByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]school.Class, error)
	}

	// DerivedRecords invalidates everything computed from a student's grades.
	// Implemented by the promotion package so every reset path shares one
	// well-tested deletion order.
	DerivedRecords interface {
		ResetForStudents(ctx context.Context, studentIDs []int, exec ...core.DBExecutor) error
		ResetClassCaches(ctx context.Context, teacherID int, classIDs []int, exec ...core.DBExecutor) error
	}

	Service struct {
		db       core.DB
		repo     Repository
		classes  ClassDirectory
		derived  DerivedRecords
		validate *validator.Validate
	}
)

func NewService(db core.DB, repo Repository, classes ClassDirectory, derived DerivedRecords, validate *validator.Validate) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		classes:  classes,
		derived:  derived,
		validate: validate,
	}
}

// Register creates a student in the Pending Approval state.
func (svc *Service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if _, err := svc.classes.GetClassByID(ctx, ns.ClassID); err != nil {
		return Student{}, core.NewValidationError(err, core.FieldError{Field: "class_id", Error: "unknown class"})
	}

	now := time.Now().UTC()
	std := Student{
		FirstName:  ns.FirstName,
		MiddleName: ns.MiddleName,
		LastName:   ns.LastName,
		LRN:        ns.LRN,
		Gender:     ns.Gender,
		ClassID:    &ns.ClassID,
		ParentID:   ns.ParentID,
		Approved:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) QueryByParent(ctx context.Context, parentID int) ([]Student, error) {
	return svc.repo.QueryByParent(ctx, parentID)
}

// Update edits a student's identity fields; parent-scoped.
func (svc *Service) Update(ctx context.Context, id, parentID int, us UpdateStudent) (Student, error) {
	if err := us.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	std, err := svc.getOwned(ctx, id, parentID)
	if err != nil {
		return Student{}, err
	}
	if _, err = svc.classes.GetClassByID(ctx, us.ClassID); err != nil {
		return Student{}, core.NewValidationError(err, core.FieldError{Field: "class_id", Error: "unknown class"})
	}

	std.FirstName = us.FirstName
	std.MiddleName = us.MiddleName
	std.LastName = us.LastName
	std.ClassID = &us.ClassID
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

// Delete removes a student and cascades every derived record (grades, remarks).
func (svc *Service) Delete(ctx context.Context, id, parentID int) error {
	if _, err := svc.getOwned(ctx, id, parentID); err != nil {
		return err
	}

	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err = svc.derived.ResetForStudents(ctx, []int{id}, tx); err != nil {
		return errors.Wrap(err, "resetting derived records")
	}
	if err = svc.repo.DeleteStudent(ctx, id, tx); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return errors.Wrap(tx.Commit(), "committing student delete")
}

// Approve moves a pending student onto the class roster.
func (svc *Service) Approve(ctx context.Context, id int) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if err = svc.repo.SetApproval(ctx, std.ID, true); err != nil {
		return Student{}, errors.Wrap(err, "approving student")
	}
	return svc.repo.GetStudentByID(ctx, id)
}

// Deny rejects a pending student: approval is revoked and the class assignment
// cleared. Grades, if any slipped in, are deliberately left untouched; the
// stronger Unapprove path purges them.
func (svc *Service) Deny(ctx context.Context, id int) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}

	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return Student{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err = svc.repo.SetApproval(ctx, std.ID, false, tx); err != nil {
		return Student{}, errors.Wrap(err, "revoking approval")
	}
	if err = svc.repo.ClearClass(ctx, []int{std.ID}, tx); err != nil {
		return Student{}, errors.Wrap(err, "clearing class")
	}
	if err = tx.Commit(); err != nil {
		return Student{}, errors.Wrap(err, "committing deny")
	}
	return svc.repo.GetStudentByID(ctx, id)
}

// Unapprove revokes approval, clears the class assignment and deletes the
// student's grades and remarks: a full reset back to Pending Approval.
func (svc *Service) Unapprove(ctx context.Context, id int) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}

	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return Student{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err = svc.resetOne(ctx, std, tx); err != nil {
		return Student{}, err
	}
	if err = tx.Commit(); err != nil {
		return Student{}, errors.Wrap(err, "committing unapprove")
	}
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) resetOne(ctx context.Context, std Student, tx core.DBTransactor) error {
	if err := svc.repo.SetApproval(ctx, std.ID, false, tx); err != nil {
		return errors.Wrap(err, "revoking approval")
	}
	if err := svc.repo.ClearClass(ctx, []int{std.ID}, tx); err != nil {
		return errors.Wrap(err, "clearing class")
	}
	return errors.Wrap(svc.derived.ResetForStudents(ctx, []int{std.ID}, tx), "resetting derived records")
}

// UnapproveAll resets every student in the teacher's classes and drops the
// teacher's cached honor-roll and SF5 snapshots. Returns the number of
// students reset; zero is a benign no-op.
func (svc *Service) UnapproveAll(ctx context.Context, teacherID int) (int, error) {
	classIDs, err := svc.teacherClassIDs(ctx, teacherID)
	if err != nil || len(classIDs) == 0 {
		return 0, err
	}
	ids, err := svc.repo.StudentIDsByClasses(ctx, classIDs)
	if err != nil {
		return 0, errors.Wrap(err, "listing students")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		if err = svc.repo.SetApproval(ctx, id, false, tx); err != nil {
			return 0, errors.Wrap(err, "revoking approval")
		}
	}
	if err = svc.repo.ClearClass(ctx, ids, tx); err != nil {
		return 0, errors.Wrap(err, "clearing classes")
	}
	if err = svc.derived.ResetForStudents(ctx, ids, tx); err != nil {
		return 0, errors.Wrap(err, "resetting derived records")
	}
	if err = svc.derived.ResetClassCaches(ctx, teacherID, classIDs, tx); err != nil {
		return 0, errors.Wrap(err, "resetting cached reports")
	}
	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing unapprove all")
	}
	return len(ids), nil
}

// ClearGrades wipes one student's grades and, with them, the remark whose
// completeness basis they were.
func (svc *Service) ClearGrades(ctx context.Context, id int) error {
	if _, err := svc.repo.GetStudentByID(ctx, id); err != nil {
		return err
	}

	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err = svc.derived.ResetForStudents(ctx, []int{id}, tx); err != nil {
		return errors.Wrap(err, "resetting derived records")
	}
	return errors.Wrap(tx.Commit(), "committing grade clear")
}

// ClearAllGrades wipes grades, remarks and cached reports for the teacher's
// full roster in one transaction. Returns the number of students touched.
func (svc *Service) ClearAllGrades(ctx context.Context, teacherID int) (int, error) {
	classIDs, err := svc.teacherClassIDs(ctx, teacherID)
	if err != nil || len(classIDs) == 0 {
		return 0, err
	}
	ids, err := svc.repo.StudentIDsByClasses(ctx, classIDs)
	if err != nil {
		return 0, errors.Wrap(err, "listing students")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err = svc.derived.ResetForStudents(ctx, ids, tx); err != nil {
		return 0, errors.Wrap(err, "resetting derived records")
	}
	if err = svc.derived.ResetClassCaches(ctx, teacherID, classIDs, tx); err != nil {
		return 0, errors.Wrap(err, "resetting cached reports")
	}
	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing grade clear")
	}
	return len(ids), nil
}

// QueryPendingForTeacher lists unapproved students across the teacher's classes.
func (svc *Service) QueryPendingForTeacher(ctx context.Context, teacherID int) ([]Student, error) {
	classIDs, err := svc.teacherClassIDs(ctx, teacherID)
	if err != nil || len(classIDs) == 0 {
		return nil, err
	}
	return svc.repo.QueryPendingByClasses(ctx, classIDs)
}

// QueryRoster lists approved students of one class, ordered by last name.
func (svc *Service) QueryRoster(ctx context.Context, classID int, filter QueryFilter) ([]Student, error) {
	filter.Clean()
	return svc.repo.QueryRoster(ctx, classID, filter)
}

func (svc *Service) teacherClassIDs(ctx context.Context, teacherID int) ([]int, error) {
	classes, err := svc.classes.GetClassesByTeacher(ctx, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "listing teacher classes")
	}
	ids := make([]int, 0, len(classes))
	for _, cls := range classes {
		ids = append(ids, cls.ID)
	}
	return ids, nil
}

func (svc *Service) getOwned(ctx context.Context, id, parentID int) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if std.ParentID != parentID {
		return Student{}, ErrNotOwned
	}
	return std, nil
}
