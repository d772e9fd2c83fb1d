package school

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
)

var (
	// errors
	ErrClassNotFound   = errors.New("class not found")
	ErrSubjectNotFound = errors.New("subject not found")
)

type (
	Repository interface {
		CreateClass(ctx context.Context, cls Class, exec ...core.DBExecutor) (Class, error)
		GetClassByID(ctx context.Context, id int, exec ...core.DBExecutor) (Class, error)
		QueryAllClasses(ctx context.Context, exec ...core.DBExecutor) ([]Class, error)
		GetClassesByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]Class, error)
		SetClassTeacher(ctx context.Context, classID, teacherID int, exec ...core.DBExecutor) error

		CreateSubject(ctx context.Context, sub Subject, exec ...core.DBExecutor) (Subject, error)
		GetSubjectByID(ctx context.Context, id int, exec ...core.DBExecutor) (Subject, error)
		QuerySubjects(ctx context.Context, gradeLevel *int, exec ...core.DBExecutor) ([]Subject, error)
		GetSubjectsByGradeLevel(ctx context.Context, gradeLevel int, exec ...core.DBExecutor) ([]Subject, error)
		CountSubjectsByGradeLevel(ctx context.Context, gradeLevel int, exec ...core.DBExecutor) (int, error)
		UpdateSubject(ctx context.Context, sub Subject, exec ...core.DBExecutor) (Subject, error)
		DeleteSubject(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	// RemarkInvalidator drops stored final-average records whose completeness
	// basis no longer holds; implemented by the grade repository.
	RemarkInvalidator interface {
		StudentIDsGradedInSubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]int, error)
		DeleteRemarksByStudents(ctx context.Context, studentIDs []int, exec ...core.DBExecutor) error
	}

	Service struct {
		db       core.DB
		repo     Repository
		remarks  RemarkInvalidator
		validate *validator.Validate
	}
)

func NewService(db core.DB, repo Repository, remarks RemarkInvalidator, validate *validator.Validate) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		remarks:  remarks,
		validate: validate,
	}
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Class{}, err
	}
	now := time.Now().UTC()
	cls := Class{
		Name:       nc.Name,
		GradeLevel: nc.GradeLevel,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *Service) AssignTeacher(ctx context.Context, at AssignTeacher) (Class, error) {
	if err := at.Validate(svc.validate); err != nil {
		return Class{}, err
	}
	if _, err := svc.repo.GetClassByID(ctx, at.ClassID); err != nil {
		return Class{}, err
	}
	if err := svc.repo.SetClassTeacher(ctx, at.ClassID, at.TeacherID); err != nil {
		return Class{}, errors.Wrap(err, "assigning teacher")
	}
	return svc.repo.GetClassByID(ctx, at.ClassID)
}

func (svc *Service) QueryAllClasses(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryAllClasses(ctx)
}

func (svc *Service) GetClassByID(ctx context.Context, id int) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) GetClassesByTeacher(ctx context.Context, teacherID int) ([]Class, error) {
	return svc.repo.GetClassesByTeacher(ctx, teacherID)
}

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Subject{}, err
	}
	now := time.Now().UTC()
	sub := Subject{
		Name:       ns.Name,
		GradeLevel: ns.GradeLevel,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateSubject(ctx, sub)
}

func (svc *Service) QuerySubjects(ctx context.Context, gradeLevel *int) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx, gradeLevel)
}

func (svc *Service) GetSubjectsByGradeLevel(ctx context.Context, gradeLevel int) ([]Subject, error) {
	return svc.repo.GetSubjectsByGradeLevel(ctx, gradeLevel)
}

func (svc *Service) UpdateSubject(ctx context.Context, id int, us UpdateSubject) (Subject, error) {
	if err := us.Validate(svc.validate); err != nil {
		return Subject{}, err
	}
	sub, err := svc.repo.GetSubjectByID(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	sub.Name = us.Name
	sub.GradeLevel = us.GradeLevel
	sub.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSubject(ctx, sub)
}

// DeleteSubject removes a subject and its grades (cascade), and invalidates the
// stored final-average records of every student who had a grade in it: their
// completeness basis has changed, so the remark must be recomputed from the
// next grade entry.
func (svc *Service) DeleteSubject(ctx context.Context, id int) error {
	if _, err := svc.repo.GetSubjectByID(ctx, id); err != nil {
		return err
	}

	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	studentIDs, err := svc.remarks.StudentIDsGradedInSubject(ctx, id, tx)
	if err != nil {
		return errors.Wrap(err, "listing graded students")
	}
	if len(studentIDs) > 0 {
		if err = svc.remarks.DeleteRemarksByStudents(ctx, studentIDs, tx); err != nil {
			return errors.Wrap(err, "invalidating remarks")
		}
	}
	if err = svc.repo.DeleteSubject(ctx, id, tx); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return errors.Wrap(tx.Commit(), "committing subject delete")
}
