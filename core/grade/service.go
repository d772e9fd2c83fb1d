package grade

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

var (
	// errors
	ErrRemarkNotFound = errors.New("remark not found")
)

type (
	Repository interface {
		UpsertGrade(ctx context.Context, g Grade, exec ...core.DBExecutor) (Grade, error)
		GradesByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]Grade, error)
		CountByQuarter(ctx context.Context, studentID, classID int, exec ...core.DBExecutor) (map[core.Quarter]int, error)

		TuplesByStudentClass(ctx context.Context, studentID, classID int, exec ...core.DBExecutor) ([]Tuple, error)
		TuplesByClassQuarter(ctx context.Context, classID int, quarter core.Quarter, exec ...core.DBExecutor) ([]Tuple, error)
		TuplesByClass(ctx context.Context, classID int, exec ...core.DBExecutor) ([]Tuple, error)

		UpsertRemark(ctx context.Context, r Remark, exec ...core.DBExecutor) (Remark, error)
		GetRemark(ctx context.Context, studentID, classID int, exec ...core.DBExecutor) (Remark, error)
		StudentIDsWithRemarkByClasses(ctx context.Context, classIDs []int, exec ...core.DBExecutor) ([]int, error)
		StudentIDsGradedInSubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]int, error)

		DeleteGradesByStudents(ctx context.Context, studentIDs []int, exec ...core.DBExecutor) error
		DeleteRemarksByStudents(ctx context.Context, studentIDs []int, exec ...core.DBExecutor) error
	}

	// SubjectDirectory is the read-only subjects-per-grade-level lookup
	// supplied by the subject management module.
	SubjectDirectory interface {
		GetSubjectsByGradeLevel(ctx context.Context, gradeLevel int, exec ...core.DBExecutor) ([]school.Subject, error)
		CountSubjectsByGradeLevel(ctx context.Context, gradeLevel int, exec ...core.DBExecutor) (int, error)
	}

	ClassDirectory interface {
		GetClassByID(ctx context.Context, id int, exec ...core.DBExecutor) (school.Class, error)
	}

	// StudentDirectory resolves student ids before grades are written so a
	// submission can never reference a student that was deleted or never
	// registered.
	StudentDirectory interface {
		GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (student.Student, error)
	}

	Service struct {
		db       core.DB
		repo     Repository
		subjects SubjectDirectory
		classes  ClassDirectory
		students StudentDirectory
		validate *validator.Validate
	}
)

func NewService(db core.DB, repo Repository, subjects SubjectDirectory, classes ClassDirectory, students StudentDirectory, validate *validator.Validate) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		subjects: subjects,
		classes:  classes,
		students: students,
		validate: validate,
	}
}

// Upsert stores one quarter's grade entry for a student and re-evaluates the
// remark. The whole batch commits or rolls back together.
func (svc *Service) Upsert(ctx context.Context, sub Submission) (Sheet, error) {
	if err := sub.Validate(svc.validate); err != nil {
		return Sheet{}, err
	}
	quarter := core.Quarter(sub.Quarter)

	cls, err := svc.classes.GetClassByID(ctx, sub.ClassID)
	if err != nil {
		return Sheet{}, core.NewValidationError(err, core.FieldError{Field: "class_id", Error: "unknown class"})
	}
	if _, err = svc.students.GetStudentByID(ctx, sub.StudentID); err != nil {
		return Sheet{}, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: "unknown student"})
	}
	known, err := svc.subjectSet(ctx, cls.GradeLevel)
	if err != nil {
		return Sheet{}, err
	}
	for subjectID := range sub.Grades {
		if !known[subjectID] {
			return Sheet{}, core.NewValidationError(
				errors.New("unknown subject"),
				core.FieldError{Field: "grades", Error: fmt.Sprintf("subject %d is not offered at grade level %d", subjectID, cls.GradeLevel)},
			)
		}
	}

	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return Sheet{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for subjectID, value := range sub.Grades {
		g := Grade{
			StudentID: sub.StudentID,
			SubjectID: subjectID,
			ClassID:   sub.ClassID,
			Quarter:   quarter,
			Grade:     value,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err = svc.repo.UpsertGrade(ctx, g, tx); err != nil {
			return Sheet{}, errors.Wrap(err, "upserting grade")
		}
	}

	if err = svc.evaluateRemark(ctx, sub.StudentID, sub.ClassID, len(known), tx); err != nil {
		return Sheet{}, err
	}
	if err = tx.Commit(); err != nil {
		return Sheet{}, errors.Wrap(err, "committing grade entry")
	}
	return svc.Sheet(ctx, sub.StudentID, sub.ClassID)
}

// evaluateRemark applies the completeness rule: a remark is written iff every
// quarter holds a grade for every subject of the grade level. Partial data
// never produces a visible final average; recomputation after the record
// exists simply overwrites it, which covers late grade corrections.
func (svc *Service) evaluateRemark(ctx context.Context, studentID, classID, totalSubjects int, exec core.DBExecutor) error {
	counts, err := svc.repo.CountByQuarter(ctx, studentID, classID, exec)
	if err != nil {
		return errors.Wrap(err, "counting grades per quarter")
	}
	for _, q := range core.Quarters {
		if counts[q] < totalSubjects {
			return nil
		}
	}

	tuples, err := svc.repo.TuplesByStudentClass(ctx, studentID, classID, exec)
	if err != nil {
		return errors.Wrap(err, "loading grade tuples")
	}
	avg := OverallAverage(tuples)

	remarks := RemarkRetained
	if avg >= PromotionThreshold {
		remarks = RemarkPromoted
	}
	now := time.Now().UTC()
	_, err = svc.repo.UpsertRemark(ctx, Remark{
		StudentID:    studentID,
		ClassID:      classID,
		FinalAverage: Round2(avg),
		Remarks:      remarks,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, exec)
	return errors.Wrap(err, "upserting remark")
}

// Sheet assembles the quarter→subject→grade matrix for one student plus the
// remark, or the In Progress state when any quarter is still incomplete.
func (svc *Service) Sheet(ctx context.Context, studentID, classID int) (Sheet, error) {
	grades, err := svc.repo.GradesByStudent(ctx, studentID)
	if err != nil {
		return Sheet{}, errors.Wrap(err, "loading grades")
	}

	sheet := Sheet{
		StudentID: studentID,
		ClassID:   classID,
		Grades:    make(map[core.Quarter]map[int]float64),
	}
	for _, g := range grades {
		if g.ClassID != classID {
			continue
		}
		if sheet.Grades[g.Quarter] == nil {
			sheet.Grades[g.Quarter] = make(map[int]float64)
		}
		sheet.Grades[g.Quarter][g.SubjectID] = g.Grade
	}

	remark, err := svc.repo.GetRemark(ctx, studentID, classID)
	switch errors.Cause(err) {
	case nil:
		sheet.Remark = &remark
	case ErrRemarkNotFound:
		sheet.InProgress = true
	default:
		return Sheet{}, errors.Wrap(err, "loading remark")
	}
	return sheet, nil
}

// StudentAverage reports the rounded overall average for display; 0 means no
// grades recorded yet.
func (svc *Service) StudentAverage(ctx context.Context, studentID, classID int) (float64, error) {
	tuples, err := svc.repo.TuplesByStudentClass(ctx, studentID, classID)
	if err != nil {
		return 0, errors.Wrap(err, "loading grade tuples")
	}
	return RoundWhole(OverallAverage(tuples)), nil
}

func (svc *Service) subjectSet(ctx context.Context, gradeLevel int) (map[int]bool, error) {
	subs, err := svc.subjects.GetSubjectsByGradeLevel(ctx, gradeLevel)
	if err != nil {
		return nil, errors.Wrap(err, "loading subjects")
	}
	set := make(map[int]bool, len(subs))
	for _, s := range subs {
		set[s.ID] = true
	}
	return set, nil
}
