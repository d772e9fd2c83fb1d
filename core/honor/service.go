package honor

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("honor roll not found")
)

type (
	Repository interface {
		CreateHonorRoll(ctx context.Context, hr HonorRoll, exec ...core.DBExecutor) (HonorRoll, error)
		GetHonorRollByID(ctx context.Context, id int, exec ...core.DBExecutor) (HonorRoll, error)
		QueryByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]HonorRoll, error)
		QueryAll(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]HonorRoll, error)
		UpdateReview(ctx context.Context, hr HonorRoll, exec ...core.DBExecutor) (HonorRoll, error)
		DeleteHonorRoll(ctx context.Context, id int, exec ...core.DBExecutor) error
		DeleteByTeacherClasses(ctx context.Context, teacherID int, classIDs []int, exec ...core.DBExecutor) error
	}

	TupleSource interface {
		TuplesByClassQuarter(ctx context.Context, classID int, quarter core.Quarter, exec ...core.DBExecutor) ([]grade.Tuple, error)
	}

	ClassDirectory interface {
		GetClassByID(ctx context.Context, id int, exec ...core.DBExecutor) (school.Class, error)
	}

	Roster interface {
		QueryRoster(ctx context.Context, classID int, filter student.QueryFilter, exec ...core.DBExecutor) ([]student.Student, error)
	}

	Service struct {
		repo     Repository
		grades   TupleSource
		classes  ClassDirectory
		roster   Roster
		validate *validator.Validate
	}
)

func NewService(repo Repository, grades TupleSource, classes ClassDirectory, roster Roster, validate *validator.Validate) *Service {
	return &Service{
		repo:     repo,
		grades:   grades,
		classes:  classes,
		roster:   roster,
		validate: validate,
	}
}

// Generate classifies the class for the requested quarter, persists the
// summary counters and returns the full ordered detail for rendering.
func (svc *Service) Generate(ctx context.Context, nh NewHonorRoll) (Report, error) {
	if err := nh.Validate(svc.validate); err != nil {
		return Report{}, err
	}
	quarter, err := core.ParseQuarterLabel(nh.Quarter)
	if err != nil {
		return Report{}, core.NewValidationError(err, core.FieldError{Field: "quarter", Error: "invalid quarter selected"})
	}

	cls, err := svc.teacherClass(ctx, nh.TeacherID, nh.ClassID)
	if err != nil {
		return Report{}, err
	}

	entries, counts, err := svc.classifyClass(ctx, cls.ID, quarter)
	if err != nil {
		return Report{}, err
	}

	now := time.Now().UTC()
	rec, err := svc.repo.CreateHonorRoll(ctx, HonorRoll{
		Reference:              uuid.NewString(),
		TeacherID:              nh.TeacherID,
		ClassID:                cls.ID,
		SchoolYear:             nh.SchoolYear,
		Quarter:                nh.Quarter,
		PrincipalName:          nh.PrincipalName,
		WithHonorsCount:        counts.WithHonors,
		WithHighHonorsCount:    counts.WithHighHonors,
		WithHighestHonorsCount: counts.WithHighestHonors,
		Status:                 StatusPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	})
	if err != nil {
		return Report{}, errors.Wrap(err, "saving honor roll")
	}
	return Report{Record: rec, Entries: entries}, nil
}

// Regenerate recomputes the detail list for a stored summary from the live
// grade store; the stored counters are a cache, never the source of truth.
func (svc *Service) Regenerate(ctx context.Context, id int) (Report, error) {
	rec, err := svc.repo.GetHonorRollByID(ctx, id)
	if err != nil {
		return Report{}, err
	}
	quarter, err := core.ParseQuarterLabel(rec.Quarter)
	if err != nil {
		return Report{}, errors.Wrap(err, "stored quarter label is invalid")
	}
	entries, _, err := svc.classifyClass(ctx, rec.ClassID, quarter)
	if err != nil {
		return Report{}, err
	}
	return Report{Record: rec, Entries: entries}, nil
}

func (svc *Service) QueryByTeacher(ctx context.Context, teacherID int) ([]HonorRoll, error) {
	return svc.repo.QueryByTeacher(ctx, teacherID)
}

func (svc *Service) QueryAll(ctx context.Context, filter QueryFilter) ([]HonorRoll, error) {
	return svc.repo.QueryAll(ctx, filter)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetHonorRollByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteHonorRoll(ctx, id)
}

// ToggleReviewed flips a record between pending and reviewed, stamping the
// reviewing admin.
func (svc *Service) ToggleReviewed(ctx context.Context, id, adminID int) (HonorRoll, error) {
	rec, err := svc.repo.GetHonorRollByID(ctx, id)
	if err != nil {
		return HonorRoll{}, err
	}
	if rec.Status == StatusReviewed {
		rec.Status = StatusPending
		rec.ReviewedBy = nil
		rec.ReviewedAt = nil
	} else {
		now := time.Now().UTC()
		rec.Status = StatusReviewed
		rec.ReviewedBy = &adminID
		rec.ReviewedAt = &now
	}
	rec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateReview(ctx, rec)
}

func (svc *Service) classifyClass(ctx context.Context, classID int, quarter core.Quarter) ([]Entry, Counts, error) {
	roster, err := svc.roster.QueryRoster(ctx, classID, student.QueryFilter{})
	if err != nil {
		return nil, Counts{}, errors.Wrap(err, "loading roster")
	}
	tuples, err := svc.grades.TuplesByClassQuarter(ctx, classID, quarter)
	if err != nil {
		return nil, Counts{}, errors.Wrap(err, "loading grade tuples")
	}
	byStudent := grade.GroupByStudent(tuples)

	// roster order fixes encounter order, which tie-breaks equal averages
	input := make([]StudentGrades, 0, len(roster))
	for _, std := range roster {
		values := make([]float64, 0, len(byStudent[std.ID]))
		for _, t := range byStudent[std.ID] {
			values = append(values, t.Grade)
		}
		input = append(input, StudentGrades{StudentID: std.ID, Name: std.ListName(), Grades: values})
	}

	entries, counts := Classify(input)
	return entries, counts, nil
}

func (svc *Service) teacherClass(ctx context.Context, teacherID, classID int) (school.Class, error) {
	cls, err := svc.classes.GetClassByID(ctx, classID)
	if err != nil {
		return school.Class{}, err
	}
	if cls.TeacherID == nil || *cls.TeacherID != teacherID {
		return school.Class{}, school.ErrClassNotFound
	}
	return cls, nil
}
