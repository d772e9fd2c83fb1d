package sf5

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
	ErrNotFound = errors.New("sf5 record not found")
)

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record, exec ...core.DBExecutor) (Record, error)
		GetRecordByID(ctx context.Context, id int, exec ...core.DBExecutor) (Record, error)
		QueryByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]Record, error)
		QueryAll(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Record, error)
		UpdateRecord(ctx context.Context, rec Record, exec ...core.DBExecutor) (Record, error)
		DeleteRecord(ctx context.Context, id int, exec ...core.DBExecutor) error
		DeleteByTeacherClasses(ctx context.Context, teacherID int, classIDs []int, exec ...core.DBExecutor) error
	}

	TupleSource interface {
		TuplesByClass(ctx context.Context, classID int, exec ...core.DBExecutor) ([]grade.Tuple, error)
	}

	ClassDirectory interface {
		GetClassByID(ctx context.Context, id int, exec ...core.DBExecutor) (school.Class, error)
	}

	Roster interface {
		QueryRoster(ctx context.Context, classID int, filter student.QueryFilter, exec ...core.DBExecutor) ([]student.Student, error)
	}

	// Report pairs a stored record with its recomputed detail.
	Report struct {
		Record     Record     `json:"record"`
		Tabulation Tabulation `json:"tabulation"`
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

// Generate tabulates the class over its full grade history, persists the
// counters with the submitted form metadata and returns the detail payload.
func (svc *Service) Generate(ctx context.Context, ns NewSF5) (Report, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Report{}, err
	}
	cls, err := svc.teacherClass(ctx, ns.TeacherID, ns.ClassID)
	if err != nil {
		return Report{}, err
	}

	tab, err := svc.tabulateClass(ctx, cls.ID)
	if err != nil {
		return Report{}, err
	}

	now := time.Now().UTC()
	rec, err := svc.repo.CreateRecord(ctx, Record{
		Reference:       uuid.NewString(),
		TeacherID:       ns.TeacherID,
		ClassID:         cls.ID,
		Region:          ns.Region,
		Division:        ns.Division,
		SchoolID:        ns.SchoolID,
		SchoolName:      ns.SchoolName,
		SchoolYear:      ns.SchoolYear,
		SchoolHeadChair: ns.SchoolHeadChair,
		Summary:         tab.Summary,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return Report{}, errors.Wrap(err, "saving sf5 record")
	}
	return Report{Record: rec, Tabulation: tab}, nil
}

// Regenerate recomputes the tabulation for a stored record from the live
// grade store. The stored metadata is reused as-is.
func (svc *Service) Regenerate(ctx context.Context, id int) (Report, error) {
	rec, err := svc.repo.GetRecordByID(ctx, id)
	if err != nil {
		return Report{}, err
	}
	tab, err := svc.tabulateClass(ctx, rec.ClassID)
	if err != nil {
		return Report{}, err
	}
	return Report{Record: rec, Tabulation: tab}, nil
}

func (svc *Service) QueryByTeacher(ctx context.Context, teacherID int) ([]Record, error) {
	return svc.repo.QueryByTeacher(ctx, teacherID)
}

func (svc *Service) QueryAll(ctx context.Context, filter QueryFilter) ([]Record, error) {
	return svc.repo.QueryAll(ctx, filter)
}

// UpdateMeta rewrites the header fields of a stored record; counters stay put.
func (svc *Service) UpdateMeta(ctx context.Context, id int, um UpdateMeta) (Record, error) {
	if err := um.Validate(svc.validate); err != nil {
		return Record{}, err
	}
	rec, err := svc.repo.GetRecordByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	rec.Region = um.Region
	rec.Division = um.Division
	rec.SchoolID = um.SchoolID
	rec.SchoolName = um.SchoolName
	rec.SchoolYear = um.SchoolYear
	rec.SchoolHeadChair = um.SchoolHeadChair
	rec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRecord(ctx, rec)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetRecordByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteRecord(ctx, id)
}

func (svc *Service) ToggleReviewed(ctx context.Context, id, adminID int) (Record, error) {
	rec, err := svc.repo.GetRecordByID(ctx, id)
	if err != nil {
		return Record{}, err
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
	return svc.repo.UpdateRecord(ctx, rec)
}

func (svc *Service) tabulateClass(ctx context.Context, classID int) (Tabulation, error) {
	roster, err := svc.roster.QueryRoster(ctx, classID, student.QueryFilter{})
	if err != nil {
		return Tabulation{}, errors.Wrap(err, "loading roster")
	}
	tuples, err := svc.grades.TuplesByClass(ctx, classID)
	if err != nil {
		return Tabulation{}, errors.Wrap(err, "loading grade tuples")
	}
	return Tabulate(roster, tuples), nil
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
