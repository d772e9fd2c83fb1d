package promotion

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
)

var (
	// errors
	ErrPromotionFailed = errors.New("promotion failed, no changes were applied")
)

type (
	// StudentStore is the slice of student persistence the workflow needs.
	StudentStore interface {
		MoveStudentsToClass(ctx context.Context, studentIDs []int, classID int, exec ...core.DBExecutor) error
		// AcquireClassLock serializes concurrent batch moves touching the
		// same class for the life of the current transaction.
		AcquireClassLock(ctx context.Context, classID int, exec ...core.DBExecutor) error
	}

	GradeStore interface {
		StudentIDsWithRemarkByClasses(ctx context.Context, classIDs []int, exec ...core.DBExecutor) ([]int, error)
		DeleteGradesByStudents(ctx context.Context, studentIDs []int, exec ...core.DBExecutor) error
		DeleteRemarksByStudents(ctx context.Context, studentIDs []int, exec ...core.DBExecutor) error
	}

	// ReportCache deletes persisted report summaries; the honor roll and SF5
	// repositories both satisfy it.
	ReportCache interface {
		DeleteByTeacherClasses(ctx context.Context, teacherID int, classIDs []int, exec ...core.DBExecutor) error
	}

	ClassDirectory interface {
		GetClassByID(ctx context.Context, id int, exec ...core.DBExecutor) (school.Class, error)
		GetClassesByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]school.Class, error)
	}

	Result struct {
		Processed int    `json:"processed"`
		Message   string `json:"message"`
	}

	Service struct {
		db       core.DB
		students StudentStore
		grades   GradeStore
		classes  ClassDirectory
		honors   ReportCache
		sf5s     ReportCache
		logger   core.Logger
	}
)

func NewService(db core.DB, students StudentStore, grades GradeStore, classes ClassDirectory, honors, sf5s ReportCache, logger core.Logger) *Service {
	return &Service{
		db:       db,
		students: students,
		grades:   grades,
		classes:  classes,
		honors:   honors,
		sf5s:     sf5s,
		logger:   logger,
	}
}

// Promote moves every student holding a final remark in the teacher's classes
// into the target class and wipes their grade history, remarks and the
// teacher's cached reports. Everything happens in one transaction; a failure
// anywhere leaves all records untouched.
func (svc *Service) Promote(ctx context.Context, teacherID, targetClassID int) (Result, error) {
	classes, err := svc.classes.GetClassesByTeacher(ctx, teacherID)
	if err != nil {
		return Result{}, errors.Wrap(err, "loading teacher classes")
	}
	if len(classes) == 0 {
		return Result{Message: "not assigned to any class"}, nil
	}
	classIDs := make([]int, len(classes))
	for i, cls := range classes {
		classIDs[i] = cls.ID
	}

	if _, err = svc.classes.GetClassByID(ctx, targetClassID); err != nil {
		return Result{}, err
	}

	studentIDs, err := svc.grades.StudentIDsWithRemarkByClasses(ctx, classIDs)
	if err != nil {
		return Result{}, errors.Wrap(err, "finding students with remarks")
	}
	if len(studentIDs) == 0 {
		return Result{Message: "nothing to promote"}, nil
	}

	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err = svc.promoteTx(ctx, tx, teacherID, targetClassID, classIDs, studentIDs); err != nil {
		svc.logger.Error("promotion batch failed", err, map[string]interface{}{"teacher_id": teacherID, "target_class_id": targetClassID})
		return Result{}, ErrPromotionFailed
	}
	if err = tx.Commit(); err != nil {
		svc.logger.Error("promotion commit failed", err, map[string]interface{}{"teacher_id": teacherID})
		return Result{}, ErrPromotionFailed
	}

	return Result{Processed: len(studentIDs), Message: "promotion complete"}, nil
}

func (svc *Service) promoteTx(ctx context.Context, tx core.DBTransactor, teacherID, targetClassID int, classIDs, studentIDs []int) error {
	// lock source classes and target in ascending id order so overlapping
	// batches never acquire them in conflicting orders
	lockIDs := append(append([]int{}, classIDs...), targetClassID)
	sort.Ints(lockIDs)
	for _, id := range lockIDs {
		if err := svc.students.AcquireClassLock(ctx, id, tx); err != nil {
			return errors.Wrapf(err, "locking class %d", id)
		}
	}
	if err := svc.students.MoveStudentsToClass(ctx, studentIDs, targetClassID, tx); err != nil {
		return errors.Wrap(err, "reassigning students")
	}
	if err := svc.ResetForStudents(ctx, studentIDs, tx); err != nil {
		return err
	}
	return svc.ResetClassCaches(ctx, teacherID, classIDs, tx)
}

// ResetForStudents deletes the grades then the remarks of the given students.
// Shared by promotion, unapproval, bulk grade clearing and subject deletion.
func (svc *Service) ResetForStudents(ctx context.Context, studentIDs []int, exec ...core.DBExecutor) error {
	if len(studentIDs) == 0 {
		return nil
	}
	if err := svc.grades.DeleteGradesByStudents(ctx, studentIDs, exec...); err != nil {
		return errors.Wrap(err, "deleting grades")
	}
	if err := svc.grades.DeleteRemarksByStudents(ctx, studentIDs, exec...); err != nil {
		return errors.Wrap(err, "deleting remarks")
	}
	return nil
}

// ResetClassCaches drops the teacher's stored honor roll and SF5 summaries
// for the given classes. Stale counters must not outlive the grades they
// were computed from.
func (svc *Service) ResetClassCaches(ctx context.Context, teacherID int, classIDs []int, exec ...core.DBExecutor) error {
	if len(classIDs) == 0 {
		return nil
	}
	if err := svc.honors.DeleteByTeacherClasses(ctx, teacherID, classIDs, exec...); err != nil {
		return errors.Wrap(err, "deleting honor roll caches")
	}
	if err := svc.sf5s.DeleteByTeacherClasses(ctx, teacherID, classIDs, exec...); err != nil {
		return errors.Wrap(err, "deleting sf5 caches")
	}
	return nil
}
