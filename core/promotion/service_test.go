package promotion_test

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/promotion"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
	inmemdb "github.com/axcelc2326/Group2-Capstone-SchoolRecord/storage/database/inmem"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fixture struct {
	db          *inmemdb.DB
	svc         *promotion.Service
	schoolRepo  school.Repository
	studentRepo student.Repository
	gradeRepo   grade.Repository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := inmemdb.NewDB()
	schoolRepo := inmemdb.NewSchoolRepository(db)
	studentRepo := inmemdb.NewStudentRepository(db)
	gradeRepo := inmemdb.NewGradeRepository(db)
	honorRepo := inmemdb.NewHonorRepository(db)
	sf5Repo := inmemdb.NewSF5Repository(db)
	svc := promotion.NewService(db, studentRepo, gradeRepo, schoolRepo, honorRepo, sf5Repo, nopLogger{})
	return &fixture{db: db, svc: svc, schoolRepo: schoolRepo, studentRepo: studentRepo, gradeRepo: gradeRepo}
}

func (f *fixture) createClass(t *testing.T, name string, gradeLevel int, teacherID *int) school.Class {
	t.Helper()
	now := time.Now().UTC()
	cls, err := f.schoolRepo.CreateClass(context.Background(), school.Class{
		Name:       name,
		GradeLevel: gradeLevel,
		TeacherID:  teacherID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("createClass() failed: %v", err)
	}
	return cls
}

func (f *fixture) createStudent(t *testing.T, first, last string, classID int) student.Student {
	t.Helper()
	now := time.Now().UTC()
	std, err := f.studentRepo.CreateStudent(context.Background(), student.Student{
		FirstName: first,
		LastName:  last,
		Gender:    student.GenderMale,
		ClassID:   &classID,
		ParentID:  100,
		Approved:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

func (f *fixture) createRemark(t *testing.T, studentID, classID int, avg float64) {
	t.Helper()
	now := time.Now().UTC()
	remarks := grade.RemarkRetained
	if avg >= grade.PromotionThreshold {
		remarks = grade.RemarkPromoted
	}
	if _, err := f.gradeRepo.UpsertRemark(context.Background(), grade.Remark{
		StudentID:    studentID,
		ClassID:      classID,
		FinalAverage: avg,
		Remarks:      remarks,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("createRemark() failed: %v", err)
	}
	if _, err := f.gradeRepo.UpsertGrade(context.Background(), grade.Grade{
		StudentID: studentID,
		SubjectID: 1,
		ClassID:   classID,
		Quarter:   "Q1",
		Grade:     avg,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("createRemark() failed: %v", err)
	}
}

func TestService_Promote(t *testing.T) {
	f := setup(t)
	teacherID := 7

	source := f.createClass(t, "Grade 3 - Sampaguita", 3, &teacherID)
	target := f.createClass(t, "Grade 4 - Rosal", 4, nil)

	done := f.createStudent(t, "Ana", "Reyes", source.ID)
	alsoDone := f.createStudent(t, "Ben", "Santos", source.ID)
	inProgress := f.createStudent(t, "Carla", "Cruz", source.ID)
	f.createRemark(t, done.ID, source.ID, 88)
	f.createRemark(t, alsoDone.ID, source.ID, 72)

	res, err := f.svc.Promote(context.Background(), teacherID, target.ID)
	if err != nil {
		t.Fatalf("Promote() failed: %v", err)
	}
	if res.Processed != 2 {
		t.Errorf("Processed = %d, want 2", res.Processed)
	}

	ctx := context.Background()
	for _, id := range []int{done.ID, alsoDone.ID} {
		std, err := f.studentRepo.GetStudentByID(ctx, id)
		if err != nil {
			t.Fatalf("GetStudentByID(%d) failed: %v", id, err)
		}
		if std.ClassID == nil || *std.ClassID != target.ID {
			t.Errorf("student %d class = %v, want %d", id, std.ClassID, target.ID)
		}
		grades, err := f.gradeRepo.GradesByStudent(ctx, id)
		if err != nil {
			t.Fatalf("GradesByStudent(%d) failed: %v", id, err)
		}
		if len(grades) != 0 {
			t.Errorf("student %d still has %d grades after promotion", id, len(grades))
		}
	}

	// the student without a remark stays put, grades intact
	std, err := f.studentRepo.GetStudentByID(ctx, inProgress.ID)
	if err != nil {
		t.Fatalf("GetStudentByID() failed: %v", err)
	}
	if std.ClassID == nil || *std.ClassID != source.ID {
		t.Errorf("in-progress student moved to %v", std.ClassID)
	}

	withRemark, err := f.gradeRepo.StudentIDsWithRemarkByClasses(ctx, []int{source.ID, target.ID})
	if err != nil {
		t.Fatalf("StudentIDsWithRemarkByClasses() failed: %v", err)
	}
	if len(withRemark) != 0 {
		t.Errorf("remarks survived promotion: %v", withRemark)
	}
}

func TestService_Promote_benignNoOps(t *testing.T) {
	t.Run("teacher without classes", func(t *testing.T) {
		f := setup(t)
		target := f.createClass(t, "Grade 4 - Rosal", 4, nil)

		res, err := f.svc.Promote(context.Background(), 42, target.ID)
		if err != nil {
			t.Fatalf("Promote() failed: %v", err)
		}
		if res.Processed != 0 {
			t.Errorf("Processed = %d, want 0", res.Processed)
		}
	})

	t.Run("no students with final records", func(t *testing.T) {
		f := setup(t)
		teacherID := 7
		source := f.createClass(t, "Grade 3 - Sampaguita", 3, &teacherID)
		target := f.createClass(t, "Grade 4 - Rosal", 4, nil)
		f.createStudent(t, "Ana", "Reyes", source.ID)

		res, err := f.svc.Promote(context.Background(), teacherID, target.ID)
		if err != nil {
			t.Fatalf("Promote() failed: %v", err)
		}
		if res.Processed != 0 {
			t.Errorf("Processed = %d, want 0", res.Processed)
		}
	})

	t.Run("unknown target class", func(t *testing.T) {
		f := setup(t)
		teacherID := 7
		source := f.createClass(t, "Grade 3 - Sampaguita", 3, &teacherID)
		std := f.createStudent(t, "Ana", "Reyes", source.ID)
		f.createRemark(t, std.ID, source.ID, 80)

		if _, err := f.svc.Promote(context.Background(), teacherID, 9999); err == nil {
			t.Error("Promote() expected an error for an unknown target class")
		}
	})
}

// lockRecordingStore notes the class ids as locks are taken.
type lockRecordingStore struct {
	promotion.StudentStore
	locked []int
}

func (s *lockRecordingStore) AcquireClassLock(ctx context.Context, classID int, exec ...core.DBExecutor) error {
	s.locked = append(s.locked, classID)
	return s.StudentStore.AcquireClassLock(ctx, classID, exec...)
}

func TestService_Promote_locksClassesInAscendingOrder(t *testing.T) {
	f := setup(t)
	teacherID := 7

	// the target comes first so its id sorts below the source classes
	target := f.createClass(t, "Grade 4 - Rosal", 4, nil)
	first := f.createClass(t, "Grade 3 - Sampaguita", 3, &teacherID)
	second := f.createClass(t, "Grade 3 - Rosas", 3, &teacherID)

	stdA := f.createStudent(t, "Ana", "Reyes", first.ID)
	stdB := f.createStudent(t, "Ben", "Santos", second.ID)
	f.createRemark(t, stdA.ID, first.ID, 80)
	f.createRemark(t, stdB.ID, second.ID, 80)

	store := &lockRecordingStore{StudentStore: f.studentRepo.(promotion.StudentStore)}
	svc := promotion.NewService(f.db, store, f.gradeRepo, f.schoolRepo,
		inmemdb.NewHonorRepository(f.db), inmemdb.NewSF5Repository(f.db), nopLogger{})

	if _, err := svc.Promote(context.Background(), teacherID, target.ID); err != nil {
		t.Fatalf("Promote() failed: %v", err)
	}

	want := []int{first.ID, second.ID, target.ID}
	sort.Ints(want)
	if !reflect.DeepEqual(store.locked, want) {
		t.Errorf("lock order = %v, want %v", store.locked, want)
	}
}

func TestService_Promote_atomicity(t *testing.T) {
	hooks := []string{"MoveStudentsToClass", "DeleteGradesByStudents", "DeleteRemarksByStudents"}
	for _, hook := range hooks {
		t.Run(hook, func(t *testing.T) {
			f := setup(t)
			teacherID := 7
			source := f.createClass(t, "Grade 3 - Sampaguita", 3, &teacherID)
			target := f.createClass(t, "Grade 4 - Rosal", 4, nil)
			std := f.createStudent(t, "Ana", "Reyes", source.ID)
			f.createRemark(t, std.ID, source.ID, 80)

			f.db.FailOnce(hook, context.DeadlineExceeded)

			_, err := f.svc.Promote(context.Background(), teacherID, target.ID)
			if !errors.Is(err, promotion.ErrPromotionFailed) {
				t.Fatalf("Promote() error = %v, want ErrPromotionFailed", err)
			}

			// everything must be exactly as before the attempt
			ctx := context.Background()
			got, err := f.studentRepo.GetStudentByID(ctx, std.ID)
			if err != nil {
				t.Fatalf("GetStudentByID() failed: %v", err)
			}
			if got.ClassID == nil || *got.ClassID != source.ID {
				t.Errorf("student class = %v, want %d", got.ClassID, source.ID)
			}
			grades, err := f.gradeRepo.GradesByStudent(ctx, std.ID)
			if err != nil {
				t.Fatalf("GradesByStudent() failed: %v", err)
			}
			if len(grades) != 1 {
				t.Errorf("grades = %d, want 1", len(grades))
			}
			withRemark, err := f.gradeRepo.StudentIDsWithRemarkByClasses(ctx, []int{source.ID})
			if err != nil {
				t.Fatalf("StudentIDsWithRemarkByClasses() failed: %v", err)
			}
			if len(withRemark) != 1 {
				t.Errorf("remarks = %v, want the original one", withRemark)
			}
		})
	}
}
