package sf5_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/sf5"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
	inmemdb "github.com/axcelc2326/Group2-Capstone-SchoolRecord/storage/database/inmem"
)

type fixture struct {
	svc         *sf5.Service
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
	sf5Repo := inmemdb.NewSF5Repository(db)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	svc := sf5.NewService(sf5Repo, gradeRepo, schoolRepo, studentRepo, validate)
	return &fixture{svc: svc, schoolRepo: schoolRepo, studentRepo: studentRepo, gradeRepo: gradeRepo}
}

func (f *fixture) createClass(t *testing.T, teacherID int) school.Class {
	t.Helper()
	now := time.Now().UTC()
	cls, err := f.schoolRepo.CreateClass(context.Background(), school.Class{
		Name:       "Grade 6 - Mabini",
		GradeLevel: 6,
		TeacherID:  &teacherID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("createClass() failed: %v", err)
	}
	return cls
}

func (f *fixture) enrollWithAverage(t *testing.T, first, last, gender string, classID int, avg float64) student.Student {
	t.Helper()
	now := time.Now().UTC()
	std, err := f.studentRepo.CreateStudent(context.Background(), student.Student{
		FirstName: first,
		LastName:  last,
		Gender:    gender,
		ClassID:   &classID,
		ParentID:  100,
		Approved:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("enrollWithAverage() failed: %v", err)
	}
	if avg > 0 {
		for _, q := range core.Quarters {
			if _, err := f.gradeRepo.UpsertGrade(context.Background(), grade.Grade{
				StudentID: std.ID,
				SubjectID: 1,
				ClassID:   classID,
				Quarter:   q,
				Grade:     avg,
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				t.Fatalf("enrollWithAverage() failed: %v", err)
			}
		}
	}
	return std
}

func newSF5(teacherID, classID int) sf5.NewSF5 {
	return sf5.NewSF5{
		TeacherID:       teacherID,
		ClassID:         classID,
		Region:          "Region X",
		Division:        "Misamis Oriental",
		SchoolID:        "123456",
		SchoolName:      "Central Elementary School",
		SchoolYear:      "2025-2026",
		SchoolHeadChair: "Dr. Luz Mendoza",
	}
}

func TestService_Generate(t *testing.T) {
	f := setup(t)
	teacherID := 7
	cls := f.createClass(t, teacherID)

	f.enrollWithAverage(t, "Ana", "Reyes", student.GenderFemale, cls.ID, 92)
	f.enrollWithAverage(t, "Ben", "Santos", student.GenderMale, cls.ID, 72)
	f.enrollWithAverage(t, "Carla", "Cruz", student.GenderFemale, cls.ID, 0) // ungraded

	report, err := f.svc.Generate(context.Background(), newSF5(teacherID, cls.ID))
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	rec := report.Record
	if rec.ID == 0 || rec.Reference == "" {
		t.Errorf("record not persisted: %+v", rec)
	}
	if rec.Status != sf5.StatusPending {
		t.Errorf("status = %q, want %q", rec.Status, sf5.StatusPending)
	}
	// the ungraded student is missing from every counter
	if rec.OverallCount != 2 || rec.MaleCount != 1 || rec.FemaleCount != 1 {
		t.Errorf("totals = %d/%d/%d, want 2/1/1", rec.OverallCount, rec.MaleCount, rec.FemaleCount)
	}
	if rec.PromotedFemale != 1 || rec.ConditionalMale != 1 {
		t.Errorf("actions = %+v", rec.Summary)
	}
	if rec.ClassAverage != 82 {
		t.Errorf("class average = %v, want 82", rec.ClassAverage)
	}

	if len(report.Tabulation.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(report.Tabulation.Rows))
	}
}

func TestService_Generate_rejectsForeignClass(t *testing.T) {
	f := setup(t)
	cls := f.createClass(t, 7)

	_, err := f.svc.Generate(context.Background(), newSF5(8, cls.ID))
	if errors.Cause(err) != school.ErrClassNotFound {
		t.Errorf("Generate() error = %v, want ErrClassNotFound", err)
	}
}

func TestService_Generate_validation(t *testing.T) {
	f := setup(t)
	teacherID := 7
	cls := f.createClass(t, teacherID)

	tests := []struct {
		name   string
		mutate func(*sf5.NewSF5)
	}{
		{name: "missing region", mutate: func(ns *sf5.NewSF5) { ns.Region = "" }},
		{name: "malformed school year", mutate: func(ns *sf5.NewSF5) { ns.SchoolYear = "25-26" }},
		{name: "missing teacher", mutate: func(ns *sf5.NewSF5) { ns.TeacherID = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := newSF5(teacherID, cls.ID)
			tt.mutate(&ns)
			if _, err := f.svc.Generate(context.Background(), ns); err == nil {
				t.Error("Generate() expected an error, got nil")
			}
		})
	}
}

func TestService_UpdateMeta_keepsCounters(t *testing.T) {
	f := setup(t)
	teacherID := 7
	cls := f.createClass(t, teacherID)
	f.enrollWithAverage(t, "Ana", "Reyes", student.GenderFemale, cls.ID, 92)

	report, err := f.svc.Generate(context.Background(), newSF5(teacherID, cls.ID))
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	rec, err := f.svc.UpdateMeta(context.Background(), report.Record.ID, sf5.UpdateMeta{
		Region:          "Region XI",
		Division:        "Davao del Sur",
		SchoolID:        "654321",
		SchoolName:      "East Elementary School",
		SchoolYear:      "2026-2027",
		SchoolHeadChair: "Mr. Jose Lim",
	})
	if err != nil {
		t.Fatalf("UpdateMeta() failed: %v", err)
	}

	if rec.Region != "Region XI" || rec.SchoolYear != "2026-2027" {
		t.Errorf("meta not updated: %+v", rec)
	}
	if rec.OverallCount != 1 || rec.FemaleCount != 1 {
		t.Errorf("counters changed by a meta update: %+v", rec.Summary)
	}
	if rec.Reference != report.Record.Reference {
		t.Errorf("reference changed: %q -> %q", report.Record.Reference, rec.Reference)
	}
}

func TestService_ToggleReviewed(t *testing.T) {
	f := setup(t)
	teacherID := 7
	cls := f.createClass(t, teacherID)

	report, err := f.svc.Generate(context.Background(), newSF5(teacherID, cls.ID))
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	rec, err := f.svc.ToggleReviewed(context.Background(), report.Record.ID, 99)
	if err != nil {
		t.Fatalf("ToggleReviewed() failed: %v", err)
	}
	if rec.Status != sf5.StatusReviewed || rec.ReviewedBy == nil || *rec.ReviewedBy != 99 {
		t.Errorf("reviewed record = %+v", rec)
	}

	rec, err = f.svc.ToggleReviewed(context.Background(), report.Record.ID, 99)
	if err != nil {
		t.Fatalf("ToggleReviewed() failed: %v", err)
	}
	if rec.Status != sf5.StatusPending || rec.ReviewedBy != nil {
		t.Errorf("unreviewed record = %+v", rec)
	}
}

func TestService_Delete(t *testing.T) {
	f := setup(t)
	teacherID := 7
	cls := f.createClass(t, teacherID)

	report, err := f.svc.Generate(context.Background(), newSF5(teacherID, cls.ID))
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if err = f.svc.Delete(context.Background(), report.Record.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err = f.svc.Regenerate(context.Background(), report.Record.ID); errors.Cause(err) != sf5.ErrNotFound {
		t.Errorf("Regenerate() error = %v, want ErrNotFound", err)
	}
}
