package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/dashboard"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
	inmemdb "github.com/axcelc2326/Group2-Capstone-SchoolRecord/storage/database/inmem"
)

type fixture struct {
	svc         *dashboard.Service
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
	svc := dashboard.NewService(inmemdb.NewDashboardStore(db), schoolRepo, studentRepo, gradeRepo)
	return &fixture{svc: svc, schoolRepo: schoolRepo, studentRepo: studentRepo, gradeRepo: gradeRepo}
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

func (f *fixture) createStudent(t *testing.T, first, last string, classID, parentID int, approved bool) student.Student {
	t.Helper()
	now := time.Now().UTC()
	std, err := f.studentRepo.CreateStudent(context.Background(), student.Student{
		FirstName: first,
		LastName:  last,
		Gender:    student.GenderFemale,
		ClassID:   &classID,
		ParentID:  parentID,
		Approved:  approved,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

func (f *fixture) addGrade(t *testing.T, studentID, subjectID, classID int, value float64) {
	t.Helper()
	now := time.Now().UTC()
	if _, err := f.gradeRepo.UpsertGrade(context.Background(), grade.Grade{
		StudentID: studentID,
		SubjectID: subjectID,
		ClassID:   classID,
		Quarter:   "Q1",
		Grade:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("addGrade() failed: %v", err)
	}
}

func TestShareOfHonors(t *testing.T) {
	tests := []struct {
		name     string
		averages []float64
		want     dashboard.HonorShares
	}{
		{name: "no remarks yet", averages: nil, want: dashboard.HonorShares{}},
		{
			name:     "one per band plus one below",
			averages: []float64{98, 95, 90, 80},
			want: dashboard.HonorShares{
				WithHonors:        25,
				WithHighHonors:    25,
				WithHighestHonors: 25,
				NonHonor:          25,
			},
		},
		{
			name:     "thirds round to two places",
			averages: []float64{99, 96, 91},
			want: dashboard.HonorShares{
				WithHonors:        33.33,
				WithHighHonors:    33.33,
				WithHighestHonors: 33.33,
			},
		},
		{
			name:     "band cutoffs are inclusive",
			averages: []float64{97.99, 94.99, 89.99},
			want: dashboard.HonorShares{
				WithHonors:     33.33,
				WithHighHonors: 33.33,
				NonHonor:       33.33,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dashboard.ShareOfHonors(tt.averages); got != tt.want {
				t.Errorf("ShareOfHonors() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestService_ForTeacher(t *testing.T) {
	f := setup(t)
	teacherID := 7
	cls := f.createClass(t, "Grade 3 - Sampaguita", 3, &teacherID)

	now := time.Now().UTC()
	english, err := f.schoolRepo.CreateSubject(context.Background(), school.Subject{
		Name: "English", GradeLevel: 3, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	math, err := f.schoolRepo.CreateSubject(context.Background(), school.Subject{
		Name: "Mathematics", GradeLevel: 3, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}

	ana := f.createStudent(t, "Ana", "Reyes", cls.ID, 100, true)
	ben := f.createStudent(t, "Ben", "Santos", cls.ID, 101, true)
	f.createStudent(t, "Carla", "Cruz", cls.ID, 102, false) // pending

	f.addGrade(t, ana.ID, english.ID, cls.ID, 90)
	f.addGrade(t, ana.ID, math.ID, cls.ID, 80)
	f.addGrade(t, ben.ID, english.ID, cls.ID, 70)

	dash, err := f.svc.ForTeacher(context.Background(), teacherID)
	if err != nil {
		t.Fatalf("ForTeacher() failed: %v", err)
	}

	if !dash.HasClass || dash.ClassID != cls.ID {
		t.Fatalf("dashboard bound to class %d, want %d", dash.ClassID, cls.ID)
	}
	// the roster carries approved students only; the pending child is a
	// separate counter
	if dash.Summary.TotalStudents != 2 || dash.Summary.PendingStudents != 1 || dash.Summary.TotalSubjects != 2 {
		t.Errorf("summary = %+v", dash.Summary)
	}
	if dash.Summary.ClassAverage != 80 {
		t.Errorf("class average = %v, want 80", dash.Summary.ClassAverage)
	}
	if dash.Summary.TopSubject != "English" || dash.Summary.WorstSubject != "English" {
		// English averages 80, Mathematics 80: the first subject wins both
		t.Errorf("top/worst = %q/%q", dash.Summary.TopSubject, dash.Summary.WorstSubject)
	}
	if len(dash.SubjectAverages) != 2 {
		t.Fatalf("subject averages = %d, want 2", len(dash.SubjectAverages))
	}
	if len(dash.TopStudents) == 0 || dash.TopStudents[0].Name != "Ana Reyes" {
		t.Errorf("top students = %+v", dash.TopStudents)
	}
}

func TestService_ForTeacher_noClass(t *testing.T) {
	f := setup(t)

	dash, err := f.svc.ForTeacher(context.Background(), 42)
	if err != nil {
		t.Fatalf("ForTeacher() failed: %v", err)
	}
	if dash.HasClass {
		t.Error("HasClass = true for an unassigned teacher")
	}
	if dash.SubjectAverages == nil || dash.TopStudents == nil {
		t.Error("empty payload should carry empty slices, not nulls")
	}
}

func TestService_ForParent(t *testing.T) {
	f := setup(t)
	teacherID := 7
	cls := f.createClass(t, "Grade 3 - Sampaguita", 3, &teacherID)
	parentID := 100

	good := f.createStudent(t, "Ana", "Reyes", cls.ID, parentID, true)
	bad := f.createStudent(t, "Ben", "Reyes", cls.ID, parentID, true)
	f.createStudent(t, "Carla", "Reyes", cls.ID, parentID, false)

	f.addGrade(t, good.ID, 1, cls.ID, 90)
	f.addGrade(t, bad.ID, 1, cls.ID, 70)

	dash, err := f.svc.ForParent(context.Background(), parentID)
	if err != nil {
		t.Fatalf("ForParent() failed: %v", err)
	}

	if dash.Summary.TotalRegistered != 3 || dash.Summary.TotalEnrolled != 2 || dash.Summary.TotalPending != 1 {
		t.Errorf("summary = %+v", dash.Summary)
	}
	if dash.Summary.AverageGrade != 80 {
		t.Errorf("average grade = %v, want 80", dash.Summary.AverageGrade)
	}
	if len(dash.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(dash.Children))
	}

	byName := make(map[string]dashboard.ChildPerformance, len(dash.Children))
	for _, child := range dash.Children {
		byName[child.Name] = child
	}
	if p := byName["Ana Reyes"]; p.Status != "Doing Good" || p.Average == nil || *p.Average != 90 {
		t.Errorf("Ana = %+v", p)
	}
	if p := byName["Ben Reyes"]; p.Status != "Needs Attention" {
		t.Errorf("Ben = %+v", p)
	}
	if p := byName["Carla Reyes"]; p.Status != "Pending Approval" || p.Average != nil {
		t.Errorf("Carla = %+v", p)
	}
}
