package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

func createSubject(t *testing.T, app *env, name string, gradeLevel int) school.Subject {
	t.Helper()
	sub, err := app.schoolSvc.CreateSubject(context.Background(), school.NewSubject{Name: name, GradeLevel: gradeLevel})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sub
}

func enrollStudent(t *testing.T, app *env, cls school.Class, first, last, gender string, parentID int) student.Student {
	t.Helper()
	std := registerStudent(t, app, student.NewStudent{
		FirstName: first, LastName: last, Gender: gender,
		ClassID: cls.ID, ParentID: parentID,
	})
	approved, err := app.studentSvc.Approve(context.Background(), std.ID)
	if err != nil {
		t.Fatalf("Approve() failed: %v", err)
	}
	return approved
}

// submitFullYear files the same per-subject grades for all four quarters,
// which completes the year and triggers the final-average remark.
func submitFullYear(t *testing.T, app *env, studentID, classID int, grades map[int]float64) {
	t.Helper()
	for _, q := range core.Quarters {
		_, err := app.gradeSvc.Upsert(context.Background(), grade.Submission{
			StudentID: studentID,
			ClassID:   classID,
			Quarter:   string(q),
			Grades:    grades,
		})
		if err != nil {
			t.Fatalf("Upsert(%s) failed: %v", q, err)
		}
	}
}

func Test_gradeApi_entry(t *testing.T) {
	app := setup(t)
	cls := createTeacherClass(t, app, 7, 3, "Grade 3 - Sampaguita")
	english := createSubject(t, app, "English", 3)
	math := createSubject(t, app, "Mathematics", 3)
	std := enrollStudent(t, app, cls, "Ana", "Reyes", "Female", 100)

	var sheet grade.Sheet
	do(t, app.app, http.MethodPost, "/v1/grades", grade.Submission{
		StudentID: std.ID,
		ClassID:   cls.ID,
		Quarter:   "Q1",
		Grades:    map[int]float64{english.ID: 90, math.ID: 86},
	}, http.StatusOK, &sheet)
	assert.True(t, sheet.InProgress)
	assert.Nil(t, sheet.Remark)
	assert.Equal(t, 90.0, sheet.Grades[core.Q1][english.ID])

	tests := []httpTest{
		{
			name: "Sheet", path: fmt.Sprintf("/v1/students/%d/grades?class_id=%d", std.ID, cls.ID),
			wantCode: http.StatusOK, wantData: marshalObj(t, sheet),
		},
		{
			name: "Sheet without class", path: fmt.Sprintf("/v1/students/%d/grades", std.ID),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "Bad quarter", method: http.MethodPost, path: "/v1/grades",
			body: marshalObj(t, grade.Submission{
				StudentID: std.ID, ClassID: cls.ID, Quarter: "Q5",
				Grades: map[int]float64{english.ID: 90},
			}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"quarter": "must be one of Q1, Q2, Q3 or Q4"}),
		},
		{
			name: "Subject from another grade level", method: http.MethodPost, path: "/v1/grades",
			body: marshalObj(t, grade.Submission{
				StudentID: std.ID, ClassID: cls.ID, Quarter: "Q1",
				Grades: map[int]float64{9999: 90},
			}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{
				"grades": fmt.Sprintf("subject 9999 is not offered at grade level %d", cls.GradeLevel),
			}),
		},
	}
	for _, tt := range tests {
		tt.run(t, app.app)
	}
}

func Test_gradeApi_remarkOnCompletion(t *testing.T) {
	app := setup(t)
	cls := createTeacherClass(t, app, 7, 3, "Grade 3 - Sampaguita")
	english := createSubject(t, app, "English", 3)
	math := createSubject(t, app, "Mathematics", 3)
	std := enrollStudent(t, app, cls, "Ana", "Reyes", "Female", 100)

	submitFullYear(t, app, std.ID, cls.ID, map[int]float64{english.ID: 80, math.ID: 71})

	var sheet grade.Sheet
	do(t, app.app, http.MethodGet, fmt.Sprintf("/v1/students/%d/grades?class_id=%d", std.ID, cls.ID),
		nil, http.StatusOK, &sheet)
	assert.False(t, sheet.InProgress)
	if assert.NotNil(t, sheet.Remark) {
		assert.Equal(t, 75.5, sheet.Remark.FinalAverage)
		assert.Equal(t, "Promoted", sheet.Remark.Remarks)
	}
}
