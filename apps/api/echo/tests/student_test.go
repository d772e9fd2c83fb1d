package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

func createTeacherClass(t *testing.T, app *env, teacherID, gradeLevel int, name string) school.Class {
	t.Helper()
	ctx := context.Background()
	cls, err := app.schoolSvc.CreateClass(ctx, school.NewClass{Name: name, GradeLevel: gradeLevel})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	if teacherID != 0 {
		cls, err = app.schoolSvc.AssignTeacher(ctx, school.AssignTeacher{ClassID: cls.ID, TeacherID: teacherID})
		if err != nil {
			t.Fatalf("AssignTeacher() failed: %v", err)
		}
	}
	return cls
}

func registerStudent(t *testing.T, app *env, ns student.NewStudent) student.Student {
	t.Helper()
	var std student.Student
	do(t, app.app, http.MethodPost, "/v1/students", ns, http.StatusCreated, &std)
	return std
}

func Test_studentApi_registration(t *testing.T) {
	app := setup(t)
	cls := createTeacherClass(t, app, 7, 3, "Grade 3 - Sampaguita")

	std := registerStudent(t, app, student.NewStudent{
		FirstName: "Ana", LastName: "Reyes", Gender: "Female",
		ClassID: cls.ID, ParentID: 100,
	})
	assert.False(t, std.Approved, "a fresh registration awaits teacher approval")
	if assert.NotNil(t, std.ClassID) {
		assert.Equal(t, cls.ID, *std.ClassID)
	}

	tests := []httpTest{
		{
			name: "Retrieve", path: fmt.Sprintf("/v1/students/%d", std.ID),
			wantCode: http.StatusOK, wantData: marshalObj(t, std),
		},
		{
			name: "Parent children", path: "/v1/parents/100/students",
			wantCode: http.StatusOK, wantData: marshalList(t, std),
		},
		{
			name: "Pending for teacher", path: "/v1/teachers/7/students/pending",
			wantCode: http.StatusOK, wantData: marshalList(t, std),
		},
		{
			name: "Unknown class", method: http.MethodPost, path: "/v1/students",
			body: marshalObj(t, student.NewStudent{
				FirstName: "Jose", LastName: "Cruz", Gender: "Male",
				ClassID: 999, ParentID: 100,
			}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"class_id": "unknown class"}),
		},
	}
	for _, tt := range tests {
		tt.run(t, app.app)
	}

	// invalid gender is rejected before the class lookup
	var fldErrs map[string]string
	do(t, app.app, http.MethodPost, "/v1/students", student.NewStudent{
		FirstName: "Jose", LastName: "Cruz", Gender: "Unknown",
		ClassID: cls.ID, ParentID: 100,
	}, http.StatusBadRequest, &fldErrs)
	assert.Contains(t, fldErrs, "gender")
}

func Test_studentApi_parentOwnership(t *testing.T) {
	app := setup(t)
	cls := createTeacherClass(t, app, 7, 3, "Grade 3 - Sampaguita")

	std := registerStudent(t, app, student.NewStudent{
		FirstName: "Ana", LastName: "Reyes", Gender: "Female",
		ClassID: cls.ID, ParentID: 100,
	})
	update := student.UpdateStudent{FirstName: "Ana Marie", LastName: "Reyes", ClassID: cls.ID}
	forbidden := marshalObj(t, httpErr{Error: "student does not belong to this parent"})

	tests := []httpTest{
		{
			name: "Update by stranger", method: http.MethodPut,
			path:     fmt.Sprintf("/v1/students/%d?parent_id=999", std.ID),
			body:     marshalObj(t, update),
			wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "Delete by stranger", method: http.MethodDelete,
			path:     fmt.Sprintf("/v1/students/%d?parent_id=999", std.ID),
			wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "Update without parent", method: http.MethodPut,
			path:     fmt.Sprintf("/v1/students/%d", std.ID),
			body:     marshalObj(t, update),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt.run(t, app.app)
	}

	var renamed student.Student
	do(t, app.app, http.MethodPut, fmt.Sprintf("/v1/students/%d?parent_id=100", std.ID),
		update, http.StatusOK, &renamed)
	assert.Equal(t, "Ana Marie", renamed.FirstName)

	do(t, app.app, http.MethodDelete, fmt.Sprintf("/v1/students/%d?parent_id=100", std.ID),
		nil, http.StatusNoContent, nil)
	httpTest{
		name: "Retrieve after delete", path: fmt.Sprintf("/v1/students/%d", std.ID),
		wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "student not found"}),
	}.run(t, app.app)
}

func Test_studentApi_approvalAndRoster(t *testing.T) {
	app := setup(t)
	cls := createTeacherClass(t, app, 7, 3, "Grade 3 - Sampaguita")

	ana := registerStudent(t, app, student.NewStudent{
		FirstName: "Ana", LastName: "Reyes", Gender: "Female",
		ClassID: cls.ID, ParentID: 100,
	})
	ben := registerStudent(t, app, student.NewStudent{
		FirstName: "Ben", LastName: "Santos", Gender: "Male",
		ClassID: cls.ID, ParentID: 101,
	})

	var approved student.Student
	do(t, app.app, http.MethodPost, fmt.Sprintf("/v1/students/%d/approve", ana.ID), nil, http.StatusOK, &approved)
	assert.True(t, approved.Approved)

	// the roster carries approved students only
	httpTest{
		name: "Roster excludes pending", path: fmt.Sprintf("/v1/classes/%d/roster", cls.ID),
		wantCode: http.StatusOK, wantData: marshalList(t, approved),
	}.run(t, app.app)

	var benApproved student.Student
	do(t, app.app, http.MethodPost, fmt.Sprintf("/v1/students/%d/approve", ben.ID), nil, http.StatusOK, &benApproved)

	var roster []student.Student
	do(t, app.app, http.MethodGet, fmt.Sprintf("/v1/classes/%d/roster?ordering=-last_name", cls.ID),
		nil, http.StatusOK, &roster)
	if assert.Len(t, roster, 2) {
		assert.Equal(t, "Santos", roster[0].LastName)
		assert.Equal(t, "Reyes", roster[1].LastName)
	}

	// denial sends the student back to the parent; unapproval keeps the seat
	var denied student.Student
	do(t, app.app, http.MethodPost, fmt.Sprintf("/v1/students/%d/deny", ben.ID), nil, http.StatusOK, &denied)
	assert.False(t, denied.Approved)
	assert.Nil(t, denied.ClassID)

	var unapproved student.Student
	do(t, app.app, http.MethodPost, fmt.Sprintf("/v1/students/%d/unapprove", ana.ID), nil, http.StatusOK, &unapproved)
	assert.False(t, unapproved.Approved)
	if assert.NotNil(t, unapproved.ClassID) {
		assert.Equal(t, cls.ID, *unapproved.ClassID)
	}
}

func Test_studentApi_bulkResets(t *testing.T) {
	app := setup(t)
	cls := createTeacherClass(t, app, 7, 3, "Grade 3 - Sampaguita")

	for i, name := range []string{"Ana", "Ben"} {
		std := registerStudent(t, app, student.NewStudent{
			FirstName: name, LastName: "Reyes", Gender: "Female",
			ClassID: cls.ID, ParentID: 100 + i,
		})
		do(t, app.app, http.MethodPost, fmt.Sprintf("/v1/students/%d/approve", std.ID), nil, http.StatusOK, nil)
	}

	var res map[string]int
	do(t, app.app, http.MethodPost, "/v1/teachers/7/students/clear-all-grades", nil, http.StatusOK, &res)
	assert.Equal(t, 2, res["affected"])

	do(t, app.app, http.MethodPost, "/v1/teachers/7/students/unapprove-all", nil, http.StatusOK, &res)
	assert.Equal(t, 2, res["affected"])

	var roster []student.Student
	do(t, app.app, http.MethodGet, fmt.Sprintf("/v1/classes/%d/roster", cls.ID), nil, http.StatusOK, &roster)
	assert.Empty(t, roster)

	// a teacher with no classes is a benign no-op
	do(t, app.app, http.MethodPost, "/v1/teachers/42/students/unapprove-all", nil, http.StatusOK, &res)
	assert.Equal(t, 0, res["affected"])
}
