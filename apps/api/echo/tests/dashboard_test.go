package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/dashboard"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

func Test_dashboardApi_admin(t *testing.T) {
	app := setup(t)
	gradedClass(t, app)

	var dash dashboard.AdminDashboard
	do(t, app.app, http.MethodGet, "/v1/dashboard/admin", nil, http.StatusOK, &dash)
	assert.Equal(t, 1, dash.Summary.TotalClasses)
	assert.Equal(t, 2, dash.Summary.TotalStudents)
	assert.Equal(t, 2, dash.Promoted)
	assert.Equal(t, 0, dash.Retained)
	// Ana's 95.5 is a high-honors share, Ben's 81 is not
	assert.Equal(t, 50.0, dash.HonorShares.WithHighHonors)
	assert.Equal(t, 50.0, dash.HonorShares.NonHonor)
	assert.Equal(t, 88.25, dash.Summary.OverallAverage)
}

func Test_dashboardApi_teacher(t *testing.T) {
	app := setup(t)
	cls := gradedClass(t, app)

	var dash dashboard.TeacherDashboard
	do(t, app.app, http.MethodGet, "/v1/dashboard/teacher/7", nil, http.StatusOK, &dash)
	assert.True(t, dash.HasClass)
	assert.Equal(t, cls.ID, dash.ClassID)
	assert.Equal(t, "Grade 3 - Sampaguita", dash.ClassName)
	assert.Equal(t, 2, dash.Summary.TotalStudents)
	assert.Equal(t, 2, dash.Summary.TotalSubjects)
	assert.Equal(t, 88.25, dash.Summary.ClassAverage)
	assert.Equal(t, "Mathematics", dash.Summary.TopSubject)
	assert.Equal(t, "English", dash.Summary.WorstSubject)
	if assert.NotEmpty(t, dash.TopStudents) {
		assert.Equal(t, "Ana Reyes", dash.TopStudents[0].Name)
	}

	var unassigned dashboard.TeacherDashboard
	do(t, app.app, http.MethodGet, "/v1/dashboard/teacher/42", nil, http.StatusOK, &unassigned)
	assert.False(t, unassigned.HasClass)
	assert.Empty(t, unassigned.SubjectAverages)
	assert.Empty(t, unassigned.TopStudents)
}

func Test_dashboardApi_parent(t *testing.T) {
	app := setup(t)
	cls := gradedClass(t, app)

	// a second child still awaiting approval
	registerStudent(t, app, student.NewStudent{
		FirstName: "Carla", LastName: "Reyes", Gender: "Female",
		ClassID: cls.ID, ParentID: 100,
	})

	var dash dashboard.ParentDashboard
	do(t, app.app, http.MethodGet, "/v1/dashboard/parent/100", nil, http.StatusOK, &dash)
	assert.Equal(t, 2, dash.Summary.TotalRegistered)
	assert.Equal(t, 1, dash.Summary.TotalEnrolled)
	assert.Equal(t, 1, dash.Summary.TotalPending)
	assert.Equal(t, 95.5, dash.Summary.AverageGrade)

	if assert.Len(t, dash.Children, 2) {
		byName := map[string]dashboard.ChildPerformance{}
		for _, child := range dash.Children {
			byName[child.Name] = child
		}
		ana := byName["Ana Reyes"]
		assert.Equal(t, "Doing Good", ana.Status)
		if assert.NotNil(t, ana.Average) {
			assert.Equal(t, 95.5, *ana.Average)
		}
		carla := byName["Carla Reyes"]
		assert.Equal(t, "Pending Approval", carla.Status)
		assert.Nil(t, carla.Average)
	}
}
