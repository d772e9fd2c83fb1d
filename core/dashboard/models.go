package dashboard

import "github.com/pkg/errors"

// Role selects which dashboard variant gets assembled. The set is closed;
// anything else is rejected up front.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
)

var ErrUnknownRole = errors.New("unknown dashboard role")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTeacher, RoleParent:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

type (
	// ClassStanding ranks a class by the plain mean of all its grades.
	ClassStanding struct {
		ClassID    int     `json:"id" db:"id"`
		Name       string  `json:"name" db:"name"`
		GradeLevel int     `json:"grade_level" db:"grade_level"`
		Average    float64 `json:"average" db:"average"`
	}

	StudentStanding struct {
		StudentID  int     `json:"id" db:"id"`
		Name       string  `json:"name" db:"name"`
		ClassName  string  `json:"class" db:"class_name"`
		GradeLevel int     `json:"grade_level" db:"grade_level"`
		Average    float64 `json:"average" db:"average"`
	}

	SummaryCounts struct {
		TotalClasses   int     `json:"total_classes" db:"total_classes"`
		TotalStudents  int     `json:"total_students" db:"total_students"`
		TotalTeachers  int     `json:"total_teachers" db:"total_teachers"`
		TotalParents   int     `json:"total_parents" db:"total_parents"`
		OverallAverage float64 `json:"overall_average" db:"overall_average"`
	}

	// HonorShares splits students holding a final remark into honor bands,
	// as percentages of all remarked students.
	HonorShares struct {
		WithHonors        float64 `json:"with_honors"`
		WithHighHonors    float64 `json:"with_high_honors"`
		WithHighestHonors float64 `json:"with_highest_honors"`
		NonHonor          float64 `json:"non_honor"`
	}

	AdminDashboard struct {
		TopClasses  []ClassStanding   `json:"top_classes"`
		Summary     SummaryCounts     `json:"summary"`
		Promoted    int               `json:"promoted"`
		Retained    int               `json:"retained"`
		HonorShares HonorShares       `json:"honor_percentages"`
		TopStudents []StudentStanding `json:"top_students"`
	}

	TeacherSummary struct {
		TotalStudents   int     `json:"total_students"`
		PendingStudents int     `json:"pending_students"`
		TotalSubjects   int     `json:"total_subjects"`
		ClassAverage    float64 `json:"class_average"`
		TopSubject      string  `json:"top_subject"`
		WorstSubject    string  `json:"worst_subject"`
	}

	SubjectStanding struct {
		SubjectID int     `json:"id"`
		Name      string  `json:"name"`
		Average   float64 `json:"average"`
	}

	TeacherDashboard struct {
		HasClass        bool              `json:"has_class"`
		ClassID         int               `json:"class_id,omitempty"`
		ClassName       string            `json:"class_name,omitempty"`
		Summary         TeacherSummary    `json:"summary"`
		SubjectAverages []SubjectStanding `json:"subject_averages"`
		TopStudents     []StudentStanding `json:"top_students"`
	}

	ChildPerformance struct {
		StudentID  int      `json:"id"`
		Name       string   `json:"name"`
		ClassName  string   `json:"class_name"`
		GradeLevel *int     `json:"grade_level,omitempty"`
		Average    *float64 `json:"average,omitempty"`
		Status     string   `json:"status"`
	}

	ParentSummary struct {
		TotalRegistered int     `json:"total_registered"`
		TotalEnrolled   int     `json:"total_enrolled"`
		TotalPending    int     `json:"total_pending"`
		AverageGrade    float64 `json:"average_grade"`
	}

	ParentDashboard struct {
		Summary  ParentSummary      `json:"summary"`
		Children []ChildPerformance `json:"children_performance"`
	}
)
