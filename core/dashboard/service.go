package dashboard

import (
	"context"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

const (
	topClassLimit   = 5
	topStudentLimit = 5
	topInClassLimit = 3

	statusPending = "Pending Approval"
	statusGood    = "Doing Good"
	statusBad     = "Needs Attention"
)

type (
	// Store supplies the school-wide aggregates the admin variant needs.
	// Implementations push the heavy lifting into SQL.
	Store interface {
		TopClasses(ctx context.Context, limit int, exec ...core.DBExecutor) ([]ClassStanding, error)
		TopStudents(ctx context.Context, limit int, exec ...core.DBExecutor) ([]StudentStanding, error)
		SummaryCounts(ctx context.Context, exec ...core.DBExecutor) (SummaryCounts, error)
		RemarkCounts(ctx context.Context, exec ...core.DBExecutor) (promoted, retained int, err error)
		RemarkAverages(ctx context.Context, exec ...core.DBExecutor) ([]float64, error)
	}

	ClassDirectory interface {
		GetClassByID(ctx context.Context, id int, exec ...core.DBExecutor) (school.Class, error)
		GetClassesByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]school.Class, error)
		GetSubjectsByGradeLevel(ctx context.Context, gradeLevel int, exec ...core.DBExecutor) ([]school.Subject, error)
	}

	StudentSource interface {
		QueryByParent(ctx context.Context, parentID int, exec ...core.DBExecutor) ([]student.Student, error)
		QueryRoster(ctx context.Context, classID int, filter student.QueryFilter, exec ...core.DBExecutor) ([]student.Student, error)
		QueryPendingByClasses(ctx context.Context, classIDs []int, exec ...core.DBExecutor) ([]student.Student, error)
	}

	GradeSource interface {
		TuplesByClass(ctx context.Context, classID int, exec ...core.DBExecutor) ([]grade.Tuple, error)
		GradesByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]grade.Grade, error)
	}

	Service struct {
		store    Store
		classes  ClassDirectory
		students StudentSource
		grades   GradeSource
	}
)

func NewService(store Store, classes ClassDirectory, students StudentSource, grades GradeSource) *Service {
	return &Service{
		store:    store,
		classes:  classes,
		students: students,
		grades:   grades,
	}
}

// ForAdmin assembles the school-wide dashboard.
func (svc *Service) ForAdmin(ctx context.Context) (AdminDashboard, error) {
	topClasses, err := svc.store.TopClasses(ctx, topClassLimit)
	if err != nil {
		return AdminDashboard{}, errors.Wrap(err, "loading top classes")
	}
	summary, err := svc.store.SummaryCounts(ctx)
	if err != nil {
		return AdminDashboard{}, errors.Wrap(err, "loading summary counts")
	}
	promoted, retained, err := svc.store.RemarkCounts(ctx)
	if err != nil {
		return AdminDashboard{}, errors.Wrap(err, "loading remark counts")
	}
	averages, err := svc.store.RemarkAverages(ctx)
	if err != nil {
		return AdminDashboard{}, errors.Wrap(err, "loading remark averages")
	}
	topStudents, err := svc.store.TopStudents(ctx, topStudentLimit)
	if err != nil {
		return AdminDashboard{}, errors.Wrap(err, "loading top students")
	}
	return AdminDashboard{
		TopClasses:  topClasses,
		Summary:     summary,
		Promoted:    promoted,
		Retained:    retained,
		HonorShares: ShareOfHonors(averages),
		TopStudents: topStudents,
	}, nil
}

// ForTeacher assembles the class dashboard for the teacher's first assigned
// class. A teacher without a class gets an empty payload, not an error.
func (svc *Service) ForTeacher(ctx context.Context, teacherID int) (TeacherDashboard, error) {
	classes, err := svc.classes.GetClassesByTeacher(ctx, teacherID)
	if err != nil {
		return TeacherDashboard{}, errors.Wrap(err, "loading teacher classes")
	}
	if len(classes) == 0 {
		return TeacherDashboard{SubjectAverages: []SubjectStanding{}, TopStudents: []StudentStanding{}}, nil
	}
	cls := classes[0]

	roster, err := svc.students.QueryRoster(ctx, cls.ID, student.QueryFilter{})
	if err != nil {
		return TeacherDashboard{}, errors.Wrap(err, "loading roster")
	}
	pending, err := svc.students.QueryPendingByClasses(ctx, []int{cls.ID})
	if err != nil {
		return TeacherDashboard{}, errors.Wrap(err, "loading pending students")
	}
	subjects, err := svc.classes.GetSubjectsByGradeLevel(ctx, cls.GradeLevel)
	if err != nil {
		return TeacherDashboard{}, errors.Wrap(err, "loading subjects")
	}
	tuples, err := svc.grades.TuplesByClass(ctx, cls.ID)
	if err != nil {
		return TeacherDashboard{}, errors.Wrap(err, "loading grade tuples")
	}

	all := make([]float64, len(tuples))
	bySubject := make(map[int][]float64)
	for i, t := range tuples {
		all[i] = t.Grade
		bySubject[t.SubjectID] = append(bySubject[t.SubjectID], t.Grade)
	}

	standings := make([]SubjectStanding, len(subjects))
	for i, sub := range subjects {
		standings[i] = SubjectStanding{
			SubjectID: sub.ID,
			Name:      sub.Name,
			Average:   grade.Round2(mean(bySubject[sub.ID])),
		}
	}
	topSubject, worstSubject := extremes(standings)

	return TeacherDashboard{
		HasClass:  true,
		ClassID:   cls.ID,
		ClassName: cls.Name,
		Summary: TeacherSummary{
			TotalStudents:   len(roster),
			PendingStudents: len(pending),
			TotalSubjects:   len(subjects),
			ClassAverage:    grade.Round2(mean(all)),
			TopSubject:      topSubject,
			WorstSubject:    worstSubject,
		},
		SubjectAverages: standings,
		TopStudents:     topInClass(roster, tuples, cls),
	}, nil
}

// ForParent assembles the per-child performance view.
func (svc *Service) ForParent(ctx context.Context, parentID int) (ParentDashboard, error) {
	children, err := svc.students.QueryByParent(ctx, parentID)
	if err != nil {
		return ParentDashboard{}, errors.Wrap(err, "loading children")
	}

	var (
		summary      ParentSummary
		enrolledAll  []float64
		performances = make([]ChildPerformance, 0, len(children))
	)
	summary.TotalRegistered = len(children)

	for _, std := range children {
		perf := ChildPerformance{
			StudentID: std.ID,
			Name:      std.FullName(),
			ClassName: "No Class Assigned",
		}
		if std.ClassID != nil {
			if cls, err := svc.classes.GetClassByID(ctx, *std.ClassID); err == nil {
				perf.ClassName = cls.Name
				level := cls.GradeLevel
				perf.GradeLevel = &level
			}
		}

		if !std.Approved {
			summary.TotalPending++
			perf.Status = statusPending
			performances = append(performances, perf)
			continue
		}
		summary.TotalEnrolled++

		grades, err := svc.grades.GradesByStudent(ctx, std.ID)
		if err != nil {
			return ParentDashboard{}, errors.Wrap(err, "loading child grades")
		}
		values := make([]float64, len(grades))
		for i, g := range grades {
			values[i] = g.Grade
		}
		enrolledAll = append(enrolledAll, values...)

		avg := grade.Round2(mean(values))
		perf.Average = &avg
		if avg >= grade.PromotionThreshold {
			perf.Status = statusGood
		} else {
			perf.Status = statusBad
		}
		performances = append(performances, perf)
	}

	summary.AverageGrade = grade.Round2(mean(enrolledAll))
	return ParentDashboard{Summary: summary, Children: performances}, nil
}

// ShareOfHonors buckets remarked students by stored final average and returns
// each band's share as a percentage. Bands mirror the honor classifier
// cutoffs without the per-subject floor; remarks keep no subject detail.
func ShareOfHonors(finalAverages []float64) HonorShares {
	total := len(finalAverages)
	if total == 0 {
		return HonorShares{}
	}
	var honors, high, highest int
	for _, avg := range finalAverages {
		switch {
		case avg >= 98:
			highest++
		case avg >= 95:
			high++
		case avg >= 90:
			honors++
		}
	}
	pct := func(n int) float64 { return grade.Round2(float64(n) / float64(total) * 100) }
	return HonorShares{
		WithHonors:        pct(honors),
		WithHighHonors:    pct(high),
		WithHighestHonors: pct(highest),
		NonHonor:          pct(total - honors - high - highest),
	}
}

func topInClass(roster []student.Student, tuples []grade.Tuple, cls school.Class) []StudentStanding {
	byStudent := grade.GroupByStudent(tuples)

	standings := make([]StudentStanding, 0, len(roster))
	for _, std := range roster {
		values := make([]float64, len(byStudent[std.ID]))
		for i, t := range byStudent[std.ID] {
			values[i] = t.Grade
		}
		standings = append(standings, StudentStanding{
			StudentID:  std.ID,
			Name:       std.FullName(),
			ClassName:  cls.Name,
			GradeLevel: cls.GradeLevel,
			Average:    grade.Round2(mean(values)),
		})
	}
	sort.SliceStable(standings, func(i, j int) bool { return standings[i].Average > standings[j].Average })
	if len(standings) > topInClassLimit {
		standings = standings[:topInClassLimit]
	}
	return standings
}

func extremes(standings []SubjectStanding) (top, worst string) {
	var topAvg, worstAvg float64
	for i, s := range standings {
		if i == 0 || s.Average > topAvg {
			top, topAvg = s.Name, s.Average
		}
		if i == 0 || s.Average < worstAvg {
			worst, worstAvg = s.Name, s.Average
		}
	}
	return top, worst
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}
