package inmemdb

import (
	"context"
	"sort"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/dashboard"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
)

type dashboardStore struct {
	db *DB
}

func NewDashboardStore(db *DB) dashboard.Store {
	return &dashboardStore{db: db}
}

func (store *dashboardStore) TopClasses(ctx context.Context, limit int, exec ...core.DBExecutor) ([]dashboard.ClassStanding, error) {
	st, done := store.db.reader(exec)
	defer done()

	byClass := make(map[int][]float64)
	for _, g := range st.grades {
		byClass[g.ClassID] = append(byClass[g.ClassID], g.Grade)
	}

	standings := make([]dashboard.ClassStanding, 0, len(st.classes))
	for _, cls := range st.classes {
		standings = append(standings, dashboard.ClassStanding{
			ClassID:    cls.ID,
			Name:       cls.Name,
			GradeLevel: cls.GradeLevel,
			Average:    grade.Round2(meanOf(byClass[cls.ID])),
		})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Average != standings[j].Average {
			return standings[i].Average > standings[j].Average
		}
		return standings[i].Name < standings[j].Name
	})
	if len(standings) > limit {
		standings = standings[:limit]
	}
	return standings, nil
}

func (store *dashboardStore) TopStudents(ctx context.Context, limit int, exec ...core.DBExecutor) ([]dashboard.StudentStanding, error) {
	st, done := store.db.reader(exec)
	defer done()

	byStudent := make(map[int][]float64)
	for _, g := range st.grades {
		byStudent[g.StudentID] = append(byStudent[g.StudentID], g.Grade)
	}

	var standings []dashboard.StudentStanding
	for _, std := range st.students {
		if !std.Approved {
			continue
		}
		standing := dashboard.StudentStanding{
			StudentID: std.ID,
			Name:      std.FullName(),
			Average:   grade.Round2(meanOf(byStudent[std.ID])),
		}
		if std.ClassID != nil {
			if cls, ok := st.classes[*std.ClassID]; ok {
				standing.ClassName = cls.Name
				standing.GradeLevel = cls.GradeLevel
			}
		}
		standings = append(standings, standing)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Average != standings[j].Average {
			return standings[i].Average > standings[j].Average
		}
		return standings[i].Name < standings[j].Name
	})
	if len(standings) > limit {
		standings = standings[:limit]
	}
	return standings, nil
}

func (store *dashboardStore) SummaryCounts(ctx context.Context, exec ...core.DBExecutor) (dashboard.SummaryCounts, error) {
	st, done := store.db.reader(exec)
	defer done()

	teachers := make(map[int]bool)
	for _, cls := range st.classes {
		if cls.TeacherID != nil {
			teachers[*cls.TeacherID] = true
		}
	}
	parents := make(map[int]bool)
	for _, std := range st.students {
		parents[std.ParentID] = true
	}
	all := make([]float64, 0, len(st.grades))
	for _, g := range st.grades {
		all = append(all, g.Grade)
	}

	return dashboard.SummaryCounts{
		TotalClasses:   len(st.classes),
		TotalStudents:  len(st.students),
		TotalTeachers:  len(teachers),
		TotalParents:   len(parents),
		OverallAverage: grade.Round2(meanOf(all)),
	}, nil
}

func (store *dashboardStore) RemarkCounts(ctx context.Context, exec ...core.DBExecutor) (promoted, retained int, err error) {
	st, done := store.db.reader(exec)
	defer done()

	for _, r := range st.remarks {
		switch r.Remarks {
		case grade.RemarkPromoted:
			promoted++
		case grade.RemarkRetained:
			retained++
		}
	}
	return promoted, retained, nil
}

func (store *dashboardStore) RemarkAverages(ctx context.Context, exec ...core.DBExecutor) ([]float64, error) {
	st, done := store.db.reader(exec)
	defer done()

	averages := make([]float64, 0, len(st.remarks))
	for _, r := range st.remarks {
		averages = append(averages, r.FinalAverage)
	}
	return averages, nil
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
