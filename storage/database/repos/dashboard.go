package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/dashboard"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
)

type dashboardStore struct {
	db core.DBExecutor
}

func NewDashboardStore(db core.DBExecutor) dashboard.Store {
	return &dashboardStore{db: db}
}

func (store *dashboardStore) TopClasses(ctx context.Context, limit int, exec ...core.DBExecutor) ([]dashboard.ClassStanding, error) {
	const q = `
		SELECT c.id, c.name, c.grade_level, COALESCE(ROUND(AVG(g.grade), 2), 0) AS average
		FROM classes c
		LEFT JOIN grades g ON g.class_id = c.id
		GROUP BY c.id, c.name, c.grade_level
		ORDER BY average DESC, c.name
		LIMIT $1`
	var standings []dashboard.ClassStanding
	if err := executor(store.db, exec).SelectContext(ctx, &standings, q, limit); err != nil {
		return nil, errors.Wrap(err, "querying top classes")
	}
	return standings, nil
}

func (store *dashboardStore) TopStudents(ctx context.Context, limit int, exec ...core.DBExecutor) ([]dashboard.StudentStanding, error) {
	const q = `
		SELECT s.id,
			s.first_name || ' ' || s.last_name AS name,
			COALESCE(c.name, '') AS class_name,
			COALESCE(c.grade_level, 0) AS grade_level,
			COALESCE(ROUND(AVG(g.grade), 2), 0) AS average
		FROM students s
		LEFT JOIN classes c ON c.id = s.class_id
		LEFT JOIN grades g ON g.student_id = s.id
		WHERE s.approved_by_teacher
		GROUP BY s.id, s.first_name, s.last_name, c.name, c.grade_level
		ORDER BY average DESC, name
		LIMIT $1`
	var standings []dashboard.StudentStanding
	if err := executor(store.db, exec).SelectContext(ctx, &standings, q, limit); err != nil {
		return nil, errors.Wrap(err, "querying top students")
	}
	return standings, nil
}

func (store *dashboardStore) SummaryCounts(ctx context.Context, exec ...core.DBExecutor) (dashboard.SummaryCounts, error) {
	// teachers and parents are counted off their assignments; there is no
	// account table in this store
	const q = `
		SELECT
			(SELECT COUNT(*) FROM classes) AS total_classes,
			(SELECT COUNT(*) FROM students) AS total_students,
			(SELECT COUNT(DISTINCT teacher_id) FROM classes WHERE teacher_id IS NOT NULL) AS total_teachers,
			(SELECT COUNT(DISTINCT parent_id) FROM students) AS total_parents,
			(SELECT COALESCE(ROUND(AVG(grade), 2), 0) FROM grades) AS overall_average`
	var counts dashboard.SummaryCounts
	if err := executor(store.db, exec).GetContext(ctx, &counts, q); err != nil {
		return dashboard.SummaryCounts{}, errors.Wrap(err, "querying summary counts")
	}
	return counts, nil
}

func (store *dashboardStore) RemarkCounts(ctx context.Context, exec ...core.DBExecutor) (promoted, retained int, err error) {
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE remarks = $1) AS promoted,
			COUNT(*) FILTER (WHERE remarks = $2) AS retained
		FROM grade_remarks`
	err = executor(store.db, exec).
		QueryRowContext(ctx, q, grade.RemarkPromoted, grade.RemarkRetained).
		Scan(&promoted, &retained)
	if err != nil {
		return 0, 0, errors.Wrap(err, "counting remarks")
	}
	return promoted, retained, nil
}

func (store *dashboardStore) RemarkAverages(ctx context.Context, exec ...core.DBExecutor) ([]float64, error) {
	const q = `SELECT final_average FROM grade_remarks`
	var averages []float64
	if err := executor(store.db, exec).SelectContext(ctx, &averages, q); err != nil {
		return nil, errors.Wrap(err, "querying remark averages")
	}
	return averages, nil
}
