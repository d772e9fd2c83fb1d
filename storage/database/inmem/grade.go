package inmemdb

import (
	"context"
	"sort"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
)

type gradeRepository struct {
	db *DB
}

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) UpsertGrade(ctx context.Context, g grade.Grade, exec ...core.DBExecutor) (grade.Grade, error) {
	if err := repo.db.failHook("UpsertGrade"); err != nil {
		return grade.Grade{}, err
	}
	st, done := repo.db.writer(exec)
	defer done()

	for _, existing := range st.grades {
		if existing.StudentID == g.StudentID && existing.SubjectID == g.SubjectID &&
			existing.Quarter == g.Quarter && existing.ClassID == g.ClassID {
			existing.Grade = g.Grade
			existing.UpdatedAt = g.UpdatedAt
			return *existing, nil
		}
	}
	g.ID = st.nextID()
	st.grades[g.ID] = &g
	return g, nil
}

func (repo *gradeRepository) GradesByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]grade.Grade, error) {
	st, done := repo.db.reader(exec)
	defer done()

	var grades []grade.Grade
	for _, g := range st.grades {
		if g.StudentID == studentID {
			grades = append(grades, *g)
		}
	}
	sort.Slice(grades, func(i, j int) bool {
		if grades[i].Quarter != grades[j].Quarter {
			return grades[i].Quarter < grades[j].Quarter
		}
		return grades[i].SubjectID < grades[j].SubjectID
	})
	return grades, nil
}

func (repo *gradeRepository) CountByQuarter(ctx context.Context, studentID, classID int, exec ...core.DBExecutor) (map[core.Quarter]int, error) {
	st, done := repo.db.reader(exec)
	defer done()

	counts := make(map[core.Quarter]int)
	for _, g := range st.grades {
		if g.StudentID == studentID && g.ClassID == classID {
			counts[g.Quarter]++
		}
	}
	return counts, nil
}

func (repo *gradeRepository) TuplesByStudentClass(ctx context.Context, studentID, classID int, exec ...core.DBExecutor) ([]grade.Tuple, error) {
	st, done := repo.db.reader(exec)
	defer done()
	return repo.tuples(st, func(g *grade.Grade) bool {
		return g.StudentID == studentID && g.ClassID == classID
	}), nil
}

func (repo *gradeRepository) TuplesByClassQuarter(ctx context.Context, classID int, quarter core.Quarter, exec ...core.DBExecutor) ([]grade.Tuple, error) {
	st, done := repo.db.reader(exec)
	defer done()
	return repo.tuples(st, func(g *grade.Grade) bool {
		return g.ClassID == classID && g.Quarter == quarter
	}), nil
}

func (repo *gradeRepository) TuplesByClass(ctx context.Context, classID int, exec ...core.DBExecutor) ([]grade.Tuple, error) {
	st, done := repo.db.reader(exec)
	defer done()
	return repo.tuples(st, func(g *grade.Grade) bool {
		return g.ClassID == classID
	}), nil
}

func (repo *gradeRepository) tuples(st *state, match func(*grade.Grade) bool) []grade.Tuple {
	ids := make([]int, 0, len(st.grades))
	for id, g := range st.grades {
		if match(g) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids) // stable encounter order for deterministic aggregation
	tuples := make([]grade.Tuple, len(ids))
	for i, id := range ids {
		g := st.grades[id]
		tuples[i] = grade.Tuple{StudentID: g.StudentID, SubjectID: g.SubjectID, Quarter: g.Quarter, Grade: g.Grade}
	}
	return tuples
}

func (repo *gradeRepository) UpsertRemark(ctx context.Context, r grade.Remark, exec ...core.DBExecutor) (grade.Remark, error) {
	if err := repo.db.failHook("UpsertRemark"); err != nil {
		return grade.Remark{}, err
	}
	st, done := repo.db.writer(exec)
	defer done()

	for _, existing := range st.remarks {
		if existing.StudentID == r.StudentID && existing.ClassID == r.ClassID {
			existing.FinalAverage = r.FinalAverage
			existing.Remarks = r.Remarks
			existing.UpdatedAt = r.UpdatedAt
			return *existing, nil
		}
	}
	r.ID = st.nextID()
	st.remarks[r.ID] = &r
	return r, nil
}

func (repo *gradeRepository) GetRemark(ctx context.Context, studentID, classID int, exec ...core.DBExecutor) (grade.Remark, error) {
	st, done := repo.db.reader(exec)
	defer done()

	for _, r := range st.remarks {
		if r.StudentID == studentID && r.ClassID == classID {
			return *r, nil
		}
	}
	return grade.Remark{}, grade.ErrRemarkNotFound
}

func (repo *gradeRepository) StudentIDsWithRemarkByClasses(ctx context.Context, classIDs []int, exec ...core.DBExecutor) ([]int, error) {
	st, done := repo.db.reader(exec)
	defer done()

	seen := make(map[int]bool)
	var ids []int
	for _, r := range st.remarks {
		if containsInt(classIDs, r.ClassID) && !seen[r.StudentID] {
			seen[r.StudentID] = true
			ids = append(ids, r.StudentID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (repo *gradeRepository) StudentIDsGradedInSubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]int, error) {
	st, done := repo.db.reader(exec)
	defer done()

	seen := make(map[int]bool)
	var ids []int
	for _, g := range st.grades {
		if g.SubjectID == subjectID && !seen[g.StudentID] {
			seen[g.StudentID] = true
			ids = append(ids, g.StudentID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (repo *gradeRepository) DeleteGradesByStudents(ctx context.Context, studentIDs []int, exec ...core.DBExecutor) error {
	if err := repo.db.failHook("DeleteGradesByStudents"); err != nil {
		return err
	}
	st, done := repo.db.writer(exec)
	defer done()

	for id, g := range st.grades {
		if containsInt(studentIDs, g.StudentID) {
			delete(st.grades, id)
		}
	}
	return nil
}

func (repo *gradeRepository) DeleteRemarksByStudents(ctx context.Context, studentIDs []int, exec ...core.DBExecutor) error {
	if err := repo.db.failHook("DeleteRemarksByStudents"); err != nil {
		return err
	}
	st, done := repo.db.writer(exec)
	defer done()

	for id, r := range st.remarks {
		if containsInt(studentIDs, r.StudentID) {
			delete(st.remarks, id)
		}
	}
	return nil
}
