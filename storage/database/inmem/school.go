package inmemdb

import (
	"context"
	"sort"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
)

type schoolRepository struct {
	db *DB
}

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) CreateClass(ctx context.Context, cls school.Class, exec ...core.DBExecutor) (school.Class, error) {
	st, done := repo.db.writer(exec)
	defer done()

	cls.ID = st.nextID()
	st.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *schoolRepository) GetClassByID(ctx context.Context, id int, exec ...core.DBExecutor) (school.Class, error) {
	st, done := repo.db.reader(exec)
	defer done()

	if cls, ok := st.classes[id]; ok {
		return *cls, nil
	}
	return school.Class{}, school.ErrClassNotFound
}

func (repo *schoolRepository) QueryAllClasses(ctx context.Context, exec ...core.DBExecutor) ([]school.Class, error) {
	st, done := repo.db.reader(exec)
	defer done()

	classes := make([]school.Class, 0, len(st.classes))
	for _, cls := range st.classes {
		classes = append(classes, *cls)
	}
	sortClasses(classes)
	return classes, nil
}

func (repo *schoolRepository) GetClassesByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]school.Class, error) {
	st, done := repo.db.reader(exec)
	defer done()

	var classes []school.Class
	for _, cls := range st.classes {
		if cls.TeacherID != nil && *cls.TeacherID == teacherID {
			classes = append(classes, *cls)
		}
	}
	sortClasses(classes)
	return classes, nil
}

func (repo *schoolRepository) SetClassTeacher(ctx context.Context, classID, teacherID int, exec ...core.DBExecutor) error {
	st, done := repo.db.writer(exec)
	defer done()

	cls, ok := st.classes[classID]
	if !ok {
		return school.ErrClassNotFound
	}
	cls.TeacherID = &teacherID
	return nil
}

func (repo *schoolRepository) CreateSubject(ctx context.Context, sub school.Subject, exec ...core.DBExecutor) (school.Subject, error) {
	st, done := repo.db.writer(exec)
	defer done()

	sub.ID = st.nextID()
	st.subjects[sub.ID] = &sub
	return sub, nil
}

func (repo *schoolRepository) GetSubjectByID(ctx context.Context, id int, exec ...core.DBExecutor) (school.Subject, error) {
	st, done := repo.db.reader(exec)
	defer done()

	if sub, ok := st.subjects[id]; ok {
		return *sub, nil
	}
	return school.Subject{}, school.ErrSubjectNotFound
}

func (repo *schoolRepository) QuerySubjects(ctx context.Context, gradeLevel *int, exec ...core.DBExecutor) ([]school.Subject, error) {
	st, done := repo.db.reader(exec)
	defer done()

	subjects := make([]school.Subject, 0, len(st.subjects))
	for _, sub := range st.subjects {
		if gradeLevel != nil && sub.GradeLevel != *gradeLevel {
			continue
		}
		subjects = append(subjects, *sub)
	}
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].GradeLevel != subjects[j].GradeLevel {
			return subjects[i].GradeLevel < subjects[j].GradeLevel
		}
		return subjects[i].Name < subjects[j].Name
	})
	return subjects, nil
}

func (repo *schoolRepository) GetSubjectsByGradeLevel(ctx context.Context, gradeLevel int, exec ...core.DBExecutor) ([]school.Subject, error) {
	return repo.QuerySubjects(ctx, &gradeLevel, exec...)
}

func (repo *schoolRepository) CountSubjectsByGradeLevel(ctx context.Context, gradeLevel int, exec ...core.DBExecutor) (int, error) {
	st, done := repo.db.reader(exec)
	defer done()

	var count int
	for _, sub := range st.subjects {
		if sub.GradeLevel == gradeLevel {
			count++
		}
	}
	return count, nil
}

func (repo *schoolRepository) UpdateSubject(ctx context.Context, sub school.Subject, exec ...core.DBExecutor) (school.Subject, error) {
	st, done := repo.db.writer(exec)
	defer done()

	if _, ok := st.subjects[sub.ID]; !ok {
		return school.Subject{}, school.ErrSubjectNotFound
	}
	st.subjects[sub.ID] = &sub
	return sub, nil
}

// DeleteSubject also drops the subject's grades, mirroring the FK cascade.
func (repo *schoolRepository) DeleteSubject(ctx context.Context, id int, exec ...core.DBExecutor) error {
	st, done := repo.db.writer(exec)
	defer done()

	if _, ok := st.subjects[id]; !ok {
		return school.ErrSubjectNotFound
	}
	delete(st.subjects, id)
	for gid, g := range st.grades {
		if g.SubjectID == id {
			delete(st.grades, gid)
		}
	}
	return nil
}

func sortClasses(classes []school.Class) {
	sort.Slice(classes, func(i, j int) bool {
		if classes[i].GradeLevel != classes[j].GradeLevel {
			return classes[i].GradeLevel < classes[j].GradeLevel
		}
		return classes[i].Name < classes[j].Name
	})
}
