package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

type studentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student, exec ...core.DBExecutor) (student.Student, error) {
	st, done := repo.db.writer(exec)
	defer done()

	std.ID = st.nextID()
	st.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (student.Student, error) {
	st, done := repo.db.reader(exec)
	defer done()

	if std, ok := st.students[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student, exec ...core.DBExecutor) (student.Student, error) {
	st, done := repo.db.writer(exec)
	defer done()

	if _, ok := st.students[std.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	st.students[std.ID] = &std
	return std, nil
}

// DeleteStudent also drops the student's grades and remarks, mirroring the
// FK cascades.
func (repo *studentRepository) DeleteStudent(ctx context.Context, id int, exec ...core.DBExecutor) error {
	st, done := repo.db.writer(exec)
	defer done()

	if _, ok := st.students[id]; !ok {
		return student.ErrNotFound
	}
	delete(st.students, id)
	for gid, g := range st.grades {
		if g.StudentID == id {
			delete(st.grades, gid)
		}
	}
	for rid, r := range st.remarks {
		if r.StudentID == id {
			delete(st.remarks, rid)
		}
	}
	return nil
}

func (repo *studentRepository) QueryByParent(ctx context.Context, parentID int, exec ...core.DBExecutor) ([]student.Student, error) {
	st, done := repo.db.reader(exec)
	defer done()

	var students []student.Student
	for _, std := range st.students {
		if std.ParentID == parentID {
			students = append(students, *std)
		}
	}
	sortByName(students)
	return students, nil
}

func (repo *studentRepository) QueryPendingByClasses(ctx context.Context, classIDs []int, exec ...core.DBExecutor) ([]student.Student, error) {
	st, done := repo.db.reader(exec)
	defer done()

	var students []student.Student
	for _, std := range st.students {
		if !std.Approved && std.ClassID != nil && containsInt(classIDs, *std.ClassID) {
			students = append(students, *std)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *studentRepository) QueryRoster(ctx context.Context, classID int, filter student.QueryFilter, exec ...core.DBExecutor) ([]student.Student, error) {
	st, done := repo.db.reader(exec)
	defer done()

	search := strings.ToLower(filter.Search)
	var students []student.Student
	for _, std := range st.students {
		if !std.Approved || std.ClassID == nil || *std.ClassID != classID {
			continue
		}
		if search != "" && !matchesSearch(*std, search) {
			continue
		}
		students = append(students, *std)
	}
	if len(filter.Ordering) > 0 {
		sortByOrdering(students, filter.Ordering[0])
	} else {
		sortByName(students)
	}
	return students, nil
}

func (repo *studentRepository) StudentIDsByClasses(ctx context.Context, classIDs []int, exec ...core.DBExecutor) ([]int, error) {
	st, done := repo.db.reader(exec)
	defer done()

	var ids []int
	for _, std := range st.students {
		if std.ClassID != nil && containsInt(classIDs, *std.ClassID) {
			ids = append(ids, std.ID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (repo *studentRepository) SetApproval(ctx context.Context, id int, approved bool, exec ...core.DBExecutor) error {
	st, done := repo.db.writer(exec)
	defer done()

	std, ok := st.students[id]
	if !ok {
		return student.ErrNotFound
	}
	std.Approved = approved
	return nil
}

func (repo *studentRepository) ClearClass(ctx context.Context, ids []int, exec ...core.DBExecutor) error {
	st, done := repo.db.writer(exec)
	defer done()

	for _, id := range ids {
		if std, ok := st.students[id]; ok {
			std.ClassID = nil
		}
	}
	return nil
}

func (repo *studentRepository) MoveStudentsToClass(ctx context.Context, studentIDs []int, classID int, exec ...core.DBExecutor) error {
	if err := repo.db.failHook("MoveStudentsToClass"); err != nil {
		return err
	}
	st, done := repo.db.writer(exec)
	defer done()

	for _, id := range studentIDs {
		if std, ok := st.students[id]; ok {
			std.ClassID = &classID
		}
	}
	return nil
}

// AcquireClassLock is a no-op; the store serializes transactions globally.
func (repo *studentRepository) AcquireClassLock(ctx context.Context, classID int, exec ...core.DBExecutor) error {
	return nil
}

func sortByName(students []student.Student) {
	sort.Slice(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return students[i].LastName < students[j].LastName
		}
		return students[i].FirstName < students[j].FirstName
	})
}

func sortByOrdering(students []student.Student, ord core.DBOrdering) {
	key := func(std student.Student) string {
		switch ord.Field {
		case "first_name":
			return std.FirstName
		case "lrn":
			return std.LRN
		case "created_at":
			return std.CreatedAt.Format("2006-01-02T15:04:05.000000000")
		default:
			return std.LastName
		}
	}
	sort.SliceStable(students, func(i, j int) bool {
		if ord.Ascending {
			return key(students[i]) < key(students[j])
		}
		return key(students[i]) > key(students[j])
	})
}

func matchesSearch(std student.Student, search string) bool {
	return strings.Contains(strings.ToLower(std.FirstName), search) ||
		strings.Contains(strings.ToLower(std.LastName), search) ||
		strings.Contains(strings.ToLower(std.LRN), search)
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
