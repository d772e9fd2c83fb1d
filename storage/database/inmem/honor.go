package inmemdb

import (
	"context"
	"sort"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/honor"
)

type honorRepository struct {
	db *DB
}

func NewHonorRepository(db *DB) honor.Repository {
	return &honorRepository{db: db}
}

func (repo *honorRepository) CreateHonorRoll(ctx context.Context, hr honor.HonorRoll, exec ...core.DBExecutor) (honor.HonorRoll, error) {
	st, done := repo.db.writer(exec)
	defer done()

	hr.ID = st.nextID()
	st.honors[hr.ID] = &hr
	return hr, nil
}

func (repo *honorRepository) GetHonorRollByID(ctx context.Context, id int, exec ...core.DBExecutor) (honor.HonorRoll, error) {
	st, done := repo.db.reader(exec)
	defer done()

	if hr, ok := st.honors[id]; ok {
		return *hr, nil
	}
	return honor.HonorRoll{}, honor.ErrNotFound
}

func (repo *honorRepository) QueryByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]honor.HonorRoll, error) {
	teacher := teacherID
	return repo.QueryAll(ctx, honor.QueryFilter{TeacherID: &teacher}, exec...)
}

func (repo *honorRepository) QueryAll(ctx context.Context, filter honor.QueryFilter, exec ...core.DBExecutor) ([]honor.HonorRoll, error) {
	st, done := repo.db.reader(exec)
	defer done()

	var hrs []honor.HonorRoll
	for _, hr := range st.honors {
		if filter.TeacherID != nil && hr.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.Status != "" && hr.Status != filter.Status {
			continue
		}
		hrs = append(hrs, *hr)
	}
	sort.Slice(hrs, func(i, j int) bool { return hrs[i].CreatedAt.After(hrs[j].CreatedAt) })
	return hrs, nil
}

func (repo *honorRepository) UpdateReview(ctx context.Context, hr honor.HonorRoll, exec ...core.DBExecutor) (honor.HonorRoll, error) {
	st, done := repo.db.writer(exec)
	defer done()

	if _, ok := st.honors[hr.ID]; !ok {
		return honor.HonorRoll{}, honor.ErrNotFound
	}
	st.honors[hr.ID] = &hr
	return hr, nil
}

func (repo *honorRepository) DeleteHonorRoll(ctx context.Context, id int, exec ...core.DBExecutor) error {
	st, done := repo.db.writer(exec)
	defer done()

	if _, ok := st.honors[id]; !ok {
		return honor.ErrNotFound
	}
	delete(st.honors, id)
	return nil
}

func (repo *honorRepository) DeleteByTeacherClasses(ctx context.Context, teacherID int, classIDs []int, exec ...core.DBExecutor) error {
	if err := repo.db.failHook("DeleteHonorRollsByTeacherClasses"); err != nil {
		return err
	}
	st, done := repo.db.writer(exec)
	defer done()

	for id, hr := range st.honors {
		if hr.TeacherID == teacherID && containsInt(classIDs, hr.ClassID) {
			delete(st.honors, id)
		}
	}
	return nil
}
