package inmemdb

import (
	"context"
	"sort"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/sf5"
)

type sf5Repository struct {
	db *DB
}

func NewSF5Repository(db *DB) sf5.Repository {
	return &sf5Repository{db: db}
}

func (repo *sf5Repository) CreateRecord(ctx context.Context, rec sf5.Record, exec ...core.DBExecutor) (sf5.Record, error) {
	st, done := repo.db.writer(exec)
	defer done()

	rec.ID = st.nextID()
	st.sf5s[rec.ID] = &rec
	return rec, nil
}

func (repo *sf5Repository) GetRecordByID(ctx context.Context, id int, exec ...core.DBExecutor) (sf5.Record, error) {
	st, done := repo.db.reader(exec)
	defer done()

	if rec, ok := st.sf5s[id]; ok {
		return *rec, nil
	}
	return sf5.Record{}, sf5.ErrNotFound
}

func (repo *sf5Repository) QueryByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]sf5.Record, error) {
	teacher := teacherID
	return repo.QueryAll(ctx, sf5.QueryFilter{TeacherID: &teacher}, exec...)
}

func (repo *sf5Repository) QueryAll(ctx context.Context, filter sf5.QueryFilter, exec ...core.DBExecutor) ([]sf5.Record, error) {
	st, done := repo.db.reader(exec)
	defer done()

	var recs []sf5.Record
	for _, rec := range st.sf5s {
		if filter.TeacherID != nil && rec.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		recs = append(recs, *rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	return recs, nil
}

func (repo *sf5Repository) UpdateRecord(ctx context.Context, rec sf5.Record, exec ...core.DBExecutor) (sf5.Record, error) {
	st, done := repo.db.writer(exec)
	defer done()

	if _, ok := st.sf5s[rec.ID]; !ok {
		return sf5.Record{}, sf5.ErrNotFound
	}
	st.sf5s[rec.ID] = &rec
	return rec, nil
}

func (repo *sf5Repository) DeleteRecord(ctx context.Context, id int, exec ...core.DBExecutor) error {
	st, done := repo.db.writer(exec)
	defer done()

	if _, ok := st.sf5s[id]; !ok {
		return sf5.ErrNotFound
	}
	delete(st.sf5s, id)
	return nil
}

func (repo *sf5Repository) DeleteByTeacherClasses(ctx context.Context, teacherID int, classIDs []int, exec ...core.DBExecutor) error {
	if err := repo.db.failHook("DeleteSF5sByTeacherClasses"); err != nil {
		return err
	}
	st, done := repo.db.writer(exec)
	defer done()

	for id, rec := range st.sf5s {
		if rec.TeacherID == teacherID && containsInt(classIDs, rec.ClassID) {
			delete(st.sf5s, id)
		}
	}
	return nil
}
