// Package inmemdb is the in-memory storage backend used by tests. It
// implements every core repository against plain maps and supports real
// transactions: Begin snapshots the whole store, Commit swaps the snapshot
// in, Rollback discards it.
package inmemdb

import (
	"context"
	"database/sql"
	"sync"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/honor"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/sf5"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

type state struct {
	classes  map[int]*school.Class
	subjects map[int]*school.Subject
	students map[int]*student.Student
	grades   map[int]*grade.Grade
	remarks  map[int]*grade.Remark
	honors   map[int]*honor.HonorRoll
	sf5s     map[int]*sf5.Record
	lastID   int
}

func newState() *state {
	return &state{
		classes:  make(map[int]*school.Class),
		subjects: make(map[int]*school.Subject),
		students: make(map[int]*student.Student),
		grades:   make(map[int]*grade.Grade),
		remarks:  make(map[int]*grade.Remark),
		honors:   make(map[int]*honor.HonorRoll),
		sf5s:     make(map[int]*sf5.Record),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.lastID = s.lastID
	for id, v := range s.classes {
		cp := *v
		c.classes[id] = &cp
	}
	for id, v := range s.subjects {
		cp := *v
		c.subjects[id] = &cp
	}
	for id, v := range s.students {
		cp := *v
		c.students[id] = &cp
	}
	for id, v := range s.grades {
		cp := *v
		c.grades[id] = &cp
	}
	for id, v := range s.remarks {
		cp := *v
		c.remarks[id] = &cp
	}
	for id, v := range s.honors {
		cp := *v
		c.honors[id] = &cp
	}
	for id, v := range s.sf5s {
		cp := *v
		c.sf5s[id] = &cp
	}
	return c
}

func (s *state) nextID() int {
	s.lastID++
	return s.lastID
}

// DB implements core.DB on in-memory state.
type DB struct {
	noSQL
	mutex    sync.Mutex
	data     *state
	failures map[string]error
}

func NewDB() *DB {
	return &DB{
		data:     newState(),
		failures: make(map[string]error),
	}
}

// FailOnce arms a one-shot failure for the named repository operation; the
// next call to it returns err instead of touching the store. Tests use it to
// break a transaction midway.
func (db *DB) FailOnce(op string, err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.failures[op] = err
}

func (db *DB) failHook(op string) error {
	if err, ok := db.failures[op]; ok {
		delete(db.failures, op)
		return err
	}
	return nil
}

// Begin snapshots the store and holds the write lock until Commit or
// Rollback, so a transaction sees and mutates its own copy in isolation.
func (db *DB) Begin(ctx context.Context) (core.DBTransactor, error) {
	db.mutex.Lock()
	return &Tx{db: db, work: db.data.clone()}, nil
}

// reader resolves the state a read should run against. Inside a transaction
// that is the snapshot; otherwise the live store under lock.
func (db *DB) reader(exec []core.DBExecutor) (*state, func()) {
	if tx := asTx(exec); tx != nil {
		return tx.work, func() {}
	}
	db.mutex.Lock()
	return db.data, db.mutex.Unlock
}

func (db *DB) writer(exec []core.DBExecutor) (*state, func()) {
	return db.reader(exec)
}

// Tx is an open snapshot transaction.
type Tx struct {
	noSQL
	db   *DB
	work *state
	done bool
}

func (tx *Tx) Commit() error {
	if tx.done {
		return sql.ErrTxDone
	}
	tx.done = true
	tx.db.data = tx.work
	tx.db.mutex.Unlock()
	return nil
}

func (tx *Tx) Rollback() error {
	if tx.done {
		return sql.ErrTxDone
	}
	tx.done = true
	tx.db.mutex.Unlock()
	return nil
}

func asTx(exec []core.DBExecutor) *Tx {
	if len(exec) > 0 && exec[0] != nil {
		if tx, ok := exec[0].(*Tx); ok {
			return tx
		}
	}
	return nil
}

// noSQL satisfies the raw-SQL surface of core.DBExecutor. The in-memory
// repositories never issue SQL; reaching these is a wiring bug.
type noSQL struct{}

func (noSQL) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	panic("inmemdb: raw SQL is not supported")
}

func (noSQL) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	panic("inmemdb: raw SQL is not supported")
}

func (noSQL) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	panic("inmemdb: raw SQL is not supported")
}

func (noSQL) GetContext(context.Context, interface{}, string, ...interface{}) error {
	panic("inmemdb: raw SQL is not supported")
}

func (noSQL) SelectContext(context.Context, interface{}, string, ...interface{}) error {
	panic("inmemdb: raw SQL is not supported")
}
