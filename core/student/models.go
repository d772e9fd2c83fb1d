package student

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
)

// Genders
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Student is a pupil registered by a parent and gated by teacher approval.
// ClassID is nil once the student has been denied or promoted out of a class.
type Student struct {
	ID         int       `json:"id"`
	FirstName  string    `json:"first_name"`
	MiddleName string    `json:"middle_name"`
	LastName   string    `json:"last_name"`
	LRN        string    `json:"lrn"`
	Gender     string    `json:"gender"`
	ClassID    *int      `json:"class_id"`
	ParentID   int       `json:"parent_id"`
	Approved   bool      `json:"approved_by_teacher"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// FullName returns "First Last".
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// ListName returns the roster form "Last, First Middle".
func (s Student) ListName() string {
	name := s.LastName + ", " + s.FirstName
	if s.MiddleName != "" {
		name += " " + s.MiddleName
	}
	return name
}

func (s Student) IsMale() bool {
	return strings.EqualFold(s.Gender, GenderMale)
}

func (s Student) IsFemale() bool {
	return strings.EqualFold(s.Gender, GenderFemale)
}

// NewStudent contains information needed to register a new Student.
// Registration is parent-scoped and starts the lifecycle at Pending Approval.
type NewStudent struct {
	FirstName  string `json:"first_name" validate:"required,max=255"`
	MiddleName string `json:"middle_name" validate:"omitempty,max=255"`
	LastName   string `json:"last_name" validate:"required,max=255"`
	LRN        string `json:"lrn" validate:"omitempty,max=20"`
	Gender     string `json:"gender" validate:"required,oneof=Male Female"`
	ClassID    int    `json:"class_id" validate:"required"`
	ParentID   int    `json:"parent_id" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	core.CleanStrings(&ns.FirstName, &ns.MiddleName, &ns.LastName, &ns.LRN, &ns.Gender)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	FirstName  string `json:"first_name" validate:"required,max=255"`
	MiddleName string `json:"middle_name" validate:"omitempty,max=255"`
	LastName   string `json:"last_name" validate:"required,max=255"`
	ClassID    int    `json:"class_id" validate:"required"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	core.CleanStrings(&us.FirstName, &us.MiddleName, &us.LastName)
	return validate.Struct(us)
}

// QueryFilter narrows and orders roster lookups.
type QueryFilter struct {
	Search   string `query:"search"` // case-insensitive match on first or last name
	Ordering []core.DBOrdering
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
