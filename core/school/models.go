package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
)

// Class is a homeroom section; one teacher handles one or more classes.
type Class struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	GradeLevel int       `json:"grade_level"`
	TeacherID  *int      `json:"teacher_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// Subject is a graded subject offered at a single grade level.
// Deleting a subject cascades to its grades.
type Subject struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	GradeLevel int       `json:"grade_level"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name       string `json:"name" validate:"required,max=255"`
	GradeLevel int    `json:"grade_level" validate:"required,min=1,max=12"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

// AssignTeacher binds a teacher to an existing class.
type AssignTeacher struct {
	ClassID   int `json:"class_id" validate:"required"`
	TeacherID int `json:"teacher_id" validate:"required"`
}

func (at *AssignTeacher) Validate(validate *validator.Validate) error {
	return validate.Struct(at)
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name       string `json:"name" validate:"required,max=255"`
	GradeLevel int    `json:"grade_level" validate:"required,min=1,max=12"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
type UpdateSubject struct {
	Name       string `json:"name" validate:"required,max=255"`
	GradeLevel int    `json:"grade_level" validate:"required,min=1,max=12"`
}

func (us *UpdateSubject) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	return validate.Struct(us)
}
