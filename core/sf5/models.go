package sf5

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
)

const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
)

type (
	// Record is a persisted SF5 summary snapshot. The counters are a cache of
	// Tabulate over the grades that existed at generation time; regeneration
	// recomputes them from the live store.
	Record struct {
		ID              int    `json:"id" db:"id"`
		Reference       string `json:"reference" db:"reference"`
		TeacherID       int    `json:"teacher_id" db:"teacher_id"`
		ClassID         int    `json:"class_id" db:"class_id"`
		Region          string `json:"region" db:"region"`
		Division        string `json:"division" db:"division"`
		SchoolID        string `json:"school_id" db:"school_id"`
		SchoolName      string `json:"school_name" db:"school_name"`
		SchoolYear      string `json:"school_year" db:"school_year"`
		SchoolHeadChair string `json:"school_head_chair" db:"school_head_chair"`
		Summary
		Status     string     `json:"status" db:"status"`
		ReviewedBy *int       `json:"reviewed_by,omitempty" db:"reviewed_by"`
		ReviewedAt *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
		CreatedAt  time.Time  `json:"created_at" db:"created_at"`
		UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	}

	// Summary carries every SF5 counter, split by gender where the form is.
	Summary struct {
		MaleCount    int `json:"male_count" db:"male_count"`
		FemaleCount  int `json:"female_count" db:"female_count"`
		OverallCount int `json:"overall_count" db:"overall_count"`

		PromotedMale      int `json:"promoted_male" db:"promoted_male"`
		PromotedFemale    int `json:"promoted_female" db:"promoted_female"`
		ConditionalMale   int `json:"conditional_male" db:"conditional_male"`
		ConditionalFemale int `json:"conditional_female" db:"conditional_female"`
		RetainedMale      int `json:"retained_male" db:"retained_male"`
		RetainedFemale    int `json:"retained_female" db:"retained_female"`

		Below75Male                int `json:"below_75_male" db:"below_75_male"`
		Below75Female              int `json:"below_75_female" db:"below_75_female"`
		Fair7579Male               int `json:"fair_75_79_male" db:"fair_75_79_male"`
		Fair7579Female             int `json:"fair_75_79_female" db:"fair_75_79_female"`
		Satisfactory8084Male       int `json:"satisfactory_80_84_male" db:"satisfactory_80_84_male"`
		Satisfactory8084Female     int `json:"satisfactory_80_84_female" db:"satisfactory_80_84_female"`
		VerySatisfactory8589Male   int `json:"very_satisfactory_85_89_male" db:"very_satisfactory_85_89_male"`
		VerySatisfactory8589Female int `json:"very_satisfactory_85_89_female" db:"very_satisfactory_85_89_female"`
		Outstanding90100Male       int `json:"outstanding_90_100_male" db:"outstanding_90_100_male"`
		Outstanding90100Female     int `json:"outstanding_90_100_female" db:"outstanding_90_100_female"`

		ClassAverage float64 `json:"class_average" db:"class_average"`
	}

	// Tabulation is the full computed report, detail rows included.
	Tabulation struct {
		Summary
		Rows    []Row `json:"rows"`
		HasData bool  `json:"has_data"`
	}

	// Row is one counted student line.
	Row struct {
		StudentID int     `json:"student_id"`
		Name      string  `json:"name"`
		Gender    string  `json:"gender"`
		Average   float64 `json:"average"`
		Action    string  `json:"action_taken"`
	}

	NewSF5 struct {
		TeacherID       int    `json:"-" validate:"required"`
		ClassID         int    `json:"class_id" validate:"required"`
		Region          string `json:"region" validate:"required,max=255"`
		Division        string `json:"division" validate:"required,max=255"`
		SchoolID        string `json:"school_id" validate:"required,max=50"`
		SchoolName      string `json:"school_name" validate:"required,max=255"`
		SchoolYear      string `json:"school_year" validate:"required,schoolyear"`
		SchoolHeadChair string `json:"school_head_chair" validate:"required,max=255"`
	}

	UpdateMeta struct {
		Region          string `json:"region" validate:"required,max=255"`
		Division        string `json:"division" validate:"required,max=255"`
		SchoolID        string `json:"school_id" validate:"required,max=50"`
		SchoolName      string `json:"school_name" validate:"required,max=255"`
		SchoolYear      string `json:"school_year" validate:"required,schoolyear"`
		SchoolHeadChair string `json:"school_head_chair" validate:"required,max=255"`
	}

	QueryFilter struct {
		TeacherID *int
		Status    string
	}
)

func (ns *NewSF5) Validate(validate *validator.Validate) error {
	core.CleanStrings(&ns.Region, &ns.Division, &ns.SchoolID, &ns.SchoolName, &ns.SchoolYear, &ns.SchoolHeadChair)
	if err := validate.Struct(ns); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}

func (um *UpdateMeta) Validate(validate *validator.Validate) error {
	core.CleanStrings(&um.Region, &um.Division, &um.SchoolID, &um.SchoolName, &um.SchoolYear, &um.SchoolHeadChair)
	if err := validate.Struct(um); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}
