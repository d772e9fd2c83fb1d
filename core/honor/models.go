package honor

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
)

// Honor bands
const (
	RankWithHonors        = "With Honors"
	RankWithHighHonors    = "With High Honors"
	RankWithHighestHonors = "With Highest Honors"
)

// Review statuses for admin oversight of generated records.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
)

// HonorRoll is the persisted per (class, school year, quarter) snapshot. Only
// the band counters are stored; the per-student detail is recomputed from live
// grades on every download, so it is a cache, not the source of truth.
type HonorRoll struct {
	ID                     int        `json:"id"`
	Reference              string     `json:"reference"`
	TeacherID              int        `json:"teacher_id"`
	ClassID                int        `json:"class_id"`
	SchoolYear             string     `json:"school_year"`
	Quarter                string     `json:"quarter"` // human label, e.g. "1st Quarter"
	PrincipalName          string     `json:"principal_name"`
	WithHonorsCount        int        `json:"with_honors_count"`
	WithHighHonorsCount    int        `json:"with_high_honors_count"`
	WithHighestHonorsCount int        `json:"with_highest_honors_count"`
	Status                 string     `json:"status"`
	ReviewedBy             *int       `json:"reviewed_by,omitempty"`
	ReviewedAt             *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"` // UTC
	UpdatedAt              time.Time  `json:"updated_at"` // UTC
}

// Entry is one ranked line of the recomputed honor list.
type Entry struct {
	StudentID int     `json:"student_id"`
	Name      string  `json:"name"` // "Last, First Middle"
	Average   float64 `json:"average"`
	Rank      string  `json:"rank"`
}

// Counts carries the three persisted band counters.
type Counts struct {
	WithHonors        int `json:"with_honors_count"`
	WithHighHonors    int `json:"with_high_honors_count"`
	WithHighestHonors int `json:"with_highest_honors_count"`
}

// Report pairs the stored summary with the recomputed ordered detail that the
// rendering layer consumes.
type Report struct {
	Record  HonorRoll `json:"record"`
	Entries []Entry   `json:"entries"`
}

// NewHonorRoll contains information needed to generate an honor roll. The
// quarter arrives as the human label and is mapped to the internal key; an
// unknown label is rejected, never defaulted.
type NewHonorRoll struct {
	TeacherID     int    `json:"teacher_id" validate:"required"`
	ClassID       int    `json:"class_id" validate:"required"`
	SchoolYear    string `json:"school_year" validate:"required,schoolyear"`
	Quarter       string `json:"quarter" validate:"required,quarterlabel"`
	PrincipalName string `json:"principal_name" validate:"required,max=255"`
}

func (nh *NewHonorRoll) Validate(validate *validator.Validate) error {
	core.CleanStrings(&nh.SchoolYear, &nh.Quarter, &nh.PrincipalName)
	return validate.Struct(nh)
}

// QueryFilter narrows admin record listings.
type QueryFilter struct {
	TeacherID *int   `query:"teacher_id"`
	Status    string `query:"status"` // pending | reviewed | ""
}
