package grade

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
)

// Grade value bounds enforced on entry.
const (
	MinGrade = 60
	MaxGrade = 100
)

// PromotionThreshold is the fixed final-average cutoff between Promoted and
// Retained. It is not configurable per class.
const PromotionThreshold = 75.0

// Remark labels
const (
	RemarkPromoted = "Promoted"
	RemarkRetained = "Retained"
)

// Grade is one numeric score for (student, subject, quarter, class).
// Resubmission upserts on that key.
type Grade struct {
	ID        int          `json:"id"`
	StudentID int          `json:"student_id"`
	SubjectID int          `json:"subject_id"`
	ClassID   int          `json:"class_id"`
	Quarter   core.Quarter `json:"quarter"`
	Grade     float64      `json:"grade"`
	CreatedAt time.Time    `json:"created_at"` // UTC
	UpdatedAt time.Time    `json:"updated_at"` // UTC
}

// Remark is the stored final-average record for (student, class). It exists
// only once the student has a grade for every subject in every quarter;
// "In Progress" is a derived display state, never stored.
type Remark struct {
	ID           int       `json:"id"`
	StudentID    int       `json:"student_id"`
	ClassID      int       `json:"class_id"`
	FinalAverage float64   `json:"final_average"`
	Remarks      string    `json:"remarks"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// Submission is a teacher's grade-entry payload for one quarter: one value per
// subject. Safe to retry; the upsert key absorbs duplicates.
type Submission struct {
	StudentID int             `json:"student_id" validate:"required"`
	ClassID   int             `json:"class_id" validate:"required"`
	Quarter   string          `json:"quarter" validate:"required,quarter"`
	Grades    map[int]float64 `json:"grades" validate:"required,min=1,dive,gte=60,lte=100"`
}

func (sub *Submission) Validate(validate *validator.Validate) error {
	sub.Quarter = core.CleanString(sub.Quarter)
	return validate.Struct(sub)
}

// Sheet is the grade-entry read model: the quarter→subject→grade matrix for one
// student, plus the remark when the year is complete.
type Sheet struct {
	StudentID int                              `json:"student_id"`
	ClassID   int                              `json:"class_id"`
	Grades    map[core.Quarter]map[int]float64 `json:"grades"`
	Remark    *Remark                          `json:"remark,omitempty"`
	// InProgress is set when no remark exists yet; a zero average means
	// "no grades recorded", not a failing mark.
	InProgress bool `json:"in_progress"`
}
