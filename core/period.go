package core

import "github.com/pkg/errors"

// Quarter is the internal key of one of the four fixed grading periods.
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

var (
	Quarters = []Quarter{Q1, Q2, Q3, Q4}

	ErrInvalidQuarter = errors.New("invalid quarter")

	quarterLabels = map[Quarter]string{
		Q1: "1st Quarter",
		Q2: "2nd Quarter",
		Q3: "3rd Quarter",
		Q4: "4th Quarter",
	}
	quarterKeys = map[string]Quarter{
		"1st Quarter": Q1,
		"2nd Quarter": Q2,
		"3rd Quarter": Q3,
		"4th Quarter": Q4,
	}
)

func (q Quarter) IsValid() bool {
	_, ok := quarterLabels[q]
	return ok
}

// Label returns the human form ("1st Quarter") of an internal key.
func (q Quarter) Label() string {
	return quarterLabels[q]
}

// ParseQuarter maps an internal key ("Q1".."Q4") to a Quarter.
func ParseQuarter(key string) (Quarter, error) {
	q := Quarter(CleanString(key))
	if !q.IsValid() {
		return "", ErrInvalidQuarter
	}
	return q, nil
}

// ParseQuarterLabel maps a human quarter label ("1st Quarter".."4th Quarter")
// to its internal key. An unknown label is a terminal validation error and is
// never silently defaulted.
func ParseQuarterLabel(label string) (Quarter, error) {
	q, ok := quarterKeys[CleanString(label)]
	if !ok {
		return "", ErrInvalidQuarter
	}
	return q, nil
}

// AcademicPeriod pins a computation to an explicit school year and quarter
// instead of inferring either from wall-clock time or form state.
type AcademicPeriod struct {
	SchoolYear string
	Quarter    Quarter
}
