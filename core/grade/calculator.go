package grade

import (
	"github.com/montanaflynn/stats"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
)

// Tuple is the flat read-model row the calculators fold over: one recorded
// grade, stripped of its object graph. Repositories return these so the
// aggregation stays testable in isolation from storage.
type Tuple struct {
	StudentID int          `db:"student_id"`
	SubjectID int          `db:"subject_id"`
	Quarter   core.Quarter `db:"quarter"`
	Grade     float64      `db:"grade"`
}

// SubjectAverages computes, per subject, the mean across whichever quarters
// have been recorded. A subject is never required to be complete.
func SubjectAverages(tuples []Tuple) map[int]float64 {
	bySubject := make(map[int][]float64)
	for _, t := range tuples {
		bySubject[t.SubjectID] = append(bySubject[t.SubjectID], t.Grade)
	}

	avgs := make(map[int]float64, len(bySubject))
	for id, grades := range bySubject {
		mean, err := stats.Mean(grades)
		if err != nil {
			continue // unreachable: every bucket holds at least one grade
		}
		avgs[id] = mean
	}
	return avgs
}

// OverallAverage is the mean of the subject averages, NOT a flat mean of raw
// grades: each subject weighs equally no matter how many quarters were
// entered. Returns 0 (not an error) when no grades exist yet; callers must
// treat that as "no record" where the display says "In Progress".
func OverallAverage(tuples []Tuple) float64 {
	subjectAvgs := SubjectAverages(tuples)
	if len(subjectAvgs) == 0 {
		return 0
	}
	vals := make([]float64, 0, len(subjectAvgs))
	for _, avg := range subjectAvgs {
		vals = append(vals, avg)
	}
	mean, err := stats.Mean(vals)
	if err != nil {
		return 0
	}
	return mean
}

// GroupByStudent splits class-scope tuples per student. Intermediate full
// precision is preserved; rounding happens only at reporting boundaries.
func GroupByStudent(tuples []Tuple) map[int][]Tuple {
	byStudent := make(map[int][]Tuple)
	for _, t := range tuples {
		byStudent[t.StudentID] = append(byStudent[t.StudentID], t)
	}
	return byStudent
}

// RoundWhole rounds an externally reported average to the nearest whole
// number, half-up (grades live in the positive domain).
func RoundWhole(avg float64) float64 {
	v, _ := stats.Round(avg, 0)
	return v
}

// Round2 rounds to 2 decimal places for stored decimal(5,2) columns.
func Round2(avg float64) float64 {
	v, _ := stats.Round(avg, 2)
	return v
}

// Round3 rounds to 3 decimal places; the honor classifier needs the finer
// precision because a boundary rule keys off it.
func Round3(avg float64) float64 {
	v, _ := stats.Round(avg, 3)
	return v
}
