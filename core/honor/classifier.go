package honor

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
)

// Qualification bounds. An average in [89.5, 90) is bumped to exactly 90: the
// borderline case rounds up into honors range. A single subject below the
// floor disqualifies regardless of average.
const (
	qualifyingAverage = 90.0
	bumpFloor         = 89.5
	subjectFloor      = 85.0

	highHonorsCutoff    = 95.0
	highestHonorsCutoff = 98.0
)

// StudentGrades is one student's scores for the quarter under classification,
// in roster encounter order.
type StudentGrades struct {
	StudentID int
	Name      string // "Last, First Middle"
	Grades    []float64
}

// Classify ranks a class's students for one quarter. Students with no grades
// that quarter are skipped. The returned list is ordered descending by
// average; ties retain encounter order. Classification is deterministic from
// the same grade data, which regeneration relies on.
func Classify(students []StudentGrades) ([]Entry, Counts) {
	entries := make([]Entry, 0, len(students))
	var counts Counts

	for _, std := range students {
		if len(std.Grades) == 0 {
			continue
		}

		mean, err := stats.Mean(std.Grades)
		if err != nil {
			continue
		}
		avg := grade.Round3(mean)
		if avg >= bumpFloor && avg < qualifyingAverage {
			avg = qualifyingAverage
		}

		min, err := stats.Min(std.Grades)
		if err != nil {
			continue
		}
		if avg < qualifyingAverage || min < subjectFloor {
			continue
		}

		var rank string
		switch {
		case avg >= highestHonorsCutoff:
			rank = RankWithHighestHonors
			counts.WithHighestHonors++
		case avg >= highHonorsCutoff:
			rank = RankWithHighHonors
			counts.WithHighHonors++
		default:
			rank = RankWithHonors
			counts.WithHonors++
		}

		entries = append(entries, Entry{
			StudentID: std.StudentID,
			Name:      std.Name,
			Average:   avg,
			Rank:      rank,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Average > entries[j].Average })
	return entries, counts
}
