package grade

import (
	"math"
	"testing"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSubjectAverages(t *testing.T) {
	tuples := []Tuple{
		{StudentID: 1, SubjectID: 10, Quarter: core.Q1, Grade: 80},
		{StudentID: 1, SubjectID: 10, Quarter: core.Q2, Grade: 90},
		{StudentID: 1, SubjectID: 20, Quarter: core.Q1, Grade: 75},
	}

	avgs := SubjectAverages(tuples)
	if len(avgs) != 2 {
		t.Fatalf("SubjectAverages() returned %d subjects, want 2", len(avgs))
	}
	if !almostEqual(avgs[10], 85) {
		t.Errorf("subject 10 average = %v, want 85", avgs[10])
	}
	// a single recorded quarter still yields an average
	if !almostEqual(avgs[20], 75) {
		t.Errorf("subject 20 average = %v, want 75", avgs[20])
	}
}

func TestOverallAverage(t *testing.T) {
	tests := []struct {
		name   string
		tuples []Tuple
		want   float64
	}{
		{name: "no grades means zero, not an error", tuples: nil, want: 0},
		{
			name: "subjects weigh equally regardless of quarter count",
			tuples: []Tuple{
				// subject 10: four quarters averaging 80
				{SubjectID: 10, Quarter: core.Q1, Grade: 80},
				{SubjectID: 10, Quarter: core.Q2, Grade: 80},
				{SubjectID: 10, Quarter: core.Q3, Grade: 80},
				{SubjectID: 10, Quarter: core.Q4, Grade: 80},
				// subject 20: one quarter at 100
				{SubjectID: 20, Quarter: core.Q1, Grade: 100},
			},
			// (80+100)/2, not the flat mean (80*4+100)/5 = 84
			want: 90,
		},
		{
			name: "full year single subject",
			tuples: []Tuple{
				{SubjectID: 10, Quarter: core.Q1, Grade: 74},
				{SubjectID: 10, Quarter: core.Q2, Grade: 75},
				{SubjectID: 10, Quarter: core.Q3, Grade: 76},
				{SubjectID: 10, Quarter: core.Q4, Grade: 75},
			},
			want: 75,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallAverage(tt.tuples); !almostEqual(got, tt.want) {
				t.Errorf("OverallAverage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupByStudent(t *testing.T) {
	tuples := []Tuple{
		{StudentID: 1, SubjectID: 10, Grade: 80},
		{StudentID: 2, SubjectID: 10, Grade: 85},
		{StudentID: 1, SubjectID: 20, Grade: 90},
	}

	byStudent := GroupByStudent(tuples)
	if len(byStudent) != 2 {
		t.Fatalf("GroupByStudent() returned %d students, want 2", len(byStudent))
	}
	if len(byStudent[1]) != 2 || len(byStudent[2]) != 1 {
		t.Errorf("GroupByStudent() sizes = %d/%d, want 2/1", len(byStudent[1]), len(byStudent[2]))
	}
}

func TestRounding(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) float64
		in   float64
		want float64
	}{
		{name: "whole half up", fn: RoundWhole, in: 89.5, want: 90},
		{name: "whole down", fn: RoundWhole, in: 89.49, want: 89},
		{name: "two places", fn: Round2, in: 74.996, want: 75},
		{name: "two places down", fn: Round2, in: 74.994, want: 74.99},
		{name: "three places", fn: Round3, in: 89.4996, want: 89.5},
		{name: "three places down", fn: Round3, in: 89.4994, want: 89.499},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); !almostEqual(got, tt.want) {
				t.Errorf("round(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
