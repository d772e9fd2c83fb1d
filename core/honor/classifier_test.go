package honor

import "testing"

func TestClassify(t *testing.T) {
	students := []StudentGrades{
		{StudentID: 1, Name: "Reyes, Ana", Grades: []float64{98, 99, 98, 98}},    // highest honors
		{StudentID: 2, Name: "Santos, Ben", Grades: []float64{95, 96, 95, 95}},   // high honors
		{StudentID: 3, Name: "Cruz, Carla", Grades: []float64{90, 91, 90, 90}},   // with honors
		{StudentID: 4, Name: "Diaz, Dan", Grades: []float64{80, 82, 81, 80}},     // below range
		{StudentID: 5, Name: "Evan, Eve", Grades: []float64{100, 100, 100, 84}},  // subject floor breach
		{StudentID: 6, Name: "Flores, Fe"},                                       // no grades this quarter
	}

	entries, counts := Classify(students)

	if len(entries) != 3 {
		t.Fatalf("Classify() returned %d entries, want 3", len(entries))
	}
	if counts.WithHighestHonors != 1 || counts.WithHighHonors != 1 || counts.WithHonors != 1 {
		t.Errorf("counts = %+v, want one per band", counts)
	}

	// ordered descending by average
	wantOrder := []int{1, 2, 3}
	for i, want := range wantOrder {
		if entries[i].StudentID != want {
			t.Errorf("entries[%d].StudentID = %d, want %d", i, entries[i].StudentID, want)
		}
	}
	wantRanks := []string{RankWithHighestHonors, RankWithHighHonors, RankWithHonors}
	for i, want := range wantRanks {
		if entries[i].Rank != want {
			t.Errorf("entries[%d].Rank = %q, want %q", i, entries[i].Rank, want)
		}
	}
}

func TestClassify_borderlineBump(t *testing.T) {
	tests := []struct {
		name     string
		grades   []float64
		wantIn   bool
		wantAvg  float64
		wantRank string
	}{
		{
			// mean 89.5 sits on the bump floor and becomes exactly 90
			name:     "bump floor qualifies",
			grades:   []float64{89, 90, 89, 90},
			wantIn:   true,
			wantAvg:  90,
			wantRank: RankWithHonors,
		},
		{
			// mean 89.75 is inside [89.5, 90) and bumps as well
			name:     "inside bump window",
			grades:   []float64{89, 90, 90, 90},
			wantIn:   true,
			wantAvg:  90,
			wantRank: RankWithHonors,
		},
		{
			// mean 89.25 misses the window and is excluded
			name:   "below bump window",
			grades: []float64{89, 89, 89, 90},
			wantIn: false,
		},
		{
			// mean 90 qualifies without any bump
			name:     "exactly qualifying",
			grades:   []float64{90, 90, 90, 90},
			wantIn:   true,
			wantAvg:  90,
			wantRank: RankWithHonors,
		},
		{
			// high average cannot save a subject under the floor
			name:   "subject floor disqualifies",
			grades: []float64{99, 99, 99, 84.99},
			wantIn: false,
		},
		{
			// the floor itself is acceptable
			name:     "subject at the floor",
			grades:   []float64{99, 99, 99, 85},
			wantIn:   true,
			wantAvg:  95.5,
			wantRank: RankWithHighHonors,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, _ := Classify([]StudentGrades{{StudentID: 1, Name: "X", Grades: tt.grades}})

			if !tt.wantIn {
				if len(entries) != 0 {
					t.Fatalf("Classify() = %+v, want excluded", entries)
				}
				return
			}
			if len(entries) != 1 {
				t.Fatalf("Classify() returned %d entries, want 1", len(entries))
			}
			if entries[0].Average != tt.wantAvg {
				t.Errorf("average = %v, want %v", entries[0].Average, tt.wantAvg)
			}
			if entries[0].Rank != tt.wantRank {
				t.Errorf("rank = %q, want %q", entries[0].Rank, tt.wantRank)
			}
		})
	}
}

func TestClassify_tiesKeepRosterOrder(t *testing.T) {
	students := []StudentGrades{
		{StudentID: 7, Name: "A", Grades: []float64{95, 95}},
		{StudentID: 3, Name: "B", Grades: []float64{95, 95}},
		{StudentID: 9, Name: "C", Grades: []float64{96, 96}},
	}

	entries, _ := Classify(students)
	if len(entries) != 3 {
		t.Fatalf("Classify() returned %d entries, want 3", len(entries))
	}
	want := []int{9, 7, 3}
	for i, id := range want {
		if entries[i].StudentID != id {
			t.Errorf("entries[%d].StudentID = %d, want %d", i, entries[i].StudentID, id)
		}
	}
}
