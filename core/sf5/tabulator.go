package sf5

import (
	"strings"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

const (
	ActionPromoted    = "Promoted"
	ActionConditional = "Conditional"
	ActionRetained    = "Retained"
)

// Tabulate builds the SF5 counters for one class from the roster and its flat
// grade tuples. Students with no computable average are excluded from every
// counter, the gender totals included. Input order fixes row order.
func Tabulate(roster []student.Student, tuples []grade.Tuple) Tabulation {
	byStudent := grade.GroupByStudent(tuples)

	var tab Tabulation
	var sum float64
	for _, std := range roster {
		avg := grade.OverallAverage(byStudent[std.ID])
		if avg == 0 {
			continue
		}

		male := strings.EqualFold(std.Gender, student.GenderMale)
		if male {
			tab.MaleCount++
		} else {
			tab.FemaleCount++
		}
		tab.OverallCount++
		sum += avg

		action := ActionRetained
		switch {
		case avg >= 75:
			action = ActionPromoted
			incr(&tab.PromotedMale, &tab.PromotedFemale, male)
		case avg >= 70:
			action = ActionConditional
			incr(&tab.ConditionalMale, &tab.ConditionalFemale, male)
		default:
			incr(&tab.RetainedMale, &tab.RetainedFemale, male)
		}

		switch {
		case avg < 75:
			incr(&tab.Below75Male, &tab.Below75Female, male)
		case avg < 80:
			incr(&tab.Fair7579Male, &tab.Fair7579Female, male)
		case avg < 85:
			incr(&tab.Satisfactory8084Male, &tab.Satisfactory8084Female, male)
		case avg < 90:
			incr(&tab.VerySatisfactory8589Male, &tab.VerySatisfactory8589Female, male)
		default:
			incr(&tab.Outstanding90100Male, &tab.Outstanding90100Female, male)
		}

		tab.Rows = append(tab.Rows, Row{
			StudentID: std.ID,
			Name:      std.ListName(),
			Gender:    std.Gender,
			Average:   grade.Round2(avg),
			Action:    action,
		})
	}

	if tab.OverallCount > 0 {
		tab.ClassAverage = grade.Round2(sum / float64(tab.OverallCount))
		tab.HasData = true
	}
	return tab
}

func incr(male, female *int, isMale bool) {
	if isMale {
		*male++
	} else {
		*female++
	}
}
