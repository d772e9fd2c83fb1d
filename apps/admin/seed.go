package main

import (
	"context"
	"time"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
)

const (
	minGradeLevel = 1
	maxGradeLevel = 6
)

// commonSubjects are taught at every grade level; EPP/TLE starts at grade 4.
var (
	commonSubjects = []string{
		"English",
		"Filipino",
		"Mathematics",
		"Science",
		"Araling Panlipunan",
		"Edukasyon sa Pagpapakatao",
		"MAPEH",
	}
	upperSubjects = []string{"EPP/TLE"}
)

// seedSubjects loads the standard subject list, skipping grade levels that
// already have subjects so reruns stay harmless.
func (cli *commandLine) seedSubjects() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for level := minGradeLevel; level <= maxGradeLevel; level++ {
		count, err := cli.schoolRepo.CountSubjectsByGradeLevel(ctx, level)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Printf("grade %d already has %d subjects, skipping", level, count)
			continue
		}

		names := commonSubjects
		if level >= 4 {
			names = append(append([]string{}, commonSubjects...), upperSubjects...)
		}
		for _, name := range names {
			now := time.Now().UTC()
			if _, err = cli.schoolRepo.CreateSubject(ctx, school.Subject{
				Name:       name,
				GradeLevel: level,
				CreatedAt:  now,
				UpdatedAt:  now,
			}); err != nil {
				return err
			}
		}
		logger.Printf("grade %d seeded with %d subjects", level, len(names))
	}
	return nil
}
