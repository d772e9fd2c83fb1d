package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/storage/database"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *database.DB
	schoolRepo school.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - apply pending database migrations")
	fmt.Println("  seedsubjects - load the standard subject list for every grade level")
	fmt.Println("  addclass -name NAME -grade LEVEL - create a class section")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addClassCmd := flag.NewFlagSet("addclass", flag.ExitOnError)
	addClassName := addClassCmd.String("name", "", "The class section name, e.g. \"Grade 3 - Sampaguita\".")
	addClassGrade := addClassCmd.Int("grade", 0, "The grade level (1-12).")

	switch args[1] {
	case "migrate":
		return database.Migrate(cli.db.DB.DB)
	case "seedsubjects":
		return cli.seedSubjects()
	case "addclass":
		if err := addClassCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addClassName == "" || *addClassGrade == 0 {
			addClassCmd.Usage()
			return errHelp
		}
		return cli.addClass(*addClassName, *addClassGrade)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) addClass(name string, gradeLevel int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	cls, err := cli.schoolRepo.CreateClass(ctx, school.Class{
		Name:       name,
		GradeLevel: gradeLevel,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return err
	}
	logger.Printf("class %q created with id %d", cls.Name, cls.ID)
	return nil
}
