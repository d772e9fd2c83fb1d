package main

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	inmemdb "github.com/axcelc2326/Group2-Capstone-SchoolRecord/storage/database/inmem"
)

func setup(t *testing.T) (*commandLine, school.Repository) {
	t.Helper()
	logger = log.New(io.Discard, "", 0)
	repo := inmemdb.NewSchoolRepository(inmemdb.NewDB())
	return &commandLine{schoolRepo: repo}, repo
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
}

func Test_commandLine_run(t *testing.T) {
	cli, _ := setup(t)

	tests := []cliTest{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "addclass: no flags", args: []string{"addclass"}, wantErr: errHelp},
		{name: "addclass: missing grade", args: []string{"addclass", "-name", "Grade 3 - Sampaguita"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addClass(t *testing.T) {
	cli, repo := setup(t)

	if err := cli.run([]string{"admin", "addclass", "-name", "Grade 3 - Sampaguita", "-grade", "3"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	classes, err := repo.QueryAllClasses(context.Background())
	if err != nil {
		t.Fatalf("QueryAllClasses() failed: %v", err)
	}
	if len(classes) != 1 {
		t.Fatalf("len(classes) = %d, want 1", len(classes))
	}
	if classes[0].Name != "Grade 3 - Sampaguita" || classes[0].GradeLevel != 3 {
		t.Errorf("unexpected class: %+v", classes[0])
	}
}

func Test_commandLine_seedSubjects(t *testing.T) {
	cli, repo := setup(t)
	ctx := context.Background()

	if err := cli.run([]string{"admin", "seedsubjects"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	lower, err := repo.GetSubjectsByGradeLevel(ctx, 1)
	if err != nil {
		t.Fatalf("GetSubjectsByGradeLevel(1) failed: %v", err)
	}
	if len(lower) != len(commonSubjects) {
		t.Errorf("grade 1 subjects = %d, want %d", len(lower), len(commonSubjects))
	}

	upper, err := repo.GetSubjectsByGradeLevel(ctx, 4)
	if err != nil {
		t.Fatalf("GetSubjectsByGradeLevel(4) failed: %v", err)
	}
	if len(upper) != len(commonSubjects)+len(upperSubjects) {
		t.Errorf("grade 4 subjects = %d, want %d", len(upper), len(commonSubjects)+len(upperSubjects))
	}

	// reruns are no-ops
	if err = cli.run([]string{"admin", "seedsubjects"}); err != nil {
		t.Fatalf("rerun failed: %v", err)
	}
	lower, _ = repo.GetSubjectsByGradeLevel(ctx, 1)
	if len(lower) != len(commonSubjects) {
		t.Errorf("rerun changed grade 1 subjects to %d", len(lower))
	}
}
