package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/axcelc2326/Group2-Capstone-SchoolRecord/apps/api/echo"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/dashboard"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/honor"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/promotion"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/sf5"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
	logsvc "github.com/axcelc2326/Group2-Capstone-SchoolRecord/services/logger"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/storage/database"
	sqlxrepos "github.com/axcelc2326/Group2-Capstone-SchoolRecord/storage/database/repos"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up validation
	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// set up repositories
	schoolRepo := sqlxrepos.NewSchoolRepository(db)
	studentRepo := sqlxrepos.NewStudentRepository(db)
	gradeRepo := sqlxrepos.NewGradeRepository(db)
	honorRepo := sqlxrepos.NewHonorRepository(db)
	sf5Repo := sqlxrepos.NewSF5Repository(db)
	dashStore := sqlxrepos.NewDashboardStore(db)

	// set up services; promotion comes first so student can cascade resets
	// through it
	promotionSvc := promotion.NewService(db, studentRepo, gradeRepo, schoolRepo, honorRepo, sf5Repo, logger)
	schoolSvc := school.NewService(db, schoolRepo, gradeRepo, validate)
	studentSvc := student.NewService(db, studentRepo, schoolRepo, promotionSvc, validate)
	gradeSvc := grade.NewService(db, gradeRepo, schoolRepo, schoolRepo, studentRepo, validate)
	honorSvc := honor.NewService(honorRepo, gradeRepo, schoolRepo, studentRepo, validate)
	sf5Svc := sf5.NewService(sf5Repo, gradeRepo, schoolRepo, studentRepo, validate)
	dashboardSvc := dashboard.NewService(dashStore, schoolRepo, studentRepo, gradeRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:         conf,
			Logger:       logger,
			Validate:     validate,
			Translator:   translator,
			SchoolSvc:    schoolSvc,
			StudentSvc:   studentSvc,
			GradeSvc:     gradeSvc,
			HonorSvc:     honorSvc,
			SF5Svc:       sf5Svc,
			PromotionSvc: promotionSvc,
			DashboardSvc: dashboardSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*database.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
