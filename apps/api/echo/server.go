package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/dashboard"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/honor"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/promotion"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/sf5"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		SchoolSvc    *school.Service
		StudentSvc   *student.Service
		GradeSvc     *grade.Service
		HonorSvc     *honor.Service
		SF5Svc       *sf5.Service
		PromotionSvc *promotion.Service
		DashboardSvc *dashboard.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerSchoolAPI(v1, s.deps.SchoolSvc, s.deps.Validate)
	registerStudentAPI(v1, s.deps.StudentSvc, s.deps.Validate)
	registerGradeAPI(v1, s.deps.GradeSvc, s.deps.Validate)
	registerHonorAPI(v1, s.deps.HonorSvc, s.deps.Validate)
	registerSF5API(v1, s.deps.SF5Svc, s.deps.Validate)
	registerPromotionAPI(v1, s.deps.PromotionSvc)
	registerDashboardAPI(v1, s.deps.DashboardSvc)
	registerRecordsAPI(v1, s.deps.HonorSvc, s.deps.SF5Svc)
}

func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errs
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the School Records API!")
}
