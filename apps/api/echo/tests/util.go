package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/axcelc2326/Group2-Capstone-SchoolRecord/apps/api/echo"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/dashboard"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/honor"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/promotion"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/sf5"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
	inmemdb "github.com/axcelc2326/Group2-Capstone-SchoolRecord/storage/database/inmem"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// env wires a complete Server on top of the in-memory store. Each test gets
// its own so there is no shared state to reset between tests.
type env struct {
	app *Server

	schoolSvc    *school.Service
	studentSvc   *student.Service
	gradeSvc     *grade.Service
	honorSvc     *honor.Service
	sf5Svc       *sf5.Service
	promotionSvc *promotion.Service
}

func setup(t *testing.T) *env {
	t.Helper()

	db := inmemdb.NewDB()
	schoolRepo := inmemdb.NewSchoolRepository(db)
	studentRepo := inmemdb.NewStudentRepository(db)
	gradeRepo := inmemdb.NewGradeRepository(db)
	honorRepo := inmemdb.NewHonorRepository(db)
	sf5Repo := inmemdb.NewSF5Repository(db)
	dashStore := inmemdb.NewDashboardStore(db)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	logger := nopLogger{}

	promotionSvc := promotion.NewService(db, studentRepo, gradeRepo, schoolRepo, honorRepo, sf5Repo, logger)
	schoolSvc := school.NewService(db, schoolRepo, gradeRepo, validate)
	studentSvc := student.NewService(db, studentRepo, schoolRepo, promotionSvc, validate)
	gradeSvc := grade.NewService(db, gradeRepo, schoolRepo, schoolRepo, studentRepo, validate)
	honorSvc := honor.NewService(honorRepo, gradeRepo, schoolRepo, studentRepo, validate)
	sf5Svc := sf5.NewService(sf5Repo, gradeRepo, schoolRepo, studentRepo, validate)
	dashboardSvc := dashboard.NewService(dashStore, schoolRepo, studentRepo, gradeRepo)

	app := NewServer(ServerDeps{
		Conf:       &core.Config{TestMode: true},
		Logger:     logger,
		Validate:   validate,
		Translator: translator,

		SchoolSvc:    schoolSvc,
		StudentSvc:   studentSvc,
		GradeSvc:     gradeSvc,
		HonorSvc:     honorSvc,
		SF5Svc:       sf5Svc,
		PromotionSvc: promotionSvc,
		DashboardSvc: dashboardSvc,
	})

	return &env{
		app:          app,
		schoolSvc:    schoolSvc,
		studentSvc:   studentSvc,
		gradeSvc:     gradeSvc,
		honorSvc:     honorSvc,
		sf5Svc:       sf5Svc,
		promotionSvc: promotionSvc,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func (tt httpTest) run(t *testing.T, app *Server) {
	t.Run(tt.name, func(t *testing.T) {
		req, rec := newRequest(tt.method, tt.path, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	if method == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

// do sends a request and decodes the response body into out (when non-nil),
// failing the test on an unexpected status code.
func do(t *testing.T, app *Server, method, path string, body interface{}, wantCode int, out interface{}) {
	t.Helper()
	var data []byte
	if body != nil {
		data = marshalObj(t, body)
	}
	req, rec := newRequest(method, path, data)
	app.ServeHTTP(rec, req)
	if rec.Code != wantCode {
		t.Fatalf("%s %s: code = %v; wantCode %v; body %s", method, path, rec.Code, wantCode, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decoding response: %v", method, path, err)
		}
	}
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func marshalList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshalList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
