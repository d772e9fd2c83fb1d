package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/grade"
)

type gradeApi struct {
	svc      *grade.Service
	validate *validator.Validate
}

func registerGradeAPI(g *echo.Group, svc *grade.Service, validate *validator.Validate) {
	api := gradeApi{svc: svc, validate: validate}

	g.POST("/grades", api.upsert)
	g.GET("/students/:id/grades", api.sheet)
}

// Handlers

func (api *gradeApi) upsert(ctx echo.Context) error {
	var data grade.Submission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}

	sheet, err := api.svc.Upsert(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *gradeApi) sheet(ctx echo.Context) error {
	studentID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	classID, err := intQuery(ctx, "class_id")
	if err != nil {
		return err
	}

	sheet, err := api.svc.Sheet(ctx.Request().Context(), studentID, classID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sheet)
}
