package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/sf5"
)

type sf5Api struct {
	svc      *sf5.Service
	validate *validator.Validate
}

func registerSF5API(g *echo.Group, svc *sf5.Service, validate *validator.Validate) {
	api := sf5Api{svc: svc, validate: validate}

	sg := g.Group("/sf5-records")
	sg.POST("", api.generate)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.updateMeta)
	sg.DELETE("/:id", api.destroy)

	g.GET("/teachers/:teacherId/sf5-records", api.queryByTeacher)
}

// Handlers

func (api *sf5Api) generate(ctx echo.Context) error {
	var data sf5.NewSF5
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSF5")
	}
	teacherID, err := intQuery(ctx, "teacher_id")
	if err != nil {
		return err
	}
	data.TeacherID = teacherID

	report, err := api.svc.Generate(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, report)
}

func (api *sf5Api) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	report, err := api.svc.Regenerate(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *sf5Api) queryByTeacher(ctx echo.Context) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	records, err := api.svc.QueryByTeacher(ctx.Request().Context(), teacherID)
	if err != nil {
		return errors.Wrap(err, "querying sf5 records")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *sf5Api) updateMeta(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data sf5.UpdateMeta
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMeta")
	}

	rec, err := api.svc.UpdateMeta(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *sf5Api) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
