package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/honor"
)

type honorApi struct {
	svc      *honor.Service
	validate *validator.Validate
}

func registerHonorAPI(g *echo.Group, svc *honor.Service, validate *validator.Validate) {
	api := honorApi{svc: svc, validate: validate}

	hg := g.Group("/honor-rolls")
	hg.POST("", api.generate)
	hg.GET("/:id", api.retrieve)
	hg.DELETE("/:id", api.destroy)

	g.GET("/teachers/:teacherId/honor-rolls", api.queryByTeacher)
}

// Handlers

func (api *honorApi) generate(ctx echo.Context) error {
	var data honor.NewHonorRoll
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHonorRoll")
	}

	report, err := api.svc.Generate(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, report)
}

// retrieve recomputes the honor detail from live grades; the stored counters
// are only a cache.
func (api *honorApi) retrieve(ctx echo.Context) error {
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

func (api *honorApi) queryByTeacher(ctx echo.Context) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	rolls, err := api.svc.QueryByTeacher(ctx.Request().Context(), teacherID)
	if err != nil {
		return errors.Wrap(err, "querying honor rolls")
	}
	return ctx.JSON(http.StatusOK, rolls)
}

func (api *honorApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
