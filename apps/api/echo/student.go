package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/student"
)

type studentApi struct {
	svc      *student.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, svc *student.Service, validate *validator.Validate) {
	api := studentApi{svc: svc, validate: validate}

	sg := g.Group("/students")
	sg.POST("", api.register)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
	sg.POST("/:id/approve", api.approve)
	sg.POST("/:id/deny", api.deny)
	sg.POST("/:id/unapprove", api.unapprove)
	sg.POST("/:id/clear-grades", api.clearGrades)

	g.GET("/parents/:parentId/students", api.queryByParent)

	tg := g.Group("/teachers/:teacherId")
	tg.GET("/students/pending", api.queryPending)
	tg.POST("/students/unapprove-all", api.unapproveAll)
	tg.POST("/students/clear-all-grades", api.clearAllGrades)

	g.GET("/classes/:id/roster", api.roster)
}

// Handlers

func (api *studentApi) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	std, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	std, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) queryByParent(ctx echo.Context) error {
	parentID, err := intParam(ctx, "parentId")
	if err != nil {
		return err
	}
	students, err := api.svc.QueryByParent(ctx.Request().Context(), parentID)
	if err != nil {
		return errors.Wrap(err, "querying students by parent")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	parentID, err := intQuery(ctx, "parent_id")
	if err != nil {
		return err
	}
	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}

	std, err := api.svc.Update(ctx.Request().Context(), id, parentID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	parentID, err := intQuery(ctx, "parent_id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id, parentID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) approve(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Approve)
}

func (api *studentApi) deny(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Deny)
}

func (api *studentApi) unapprove(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Unapprove)
}

func (api *studentApi) clearGrades(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.ClearGrades(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) queryPending(ctx echo.Context) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	students, err := api.svc.QueryPendingForTeacher(ctx.Request().Context(), teacherID)
	if err != nil {
		return errors.Wrap(err, "querying pending students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) unapproveAll(ctx echo.Context) error {
	return api.bulk(ctx, api.svc.UnapproveAll)
}

func (api *studentApi) clearAllGrades(ctx echo.Context) error {
	return api.bulk(ctx, api.svc.ClearAllGrades)
}

func (api *studentApi) roster(ctx echo.Context) error {
	classID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var filter student.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	var ord Ordering
	ord.Bind(ctx)
	filter.Ordering = ord.Orderings

	students, err := api.svc.QueryRoster(ctx.Request().Context(), classID, filter)
	if err != nil {
		return errors.Wrap(err, "querying roster")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) transition(ctx echo.Context, op func(context.Context, int) (student.Student, error)) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	std, err := op(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) bulk(ctx echo.Context, op func(context.Context, int) (int, error)) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	affected, err := op(ctx.Request().Context(), teacherID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"affected": affected})
}
