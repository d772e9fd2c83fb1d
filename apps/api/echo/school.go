package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/school"
)

type schoolApi struct {
	svc      *school.Service
	validate *validator.Validate
}

func registerSchoolAPI(g *echo.Group, svc *school.Service, validate *validator.Validate) {
	api := schoolApi{svc: svc, validate: validate}

	cg := g.Group("/classes")
	cg.POST("", api.createClass)
	cg.GET("", api.queryClasses)
	cg.GET("/:id", api.retrieveClass)
	cg.POST("/assign-teacher", api.assignTeacher)

	sg := g.Group("/subjects")
	sg.POST("", api.createSubject)
	sg.GET("", api.querySubjects)
	sg.PUT("/:id", api.updateSubject)
	sg.DELETE("/:id", api.destroySubject)

	g.GET("/teachers/:teacherId/classes", api.queryTeacherClasses)
}

// Handlers

func (api *schoolApi) createClass(ctx echo.Context) error {
	var data school.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}

	cls, err := api.svc.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *schoolApi) queryClasses(ctx echo.Context) error {
	classes, err := api.svc.QueryAllClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *schoolApi) retrieveClass(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	cls, err := api.svc.GetClassByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *schoolApi) queryTeacherClasses(ctx echo.Context) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	classes, err := api.svc.GetClassesByTeacher(ctx.Request().Context(), teacherID)
	if err != nil {
		return errors.Wrap(err, "querying teacher classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *schoolApi) assignTeacher(ctx echo.Context) error {
	var data school.AssignTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignTeacher")
	}

	cls, err := api.svc.AssignTeacher(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *schoolApi) createSubject(ctx echo.Context) error {
	var data school.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}

	sub, err := api.svc.CreateSubject(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *schoolApi) querySubjects(ctx echo.Context) error {
	var gradeLevel *int
	if raw := ctx.QueryParam("grade_level"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "grade_level must be a number")
		}
		gradeLevel = &level
	}
	subjects, err := api.svc.QuerySubjects(ctx.Request().Context(), gradeLevel)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *schoolApi) updateSubject(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data school.UpdateSubject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}

	sub, err := api.svc.UpdateSubject(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *schoolApi) destroySubject(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteSubject(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
