package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/dashboard"
)

type dashboardApi struct {
	svc *dashboard.Service
}

func registerDashboardAPI(g *echo.Group, svc *dashboard.Service) {
	api := dashboardApi{svc: svc}

	dg := g.Group("/dashboard")
	dg.GET("/admin", api.admin)
	dg.GET("/teacher/:teacherId", api.teacher)
	dg.GET("/parent/:parentId", api.parent)
}

// Handlers

func (api *dashboardApi) admin(ctx echo.Context) error {
	dash, err := api.svc.ForAdmin(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *dashboardApi) teacher(ctx echo.Context) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	dash, err := api.svc.ForTeacher(ctx.Request().Context(), teacherID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *dashboardApi) parent(ctx echo.Context) error {
	parentID, err := intParam(ctx, "parentId")
	if err != nil {
		return err
	}
	dash, err := api.svc.ForParent(ctx.Request().Context(), parentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dash)
}
