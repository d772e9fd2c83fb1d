package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/honor"
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/sf5"
)

// recordsApi is the admin view over generated reports of both kinds.
type recordsApi struct {
	honorSvc *honor.Service
	sf5Svc   *sf5.Service
}

func registerRecordsAPI(g *echo.Group, honorSvc *honor.Service, sf5Svc *sf5.Service) {
	api := recordsApi{honorSvc: honorSvc, sf5Svc: sf5Svc}

	g.GET("/records", api.query)
	g.POST("/honor-rolls/:id/review", api.reviewHonorRoll)
	g.POST("/sf5-records/:id/review", api.reviewSF5)
}

type recordsPayload struct {
	HonorRolls []honor.HonorRoll `json:"honor_rolls"`
	SF5Records []sf5.Record      `json:"sf5_records"`
}

func (api *recordsApi) query(ctx echo.Context) error {
	status := ctx.QueryParam("status")
	var teacherID *int
	if raw := ctx.QueryParam("teacher_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "teacher_id must be a number")
		}
		teacherID = &id
	}

	rolls, err := api.honorSvc.QueryAll(ctx.Request().Context(), honor.QueryFilter{TeacherID: teacherID, Status: status})
	if err != nil {
		return errors.Wrap(err, "querying honor rolls")
	}
	records, err := api.sf5Svc.QueryAll(ctx.Request().Context(), sf5.QueryFilter{TeacherID: teacherID, Status: status})
	if err != nil {
		return errors.Wrap(err, "querying sf5 records")
	}
	return ctx.JSON(http.StatusOK, recordsPayload{HonorRolls: rolls, SF5Records: records})
}

func (api *recordsApi) reviewHonorRoll(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	adminID, err := intQuery(ctx, "admin_id")
	if err != nil {
		return err
	}
	roll, err := api.honorSvc.ToggleReviewed(ctx.Request().Context(), id, adminID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, roll)
}

func (api *recordsApi) reviewSF5(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	adminID, err := intQuery(ctx, "admin_id")
	if err != nil {
		return err
	}
	rec, err := api.sf5Svc.ToggleReviewed(ctx.Request().Context(), id, adminID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}
