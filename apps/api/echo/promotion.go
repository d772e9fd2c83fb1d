package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core/promotion"
)

type promotionApi struct {
	svc *promotion.Service
}

func registerPromotionAPI(g *echo.Group, svc *promotion.Service) {
	api := promotionApi{svc: svc}

	g.POST("/teachers/:teacherId/promote", api.promote)
}

type promoteRequest struct {
	TargetClassID int `json:"target_class_id"`
}

func (api *promotionApi) promote(ctx echo.Context) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	var req promoteRequest
	if err = ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to promoteRequest")
	}
	if req.TargetClassID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "target_class_id is required")
	}

	res, err := api.svc.Promote(ctx.Request().Context(), teacherID, req.TargetClassID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
