package echoapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// intParam parses a numeric path parameter; an unparsable id can never match
// a record, so it is a 404.
func intParam(ctx echo.Context, name string) (int, error) {
	val, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, errHttpNotFound
	}
	return val, nil
}

// intQuery parses a required numeric query parameter.
func intQuery(ctx echo.Context, name string) (int, error) {
	val, err := strconv.Atoi(ctx.QueryParam(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" query parameter is required")
	}
	return val, nil
}
