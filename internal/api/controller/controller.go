package controller

import (
	"strconv"
	"strings"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/Oumar3/sidat/internal/service/followup"
	"github.com/Oumar3/sidat/internal/service/geo"
	"github.com/Oumar3/sidat/internal/service/indicator"
	"github.com/Oumar3/sidat/internal/service/stats"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	indicators *indicator.Service
	followups  *followup.Service
	stats      *stats.Service
	geo        *geo.Service
}

func NewController(
	indicators *indicator.Service,
	followups *followup.Service,
	statsService *stats.Service,
	geoService *geo.Service,
) *Controller {
	return &Controller{
		indicators: indicators,
		followups:  followups,
		stats:      statsService,
		geo:        geoService,
	}
}

func paramInt64(ctx echo.Context, name string) (int64, error) {
	value, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, constants.ValidationError(name, "must be an integer")
	}
	return value, nil
}

func paramInt(ctx echo.Context, name string) (int, error) {
	value, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, constants.ValidationError(name, "must be an integer")
	}
	return value, nil
}

func queryYear(ctx echo.Context, name string) (*domain.Year, error) {
	raw := ctx.QueryParams().Get(name)
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, constants.ValidationError(name, "must be a year")
	}
	return &year, nil
}

func queryEntityIDs(ctx echo.Context) ([]int64, error) {
	raw := ctx.QueryParams().Get("entity_ids")
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, constants.ValidationError("entity_ids", "must be a comma-separated list of integers")
		}
		ids = append(ids, id)
	}

	return ids, nil
}
