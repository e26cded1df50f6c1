package controller

import (
	"net/http"
	"strconv"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/domain/dto"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/Oumar3/sidat/internal/service/stats"
	"github.com/labstack/echo/v4"
)

func statsFilter(ctx echo.Context) (stats.Filter, error) {
	filter := stats.Filter{
		GeoLevel: domain.GeoLevel(ctx.QueryParams().Get("geo_level")),
	}
	if filter.GeoLevel == "" {
		return filter, constants.ValidationError("geo_level", "required")
	}

	entityIDs, err := queryEntityIDs(ctx)
	if err != nil {
		return filter, err
	}
	filter.EntityIDs = entityIDs

	// geo_entity_id — raccourci à entité unique
	if raw := ctx.QueryParams().Get("geo_entity_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, constants.ValidationError("geo_entity_id", "must be an integer")
		}
		filter.EntityIDs = append(filter.EntityIDs, id)
	}

	if filter.StartYear, err = queryYear(ctx, "start_year"); err != nil {
		return filter, err
	}
	if filter.EndYear, err = queryYear(ctx, "end_year"); err != nil {
		return filter, err
	}

	return filter, nil
}

func (c *Controller) GetStatistics(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}
	filter, err := statsFilter(ctx)
	if err != nil {
		return err
	}

	observations, err := c.stats.GetFilteredStatistics(ctx.Request().Context(), id, filter)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, observations)
}

func (c *Controller) GetChartData(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}
	filter, err := statsFilter(ctx)
	if err != nil {
		return err
	}

	chart, err := c.stats.GetFilteredChartData(ctx.Request().Context(), id, filter)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, chart)
}

func (c *Controller) GetSummary(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}
	filter, err := statsFilter(ctx)
	if err != nil {
		return err
	}

	report, err := c.stats.GetSummary(ctx.Request().Context(), id, filter)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, report)
}

func (c *Controller) GetTargetProgress(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}
	filter, err := statsFilter(ctx)
	if err != nil {
		return err
	}

	progresses, err := c.stats.GetTargetProgress(ctx.Request().Context(), id, filter)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, progresses)
}

func (c *Controller) GetComparison(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}

	req := new(dto.ComparisonRequest)
	if err = ctx.Bind(req); err != nil {
		return err
	}
	if err = ctx.Validate(req); err != nil {
		return err
	}

	startYear, err := queryYear(ctx, "start_year")
	if err != nil {
		return err
	}
	endYear, err := queryYear(ctx, "end_year")
	if err != nil {
		return err
	}

	comparison, err := c.stats.GetComparison(ctx.Request().Context(), id, req.Comparisons, startYear, endYear)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, comparison)
}

func (c *Controller) GetAvailableYears(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}

	var geoLevel *domain.GeoLevel
	if raw := ctx.QueryParams().Get("geo_level"); raw != "" {
		level := domain.GeoLevel(raw)
		geoLevel = &level
	}

	var entityID *int64
	if raw := ctx.QueryParams().Get("geo_entity_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return constants.ValidationError("geo_entity_id", "must be an integer")
		}
		entityID = &parsed
	}

	available, err := c.stats.GetAvailableYears(ctx.Request().Context(), id, geoLevel, entityID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, available)
}
