package controller

import (
	"net/http"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"
)

func (c *Controller) ListGeoEntities(ctx echo.Context) error {
	var level *domain.GeoLevel
	if raw := ctx.QueryParams().Get("level"); raw != "" {
		parsed := domain.GeoLevel(raw)
		level = &parsed
	}

	entities, err := c.geo.ListEntities(ctx.Request().Context(), level)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, entities)
}

func (c *Controller) GetGeoEntity(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}

	entity, err := c.geo.LookupEntity(ctx.Request().Context(), domain.GeoLevel(ctx.Param("level")), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, entity)
}

func (c *Controller) BackfillGeoEntities(ctx echo.Context) error {
	sourceURL := viper.GetString(constants.ViperGeoSourceURL)
	if sourceURL == "" {
		return constants.ValidationError(constants.ViperGeoSourceURL, "not configured")
	}

	entities, err := c.geo.BackfillEntities(ctx.Request().Context(), sourceURL)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, entities)
}
