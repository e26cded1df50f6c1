package controller

import (
	"net/http"

	"github.com/Oumar3/sidat/internal/domain/dto"
	"github.com/Oumar3/sidat/internal/pkg/store"
	"github.com/labstack/echo/v4"
)

func (c *Controller) CreateFollowup(ctx echo.Context) error {
	indicatorID, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}

	req := new(dto.CreateFollowupRequest)
	if err = ctx.Bind(req); err != nil {
		return err
	}
	if err = ctx.Validate(req); err != nil {
		return err
	}

	created, err := c.followups.Create(ctx.Request().Context(), indicatorID, req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, created)
}

func (c *Controller) ListFollowups(ctx echo.Context) error {
	indicatorID, err := paramInt64(ctx, "id")
	if err != nil {
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

	listed, err := c.followups.List(ctx.Request().Context(), store.ListFollowupsOpts{
		IndicatorID: indicatorID,
		StartYear:   startYear,
		EndYear:     endYear,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, listed)
}

func (c *Controller) GetFollowup(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}

	followup, err := c.followups.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, followup)
}

func (c *Controller) UpdateFollowup(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}

	req := new(dto.UpdateFollowupRequest)
	if err = ctx.Bind(req); err != nil {
		return err
	}
	if err = ctx.Validate(req); err != nil {
		return err
	}

	updated, err := c.followups.Update(ctx.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, updated)
}

func (c *Controller) DeleteFollowup(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}

	if err = c.followups.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}
