package controller

import (
	"net/http"

	"github.com/Oumar3/sidat/internal/domain/dto"
	"github.com/labstack/echo/v4"
)

func (c *Controller) CreateIndicator(ctx echo.Context) error {
	req := new(dto.CreateIndicatorRequest)
	if err := ctx.Bind(req); err != nil {
		return err
	}
	if err := ctx.Validate(req); err != nil {
		return err
	}

	created, err := c.indicators.Create(ctx.Request().Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, created)
}

func (c *Controller) ListIndicators(ctx echo.Context) error {
	indicators, err := c.indicators.List(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, indicators)
}

func (c *Controller) GetIndicator(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}

	indicator, err := c.indicators.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, indicator)
}

func (c *Controller) UpdateIndicator(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}

	req := new(dto.UpdateIndicatorRequest)
	if err = ctx.Bind(req); err != nil {
		return err
	}

	updated, err := c.indicators.Update(ctx.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, updated)
}

func (c *Controller) DeleteIndicator(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}

	if err = c.indicators.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) AppendDataSlice(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}

	req := new(dto.DataSliceRequest)
	if err = ctx.Bind(req); err != nil {
		return err
	}
	if err = ctx.Validate(req); err != nil {
		return err
	}

	position, slice, err := c.indicators.AppendSlice(ctx.Request().Context(), id, req)
	if err != nil {
		return err
	}

	type response struct {
		Position int         `json:"position"`
		Slice    interface{} `json:"slice"`
	}

	return ctx.JSON(http.StatusCreated, response{Position: position, Slice: slice})
}

func (c *Controller) UpdateDataSlice(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}
	position, err := paramInt(ctx, "position")
	if err != nil {
		return err
	}

	req := new(dto.DataSliceRequest)
	if err = ctx.Bind(req); err != nil {
		return err
	}
	if err = ctx.Validate(req); err != nil {
		return err
	}

	if err = c.indicators.UpdateSlice(ctx.Request().Context(), id, position, req); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) RemoveDataSlice(ctx echo.Context) error {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		return err
	}
	position, err := paramInt(ctx, "position")
	if err != nil {
		return err
	}

	if err = c.indicators.RemoveSlice(ctx.Request().Context(), id, position); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}
