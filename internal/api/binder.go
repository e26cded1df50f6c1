package api

import (
	"net/http"
	"strings"

	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// Binder décode les corps JSON avec sonic, le reste passe par le binder
// echo par défaut.
type Binder struct {
	fallback echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	contentType := req.Header.Get(echo.HeaderContentType)

	if req.ContentLength != 0 && strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(i); err != nil {
			return constants.NewCodedError(http.StatusBadRequest, "malformed json body: "+err.Error())
		}
		if err := b.fallback.BindPathParams(c, i); err != nil {
			return err
		}
		return b.fallback.BindQueryParams(c, i)
	}

	return b.fallback.Bind(i, c)
}
