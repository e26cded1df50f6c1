package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Oumar3/sidat/internal/api/controller"
	"github.com/Oumar3/sidat/internal/pkg/logger"
	"github.com/Oumar3/sidat/internal/pkg/store"
	"github.com/Oumar3/sidat/internal/service/followup"
	"github.com/Oumar3/sidat/internal/service/geo"
	"github.com/Oumar3/sidat/internal/service/indicator"
	"github.com/Oumar3/sidat/internal/service/stats"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type APIService struct {
	router *echo.Echo
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

func NewAPIService(st store.Store) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(RequestIDMiddleware)
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	geoService := geo.NewService(st)
	cntrl := controller.NewController(
		indicator.NewService(st, geoService),
		followup.NewService(st),
		stats.NewService(st, geoService),
		geoService,
	)

	api := svc.router.Group("/api/v1")

	indicators := api.Group("/indicators")
	indicators.POST("", cntrl.CreateIndicator)
	indicators.GET("/list", cntrl.ListIndicators)
	indicators.GET("/:id", cntrl.GetIndicator)
	indicators.PUT("/:id", cntrl.UpdateIndicator)
	indicators.DELETE("/:id", cntrl.DeleteIndicator)

	indicators.POST("/:id/data", cntrl.AppendDataSlice)
	indicators.PUT("/:id/data/:position", cntrl.UpdateDataSlice)
	indicators.DELETE("/:id/data/:position", cntrl.RemoveDataSlice)

	indicators.POST("/:id/followups", cntrl.CreateFollowup)
	indicators.GET("/:id/followups", cntrl.ListFollowups)

	indicators.GET("/:id/statistics", cntrl.GetStatistics)
	indicators.GET("/:id/statistics/summary", cntrl.GetSummary)
	indicators.GET("/:id/statistics/progress", cntrl.GetTargetProgress)
	indicators.GET("/:id/chart-data", cntrl.GetChartData)
	indicators.GET("/:id/available-years", cntrl.GetAvailableYears)
	indicators.POST("/:id/comparison", cntrl.GetComparison)

	followups := api.Group("/followups")
	followups.GET("/:id", cntrl.GetFollowup)
	followups.PUT("/:id", cntrl.UpdateFollowup)
	followups.DELETE("/:id", cntrl.DeleteFollowup)

	geoGroup := api.Group("/geo")
	geoGroup.GET("/list", cntrl.ListGeoEntities)
	geoGroup.GET("/:level/:id", cntrl.GetGeoEntity)
	geoGroup.POST("/backfill", cntrl.BackfillGeoEntities, svc.AdminMiddleware)

	return svc, nil
}
