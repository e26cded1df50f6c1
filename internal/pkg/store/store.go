package store

import (
	"context"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type IndicatorStore interface {
	CreateIndicator(ctx context.Context, indicator *domain.Indicator) (*domain.Indicator, error)
	GetIndicatorByID(ctx context.Context, id int64) (*domain.Indicator, error)
	GetIndicatorByCode(ctx context.Context, code string) (*domain.Indicator, error)
	ListIndicators(ctx context.Context) ([]*domain.Indicator, error)
	UpdateIndicator(ctx context.Context, indicator *domain.Indicator) (*domain.Indicator, error)
	DeleteIndicator(ctx context.Context, id int64) error

	AppendDataSlice(ctx context.Context, indicatorID int64, slice domain.DataSlice) (int, error)
	UpdateDataSlice(ctx context.Context, indicatorID int64, position int, slice domain.DataSlice) error
	RemoveDataSlice(ctx context.Context, indicatorID int64, position int) error
}

type ListFollowupsOpts struct {
	IndicatorID int64
	// Positions restreint aux tranches citées ; nil = toutes, vide = aucune.
	Positions []int
	StartYear *domain.Year
	EndYear   *domain.Year
}

type FollowupStore interface {
	CreateFollowup(ctx context.Context, indicatorID int64, dataIndex int, year domain.Year, value float64) (*domain.Followup, error)
	GetFollowupByID(ctx context.Context, id int64) (*domain.Followup, error)
	UpdateFollowup(ctx context.Context, id int64, year domain.Year, value float64) (*domain.Followup, error)
	DeleteFollowup(ctx context.Context, id int64) error
	ListFollowups(ctx context.Context, opts ListFollowupsOpts) ([]*domain.Followup, error)
	ListFollowupYears(ctx context.Context, opts ListFollowupsOpts) ([]domain.Year, error)
}

type GeoStore interface {
	GetGeoEntity(ctx context.Context, level domain.GeoLevel, id int64) (*domain.GeoEntity, error)
	ListGeoEntities(ctx context.Context, level *domain.GeoLevel) ([]*domain.GeoEntity, error)
	UpsertGeoEntities(ctx context.Context, entities []*domain.GeoEntity) error
}

type Store interface {
	IndicatorStore
	FollowupStore
	GeoStore
}

type store struct {
	pool *Pool
}

func NewStore(pool *Pool) Store {
	return &store{pool}
}
