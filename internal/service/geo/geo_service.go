package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/Oumar3/sidat/internal/pkg/store"
)

// Provider — lecture seule de la hiérarchie administrative, clé (niveau, id).
// Le moteur d'agrégation et le gestionnaire d'indicateurs ne dépendent que
// de cette interface.
type Provider interface {
	LookupEntity(ctx context.Context, level domain.GeoLevel, id int64) (*domain.GeoEntity, error)
}

type Service struct {
	store store.GeoStore
}

var _ Provider = (*Service)(nil)

func NewService(store store.GeoStore) *Service {
	return &Service{store: store}
}

func (s *Service) LookupEntity(ctx context.Context, level domain.GeoLevel, id int64) (*domain.GeoEntity, error) {
	if !level.Valid() || level == domain.GeoLevelGlobal {
		return nil, constants.ValidationError("level", "invalid geo level %q", level)
	}

	entity, err := s.store.GetGeoEntity(ctx, level, id)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.NotFoundError("geo entity %s/%d not found", level, id)
		}
		return nil, fmt.Errorf("store.GetGeoEntity: %w", err)
	}

	return entity, nil
}

func (s *Service) ListEntities(ctx context.Context, level *domain.GeoLevel) ([]*domain.GeoEntity, error) {
	if level != nil && !level.Valid() {
		return nil, constants.ValidationError("level", "invalid geo level %q", *level)
	}

	return s.store.ListGeoEntities(ctx, level)
}
