package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/pkg/store/xpgx"
)

var geoEntityColumns = []string{"id", "code", "name", "level", "parent_id", "created_at", "updated_at"}

func (s *store) GetGeoEntity(ctx context.Context, level domain.GeoLevel, id int64) (*domain.GeoEntity, error) {
	query := builder().Select(geoEntityColumns...).
		From(tableGeoEntities).
		Where(sq.And{
			sq.Eq{"level": level},
			sq.Eq{"id": id},
		})

	selected, err := xpgx.Getx[domain.GeoEntity](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListGeoEntities(ctx context.Context, level *domain.GeoLevel) ([]*domain.GeoEntity, error) {
	query := builder().Select(geoEntityColumns...).
		From(tableGeoEntities).
		OrderBy("level, name")

	if level != nil {
		query = query.Where(sq.Eq{"level": *level})
	}

	selected, err := xpgx.Selectx[domain.GeoEntity](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) UpsertGeoEntities(ctx context.Context, entities []*domain.GeoEntity) error {
	if len(entities) == 0 {
		return nil
	}

	query := builder().Insert(tableGeoEntities).
		Columns("id", "code", "name", "level", "parent_id")

	for _, entity := range entities {
		query = query.Values(entity.ID, entity.Code, entity.Name, entity.Level, entity.ParentID)
	}

	query = query.Suffix(`
on conflict (id)
do update
set
	code = excluded.code,
	name = excluded.name,
	level = excluded.level,
	parent_id = excluded.parent_id,
	updated_at = now()`)

	if _, err := xpgx.Execx(ctx, s.pool, query); err != nil {
		return wrapErr(err)
	}

	return nil
}
