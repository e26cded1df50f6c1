package store

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/Oumar3/sidat/internal/pkg/store/xpgx"
	"github.com/jackc/pgx/v5"
)

var followupColumns = []string{
	"id", "indicator_id", "data_index", "slice_id", "year", "value",
	"created_at", "updated_at",
}

// CreateFollowup valide les bornes de dataIndex sous le verrou de
// l'indicateur et fige l'identité de la tranche visée dans slice_id.
func (s *store) CreateFollowup(ctx context.Context, indicatorID int64, dataIndex int, year domain.Year, value float64) (*domain.Followup, error) {
	var created *domain.Followup
	err := s.pool.InTx(ctx, func(tx pgx.Tx) error {
		indicator, err := s.lockIndicator(ctx, tx, indicatorID)
		if err != nil {
			return err
		}
		if dataIndex < 0 || dataIndex >= len(indicator.Data) {
			return constants.IntegrityError("data index %d out of bounds, indicator has %d slices", dataIndex, len(indicator.Data))
		}

		query := builder().Insert(tableFollowups).
			Columns("indicator_id", "data_index", "slice_id", "year", "value").
			Values(indicatorID, dataIndex, indicator.Data[dataIndex].ID, year, value).
			Suffix("returning " + strings.Join(followupColumns, ", "))

		created, err = xpgx.Getx[domain.Followup](ctx, tx, query)
		return wrapErr(err)
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *store) GetFollowupByID(ctx context.Context, id int64) (*domain.Followup, error) {
	query := builder().Select(followupColumns...).
		From(tableFollowups).
		Where(sq.Eq{"id": id})

	selected, err := xpgx.Getx[domain.Followup](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) UpdateFollowup(ctx context.Context, id int64, year domain.Year, value float64) (*domain.Followup, error) {
	query := builder().Update(tableFollowups).
		Set("year", year).
		Set("value", value).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + strings.Join(followupColumns, ", "))

	updated, err := xpgx.Getx[domain.Followup](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return updated, nil
}

func (s *store) DeleteFollowup(ctx context.Context, id int64) error {
	query := builder().Delete(tableFollowups).
		Where(sq.Eq{"id": id})

	tag, err := xpgx.Execx(ctx, s.pool, query)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrDBNotFound
	}

	return nil
}

func followupsWhere(opts ListFollowupsOpts) sq.And {
	where := sq.And{sq.Eq{"indicator_id": opts.IndicatorID}}
	if opts.Positions != nil {
		where = append(where, sq.Eq{"data_index": opts.Positions})
	}
	if opts.StartYear != nil {
		where = append(where, sq.GtOrEq{"year": *opts.StartYear})
	}
	if opts.EndYear != nil {
		where = append(where, sq.LtOrEq{"year": *opts.EndYear})
	}
	return where
}

func (s *store) ListFollowups(ctx context.Context, opts ListFollowupsOpts) ([]*domain.Followup, error) {
	if opts.Positions != nil && len(opts.Positions) == 0 {
		return nil, nil
	}

	query := builder().Select(followupColumns...).
		From(tableFollowups).
		Where(followupsWhere(opts)).
		OrderBy("year, data_index")

	selected, err := xpgx.Selectx[domain.Followup](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListFollowupYears(ctx context.Context, opts ListFollowupsOpts) ([]domain.Year, error) {
	if opts.Positions != nil && len(opts.Positions) == 0 {
		return nil, nil
	}

	query := builder().Select("distinct year").
		From(tableFollowups).
		Where(followupsWhere(opts)).
		OrderBy("year")

	years, err := xpgx.Columnx[domain.Year](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return years, nil
}
