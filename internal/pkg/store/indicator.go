package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/Oumar3/sidat/internal/pkg/logger"
	"github.com/Oumar3/sidat/internal/pkg/store/xpgx"
	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

var indicatorColumns = []string{
	"id", "code", "name", "type", "polarity", "programme_id",
	"unite_de_mesure", "source_ids", "metadata_url", "data",
	"created_at", "updated_at",
}

func (s *store) CreateIndicator(ctx context.Context, indicator *domain.Indicator) (*domain.Indicator, error) {
	sourceIDs, err := sonic.Marshal(indicator.SourceIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal source_ids: %w", err)
	}
	data, err := sonic.Marshal(indicator.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal data: %w", err)
	}

	query := builder().Insert(tableIndicators).
		Columns("code", "name", "type", "polarity", "programme_id", "unite_de_mesure", "source_ids", "metadata_url", "data").
		Values(indicator.Code, indicator.Name, indicator.Type, indicator.Polarity,
			indicator.ProgrammeID, indicator.UniteDeMesure, sourceIDs, indicator.MetadataURL, data).
		Suffix("returning " + strings.Join(indicatorColumns, ", "))

	created, err := xpgx.Getx[domain.Indicator](ctx, s.pool, query)
	if err != nil {
		logger.Errorf(ctx, "insertIndicator: %s", err.Error())
		return nil, wrapErr(err)
	}

	return created, nil
}

func (s *store) GetIndicatorByID(ctx context.Context, id int64) (*domain.Indicator, error) {
	return s.getIndicator(ctx, s.pool, sq.Eq{"id": id})
}

func (s *store) GetIndicatorByCode(ctx context.Context, code string) (*domain.Indicator, error) {
	return s.getIndicator(ctx, s.pool, sq.Eq{"code": code})
}

func (s *store) getIndicator(ctx context.Context, q xpgx.Querier, pred sq.Sqlizer) (*domain.Indicator, error) {
	query := builder().Select(indicatorColumns...).
		From(tableIndicators).
		Where(pred)

	selected, err := xpgx.Getx[domain.Indicator](ctx, q, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListIndicators(ctx context.Context) ([]*domain.Indicator, error) {
	query := builder().Select(indicatorColumns...).
		From(tableIndicators).
		OrderBy("code")

	selected, err := xpgx.Selectx[domain.Indicator](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) UpdateIndicator(ctx context.Context, indicator *domain.Indicator) (*domain.Indicator, error) {
	sourceIDs, err := sonic.Marshal(indicator.SourceIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal source_ids: %w", err)
	}

	query := builder().Update(tableIndicators).
		Set("name", indicator.Name).
		Set("type", indicator.Type).
		Set("polarity", indicator.Polarity).
		Set("unite_de_mesure", indicator.UniteDeMesure).
		Set("source_ids", sourceIDs).
		Set("metadata_url", indicator.MetadataURL).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": indicator.ID}).
		Suffix("returning " + strings.Join(indicatorColumns, ", "))

	updated, err := xpgx.Getx[domain.Indicator](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return updated, nil
}

// DeleteIndicator supprime l'indicateur, ses tranches embarquées et, en
// cascade, tous les followups qui le référencent.
func (s *store) DeleteIndicator(ctx context.Context, id int64) error {
	return s.pool.InTx(ctx, func(tx pgx.Tx) error {
		delFollowups := builder().Delete(tableFollowups).
			Where(sq.Eq{"indicator_id": id})
		if _, err := xpgx.Execx(ctx, tx, delFollowups); err != nil {
			return wrapErr(err)
		}

		delIndicator := builder().Delete(tableIndicators).
			Where(sq.Eq{"id": id})
		tag, err := xpgx.Execx(ctx, tx, delIndicator)
		if err != nil {
			return wrapErr(err)
		}
		if tag.RowsAffected() == 0 {
			return constants.ErrDBNotFound
		}

		return nil
	})
}

// lockIndicator prend le verrou ligne de l'indicateur : toute mutation de
// tranches et toute validation de bornes de followup passent par lui, ce
// qui sérialise suppression et écritures concurrentes par indicateur.
func (s *store) lockIndicator(ctx context.Context, tx pgx.Tx, id int64) (*domain.Indicator, error) {
	query := builder().Select(indicatorColumns...).
		From(tableIndicators).
		Where(sq.Eq{"id": id}).
		Suffix("for update")

	selected, err := xpgx.Getx[domain.Indicator](ctx, tx, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) writeSlices(ctx context.Context, tx pgx.Tx, indicatorID int64, data []domain.DataSlice) error {
	raw, err := sonic.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal data slices: %w", err)
	}

	query := builder().Update(tableIndicators).
		Set("data", raw).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": indicatorID})

	if _, err = xpgx.Execx(ctx, tx, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

func (s *store) AppendDataSlice(ctx context.Context, indicatorID int64, slice domain.DataSlice) (int, error) {
	position := -1
	err := s.pool.InTx(ctx, func(tx pgx.Tx) error {
		indicator, err := s.lockIndicator(ctx, tx, indicatorID)
		if err != nil {
			return err
		}

		data := append(indicator.Data, slice)
		position = len(data) - 1

		return s.writeSlices(ctx, tx, indicatorID, data)
	})
	if err != nil {
		return 0, err
	}

	return position, nil
}

func (s *store) UpdateDataSlice(ctx context.Context, indicatorID int64, position int, slice domain.DataSlice) error {
	return s.pool.InTx(ctx, func(tx pgx.Tx) error {
		indicator, err := s.lockIndicator(ctx, tx, indicatorID)
		if err != nil {
			return err
		}
		if position < 0 || position >= len(indicator.Data) {
			return constants.IntegrityError("data index %d out of bounds, indicator has %d slices", position, len(indicator.Data))
		}

		// l'identité de la tranche survit à l'édition
		slice.ID = indicator.Data[position].ID
		indicator.Data[position] = slice

		return s.writeSlices(ctx, tx, indicatorID, indicator.Data)
	})
}

// RemoveDataSlice retire la tranche à la position donnée. Les followups de
// cette tranche sont supprimés, ceux des positions supérieures sont
// décalés d'un cran vers le bas, le tout sous le verrou de l'indicateur.
func (s *store) RemoveDataSlice(ctx context.Context, indicatorID int64, position int) error {
	return s.pool.InTx(ctx, func(tx pgx.Tx) error {
		indicator, err := s.lockIndicator(ctx, tx, indicatorID)
		if err != nil {
			return err
		}
		if position < 0 || position >= len(indicator.Data) {
			return constants.IntegrityError("data index %d out of bounds, indicator has %d slices", position, len(indicator.Data))
		}

		removed := indicator.Data[position]

		delOrphans := builder().Delete(tableFollowups).
			Where(sq.And{
				sq.Eq{"indicator_id": indicatorID},
				sq.Eq{"slice_id": removed.ID},
			})
		if _, err = xpgx.Execx(ctx, tx, delOrphans); err != nil {
			return wrapErr(err)
		}

		shift := builder().Update(tableFollowups).
			Set("data_index", sq.Expr("data_index - 1")).
			Where(sq.And{
				sq.Eq{"indicator_id": indicatorID},
				sq.Gt{"data_index": position},
			})
		if _, err = xpgx.Execx(ctx, tx, shift); err != nil {
			return wrapErr(err)
		}

		data := append(indicator.Data[:position:position], indicator.Data[position+1:]...)

		return s.writeSlices(ctx, tx, indicatorID, data)
	})
}
