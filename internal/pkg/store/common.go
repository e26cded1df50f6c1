package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	tableIndicators  = "indicators"
	tableFollowups   = "followups"
	tableGeoEntities = "geo_entities"
)

// Code pgerrcode unique_violation.
const pgUniqueViolation = "23505"

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return constants.ErrDBNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return constants.ConflictError("duplicate: %s", pgErr.ConstraintName)
	}
	return err
}

// builder retourne un squirrel SQL Builder avec placeholders $N.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
