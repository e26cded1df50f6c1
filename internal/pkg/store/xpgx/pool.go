package xpgx

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier — sous-ensemble commun à pgxpool.Pool et pgx.Tx, pour que les
// requêtes s'écrivent pareil dans et hors transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Pool struct {
	*pgxpool.Pool
}

func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &Pool{pool}, nil
}

// InTx exécute fn dans une transaction, commit si fn ne retourne pas d'erreur.
func (p *Pool) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, p.Pool, fn)
}

// Execx exécute un squirrel.Sqlizer.
func Execx(ctx context.Context, q Querier, sqlizer sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := sqlizer.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return q.Exec(ctx, sql, args...)
}

// Getx exécute un Sqlizer et scanne exactement une ligne dans T (tags db).
func Getx[T any](ctx context.Context, q Querier, sqlizer sq.Sqlizer) (*T, error) {
	sql, args, err := sqlizer.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
}

// Selectx exécute un Sqlizer et scanne toutes les lignes dans []*T.
func Selectx[T any](ctx context.Context, q Querier, sqlizer sq.Sqlizer) ([]*T, error) {
	sql, args, err := sqlizer.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
}

// Columnx — variante à une seule colonne (années distinctes, compteurs).
func Columnx[T any](ctx context.Context, q Querier, sqlizer sq.Sqlizer) ([]T, error) {
	sql, args, err := sqlizer.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[T])
}
