// Package pgstore reads inspection envelopes from a PostgreSQL table whose
// payload column holds the JSON envelope (json or jsonb).
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wudi/inspectkit/config"
	"github.com/wudi/inspectkit/inspection"
	"github.com/wudi/inspectkit/observability"
	"github.com/wudi/inspectkit/store"
)

// querier is the part of *pgxpool.Pool the store uses.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db    querier
	query string
	log   observability.Logger
	close func()
}

var _ store.Source = (*Store)(nil)

// DSN builds a key/value connection string from conf unless conf.DSN is set.
func DSN(conf config.SQL) string {
	if conf.DSN != "" {
		return conf.DSN
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		conf.Host, conf.Port, conf.User, conf.PW, conf.DB)
	if conf.TZ != "" {
		dsn += " TimeZone=" + conf.TZ
	}
	return dsn
}

// Query returns the lookup statement for table.
func Query(table config.Table) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		pgx.Identifier{table.PayloadColumn}.Sanitize(),
		pgx.Identifier{table.Name}.Sanitize(),
		pgx.Identifier{table.IDColumn}.Sanitize(),
	)
}

// Open connects a pool and pings it.
func Open(ctx context.Context, conf config.SQL, table config.Table, log observability.Logger) (*Store, error) {
	pc, err := pgxpool.ParseConfig(DSN(conf))
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pc.MaxConns = 10
	pc.MinConns = 1
	pc.MaxConnLifetime = 3 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	s := New(pool, table, log)
	s.close = pool.Close
	s.log.Info("postgres store opened", observability.String("table", table.Name))
	return s, nil
}

// New wraps an existing pool (or anything with QueryRow).
func New(db querier, table config.Table, log observability.Logger) *Store {
	return &Store{db: db, query: Query(table), log: observability.OrNop(log).With(observability.String("component", "pgstore"))}
}

func (s *Store) Load(ctx context.Context, id string) (*inspection.Envelope, error) {
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.db.QueryRow(ctx, s.query, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load inspection %s: %w", id, err)
	}
	s.log.Debug("inspection loaded", observability.String("id", id), observability.Int("bytes", len(payload)))
	return store.Decode(payload)
}

// Close releases the pool opened by Open. It is a no-op for stores built
// with New.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
