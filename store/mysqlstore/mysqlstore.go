// Package mysqlstore reads inspection envelopes from a MySQL table whose
// payload column holds the JSON envelope.
package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/wudi/inspectkit/config"
	"github.com/wudi/inspectkit/inspection"
	"github.com/wudi/inspectkit/observability"
	"github.com/wudi/inspectkit/store"
)

type rowScanner interface {
	Scan(dest ...any) error
}

type queryFunc func(ctx context.Context, query string, args ...any) rowScanner

type Store struct {
	queryRow queryFunc
	query    string
	log      observability.Logger
	db       *sql.DB
}

var _ store.Source = (*Store)(nil)

// DSN builds a driver DSN from conf unless conf.DSN is set.
func DSN(conf config.SQL) (string, error) {
	if conf.DSN != "" {
		return conf.DSN, nil
	}
	mc := mysql.NewConfig()
	mc.User = conf.User
	mc.Passwd = conf.PW
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port))
	mc.DBName = conf.DB
	mc.ParseTime = true
	if conf.TZ != "" {
		loc, err := time.LoadLocation(conf.TZ)
		if err != nil {
			return "", fmt.Errorf("mysql time zone: %w", err)
		}
		mc.Loc = loc
	}
	return mc.FormatDSN(), nil
}

func quoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Query returns the lookup statement for table.
func Query(table config.Table) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
		quoteIdent(table.PayloadColumn), quoteIdent(table.Name), quoteIdent(table.IDColumn))
}

// Open connects and pings the database.
func Open(ctx context.Context, conf config.SQL, table config.Table, log observability.Logger) (*Store, error) {
	dsn, err := DSN(conf)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping failed: %w", err)
	}
	s := New(db, table, log)
	s.log.Info("mysql store opened", observability.String("table", table.Name))
	return s, nil
}

// New wraps an open database handle.
func New(db *sql.DB, table config.Table, log observability.Logger) *Store {
	s := newStore(func(ctx context.Context, q string, args ...any) rowScanner {
		return db.QueryRowContext(ctx, q, args...)
	}, table, log)
	s.db = db
	return s
}

func newStore(fn queryFunc, table config.Table, log observability.Logger) *Store {
	return &Store{
		queryRow: fn,
		query:    Query(table),
		log:      observability.OrNop(log).With(observability.String("component", "mysqlstore")),
	}
}

func (s *Store) Load(ctx context.Context, id string) (*inspection.Envelope, error) {
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.queryRow(ctx, s.query, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load inspection %s: %w", id, err)
	}
	s.log.Debug("inspection loaded", observability.String("id", id), observability.Int("bytes", len(payload)))
	return store.Decode(payload)
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
