package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/go-sql-driver/mysql"

	"github.com/wudi/inspectkit/config"
	"github.com/wudi/inspectkit/store"
)

type fakeRow struct {
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.payload
	return nil
}

var table = config.Table{Name: "inspections", IDColumn: "id", PayloadColumn: "payload"}

func TestLoad(t *testing.T) {
	payload, err := os.ReadFile("../testdata/apt-017.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var gotQuery string
	s := newStore(func(_ context.Context, q string, args ...any) rowScanner {
		gotQuery = q
		if args[0] == "apt-017" {
			return fakeRow{payload: payload}
		}
		return fakeRow{err: sql.ErrNoRows}
	}, table, nil)

	env, err := s.Load(context.Background(), "apt-017")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(env.Record.Rooms) != 3 {
		t.Fatalf("unexpected rooms: %+v", env.Record.Rooms)
	}
	if gotQuery != "SELECT `payload` FROM `inspections` WHERE `id` = ?" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if _, err := s.Load(context.Background(), "other"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDSN(t *testing.T) {
	dsn, err := DSN(config.SQL{Host: "db", Port: 3306, User: "app", PW: "pw", DB: "rentals", TZ: "UTC"})
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("parse generated dsn %q: %v", dsn, err)
	}
	if mc.Addr != "db:3306" || mc.User != "app" || mc.DBName != "rentals" || !mc.ParseTime {
		t.Fatalf("unexpected config: %+v", mc)
	}
	if _, err := DSN(config.SQL{TZ: "Mars/Olympus"}); err == nil {
		t.Fatalf("expected error for unknown time zone")
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent("a`b"); got != "`a``b`" {
		t.Fatalf("quoteIdent = %q", got)
	}
}

func TestLoadRejectsPathIDs(t *testing.T) {
	queried := false
	s := newStore(func(context.Context, string, ...any) rowScanner {
		queried = true
		return fakeRow{payload: []byte(`{}`)}
	}, table, nil)
	for _, id := range []string{"../x", `a\b`, ".env"} {
		if _, err := s.Load(context.Background(), id); !errors.Is(err, store.ErrInvalidID) {
			t.Fatalf("id %q: expected ErrInvalidID, got %v", id, err)
		}
	}
	if queried {
		t.Fatalf("queried with an invalid id")
	}
}
