package pgstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"

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

type fakeDB struct {
	rows    map[string]fakeRow
	gotSQL  string
	gotArgs []any
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.gotSQL, f.gotArgs = sql, args
	if r, ok := f.rows[args[0].(string)]; ok {
		return r
	}
	return fakeRow{err: pgx.ErrNoRows}
}

var table = config.Table{Name: "inspections", IDColumn: "id", PayloadColumn: "payload"}

func TestLoad(t *testing.T) {
	payload, err := os.ReadFile("../testdata/apt-017.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	db := &fakeDB{rows: map[string]fakeRow{"apt-017": {payload: payload}}}
	env, err := New(db, table, nil).Load(context.Background(), "apt-017")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if env.Tenant.Name != "Jean Dupont" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if db.gotSQL != `SELECT "payload" FROM "inspections" WHERE "id" = $1` {
		t.Fatalf("unexpected query %q", db.gotSQL)
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := New(&fakeDB{}, table, nil).Load(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadScanError(t *testing.T) {
	boom := errors.New("connection reset")
	db := &fakeDB{rows: map[string]fakeRow{"x": {err: boom}}}
	if _, err := New(db, table, nil).Load(context.Background(), "x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped scan error, got %v", err)
	}
}

func TestDSN(t *testing.T) {
	got := DSN(config.SQL{Host: "db", Port: 5432, User: "app", PW: "pw", DB: "rentals", TZ: "Europe/Paris"})
	want := "host=db port=5432 user=app password=pw dbname=rentals sslmode=disable TimeZone=Europe/Paris"
	if got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
	if DSN(config.SQL{DSN: "postgres://x"}) != "postgres://x" {
		t.Fatalf("explicit DSN should win")
	}
}

func TestQuerySanitizesIdentifiers(t *testing.T) {
	got := Query(config.Table{Name: `weird"name`, IDColumn: "id", PayloadColumn: "doc"})
	if got != `SELECT "doc" FROM "weird""name" WHERE "id" = $1` {
		t.Fatalf("unexpected query %q", got)
	}
}

func TestLoadRejectsPathIDs(t *testing.T) {
	db := &fakeDB{rows: map[string]fakeRow{"../x": {payload: []byte(`{}`)}}}
	for _, id := range []string{"../x", "a/b", ""} {
		if _, err := New(db, table, nil).Load(context.Background(), id); !errors.Is(err, store.ErrInvalidID) {
			t.Fatalf("id %q: expected ErrInvalidID, got %v", id, err)
		}
	}
	if db.gotSQL != "" {
		t.Fatalf("queried with an invalid id")
	}
}
