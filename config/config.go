// Package config loads the JSON configuration of the inspectpdf command.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// SQL describes a relational database connection.
type SQL struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	User string `json:"user"`
	PW   string `json:"pw"`
	DB   string `json:"db"`
	TZ   string `json:"tz"`  // connection time zone
	DSN  string `json:"dsn"` // overrides the DSN built from the fields above
}

// KV describes a key-value store connection.
type KV struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	PW   string `json:"pw"`
	DB   int    `json:"db"`
}

// Table names where stored inspections live. The payload column holds the
// JSON envelope (record, property, tenant).
type Table struct {
	Name          string `json:"name"`
	IDColumn      string `json:"id_column"`
	PayloadColumn string `json:"payload_column"`
}

// Source kinds.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceMySQL    = "mysql"
)

type Conf struct {
	Source     string `json:"source"`
	Dir        string `json:"dir"` // directory of <id>.json files for the file source
	Postgres   *SQL   `json:"postgres"`
	MySQL      *SQL   `json:"mysql"`
	Table      Table  `json:"table"`
	Redis      *KV    `json:"redis"` // report cache; nil keeps the cache in memory
	CacheTTL   string `json:"cache_ttl"`
	Out        string `json:"out"`
	Lang       string `json:"lang"`
	Workers    int    `json:"workers"`
	FitColumns bool   `json:"fit_columns"`
	LogLevel   string `json:"log_level"`
}

// Default is the configuration used when no file is given.
func Default() *Conf {
	return &Conf{
		Source:   SourceFile,
		Dir:      ".",
		Table:    Table{Name: "inspections", IDColumn: "id", PayloadColumn: "payload"},
		CacheTTL: "1h",
		Out:      ".",
		Lang:     "fr",
		Workers:  4,
		LogLevel: "info",
	}
}

// Load reads path over Default. An empty path returns Default.
func Load(path string) (*Conf, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, c.Validate()
}

// TTL parses CacheTTL.
func (c *Conf) TTL() (time.Duration, error) {
	if c.CacheTTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.CacheTTL)
}

func (c *Conf) Validate() error {
	var errs []error
	switch c.Source {
	case SourceFile:
		if c.Dir == "" {
			errs = append(errs, errors.New("file source needs dir"))
		}
	case SourcePostgres:
		if c.Postgres == nil {
			errs = append(errs, errors.New("postgres source needs a postgres section"))
		}
	case SourceMySQL:
		if c.MySQL == nil {
			errs = append(errs, errors.New("mysql source needs a mysql section"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q", c.Source))
	}
	if c.Source != SourceFile && (c.Table.Name == "" || c.Table.IDColumn == "" || c.Table.PayloadColumn == "") {
		errs = append(errs, errors.New("table name, id_column and payload_column are required"))
	}
	if c.Lang != "fr" && c.Lang != "en" {
		errs = append(errs, fmt.Errorf("unsupported lang %q", c.Lang))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if _, err := c.TTL(); err != nil {
		errs = append(errs, fmt.Errorf("cache_ttl: %w", err))
	}
	return errors.Join(errs...)
}
