// Package store loads inspection envelopes from where the surrounding
// application keeps them. Only reads are supported.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wudi/inspectkit/inspection"
)

// ErrNotFound is returned when no inspection has the requested id.
var ErrNotFound = errors.New("inspection not found")

// ErrInvalidID is returned for ids that are empty, contain a path separator
// or start with a dot. Such ids are rejected by every Source, since the id
// also names the output file.
var ErrInvalidID = errors.New("invalid inspection id")

// ValidateID checks that id can be used as a single file name.
func ValidateID(id string) error {
	if id == "" || id != filepath.Base(id) || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w %q", ErrInvalidID, id)
	}
	return nil
}

// Source loads one stored inspection.
type Source interface {
	Load(ctx context.Context, id string) (*inspection.Envelope, error)
}

// Decode parses a stored JSON envelope.
func Decode(data []byte) (*inspection.Envelope, error) {
	var env inspection.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

// FileSource reads <Dir>/<id>.json.
type FileSource struct {
	Dir string
}

var _ Source = FileSource{}

func (s FileSource) Load(ctx context.Context, id string) (*inspection.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, id+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read inspection %s: %w", id, err)
	}
	return Decode(data)
}
