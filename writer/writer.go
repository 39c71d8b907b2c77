package writer

import (
	"context"
	"io"

	"github.com/wudi/inspectkit/ir/raw"
	"github.com/wudi/inspectkit/ir/semantic"
	"github.com/wudi/inspectkit/observability"
)

type PDFVersion string

const (
	PDF17 PDFVersion = "1.7"
)

// Config controls serialization.
type Config struct {
	Version PDFVersion
	// Compression is the flate level applied to content and font streams;
	// 0 leaves streams uncompressed.
	Compression int
	// Deterministic derives the trailer /ID from the file body, so identical
	// documents serialize to identical bytes.
	Deterministic bool
	// SubsetFonts embeds only the glyphs the pages show.
	SubsetFonts bool
}

// DefaultConfig is what the report generator uses.
var DefaultConfig = Config{Version: PDF17, Compression: 6, Deterministic: true, SubsetFonts: true}

type Writer interface {
	Write(ctx context.Context, doc *semantic.Document, w io.Writer, cfg Config) error
	SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error)
}

type WriterBuilder struct{ logger observability.Logger }

func (b *WriterBuilder) WithLogger(l observability.Logger) *WriterBuilder {
	b.logger = l
	return b
}

func (b *WriterBuilder) Build() Writer {
	l := b.logger
	if l == nil {
		l = observability.NopLogger{}
	}
	return &impl{log: l}
}
