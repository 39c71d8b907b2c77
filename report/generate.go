// Package report lays out an inspection record as a paginated A4 PDF.
//
// Composition walks the record once, in a fixed section order, threading a
// layout.Cursor from one section to the next. Sections whose data filters to
// nothing draw nothing and leave the cursor where it was.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/wudi/inspectkit/builder"
	"github.com/wudi/inspectkit/fonts"
	"github.com/wudi/inspectkit/inspection"
	"github.com/wudi/inspectkit/ir/semantic"
	"github.com/wudi/inspectkit/layout"
	"github.com/wudi/inspectkit/observability"
	"github.com/wudi/inspectkit/writer"
)

// Version identifies the layout. It changes whenever the same record would
// render differently, and is part of cache keys.
const Version = "inspectkit/1"

// ErrFontEmbed is returned when a font face cannot be embedded. No document
// is produced in that case.
var ErrFontEmbed = errors.New("font embedding failed")

const (
	fontRegular = "F1"
	fontBold    = "F2"
)

// Generator renders inspection records. It holds only configuration and is
// safe for concurrent use.
type Generator struct {
	log         observability.Logger
	trunc       Truncation
	labels      Labels
	regular     []byte
	bold        []byte
	writerCfg   writer.Config
	layoutOpts  []layout.Option
	writerBuild *writer.WriterBuilder
	fingerprint string
}

type Option func(*Generator)

func WithLogger(l observability.Logger) Option {
	return func(g *Generator) { g.log = observability.OrNop(l) }
}

// WithTruncation replaces the default FixedChars(DefaultMaxChars) policy.
func WithTruncation(t Truncation) Option {
	return func(g *Generator) {
		if t != nil {
			g.trunc = t
		}
	}
}

// WithFonts replaces the embedded regular and bold TrueType faces.
func WithFonts(regular, bold []byte) Option {
	return func(g *Generator) {
		g.regular = regular
		g.bold = bold
	}
}

func WithLabels(l Labels) Option {
	return func(g *Generator) { g.labels = l }
}

func WithWriterConfig(cfg writer.Config) Option {
	return func(g *Generator) { g.writerCfg = cfg }
}

// WithLayoutOptions passes options through to the layout engine of every
// document.
func WithLayoutOptions(opts ...layout.Option) Option {
	return func(g *Generator) { g.layoutOpts = append(g.layoutOpts, opts...) }
}

// New returns a Generator with French labels, Go fonts and deterministic
// output.
func New(opts ...Option) *Generator {
	g := &Generator{
		log:       observability.NopLogger{},
		trunc:     FixedChars(DefaultMaxChars),
		labels:    French(),
		regular:   fonts.GoRegular(),
		bold:      fonts.GoBold(),
		writerCfg: writer.DefaultConfig,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.writerBuild = (&writer.WriterBuilder{}).WithLogger(g.log)
	g.fingerprint = g.computeFingerprint()
	return g
}

// Fingerprint identifies everything besides the record that shapes the
// output: Version, labels, truncation policy, fonts, page geometry and writer
// settings. Two generators with equal fingerprints render a record to the
// same bytes.
func (g *Generator) Fingerprint() string { return g.fingerprint }

// truncationID names a policy without printing measurer internals.
func truncationID(t Truncation) string {
	switch t := t.(type) {
	case FixedChars:
		return fmt.Sprintf("chars:%d", int(t))
	case FitColumn:
		return fmt.Sprintf("fit:%T", t.Measurer)
	default:
		return fmt.Sprintf("%T", t)
	}
}

func (g *Generator) computeFingerprint() string {
	e := layout.NewEngine(nil, g.layoutOpts...)
	h := xxh3.New()
	fmt.Fprintf(h, "%s\x00%+v\x00%s\x00%+v\x00%g %g %g\x00",
		Version, g.labels, truncationID(g.trunc), g.writerCfg,
		e.PageWidth(), e.PageHeight(), e.Margin())
	fmt.Fprintf(h, "%016x %016x", xxh3.Hash(g.regular), xxh3.Hash(g.bold))
	return fmt.Sprintf("%s-%016x", Version, h.Sum64())
}

// Generate renders record to PDF bytes. property and tenant may be nil; they
// only fill in for empty General fields. The context is checked before
// serialization, never mid-layout.
func (g *Generator) Generate(ctx context.Context, record inspection.Record, property *inspection.Property, tenant *inspection.Tenant) ([]byte, error) {
	start := time.Now()
	doc, err := g.Compose(record, property, tenant)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := g.writerBuild.Build().Write(ctx, doc, &buf, g.writerCfg); err != nil {
		return nil, fmt.Errorf("serialize report: %w", err)
	}
	g.log.Info("report generated",
		observability.String("reference", firstNonBlank(record.General.Reference, refOf(property))),
		observability.Int("pages", len(doc.Pages)),
		observability.Int("bytes", buf.Len()),
		observability.Duration("elapsed", time.Since(start)),
	)
	return buf.Bytes(), nil
}

// Compose lays the record out without serializing it.
func (g *Generator) Compose(record inspection.Record, property *inspection.Property, tenant *inspection.Tenant) (*semantic.Document, error) {
	b := builder.NewBuilder().
		RegisterTrueTypeFont(fontRegular, g.regular).
		RegisterTrueTypeFont(fontBold, g.bold)
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontEmbed, err)
	}

	engine := layout.NewEngine(b, append([]layout.Option{
		layout.WithPaperSize(builder.A4),
		layout.WithMargin(pageMargin),
		layout.WithLogger(g.log),
	}, g.layoutOpts...)...)
	c := &composer{
		engine: engine,
		fonts:  fontSet{Regular: fontRegular, Bold: fontBold},
		labels: g.labels,
		trunc:  g.trunc,
		log:    g.log,
	}
	c.compose(record, property, tenant)

	b.SetInfo(&semantic.DocumentInfo{
		Title:    g.labels.DocumentTitle,
		Author:   record.General.Author,
		Subject:  firstNonBlank(record.General.Reference, refOf(property), record.General.Address),
		Creator:  "inspectkit",
		Producer: Version,
	})
	return b.Build()
}

func refOf(p *inspection.Property) string {
	if p == nil {
		return ""
	}
	return p.Reference
}
