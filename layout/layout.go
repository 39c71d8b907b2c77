// Package layout tracks the vertical write position on fixed-size pages and
// decides when a new page must be allocated.
//
// The cursor is a plain value: every drawing step takes a Cursor and returns
// the next one, so no position is shared between callers.
package layout

import (
	"github.com/wudi/inspectkit/builder"
	"github.com/wudi/inspectkit/observability"
)

// Engine allocates pages on a builder and applies the page-break policy.
type Engine struct {
	b builder.PDFBuilder

	pageWidth  float64
	pageHeight float64
	margin     float64

	log      observability.Logger
	observer func(SpaceCheck)
}

// Cursor is the write position: the active page and the current baseline y,
// measured from the bottom edge.
type Cursor struct {
	Page      builder.PageBuilder
	PageIndex int
	Y         float64
}

// Advance moves the cursor down by dy.
func (c Cursor) Advance(dy float64) Cursor {
	c.Y -= dy
	return c
}

// SpaceCheck describes one EnsureSpace decision.
type SpaceCheck struct {
	PageIndex    int
	Y            float64
	Required     float64
	MinThreshold float64
	NewPage      bool
}

// Option defines a configuration option for the Engine.
type Option func(*Engine)

// WithPageSize sets the page dimensions.
func WithPageSize(width, height float64) Option {
	return func(e *Engine) {
		e.pageWidth = width
		e.pageHeight = height
	}
}

// WithPaperSize sets the page dimensions using a standard paper size.
func WithPaperSize(size builder.PaperSize) Option {
	return WithPageSize(size.Width, size.Height)
}

// WithMargin sets the margin applied on all four sides.
func WithMargin(margin float64) Option {
	return func(e *Engine) {
		e.margin = margin
	}
}

func WithLogger(l observability.Logger) Option {
	return func(e *Engine) {
		e.log = observability.OrNop(l)
	}
}

// WithObserver registers a callback invoked after every EnsureSpace decision.
func WithObserver(fn func(SpaceCheck)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// NewEngine creates a layout engine on A4 pages with a 50pt margin unless
// overridden.
func NewEngine(b builder.PDFBuilder, opts ...Option) *Engine {
	e := &Engine{
		b:          b,
		pageWidth:  builder.A4.Width,
		pageHeight: builder.A4.Height,
		margin:     50,
		log:        observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FirstPage allocates the first page. It is NewPage under a name that reads
// well at the start of a document.
func (e *Engine) FirstPage() Cursor { return e.NewPage() }

// NewPage allocates a page and returns a cursor at its top margin.
func (e *Engine) NewPage() Cursor {
	page := e.b.NewPage(e.pageWidth, e.pageHeight)
	return Cursor{Page: page, PageIndex: page.Index(), Y: e.Top()}
}

// EnsureSpace returns c unchanged when c.Y-required stays at or above
// minThreshold, and a cursor at the top of a fresh page otherwise.
func (e *Engine) EnsureSpace(c Cursor, required, minThreshold float64) Cursor {
	check := SpaceCheck{PageIndex: c.PageIndex, Y: c.Y, Required: required, MinThreshold: minThreshold}
	next := c
	if c.Page == nil || c.Y-required < minThreshold {
		next = e.NewPage()
		check.NewPage = true
		e.log.Debug("page break",
			observability.Int("from_page", c.PageIndex),
			observability.Int("to_page", next.PageIndex),
			observability.Float64("y", c.Y),
			observability.Float64("required", required),
		)
	}
	if e.observer != nil {
		e.observer(check)
	}
	return next
}

// Top is the y a fresh page starts at.
func (e *Engine) Top() float64 { return e.pageHeight - e.margin }

// Bottom is the lowest y content may reach.
func (e *Engine) Bottom() float64 { return e.margin }

func (e *Engine) Left() float64  { return e.margin }
func (e *Engine) Right() float64 { return e.pageWidth - e.margin }

// ContentWidth is the horizontal space between the margins.
func (e *Engine) ContentWidth() float64 { return e.pageWidth - 2*e.margin }

func (e *Engine) PageWidth() float64  { return e.pageWidth }
func (e *Engine) PageHeight() float64 { return e.pageHeight }
func (e *Engine) Margin() float64     { return e.margin }

// Pages reports how many pages have been allocated so far.
func (e *Engine) Pages() int { return e.b.PageCount() }

// Builder exposes the underlying builder for font measurement.
func (e *Engine) Builder() builder.PDFBuilder { return e.b }
