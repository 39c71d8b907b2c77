package builder

import (
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/wudi/inspectkit/fonts"
	"github.com/wudi/inspectkit/ir/semantic"
)

// PDFBuilder provides a fluent API for PDF construction.
type PDFBuilder interface {
	NewPage(width, height float64) PageBuilder
	SetInfo(info *semantic.DocumentInfo) PDFBuilder
	RegisterTrueTypeFont(name string, data []byte) PDFBuilder
	MeasureText(text string, fontSize float64, fontName string) float64
	PageCount() int
	// Err reports the first font failure: a program that could not be
	// loaded, or text drawn with a font name that was never registered.
	Err() error
	Build() (*semantic.Document, error)
}

// PageBuilder appends drawing primitives to one page. Coordinates are in
// user space with the origin at the lower-left corner; nothing is clipped.
type PageBuilder interface {
	DrawText(text string, x, y float64, opts TextOptions) PageBuilder
	DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder
	DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder
	Index() int
}

// TextOptions configures text drawing.
type TextOptions struct {
	Font     string
	FontSize float64
	Color    Color
}

// PathOptions configures path drawing.
type PathOptions struct {
	StrokeColor Color
	FillColor   Color
	LineWidth   float64
	Fill        bool
	Stroke      bool
}

// RectOptions configures rectangle drawing (defaults to stroke if neither fill nor stroke is set).
type RectOptions = PathOptions

// LineOptions configures line drawing.
type LineOptions struct {
	StrokeColor Color
	LineWidth   float64
}

// Color represents an RGB color. The zero value is black.
type Color struct {
	R, G, B float64
}

// PaperSize is a named page size in points (1" = 72pt).
type PaperSize struct {
	Name   string
	Width  float64
	Height float64
}

var A4 = PaperSize{Name: "A4", Width: 595.28, Height: 841.89}

type fontResource struct {
	font      *semantic.Font
	runeToCID map[rune]int
}

type builderImpl struct {
	pages       []*semantic.Page
	info        *semantic.DocumentInfo
	fonts       map[string]fontResource
	defaultFont string
	fontErr     error
}

type pageBuilderImpl struct {
	parent *builderImpl
	page   *semantic.Page
}

// NewBuilder constructs a PDFBuilder.
func NewBuilder() PDFBuilder { return &builderImpl{} }

func (b *builderImpl) NewPage(w, h float64) PageBuilder {
	p := &semantic.Page{
		Index:    len(b.pages),
		MediaBox: semantic.Rectangle{LLX: 0, LLY: 0, URX: w, URY: h},
	}
	b.pages = append(b.pages, p)
	return &pageBuilderImpl{parent: b, page: p}
}

func (b *builderImpl) SetInfo(info *semantic.DocumentInfo) PDFBuilder {
	b.info = info
	return b
}

// RegisterTrueTypeFont embeds the font program under name. The first failure
// is kept and reported by Build, so no document is produced without its fonts.
func (b *builderImpl) RegisterTrueTypeFont(name string, data []byte) PDFBuilder {
	font, err := fonts.LoadTrueType(name, data)
	if err != nil {
		b.fail(err)
		return b
	}
	return b.addFont(name, font)
}

func (b *builderImpl) fail(err error) {
	if b.fontErr == nil {
		b.fontErr = err
	}
}

func (b *builderImpl) addFont(name string, font *semantic.Font) PDFBuilder {
	if b.fonts == nil {
		b.fonts = make(map[string]fontResource)
	}
	if font == nil {
		return b
	}
	b.fonts[name] = fontResource{font: font, runeToCID: runeToCID(font)}
	if b.defaultFont == "" {
		b.defaultFont = name
	}
	return b
}

func (b *builderImpl) PageCount() int { return len(b.pages) }

func (b *builderImpl) Err() error { return b.fontErr }

func (b *builderImpl) Build() (*semantic.Document, error) {
	if b.fontErr != nil {
		return nil, b.fontErr
	}
	for i, p := range b.pages {
		p.Index = i
	}
	return &semantic.Document{
		Pages: b.pages,
		Info:  b.info,
	}, nil
}

// DrawText shows one run in its own graphics state, so its fill color never
// carries over to later runs. An unregistered font name draws nothing and is
// reported by Err and Build.
func (p *pageBuilderImpl) DrawText(text string, x, y float64, opts TextOptions) PageBuilder {
	fr, fontName, ok := p.parent.fontForName(opts.Font)
	if !ok {
		p.parent.fail(fmt.Errorf("unknown font %q", fontName))
		return p
	}
	ops := p.ensureContentOps()
	res := p.ensureResources()
	if _, ok := res.Fonts[fontName]; !ok {
		res.Fonts[fontName] = fr.font
	}
	size := opts.FontSize
	if size <= 0 {
		size = 12
	}

	*ops = append(*ops,
		semantic.Operation{Operator: "q"},
		semantic.Operation{Operator: "rg", Operands: colorOperands(opts.Color)},
		semantic.Operation{Operator: "BT"},
		semantic.Operation{
			Operator: "Tf",
			Operands: []semantic.Operand{semantic.NameOperand{Value: fontName}, semantic.NumberOperand{Value: size}},
		},
		semantic.Operation{
			Operator: "Tm",
			Operands: []semantic.Operand{
				semantic.NumberOperand{Value: 1},
				semantic.NumberOperand{Value: 0},
				semantic.NumberOperand{Value: 0},
				semantic.NumberOperand{Value: 1},
				semantic.NumberOperand{Value: x},
				semantic.NumberOperand{Value: y},
			},
		},
		semantic.Operation{
			Operator: "Tj",
			Operands: []semantic.Operand{semantic.StringOperand{Value: encodeText(text, fr.font, fr.runeToCID)}},
		},
		semantic.Operation{Operator: "ET"},
		semantic.Operation{Operator: "Q"},
	)
	return p
}

func (p *pageBuilderImpl) DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder {
	po := opts
	if !po.Stroke && !po.Fill {
		po.Stroke = true
	}
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	applyPathState(ops, po)
	*ops = append(*ops, semantic.Operation{
		Operator: "re",
		Operands: []semantic.Operand{
			semantic.NumberOperand{Value: x},
			semantic.NumberOperand{Value: y},
			semantic.NumberOperand{Value: width},
			semantic.NumberOperand{Value: height},
		},
	})
	*ops = append(*ops, semantic.Operation{Operator: paintOperator(po.Fill, po.Stroke)})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder {
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	applyPathState(ops, PathOptions{
		StrokeColor: opts.StrokeColor,
		LineWidth:   opts.LineWidth,
		Stroke:      true,
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "m",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x1}, semantic.NumberOperand{Value: y1}},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "l",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x2}, semantic.NumberOperand{Value: y2}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "S"})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) Index() int { return p.page.Index }

// fontForName resolves name, or the first registered font when name is
// empty.
func (b *builderImpl) fontForName(name string) (fontResource, string, bool) {
	if name == "" {
		name = b.defaultFont
	}
	f, ok := b.fonts[name]
	return f, name, ok
}

// runeToCID inverts ToUnicode. CIDs are visited in ascending order so the
// mapping does not depend on map iteration.
func runeToCID(font *semantic.Font) map[rune]int {
	if font == nil || len(font.ToUnicode) == 0 {
		return nil
	}
	cids := make([]int, 0, len(font.ToUnicode))
	for cid := range font.ToUnicode {
		cids = append(cids, cid)
	}
	sort.Ints(cids)
	m := make(map[rune]int)
	for _, cid := range cids {
		for _, r := range font.ToUnicode[cid] {
			if _, exists := m[r]; !exists {
				m[r] = cid
			}
		}
	}
	return m
}

// encodeText turns text into the byte string shown by Tj. Type0 fonts get
// two-byte glyph IDs (0 for runes the font cannot draw); other fonts get
// the text bytes as-is.
func encodeText(text string, font *semantic.Font, cmap map[rune]int) []byte {
	text = norm.NFC.String(text)
	if font != nil && font.Subtype == "Type0" && font.Encoding == "Identity-H" && len(cmap) > 0 {
		buf := make([]byte, 0, len(text)*2)
		for _, r := range text {
			cid, ok := cmap[r]
			if !ok {
				cid = 0
			}
			buf = append(buf, byte(cid>>8), byte(cid))
		}
		return buf
	}
	return []byte(text)
}

func (p *pageBuilderImpl) ensureResources() *semantic.Resources {
	if p.page.Resources == nil {
		p.page.Resources = &semantic.Resources{}
	}
	if p.page.Resources.Fonts == nil {
		p.page.Resources.Fonts = make(map[string]*semantic.Font)
	}
	return p.page.Resources
}

func (p *pageBuilderImpl) ensureContentOps() *[]semantic.Operation {
	if len(p.page.Contents) == 0 {
		p.page.Contents = append(p.page.Contents, semantic.ContentStream{})
	}
	return &p.page.Contents[0].Operations
}

func appendColorOp(ops *[]semantic.Operation, c Color, stroking bool) {
	if isZeroColor(c) {
		return
	}
	op := "rg"
	if stroking {
		op = "RG"
	}
	*ops = append(*ops, semantic.Operation{
		Operator: op,
		Operands: colorOperands(c),
	})
}

func applyPathState(ops *[]semantic.Operation, opts PathOptions) {
	if opts.Fill {
		appendColorOp(ops, opts.FillColor, false)
	}
	if opts.Stroke {
		appendColorOp(ops, opts.StrokeColor, true)
		if opts.LineWidth > 0 {
			*ops = append(*ops, semantic.Operation{Operator: "w", Operands: []semantic.Operand{semantic.NumberOperand{Value: opts.LineWidth}}})
		}
	}
}

func isZeroColor(c Color) bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

func colorOperands(c Color) []semantic.Operand {
	return []semantic.Operand{
		semantic.NumberOperand{Value: c.R},
		semantic.NumberOperand{Value: c.G},
		semantic.NumberOperand{Value: c.B},
	}
}

func paintOperator(fill, stroke bool) string {
	switch {
	case fill && stroke:
		return "B"
	case fill:
		return "f"
	default:
		return "S"
	}
}

// MeasureText approximates text width in user units from the font's glyph widths.
func (b *builderImpl) MeasureText(text string, fontSize float64, fontName string) float64 {
	if fontSize == 0 {
		fontSize = 12
	}
	fr, _, _ := b.fontForName(fontName)
	font, cmap := fr.font, fr.runeToCID
	if font == nil || len(font.Widths) == 0 {
		return float64(len([]rune(text))) * fontSize * 0.5
	}
	widthSum := 0.0
	for _, r := range norm.NFC.String(text) {
		code := int(r)
		if font.Subtype == "Type0" && font.Encoding == "Identity-H" {
			// For CID fonts, widths are keyed by CID, which we derive from ToUnicode.
			code = 0
			if cmap != nil {
				if cid, ok := cmap[r]; ok {
					code = cid
				}
			}
		}
		if w, ok := font.Widths[code]; ok {
			widthSum += float64(w)
		} else {
			widthSum += 500 // default width in glyph space
		}
	}
	return (widthSum / 1000) * fontSize
}
