// Package semantic holds the in-memory document model assembled by the
// builder and serialized by the writer: pages, their content streams and the
// font resources they reference.
package semantic

// Document is the root of the semantic model.
type Document struct {
	Pages []*Page
	Info  *DocumentInfo
}

// Page models a single PDF page.
type Page struct {
	Index     int
	MediaBox  Rectangle
	Resources *Resources
	Contents  []ContentStream
}

// ContentStream is a sequence of operations on a page.
type ContentStream struct {
	Operations []Operation
}

// Operation represents a PDF operator and operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Operand is a type-safe operand value.
type Operand interface {
	operand()
	Type() string
}

type NumberOperand struct{ Value float64 }

func (NumberOperand) operand()     {}
func (NumberOperand) Type() string { return "number" }

type NameOperand struct{ Value string }

func (NameOperand) operand()     {}
func (NameOperand) Type() string { return "name" }

type StringOperand struct{ Value []byte }

func (StringOperand) operand()     {}
func (StringOperand) Type() string { return "string" }

// Resources holds the named resources referenced by a page.
type Resources struct {
	Fonts map[string]*Font
}

// Font represents a font resource.
type Font struct {
	Subtype        string // Type0
	BaseFont       string
	Encoding       string
	Widths         map[int]int    // glyph (CID) -> width in 1/1000 em
	ToUnicode      map[int][]rune // glyph (CID) -> runes that map onto it
	CIDSystemInfo  *CIDSystemInfo
	DescendantFont *CIDFont
	Descriptor     *FontDescriptor
}

// Rectangle is an axis-aligned box in user space.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// CIDSystemInfo describes the registry/ordering of a CID font.
type CIDSystemInfo struct {
	Registry   string
	Ordering   string
	Supplement int
}

// CIDFont describes a descendant font for Type0 fonts.
type CIDFont struct {
	Subtype         string // CIDFontType2
	BaseFont        string
	CIDSystemInfo   CIDSystemInfo
	DW              int
	W               map[int]int // CID -> width
	CIDToGIDMapName string      // "Identity"
	Descriptor      *FontDescriptor
}

// FontDescriptor carries metrics and font file embedding details.
type FontDescriptor struct {
	FontName     string
	Flags        int
	ItalicAngle  float64
	Ascent       float64
	Descent      float64
	CapHeight    float64
	StemV        int
	FontBBox     [4]float64
	FontFile     []byte
	FontFileType string // FontFile2 (TrueType)
}

// DocumentInfo models /Info dictionary values.
type DocumentInfo struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
	Keywords []string
}
