package report

import "unicode/utf8"

// DefaultMaxChars is the per-cell character limit applied by default.
const DefaultMaxChars = 30

// Truncation decides how much of a cell value is drawn. width is the space
// available inside the cell borders.
type Truncation interface {
	Truncate(text string, width, fontSize float64) string
}

// FixedChars keeps at most n runes whatever the column width.
type FixedChars int

func (n FixedChars) Truncate(text string, _, _ float64) string {
	return Truncate(text, int(n))
}

// Measurer reports the advance width of text at a font size, in points.
type Measurer interface {
	Measure(text string, fontSize float64) float64
}

// FitColumn keeps the longest prefix that fits the column.
type FitColumn struct {
	Measurer Measurer
}

func (f FitColumn) Truncate(text string, width, fontSize float64) string {
	if f.Measurer == nil || f.Measurer.Measure(text, fontSize) <= width {
		return text
	}
	// Widths grow with the prefix length, so binary search the rune count.
	lo, hi := 0, utf8.RuneCountInString(text)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.Measurer.Measure(Truncate(text, mid), fontSize) <= width {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo == 0 {
		return ""
	}
	return Truncate(text, lo)
}
