package layout

import (
	"math"
	"testing"

	"github.com/wudi/inspectkit/builder"
)

func TestEngineConfiguration(t *testing.T) {
	t.Run("Default Configuration", func(t *testing.T) {
		e := NewEngine(builder.NewBuilder())
		if e.PageWidth() != 595.28 || e.PageHeight() != 841.89 {
			t.Errorf("Expected A4 page, got %fx%f", e.PageWidth(), e.PageHeight())
		}
		if e.Margin() != 50 {
			t.Errorf("Expected margin 50, got %f", e.Margin())
		}
		if math.Abs(e.ContentWidth()-495.28) > 1e-9 {
			t.Errorf("Expected content width 495.28, got %f", e.ContentWidth())
		}
	})

	t.Run("Custom Configuration", func(t *testing.T) {
		e := NewEngine(builder.NewBuilder(), WithPageSize(300, 400), WithMargin(20))
		if e.Top() != 380 || e.Bottom() != 20 || e.Left() != 20 || e.Right() != 280 {
			t.Errorf("unexpected bounds top=%f bottom=%f left=%f right=%f", e.Top(), e.Bottom(), e.Left(), e.Right())
		}
	})

	t.Run("Paper Size Configuration", func(t *testing.T) {
		a5 := builder.PaperSize{Name: "A5", Width: 419.53, Height: 595.28}
		e := NewEngine(builder.NewBuilder(), WithPaperSize(a5))
		if e.PageWidth() != 419.53 || e.PageHeight() != 595.28 {
			t.Errorf("Expected A5 page, got %fx%f", e.PageWidth(), e.PageHeight())
		}
	})
}
