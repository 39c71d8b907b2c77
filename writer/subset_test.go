package writer

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wudi/inspectkit/ir/semantic"
)

func TestUsedGlyphsFollowsTf(t *testing.T) {
	f1 := &semantic.Font{Subtype: "Type0"}
	f2 := &semantic.Font{Subtype: "Type0"}
	std := &semantic.Font{Subtype: "Type1"}
	show := func(b ...byte) semantic.Operation {
		return semantic.Operation{Operator: "Tj", Operands: []semantic.Operand{semantic.StringOperand{Value: b}}}
	}
	tf := func(name string) semantic.Operation {
		return semantic.Operation{Operator: "Tf", Operands: []semantic.Operand{semantic.NameOperand{Value: name}, semantic.NumberOperand{Value: 10}}}
	}
	doc := &semantic.Document{Pages: []*semantic.Page{{
		Resources: &semantic.Resources{Fonts: map[string]*semantic.Font{"F1": f1, "F2": f2, "S": std}},
		Contents: []semantic.ContentStream{{Operations: []semantic.Operation{
			show(0, 9),
			tf("F1"), show(0, 36, 0, 68),
			tf("F2"), show(1, 2),
			tf("S"), show('a', 'b'),
			tf("F1"), show(0, 36, 7),
		}}},
	}}}
	got := usedGlyphs(doc)
	want := map[*semantic.Font]map[int]bool{
		f1: {36: true, 68: true},
		f2: {258: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("used glyphs mismatch (-want +got):\n%s", diff)
	}
}

func TestSubsetTag(t *testing.T) {
	a := subsetTag(map[int]bool{3: true, 1: true})
	if !regexp.MustCompile(`^[A-Z]{6}$`).MatchString(a) {
		t.Fatalf("tag %q is not six capitals", a)
	}
	if b := subsetTag(map[int]bool{1: true, 3: true}); a != b {
		t.Fatalf("tag depends on map order: %q vs %q", a, b)
	}
	if c := subsetTag(map[int]bool{1: true, 4: true}); a == c {
		t.Fatalf("different glyph sets share tag %q", a)
	}
}

func TestWriterSubsetsFonts(t *testing.T) {
	full := DefaultConfig
	full.SubsetFonts = false
	big := write(t, buildSample(t), full)
	small := write(t, buildSample(t), DefaultConfig)
	if len(small) >= len(big)/2 {
		t.Fatalf("subset output %d bytes, full %d", len(small), len(big))
	}
	if !regexp.MustCompile(`/BaseFont /[A-Z]{6}\+\w`).Match(small) {
		t.Fatalf("subset font name has no tag")
	}
	if regexp.MustCompile(`/BaseFont /[A-Z]{6}\+`).Match(big) {
		t.Fatalf("full font carries a subset tag")
	}
}

func TestSubsetFontLeavesInputUntouched(t *testing.T) {
	doc := buildSample(t)
	font := doc.Pages[0].Resources.Fonts["F1"]
	before := len(font.Widths)
	name := font.BaseFont
	sub, err := subsetFont(font, usedGlyphs(doc)[font])
	if err != nil {
		t.Fatalf("subsetFont: %v", err)
	}
	if len(font.Widths) != before || font.BaseFont != name {
		t.Fatalf("input font modified")
	}
	if len(sub.Widths) >= before || len(sub.DescendantFont.W) != len(sub.Widths) {
		t.Fatalf("widths not restricted: %d of %d", len(sub.Widths), before)
	}
	if sub.Descriptor != nil && sub.DescendantFont.Descriptor != nil && sub.Descriptor != sub.DescendantFont.Descriptor {
		t.Fatalf("font and descendant should share the subset descriptor")
	}
}
