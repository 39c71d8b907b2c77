package writer

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/wudi/inspectkit/fonts"
	"github.com/wudi/inspectkit/ir/semantic"
)

// usedGlyphs records, per Type0 font, the two-byte codes shown by Tj on
// every page. With Identity-H these codes are glyph ids.
func usedGlyphs(doc *semantic.Document) map[*semantic.Font]map[int]bool {
	used := make(map[*semantic.Font]map[int]bool)
	for _, p := range doc.Pages {
		if p.Resources == nil {
			continue
		}
		for _, cs := range p.Contents {
			var cur *semantic.Font
			for _, op := range cs.Operations {
				switch op.Operator {
				case "Tf":
					cur = nil
					if len(op.Operands) > 0 {
						if name, ok := op.Operands[0].(semantic.NameOperand); ok {
							cur = p.Resources.Fonts[name.Value]
						}
					}
				case "Tj":
					if cur == nil || cur.Subtype != "Type0" || len(op.Operands) == 0 {
						continue
					}
					s, ok := op.Operands[0].(semantic.StringOperand)
					if !ok {
						continue
					}
					set := used[cur]
					if set == nil {
						set = make(map[int]bool)
						used[cur] = set
					}
					for i := 0; i+1 < len(s.Value); i += 2 {
						set[int(binary.BigEndian.Uint16(s.Value[i:]))] = true
					}
				}
			}
		}
	}
	return used
}

// subsetFont returns a copy of font whose program, widths and ToUnicode
// entries only cover used. The input font is not modified.
func subsetFont(font *semantic.Font, used map[int]bool) (*semantic.Font, error) {
	fd := fontDescriptor(font.DescendantFont, font)
	if fd == nil || len(fd.FontFile) == 0 || len(used) == 0 {
		return font, nil
	}
	program, err := fonts.Subset(fd.FontFile, used)
	if err != nil {
		return nil, fmt.Errorf("subset %s: %w", font.BaseFont, err)
	}
	tag := subsetTag(used) + "+"

	desc := *fd
	desc.FontName = tag + fd.FontName
	desc.FontFile = program

	out := *font
	out.BaseFont = tag + font.BaseFont
	out.Widths = keepKeys(font.Widths, used)
	out.ToUnicode = keepKeys(font.ToUnicode, used)
	if out.Descriptor != nil {
		out.Descriptor = &desc
	}
	if cid := font.DescendantFont; cid != nil {
		c := *cid
		c.BaseFont = tag + cid.BaseFont
		c.W = keepKeys(cid.W, used)
		if c.Descriptor != nil {
			c.Descriptor = &desc
		}
		out.DescendantFont = &c
	}
	return &out, nil
}

func keepKeys[V any](m map[int]V, keys map[int]bool) map[int]V {
	if m == nil {
		return nil
	}
	out := make(map[int]V, len(keys))
	for k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// subsetTag derives the six-letter subset prefix from the glyph set, so the
// same glyphs always get the same tag.
func subsetTag(used map[int]bool) string {
	gids := make([]int, 0, len(used))
	for gid := range used {
		gids = append(gids, gid)
	}
	sort.Ints(gids)
	buf := make([]byte, 2*len(gids))
	for i, gid := range gids {
		binary.BigEndian.PutUint16(buf[2*i:], uint16(gid))
	}
	h := xxh3.Hash(buf)
	tag := make([]byte, 6)
	for i := range tag {
		tag[i] = byte('A' + h%26)
		h /= 26
	}
	return string(tag)
}
