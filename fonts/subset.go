package fonts

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

// Tables carried into a subset unchanged. OpenType layout tables are dropped:
// PDF text is positioned by the content stream, not shaped by the viewer.
var subsetPassThrough = []string{"OS/2", "cmap", "cvt ", "fpgm", "gasp", "name", "prep"}

const (
	flagArgsAreWords = 0x0001
	flagHaveScale    = 0x0008
	flagMoreComps    = 0x0020
	flagHaveXYScale  = 0x0040
	flagHaveTwoByTwo = 0x0080
)

// Subset returns a TrueType program that only carries the outlines of gids,
// glyph 0 and the components of any composite among them. Glyph ids keep
// their positions, so the result still works with an Identity CIDToGIDMap.
// Programs without glyf outlines are returned unchanged.
func Subset(data []byte, gids map[int]bool) ([]byte, error) {
	sf, err := parseSFNT(data)
	if err != nil {
		return nil, err
	}
	for _, tag := range []string{"glyf", "loca", "head", "hhea", "hmtx", "maxp"} {
		if _, ok := sf.tables[tag]; !ok {
			return data, nil
		}
	}
	head, maxp, hhea := sf.tables["head"], sf.tables["maxp"], sf.tables["hhea"]
	if len(head) < 54 || len(maxp) < 6 || len(hhea) < 36 {
		return nil, errors.New("truncated head, hhea or maxp table")
	}
	numGlyphs := int(binary.BigEndian.Uint16(maxp[4:]))
	loca, err := readLoca(sf.tables["loca"], int16(binary.BigEndian.Uint16(head[50:])), numGlyphs)
	if err != nil {
		return nil, err
	}
	glyf := sf.tables["glyf"]
	if loca[numGlyphs] > uint32(len(glyf)) {
		return nil, errors.New("loca points past the glyf table")
	}

	keep := glyphClosure(glyf, loca, gids)
	last := 0
	for gid := range keep {
		if gid > last && gid < numGlyphs {
			last = gid
		}
	}
	n := last + 1

	var outGlyf bytes.Buffer
	outLoca := make([]byte, 4*(n+1))
	for gid := 0; gid < n; gid++ {
		binary.BigEndian.PutUint32(outLoca[4*gid:], uint32(outGlyf.Len()))
		if keep[gid] {
			outGlyf.Write(glyf[loca[gid]:loca[gid+1]])
			for outGlyf.Len()%4 != 0 {
				outGlyf.WriteByte(0)
			}
		}
	}
	binary.BigEndian.PutUint32(outLoca[4*n:], uint32(outGlyf.Len()))

	hmtx, err := expandHmtx(sf.tables["hmtx"], int(binary.BigEndian.Uint16(hhea[34:])), n)
	if err != nil {
		return nil, err
	}

	out := map[string][]byte{
		"glyf": outGlyf.Bytes(),
		"loca": outLoca,
		"hmtx": hmtx,
		"head": patchU16(head, 50, 1),
		"hhea": patchU16(hhea, 34, uint16(n)),
		"maxp": patchU16(maxp, 4, uint16(n)),
	}
	if post, ok := sf.tables["post"]; ok && len(post) >= 32 {
		// Format 3 drops the glyph names, which are indexed by the old count.
		p := append([]byte(nil), post[:32]...)
		binary.BigEndian.PutUint32(p, 0x00030000)
		out["post"] = p
	}
	for _, tag := range subsetPassThrough {
		if t, ok := sf.tables[tag]; ok {
			out[tag] = t
		}
	}
	return writeSFNT(out), nil
}

type tableDir struct {
	tables map[string][]byte
}

func parseSFNT(data []byte) (*tableDir, error) {
	if len(data) < 12 {
		return nil, errors.New("font header truncated")
	}
	count := int(binary.BigEndian.Uint16(data[4:]))
	if len(data) < 12+16*count {
		return nil, errors.New("table directory truncated")
	}
	sf := &tableDir{tables: make(map[string][]byte, count)}
	for i := 0; i < count; i++ {
		rec := data[12+16*i:]
		tag := string(rec[:4])
		off := binary.BigEndian.Uint32(rec[8:])
		length := binary.BigEndian.Uint32(rec[12:])
		if uint64(off)+uint64(length) > uint64(len(data)) {
			return nil, fmt.Errorf("table %q out of bounds", tag)
		}
		sf.tables[tag] = data[off : off+length]
	}
	return sf, nil
}

// readLoca returns numGlyphs+1 byte offsets into glyf.
func readLoca(loca []byte, format int16, numGlyphs int) ([]uint32, error) {
	offs := make([]uint32, numGlyphs+1)
	for i := range offs {
		switch {
		case format == 0 && 2*i+2 <= len(loca):
			offs[i] = 2 * uint32(binary.BigEndian.Uint16(loca[2*i:]))
		case format == 1 && 4*i+4 <= len(loca):
			offs[i] = binary.BigEndian.Uint32(loca[4*i:])
		default:
			return nil, errors.New("loca table truncated")
		}
		if i > 0 && offs[i] < offs[i-1] {
			return nil, fmt.Errorf("loca offsets decrease at glyph %d", i)
		}
	}
	return offs, nil
}

// glyphClosure adds glyph 0 and every component referenced by a composite
// glyph in the set.
func glyphClosure(glyf []byte, loca []uint32, gids map[int]bool) map[int]bool {
	keep := map[int]bool{0: true}
	queue := []int{0}
	for gid := range gids {
		if gid >= 0 && gid < len(loca)-1 && !keep[gid] {
			keep[gid] = true
			queue = append(queue, gid)
		}
	}
	for len(queue) > 0 {
		gid := queue[0]
		queue = queue[1:]
		start, end := loca[gid], loca[gid+1]
		if end > uint32(len(glyf)) || end-start < 10 {
			continue
		}
		g := glyf[start:end]
		if int16(binary.BigEndian.Uint16(g)) >= 0 {
			continue
		}
		for off := 10; off+4 <= len(g); {
			flags := binary.BigEndian.Uint16(g[off:])
			comp := int(binary.BigEndian.Uint16(g[off+2:]))
			if comp < len(loca)-1 && !keep[comp] {
				keep[comp] = true
				queue = append(queue, comp)
			}
			off += 4
			if flags&flagArgsAreWords != 0 {
				off += 4
			} else {
				off += 2
			}
			switch {
			case flags&flagHaveScale != 0:
				off += 2
			case flags&flagHaveXYScale != 0:
				off += 4
			case flags&flagHaveTwoByTwo != 0:
				off += 8
			}
			if flags&flagMoreComps == 0 {
				break
			}
		}
	}
	return keep
}

// expandHmtx writes an explicit advance and side bearing for each of the
// first n glyphs.
func expandHmtx(hmtx []byte, numMetrics, n int) ([]byte, error) {
	if numMetrics == 0 || len(hmtx) < 4*numMetrics {
		return nil, errors.New("hmtx table truncated")
	}
	out := make([]byte, 4*n)
	lastAdv := hmtx[4*(numMetrics-1) : 4*(numMetrics-1)+2]
	for gid := 0; gid < n; gid++ {
		dst := out[4*gid:]
		if gid < numMetrics {
			copy(dst, hmtx[4*gid:4*gid+4])
			continue
		}
		copy(dst, lastAdv)
		if off := 4*numMetrics + 2*(gid-numMetrics); off+2 <= len(hmtx) {
			copy(dst[2:], hmtx[off:off+2])
		}
	}
	return out, nil
}

func patchU16(table []byte, off int, v uint16) []byte {
	t := append([]byte(nil), table...)
	binary.BigEndian.PutUint16(t[off:], v)
	return t
}

func writeSFNT(tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	count := len(tags)
	sel := 0
	for 1<<(sel+1) <= count {
		sel++
	}
	searchRange := (1 << sel) * 16

	var buf bytes.Buffer
	hdr := make([]byte, 12)
	binary.BigEndian.PutUint32(hdr, 0x00010000)
	binary.BigEndian.PutUint16(hdr[4:], uint16(count))
	binary.BigEndian.PutUint16(hdr[6:], uint16(searchRange))
	binary.BigEndian.PutUint16(hdr[8:], uint16(sel))
	binary.BigEndian.PutUint16(hdr[10:], uint16(count*16-searchRange))
	buf.Write(hdr)

	headOff := 0
	off := 12 + 16*count
	dir := make([]byte, 16*count)
	for i, tag := range tags {
		t := tables[tag]
		if tag == "head" {
			t = patchU32(t, 8, 0)
			tables[tag] = t
			headOff = off
		}
		rec := dir[16*i:]
		copy(rec, tag)
		binary.BigEndian.PutUint32(rec[4:], checksum(t))
		binary.BigEndian.PutUint32(rec[8:], uint32(off))
		binary.BigEndian.PutUint32(rec[12:], uint32(len(t)))
		off += (len(t) + 3) &^ 3
	}
	buf.Write(dir)
	for _, tag := range tags {
		t := tables[tag]
		buf.Write(t)
		buf.Write(make([]byte, (4-len(t)%4)%4))
	}

	out := buf.Bytes()
	if headOff > 0 {
		binary.BigEndian.PutUint32(out[headOff+8:], 0xB1B0AFBA-checksum(out))
	}
	return out
}

func patchU32(table []byte, off int, v uint32) []byte {
	t := append([]byte(nil), table...)
	binary.BigEndian.PutUint32(t[off:], v)
	return t
}

func checksum(data []byte) uint32 {
	var sum uint32
	for i := 0; i < len(data); i += 4 {
		var word [4]byte
		copy(word[:], data[i:])
		sum += binary.BigEndian.Uint32(word[:])
	}
	return sum
}
