package writer

import (
	"bytes"
	"compress/zlib"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/zeebo/xxh3"

	"github.com/wudi/inspectkit/ir/raw"
	"github.com/wudi/inspectkit/ir/semantic"
)

func pdfVersion(cfg Config) string {
	if cfg.Version == "" {
		return string(PDF17)
	}
	return string(cfg.Version)
}

// fileID returns the two trailer /ID entries. In deterministic mode both are
// the xxh3-128 digest of the serialized body.
func fileID(body []byte, cfg Config) [2][]byte {
	sum := xxh3.Hash128(body).Bytes()
	seed := sum[:]
	if cfg.Deterministic {
		return [2][]byte{seed, seed}
	}
	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		return [2][]byte{seed, seed}
	}
	return [2][]byte{seed, id}
}

func rectArray(r semantic.Rectangle) *raw.ArrayObj {
	return raw.NewArray(
		raw.NumberFloat(r.LLX),
		raw.NumberFloat(r.LLY),
		raw.NumberFloat(r.URX),
		raw.NumberFloat(r.URY),
	)
}

// flateEncode produces the zlib-wrapped deflate data FlateDecode expects.
func flateEncode(data []byte, level int) ([]byte, error) {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		level = zlib.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildToUnicodeCMap maps every glyph to the lowest code point that draws
// it, so text extraction is stable when several runes share a glyph.
func buildToUnicodeCMap(font *semantic.Font) []byte {
	if font == nil || len(font.ToUnicode) == 0 {
		return nil
	}
	keys := make([]int, 0, len(font.ToUnicode))
	for cid, runes := range font.ToUnicode {
		if len(runes) > 0 {
			keys = append(keys, cid)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Ints(keys)
	info := semantic.CIDSystemInfo{Registry: "Adobe", Ordering: "Identity"}
	if font.CIDSystemInfo != nil {
		info = *font.CIDSystemInfo
	}
	name := strings.ReplaceAll(font.BaseFont, " ", "")
	if name == "" {
		name = "ToUnicode"
	}

	var buf bytes.Buffer
	buf.WriteString("/CIDInit /ProcSet findresource begin\n12 dict begin\nbegincmap\n")
	fmt.Fprintf(&buf, "/CIDSystemInfo << /Registry (%s) /Ordering (%s) /Supplement %d >> def\n", info.Registry, info.Ordering, info.Supplement)
	fmt.Fprintf(&buf, "/CMapName /%s-UTF16 def\n/CMapType 2 def\n", name)
	buf.WriteString("1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")
	for i := 0; i < len(keys); {
		chunk := len(keys) - i
		if chunk > 100 {
			chunk = 100
		}
		fmt.Fprintf(&buf, "%d beginbfchar\n", chunk)
		for _, cid := range keys[i : i+chunk] {
			fmt.Fprintf(&buf, "<%04X> <%s>\n", cid, utf16Hex(font.ToUnicode[cid][:1]))
		}
		buf.WriteString("endbfchar\n")
		i += chunk
	}
	buf.WriteString("endcmap\nCMapName currentdict /CMap defineresource pop\nend\nend\n")
	return buf.Bytes()
}

func utf16Hex(runes []rune) string {
	var b strings.Builder
	for _, u := range utf16.Encode(runes) {
		fmt.Fprintf(&b, "%04X", u)
	}
	return b.String()
}

// encodeCIDWidths collapses runs of consecutive CIDs sharing a width into
// the "first last width" form of the /W array.
func encodeCIDWidths(widths map[int]int) *raw.ArrayObj {
	arr := raw.NewArray()
	if len(widths) == 0 {
		return arr
	}
	codes := make([]int, 0, len(widths))
	for c := range widths {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	flush := func(start, end, w int) {
		arr.Append(raw.NumberInt(int64(start)))
		arr.Append(raw.NumberInt(int64(end)))
		arr.Append(raw.NumberInt(int64(w)))
	}
	start, prev, current := codes[0], codes[0], widths[codes[0]]
	for _, code := range codes[1:] {
		w := widths[code]
		if w == current && code == prev+1 {
			prev = code
			continue
		}
		flush(start, prev, current)
		start, prev, current = code, code, w
	}
	flush(start, prev, current)
	return arr
}

func fontDescriptor(cid *semantic.CIDFont, font *semantic.Font) *semantic.FontDescriptor {
	if cid != nil && cid.Descriptor != nil {
		return cid.Descriptor
	}
	if font != nil {
		return font.Descriptor
	}
	return nil
}

func infoDict(info *semantic.DocumentInfo) *raw.DictObj {
	d := raw.Dict()
	set := func(key, value string) {
		if value != "" {
			d.Set(raw.NameLiteral(key), textString(value))
		}
	}
	set("Title", info.Title)
	set("Author", info.Author)
	set("Subject", info.Subject)
	set("Creator", info.Creator)
	set("Producer", info.Producer)
	set("Keywords", strings.Join(info.Keywords, ", "))
	return d
}

// textString encodes a text string for use outside content streams: plain
// ASCII as a literal string, anything else as UTF-16BE with a byte order mark.
func textString(s string) raw.StringObj {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return raw.Str([]byte(s))
	}
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, 2+2*len(units))
	out = append(out, 0xFE, 0xFF)
	for _, u := range units {
		out = append(out, byte(u>>8), byte(u))
	}
	return raw.HexStr(out)
}

func serializeContentStream(cs semantic.ContentStream) []byte {
	var buf bytes.Buffer
	for _, op := range cs.Operations {
		for _, operand := range op.Operands {
			buf.Write(serializeOperand(operand))
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func serializeOperand(op semantic.Operand) []byte {
	switch v := op.(type) {
	case semantic.NumberOperand:
		return []byte(formatNumber(v.Value))
	case semantic.NameOperand:
		return []byte("/" + pdfNameLiteral(v.Value))
	case semantic.StringOperand:
		return escapeLiteralString(v.Value)
	default:
		return []byte("null")
	}
}

// formatNumber rounds to three decimals and drops trailing zeros, which keeps
// output identical across platforms for the same layout.
func formatNumber(f float64) string {
	r := math.Round(f*1000) / 1000
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func escapeLiteralString(rawBytes []byte) []byte {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, ch := range rawBytes {
		switch ch {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(ch)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			if ch < 0x20 || ch >= 0x80 {
				fmt.Fprintf(&b, "\\%03o", ch)
			} else {
				b.WriteByte(ch)
			}
		}
	}
	b.WriteByte(')')
	return b.Bytes()
}

func serializePrimitive(o raw.Object) []byte {
	switch v := o.(type) {
	case raw.NameObj:
		return []byte("/" + v.Value())
	case raw.NumberObj:
		if v.IsInteger() {
			return []byte(strconv.FormatInt(v.Int(), 10))
		}
		return []byte(formatNumber(v.Float()))
	case raw.StringObj:
		if v.IsHex() {
			return []byte("<" + strings.ToUpper(hex.EncodeToString(v.Value())) + ">")
		}
		return escapeLiteralString(v.Value())
	case *raw.ArrayObj:
		var b bytes.Buffer
		b.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.Write(serializePrimitive(it))
		}
		b.WriteByte(']')
		return b.Bytes()
	case *raw.DictObj:
		var b bytes.Buffer
		b.WriteString("<<")
		keys := make([]string, 0, len(v.KV))
		for k := range v.KV {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("/" + k + " ")
			b.Write(serializePrimitive(v.KV[k]))
		}
		b.WriteString(">>")
		return b.Bytes()
	case *raw.StreamObj:
		dict := raw.Dict()
		if v.Dict != nil {
			for k, val := range v.Dict.KV {
				dict.KV[k] = val
			}
		}
		dict.Set(raw.NameLiteral("Length"), raw.NumberInt(v.Length()))
		var b bytes.Buffer
		b.Write(serializePrimitive(dict))
		b.WriteString("\nstream\n")
		b.Write(v.Data)
		b.WriteString("\nendstream")
		return b.Bytes()
	case raw.RefObj:
		return []byte(v.Ref().String())
	default:
		return []byte("null")
	}
}

// pdfNameLiteral escapes bytes outside the regular name character set.
func pdfNameLiteral(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' || ch == '.' || ch == '+' {
			b.WriteByte(ch)
			continue
		}
		fmt.Fprintf(&b, "#%02X", ch)
	}
	return b.String()
}

func buildTrailer(size int, catalogRef raw.ObjectRef, infoRef *raw.ObjectRef, ids [2][]byte) *raw.DictObj {
	trailer := raw.Dict()
	trailer.Set(raw.NameLiteral("Size"), raw.NumberInt(int64(size)))
	trailer.Set(raw.NameLiteral("Root"), raw.Ref(catalogRef.Num, catalogRef.Gen))
	if infoRef != nil {
		trailer.Set(raw.NameLiteral("Info"), raw.Ref(infoRef.Num, infoRef.Gen))
	}
	trailer.Set(raw.NameLiteral("ID"), raw.NewArray(raw.HexStr(ids[0]), raw.HexStr(ids[1])))
	return trailer
}
