package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/wudi/inspectkit/ir/raw"
	"github.com/wudi/inspectkit/ir/semantic"
	"github.com/wudi/inspectkit/observability"
)

type impl struct{ log observability.Logger }

func (w *impl) SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%d %d obj\n", ref.Num, ref.Gen))
	switch o := obj.(type) {
	case *raw.DictObj, *raw.ArrayObj, raw.NameObj, raw.NumberObj, raw.StringObj, *raw.StreamObj, raw.RefObj:
		buf.Write(serializePrimitive(o))
		buf.WriteString("\n")
	default:
		return nil, fmt.Errorf("object %s: unsupported type %T", ref, obj)
	}
	buf.WriteString("endobj\n")
	return buf.Bytes(), nil
}

func (w *impl) Write(ctx context.Context, doc *semantic.Document, out io.Writer, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil || len(doc.Pages) == 0 {
		return errors.New("document has no pages")
	}
	objects, catalogRef, infoRef, err := newObjectBuilder(doc, cfg).Build()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-" + pdfVersion(cfg) + "\n%\xE2\xE3\xCF\xD3\n")
	offsets := make(map[int]int64, len(objects))

	ordered := make([]raw.ObjectRef, 0, len(objects))
	for ref := range objects {
		ordered = append(ordered, ref)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Num < ordered[j].Num })
	for _, ref := range ordered {
		offsets[ref.Num] = int64(buf.Len())
		serialized, err := w.SerializeObject(ref, objects[ref])
		if err != nil {
			return err
		}
		buf.Write(serialized)
	}
	ids := fileID(buf.Bytes(), cfg)

	xrefOffset := buf.Len()
	maxObjNum := ordered[len(ordered)-1].Num
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", maxObjNum+1))
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= maxObjNum; i++ {
		if off, ok := offsets[i]; ok {
			buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}
	buf.WriteString("trailer\n")
	buf.Write(serializePrimitive(buildTrailer(maxObjNum+1, catalogRef, infoRef, ids)))
	buf.WriteString(fmt.Sprintf("\nstartxref\n%d\n%%EOF\n", xrefOffset))

	w.log.Debug("pdf serialized",
		observability.Int("pages", len(doc.Pages)),
		observability.Int("objects", len(objects)),
		observability.Int("bytes", buf.Len()),
	)
	_, err = out.Write(buf.Bytes())
	return err
}
