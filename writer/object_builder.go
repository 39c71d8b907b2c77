package writer

import (
	"fmt"
	"sort"

	"github.com/wudi/inspectkit/ir/raw"
	"github.com/wudi/inspectkit/ir/semantic"
)

// objectBuilder lowers the semantic document into numbered raw objects.
// Numbers are handed out in a fixed walk (catalog, page tree, then pages in
// order with their fonts and content), so the object layout depends only on
// the document.
type objectBuilder struct {
	doc     *semantic.Document
	cfg     Config
	objNum  int
	objects map[raw.ObjectRef]raw.Object
	fonts   map[*semantic.Font]raw.ObjectRef
	used    map[*semantic.Font]map[int]bool
}

func newObjectBuilder(doc *semantic.Document, cfg Config) *objectBuilder {
	return &objectBuilder{
		doc:     doc,
		cfg:     cfg,
		objNum:  1,
		objects: make(map[raw.ObjectRef]raw.Object),
		fonts:   make(map[*semantic.Font]raw.ObjectRef),
	}
}

func (b *objectBuilder) nextRef() raw.ObjectRef {
	ref := raw.ObjectRef{Num: b.objNum, Gen: 0}
	b.objNum++
	return ref
}

func (b *objectBuilder) Build() (map[raw.ObjectRef]raw.Object, raw.ObjectRef, *raw.ObjectRef, error) {
	if b.cfg.SubsetFonts {
		b.used = usedGlyphs(b.doc)
	}
	catalogRef := b.nextRef()
	pagesRef := b.nextRef()

	kids := raw.NewArray()
	for _, p := range b.doc.Pages {
		pageRef, err := b.addPage(p, pagesRef)
		if err != nil {
			return nil, raw.ObjectRef{}, nil, fmt.Errorf("page %d: %w", p.Index, err)
		}
		kids.Append(raw.Ref(pageRef.Num, pageRef.Gen))
	}

	pagesDict := raw.Dict()
	pagesDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Pages"))
	pagesDict.Set(raw.NameLiteral("Count"), raw.NumberInt(int64(kids.Len())))
	pagesDict.Set(raw.NameLiteral("Kids"), kids)
	b.objects[pagesRef] = pagesDict

	catalogDict := raw.Dict()
	catalogDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Catalog"))
	catalogDict.Set(raw.NameLiteral("Pages"), raw.Ref(pagesRef.Num, pagesRef.Gen))
	b.objects[catalogRef] = catalogDict

	var infoRef *raw.ObjectRef
	if info := b.doc.Info; info != nil {
		ref := b.nextRef()
		b.objects[ref] = infoDict(info)
		infoRef = &ref
	}
	return b.objects, catalogRef, infoRef, nil
}

func (b *objectBuilder) addPage(p *semantic.Page, parent raw.ObjectRef) (raw.ObjectRef, error) {
	resDict := raw.Dict()
	if p.Resources != nil && len(p.Resources.Fonts) > 0 {
		names := make([]string, 0, len(p.Resources.Fonts))
		for name := range p.Resources.Fonts {
			names = append(names, name)
		}
		sort.Strings(names)
		fontRes := raw.Dict()
		for _, name := range names {
			ref, err := b.ensureFont(p.Resources.Fonts[name])
			if err != nil {
				return raw.ObjectRef{}, fmt.Errorf("font %s: %w", name, err)
			}
			fontRes.Set(raw.NameLiteral(name), raw.Ref(ref.Num, ref.Gen))
		}
		resDict.Set(raw.NameLiteral("Font"), fontRes)
	}

	var content []byte
	for _, cs := range p.Contents {
		content = append(content, serializeContentStream(cs)...)
	}
	contentRef := b.nextRef()
	stream, err := b.stream(raw.Dict(), content)
	if err != nil {
		return raw.ObjectRef{}, err
	}
	b.objects[contentRef] = stream

	pageRef := b.nextRef()
	pageDict := raw.Dict()
	pageDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Page"))
	pageDict.Set(raw.NameLiteral("Parent"), raw.Ref(parent.Num, parent.Gen))
	pageDict.Set(raw.NameLiteral("MediaBox"), rectArray(p.MediaBox))
	pageDict.Set(raw.NameLiteral("Resources"), resDict)
	pageDict.Set(raw.NameLiteral("Contents"), raw.Ref(contentRef.Num, contentRef.Gen))
	b.objects[pageRef] = pageDict
	return pageRef, nil
}

// ensureFont writes a font once per *semantic.Font, however many pages use it.
func (b *objectBuilder) ensureFont(font *semantic.Font) (raw.ObjectRef, error) {
	if font == nil {
		return raw.ObjectRef{}, fmt.Errorf("nil font")
	}
	if ref, ok := b.fonts[font]; ok {
		return ref, nil
	}
	if font.Subtype != "Type0" {
		return raw.ObjectRef{}, fmt.Errorf("font %s: only embedded Type0 fonts are written, got %q", font.BaseFont, font.Subtype)
	}
	ref := b.nextRef()
	b.fonts[font] = ref
	if b.cfg.SubsetFonts {
		sub, err := subsetFont(font, b.used[font])
		if err != nil {
			return raw.ObjectRef{}, err
		}
		font = sub
	}

	dict := raw.Dict()
	dict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Font"))
	dict.Set(raw.NameLiteral("BaseFont"), raw.NameLiteral(pdfNameLiteral(font.BaseFont)))
	b.objects[ref] = dict

	cid := font.DescendantFont
	if cid == nil {
		return raw.ObjectRef{}, fmt.Errorf("type0 font %s has no descendant", font.BaseFont)
	}
	dict.Set(raw.NameLiteral("Subtype"), raw.NameLiteral("Type0"))
	dict.Set(raw.NameLiteral("Encoding"), raw.NameLiteral(font.Encoding))

	cidRef := b.nextRef()
	dict.Set(raw.NameLiteral("DescendantFonts"), raw.NewArray(raw.Ref(cidRef.Num, cidRef.Gen)))
	cidDict := raw.Dict()
	cidDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Font"))
	cidDict.Set(raw.NameLiteral("Subtype"), raw.NameLiteral(cid.Subtype))
	cidDict.Set(raw.NameLiteral("BaseFont"), raw.NameLiteral(pdfNameLiteral(cid.BaseFont)))
	sysInfo := raw.Dict()
	sysInfo.Set(raw.NameLiteral("Registry"), raw.Str([]byte(cid.CIDSystemInfo.Registry)))
	sysInfo.Set(raw.NameLiteral("Ordering"), raw.Str([]byte(cid.CIDSystemInfo.Ordering)))
	sysInfo.Set(raw.NameLiteral("Supplement"), raw.NumberInt(int64(cid.CIDSystemInfo.Supplement)))
	cidDict.Set(raw.NameLiteral("CIDSystemInfo"), sysInfo)
	if cid.DW > 0 {
		cidDict.Set(raw.NameLiteral("DW"), raw.NumberInt(int64(cid.DW)))
	}
	if len(cid.W) > 0 {
		cidDict.Set(raw.NameLiteral("W"), encodeCIDWidths(cid.W))
	}
	if cid.CIDToGIDMapName != "" {
		cidDict.Set(raw.NameLiteral("CIDToGIDMap"), raw.NameLiteral(cid.CIDToGIDMapName))
	}
	b.objects[cidRef] = cidDict

	if fd := fontDescriptor(cid, font); fd != nil {
		fdRef, err := b.addFontDescriptor(fd)
		if err != nil {
			return raw.ObjectRef{}, err
		}
		cidDict.Set(raw.NameLiteral("FontDescriptor"), raw.Ref(fdRef.Num, fdRef.Gen))
	}

	if cmap := buildToUnicodeCMap(font); len(cmap) > 0 {
		tuRef := b.nextRef()
		stream, err := b.stream(raw.Dict(), cmap)
		if err != nil {
			return raw.ObjectRef{}, err
		}
		b.objects[tuRef] = stream
		dict.Set(raw.NameLiteral("ToUnicode"), raw.Ref(tuRef.Num, tuRef.Gen))
	}
	return ref, nil
}

func (b *objectBuilder) addFontDescriptor(fd *semantic.FontDescriptor) (raw.ObjectRef, error) {
	ref := b.nextRef()
	dict := raw.Dict()
	dict.Set(raw.NameLiteral("Type"), raw.NameLiteral("FontDescriptor"))
	dict.Set(raw.NameLiteral("FontName"), raw.NameLiteral(pdfNameLiteral(fd.FontName)))
	dict.Set(raw.NameLiteral("Flags"), raw.NumberInt(int64(fd.Flags)))
	dict.Set(raw.NameLiteral("ItalicAngle"), raw.NumberFloat(fd.ItalicAngle))
	dict.Set(raw.NameLiteral("Ascent"), raw.NumberFloat(fd.Ascent))
	dict.Set(raw.NameLiteral("Descent"), raw.NumberFloat(fd.Descent))
	dict.Set(raw.NameLiteral("CapHeight"), raw.NumberFloat(fd.CapHeight))
	dict.Set(raw.NameLiteral("StemV"), raw.NumberInt(int64(fd.StemV)))
	dict.Set(raw.NameLiteral("FontBBox"), raw.NewArray(
		raw.NumberFloat(fd.FontBBox[0]),
		raw.NumberFloat(fd.FontBBox[1]),
		raw.NumberFloat(fd.FontBBox[2]),
		raw.NumberFloat(fd.FontBBox[3]),
	))
	b.objects[ref] = dict

	if len(fd.FontFile) > 0 {
		fileRef := b.nextRef()
		fileDict := raw.Dict()
		fileDict.Set(raw.NameLiteral("Length1"), raw.NumberInt(int64(len(fd.FontFile))))
		stream, err := b.stream(fileDict, fd.FontFile)
		if err != nil {
			return raw.ObjectRef{}, err
		}
		b.objects[fileRef] = stream
		key := fd.FontFileType
		if key == "" {
			key = "FontFile2"
		}
		dict.Set(raw.NameLiteral(key), raw.Ref(fileRef.Num, fileRef.Gen))
	}
	return ref, nil
}

// stream wraps data in a stream object, flate-encoding it when configured.
func (b *objectBuilder) stream(dict *raw.DictObj, data []byte) (*raw.StreamObj, error) {
	if b.cfg.Compression == 0 {
		return raw.NewStream(dict, data), nil
	}
	encoded, err := flateEncode(data, b.cfg.Compression)
	if err != nil {
		return nil, fmt.Errorf("flate: %w", err)
	}
	dict.Set(raw.NameLiteral("Filter"), raw.NameLiteral("FlateDecode"))
	return raw.NewStream(dict, encoded), nil
}
