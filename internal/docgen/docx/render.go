package docx

import (
	"fmt"
	"strings"
)

// Relationship IDs: rId1 is styles, images start at rId2.
const firstImageRelID = 2

func (d *Document) relID(imageIdx int) string {
	return fmt.Sprintf("rId%d", firstImageRelID+imageIdx)
}

type headingBlock struct {
	text string
}

func (h *headingBlock) render(b *strings.Builder, d *Document) {
	b.WriteString(`<w:p><w:pPr><w:jc w:val="center"/><w:spacing w:after="240"/></w:pPr>`)
	b.WriteString(`<w:r><w:rPr><w:b/><w:color w:val="000000"/>`)
	fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, d.fontSizePt*2, d.fontSizePt*2)
	b.WriteString(`</w:rPr><w:t xml:space="preserve">`)
	b.WriteString(escape(h.text))
	b.WriteString(`</w:t></w:r></w:p>`)
}

type pageBreakBlock struct{}

func (pageBreakBlock) render(b *strings.Builder, _ *Document) {
	b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

func (t *Table) render(b *strings.Builder, d *Document) {
	cellW := twips(t.cellWidthCM)
	cellH := twips(t.cellHeightCM)

	b.WriteString(`<w:tbl><w:tblPr><w:jc w:val="center"/><w:tblLayout w:type="fixed"/>`)
	b.WriteString(`<w:tblBorders>`)
	for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(b, `<w:%s w:val="nil" w:sz="0" w:space="0" w:color="auto"/>`, edge)
	}
	b.WriteString(`</w:tblBorders></w:tblPr><w:tblGrid>`)
	for c := 0; c < t.cols; c++ {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, cellW)
	}
	b.WriteString(`</w:tblGrid>`)

	for r := 0; r < t.rows; r++ {
		fmt.Fprintf(b, `<w:tr><w:trPr><w:trHeight w:val="%d" w:hRule="exact"/></w:trPr>`, cellH)
		for c := 0; c < t.cols; c++ {
			t.renderCell(b, d, r, c, cellW)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}

func (t *Table) renderCell(b *strings.Builder, d *Document, row, col, cellW int) {
	fmt.Fprintf(b, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/>`, cellW)
	b.WriteString(`<w:tcBorders>`)
	for _, edge := range []string{"top", "left", "bottom", "right"} {
		fmt.Fprintf(b, `<w:%s w:val="nil" w:sz="0" w:space="0" w:color="auto"/>`, edge)
	}
	b.WriteString(`</w:tcBorders><w:tcMar>`)
	for _, edge := range []string{"top", "left", "bottom", "right"} {
		fmt.Fprintf(b, `<w:%s w:w="0" w:type="dxa"/>`, edge)
	}
	b.WriteString(`</w:tcMar><w:vAlign w:val="center"/></w:tcPr>`)

	cell := t.cells[row*t.cols+col]
	switch cell.kind {
	case cellImage:
		b.WriteString(`<w:p><w:pPr><w:jc w:val="center"/><w:spacing w:before="0" w:after="0"/></w:pPr><w:r>`)
		renderInlineImage(b, d.relID(cell.imageIdx), cell.imageIdx+1, cell.cx, cell.cy)
		b.WriteString(`</w:r></w:p>`)
	case cellText:
		b.WriteString(`<w:p><w:pPr><w:jc w:val="center"/><w:spacing w:before="0" w:after="0"/></w:pPr>`)
		b.WriteString(`<w:r><w:t xml:space="preserve">`)
		b.WriteString(escape(cell.text))
		b.WriteString(`</w:t></w:r></w:p>`)
	default:
		// A cell must contain at least one paragraph.
		b.WriteString(`<w:p/>`)
	}
	b.WriteString(`</w:tc>`)
}

func renderInlineImage(b *strings.Builder, relID string, docPrID int, cx, cy int64) {
	b.WriteString(`<w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`)
	fmt.Fprintf(b, `<wp:extent cx="%d" cy="%d"/>`, cx, cy)
	fmt.Fprintf(b, `<wp:docPr id="%d" name="Photo %d"/>`, docPrID, docPrID)
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	b.WriteString(`<pic:pic><pic:nvPicPr>`)
	fmt.Fprintf(b, `<pic:cNvPr id="%d" name="Photo %d"/>`, docPrID, docPrID)
	b.WriteString(`<pic:cNvPicPr/></pic:nvPicPr><pic:blipFill>`)
	fmt.Fprintf(b, `<a:blip r:embed="%s"/>`, relID)
	b.WriteString(`<a:stretch><a:fillRect/></a:stretch></pic:blipFill><pic:spPr>`)
	fmt.Fprintf(b, `<a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, cx, cy)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr></pic:pic>`)
	b.WriteString(`</a:graphicData></a:graphic></wp:inline></w:drawing>`)
}

func (d *Document) renderDocumentXML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document`)
	b.WriteString(` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`)
	b.WriteString(` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`)
	b.WriteString(` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"`)
	b.WriteString(` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`)
	b.WriteString(` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"`)
	b.WriteString(`><w:body>`)

	for _, blk := range d.blocks {
		blk.render(&b, d)
	}

	b.WriteString(`<w:sectPr>`)
	fmt.Fprintf(&b, `<w:pgSz w:w="%d" w:h="%d"/>`, twips(d.pageWidthCM), twips(d.pageHeightCM))
	fmt.Fprintf(&b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="0" w:footer="0" w:gutter="0"/>`,
		twips(d.marginTopCM), twips(d.marginRightCM), twips(d.marginBottomCM), twips(d.marginLeftCM))
	b.WriteString(`</w:sectPr></w:body></w:document>`)
	return b.String()
}

func (d *Document) renderStylesXML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	b.WriteString(`<w:docDefaults><w:rPrDefault><w:rPr>`)
	font := escape(d.fontName)
	fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/>`, font, font, font)
	fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, d.fontSizePt*2, d.fontSizePt*2)
	b.WriteString(`</w:rPr></w:rPrDefault></w:docDefaults>`)
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>`)
	b.WriteString(`</w:styles>`)
	return b.String()
}

func (d *Document) renderContentTypesXML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	b.WriteString(`<Default Extension="gif" ContentType="image/gif"/>`)
	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

func (d *Document) renderRootRelsXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`
}

func (d *Document) renderDocumentRelsXML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	for i, img := range d.images {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image%d.%s"/>`,
			d.relID(i), i+1, img.ext)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}
