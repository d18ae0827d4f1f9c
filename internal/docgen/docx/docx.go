// Package docx writes minimal WordprocessingML documents: borderless fixed
// tables of inline images with optional headings and page breaks, on an A4
// section with configurable margins. It emits only the parts this layout
// needs, so the output stays small and deterministic.
package docx

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const (
	// emuPerCM converts centimeters to English Metric Units used by DrawingML.
	emuPerCM = 360000
	// twipsPerInch and cmPerInch convert centimeters to twentieths of a point.
	twipsPerInch = 1440
	cmPerInch    = 2.54
)

func twips(cm float64) int {
	return int(cm*twipsPerInch/cmPerInch + 0.5)
}

func emuCM(cm float64) int64 {
	return int64(cm*emuPerCM + 0.5)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string {
	return xmlEscaper.Replace(s)
}

// Document accumulates body blocks and media until Write assembles the package.
type Document struct {
	pageWidthCM    float64
	pageHeightCM   float64
	marginLeftCM   float64
	marginRightCM  float64
	marginTopCM    float64
	marginBottomCM float64

	fontName   string
	fontSizePt int

	blocks []block
	images []mediaImage
}

type mediaImage struct {
	ext  string
	data []byte
}

type block interface {
	render(b *strings.Builder, d *Document)
}

// New returns a document with an A4 page, 1/1/0.5/1 cm margins (left, right,
// top, bottom), and a 12pt Times New Roman default style.
func New() *Document {
	return &Document{
		pageWidthCM:    21.0,
		pageHeightCM:   29.7,
		marginLeftCM:   1.0,
		marginRightCM:  1.0,
		marginTopCM:    0.5,
		marginBottomCM: 1.0,
		fontName:       "Times New Roman",
		fontSizePt:     12,
	}
}

// SetMargins overrides the page margins in centimeters.
func (d *Document) SetMargins(left, right, top, bottom float64) {
	d.marginLeftCM = left
	d.marginRightCM = right
	d.marginTopCM = top
	d.marginBottomCM = bottom
}

// AddHeading appends a centered bold paragraph.
func (d *Document) AddHeading(text string) {
	d.blocks = append(d.blocks, &headingBlock{text: text})
}

// AddPageBreak appends an explicit page break.
func (d *Document) AddPageBreak() {
	d.blocks = append(d.blocks, pageBreakBlock{})
}

// AddTable appends a rows×cols table with uniform cell dimensions and returns
// it so the caller can fill cells. Cells left untouched render blank.
func (d *Document) AddTable(rows, cols int, cellWidthCM, cellHeightCM float64) *Table {
	t := &Table{
		doc:          d,
		rows:         rows,
		cols:         cols,
		cellWidthCM:  cellWidthCM,
		cellHeightCM: cellHeightCM,
		cells:        make([]tableCell, rows*cols),
	}
	d.blocks = append(d.blocks, t)
	return t
}

// Table is a borderless fixed-layout grid of image or text cells.
type Table struct {
	doc          *Document
	rows, cols   int
	cellWidthCM  float64
	cellHeightCM float64
	cells        []tableCell
}

const (
	cellEmpty = iota
	cellText
	cellImage
)

type tableCell struct {
	kind     int
	text     string
	imageIdx int
	cx, cy   int64
}

// SetText places centered plain text into the cell.
func (t *Table) SetText(row, col int, text string) {
	if idx, ok := t.index(row, col); ok {
		t.cells[idx] = tableCell{kind: cellText, text: text}
	}
}

// SetImage places an inline picture into the cell at the given display width.
// Only the width is fixed; the height is derived from the source pixel aspect
// ratio so the embedding never distorts the photo. Undecodable data yields an
// error and leaves the cell empty for the caller to fill with a placeholder.
func (t *Table) SetImage(row, col int, data []byte, widthCM float64) error {
	idx, ok := t.index(row, col)
	if !ok {
		return fmt.Errorf("docx: cell (%d,%d) out of table bounds %dx%d", row, col, t.rows, t.cols)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("docx: decode image for cell (%d,%d): %w", row, col, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("docx: image for cell (%d,%d) has empty dimensions", row, col)
	}

	cx := emuCM(widthCM)
	cy := cx * int64(cfg.Height) / int64(cfg.Width)

	t.doc.images = append(t.doc.images, mediaImage{ext: mediaExt(format), data: data})
	t.cells[idx] = tableCell{
		kind:     cellImage,
		imageIdx: len(t.doc.images) - 1,
		cx:       cx,
		cy:       cy,
	}
	return nil
}

func (t *Table) index(row, col int) (int, bool) {
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return 0, false
	}
	return row*t.cols + col, true
}

func mediaExt(format string) string {
	switch format {
	case "jpeg", "png", "gif":
		return format
	default:
		return "jpeg"
	}
}
