// Package docgen lays out photo sequences into paginated table documents.
package docgen

import "fmt"

// Page geometry in centimeters: A4 with fixed print margins.
const (
	PageWidthCM  = 21.0
	PageHeightCM = 29.7

	MarginLeftCM   = 1.0
	MarginRightCM  = 1.0
	MarginTopCM    = 0.5
	MarginBottomCM = 1.0

	// CellPaddingCM is added to the photo width to form the square cell size.
	CellPaddingCM = 0.2

	autoSafetyFactor = 0.95
	autoMinCM        = 2.0
	autoMaxCM        = 10.0
)

// Size selects the embedded photo width per page.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeAuto   Size = "auto"
)

var fixedWidths = map[Size]float64{
	SizeSmall:  3.0,
	SizeMedium: 5.0,
	SizeLarge:  8.0,
}

// ParseSize maps a selection key to a Size, reporting whether it is known.
func ParseSize(key string) (Size, bool) {
	switch Size(key) {
	case SizeSmall, SizeMedium, SizeLarge, SizeAuto:
		return Size(key), true
	}
	return "", false
}

// Label returns a human-readable name for the size option.
func (s Size) Label() string {
	if s == SizeAuto {
		return "auto"
	}
	if w, ok := fixedWidths[s]; ok {
		return fmt.Sprintf("%.0f cm", w)
	}
	return "unknown"
}

// WidthCM resolves the photo display width for a rows×cols grid.
//
// Named sizes map to fixed constants. Auto fits the usable page area into the
// grid, takes the smaller of the derived cell width and height, applies a
// safety factor, and clamps the result so cells neither overflow the printable
// page nor shrink below legibility.
func (s Size) WidthCM(rows, cols int) float64 {
	if w, ok := fixedWidths[s]; ok {
		return w
	}
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	usableW := PageWidthCM - (MarginLeftCM + MarginRightCM)
	usableH := PageHeightCM - (MarginTopCM + MarginBottomCM)

	cellW := usableW / float64(cols)
	cellH := usableH / float64(rows)

	size := cellW
	if cellH < size {
		size = cellH
	}
	size *= autoSafetyFactor

	if size < autoMinCM {
		size = autoMinCM
	}
	if size > autoMaxCM {
		size = autoMaxCM
	}
	return size
}
