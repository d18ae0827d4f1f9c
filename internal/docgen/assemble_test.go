package docgen

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/oleg-dixon/appraiser-photo-bot/internal/tempfiles"
)

func jpegPhoto(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 160, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func documentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open package: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
		return buf.String()
	}
	t.Fatal("document.xml not in package")
	return ""
}

func TestBuildMultiPage(t *testing.T) {
	b := NewBuilder(nil)

	photos := make([][]byte, 5)
	for i := range photos {
		photos[i] = jpegPhoto(t, 60, 40)
	}

	res, err := b.Build(context.Background(), BuildOptions{
		Title: "Kitchen Survey",
		Rows:  2,
		Cols:  2,
		Size:  SizeMedium,
	}, photos)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2 for 5 photos on a 2x2 grid", res.Pages)
	}
	if res.Staged {
		t.Error("small build must not be staged")
	}

	doc := documentXML(t, res.Data)
	if !strings.Contains(doc, "Kitchen Survey (page 1 of 2)") ||
		!strings.Contains(doc, "Kitchen Survey (page 2 of 2)") {
		t.Error("multi-page build missing per-page heading suffix")
	}
	if strings.Count(doc, "<w:tbl>") != 2 {
		t.Errorf("table count = %d, want 2", strings.Count(doc, "<w:tbl>"))
	}
	if strings.Count(doc, `<w:br w:type="page"/>`) != 1 {
		t.Error("expected exactly one page break between two pages")
	}
	if strings.Count(doc, "r:embed=") != 5 {
		t.Errorf("embedded images = %d, want 5", strings.Count(doc, "r:embed="))
	}
	// 8 cells across two 2x2 tables, 5 filled, 3 blank trailing cells.
	if strings.Count(doc, "<w:p/>") != 3 {
		t.Errorf("blank cells = %d, want 3", strings.Count(doc, "<w:p/>"))
	}
	// Photos embed in submission order: relationship ids appear row-major.
	prev := -1
	for _, rel := range []string{"rId2", "rId3", "rId4", "rId5", "rId6"} {
		pos := strings.Index(doc, `r:embed="`+rel+`"`)
		if pos < 0 || pos < prev {
			t.Fatalf("relationship %s out of order (pos %d, prev %d)", rel, pos, prev)
		}
		prev = pos
	}
}

func TestStagedBuildMatchesInMemory(t *testing.T) {
	tmp, err := tempfiles.New("docgen-equiv")
	if err != nil {
		t.Fatalf("tempfiles: %v", err)
	}
	t.Cleanup(tmp.Close)

	photos := [][]byte{jpegPhoto(t, 40, 40), jpegPhoto(t, 40, 40)}
	opts := BuildOptions{Title: "Equiv", Rows: 1, Cols: 1, Size: SizeSmall}

	direct, err := NewBuilder(nil).Build(context.Background(), opts, photos)
	if err != nil {
		t.Fatalf("in-memory build: %v", err)
	}

	opts.UseTempFiles = true
	opts.TempFileThreshold = 1
	staged, err := NewBuilder(tmp).Build(context.Background(), opts, photos)
	if err != nil {
		t.Fatalf("staged build: %v", err)
	}
	if !staged.Staged {
		t.Fatal("staged build did not stage")
	}
	if !bytes.Equal(direct.Data, staged.Data) {
		t.Error("staged and in-memory builds must produce identical bytes")
	}
}

func TestBuildSinglePageNoSuffix(t *testing.T) {
	b := NewBuilder(nil)
	res, err := b.Build(context.Background(), BuildOptions{
		Title: "Hallway",
		Rows:  2,
		Cols:  2,
		Size:  SizeSmall,
	}, [][]byte{jpegPhoto(t, 30, 30)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Pages != 1 {
		t.Errorf("Pages = %d, want 1", res.Pages)
	}
	doc := documentXML(t, res.Data)
	if !strings.Contains(doc, "Hallway") || strings.Contains(doc, "page 1 of") {
		t.Error("single-page heading must not carry a page suffix")
	}
}

func TestBuildStagedAboveThreshold(t *testing.T) {
	tmp, err := tempfiles.New("docgen-test")
	if err != nil {
		t.Fatalf("tempfiles: %v", err)
	}
	t.Cleanup(tmp.Close)

	b := NewBuilder(tmp)
	photos := make([][]byte, 3)
	for i := range photos {
		photos[i] = jpegPhoto(t, 30, 30)
	}

	res, err := b.Build(context.Background(), BuildOptions{
		Rows: 1, Cols: 1, Size: SizeSmall,
		UseTempFiles: true, TempFileThreshold: 2,
	}, photos)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !res.Staged {
		t.Error("multi-page build above threshold must be staged")
	}
	if tmp.Count() != 0 {
		t.Errorf("staging file leaked, %d still tracked", tmp.Count())
	}
	documentXML(t, res.Data)

	// A set that fits a single page must skip staging even above threshold.
	res, err = b.Build(context.Background(), BuildOptions{
		Rows: 2, Cols: 2, Size: SizeSmall,
		UseTempFiles: true, TempFileThreshold: 2,
	}, photos)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Staged {
		t.Error("single-page build must not be staged")
	}
}

func TestBuildPlaceholderForBadPhoto(t *testing.T) {
	b := NewBuilder(nil)
	res, err := b.Build(context.Background(), BuildOptions{
		Rows: 1, Cols: 2, Size: SizeSmall,
	}, [][]byte{jpegPhoto(t, 20, 20), []byte("broken")})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	doc := documentXML(t, res.Data)
	if !strings.Contains(doc, placeholderText) {
		t.Error("undecodable photo must render as a placeholder cell")
	}
	if strings.Count(doc, "r:embed=") != 1 {
		t.Error("good photo must still embed")
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	b := NewBuilder(nil)
	if _, err := b.Build(context.Background(), BuildOptions{Rows: 2, Cols: 2, Size: SizeSmall}, nil); err == nil {
		t.Error("empty photo set must fail")
	}
	if _, err := b.Build(context.Background(), BuildOptions{Rows: 0, Cols: 2, Size: SizeSmall},
		[][]byte{jpegPhoto(t, 10, 10)}); err == nil {
		t.Error("non-positive grid must fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Build(ctx, BuildOptions{Rows: 1, Cols: 1, Size: SizeSmall},
		[][]byte{jpegPhoto(t, 10, 10)}); err == nil {
		t.Error("cancelled context must fail")
	}
}
