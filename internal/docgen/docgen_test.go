package docgen

import (
	"math"
	"testing"
)

func TestParseSize(t *testing.T) {
	for _, key := range []string{"small", "medium", "large", "auto"} {
		if _, ok := ParseSize(key); !ok {
			t.Errorf("ParseSize(%q) not recognized", key)
		}
	}
	if _, ok := ParseSize("huge"); ok {
		t.Error("ParseSize accepted unknown key")
	}
}

func TestSizeWidthFixed(t *testing.T) {
	cases := map[Size]float64{
		SizeSmall:  3.0,
		SizeMedium: 5.0,
		SizeLarge:  8.0,
	}
	for size, want := range cases {
		if got := size.WidthCM(2, 2); got != want {
			t.Errorf("%s.WidthCM = %v, want %v", size, got, want)
		}
	}
}

func TestSizeWidthAuto(t *testing.T) {
	// 2x2 grid: usable width 19, height 28.2; limiting cell is 19/2 = 9.5;
	// 9.5*0.95 = 9.025, within the clamp range.
	got := SizeAuto.WidthCM(2, 2)
	if math.Abs(got-9.025) > 1e-9 {
		t.Errorf("auto width for 2x2 = %v, want 9.025", got)
	}

	// Huge grids clamp to the minimum legible size.
	if got := SizeAuto.WidthCM(20, 20); got != 2.0 {
		t.Errorf("auto width for 20x20 = %v, want clamp to 2", got)
	}

	// A 1x1 grid would allow 18.05 cm; the clamp caps it at 10.
	if got := SizeAuto.WidthCM(1, 1); got != 10.0 {
		t.Errorf("auto width for 1x1 = %v, want clamp to 10", got)
	}
}

func TestSplitPages(t *testing.T) {
	photos := make([][]byte, 5)
	for i := range photos {
		photos[i] = []byte{byte(i)}
	}

	pages := SplitPages(photos, 4)
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	if len(pages[0]) != 4 || len(pages[1]) != 1 {
		t.Errorf("page sizes = %d,%d, want 4,1", len(pages[0]), len(pages[1]))
	}
	if pages[1][0][0] != 4 {
		t.Error("page split broke photo order")
	}

	if got := SplitPages(photos, 0); len(got) != 1 || len(got[0]) != 5 {
		t.Error("non-positive capacity must yield one page with everything")
	}
}

func TestStats(t *testing.T) {
	st := Stats(5, 2, 2)
	if st.PerPage != 4 || st.TotalPages != 2 || st.OnLastPage != 1 {
		t.Errorf("Stats(5,2,2) = %+v", st)
	}

	st = Stats(4, 2, 2)
	if st.TotalPages != 1 || st.OnLastPage != 4 {
		t.Errorf("Stats(4,2,2) = %+v", st)
	}

	st = Stats(0, 2, 2)
	if st.TotalPages != 0 || st.OnLastPage != 0 {
		t.Errorf("Stats(0,2,2) = %+v", st)
	}
}

func TestFilename(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Lamp Collection", "lamp_collection_2x3_7_photos.docx"},
		{"", "photo_table_2x3_7_photos.docx"},
		{"  --!!  ", "photo_table_2x3_7_photos.docx"},
		{"Flat #4, 2nd floor", "flat_4_2nd_floor_2x3_7_photos.docx"},
	}
	for _, tc := range cases {
		if got := Filename(tc.title, 7, 2, 3); got != tc.want {
			t.Errorf("Filename(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
