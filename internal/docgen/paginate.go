package docgen

// SplitPages partitions photos into pages of up to capacity items, preserving
// order. A non-positive capacity returns the whole input as a single page so a
// misconfigured grid never crashes the build.
func SplitPages(photos [][]byte, capacity int) [][][]byte {
	if capacity <= 0 {
		return [][][]byte{photos}
	}
	pages := make([][][]byte, 0, (len(photos)+capacity-1)/capacity)
	for i := 0; i < len(photos); i += capacity {
		end := i + capacity
		if end > len(photos) {
			end = len(photos)
		}
		pages = append(pages, photos[i:end])
	}
	return pages
}

// PageStats describes how a photo count maps onto rows×cols pages.
type PageStats struct {
	TotalPhotos int
	Rows        int
	Cols        int
	PerPage     int
	TotalPages  int
	OnLastPage  int
}

// Stats computes pagination numbers for user-facing summaries.
func Stats(count, rows, cols int) PageStats {
	st := PageStats{TotalPhotos: count, Rows: rows, Cols: cols, PerPage: rows * cols}
	if st.PerPage <= 0 {
		st.TotalPages = 1
		st.OnLastPage = count
		return st
	}
	st.TotalPages = (count + st.PerPage - 1) / st.PerPage
	st.OnLastPage = count % st.PerPage
	if st.OnLastPage == 0 && count > 0 {
		st.OnLastPage = st.PerPage
	}
	return st
}
