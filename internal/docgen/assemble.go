package docgen

import (
	"context"
	"fmt"
	"os"

	"github.com/oleg-dixon/appraiser-photo-bot/core/logger"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/docgen/docx"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/tempfiles"
)

// placeholderText fills a cell whose photo could not be embedded.
const placeholderText = "photo unavailable"

// BuildOptions describe one document build request.
type BuildOptions struct {
	Title string
	Rows  int
	Cols  int
	Size  Size

	// UseTempFiles enables staging large builds through the scratch
	// directory instead of holding the finished package in memory twice.
	UseTempFiles bool
	// TempFileThreshold is the photo count above which staging kicks in.
	TempFileThreshold int
}

// Result is a finished document.
type Result struct {
	Data  []byte
	Pages int
	// Staged reports whether the build went through a scratch file.
	Staged bool
}

// Builder renders photo sets into paginated table documents.
type Builder struct {
	tmp *tempfiles.Manager
}

// NewBuilder returns a builder that stages oversized builds through tmp.
// A nil manager disables staging.
func NewBuilder(tmp *tempfiles.Manager) *Builder {
	return &Builder{tmp: tmp}
}

// Build renders photos into a document per opts. Small sets are built in
// memory; sets above the staging threshold go through a scratch file, and an
// in-memory failure falls back to the staged path before giving up.
func (b *Builder) Build(ctx context.Context, opts BuildOptions, photos [][]byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, fmt.Errorf("docgen: no photos to lay out")
	}
	if opts.Rows <= 0 || opts.Cols <= 0 {
		return nil, fmt.Errorf("docgen: invalid grid %dx%d", opts.Rows, opts.Cols)
	}

	// A set that fits one page is always built directly; staging exists to
	// bound memory on multi-page documents.
	staged := len(photos) > opts.Rows*opts.Cols &&
		b.tmp != nil && opts.UseTempFiles && len(photos) > opts.TempFileThreshold
	if staged {
		res, err := b.buildStaged(opts, photos)
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	res, err := b.buildInMemory(opts, photos)
	if err == nil {
		return res, nil
	}
	if b.tmp != nil && opts.UseTempFiles {
		logger.Doc.Warn("docgen.inmemory_failed_retry_staged", "err", err, "photos", len(photos))
		return b.buildStaged(opts, photos)
	}
	return nil, err
}

func (b *Builder) buildInMemory(opts BuildOptions, photos [][]byte) (*Result, error) {
	doc, pages, err := b.render(opts, photos)
	if err != nil {
		return nil, err
	}
	data, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("docgen: render in memory: %w", err)
	}
	logger.Doc.Info("docgen.built", "photos", len(photos), "pages", pages, "bytes", len(data), "staged", false)
	return &Result{Data: data, Pages: pages}, nil
}

func (b *Builder) buildStaged(opts BuildOptions, photos [][]byte) (*Result, error) {
	doc, pages, err := b.render(opts, photos)
	if err != nil {
		return nil, err
	}

	path := b.tmp.CreateFile(".docx")
	defer b.tmp.Remove(path)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("docgen: create staging file: %w", err)
	}
	if err := doc.Write(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("docgen: stage document: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("docgen: flush staging file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docgen: read staged document: %w", err)
	}
	logger.Doc.Info("docgen.built", "photos", len(photos), "pages", pages, "bytes", len(data), "staged", true)
	return &Result{Data: data, Pages: pages, Staged: true}, nil
}

// render lays the photos out page by page. A photo that cannot be embedded is
// replaced with a placeholder cell rather than failing the build.
func (b *Builder) render(opts BuildOptions, photos [][]byte) (*docx.Document, int, error) {
	widthCM := opts.Size.WidthCM(opts.Rows, opts.Cols)
	cellCM := widthCM + CellPaddingCM

	doc := docx.New()
	doc.SetMargins(MarginLeftCM, MarginRightCM, MarginTopCM, MarginBottomCM)

	pages := SplitPages(photos, opts.Rows*opts.Cols)
	for pageIdx, page := range pages {
		if pageIdx > 0 {
			doc.AddPageBreak()
		}
		if opts.Title != "" {
			heading := opts.Title
			if len(pages) > 1 {
				heading = fmt.Sprintf("%s (page %d of %d)", opts.Title, pageIdx+1, len(pages))
			}
			doc.AddHeading(heading)
		}

		tbl := doc.AddTable(opts.Rows, opts.Cols, cellCM, cellCM)
		for i, photo := range page {
			row, col := i/opts.Cols, i%opts.Cols
			if err := tbl.SetImage(row, col, photo, widthCM); err != nil {
				logger.Doc.Warn("docgen.photo_skipped",
					"page", pageIdx+1, "row", row, "col", col, "err", err)
				tbl.SetText(row, col, placeholderText)
			}
		}
	}
	return doc, len(pages), nil
}
