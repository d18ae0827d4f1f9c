// Package messages holds all user-facing copy. The texts live in an embedded
// YAML catalog so wording changes never touch handler code.
package messages

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultCatalog []byte

// Catalog is the full set of texts the bot sends.
type Catalog struct {
	Welcome       string `yaml:"welcome"`
	TitleSkipped  string `yaml:"title_skipped"`
	TitleAccepted string `yaml:"title_accepted"`
	RowsPrompt    string `yaml:"rows_prompt"`
	ColsPrompt    string `yaml:"cols_prompt"`
	InvalidNumber string `yaml:"invalid_number"`
	SoftCapWarn   string `yaml:"soft_cap_warning"`
	GridTooLarge  string `yaml:"grid_too_large"`
	SizePrompt    string `yaml:"size_prompt"`

	PhotosPrompt       string `yaml:"photos_prompt"`
	PhotoAccepted      string `yaml:"photo_accepted"`
	TooManyPhotos      string `yaml:"too_many_photos"`
	AttachmentRejected string `yaml:"attachment_rejected"`
	NoPhotosYet        string `yaml:"no_photos_yet"`

	ConfirmSummary     string `yaml:"confirm_summary"`
	ConfirmBack        string `yaml:"confirm_back"`
	NoTitlePlaceholder string `yaml:"no_title_placeholder"`

	Creating        string `yaml:"creating"`
	DocumentCaption string `yaml:"document_caption"`
	DocumentTooBig  string `yaml:"document_too_big"`
	BuildFailed     string `yaml:"build_failed"`
	BuildTimeout    string `yaml:"build_timeout"`
	UploadTooBig    string `yaml:"upload_too_big"`
	Done            string `yaml:"done"`

	Cancelled   string `yaml:"cancelled"`
	Cleared     string `yaml:"cleared"`
	NoSession   string `yaml:"no_session"`
	RestartHint string `yaml:"restart_hint"`

	Status        string `yaml:"status"`
	StatusSession string `yaml:"status_session"`
	ButtonExpired string `yaml:"button_expired"`
	CleanupDone   string `yaml:"cleanup_done"`
	NotAdmin      string `yaml:"not_admin"`
	Help          string `yaml:"help"`
	Unknown       string `yaml:"unknown"`
	InternalError string `yaml:"internal_error"`
}

// Default returns the embedded catalog. The embedded YAML is part of the
// binary, so a parse failure here is a programming error.
func Default() *Catalog {
	c, err := Load(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("messages: embedded catalog invalid: %v", err))
	}
	return c
}

// Load parses a YAML catalog, e.g. a translated copy supplied at deploy time.
func Load(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("messages: parse catalog: %w", err)
	}
	return &c, nil
}

// FormatTitleAccepted acknowledges the title and asks for rows.
func (c *Catalog) FormatTitleAccepted(title string) string {
	return fmt.Sprintf(c.TitleAccepted, title)
}

// FormatColsPrompt acknowledges rows and asks for columns.
func (c *Catalog) FormatColsPrompt(rows int) string {
	return fmt.Sprintf(c.ColsPrompt, rows)
}

// FormatSoftCapWarn warns about an unusually dense grid dimension.
func (c *Catalog) FormatSoftCapWarn(n int) string {
	return fmt.Sprintf(c.SoftCapWarn, n)
}

// FormatGridTooLarge rejects a grid whose single page exceeds the photo cap.
func (c *Catalog) FormatGridTooLarge(rows, cols, perPage, maxPhotos int) string {
	return fmt.Sprintf(c.GridTooLarge, rows, cols, perPage, maxPhotos)
}

// FormatSizePrompt announces the grid and asks for the photo size.
func (c *Catalog) FormatSizePrompt(rows, cols int) string {
	return fmt.Sprintf(c.SizePrompt, rows, cols, rows*cols)
}

// FormatPhotosPrompt invites the user to send photos.
func (c *Catalog) FormatPhotosPrompt(maxPhotos int) string {
	return fmt.Sprintf(c.PhotosPrompt, maxPhotos)
}

// FormatPhotoAccepted acknowledges one received photo.
func (c *Catalog) FormatPhotoAccepted(count int) string {
	return fmt.Sprintf(c.PhotoAccepted, count)
}

// FormatTooManyPhotos explains that an over-limit photo was dropped.
func (c *Catalog) FormatTooManyPhotos(count, maxPhotos int) string {
	return fmt.Sprintf(c.TooManyPhotos, count, maxPhotos)
}

// FormatConfirmSummary renders the pre-build summary.
func (c *Catalog) FormatConfirmSummary(title string, rows, cols, count, pages int, sizeLabel string) string {
	if title == "" {
		title = c.NoTitlePlaceholder
	}
	return fmt.Sprintf(c.ConfirmSummary, title, rows, cols, rows*cols, sizeLabel, count, pages)
}

// FormatConfirmBack asks whether to discard collected photos before going back.
func (c *Catalog) FormatConfirmBack(count int) string {
	return fmt.Sprintf(c.ConfirmBack, count)
}

// FormatDocumentCaption captions the finished document.
func (c *Catalog) FormatDocumentCaption(filename string, count, pages int) string {
	return fmt.Sprintf(c.DocumentCaption, filename, count, pages)
}

// FormatDocumentTooBig explains an over-limit document size.
func (c *Catalog) FormatDocumentTooBig(sizeMB float64, limitMB int) string {
	return fmt.Sprintf(c.DocumentTooBig, sizeMB, limitMB)
}

// FormatStatus renders the admin status summary.
func (c *Catalog) FormatStatus(sessions, photos, tempFiles int) string {
	return fmt.Sprintf(c.Status, sessions, photos, tempFiles)
}

// FormatStatusSession renders the caller's own build progress line.
func (c *Catalog) FormatStatusSession(stage string, photos int) string {
	return fmt.Sprintf(c.StatusSession, stage, photos)
}

// FormatInternalError renders the fallback notice for an unhandled error.
// The summary should already be sanitized and truncated by the caller.
func (c *Catalog) FormatInternalError(summary string) string {
	return fmt.Sprintf(c.InternalError, summary)
}

// FormatCleanupDone reports manual cleanup results.
func (c *Catalog) FormatCleanupDone(sessions, tempFiles int) string {
	return fmt.Sprintf(c.CleanupDone, sessions, tempFiles)
}
