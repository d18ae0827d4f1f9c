// Package session keeps per-user conversation state in memory: the dialog
// stage, collected build parameters, and accumulated photos.
package session

import (
	"time"

	"github.com/oleg-dixon/appraiser-photo-bot/internal/docgen"
)

// Stage identifies where in the dialog a user currently is.
type Stage int

const (
	StageTitle Stage = iota
	StageRows
	StageCols
	StageSize
	StagePhotos
	StageConfirm
	StageConfirmBack
)

func (s Stage) String() string {
	switch s {
	case StageTitle:
		return "title"
	case StageRows:
		return "rows"
	case StageCols:
		return "cols"
	case StageSize:
		return "size"
	case StagePhotos:
		return "photos"
	case StageConfirm:
		return "confirm"
	case StageConfirmBack:
		return "confirm_back"
	default:
		return "unknown"
	}
}

// Session is one user's dialog state. It is owned by the Store; callers
// mutate it only inside Store.Update.
type Session struct {
	Stage Stage

	Title string
	Rows  int
	Cols  int
	Size  docgen.Size

	Photos [][]byte

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Capacity is how many photos fit on one page of the configured grid.
func (s *Session) Capacity() int {
	return s.Rows * s.Cols
}

// BuildParams is the frozen parameter set handed to the document builder.
type BuildParams struct {
	Title string
	Rows  int
	Cols  int
	Size  docgen.Size
}
