package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oleg-dixon/appraiser-photo-bot/core/logger"
	"github.com/oleg-dixon/appraiser-photo-bot/internal/docgen"
)

// ErrNoSession is returned when a build is requested without a dialog.
var ErrNoSession = errors.New("flow: no active session")

// ErrNoPhotos is returned when the session holds nothing to lay out.
var ErrNoPhotos = errors.New("flow: no photos collected")

// TooManyPhotosError reports a photo count above the configured limit.
type TooManyPhotosError struct {
	Count int
	Max   int
}

func (e *TooManyPhotosError) Error() string {
	return fmt.Sprintf("flow: %d photos exceeds the %d limit", e.Count, e.Max)
}

// Artifact is a finished document ready for delivery.
type Artifact struct {
	Data     []byte
	Filename string
	Caption  string
	Pages    int
	SizeMB   float64
}

// BuildDocument renders the confirmed session into a document. Photos are
// transferred out of the session before rendering, and the session is
// released afterwards whatever the outcome.
func (f *Flow) BuildDocument(ctx context.Context, userID int64) (*Artifact, error) {
	params, photos, ok := f.store.TakeForBuild(userID)
	if !ok {
		return nil, ErrNoSession
	}
	defer f.store.Release(userID)

	if len(photos) == 0 {
		return nil, ErrNoPhotos
	}
	if len(photos) > f.cfg.MaxPhotos {
		return nil, &TooManyPhotosError{Count: len(photos), Max: f.cfg.MaxPhotos}
	}

	start := time.Now()
	res, err := f.builder.Build(ctx, docgen.BuildOptions{
		Title:             params.Title,
		Rows:              params.Rows,
		Cols:              params.Cols,
		Size:              params.Size,
		UseTempFiles:      f.cfg.UseTempFiles,
		TempFileThreshold: f.cfg.TempFileThreshold,
	}, photos)
	if err != nil {
		logger.Flow.Error("flow.build_failed", "user_id", userID, "err", err)
		return nil, err
	}

	filename := docgen.Filename(params.Title, len(photos), params.Rows, params.Cols)
	art := &Artifact{
		Data:     res.Data,
		Filename: filename,
		Caption:  f.msgs.FormatDocumentCaption(filename, len(photos), res.Pages),
		Pages:    res.Pages,
		SizeMB:   float64(len(res.Data)) / (1 << 20),
	}
	logger.Flow.Info("flow.build_done",
		"user_id", userID,
		"photos", len(photos),
		"pages", res.Pages,
		"size_mb", fmt.Sprintf("%.2f", art.SizeMB),
		"took", time.Since(start).Round(time.Millisecond),
	)
	return art, nil
}
