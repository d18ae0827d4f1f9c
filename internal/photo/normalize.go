// Package photo prepares user-uploaded images for document embedding.
package photo

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/oleg-dixon/appraiser-photo-bot/core/logger"
)

var log = logger.Component("photo")

// minSavingRatio is how much smaller the re-encoded image must be before it
// replaces the original. Re-encoding an already optimized JPEG can grow it.
const minSavingRatio = 0.95

// Options controls re-encoding of incoming photos.
type Options struct {
	// Quality is the JPEG quality for the re-encoded image, 1..100.
	Quality int
	// MaxDim caps the longer image side in pixels; larger images are
	// downscaled with Lanczos resampling. Zero disables scaling.
	MaxDim int
}

// Normalize re-encodes a photo as JPEG: downscales oversized images, flattens
// transparency onto a white background, and strips EXIF by applying the
// orientation during decode. If decoding fails or the result is not
// meaningfully smaller than the input, the original bytes are returned
// unchanged so one odd photo never sinks the whole document.
func Normalize(data []byte, opts Options) []byte {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.Debug("photo.normalize.decode_failed", "err", err, "bytes", len(data))
		return data
	}

	changed := false
	bounds := img.Bounds()
	if w, h := bounds.Dx(), bounds.Dy(); opts.MaxDim > 0 && (w > opts.MaxDim || h > opts.MaxDim) {
		img = imaging.Fit(img, opts.MaxDim, opts.MaxDim, imaging.Lanczos)
		changed = true
	}

	if !opaque(img) {
		img = flattenOnWhite(img)
		changed = true
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		log.Debug("photo.normalize.encode_failed", "err", err)
		return data
	}
	if !changed && buf.Len() >= int(float64(len(data))*minSavingRatio) {
		return data
	}
	return buf.Bytes()
}

// flattenOnWhite composites the image over an opaque white background so
// transparent regions do not render black once encoded as JPEG.
func flattenOnWhite(img image.Image) image.Image {
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func opaque(img image.Image) bool {
	type opaquer interface{ Opaque() bool }
	if o, ok := img.(opaquer); ok {
		return o.Opaque()
	}
	return false
}
