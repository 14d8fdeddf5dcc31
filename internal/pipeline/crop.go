package pipeline

import (
	"image"
	"image/draw"

	"go-manga-reader/internal/layout"
	"go-manga-reader/pkg/validation"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// cropRegion cuts a region's bounding box out of the page image. The box is
// clamped to the page first; a box that loses all area to clamping yields
// ok=false and the region is skipped by the caller.
func cropRegion(img image.Image, box layout.BBox) (image.Image, bool) {
	bounds := img.Bounds()
	clamped, ok := validation.ClampBBox(box, bounds.Dx(), bounds.Dy())
	if !ok {
		return nil, false
	}

	rect := image.Rect(
		bounds.Min.X+clamped.X1,
		bounds.Min.Y+clamped.Y1,
		bounds.Min.X+clamped.X2,
		bounds.Min.Y+clamped.Y2,
	)

	if si, ok := img.(subImager); ok {
		return si.SubImage(rect), true
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst, true
}
