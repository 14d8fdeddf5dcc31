package validation

import "go-manga-reader/internal/layout"

// Bounding boxes are validated here, at the detection/crop boundary. The
// layout algorithms assume well-formed boxes and do not re-validate.

// ValidBBox reports whether a detected box has positive area.
func ValidBBox(box layout.BBox) bool {
	return box.Valid()
}

// ClampBBox restricts a box to the page dimensions and reports whether a
// usable area remains. Detectors occasionally return boxes that poke past the
// page edge; those are trimmed rather than dropped.
func ClampBBox(box layout.BBox, width, height int) (layout.BBox, bool) {
	clamped := layout.BBox{
		X1: clamp(box.X1, 0, width),
		Y1: clamp(box.Y1, 0, height),
		X2: clamp(box.X2, 0, width),
		Y2: clamp(box.Y2, 0, height),
	}
	return clamped, clamped.Valid()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
