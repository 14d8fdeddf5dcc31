// Package layout infers a human reading order over text regions detected on a
// manga page and groups those regions into panels, following the right-to-left,
// top-to-bottom convention of Japanese comics.
//
// All components in this package are pure functions over immutable inputs: they
// perform no I/O, hold no shared state, and may be invoked concurrently for
// different pages without coordination.
package layout

// BBox is an axis-aligned bounding box (x1, y1, x2, y2) in page pixel
// coordinates. A well-formed box satisfies X2 > X1 and Y2 > Y1.
type BBox struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() int {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b BBox) Height() int {
	return b.Y2 - b.Y1
}

// CenterX returns the horizontal center of the box.
func (b BBox) CenterX() float64 {
	return float64(b.X1+b.X2) / 2
}

// CenterY returns the vertical center of the box.
func (b BBox) CenterY() float64 {
	return float64(b.Y1+b.Y2) / 2
}

// Valid reports whether the box has positive area.
func (b BBox) Valid() bool {
	return b.X2 > b.X1 && b.Y2 > b.Y1
}

// Union returns the smallest box enclosing both b and other.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X1: min(b.X1, other.X1),
		Y1: min(b.Y1, other.Y1),
		X2: max(b.X2, other.X2),
		Y2: max(b.Y2, other.Y2),
	}
}

// TextRegion is one detected piece of text on a page. Regions are value
// objects: sorting operations return re-derived copies and never mutate their
// input. ReadingOrder is meaningful only after a sort step.
type TextRegion struct {
	BBox         BBox
	ReadingOrder int
}

// Panel is one inferred comic frame: the bounding region of a cluster of text
// regions, with its members already sorted into local reading order.
type Panel struct {
	BBox         BBox
	Regions      []TextRegion
	ReadingOrder int
}

// unionBBox computes the enclosing box of all regions. Callers guarantee a
// non-empty input.
func unionBBox(regions []TextRegion) BBox {
	box := regions[0].BBox
	for _, r := range regions[1:] {
		box = box.Union(r.BBox)
	}
	return box
}
