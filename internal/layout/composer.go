package layout

// panelOrderMultiplier scales panel order into the "thousands" band of the
// composite key, leaving the remainder for the region's position inside its
// panel. A panel holding 1000 or more regions would collide with the next
// panel's band; that limit is documented, not checked, and callers with
// pathologically dense pages should pick a larger multiplier.
const panelOrderMultiplier = 1000

// OrderComposer decides whether a panel grouping is trustworthy for one page
// and, if so, folds panel order and intra-panel order into a single composite
// reading order. Otherwise the flat row-based order is kept as-is.
type OrderComposer struct{}

// NewOrderComposer creates a reading order composer.
func NewOrderComposer() *OrderComposer {
	return &OrderComposer{}
}

// Compose returns the final per-region order for one page. flat must already
// carry the flat row-based order, panels the panel grouping over the same
// region set, and regionCount the size of that set.
//
// When panels are used, each region's ReadingOrder becomes
// panel.ReadingOrder*1000 + its index inside the panel, yielding a strict
// total order that respects panel order first and intra-panel order second.
func (c *OrderComposer) Compose(flat []TextRegion, panels []Panel, regionCount int) []TextRegion {
	if !c.usePanels(panels, regionCount) {
		return flat
	}

	result := make([]TextRegion, 0, regionCount)
	for _, p := range panels {
		for i, r := range p.Regions {
			r.ReadingOrder = p.ReadingOrder*panelOrderMultiplier + i
			result = append(result, r)
		}
	}
	return result
}

// usePanels rejects panel groupings that carry no real structure: an empty or
// single-panel result is uninformative, and a panel count above 80% of the
// region count means clustering shattered the page into singletons.
func (c *OrderComposer) usePanels(panels []Panel, regionCount int) bool {
	if len(panels) <= 1 {
		return false
	}
	if regionCount > 2 && float64(len(panels)) > 0.8*float64(regionCount) {
		return false
	}
	return true
}
