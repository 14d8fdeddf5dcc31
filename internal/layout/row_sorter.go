package layout

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// rowThresholdFloor prevents degenerate zero-height rows when all regions
// share the same top edge.
const rowThresholdFloor = 15.0

// RowSorter assigns a flat reading order to an arbitrary set of text regions
// by grouping them into visual rows and ordering rows top-to-bottom, regions
// within a row right-to-left.
type RowSorter struct{}

// NewRowSorter creates a row-based reading order sorter.
func NewRowSorter() *RowSorter {
	return &RowSorter{}
}

// Sort returns a copy of regions with ReadingOrder assigned 0..n-1, ordered
// for reading. The input is never mutated.
//
// Rows are grown from a seed: regions are visited in ascending top-edge order,
// the first unassigned region seeds a row, and every remaining unassigned
// region whose top edge lies within the row threshold of the seed joins that
// row. Two members of the same row are therefore not necessarily within the
// threshold of each other, only of the seed.
func (s *RowSorter) Sort(regions []TextRegion) []TextRegion {
	if len(regions) == 0 {
		return nil
	}
	if len(regions) == 1 {
		r := regions[0]
		r.ReadingOrder = 0
		return []TextRegion{r}
	}

	n := len(regions)
	tops := make([]float64, n)
	heights := make([]float64, n)
	for i, r := range regions {
		tops[i] = float64(r.BBox.Y1)
		heights[i] = float64(r.BBox.Height())
	}

	// The vertical spread of region top edges stands in for the page height,
	// which is unknown here.
	minTop, maxTop := tops[0], tops[0]
	for _, t := range tops[1:] {
		minTop = math.Min(minTop, t)
		maxTop = math.Max(maxTop, t)
	}
	threshold := rowThreshold(stat.Mean(heights, nil), maxTop-minTop)

	byTop := make([]int, n)
	for i := range byTop {
		byTop[i] = i
	}
	sort.SliceStable(byTop, func(a, b int) bool {
		return tops[byTop[a]] < tops[byTop[b]]
	})

	assigned := make([]bool, n)
	var rows [][]int
	for i := 0; i < n; i++ {
		seed := byTop[i]
		if assigned[seed] {
			continue
		}
		row := []int{seed}
		assigned[seed] = true
		for j := i + 1; j < n; j++ {
			cand := byTop[j]
			if assigned[cand] {
				continue
			}
			if math.Abs(tops[cand]-tops[seed]) <= threshold {
				row = append(row, cand)
				assigned[cand] = true
			}
		}
		rows = append(rows, row)
	}

	// Rightmost region first within a row; ties go to the higher region.
	for _, row := range rows {
		sort.SliceStable(row, func(a, b int) bool {
			ra, rb := regions[row[a]].BBox, regions[row[b]].BBox
			if ra.X2 != rb.X2 {
				return ra.X2 > rb.X2
			}
			return ra.Y1 < rb.Y1
		})
	}

	// Topmost row first.
	sort.SliceStable(rows, func(a, b int) bool {
		return rowMinTop(rows[a], tops) < rowMinTop(rows[b], tops)
	})

	result := make([]TextRegion, 0, n)
	order := 0
	for _, row := range rows {
		for _, idx := range row {
			r := regions[idx]
			r.ReadingOrder = order
			result = append(result, r)
			order++
		}
	}
	return result
}

// rowThreshold is the vertical distance in pixels below which two top edges
// are considered part of the same row: 60% of the mean region height, capped
// at 8% of the vertical spread so tall pages do not collapse into one row.
func rowThreshold(avgHeight, spread float64) float64 {
	return math.Max(rowThresholdFloor, math.Min(avgHeight*0.6, spread*0.08))
}

func rowMinTop(row []int, tops []float64) float64 {
	m := tops[row[0]]
	for _, idx := range row[1:] {
		m = math.Min(m, tops[idx])
	}
	return m
}
