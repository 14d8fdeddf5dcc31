package layout

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// epsHeightFactor scales the mean region height into the clustering radius:
// two regions whose centers are closer than that radius are considered part
// of the same panel.
const epsHeightFactor = 1.8

// PanelClusterer groups text regions into panels by density clustering of
// region centers, and orders the panels themselves with the same row policy
// applied to panel centers.
type PanelClusterer struct {
	sorter *RowSorter
}

// NewPanelClusterer creates a panel clusterer that uses sorter to order the
// regions inside each panel.
func NewPanelClusterer(sorter *RowSorter) *PanelClusterer {
	return &PanelClusterer{sorter: sorter}
}

// Cluster partitions regions into panels and returns them with ReadingOrder
// assigned 0..m-1. Every input region appears in exactly one panel, and each
// panel's bounding box encloses all of its members. The input is never
// mutated.
func (c *PanelClusterer) Cluster(regions []TextRegion) []Panel {
	if len(regions) == 0 {
		return nil
	}

	// Too few regions to say anything about page structure.
	if len(regions) <= 2 {
		return []Panel{{
			BBox:         unionBBox(regions),
			Regions:      c.sorter.Sort(regions),
			ReadingOrder: 0,
		}}
	}

	n := len(regions)
	heights := make([]float64, n)
	for i, r := range regions {
		heights[i] = float64(r.BBox.Height())
	}
	avgHeight := stat.Mean(heights, nil)
	eps := avgHeight * epsHeightFactor

	clusters := clusterByRadius(regions, eps)

	panels := make([]Panel, 0, len(clusters))
	for _, members := range clusters {
		group := make([]TextRegion, len(members))
		for i, idx := range members {
			group[i] = regions[idx]
		}
		panels = append(panels, Panel{
			BBox:    unionBBox(group),
			Regions: c.sorter.Sort(group),
		})
	}

	return orderPanels(panels, avgHeight)
}

// clusterByRadius performs single-linkage clustering over region centers:
// a cluster is any maximal set connected through center pairs within eps.
// Union-find keeps the result deterministic and independent of any clustering
// library's tie-breaking order. Minimum cluster size is one, so a lone region
// forms its own singleton panel.
func clusterByRadius(regions []TextRegion, eps float64) [][]int {
	n := len(regions)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := regions[i].BBox.CenterX() - regions[j].BBox.CenterX()
			dy := regions[i].BBox.CenterY() - regions[j].BBox.CenterY()
			if math.Hypot(dx, dy) <= eps {
				parent[find(j)] = find(i)
			}
		}
	}

	// Group members by root, keeping first-seen cluster order.
	index := make(map[int]int, n)
	var clusters [][]int
	for i := 0; i < n; i++ {
		root := find(i)
		at, ok := index[root]
		if !ok {
			at = len(clusters)
			index[root] = at
			clusters = append(clusters, nil)
		}
		clusters[at] = append(clusters[at], i)
	}
	return clusters
}

// orderPanels assigns panel reading order: panels are walked in ascending
// center-y and grouped into rows against the current row's first panel, then
// each row is read right to left.
//
// Unlike RowSorter, a panel outside the threshold closes the current row for
// good instead of being skipped over. The two policies differ on boundary
// cases and are intentionally kept separate.
func orderPanels(panels []Panel, avgRegionHeight float64) []Panel {
	sort.SliceStable(panels, func(a, b int) bool {
		return panels[a].BBox.CenterY() < panels[b].BBox.CenterY()
	})

	minCy := panels[0].BBox.CenterY()
	maxCy := panels[len(panels)-1].BBox.CenterY()
	threshold := (maxCy - minCy) * 0.15
	if threshold <= 0 {
		threshold = avgRegionHeight
	}

	var rows [][]Panel
	current := []Panel{panels[0]}
	for _, p := range panels[1:] {
		if math.Abs(p.BBox.CenterY()-current[0].BBox.CenterY()) <= threshold {
			current = append(current, p)
		} else {
			rows = append(rows, current)
			current = []Panel{p}
		}
	}
	rows = append(rows, current)

	result := make([]Panel, 0, len(panels))
	order := 0
	for _, row := range rows {
		sort.SliceStable(row, func(a, b int) bool {
			return row[a].BBox.CenterX() > row[b].BBox.CenterX()
		})
		for _, p := range row {
			p.ReadingOrder = order
			result = append(result, p)
			order++
		}
	}
	return result
}
