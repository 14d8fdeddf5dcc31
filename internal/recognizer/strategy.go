package recognizer

import "github.com/otiai10/gosseract/v2"

// SegmentationStrategy picks the tesseract page segmentation mode for one
// cropped region.
type SegmentationStrategy interface {
	Mode(width, height int) gosseract.PageSegMode
	GetStrategyName() string
}

// VerticalAwareStrategy switches to vertical-text segmentation for tall,
// narrow crops. Japanese balloon text is usually set vertically, and those
// balloons come out of detection much taller than wide.
type VerticalAwareStrategy struct{}

// NewVerticalAwareStrategy creates the default manga segmentation strategy
func NewVerticalAwareStrategy() SegmentationStrategy {
	return &VerticalAwareStrategy{}
}

// Mode returns vertical block segmentation when the crop is at least twice as
// tall as it is wide, horizontal block segmentation otherwise
func (s *VerticalAwareStrategy) Mode(width, height int) gosseract.PageSegMode {
	if width > 0 && height >= 2*width {
		return gosseract.PSM_SINGLE_BLOCK_VERT_TEXT
	}
	return gosseract.PSM_SINGLE_BLOCK
}

// GetStrategyName returns the strategy name
func (s *VerticalAwareStrategy) GetStrategyName() string {
	return "vertical_aware"
}

// FixedStrategy always uses the same segmentation mode
type FixedStrategy struct {
	mode gosseract.PageSegMode
	name string
}

// NewFixedStrategy creates a strategy pinned to one segmentation mode
func NewFixedStrategy(mode gosseract.PageSegMode, name string) SegmentationStrategy {
	return &FixedStrategy{mode: mode, name: name}
}

// Mode returns the pinned segmentation mode
func (s *FixedStrategy) Mode(width, height int) gosseract.PageSegMode {
	return s.mode
}

// GetStrategyName returns the strategy name
func (s *FixedStrategy) GetStrategyName() string {
	return s.name
}
