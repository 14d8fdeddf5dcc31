package models

// RegionResult is one recognized text region of a page, identified by its
// final reading order.
type RegionResult struct {
	RegionID   int     `json:"region_id"`
	BBox       [4]int  `json:"bbox"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// PageResult is the complete OCR result for one page, with regions already in
// reading order. This is the shape persisted by the output writers and
// returned by the HTTP API.
type PageResult struct {
	Filename       string         `json:"filename"`
	PageNumber     int            `json:"page_number"`
	TextRegions    []RegionResult `json:"text_regions"`
	Texts          []string       `json:"texts"`
	ProcessingTime float64        `json:"processing_time"`
}

// TranscriptEvaluation compares recognized page text against an expected
// transcript.
type TranscriptEvaluation struct {
	MatchScore float64 `json:"match_score"`
	WER        float64 `json:"word_error_rate"`
	CER        float64 `json:"character_error_rate"`
}
