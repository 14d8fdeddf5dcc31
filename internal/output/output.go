// Package output writes reading results to disk as JSON and plain text.
package output

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "go-manga-reader/internal/errors"
	"go-manga-reader/pkg/models"
)

// Format selects which result files Write produces
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "txt"
	FormatBoth Format = "both"
)

// ParseFormat validates a format name from a flag or request field
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	case FormatBoth:
		return FormatBoth, nil
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("unknown output format %q", name), nil)
}

// Write renders results in the requested format under outputDir, using stem
// as the file name base. It returns the paths of the files written.
func Write(results []models.PageResult, outputDir, stem string, format Format) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, apperrors.NewProcessingError("failed to create output directory", err)
	}

	var paths []string
	if format == FormatJSON || format == FormatBoth {
		path := filepath.Join(outputDir, stem+"_output.json")
		if err := WriteJSON(results, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	if format == FormatText || format == FormatBoth {
		path := filepath.Join(outputDir, stem+"_output.txt")
		if err := WriteText(results, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteJSON writes results as an indented JSON array. Regions are emitted in
// reading order and processing times are rounded to two decimals so the
// output is stable across runs.
func WriteJSON(results []models.PageResult, path string) error {
	out := make([]models.PageResult, len(results))
	for i, page := range results {
		page.ProcessingTime = math.Round(page.ProcessingTime*100) / 100
		regions := make([]models.RegionResult, len(page.TextRegions))
		copy(regions, page.TextRegions)
		sort.SliceStable(regions, func(a, b int) bool {
			return regions[a].RegionID < regions[b].RegionID
		})
		page.TextRegions = regions
		out[i] = page
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewProcessingError("failed to create JSON output file", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return apperrors.NewProcessingError("failed to encode JSON output", err)
	}
	return nil
}

// WriteText writes one bracketed filename header per page followed by its
// recognized texts in reading order, with a blank line between pages.
func WriteText(results []models.PageResult, path string) error {
	var sb strings.Builder
	for i, page := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "[%s]\n", page.Filename)
		for _, text := range page.Texts {
			if text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return apperrors.NewProcessingError("failed to write text output file", err)
	}
	return nil
}
