package recognizer

import (
	"strings"

	"github.com/arbovm/levenshtein"

	"go-manga-reader/pkg/models"
)

// Evaluate compares recognized text against an expected transcript and
// reports a match score together with character and word error rates. The
// character error rate uses rune-level edit distance, so multi-byte Japanese
// text is measured per character, not per byte.
func Evaluate(expected, actual string) models.TranscriptEvaluation {
	expected = strings.TrimSpace(expected)
	actual = strings.TrimSpace(actual)

	if expected == "" && actual == "" {
		return models.TranscriptEvaluation{MatchScore: 1}
	}

	charDist := levenshtein.Distance(expected, actual)
	refChars := len([]rune(expected))
	maxChars := max(refChars, len([]rune(actual)))

	eval := models.TranscriptEvaluation{
		CER: errorRate(charDist, refChars),
		WER: wordErrorRate(strings.Fields(expected), strings.Fields(actual)),
	}
	if maxChars > 0 {
		eval.MatchScore = 1 - float64(charDist)/float64(maxChars)
		if eval.MatchScore < 0 {
			eval.MatchScore = 0
		}
	}
	return eval
}

// wordErrorRate is token-level edit distance over whitespace-separated words,
// normalized by the reference length.
func wordErrorRate(ref, hyp []string) float64 {
	if len(ref) == 0 {
		if len(hyp) == 0 {
			return 0
		}
		return 1
	}

	prev := make([]int, len(hyp)+1)
	curr := make([]int, len(hyp)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ref); i++ {
		curr[0] = i
		for j := 1; j <= len(hyp); j++ {
			cost := 1
			if ref[i-1] == hyp[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return errorRate(prev[len(hyp)], len(ref))
}

func errorRate(distance, refLen int) float64 {
	if refLen == 0 {
		if distance == 0 {
			return 0
		}
		return 1
	}
	return float64(distance) / float64(refLen)
}
