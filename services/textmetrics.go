// services/textmetrics.go - derived text metrics
package services

import "strings"

// CountWords returns the number of whitespace-separated words in text.
// Exercise.WordCount is always set through this; scoring multipliers and WPM
// derivation depend on it being in sync with the text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// RecommendedQuestionCount suggests how many comprehension questions a text
// of the given length should carry. Bands mirror the scoring length bands.
func RecommendedQuestionCount(wordCount int) int {
	switch {
	case wordCount <= 0:
		return 0
	case wordCount <= 300:
		return 3
	case wordCount <= 500:
		return 5
	case wordCount <= 800:
		return 7
	default:
		return 10
	}
}
