// services/grading.go - answer grading and WPM derivation
package services

import (
	"math"
	"strings"

	"readsprint/apperr"
	"readsprint/models"
)

// AnswerInput is one submitted answer, keyed by question id.
type AnswerInput struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
}

// DeriveWpm computes words-per-minute from a text length and elapsed reading
// time. Non-positive reading time is invalid input.
func DeriveWpm(wordCount, readingTimeMs int) (int, error) {
	if readingTimeMs <= 0 {
		return 0, apperr.Validation("reading time must be positive")
	}
	minutes := float64(readingTimeMs) / 60000.0
	return int(math.Round(float64(wordCount) / minutes)), nil
}

// GradeAnswers scores submitted answers against the exercise's questions and
// returns accuracy as a 0-100 percentage. Matching is case-insensitive
// trimmed string equality. An exercise without questions grades to 0.
// Answers referencing unknown questions and repeated answers for the same
// question are rejected before any grading; each question is scored at most
// once, so accuracy can never exceed 100.
func GradeAnswers(questions []models.Question, answers []AnswerInput) (float64, error) {
	byID := make(map[uint]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	given := make(map[uint]string, len(answers))
	for _, a := range answers {
		if _, ok := byID[a.QuestionID]; !ok {
			return 0, apperr.Validationf("answer references unknown question %d", a.QuestionID)
		}
		if _, dup := given[a.QuestionID]; dup {
			return 0, apperr.Validationf("duplicate answer for question %d", a.QuestionID)
		}
		given[a.QuestionID] = a.Answer
	}

	if len(questions) == 0 {
		return 0, nil
	}

	correct := 0
	for _, q := range questions {
		answer, ok := given[q.ID]
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer)) {
			correct++
		}
	}

	return 100 * float64(correct) / float64(len(questions)), nil
}
