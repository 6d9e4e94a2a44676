package services

import (
	"sort"

	"sirb_backend/backend/models"
)

// IsCorrectAnswer scores a submitted answer against the correct option set.
// MCQ_MULTI requires set equality: a superset or subset of the correct
// options fails. Single-answer types compare the one selected option against
// the first correct option. Pure; an empty selection is always wrong.
func IsCorrectAnswer(selectedIDs, correctIDs []uint, questionType string) bool {
	if len(selectedIDs) == 0 || len(correctIDs) == 0 {
		return false
	}

	switch questionType {
	case models.QuestionTypeMCQMulti:
		if len(selectedIDs) != len(correctIDs) {
			return false
		}
		selected := append([]uint(nil), selectedIDs...)
		correct := append([]uint(nil), correctIDs...)
		sort.Slice(selected, func(i, j int) bool { return selected[i] < selected[j] })
		sort.Slice(correct, func(i, j int) bool { return correct[i] < correct[j] })
		for i := range selected {
			if selected[i] != correct[i] {
				return false
			}
		}
		return true
	default:
		// MCQ_SINGLE and TRUE_FALSE: exactly one pick matching the single
		// correct option.
		return len(selectedIDs) == 1 && selectedIDs[0] == correctIDs[0]
	}
}
