package domain

import "github.com/google/uuid"

// GradeSubmission maps a submitted answer to (correct, pointsEarned) using the
// question's stored correctness flags.
//
// Rules:
//   - short_answer is never auto-scored: always (false, 0), pending manual review.
//   - multiple_select earns full points iff the selected set equals the set of
//     correct options. No partial credit.
//   - multiple_choice / true_false use the first selected option's flag.
//   - no selection, or selection of an unknown option ID, grades as incorrect.
func GradeSubmission(q Question, selected []uuid.UUID, freeText string) (bool, int) {
	if !q.Type.AutoGradable() {
		return false, 0
	}
	if len(selected) == 0 {
		return false, 0
	}

	if q.Type == QuestionMultipleSelect {
		if selectionMatchesCorrectSet(q, selected) {
			return true, q.Points
		}
		return false, 0
	}

	for _, opt := range q.Answers {
		if opt.ID == selected[0] {
			if opt.Correct {
				return true, q.Points
			}
			return false, 0
		}
	}
	return false, 0
}

// selectionMatchesCorrectSet compares the selected IDs against the question's
// correct options as sets, tolerating duplicates in the submission.
func selectionMatchesCorrectSet(q Question, selected []uuid.UUID) bool {
	correct := make(map[uuid.UUID]bool)
	for _, opt := range q.Answers {
		if opt.Correct {
			correct[opt.ID] = true
		}
	}
	if len(correct) == 0 {
		return false
	}

	chosen := make(map[uuid.UUID]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}
	if len(chosen) != len(correct) {
		return false
	}
	for id := range chosen {
		if !correct[id] {
			return false
		}
	}
	return true
}

// Aggregate sums persisted answer points into the attempt totals.
// Percentage is 0 when maxScore is 0.
func Aggregate(answers []AnswerRecord, maxScore int) (int, float64) {
	total := 0
	for _, a := range answers {
		total += a.PointsEarned
	}
	if maxScore <= 0 {
		return total, 0
	}
	return total, float64(total) / float64(maxScore) * 100
}

// IsPassed applies the quiz's passing threshold to a computed percentage.
func IsPassed(percentage float64, passingScore int) bool {
	return percentage >= float64(passingScore)
}
