package cli

import (
	"github.com/google/uuid"

	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

// Fixed IDs so demo clients can start attempts without discovery calls.
var (
	demoQuizID = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e01")

	demoQ1   = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e11")
	demoQ1o1 = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e12")
	demoQ1o2 = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e13")
	demoQ1o3 = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e14")

	demoQ2   = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e21")
	demoQ2o1 = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e22")
	demoQ2o2 = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e23")
	demoQ2o3 = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e24")

	demoQ3   = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e31")
	demoQ3o1 = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e32")
	demoQ3o2 = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e33")

	demoQ4 = uuid.MustParse("0c6a7b1e-58e4-4b37-9f2a-3d2c1b4a5e41")
)

// demoQuiz is the published fixture served in no-database demo mode and
// inserted by the seed command.
func demoQuiz() domain.Quiz {
	return domain.Quiz{
		ID:           demoQuizID,
		Title:        "Getting started quiz",
		PassingScore: 60,
		MaxAttempts:  3,
		Published:    true,
		Questions: []domain.Question{
			{
				ID:     demoQ1,
				QuizID: demoQuizID,
				Type:   domain.QuestionMultipleChoice,
				Prompt: "What is 2 + 2?",
				Points: 5,
				Answers: []domain.AnswerOption{
					{ID: demoQ1o1, Text: "3", Position: 1},
					{ID: demoQ1o2, Text: "4", Correct: true, Position: 2},
					{ID: demoQ1o3, Text: "5", Position: 3},
				},
				Explanation: "Basic arithmetic.",
				Position:    1,
			},
			{
				ID:     demoQ2,
				QuizID: demoQuizID,
				Type:   domain.QuestionMultipleSelect,
				Prompt: "Select all even numbers.",
				Points: 10,
				Answers: []domain.AnswerOption{
					{ID: demoQ2o1, Text: "2", Correct: true, Position: 1},
					{ID: demoQ2o2, Text: "3", Position: 2},
					{ID: demoQ2o3, Text: "4", Correct: true, Position: 3},
				},
				Position: 2,
			},
			{
				ID:     demoQ3,
				QuizID: demoQuizID,
				Type:   domain.QuestionTrueFalse,
				Prompt: "The sky is blue.",
				Points: 5,
				Answers: []domain.AnswerOption{
					{ID: demoQ3o1, Text: "True", Correct: true, Position: 1},
					{ID: demoQ3o2, Text: "False", Position: 2},
				},
				Position: 3,
			},
			{
				ID:       demoQ4,
				QuizID:   demoQuizID,
				Type:     domain.QuestionShortAnswer,
				Prompt:   "In one sentence, what did you learn?",
				Points:   5,
				Position: 4,
			},
		},
	}
}
