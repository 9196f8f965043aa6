// backend/internal/attempt/shuffle.go
package attempt

import (
	"math/rand"

	"quiz-portal/internal/models"
)

const incorrectPerQuestion = 3

// shuffled returns a Fisher-Yates shuffled copy of items.
func shuffled[T any](r *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// buildAnswers samples up to count questions and lays out each one's choices:
// three incorrect choices plus the correct one, in random order.
func buildAnswers(r *rand.Rand, questions []models.Question, count int) []models.Answer {
	picked := shuffled(r, questions)
	if count <= 0 || count > len(picked) {
		count = len(picked)
	}
	picked = picked[:count]

	answers := make([]models.Answer, len(picked))
	for i, q := range picked {
		incorrect := shuffled(r, q.IncorrectChoices.Data())
		if len(incorrect) > incorrectPerQuestion {
			incorrect = incorrect[:incorrectPerQuestion]
		}
		choices := append(incorrect, q.CorrectChoice)

		answers[i] = models.Answer{
			QuestionID:    q.QuestionID,
			QuestionText:  q.QuestionText,
			Choices:       shuffled(r, choices),
			CorrectChoice: q.CorrectChoice,
			Explanation:   q.Explanation,
		}
	}
	return answers
}
