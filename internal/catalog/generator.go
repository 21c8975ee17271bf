package catalog

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/skillcheck/interviewer/internal/model"
)

// GenerateInterviewQuestions draws a difficulty-balanced set of fresh
// questions for a role. The count splits into thirds with the remainder going
// to basic first, then intermediate; advanced never gets the extra. Slots
// with no matching template yield nothing, so the result may be shorter than
// requested.
func GenerateInterviewQuestions(role model.Role, count int) []model.Question {
	categories := RoleFocus(role)

	distribution := map[model.Difficulty]int{
		model.DifficultyBasic:        count/3 + extra(count%3 > 0),
		model.DifficultyIntermediate: count/3 + extra(count%3 > 1),
		model.DifficultyAdvanced:     count / 3,
	}

	var questions []model.Question
	for _, difficulty := range model.Difficulties {
		for i := 0; i < distribution[difficulty]; i++ {
			q, ok := templateQuestion(categories, difficulty)
			if !ok {
				continue
			}
			questions = append(questions, q)
		}
	}
	return questions
}

// GenerateFollowUp derives a single probing question from a weak answer. The
// result is flagged FollowUp and must never be persisted to the bank.
func GenerateFollowUp(question model.Question, eval model.Evaluation) model.Question {
	focus := "walk through the exact steps you would take"
	switch weakestDimension(eval) {
	case "technical_accuracy":
		focus = "name the specific functions or features you would rely on"
	case "depth":
		focus = "explain in more depth how your approach works and where it breaks down"
	case "practical_application":
		focus = "describe a concrete situation where you have applied this"
	}

	text := fmt.Sprintf("Let's go deeper on that. Regarding %q, please %s", question.Text, focus)
	if hints := FunctionHints(question.Category); len(hints) >= 2 {
		text += fmt.Sprintf(" (think %s or %s)", hints[0], hints[1])
	}
	text += "."

	return model.Question{
		ID:          QuestionID(question.Category, question.Difficulty, text),
		Text:        text,
		Type:        deriveType(text),
		Category:    question.Category,
		Difficulty:  question.Difficulty,
		Keywords:    extractKeywords(text),
		TargetRoles: question.TargetRoles,
		CreatedDate: time.Now(),
		Generated:   true,
		FollowUp:    true,
	}
}

// QuestionID derives a stable content-addressed id from category, difficulty,
// and rendered text. Collisions are possible; the store resolves them on
// insert.
func QuestionID(category model.Category, difficulty model.Difficulty, text string) int {
	h := fnv.New32a()
	h.Write([]byte(string(category) + "|" + string(difficulty) + "|" + text))
	return int(h.Sum32() % 10000)
}

func templateQuestion(categories []model.Category, difficulty model.Difficulty) (model.Question, bool) {
	var suitable []questionTemplate
	for _, t := range baseTemplates {
		if t.difficulty != difficulty {
			continue
		}
		for _, c := range categories {
			if t.category == c {
				suitable = append(suitable, t)
				break
			}
		}
	}
	if len(suitable) == 0 {
		return model.Question{}, false
	}

	t := suitable[rand.IntN(len(suitable))]
	text := fillTemplate(t)

	return model.Question{
		ID:          QuestionID(t.category, difficulty, text),
		Text:        text,
		Type:        deriveType(text),
		Category:    t.category,
		Difficulty:  difficulty,
		Keywords:    extractKeywords(text),
		TargetRoles: RolesForCategory(t.category),
		CreatedDate: time.Now(),
		Generated:   true,
	}, true
}

func deriveType(text string) model.QuestionType {
	if strings.Contains(strings.ToLower(text), "function") {
		return model.TypeFormula
	}
	return model.TypeConcept
}

func weakestDimension(eval model.Evaluation) string {
	weakest, low := "technical_accuracy", eval.TechnicalAccuracy
	if eval.Depth < low {
		weakest, low = "depth", eval.Depth
	}
	if eval.PracticalApplication < low {
		weakest = "practical_application"
	}
	return weakest
}

func extra(yes bool) int {
	if yes {
		return 1
	}
	return 0
}
