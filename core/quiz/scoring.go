package quiz

import (
	"strconv"
	"strings"
)

// Score counts the questions answered correctly. Answers are keyed by question ID.
func Score(questions []Question, answers map[string]interface{}) int {
	var score int
	for _, q := range questions {
		if IsCorrect(q, answers[strconv.FormatInt(q.ID, 10)]) {
			score++
		}
	}
	return score
}

// IsCorrect applies the rule of the question type:
// mcq compares option numbers, truefalse and short compare case-insensitively,
// numerical compares parsed numbers.
func IsCorrect(q Question, given interface{}) bool {
	ans, ok := answerString(given)
	if !ok || ans == "" {
		return false
	}
	want := strings.TrimSpace(q.Answer)

	switch q.QuestionType {
	case TypeMCQ:
		g, err := strconv.Atoi(ans)
		if err != nil {
			return false
		}
		w, err := strconv.Atoi(want)
		return err == nil && g == w
	case TypeNumerical:
		g, err := strconv.ParseFloat(ans, 64)
		if err != nil {
			return false
		}
		w, err := strconv.ParseFloat(want, 64)
		return err == nil && g == w
	default: // truefalse, short and unknown types
		return strings.EqualFold(ans, want)
	}
}

func answerString(v interface{}) (string, bool) {
	switch a := v.(type) {
	case string:
		return strings.TrimSpace(a), true
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64), true
	case int:
		return strconv.Itoa(a), true
	case int64:
		return strconv.FormatInt(a, 10), true
	case bool:
		return strconv.FormatBool(a), true
	default:
		return "", false
	}
}
