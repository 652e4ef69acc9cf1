package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsCorrect(t *testing.T) {
	mcq := Question{QuestionType: TypeMCQ, Answer: "2", Options: []string{"a", "b", "c"}}
	tf := Question{QuestionType: TypeTrueFalse, Answer: "true"}
	num := Question{QuestionType: TypeNumerical, Answer: "3.5"}
	short := Question{QuestionType: TypeShort, Answer: " Goroutine "}

	tests := []struct {
		name  string
		q     Question
		given interface{}
		want  bool
	}{
		{"mcq string", mcq, "2", true},
		{"mcq number", mcq, float64(2), true},
		{"mcq padded", mcq, " 2 ", true},
		{"mcq wrong", mcq, "1", false},
		{"mcq option text", mcq, "b", false},
		{"truefalse bool", tf, true, true},
		{"truefalse case", tf, "TRUE", true},
		{"truefalse wrong", tf, "false", false},
		{"numerical equal value", num, "3.50", true},
		{"numerical number", num, 3.5, true},
		{"numerical wrong", num, "3", false},
		{"numerical garbage", num, "three", false},
		{"short case insensitive", short, "goroutine", true},
		{"short wrong", short, "thread", false},
		{"missing", short, nil, false},
		{"empty", short, "", false},
		{"unsupported type", short, []string{"goroutine"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrect(tt.q, tt.given))
		})
	}
}

func TestScore(t *testing.T) {
	questions := []Question{
		{ID: 1, QuestionType: TypeMCQ, Answer: "1"},
		{ID: 2, QuestionType: TypeTrueFalse, Answer: "false"},
		{ID: 3, QuestionType: TypeShort, Answer: "chan"},
	}
	assert.Equal(t, 0, Score(questions, nil))
	assert.Equal(t, 2, Score(questions, map[string]interface{}{"1": 1.0, "2": "False", "3": "mutex"}))
	assert.Equal(t, 3, Score(questions, map[string]interface{}{"1": "1", "2": false, "3": "CHAN", "99": "ignored"}))
	assert.Equal(t, 0, Score(nil, map[string]interface{}{"1": "1"}))
}

func TestRankOf(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	subs := []QuizSubmission{
		{ID: 1, StudentID: 10, Score: 2, SubmittedAt: t0.Add(2 * time.Minute)},
		{ID: 2, StudentID: 11, Score: 3, SubmittedAt: t0.Add(5 * time.Minute)},
		{ID: 3, StudentID: 12, Score: 2, SubmittedAt: t0},
		{ID: 4, StudentID: 13, Score: 2, SubmittedAt: t0},
	}

	tests := []struct {
		student int64
		want    Rank
	}{
		{11, Rank{Rank: 1, Total: 4, Score: 3}},
		{12, Rank{Rank: 2, Total: 4, Score: 2}}, // same score and time: lower id first
		{13, Rank{Rank: 3, Total: 4, Score: 2}},
		{10, Rank{Rank: 4, Total: 4, Score: 2}},
	}
	for _, tt := range tests {
		got, ok := RankOf(subs, tt.student)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, "student %d", tt.student)
	}

	_, ok := RankOf(subs, 99)
	assert.False(t, ok)
	assert.Equal(t, int64(10), subs[0].StudentID, "input order is kept")
}
