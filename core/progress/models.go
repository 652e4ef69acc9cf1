package progress

import (
	"math"

	"github.com/volatiletech/null/v8"
)

// Badge names
const (
	BadgeCourseFinisher = "Course Finisher"
	BadgeQuizAce        = "Quiz Ace"
)

type Progress struct {
	CourseID     int64 `json:"course_id"`
	Percent      int   `json:"percent"`
	Completed    int   `json:"completed"`
	Total        int   `json:"total"`
	StudyMinutes int   `json:"study_minutes"`
}

// Percent returns round(completed/total*100), 0 for an empty course.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Grade kinds
const (
	KindAssignment = "assignment"
	KindQuiz       = "quiz"
)

type GradeEntry struct {
	Title string      `db:"title" json:"title"`
	Grade null.String `db:"grade" json:"grade"`
	Kind  string      `db:"kind" json:"kind"`
}

type AssignmentGrade struct {
	Assignment string      `db:"assignment" json:"assignment"`
	Grade      null.String `db:"grade" json:"grade"`
}

type QuizScore struct {
	Quiz  string `db:"quiz" json:"quiz"`
	Score int    `db:"score" json:"score"`
}

type Overview struct {
	Assignments []AssignmentGrade `json:"assignments"`
	Quizzes     []QuizScore       `json:"quizzes"`
}

type LeaderboardEntry struct {
	Name       string `db:"name" json:"name"`
	TotalScore int64  `db:"total_score" json:"total_score"`
}

type CourseCompletion struct {
	CourseID  int64  `db:"course_id"`
	Title     string `db:"title"`
	Total     int    `db:"total"`
	Completed int    `db:"completed"`
}

type PerfectQuiz struct {
	QuizID int64  `db:"quiz_id"`
	Title  string `db:"title"`
}

type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TimeInput is a study session length in minutes.
type TimeInput struct {
	Minutes int `json:"timeSpent" form:"timeSpent" validate:"required,min=1,max=1440"`
}

type StudyTime struct {
	CourseID int64 `json:"course_id"`
	Minutes  int   `json:"minutes"`
}
