package web

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pujaripavansai28/LMS/core/assignment"
	"github.com/pujaripavansai28/LMS/core/course"
	"github.com/pujaripavansai28/LMS/core/notification"
	"github.com/pujaripavansai28/LMS/core/progress"
	"github.com/pujaripavansai28/LMS/core/quiz"
	"github.com/pujaripavansai28/LMS/core/user"
)

type (
	// Page is everything Render needs. User is nil on the login and sign-up pages.
	Page struct {
		AppName string
		State   ViewState
		User    *user.User
		Data    interface{}
	}

	LoginForm struct {
		Email string
	}

	RegisterForm struct {
		Name  string
		Email string
		Role  string
	}

	StudentDashboard struct {
		MyCourses     []course.Course
		Available     []course.Course
		Selected      *StudentCourse
		Notifications []notification.Notification
		Badges        []progress.Badge
	}

	StudentCourse struct {
		Course      course.Course
		Assignments []StudentAssignment
		Quizzes     []StudentQuiz
		Quiz        *QuizAttempt
		Progress    progress.Progress
		Grades      []progress.GradeEntry
		Leaderboard []progress.LeaderboardEntry
	}

	// StudentAssignment is an assignment with the caller's submission, if any.
	StudentAssignment struct {
		Assignment assignment.Assignment
		Submission *assignment.MySubmission
	}

	// StudentQuiz is a quiz with the caller's submission and rank, if submitted.
	StudentQuiz struct {
		Quiz       quiz.Quiz
		Submission *quiz.MyQuizSubmission
		Rank       *quiz.Rank
	}

	// QuizAttempt is the quiz a student opened: its questions until they submit, the review afterwards.
	QuizAttempt struct {
		Quiz      quiz.Quiz
		Questions []quiz.Question
		Review    *quiz.Review
	}

	InstructorDashboard struct {
		Courses       []course.Course
		Selected      *InstructorCourse
		Notifications []notification.Notification
	}

	InstructorCourse struct {
		Course      course.Course
		Assignments []AssignmentWork
		Quizzes     []CountedQuiz
		Quiz        *QuizManager
	}

	// AssignmentWork is an assignment with the submissions to grade.
	AssignmentWork struct {
		Assignment  assignment.Assignment
		Submissions []assignment.StudentSubmission
	}

	CountedQuiz struct {
		Quiz        quiz.Quiz
		Submissions int
	}

	// QuizManager is the quiz an instructor opened, answers included.
	QuizManager struct {
		Quiz        quiz.Quiz
		Questions   []quiz.Question
		Submissions []quiz.StudentQuizSubmission
	}

	AdminDashboard struct {
		Users   []user.User
		Courses []course.Course
	}
)

// UnreadCount is the number of unread notifications.
func UnreadCount(ns []notification.Notification) int {
	var n int
	for _, nt := range ns {
		if !nt.IsRead {
			n++
		}
	}
	return n
}

// FilterCourses keeps the courses whose title or description contains search, ignoring case.
func FilterCourses(courses []course.Course, search string) []course.Course {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return courses
	}
	out := make([]course.Course, 0, len(courses))
	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.Title), search) ||
			strings.Contains(strings.ToLower(c.Description.String), search) {
			out = append(out, c)
		}
	}
	return out
}

// ExcludeCourses returns the courses of all that are not in mine.
func ExcludeCourses(all, mine []course.Course) []course.Course {
	owned := make(map[int64]bool, len(mine))
	for _, c := range mine {
		owned[c.ID] = true
	}
	out := make([]course.Course, 0, len(all))
	for _, c := range all {
		if !owned[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// AnswerPrefix starts the names of the quiz form fields; the question ID follows.
const AnswerPrefix = "answer_"

func answerField(questionID int64) string {
	return AnswerPrefix + strconv.FormatInt(questionID, 10)
}

// AnswerText shows an answer as the student gave it: mcq option numbers become the option text.
func AnswerText(q quiz.Question, given interface{}) string {
	if given == nil {
		return ""
	}
	ans := strings.TrimSpace(fmt.Sprint(given))
	if q.QuestionType == quiz.TypeMCQ {
		if n, err := strconv.Atoi(ans); err == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1]
		}
	}
	return ans
}

// QuizAnswers collects the answers of a submitted quiz form, keyed by question ID.
func QuizAnswers(form map[string][]string) map[string]interface{} {
	answers := make(map[string]interface{})
	for k, v := range form {
		id := strings.TrimPrefix(k, AnswerPrefix)
		if id == k || len(v) == 0 {
			continue
		}
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			continue
		}
		answers[id] = strings.TrimSpace(v[0])
	}
	return answers
}

// Lines splits a textarea into its non-blank lines.
func Lines(text string) []string {
	out := []string{}
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
