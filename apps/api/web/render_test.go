package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/pujaripavansai28/LMS/core/assignment"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/course"
	"github.com/pujaripavansai28/LMS/core/notification"
	"github.com/pujaripavansai28/LMS/core/progress"
	"github.com/pujaripavansai28/LMS/core/quiz"
	"github.com/pujaripavansai28/LMS/core/user"
)

func render(t *testing.T, p Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p))
	return buf.String()
}

func TestRender(t *testing.T) {
	goCourse := course.Course{ID: 1, Title: "Go Basics", Description: null.StringFrom("Goroutines & channels"), InstructorName: null.StringFrom("Ada")}
	rust := course.Course{ID: 2, Title: "Rust", InstructorName: null.StringFrom("Ada")}
	student := &user.User{ID: 5, Name: "Bob <script>", Role: auth.RoleStudent}
	deadline := time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)

	t.Run("unknown view", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, Render(&buf, Page{Data: 42}))
	})

	t.Run("login", func(t *testing.T) {
		html := render(t, Page{AppName: "LMS", State: ViewState{Flash: "Bye"}, Data: LoginForm{Email: "a@b.io"}})
		assert.Contains(t, html, "<title>LMS</title>")
		assert.Contains(t, html, `value="a@b.io"`)
		assert.Contains(t, html, `<p class="flash" role="status">Bye</p>`)
		assert.NotContains(t, html, "Signed in as")
	})

	t.Run("register", func(t *testing.T) {
		html := render(t, Page{Data: RegisterForm{Role: "instructor"}})
		assert.Contains(t, html, `<option value="instructor" selected>`)
	})

	t.Run("student course list", func(t *testing.T) {
		html := render(t, Page{
			State: ViewState{Section: SectionCourses},
			User:  student,
			Data: StudentDashboard{
				MyCourses:     []course.Course{goCourse},
				Available:     []course.Course{rust},
				Notifications: []notification.Notification{{ID: 1, Message: "hi"}, {ID: 2, Message: "read", IsRead: true}},
				Badges:        []progress.Badge{{Name: progress.BadgeQuizAce, Description: "Full marks"}},
			},
		})
		assert.Contains(t, html, "Bob &lt;script&gt;")
		assert.Contains(t, html, "Notifications (1)")
		assert.Contains(t, html, `<a href="/app?course=1">Go Basics</a>`)
		assert.Contains(t, html, `action="/app/courses/2/enroll"`)
		assert.Contains(t, html, "<strong>Quiz Ace</strong>: Full marks")
		assert.NotContains(t, html, "No other courses.")
	})

	t.Run("student course", func(t *testing.T) {
		data := StudentDashboard{Selected: &StudentCourse{
			Course: goCourse,
			Assignments: []StudentAssignment{
				{Assignment: assignment.Assignment{ID: 1, Title: "Essay", Deadline: null.TimeFrom(deadline)}},
				{
					Assignment: assignment.Assignment{ID: 2, Title: "Lab"},
					Submission: &assignment.MySubmission{Submission: assignment.Submission{Grade: null.StringFrom("A"), SubmittedAt: deadline}},
				},
			},
			Quizzes: []StudentQuiz{{
				Quiz:       quiz.Quiz{ID: 1, Title: "Week 1"},
				Submission: &quiz.MyQuizSubmission{QuizSubmission: quiz.QuizSubmission{Score: 3}},
				Rank:       &quiz.Rank{Rank: 1, Total: 4, Score: 3},
			}},
			Progress:    progress.Progress{Percent: 67, Completed: 2, Total: 3, StudyMinutes: 90},
			Leaderboard: []progress.LeaderboardEntry{{Name: "Bob", TotalScore: 3}},
		}}
		state := ViewState{}.WithCourse(1)

		html := render(t, Page{State: state, User: student, Data: data})
		assert.Contains(t, html, "<h2>Go Basics</h2>")
		assert.Contains(t, html, "Goroutines &amp; channels")
		assert.Contains(t, html, "2030-01-02 15:04")
		assert.Contains(t, html, "Not submitted")
		assert.Contains(t, html, "<td>A</td>")
		assert.Contains(t, html, `<input type="hidden" name="return" value="course=1">`)

		html = render(t, Page{State: state.WithSection(SectionQuizzes), User: student, Data: data})
		assert.Contains(t, html, "<td>1 / 4</td>")

		html = render(t, Page{State: state.WithSection(SectionProgress), User: student, Data: data})
		assert.Contains(t, html, "67% complete (2 of 3), 90 minutes studied.")
		assert.Contains(t, html, "Nothing graded yet.")
		assert.Contains(t, html, "<li>Bob: 3</li>")
	})

	t.Run("student quiz", func(t *testing.T) {
		mcq := quiz.Question{ID: 11, QuestionText: "Pick one", QuestionType: quiz.TypeMCQ, Options: []string{"chan", "mutex"}, Answer: "1"}
		num := quiz.Question{ID: 12, QuestionText: "Two plus two?", QuestionType: quiz.TypeNumerical, Answer: "4"}
		state := ViewState{}.WithCourse(1).WithQuiz(3)
		sc := &StudentCourse{Course: goCourse, Quiz: &QuizAttempt{Quiz: quiz.Quiz{ID: 3, Title: "Week 1"}, Questions: []quiz.Question{mcq, num}}}

		html := render(t, Page{State: state, User: student, Data: StudentDashboard{Selected: sc}})
		assert.Contains(t, html, "<h3>Week 1</h3>")
		assert.Contains(t, html, `action="/app/quizzes/3/submit"`)
		assert.Contains(t, html, `<input type="radio" name="answer_11" value="1"> chan`)
		assert.Contains(t, html, `<input type="radio" name="answer_11" value="2"> mutex`)
		assert.Contains(t, html, `<input type="number" step="any" name="answer_12">`)

		sc.Quiz.Review = &quiz.Review{Score: 1, Total: 2, Items: []quiz.ReviewItem{
			{Question: mcq, Given: "1", Correct: true},
			{Question: num, Correct: false},
		}}
		html = render(t, Page{State: state, User: student, Data: StudentDashboard{Selected: sc}})
		assert.Contains(t, html, "Score: 1 / 2")
		assert.Contains(t, html, "Your answer: chan <strong>correct</strong>")
		assert.Contains(t, html, "Your answer: none <em>incorrect</em>, expected 4")
		assert.NotContains(t, html, "Submit answers")
	})

	t.Run("instructor course", func(t *testing.T) {
		teacher := &user.User{ID: 2, Name: "Ada", Role: auth.RoleInstructor}
		graded := assignment.StudentSubmission{StudentName: "Bob", Submission: assignment.Submission{ID: 9, Grade: null.StringFrom("B"), SubmittedAt: deadline}}
		data := InstructorDashboard{Selected: &InstructorCourse{
			Course:      goCourse,
			Assignments: []AssignmentWork{{Assignment: assignment.Assignment{ID: 4, Title: "Lab"}, Submissions: []assignment.StudentSubmission{graded}}},
			Quizzes:     []CountedQuiz{{Quiz: quiz.Quiz{ID: 3, Title: "Week 1"}, Submissions: 1}},
			Quiz: &QuizManager{
				Quiz:        quiz.Quiz{ID: 3, Title: "Week 1"},
				Questions:   []quiz.Question{{ID: 11, QuestionText: "Pick one", QuestionType: quiz.TypeMCQ, Options: []string{"chan", "mutex"}, Answer: "2"}},
				Submissions: []quiz.StudentQuizSubmission{{StudentName: "Bob", QuizSubmission: quiz.QuizSubmission{ID: 21, Score: 1}}},
			},
		}}
		state := ViewState{}.WithCourse(1).WithQuiz(3)

		html := render(t, Page{State: state, User: teacher, Data: data})
		assert.Contains(t, html, "<tr><td>Lab</td><td></td><td>1</td>")
		assert.Contains(t, html, `action="/app/submissions/9/grade"`)
		assert.Contains(t, html, `name="grade" value="B"`)
		assert.Contains(t, html, `action="/app/assignments/4/delete"`)
		assert.Contains(t, html, `action="/app/courses/1/assignments" enctype="multipart/form-data"`)
		assert.Contains(t, html, "Quiz: Week 1")
		assert.Contains(t, html, "Answer: mutex")
		assert.Contains(t, html, `action="/app/quizzes/3/questions"`)
		assert.Contains(t, html, `action="/app/quiz-submissions/21/grade"`)
		assert.Contains(t, html, `action="/app/courses/1/update"`)

		html = render(t, Page{User: teacher, Data: InstructorDashboard{}})
		assert.Contains(t, html, `action="/app/courses"`)
	})

	t.Run("notifications", func(t *testing.T) {
		html := render(t, Page{
			State: ViewState{}.WithSection(SectionNotifications),
			User:  student,
			Data:  InstructorDashboard{Notifications: []notification.Notification{{ID: 3, Message: "graded", CreatedAt: deadline}}},
		})
		assert.Contains(t, html, `action="/app/notifications/3/read"`)
		assert.Contains(t, html, `value="section=notifications"`)
		assert.Contains(t, html, "<small>2030-01-02 15:04</small>")
	})

	t.Run("admin", func(t *testing.T) {
		root := &user.User{ID: 1, Name: "Root", Role: auth.RoleAdmin, Verified: true}
		html := render(t, Page{User: root, Data: AdminDashboard{}})
		assert.Contains(t, html, "No users.")
		assert.Contains(t, html, "No courses.")

		html = render(t, Page{User: root, Data: AdminDashboard{Users: []user.User{*root, *student}, Courses: []course.Course{goCourse}}})
		assert.Contains(t, html, `<option value="student" selected>student</option>`)
		assert.Contains(t, html, `<option value="false" selected>unverified</option>`)
		assert.Contains(t, html, `action="/app/users/5/delete"`)
		assert.NotContains(t, html, `action="/app/users/1/delete"`, "admins cannot delete themselves")
		assert.Contains(t, html, `action="/app/courses/1/delete"`)
	})
}

func TestFilterCourses(t *testing.T) {
	courses := []course.Course{
		{ID: 1, Title: "Go Basics", Description: null.StringFrom("Learn goroutines")},
		{ID: 2, Title: "Rust", Description: null.StringFrom("Ownership")},
		{ID: 3, Title: "Databases"},
	}
	ids := func(cs []course.Course) []int64 {
		out := make([]int64, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []int64{1, 2, 3}, ids(FilterCourses(courses, "  ")))
	assert.Equal(t, []int64{1}, ids(FilterCourses(courses, "GOROUTINE")))
	assert.Equal(t, []int64{2}, ids(FilterCourses(courses, "rust")))
	assert.Empty(t, FilterCourses(courses, "python"))

	assert.Equal(t, []int64{2, 3}, ids(ExcludeCourses(courses, courses[:1])))
	assert.Equal(t, []int64{1, 2, 3}, ids(ExcludeCourses(courses, nil)))
}

func TestUnreadCount(t *testing.T) {
	assert.Zero(t, UnreadCount(nil))
	assert.Equal(t, 2, UnreadCount([]notification.Notification{{}, {IsRead: true}, {}}))
}

func TestQuizAnswers(t *testing.T) {
	got := QuizAnswers(map[string][]string{
		"return":    {"course=1"},
		"answer_4":  {" 2 "},
		"answer_5":  {},
		"answer_x":  {"nope"},
		"answer_12": {"true", "false"},
	})
	assert.Equal(t, map[string]interface{}{"4": "2", "12": "true"}, got)
}

func TestAnswerText(t *testing.T) {
	mcq := quiz.Question{QuestionType: quiz.TypeMCQ, Options: []string{"a", "b"}}
	assert.Equal(t, "b", AnswerText(mcq, "2"))
	assert.Equal(t, "a", AnswerText(mcq, float64(1)))
	assert.Equal(t, "7", AnswerText(mcq, "7"), "out of range options are shown as given")
	assert.Equal(t, "", AnswerText(mcq, nil))
	assert.Equal(t, "3.5", AnswerText(quiz.Question{QuestionType: quiz.TypeNumerical}, 3.5))
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"one", "two"}, Lines(" one\r\n\n two \n"))
	assert.Empty(t, Lines("  "))
}
