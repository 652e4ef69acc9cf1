package echoapi

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/apps/api/web"
	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/assignment"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/course"
	"github.com/pujaripavansai28/LMS/core/quiz"
	"github.com/pujaripavansai28/LMS/core/user"
)

// dashboard gathers the data of the role dashboards from the services.
type dashboard struct {
	deps Deps
}

func (d dashboard) build(ctx context.Context, p auth.Principal, state web.ViewState) (interface{}, error) {
	switch p.Role {
	case auth.RoleStudent:
		return d.student(ctx, p, state)
	case auth.RoleInstructor:
		return d.instructor(ctx, p, state)
	default:
		return d.admin(ctx, p, state)
	}
}

func (d dashboard) student(ctx context.Context, p auth.Principal, state web.ViewState) (web.StudentDashboard, error) {
	var dash web.StudentDashboard
	mine, err := d.deps.CourseSvc.MyCourses(ctx, p)
	if err != nil {
		return dash, errors.Wrap(err, "querying my courses")
	}
	all, err := d.deps.CourseSvc.List(ctx, course.QueryFilter{Search: state.Search})
	if err != nil {
		return dash, errors.Wrap(err, "querying courses")
	}
	dash.MyCourses = web.FilterCourses(mine, state.Search)
	dash.Available = web.ExcludeCourses(all, mine)

	if dash.Notifications, err = d.deps.NotificationSvc.List(ctx, p); err != nil {
		return dash, errors.Wrap(err, "querying notifications")
	}
	if dash.Badges, err = d.deps.ProgressSvc.Badges(ctx, p); err != nil {
		return dash, errors.Wrap(err, "computing badges")
	}

	if state.CourseID > 0 {
		if dash.Selected, err = d.studentCourse(ctx, p, state.CourseID, state.QuizID); err != nil {
			return dash, err
		}
	}
	return dash, nil
}

func (d dashboard) studentCourse(ctx context.Context, p auth.Principal, courseID, quizID int64) (*web.StudentCourse, error) {
	c, err := d.deps.CourseSvc.Access(ctx, p, courseID)
	if err != nil {
		return nil, err
	}
	sc := &web.StudentCourse{Course: c}

	assignments, err := d.deps.AssignmentSvc.ListForCourse(ctx, p, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	subs, err := d.deps.AssignmentSvc.MySubmissions(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "querying my submissions")
	}
	bySubmission := make(map[int64]assignment.MySubmission, len(subs))
	for _, s := range subs {
		bySubmission[s.AssignmentID] = s
	}
	for _, a := range assignments {
		item := web.StudentAssignment{Assignment: a}
		if s, ok := bySubmission[a.ID]; ok {
			item.Submission = &s
		}
		sc.Assignments = append(sc.Assignments, item)
	}

	quizzes, err := d.deps.QuizSvc.ListForCourse(ctx, p, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying quizzes")
	}
	quizSubs, err := d.deps.QuizSvc.MySubmissions(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "querying my quiz submissions")
	}
	byQuiz := make(map[int64]quiz.MyQuizSubmission, len(quizSubs))
	for _, s := range quizSubs {
		byQuiz[s.QuizID] = s
	}
	for _, q := range quizzes {
		item := web.StudentQuiz{Quiz: q}
		if s, ok := byQuiz[q.ID]; ok {
			item.Submission = &s
			r, err := d.deps.QuizSvc.Rank(ctx, p, q.ID)
			if err != nil {
				return nil, errors.Wrap(err, "ranking quiz submission")
			}
			item.Rank = &r
		}
		sc.Quizzes = append(sc.Quizzes, item)
	}
	if quizID > 0 {
		if sc.Quiz, err = d.quizAttempt(ctx, p, sc.Quizzes, quizID); err != nil {
			return nil, err
		}
	}

	if sc.Progress, err = d.deps.ProgressSvc.CourseProgress(ctx, p, courseID); err != nil {
		return nil, errors.Wrap(err, "computing progress")
	}
	if sc.Grades, err = d.deps.ProgressSvc.CourseGrades(ctx, p, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course grades")
	}
	if sc.Leaderboard, err = d.deps.ProgressSvc.Leaderboard(ctx, p, courseID); err != nil {
		return nil, errors.Wrap(err, "querying leaderboard")
	}
	return sc, nil
}

// quizAttempt opens one of the listed quizzes: the review once submitted, the questions otherwise.
func (d dashboard) quizAttempt(ctx context.Context, p auth.Principal, quizzes []web.StudentQuiz, quizID int64) (*web.QuizAttempt, error) {
	for _, q := range quizzes {
		if q.Quiz.ID != quizID {
			continue
		}
		attempt := &web.QuizAttempt{Quiz: q.Quiz}
		if q.Submission != nil {
			r, err := d.deps.QuizSvc.Review(ctx, p, quizID)
			if err != nil {
				return nil, errors.Wrap(err, "reviewing quiz")
			}
			attempt.Review = &r
			return attempt, nil
		}
		questions, err := d.deps.QuizSvc.ListQuestions(ctx, p, quizID)
		if err != nil {
			return nil, errors.Wrap(err, "querying questions")
		}
		attempt.Questions = questions
		return attempt, nil
	}
	return nil, core.NewNotFoundError("quiz")
}

func (d dashboard) instructor(ctx context.Context, p auth.Principal, state web.ViewState) (web.InstructorDashboard, error) {
	var dash web.InstructorDashboard
	mine, err := d.deps.CourseSvc.MyCourses(ctx, p)
	if err != nil {
		return dash, errors.Wrap(err, "querying my courses")
	}
	dash.Courses = web.FilterCourses(mine, state.Search)
	if dash.Notifications, err = d.deps.NotificationSvc.List(ctx, p); err != nil {
		return dash, errors.Wrap(err, "querying notifications")
	}

	if state.CourseID == 0 {
		return dash, nil
	}
	c, err := d.deps.CourseSvc.Access(ctx, p, state.CourseID)
	if err != nil {
		return dash, err
	}
	ic := &web.InstructorCourse{Course: c}

	assignments, err := d.deps.AssignmentSvc.ListForCourse(ctx, p, c.ID)
	if err != nil {
		return dash, errors.Wrap(err, "querying assignments")
	}
	for _, a := range assignments {
		subs, err := d.deps.AssignmentSvc.ListSubmissions(ctx, p, a.ID)
		if err != nil {
			return dash, errors.Wrap(err, "querying submissions")
		}
		ic.Assignments = append(ic.Assignments, web.AssignmentWork{Assignment: a, Submissions: subs})
	}

	quizzes, err := d.deps.QuizSvc.ListForCourse(ctx, p, c.ID)
	if err != nil {
		return dash, errors.Wrap(err, "querying quizzes")
	}
	for _, q := range quizzes {
		subs, err := d.deps.QuizSvc.ListSubmissions(ctx, p, q.ID)
		if err != nil {
			return dash, errors.Wrap(err, "querying quiz submissions")
		}
		ic.Quizzes = append(ic.Quizzes, web.CountedQuiz{Quiz: q, Submissions: len(subs)})
		if q.ID == state.QuizID {
			questions, err := d.deps.QuizSvc.ListQuestions(ctx, p, q.ID)
			if err != nil {
				return dash, errors.Wrap(err, "querying questions")
			}
			ic.Quiz = &web.QuizManager{Quiz: q, Questions: questions, Submissions: subs}
		}
	}
	if state.QuizID > 0 && ic.Quiz == nil {
		return dash, core.NewNotFoundError("quiz")
	}
	dash.Selected = ic
	return dash, nil
}

func (d dashboard) admin(ctx context.Context, p auth.Principal, state web.ViewState) (web.AdminDashboard, error) {
	var dash web.AdminDashboard
	users, err := d.deps.UserSvc.Query(ctx, p, user.QueryFilter{Search: state.Search}, nil)
	if err != nil {
		return dash, errors.Wrap(err, "querying users")
	}
	courses, err := d.deps.CourseSvc.List(ctx, course.QueryFilter{Search: state.Search})
	if err != nil {
		return dash, errors.Wrap(err, "querying courses")
	}
	dash.Users, dash.Courses = users, courses
	return dash, nil
}
