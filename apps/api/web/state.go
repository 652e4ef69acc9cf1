// Package web renders the server-side dashboard. It knows nothing about HTTP or storage:
// the echo handlers parse a ViewState, gather the page data and call Render.
package web

import (
	"net/url"
	"strconv"
	"strings"
)

// Prefix is the path the dashboard is mounted on.
const Prefix = "/app"

type Section string

const (
	SectionCourses       Section = "courses"
	SectionAssignments   Section = "assignments"
	SectionQuizzes       Section = "quizzes"
	SectionProgress      Section = "progress"
	SectionNotifications Section = "notifications"
)

var sections = []Section{SectionCourses, SectionAssignments, SectionQuizzes, SectionProgress, SectionNotifications}

func (s Section) valid() bool {
	for _, sec := range sections {
		if s == sec {
			return true
		}
	}
	return false
}

// query keys
const (
	keySection = "section"
	keyCourse  = "course"
	keyQuiz    = "quiz"
	keySearch  = "q"
	keyFlash   = "flash"
)

// ViewState is what the dashboard shows. It is a value: transitions return a new ViewState
// and leave the receiver untouched. Every transition but WithFlash drops the flash message,
// so a message is displayed once. A quiz is only selected within a course.
type ViewState struct {
	Section  Section
	CourseID int64
	QuizID   int64
	Search   string
	Flash    string
}

// ParseState reads a ViewState from query values. Unknown or malformed values fall back to defaults.
func ParseState(q url.Values) ViewState {
	s := ViewState{
		Section: Section(strings.ToLower(strings.TrimSpace(q.Get(keySection)))),
		Search:  strings.TrimSpace(q.Get(keySearch)),
		Flash:   strings.TrimSpace(q.Get(keyFlash)),
	}
	if !s.Section.valid() {
		s.Section = SectionCourses
	}
	if id, err := strconv.ParseInt(q.Get(keyCourse), 10, 64); err == nil && id > 0 {
		s.CourseID = id
	}
	if id, err := strconv.ParseInt(q.Get(keyQuiz), 10, 64); err == nil && id > 0 && s.CourseID > 0 {
		s.QuizID = id
	}
	return s
}

// ParseQuery is ParseState on an encoded query string.
func ParseQuery(raw string) ViewState {
	q, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return ParseState(q)
}

// WithCourse selects a course; 0 clears the selection and returns to the course list.
func (s ViewState) WithCourse(id int64) ViewState {
	if id <= 0 {
		id = 0
	}
	s.CourseID = id
	s.QuizID = 0
	if id == 0 && s.Section != SectionNotifications {
		s.Section = SectionCourses
	}
	s.Flash = ""
	return s
}

// WithQuiz opens a quiz of the selected course on the quizzes section; 0 closes it.
func (s ViewState) WithQuiz(id int64) ViewState {
	if id <= 0 || s.CourseID == 0 {
		id = 0
	}
	s.QuizID = id
	if id > 0 {
		s.Section = SectionQuizzes
	}
	s.Flash = ""
	return s
}

func (s ViewState) WithSearch(search string) ViewState {
	s.Search = strings.TrimSpace(search)
	s.Flash = ""
	return s
}

func (s ViewState) WithSection(section Section) ViewState {
	if !section.valid() {
		section = SectionCourses
	}
	s.Section = section
	s.QuizID = 0
	s.Flash = ""
	return s
}

func (s ViewState) WithFlash(msg string) ViewState {
	s.Flash = strings.TrimSpace(msg)
	return s
}

// Query encodes the non-default fields of the state.
func (s ViewState) Query() string {
	q := url.Values{}
	if s.Section != "" && s.Section != SectionCourses {
		q.Set(keySection, string(s.Section))
	}
	if s.CourseID > 0 {
		q.Set(keyCourse, strconv.FormatInt(s.CourseID, 10))
	}
	if s.QuizID > 0 {
		q.Set(keyQuiz, strconv.FormatInt(s.QuizID, 10))
	}
	if s.Search != "" {
		q.Set(keySearch, s.Search)
	}
	if s.Flash != "" {
		q.Set(keyFlash, s.Flash)
	}
	return q.Encode()
}

// URL is the dashboard address showing this state.
func (s ViewState) URL() string {
	return withQuery(Prefix, s.Query())
}

// LoginURL is the login page address carrying the flash message of the state.
func (s ViewState) LoginURL() string {
	return withQuery(Prefix+"/login", ViewState{Flash: s.Flash}.Query())
}

// RegisterURL is the sign-up page address carrying the flash message of the state.
func (s ViewState) RegisterURL() string {
	return withQuery(Prefix+"/register", ViewState{Flash: s.Flash}.Query())
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
