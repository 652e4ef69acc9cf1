// Package testutil opens throwaway sqlite databases and seeds them with fixtures.
package testutil

import (
	"context"
	"fmt"
	"net/mail"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/assignment"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/course"
	"github.com/pujaripavansai28/LMS/core/quiz"
	"github.com/pujaripavansai28/LMS/core/user"
	logsvc "github.com/pujaripavansai28/LMS/services/logger"
	"github.com/pujaripavansai28/LMS/storage/database"
	"github.com/pujaripavansai28/LMS/storage/database/sqlxrepos"
)

// DefaultPassword is the password of every fixture user.
const DefaultPassword = "Lms#Pass-2024"

var dbSeq int64

// Config returns the configuration tests run with: debug off, test mode on, sqlite in memory.
func Config() *core.Config {
	return &core.Config{
		Env:       "TEST",
		AppName:   "LMS Test",
		Build:     "test",
		TestMode:  true,
		SecretKey: "test-secret-key",
		Server: core.ServerConfig{
			JWTExpirationDelta: 8 * time.Hour,
			BodyLimit:          "2M",
			CORSOrigins:        []string{"*"},
		},
		Database: core.DatabaseConfig{
			Engine: core.EngineSQLite,
			Path:   fmt.Sprintf("file:lms_test_%d_%d?mode=memory&cache=shared", os.Getpid(), atomic.AddInt64(&dbSeq, 1)),
		},
		Uploads: core.UploadsConfig{Backend: "local", URLPrefix: "/uploads"},
		Email: core.EmailConfig{
			DefaultFromEmail: mail.Address{Name: "LMS Test", Address: "noreply@lms.test"},
		},
	}
}

// PrepareDB opens a migrated in-memory database private to the test.
func PrepareDB(t *testing.T, conf ...*core.Config) *sqlx.DB {
	t.Helper()
	c := Config()
	if len(conf) > 0 {
		c = conf[0]
	}
	db, err := database.Open(c)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db, c.Database.Engine, logsvc.NewNop()); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, db core.DBExecutor, name, email string, role auth.Role) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	repo := sqlxrepos.NewUserRepository(db)
	usr, err := repo.CreateUser(context.Background(), user.User{
		Name:         name,
		Email:        email,
		Role:         role,
		Verified:     true,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if usr, err = repo.GetUserByID(context.Background(), usr.ID); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(t *testing.T, db core.DBExecutor, title string, instructor user.User) course.Course {
	t.Helper()
	repo := sqlxrepos.NewCourseRepository(db)
	c, err := repo.CreateCourse(context.Background(), course.Course{
		Title:        title,
		Description:  null.StringFrom(title + " for beginners"),
		InstructorID: null.Int64From(instructor.ID),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	if c, err = repo.GetCourse(context.Background(), c.ID); err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

func Enroll(t *testing.T, db core.DBExecutor, student user.User, c course.Course) {
	t.Helper()
	_, err := sqlxrepos.NewCourseRepository(db).CreateEnrollment(context.Background(), course.Enrollment{
		UserID:     student.ID,
		CourseID:   c.ID,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
}

func CreateAssignment(t *testing.T, db core.DBExecutor, c course.Course, title string) assignment.Assignment {
	t.Helper()
	repo := sqlxrepos.NewAssignmentRepository(db)
	a, err := repo.CreateAssignment(context.Background(), assignment.Assignment{
		CourseID:  c.ID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	if a, err = repo.GetAssignment(context.Background(), a.ID); err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

func CreateQuiz(t *testing.T, db core.DBExecutor, c course.Course, title string) quiz.Quiz {
	t.Helper()
	repo := sqlxrepos.NewQuizRepository(db)
	q, err := repo.CreateQuiz(context.Background(), quiz.Quiz{
		CourseID:  c.ID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateQuiz() failed: %v", err)
	}
	if q, err = repo.GetQuiz(context.Background(), q.ID); err != nil {
		t.Fatalf("CreateQuiz() failed: %v", err)
	}
	return q
}

// AddQuestion stores a question as is: options and answer are not validated.
func AddQuestion(t *testing.T, db core.DBExecutor, q quiz.Quiz, text, qType, answer string, options ...string) quiz.Question {
	t.Helper()
	if options == nil {
		options = []string{}
	}
	question, err := sqlxrepos.NewQuizRepository(db).CreateQuestion(context.Background(), quiz.Question{
		QuizID:       q.ID,
		QuestionText: text,
		QuestionType: qType,
		Options:      options,
		Answer:       answer,
	})
	if err != nil {
		t.Fatalf("AddQuestion() failed: %v", err)
	}
	return question
}
