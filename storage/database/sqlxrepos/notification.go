package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/notification"
)

const notificationColumns = "id, user_id, message, is_read, created_at"

var errRecipientNotFound = core.NewNotFoundError("user")

type notificationRepository struct {
	baseRepository
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(exec core.DBExecutor) *notificationRepository {
	return &notificationRepository{baseRepository{exec: exec}}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, n notification.Notification, exec ...core.DBExecutor) (notification.Notification, error) {
	q := `INSERT INTO notifications (user_id, message, is_read, created_at) VALUES (?, ?, ?, ?) RETURNING id`
	if err := get(ctx, repo.getExec(exec), &n.ID, q, n.UserID, n.Message, n.IsRead, n.CreatedAt.UTC()); err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo notificationRepository) CreateCourseNotifications(
	ctx context.Context,
	courseID int64,
	message string,
	at time.Time,
	exec ...core.DBExecutor,
) (int64, error) {
	ex := repo.getExec(exec)
	// select-list parameters carry no type on postgres
	msgParam, atParam := "?", "?"
	if isPostgres(ex) {
		msgParam, atParam = "CAST(? AS TEXT)", "CAST(? AS TIMESTAMPTZ)"
	}
	q := `INSERT INTO notifications (user_id, message, created_at)
		SELECT e.user_id, ` + msgParam + `, ` + atParam + `
		FROM enrollments e JOIN users u ON u.id = e.user_id
		WHERE e.course_id = ? AND u.role = ?`
	n, err := execAffected(ctx, ex, q, message, at.UTC(), courseID, auth.RoleStudent)
	return n, errors.Wrap(err, "fanning out course notifications")
}

func (repo notificationRepository) QueryUserNotifications(ctx context.Context, userID int64, exec ...core.DBExecutor) ([]notification.Notification, error) {
	ns := make([]notification.Notification, 0)
	q := "SELECT " + notificationColumns + " FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	if err := sel(ctx, repo.getExec(exec), &ns, q, userID); err != nil {
		return nil, errors.Wrap(err, "selecting notifications")
	}
	return ns, nil
}

func (repo notificationRepository) MarkRead(ctx context.Context, id, userID int64, exec ...core.DBExecutor) (bool, error) {
	n, err := execAffected(ctx, repo.getExec(exec),
		"UPDATE notifications SET is_read = ? WHERE id = ? AND user_id = ?", true, id, userID)
	if err != nil {
		return false, errors.Wrap(err, "marking notification read")
	}
	return n > 0, nil
}

func (repo notificationRepository) GetRecipient(ctx context.Context, userID int64, exec ...core.DBExecutor) (notification.Recipient, error) {
	var r notification.Recipient
	if err := get(ctx, repo.getExec(exec), &r, "SELECT id, name, email FROM users WHERE id = ?", userID); err != nil {
		return notification.Recipient{}, trapNoRowsErr(err, errRecipientNotFound, "selecting recipient")
	}
	return r, nil
}

func (repo notificationRepository) QueryCourseRecipients(ctx context.Context, courseID int64, exec ...core.DBExecutor) ([]notification.Recipient, error) {
	rcpts := make([]notification.Recipient, 0)
	q := `SELECT u.id, u.name, u.email FROM enrollments e JOIN users u ON u.id = e.user_id
		WHERE e.course_id = ? AND u.role = ? ORDER BY u.id`
	if err := sel(ctx, repo.getExec(exec), &rcpts, q, courseID, auth.RoleStudent); err != nil {
		return nil, errors.Wrap(err, "selecting course recipients")
	}
	return rcpts, nil
}
