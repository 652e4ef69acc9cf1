package notification

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/auth"
)

// Outcomes recorded for every fan-out.
const (
	OutcomeCreated = "created"
	OutcomeFailed  = "failed"
	OutcomeMailed  = "mailed"
)

const emailTemplate = "notification"

var anyUser = auth.Require()

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification, exec ...core.DBExecutor) (Notification, error)
		// CreateCourseNotifications inserts one notification per student enrolled in the course
		// and returns the number of rows created.
		CreateCourseNotifications(ctx context.Context, courseID int64, message string, at time.Time, exec ...core.DBExecutor) (int64, error)
		// QueryUserNotifications returns the newest notifications first.
		QueryUserNotifications(ctx context.Context, userID int64, exec ...core.DBExecutor) ([]Notification, error)
		// MarkRead reports whether a notification with that id belongs to userID.
		MarkRead(ctx context.Context, id, userID int64, exec ...core.DBExecutor) (bool, error)

		GetRecipient(ctx context.Context, userID int64, exec ...core.DBExecutor) (Recipient, error)
		QueryCourseRecipients(ctx context.Context, courseID int64, exec ...core.DBExecutor) ([]Recipient, error)
	}

	// Recorder counts fan-out outcomes; implemented by services/metrics.
	Recorder interface {
		RecordNotifications(outcome string, n int)
	}

	Service struct {
		conf    *core.Config
		repo    Repository
		logger  core.Logger
		mailer  core.EmailService
		metrics Recorder
	}
)

var _ core.Notifier = (*Service)(nil)

func NewService(conf *core.Config, repo Repository, logger core.Logger, mailer core.EmailService, metrics Recorder) *Service {
	return &Service{
		conf:    conf,
		repo:    repo,
		logger:  logger,
		mailer:  mailer,
		metrics: metrics,
	}
}

func (svc *Service) List(ctx context.Context, p auth.Principal) ([]Notification, error) {
	if err := anyUser.Check(p); err != nil {
		return nil, err
	}
	return svc.repo.QueryUserNotifications(ctx, p.ID)
}

// MarkRead only touches the caller's own notifications; anything else is a successful no-op.
func (svc *Service) MarkRead(ctx context.Context, p auth.Principal, id int64) (MarkReadResult, error) {
	if err := anyUser.Check(p); err != nil {
		return MarkReadResult{}, err
	}
	updated, err := svc.repo.MarkRead(ctx, id, p.ID)
	if err != nil {
		return MarkReadResult{}, errors.Wrap(err, "marking notification read")
	}
	return MarkReadResult{Success: true, Updated: updated}, nil
}

// NotifyUser never fails the caller.
func (svc *Service) NotifyUser(ctx context.Context, userID int64, message string) {
	_, err := svc.repo.CreateNotification(ctx, Notification{
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		svc.failed(errors.Wrapf(err, "notifying user %d", userID))
		return
	}
	svc.record(OutcomeCreated, 1)

	if !svc.conf.Email.Notifications {
		return
	}
	rcpt, err := svc.repo.GetRecipient(ctx, userID)
	if err != nil {
		svc.logger.Warn("notification email skipped", errors.Wrapf(err, "finding user %d", userID))
		return
	}
	svc.mail(message, rcpt)
}

// NotifyCourse fans the message out to every student enrolled in the course. It never fails the caller.
func (svc *Service) NotifyCourse(ctx context.Context, courseID int64, message string) {
	n, err := svc.repo.CreateCourseNotifications(ctx, courseID, message, time.Now().UTC())
	if err != nil {
		svc.failed(errors.Wrapf(err, "notifying course %d", courseID))
		return
	}
	svc.record(OutcomeCreated, int(n))

	if !svc.conf.Email.Notifications || n == 0 {
		return
	}
	rcpts, err := svc.repo.QueryCourseRecipients(ctx, courseID)
	if err != nil {
		svc.logger.Warn("notification emails skipped", errors.Wrapf(err, "querying course %d recipients", courseID))
		return
	}
	svc.mail(message, rcpts...)
}

func (svc *Service) mail(message string, rcpts ...Recipient) {
	msgs := make([]*core.EmailMessage, 0, len(rcpts))
	for _, r := range rcpts {
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: r.Name, Address: r.Email}},
			Subject:      svc.conf.AppName + ": new notification",
			TemplateName: emailTemplate,
			TemplateData: map[string]string{"Name": r.Name, "Message": message},
		})
	}
	svc.mailer.SendMessages(msgs...)
	svc.record(OutcomeMailed, len(msgs))
}

func (svc *Service) failed(err error) {
	svc.logger.Error("notification fan-out failed", err)
	svc.record(OutcomeFailed, 1)
}

func (svc *Service) record(outcome string, n int) {
	if svc.metrics != nil && n > 0 {
		svc.metrics.RecordNotifications(outcome, n)
	}
}
