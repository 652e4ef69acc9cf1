package core

import "context"

// Notifier delivers in-app notifications.
// Delivery is best-effort: failures are logged by the implementation and never returned.
type Notifier interface {
	NotifyUser(ctx context.Context, userID int64, message string)
	NotifyCourse(ctx context.Context, courseID int64, message string)
}
