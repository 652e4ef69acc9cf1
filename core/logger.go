package core

// Logger is implemented by services/logger.
// args may carry an error, an auth.Principal (the caller) or key/value maps.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
