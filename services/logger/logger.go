package logsvc

import (
	"fmt"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/auth"
)

// Logger writes structured logs with zap and reports warnings and errors to rollbar.
type Logger struct {
	zap     *zap.Logger
	rollbar bool
}

var _ core.Logger = (*Logger)(nil)

// New builds a logger named after the component (api, db, admin…).
func New(name string, conf *core.Config) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	if conf.Debug {
		cfg = zap.NewDevelopmentConfig()
	}
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	zl = zl.Named(name).With(zap.String("env", conf.Env), zap.String("build", conf.Build))

	enabled := conf.RollbarToken != "" && !conf.Debug && !conf.TestMode
	if enabled {
		rollbar.SetToken(conf.RollbarToken)
		rollbar.SetEnvironment(conf.Env)
		rollbar.SetCodeVersion(conf.Build)
		rollbar.SetServerRoot(core.Getwd())
		rollbar.SetStackTracer(errors.StackTracer)
	}
	rollbar.SetEnabled(enabled)

	return &Logger{zap: zl, rollbar: enabled}, nil
}

// NewNop discards everything.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func (l *Logger) Sync() {
	_ = l.zap.Sync()
	if l.rollbar {
		rollbar.Wait()
	}
}

// expected args: error, auth.Principal, map[string]interface{}; anything else is logged as argN
func (l *Logger) fields(args []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(args))
	var errSet bool
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
		case error:
			if !errSet {
				fields = append(fields, zap.Error(v))
				errSet = true
			} else {
				fields = append(fields, zap.NamedError("error"+strconv.Itoa(i), v))
			}
		case auth.Principal:
			fields = append(fields,
				zap.Int64("user_id", v.ID),
				zap.String("user_email", v.Email),
				zap.String("user_role", string(v.Role)))
		case map[string]interface{}:
			for k, val := range v {
				fields = append(fields, zap.Any(k, val))
			}
		default:
			fields = append(fields, zap.Any(fmt.Sprintf("arg%d", i), v))
		}
	}
	return fields
}

// report forwards msg, errors and maps to rollbar; a Principal becomes the rollbar person.
func (l *Logger) report(level string, msg string, args []interface{}) {
	if !l.rollbar {
		return
	}
	var usrSet bool
	items := make([]interface{}, 0, len(args)+1)
	items = append(items, msg)
	for _, arg := range args {
		switch v := arg.(type) {
		case error, map[string]interface{}:
			items = append(items, v)
		case auth.Principal:
			if !usrSet { // only set one user
				rollbar.SetPerson(strconv.FormatInt(v.ID, 10), string(v.Role), v.Email)
				usrSet = true
			}
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	rollbar.Log(level, items...)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.zap.Debug(msg, l.fields(args)...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.zap.Info(msg, l.fields(args)...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.report(rollbar.WARN, msg, args)
	l.zap.Warn(msg, l.fields(args)...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.report(rollbar.ERR, msg, args)
	l.zap.Error(msg, l.fields(args)...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	if l.rollbar {
		rollbar.Wait()
	}
	l.zap.Fatal(msg, l.fields(args)...)
}
