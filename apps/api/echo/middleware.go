package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pujaripavansai28/LMS/core"
	metricsvc "github.com/pujaripavansai28/LMS/services/metrics"
)

func requestLogger(logger core.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			fields := map[string]interface{}{
				"method":    v.Method,
				"uri":       v.URI,
				"status":    v.Status,
				"latency":   v.Latency.String(),
				"remote_ip": v.RemoteIP,
			}
			if p, ok := contextPrincipal(ctx); ok {
				logger.Info("request", fields, p)
				return nil
			}
			logger.Info("request", fields)
			return nil
		},
	})
}

// metricsMiddleware hands errors to the error handler itself so the recorded status is the one sent.
func metricsMiddleware(m *metricsvc.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			if err := next(ctx); err != nil {
				ctx.Error(err)
			}
			if m != nil {
				route := ctx.Path()
				if route == "" {
					route = "unmatched"
				}
				m.ObserveRequest(ctx.Request().Method, route, ctx.Response().Status, time.Since(start))
			}
			return nil
		}
	}
}
