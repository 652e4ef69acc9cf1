package main

import (
	"context"
	"expvar"
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/jmoiron/sqlx"

	dig_container "github.com/pujaripavansai28/LMS/apps/api/di/dig"
	echoapi "github.com/pujaripavansai28/LMS/apps/api/echo"
	"github.com/pujaripavansai28/LMS/core"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		db *sqlx.DB,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info("Application initializing", map[string]interface{}{"build": conf.Build, "env": conf.Env})

		core.ParseEmailTemplates(apiLogger)

		dbLogger := dbLoggerParam.Logger
		defer func() {
			if err := db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		defer apiLogger.Info("Application stopped")
		defer syncLogger(apiLogger)

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		if conf.Server.DebugAddress != "" {
			go func() {
				if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
					apiLogger.Error("debug server closed", err)
				}
			}()
		}

		// =========================================================================
		// Start API Service

		apiLogger.Info("API listening", map[string]interface{}{"address": conf.Server.Address})
		go server.Start()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			apiLogger.Fatal("server error", err)

		case sig := <-server.ShutdownSignal():
			apiLogger.Info("Start shutdown...", map[string]interface{}{"signal": sig.String()})

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				apiLogger.Error("could not stop server gracefully", err)

				if err = server.Close(); err != nil {
					apiLogger.Fatal("could not force stop server", err)
				}
			}
		}
	}))
}

// syncLogger flushes buffered log entries when the logger supports it.
func syncLogger(logger core.Logger) {
	if s, ok := logger.(interface{ Sync() }); ok {
		s.Sync()
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
