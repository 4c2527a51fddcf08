package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/eccentriccoder01/Bharatshaala/api/responses"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
	"github.com/eccentriccoder01/Bharatshaala/pkg/logger"
	"github.com/eccentriccoder01/Bharatshaala/pkg/redis"
)

const readinessTimeout = 2 * time.Second

// HealthLive reports process liveness.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness by pinging the datasources.
func HealthReady(logg *logger.Logger, dbPinger db.Pinger, redisPinger redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{"db": "ok", "redis": "ok"}
		var failed error

		if dbPinger == nil {
			checks["db"] = "not configured"
			failed = pkgerrors.New(pkgerrors.CodeDependency, "database not configured")
		} else if err := dbPinger.Ping(ctx); err != nil {
			checks["db"] = "unreachable"
			failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable")
		}

		if redisPinger == nil {
			checks["redis"] = "not configured"
			failed = pkgerrors.New(pkgerrors.CodeDependency, "redis not configured")
		} else if err := redisPinger.Ping(ctx); err != nil {
			checks["redis"] = "unreachable"
			failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable")
		}

		if failed != nil {
			responses.WriteError(r.Context(), logg, w, failed)
			return
		}
		responses.WriteSuccess(w, checks)
	}
}
