package controllers

import (
	"net/http"

	"github.com/ahmadmoradi/pakhshyar-backend/api/responses"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/config"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/logger"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pakhshyar-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the datasources the API depends on.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pakhshyar-Env", cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
