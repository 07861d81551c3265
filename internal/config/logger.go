package config

import (
	"context"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type ctxKey string

const userIDKey ctxKey = "log_user_id"

var Logger = logrus.New()

// Init loads the .env file (when present) and configures the shared logger.
func Init() {
	loadDotEnv()

	Logger.SetOutput(os.Stdout)

	if strings.EqualFold(Env("LOG_FORMAT", "text"), "json") {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(Env("LOG_LEVEL", "info"))
	if err != nil {
		Logger.WithError(err).Warn("Invalid LOG_LEVEL, falling back to info")
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}

// WithUserID stores the authenticated user id so request logs can carry it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func WithContext(ctx context.Context) logrus.FieldLogger {
	entry := logrus.NewEntry(Logger)
	if ctx == nil {
		return entry
	}

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	if userID, ok := ctx.Value(userIDKey).(string); ok && userID != "" {
		entry = entry.WithField("user_id", userID)
	}
	return entry
}
