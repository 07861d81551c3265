package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/container"
)

// The worker keeps the cached leaderboard warm so API reads rarely rank from the database.
func main() {
	c := container.New()
	defer c.Close()

	board := c.LeaderboardContainer.Service
	spec := config.Env("LEADERBOARD_REFRESH_SPEC", "@every 5m")

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := scheduler.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		ranked, err := board.Refresh(ctx)
		if err != nil {
			config.WithContext(ctx).WithError(err).Error("Leaderboard refresh failed")
			return
		}
		config.WithContext(ctx).WithField("learners", ranked).Info("Leaderboard refreshed")
	})
	if err != nil {
		config.Logger.WithError(err).Fatalf("Invalid LEADERBOARD_REFRESH_SPEC %q", spec)
	}

	scheduler.Start()
	config.Logger.WithField("spec", spec).Info("Leaderboard worker started")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	<-scheduler.Stop().Done()
	config.Logger.Info("Leaderboard worker stopped")
}
