package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/container"
)

func main() {
	c := container.New()
	defer c.Close()

	handler := c.Router()

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(httpadapter.New(handler).ProxyWithContext)
		return
	}

	srv := &http.Server{
		Addr:              ":" + config.Env("PORT", "8080"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		config.Logger.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	config.Logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.WithError(err).Error("HTTP server shutdown failed")
	}
}
