package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/google/go-github/v72/github"
	"golang.org/x/oauth2"

	"github.com/minipcdb/device-intake/internal/telemetry"
	"github.com/minipcdb/device-intake/internal/transport"
)

func setupContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup graceful shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		log.Println("Interrupt signal detected, shutting down gracefully...")
		cancel()
		<-interrupt
		log.Fatal("Forcing shutdown")
	}()

	return ctx
}

func createGithubClient(token string) *github.Client {
	tokenSource := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: tokenSource,
			Base:   transport.WithRateLimiting(nil),
		},
	}
	return github.NewClient(httpClient)
}

func createTelemetryProvider(ctx context.Context) (*telemetry.Provider, error) {
	telemetryConfig := telemetry.TelemetryConfig{
		Enabled:      config.TelemetryEnabled,
		OTLPEndpoint: config.OTLPEndpoint,
		Insecure:     config.OTLPInsecure,
		Version:      version,
	}
	return telemetry.NewProvider(ctx, telemetryConfig)
}
