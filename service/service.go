// Package service exposes the runner's operational HTTP surfaces: a healthz
// endpoint for CI-side liveness probes and a Prometheus scrape endpoint.
// Both run beside the serial session and never block it.
package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/log"

	"github.com/JayillProne/testops/metrics"
)

const (
	HealthzHost = "0.0.0.0"
	HealthzPort = "8080"

	MetricsHost = "0.0.0.0"
	MetricsPort = "7300"
)

type Service struct {
	Healthz *HealthzServer
	Metrics *MetricsServer
}

func New() *Service {
	return &Service{
		Healthz: &HealthzServer{},
		Metrics: &MetricsServer{},
	}
}

// Start launches both servers in the background. Listen failures are logged
// and counted but do not abort a run in progress.
func (s *Service) Start(ctx context.Context) {
	go serve(ctx, "healthz", net.JoinHostPort(HealthzHost, HealthzPort), s.Healthz.Start)
	go serve(ctx, "metrics", net.JoinHostPort(MetricsHost, MetricsPort), s.Metrics.Start)
}

func serve(ctx context.Context, name, addr string, start func(context.Context, string) error) {
	log.Info("Starting server", "server", name, "addr", addr)
	if err := start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed", "server", name, "err", err)
		metrics.RecordErrorDetails(name+" server", err)
	}
}

func (s *Service) Shutdown() {
	if err := s.Healthz.Shutdown(); err != nil {
		log.Error("Server shutdown failed", "server", "healthz", "err", err)
	}
	if err := s.Metrics.Shutdown(); err != nil {
		log.Error("Server shutdown failed", "server", "metrics", "err", err)
	}
	log.Info("Servers stopped")
}
