package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// registerMetrics wires the loop's live TPS and player count as
// Prometheus gauges, scraped from the orchestrator's own HTTP server
// rather than the game socket.
func (s *Server) registerMetrics() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "steelmc",
			Name:      "tps",
			Help:      "Ticks per second, averaged over the last 100 ticks.",
		}, s.loop.TPS),
		promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "steelmc",
			Name:      "players_online",
			Help:      "Currently connected players.",
		}, func() float64 { return float64(s.loop.PlayerCount()) }),
		promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "steelmc",
			Name:      "loaded_chunks",
			Help:      "Chunk slots currently resident across every world.",
		}, func() float64 { return float64(s.loop.LoadedChunkCount()) }),
		promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "steelmc",
			Name:      "tick_skips_total",
			Help:      "Ticks the loop has given up catching up on and dropped.",
		}, func() float64 { return float64(s.loop.SkipCount()) }),
	)
	return reg
}

// serveMetrics runs the Prometheus HTTP endpoint until ctx is canceled.
func (s *Server) serveMetrics(ctx context.Context) error {
	if s.cfg.Server.MetricsAddress == "" {
		<-ctx.Done()
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registerMetrics(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: s.cfg.Server.MetricsAddress, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.log.Error("metrics server stopped", zap.Error(err))
		return err
	}
}
