package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/kaspanet/ledgerd/util/panics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the collected metrics over HTTP at /metrics
type Server struct {
	httpServer *http.Server
}

// NewServer creates a metrics server listening on listenAddress
func NewServer(listenAddress string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		httpServer: &http.Server{
			Addr:              listenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves the metrics in a new goroutine
func (s *Server) Start() {
	spawn("metrics.Server.Start", func() {
		log.Infof("Metrics server listening on %s/metrics", s.httpServer.Addr)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			panics.Exit(log, "error serving metrics: "+err.Error())
		}
	})
}

// Stop shuts the server down
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
