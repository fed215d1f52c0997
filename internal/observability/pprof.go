package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// PprofServer exposes net/http/pprof on a private listener. The zero value
// and a nil pointer are both inert, so callers can Stop unconditionally.
type PprofServer struct {
	srv    *http.Server
	ln     net.Listener
	logger *logging.Logger
	done   chan struct{}
}

// StartPprofServer binds cfg.PprofAddr before returning, so a port clash is
// reported at startup instead of from a background goroutine.
func StartPprofServer(cfg config.Config, logger *logging.Logger) (*PprofServer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("pprof")
	if !cfg.PprofEnabled {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil, nil
	}

	ln, err := net.Listen("tcp", cfg.PprofAddr)
	if err != nil {
		return nil, fmt.Errorf("listen pprof %s: %w", cfg.PprofAddr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	p := &PprofServer{
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln:     ln,
		logger: logger,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		if err := p.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()
	logger.Info("pprof server listening", "addr", ln.Addr().String())

	return p, nil
}

func (p *PprofServer) Addr() string {
	if p == nil || p.ln == nil {
		return ""
	}
	return p.ln.Addr().String()
}

// Stop drains in-flight profile requests until ctx expires.
func (p *PprofServer) Stop(ctx context.Context) error {
	if p == nil || p.srv == nil {
		return nil
	}
	if err := p.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown pprof: %w", err)
	}
	<-p.done
	p.logger.Info("pprof server stopped")
	return nil
}
