package observability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "prediction-league-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EnabledWithoutDSNIsNoop(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, UptraceDSN: "  "}

	shutdown, err := InitUptrace(cfg, nil)
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestStartPprofServer_Disabled(t *testing.T) {
	srv, err := StartPprofServer(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if srv != nil {
		t.Fatalf("expected no pprof server when disabled")
	}
	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("stop pprof: %v", err)
	}
}

func TestStartPprofServer_ServesAndStops(t *testing.T) {
	srv, err := StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/debug/pprof/cmdline")
	if err != nil {
		t.Fatalf("get cmdline: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("stop pprof: %v", err)
	}
	if _, err := http.Get("http://" + srv.Addr() + "/debug/pprof/cmdline"); err == nil {
		t.Fatalf("expected listener to be closed")
	}
}

func TestStartPprofServer_AddrInUse(t *testing.T) {
	first, err := StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	defer first.Stop(context.Background())

	if _, err := StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: first.Addr()}, logging.NewNop()); err == nil {
		t.Fatalf("expected listen error for busy address")
	}
}

func TestProfileTags_DropsEmptyValues(t *testing.T) {
	got := profileTags(config.Config{
		AppEnv:        config.EnvProd,
		ServiceName:   "prediction-league-api",
		StorageDriver: config.StoragePostgres,
	})
	want := map[string]string{
		"env":     config.EnvProd,
		"service": "prediction-league-api",
		"storage": config.StoragePostgres,
	}
	if !cmp.Equal(want, got) {
		t.Fatalf("profile tags mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestResourceAttributes(t *testing.T) {
	got := resourceAttributes(config.Config{
		StorageDriver:      config.StorageMemory,
		RankingPolicy:      "dense",
		FinalizeMaxWorkers: 4,
	})
	want := []attribute.KeyValue{
		attribute.String("prediction_league.storage", config.StorageMemory),
		attribute.String("prediction_league.ranking_policy", "dense"),
		attribute.Int("prediction_league.finalize_workers", 4),
	}
	if !cmp.Equal(want, got, cmp.Comparer(func(a, b attribute.KeyValue) bool { return a == b })) {
		t.Fatalf("resource attributes mismatch: %v", got)
	}

	if got := resourceAttributes(config.Config{}); len(got) != 0 {
		t.Fatalf("expected no attributes for empty config, got %v", got)
	}
}
