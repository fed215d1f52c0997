package app

import (
	"context"
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:              config.EnvDev,
		ServiceName:         "prediction-league-api",
		HTTPAddr:            ":0",
		ReadTimeout:         time.Second,
		WriteTimeout:        time.Second,
		CORSAllowedOrigins:  []string{"*"},
		StorageDriver:       config.StorageMemory,
		CacheEnabled:        true,
		CacheTTL:            time.Minute,
		AdminToken:          "admin-secret",
		RankingPolicy:       config.RankingCompetition,
		FinalizeMaxWorkers:  2,
		PredictionRateLimit: 1,
		PredictionRateBurst: 1,
		MetricsEnabled:      true,
	}
}

func TestNewHTTPServer_MemoryDriver(t *testing.T) {
	srv, err := NewHTTPServer(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	tests := []struct {
		name   string
		path   string
		header map[string]string
		want   int
		body   string
	}{
		{name: "health", path: "/healthz", want: http.StatusOK},
		{name: "metrics", path: "/metrics", want: http.StatusOK, body: "go_goroutines"},
		{
			name:   "seeded league members",
			path:   "/v1/leagues/" + memory.LeagueIDOfficeCup + "/members",
			header: map[string]string{"X-User-ID": "user-andi"},
			want:   http.StatusOK,
			body:   "Citra",
		},
		{name: "user route without header", path: "/v1/rounds/round-2026-01", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			srv.HTTP.Handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.body != "" {
				assert.True(t, strings.Contains(rec.Body.String(), tt.body), rec.Body.String())
			}
		})
	}
}

func TestNewHTTPServer_MetricsDisabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.MetricsEnabled = false
	cfg.CacheEnabled = false

	srv, err := NewHTTPServer(context.Background(), cfg, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewHTTPServer_RejectsBadInputs(t *testing.T) {
	t.Run("empty addr", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.HTTPAddr = " "
		_, err := NewHTTPServer(context.Background(), cfg, nil)
		require.Error(t, err)
	})

	t.Run("unknown ranking policy", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.RankingPolicy = "olympic"
		_, err := NewHTTPServer(context.Background(), cfg, nil)
		require.Error(t, err)
	})

	t.Run("missing catalog file", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.BoostCatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
		_, err := NewHTTPServer(context.Background(), cfg, nil)
		require.Error(t, err)
	})
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := loadCatalog(config.Config{})
	require.NoError(t, err)
	assert.NotEmpty(t, catalog.Codes())

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o600))
	_, err = loadCatalog(config.Config{BoostCatalogPath: path})
	require.Error(t, err)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	rounds := memory.NewRoundRepository(nil)
	results := memory.NewResultRepository()
	repos := repositories{
		rounds:      rounds,
		predictions: memory.NewPredictionRepository(rounds),
		memberships: memory.NewMembershipRepository(nil, nil),
		results:     results,
		boosts:      memory.NewBoostRepository(nil, rounds, results),
	}

	require.NoError(t, seedIfEmpty(ctx, repos, logging.NewNop()))

	leagues, err := repos.memberships.ListLeaguesBySeason(ctx, memory.SeasonID2026)
	require.NoError(t, err)
	assert.Len(t, leagues, len(memory.SeedLeagues()))

	rules, err := repos.boosts.ListRules(ctx, memory.LeagueIDOfficeCup)
	require.NoError(t, err)
	assert.Len(t, rules, 3)

	_, exists, err := repos.rounds.GetByID(ctx, "round-2026-01")
	require.NoError(t, err)
	assert.True(t, exists)

	// second run is a no-op
	require.NoError(t, seedIfEmpty(ctx, repos, logging.NewNop()))
	leagues, err = repos.memberships.ListLeaguesBySeason(ctx, memory.SeasonID2026)
	require.NoError(t, err)
	assert.Len(t, leagues, len(memory.SeedLeagues()))
}

func TestStartCacheJanitor_PurgesAndStops(t *testing.T) {
	store := cache.NewStore(time.Millisecond)
	store.Set(context.Background(), "leaderboard:office-cup:season", 1)

	stop := startCacheJanitor(store, 5*time.Millisecond, logging.NewNop())
	require.Eventually(t, func() bool { return store.Stats().Entries == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, stop())
	require.NoError(t, stop())
}

func TestGuardRepositories_SeedsThroughBreaker(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.DBBreakerFailureThreshold = 2
	cfg.DBBreakerOpenTimeout = time.Minute
	cfg.DBBreakerHalfOpenMaxReq = 1

	rounds := memory.NewRoundRepository(nil)
	results := memory.NewResultRepository()
	repos := guardRepositories(repositories{
		rounds:      rounds,
		predictions: memory.NewPredictionRepository(rounds),
		memberships: memory.NewMembershipRepository(nil, nil),
		results:     results,
		boosts:      memory.NewBoostRepository(nil, rounds, results),
	}, newDBBreaker(cfg, logging.NewNop()))
	require.NotNil(t, repos.breaker)

	require.NoError(t, seedIfEmpty(ctx, repos, logging.NewNop()))

	leagues, err := repos.memberships.ListLeaguesBySeason(ctx, memory.SeasonID2026)
	require.NoError(t, err)
	assert.Len(t, leagues, len(memory.SeedLeagues()))
	assert.Equal(t, resilience.StateClosed, repos.breaker.State())
}

func TestNewDBBreaker_OpensOnUnavailableDatabase(t *testing.T) {
	cfg := memoryConfig()
	cfg.DBBreakerFailureThreshold = 2
	cfg.DBBreakerOpenTimeout = time.Minute
	cfg.DBBreakerHalfOpenMaxReq = 1
	breaker := newDBBreaker(cfg, logging.NewNop())

	ctx := context.Background()
	badConn := func(context.Context) error { return driver.ErrBadConn }
	for range 2 {
		require.ErrorIs(t, breaker.Do(ctx, badConn), driver.ErrBadConn)
	}
	assert.Equal(t, resilience.StateOpen, breaker.State())
	require.ErrorIs(t, breaker.Do(ctx, badConn), resilience.ErrCircuitOpen)
}
