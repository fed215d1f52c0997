package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/leaderboard"
	"github.com/riskibarqy/prediction-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/prediction-league/internal/observability"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	idgen "github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

// Server is the wired HTTP server plus the resources it owns.
type Server struct {
	HTTP    *http.Server
	closers []func() error
}

// Close releases storage handles after the HTTP server has shut down.
func (s *Server) Close() error {
	var combined error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			combined = errors.CombineErrors(combined, err)
		}
	}
	return combined
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	policy, err := leaderboard.ParsePolicy(cfg.RankingPolicy)
	if err != nil {
		return nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	repos, err := buildRepositories(ctx, cfg, store, logger)
	if err != nil {
		return nil, err
	}
	srv := &Server{closers: []func() error{repos.close}}

	if cfg.StorageDriver == config.StoragePostgres && cfg.DBSeedOnEmpty {
		if err := seedIfEmpty(ctx, repos, logger.Named("app.seed")); err != nil {
			_ = srv.Close()
			return nil, err
		}
	}

	var metrics *observability.Metrics
	var engineMetrics usecase.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
		metrics.ObserveCache(store)
		metrics.ObserveBreaker("database", repos.breaker)
		engineMetrics = metrics
	}
	if store != nil && cfg.CacheTTL > 0 {
		srv.closers = append(srv.closers, startCacheJanitor(store, cfg.CacheTTL, logger.Named("app.cache")))
	}

	ids := idgen.NewUUIDGenerator()

	leaderboardSvc := usecase.NewLeaderboardService(repos.memberships, repos.results, store, policy, logger)
	resultSvc := usecase.NewResultService(usecase.ResultServiceDeps{
		Rounds:      repos.rounds,
		Predictions: repos.predictions,
		Memberships: repos.memberships,
		Results:     repos.results,
		Catalog:     catalog,
		Invalidator: leaderboardSvc,
		Logger:      logger,
		Metrics:     engineMetrics,
		MaxWorkers:  cfg.FinalizeMaxWorkers,
	})
	boostSvc := usecase.NewBoostService(usecase.BoostServiceDeps{
		Rounds:      repos.rounds,
		Memberships: repos.memberships,
		Boosts:      repos.boosts,
		Results:     repos.results,
		Catalog:     catalog,
		Invalidator: leaderboardSvc,
		Logger:      logger,
		Metrics:     engineMetrics,
	})

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		Rounds:      usecase.NewRoundService(repos.rounds, ids, resultSvc, logger, engineMetrics),
		Predictions: usecase.NewPredictionService(repos.rounds, repos.predictions, logger, engineMetrics),
		Boosts:      boostSvc,
		Leaderboard: leaderboardSvc,
		Leagues:     usecase.NewLeagueService(repos.memberships, repos.boosts, catalog, ids, logger),
		Logger:      logger,
	})

	routerCfg := httpapi.RouterConfig{
		AdminToken:          cfg.AdminToken,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		PredictionRateLimit: httpapi.NewUserRateLimiter(cfg.PredictionRateLimit, cfg.PredictionRateBurst),
	}
	if metrics != nil {
		routerCfg.MetricsHandler = metrics.Handler()
	}

	srv.HTTP = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, routerCfg, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app wired",
		"storage", cfg.StorageDriver,
		"ranking_policy", string(policy),
		"cache_enabled", cfg.CacheEnabled,
		"metrics_enabled", cfg.MetricsEnabled,
		"boost_codes", len(catalog.Codes()),
	)

	return srv, nil
}

func loadCatalog(cfg config.Config) (*boost.Catalog, error) {
	if cfg.BoostCatalogPath == "" {
		return boost.DefaultCatalog(), nil
	}
	catalog, err := boost.LoadCatalogFile(cfg.BoostCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load boost catalog %s: %w", cfg.BoostCatalogPath, err)
	}
	return catalog, nil
}
