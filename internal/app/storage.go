package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	cachedrepo "github.com/riskibarqy/prediction-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/guarded"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

type repositories struct {
	rounds      round.Repository
	predictions prediction.Repository
	memberships membership.Repository
	results     result.Repository
	boosts      boost.Repository
	// breaker guards the postgres repositories; nil for memory storage or
	// when DB_BREAKER_ENABLED is false.
	breaker *resilience.CircuitBreaker
	close   func() error
}

// buildRepositories picks the storage driver. The memory driver starts from
// the demo seed; postgres is seeded later only when it holds no leagues.
func buildRepositories(ctx context.Context, cfg config.Config, store *cache.Store, logger *logging.Logger) (repositories, error) {
	var repos repositories

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		repos = repositories{
			rounds:      postgres.NewRoundRepository(db),
			predictions: postgres.NewPredictionRepository(db),
			memberships: postgres.NewMembershipRepository(db),
			results:     postgres.NewResultRepository(db),
			boosts:      postgres.NewBoostRepository(db),
			close:       db.Close,
		}
		if cfg.DBBreakerEnabled {
			repos = guardRepositories(repos, newDBBreaker(cfg, logger.Named("app.breaker")))
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver, "db", buildPostgresDSN(cfg).dbName, "breaker", cfg.DBBreakerEnabled)
	case config.StorageMemory:
		rounds := memory.NewRoundRepository(memory.SeedRounds())
		results := memory.NewResultRepository()
		repos = repositories{
			rounds:      rounds,
			predictions: memory.NewPredictionRepository(rounds),
			memberships: memory.NewMembershipRepository(memory.SeedLeagues(), memory.SeedMembers()),
			results:     results,
			boosts:      memory.NewBoostRepository(memory.SeedBoostRules(), rounds, results),
			close:       func() error { return nil },
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver)
	default:
		return repositories{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if store != nil {
		repos.memberships = cachedrepo.NewMembershipRepository(repos.memberships, store)
		repos.boosts = cachedrepo.NewBoostRepository(repos.boosts, store)
	}

	return repos, nil
}

func newDBBreaker(cfg config.Config, logger *logging.Logger) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(
		resilience.Config{
			FailureThreshold: cfg.DBBreakerFailureThreshold,
			OpenTimeout:      cfg.DBBreakerOpenTimeout,
			HalfOpenMaxReq:   cfg.DBBreakerHalfOpenMaxReq,
		},
		postgres.IsUnavailable,
		func(from, to resilience.State) {
			if to == resilience.StateOpen {
				logger.Warn("database breaker opened", "from", string(from), "open_timeout", cfg.DBBreakerOpenTimeout)
				return
			}
			logger.Info("database breaker state changed", "from", string(from), "to", string(to))
		},
	)
}

// guardRepositories puts every repository behind one breaker, since they all
// share the same connection pool.
func guardRepositories(repos repositories, breaker *resilience.CircuitBreaker) repositories {
	repos.rounds = guarded.NewRoundRepository(repos.rounds, breaker)
	repos.predictions = guarded.NewPredictionRepository(repos.predictions, breaker)
	repos.memberships = guarded.NewMembershipRepository(repos.memberships, breaker)
	repos.results = guarded.NewResultRepository(repos.results, breaker)
	repos.boosts = guarded.NewBoostRepository(repos.boosts, breaker)
	repos.breaker = breaker
	return repos
}
