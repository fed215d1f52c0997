package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

type CreateLeagueInput struct {
	SeasonID         string
	Name             string
	OwnerUserID      string
	OwnerDisplayName string
}

type LeagueService struct {
	memberships membership.Repository
	boosts      boost.Repository
	catalog     *boost.Catalog
	ids         id.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewLeagueService(memberships membership.Repository, boosts boost.Repository, catalog *boost.Catalog, ids id.Generator, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	if catalog == nil {
		catalog = boost.DefaultCatalog()
	}
	return &LeagueService{
		memberships: memberships,
		boosts:      boosts,
		catalog:     catalog,
		ids:         ids,
		logger:      logger.Named("usecase.league"),
		now:         time.Now,
	}
}

// CreateLeague creates a league and enrolls its owner as the first member.
func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (membership.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	leagueID, err := s.ids.NewID()
	if err != nil {
		return membership.League{}, fmt.Errorf("generate league id: %w", err)
	}

	now := s.now().UTC()
	league := membership.League{
		ID:          leagueID,
		SeasonID:    strings.TrimSpace(input.SeasonID),
		Name:        strings.TrimSpace(input.Name),
		OwnerUserID: strings.TrimSpace(input.OwnerUserID),
		CreatedAt:   now,
	}
	if err := league.Validate(); err != nil {
		return membership.League{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if league.OwnerUserID == "" {
		return membership.League{}, fmt.Errorf("%w: owner user id is required", ErrInvalidInput)
	}

	if err := s.memberships.CreateLeague(ctx, league); err != nil {
		if errors.Is(err, membership.ErrDuplicateLeague) {
			return membership.League{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return membership.League{}, fmt.Errorf("create league: %w", err)
	}

	displayName := strings.TrimSpace(input.OwnerDisplayName)
	if displayName == "" {
		displayName = league.OwnerUserID
	}
	if err := s.memberships.AddMember(ctx, membership.Member{
		LeagueID:    league.ID,
		UserID:      league.OwnerUserID,
		DisplayName: displayName,
		JoinedAt:    now,
	}); err != nil {
		return membership.League{}, fmt.Errorf("add league owner: %w", err)
	}

	s.logger.InfoContext(ctx, "league created", "league_id", league.ID, "season_id", league.SeasonID)
	return league, nil
}

func (s *LeagueService) AddMember(ctx context.Context, leagueID, userID, displayName string) (membership.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.AddMember")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	displayName = strings.TrimSpace(displayName)
	if leagueID == "" || userID == "" {
		return membership.Member{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}
	if displayName == "" {
		displayName = userID
	}

	if _, exists, err := s.memberships.GetLeague(ctx, leagueID); err != nil {
		return membership.Member{}, fmt.Errorf("get league: %w", err)
	} else if !exists {
		return membership.Member{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	member := membership.Member{
		LeagueID:    leagueID,
		UserID:      userID,
		DisplayName: displayName,
		JoinedAt:    s.now().UTC(),
	}
	if err := s.memberships.AddMember(ctx, member); err != nil {
		return membership.Member{}, fmt.Errorf("add member: %w", err)
	}
	return member, nil
}

func (s *LeagueService) ListMembers(ctx context.Context, leagueID string) ([]membership.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListMembers")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	members, err := s.memberships.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// ConfigureBoost stores a league's rule for one catalog boost.
func (s *LeagueService) ConfigureBoost(ctx context.Context, rule boost.LeagueRule) (boost.LeagueRule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ConfigureBoost")
	defer span.End()

	rule.LeagueID = strings.TrimSpace(rule.LeagueID)
	rule.Code = boost.NormalizeCode(rule.Code)
	if rule.LeagueID == "" {
		return boost.LeagueRule{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, ok := s.catalog.Lookup(rule.Code); !ok {
		return boost.LeagueRule{}, fmt.Errorf("%w: boost=%s", ErrNotFound, rule.Code)
	}
	if rule.TotalUsesPerSeason < 0 {
		return boost.LeagueRule{}, fmt.Errorf("%w: total uses per season must be >= 0", ErrInvalidInput)
	}
	for _, w := range rule.Windows {
		if w.StartRound < 1 || w.EndRound < w.StartRound {
			return boost.LeagueRule{}, fmt.Errorf("%w: invalid window %d-%d", ErrInvalidInput, w.StartRound, w.EndRound)
		}
		if w.MaxUses < 0 {
			return boost.LeagueRule{}, fmt.Errorf("%w: window %d-%d max uses must be >= 0", ErrInvalidInput, w.StartRound, w.EndRound)
		}
	}

	if _, exists, err := s.memberships.GetLeague(ctx, rule.LeagueID); err != nil {
		return boost.LeagueRule{}, fmt.Errorf("get league: %w", err)
	} else if !exists {
		return boost.LeagueRule{}, fmt.Errorf("%w: league=%s", ErrNotFound, rule.LeagueID)
	}

	if err := s.boosts.UpsertRule(ctx, rule); err != nil {
		return boost.LeagueRule{}, fmt.Errorf("upsert boost rule: %w", err)
	}
	s.logger.InfoContext(ctx, "boost rule configured", "league_id", rule.LeagueID, "code", rule.Code, "enabled", rule.Enabled)
	return rule, nil
}

func (s *LeagueService) ListBoostRules(ctx context.Context, leagueID string) ([]boost.LeagueRule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListBoostRules")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	rules, err := s.boosts.ListRules(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list boost rules: %w", err)
	}
	return rules, nil
}
