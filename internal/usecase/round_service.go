package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

type CreateRoundInput struct {
	SeasonID   string
	Number     int
	StartsAt   time.Time
	DeadlineAt time.Time
}

type AddMatchInput struct {
	RoundID    string
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
}

// RoundFinalizer computes league results once a round has completed.
type RoundFinalizer interface {
	FinalizeRound(ctx context.Context, roundID string) (FinalizeReport, error)
}

type RoundService struct {
	rounds    round.Repository
	ids       id.Generator
	finalizer RoundFinalizer
	logger    *logging.Logger
	metrics   Metrics
	now       func() time.Time
}

func NewRoundService(rounds round.Repository, ids id.Generator, finalizer RoundFinalizer, logger *logging.Logger, metrics Metrics) *RoundService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RoundService{
		rounds:    rounds,
		ids:       ids,
		finalizer: finalizer,
		logger:    logger.Named("usecase.round"),
		metrics:   metricsOrNop(metrics),
		now:       time.Now,
	}
}

func (s *RoundService) CreateRound(ctx context.Context, input CreateRoundInput) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.CreateRound")
	defer span.End()

	roundID, err := s.ids.NewID()
	if err != nil {
		return round.Round{}, fmt.Errorf("generate round id: %w", err)
	}

	now := s.now().UTC()
	item := round.Round{
		ID:         roundID,
		SeasonID:   strings.TrimSpace(input.SeasonID),
		Number:     input.Number,
		StartsAt:   input.StartsAt.UTC(),
		DeadlineAt: input.DeadlineAt.UTC(),
		Status:     round.StatusDraft,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := item.Validate(); err != nil {
		return round.Round{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.rounds.Create(ctx, item); err != nil {
		if errors.Is(err, round.ErrDuplicateRound) {
			return round.Round{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return round.Round{}, fmt.Errorf("create round: %w", err)
	}

	s.logger.InfoContext(ctx, "round created", "round_id", item.ID, "season_id", item.SeasonID, "number", item.Number)
	return item, nil
}

func (s *RoundService) GetRound(ctx context.Context, roundID string) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.GetRound", roundAttr(roundID))
	defer span.End()

	return s.loadRound(ctx, roundID)
}

// AddMatch appends a fixture to a round that is still being drafted.
func (s *RoundService) AddMatch(ctx context.Context, input AddMatchInput) (round.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.AddMatch")
	defer span.End()

	homeTeamID := strings.TrimSpace(input.HomeTeamID)
	awayTeamID := strings.TrimSpace(input.AwayTeamID)
	if homeTeamID == "" || awayTeamID == "" {
		return round.Match{}, fmt.Errorf("%w: home and away team ids are required", ErrInvalidInput)
	}
	if homeTeamID == awayTeamID {
		return round.Match{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}
	if input.KickoffAt.IsZero() {
		return round.Match{}, fmt.Errorf("%w: kickoff time is required", ErrInvalidInput)
	}

	current, err := s.loadRound(ctx, input.RoundID)
	if err != nil {
		return round.Match{}, err
	}
	if current.Status != round.StatusDraft {
		return round.Match{}, fmt.Errorf("%w: %w: round=%s status=%s", ErrInvalidInput, round.ErrNotDraft, current.ID, current.Status)
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return round.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	match := round.Match{
		ID:         matchID,
		RoundID:    current.ID,
		HomeTeamID: homeTeamID,
		AwayTeamID: awayTeamID,
		KickoffAt:  input.KickoffAt.UTC(),
		Status:     round.MatchScheduled,
	}
	if err := s.rounds.AddMatch(ctx, match, current.Version); err != nil {
		return round.Match{}, s.mapRoundWriteErr("add match", err)
	}

	return match, nil
}

// Publish opens a draft round for predictions. expectedVersion, when set, must
// match the stored version.
func (s *RoundService) Publish(ctx context.Context, roundID string, expectedVersion *int) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Publish", roundAttr(roundID))
	defer span.End()

	return s.transition(ctx, roundID, round.StatusPublished, expectedVersion)
}

// Complete closes a published round and finalizes league results. A failed
// finalization leaves the round completed; it can be retried with Finalize.
func (s *RoundService) Complete(ctx context.Context, roundID string, expectedVersion *int) (round.Round, FinalizeReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Complete", roundAttr(roundID))
	defer span.End()

	completed, err := s.transition(ctx, roundID, round.StatusCompleted, expectedVersion)
	if err != nil {
		return round.Round{}, FinalizeReport{}, err
	}

	report, err := s.finalizer.FinalizeRound(ctx, completed.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "finalize completed round failed", "round_id", completed.ID, "error", err)
		return completed, report, spanFailed(span, err)
	}

	return completed, report, nil
}

// Finalize recomputes league results for an already completed round.
func (s *RoundService) Finalize(ctx context.Context, roundID string) (FinalizeReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Finalize", roundAttr(roundID))
	defer span.End()

	return s.finalizer.FinalizeRound(ctx, strings.TrimSpace(roundID))
}

func (s *RoundService) StartMatch(ctx context.Context, matchID string) (round.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.StartMatch")
	defer span.End()

	current, match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return round.Match{}, err
	}
	if current.Status != round.StatusPublished {
		return round.Match{}, fmt.Errorf("%w: round=%s is %s", ErrInvalidInput, current.ID, current.Status)
	}

	started, err := match.Start()
	if err != nil {
		return round.Match{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.rounds.UpdateMatch(ctx, started); err != nil {
		return round.Match{}, s.mapRoundWriteErr("start match", err)
	}

	return started, nil
}

func (s *RoundService) RecordMatchResult(ctx context.Context, matchID string, homeScore, awayScore int) (round.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.RecordMatchResult")
	defer span.End()

	current, match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return round.Match{}, err
	}
	if current.Status != round.StatusPublished {
		return round.Match{}, fmt.Errorf("%w: round=%s is %s", ErrInvalidInput, current.ID, current.Status)
	}

	completed, err := match.Complete(homeScore, awayScore)
	if err != nil {
		return round.Match{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.rounds.UpdateMatch(ctx, completed); err != nil {
		return round.Match{}, s.mapRoundWriteErr("record match result", err)
	}

	s.logger.InfoContext(ctx, "match result recorded", "match_id", completed.ID, "round_id", completed.RoundID, "home", homeScore, "away", awayScore)
	return completed, nil
}

func (s *RoundService) transition(ctx context.Context, roundID string, target round.Status, expectedVersion *int) (round.Round, error) {
	current, err := s.loadRound(ctx, roundID)
	if err != nil {
		return round.Round{}, err
	}
	if expectedVersion != nil && *expectedVersion != current.Version {
		return round.Round{}, fmt.Errorf("%w: round=%s expected version=%d actual=%d", ErrConflict, current.ID, *expectedVersion, current.Version)
	}

	next, err := round.Transition(current, target)
	if err != nil {
		s.logger.ErrorContext(ctx, "rejected round transition", "round_id", current.ID, "from", current.Status, "to", target, "error", err)
		return round.Round{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.rounds.UpdateStatus(ctx, next, current.Version); err != nil {
		return round.Round{}, s.mapRoundWriteErr("update round status", err)
	}

	s.metrics.RoundTransitioned(string(next.Status))
	s.logger.InfoContext(ctx, "round transitioned", "round_id", next.ID, "status", next.Status, "version", next.Version)
	return next, nil
}

func (s *RoundService) loadRound(ctx context.Context, roundID string) (round.Round, error) {
	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return round.Round{}, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}

	item, exists, err := s.rounds.GetByID(ctx, roundID)
	if err != nil {
		return round.Round{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return round.Round{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	return item, nil
}

func (s *RoundService) loadMatch(ctx context.Context, matchID string) (round.Round, round.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return round.Round{}, round.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.rounds.GetByMatchID(ctx, matchID)
	if err != nil {
		return round.Round{}, round.Match{}, fmt.Errorf("get round by match: %w", err)
	}
	if !exists {
		return round.Round{}, round.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	match, ok := item.MatchByID(matchID)
	if !ok {
		return round.Round{}, round.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, match, nil
}

func (s *RoundService) mapRoundWriteErr(op string, err error) error {
	switch {
	case errors.Is(err, round.ErrVersionConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, round.ErrRoundClosed), errors.Is(err, round.ErrNotDraft):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
