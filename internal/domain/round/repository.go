package round

import "context"

type Repository interface {
	Create(ctx context.Context, r Round) error
	GetByID(ctx context.Context, roundID string) (Round, bool, error)
	GetByMatchID(ctx context.Context, matchID string) (Round, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Round, error)
	// AddMatch stores m only while the round is DRAFT and still at
	// expectedVersion, and bumps the round version. A stale version fails with
	// ErrVersionConflict, a round past DRAFT with ErrNotDraft.
	AddMatch(ctx context.Context, m Match, expectedVersion int) error
	// UpdateMatch persists a match change; it fails with ErrRoundClosed when the
	// owning round has already completed.
	UpdateMatch(ctx context.Context, m Match) error
	// UpdateStatus stores r only if the persisted version still equals
	// expectedVersion, otherwise ErrVersionConflict.
	UpdateStatus(ctx context.Context, r Round, expectedVersion int) error
}
