package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/membership"
)

type MembershipRepository struct {
	mu      sync.RWMutex
	leagues map[string]membership.League
	members map[string]map[string]membership.Member
}

func NewMembershipRepository(leagues []membership.League, members []membership.Member) *MembershipRepository {
	repo := &MembershipRepository{
		leagues: make(map[string]membership.League, len(leagues)),
		members: make(map[string]map[string]membership.Member),
	}
	for _, l := range leagues {
		repo.leagues[l.ID] = l
	}
	for _, m := range members {
		repo.addMemberLocked(m)
	}

	return repo
}

func (r *MembershipRepository) CreateLeague(_ context.Context, league membership.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.leagues[league.ID]; exists {
		return fmt.Errorf("%w: league=%s", membership.ErrDuplicateLeague, league.ID)
	}
	r.leagues[league.ID] = league
	return nil
}

func (r *MembershipRepository) GetLeague(_ context.Context, leagueID string) (membership.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leagues[leagueID]
	return l, ok, nil
}

func (r *MembershipRepository) ListLeaguesBySeason(_ context.Context, seasonID string) ([]membership.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]membership.League, 0)
	for _, l := range r.leagues {
		if l.SeasonID == seasonID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MembershipRepository) AddMember(_ context.Context, member membership.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leagues[member.LeagueID]; !ok {
		return fmt.Errorf("league not found: %s", member.LeagueID)
	}
	r.addMemberLocked(member)
	return nil
}

func (r *MembershipRepository) addMemberLocked(member membership.Member) {
	byUser, ok := r.members[member.LeagueID]
	if !ok {
		byUser = make(map[string]membership.Member)
		r.members[member.LeagueID] = byUser
	}
	if existing, ok := byUser[member.UserID]; ok {
		member.JoinedAt = existing.JoinedAt
	}
	byUser[member.UserID] = member
}

func (r *MembershipRepository) ListMembers(_ context.Context, leagueID string) ([]membership.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byUser := r.members[leagueID]
	out := make([]membership.Member, 0, len(byUser))
	for _, m := range byUser {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *MembershipRepository) IsMember(_ context.Context, leagueID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.members[leagueID][userID]
	return ok, nil
}
