package httpapi

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/leaderboard"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type createRoundRequest struct {
	SeasonID   string    `json:"seasonId" validate:"required,max=64"`
	Number     int       `json:"number" validate:"required,min=1"`
	StartsAt   time.Time `json:"startsAt" validate:"required"`
	DeadlineAt time.Time `json:"deadlineAt" validate:"required"`
}

type addMatchRequest struct {
	HomeTeamID string    `json:"homeTeamId" validate:"required,max=64"`
	AwayTeamID string    `json:"awayTeamId" validate:"required,max=64,nefield=HomeTeamID"`
	KickoffAt  time.Time `json:"kickoffAt" validate:"required"`
}

type transitionRoundRequest struct {
	ExpectedVersion *int `json:"expectedVersion,omitempty" validate:"omitempty,min=1"`
}

type matchResultRequest struct {
	HomeScore *int `json:"homeScore" validate:"required,min=0,max=99"`
	AwayScore *int `json:"awayScore" validate:"required,min=0,max=99"`
}

type submitPredictionsRequest struct {
	Predictions []predictionItemRequest `json:"predictions" validate:"required,min=1,max=64,dive"`
}

type predictionItemRequest struct {
	MatchID   string `json:"matchId" validate:"required"`
	HomeScore *int   `json:"homeScore" validate:"required,min=0,max=99"`
	AwayScore *int   `json:"awayScore" validate:"required,min=0,max=99"`
}

type createLeagueRequest struct {
	SeasonID         string `json:"seasonId" validate:"required,max=64"`
	Name             string `json:"name" validate:"required,max=120"`
	OwnerUserID      string `json:"ownerUserId" validate:"required,max=64"`
	OwnerDisplayName string `json:"ownerDisplayName" validate:"omitempty,max=64"`
}

type addMemberRequest struct {
	UserID      string `json:"userId" validate:"required,max=64"`
	DisplayName string `json:"displayName" validate:"omitempty,max=64"`
}

type configureBoostRequest struct {
	Enabled            bool                 `json:"enabled"`
	TotalUsesPerSeason int                  `json:"totalUsesPerSeason" validate:"min=0"`
	Windows            []usageWindowRequest `json:"windows" validate:"dive"`
}

type usageWindowRequest struct {
	StartRound int `json:"startRound" validate:"required,min=1"`
	EndRound   int `json:"endRound" validate:"required,gtefield=StartRound"`
	MaxUses    int `json:"maxUses" validate:"min=0"`
}

type roundDTO struct {
	ID         string     `json:"id"`
	SeasonID   string     `json:"seasonId"`
	Number     int        `json:"number"`
	StartsAt   time.Time  `json:"startsAt"`
	DeadlineAt time.Time  `json:"deadlineAt"`
	Status     string     `json:"status"`
	Version    int        `json:"version"`
	Matches    []matchDTO `json:"matches"`
}

type matchDTO struct {
	ID         string    `json:"id"`
	RoundID    string    `json:"roundId"`
	HomeTeamID string    `json:"homeTeamId"`
	AwayTeamID string    `json:"awayTeamId"`
	KickoffAt  time.Time `json:"kickoffAt"`
	HomeScore  *int      `json:"homeScore,omitempty"`
	AwayScore  *int      `json:"awayScore,omitempty"`
	Status     string    `json:"status"`
}

type completeRoundDTO struct {
	Round    roundDTO          `json:"round"`
	Finalize finalizeReportDTO `json:"finalize"`
}

type finalizeReportDTO struct {
	RoundID string                  `json:"roundId"`
	Leagues []leagueFinalizeItemDTO `json:"leagues"`
}

type leagueFinalizeItemDTO struct {
	LeagueID    string `json:"leagueId"`
	Rows        int    `json:"rows"`
	BoostedRows int    `json:"boostedRows"`
	Error       string `json:"error,omitempty"`
}

type predictionDTO struct {
	MatchID     string    `json:"matchId"`
	RoundID     string    `json:"roundId"`
	HomeScore   int       `json:"homeScore"`
	AwayScore   int       `json:"awayScore"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type leagueDTO struct {
	ID          string    `json:"id"`
	SeasonID    string    `json:"seasonId"`
	Name        string    `json:"name"`
	OwnerUserID string    `json:"ownerUserId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type memberDTO struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	JoinedAt    time.Time `json:"joinedAt"`
}

type boostRuleDTO struct {
	Code               string           `json:"code"`
	Enabled            bool             `json:"enabled"`
	TotalUsesPerSeason int              `json:"totalUsesPerSeason"`
	Windows            []usageWindowDTO `json:"windows"`
}

type usageWindowDTO struct {
	StartRound int `json:"startRound"`
	EndRound   int `json:"endRound"`
	MaxUses    int `json:"maxUses"`
}

type boostDecisionDTO struct {
	Outcome             string          `json:"outcome"`
	Reason              string          `json:"reason,omitempty"`
	RemainingSeasonUses int             `json:"remainingSeasonUses"`
	RemainingWindowUses int             `json:"remainingWindowUses"`
	Window              *usageWindowDTO `json:"window,omitempty"`
}

type boostAvailabilityDTO struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	EffectKind  string           `json:"effectKind"`
	EffectValue int              `json:"effectValue"`
	Decision    boostDecisionDTO `json:"decision"`
}

type boostOverviewDTO struct {
	LeagueID string                 `json:"leagueId"`
	RoundID  string                 `json:"roundId"`
	Items    []boostAvailabilityDTO `json:"items"`
}

type applyBoostDTO struct {
	Applied  bool             `json:"applied"`
	Decision boostDecisionDTO `json:"decision"`
	Result   *roundResultDTO  `json:"result,omitempty"`
}

type roundResultDTO struct {
	RoundID      string `json:"roundId"`
	RoundNumber  int    `json:"roundNumber"`
	BasePoints   int    `json:"basePoints"`
	FinalPoints  int    `json:"finalPoints"`
	ExactScores  int    `json:"exactScores"`
	BoostApplied bool   `json:"boostApplied"`
	BoostCode    string `json:"boostCode,omitempty"`
}

type standingsDTO struct {
	LeagueID string                `json:"leagueId"`
	Scope    string                `json:"scope"`
	Month    string                `json:"month,omitempty"`
	Policy   string                `json:"policy"`
	Entries  []leaderboardEntryDTO `json:"entries"`
}

type leaderboardEntryDTO struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	Value        int    `json:"value"`
	PreviousRank *int   `json:"previousRank,omitempty"`
	Movement     string `json:"movement"`
}

type leaderboardOverviewDTO struct {
	LeagueID string       `json:"leagueId"`
	Season   standingsDTO `json:"season"`
	Month    standingsDTO `json:"month"`
	Exact    standingsDTO `json:"exact"`
}

type seasonSummaryDTO struct {
	LeagueID      string  `json:"leagueId"`
	UserID        string  `json:"userId"`
	DisplayName   string  `json:"displayName"`
	Rank          int     `json:"rank"`
	TotalPoints   int     `json:"totalPoints"`
	AveragePoints float64 `json:"averagePoints"`
	HighestPoints int     `json:"highestPoints"`
	RoundsPlayed  int     `json:"roundsPlayed"`
	ExactScores   int     `json:"exactScores"`
	BoostsUsed    int     `json:"boostsUsed"`
}

func roundToDTO(r round.Round) roundDTO {
	matches := make([]matchDTO, 0, len(r.Matches))
	for _, m := range r.Matches {
		matches = append(matches, matchToDTO(m))
	}
	return roundDTO{
		ID:         r.ID,
		SeasonID:   r.SeasonID,
		Number:     r.Number,
		StartsAt:   r.StartsAt,
		DeadlineAt: r.DeadlineAt,
		Status:     string(r.Status),
		Version:    r.Version,
		Matches:    matches,
	}
}

func matchToDTO(m round.Match) matchDTO {
	return matchDTO{
		ID:         m.ID,
		RoundID:    m.RoundID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		KickoffAt:  m.KickoffAt,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		Status:     string(m.Status),
	}
}

func finalizeReportToDTO(report usecase.FinalizeReport) finalizeReportDTO {
	items := make([]leagueFinalizeItemDTO, 0, len(report.Leagues))
	for _, l := range report.Leagues {
		item := leagueFinalizeItemDTO{
			LeagueID:    l.LeagueID,
			Rows:        l.Rows,
			BoostedRows: l.BoostedRows,
		}
		if l.Err != nil {
			item.Error = l.Err.Error()
		}
		items = append(items, item)
	}
	return finalizeReportDTO{RoundID: report.RoundID, Leagues: items}
}

func predictionsToDTO(items []prediction.Prediction) []predictionDTO {
	out := make([]predictionDTO, 0, len(items))
	for _, p := range items {
		out = append(out, predictionDTO{
			MatchID:     p.MatchID,
			RoundID:     p.RoundID,
			HomeScore:   p.HomeScore,
			AwayScore:   p.AwayScore,
			SubmittedAt: p.SubmittedAt,
		})
	}
	return out
}

func leagueToDTO(l membership.League) leagueDTO {
	return leagueDTO{
		ID:          l.ID,
		SeasonID:    l.SeasonID,
		Name:        l.Name,
		OwnerUserID: l.OwnerUserID,
		CreatedAt:   l.CreatedAt,
	}
}

func membersToDTO(items []membership.Member) []memberDTO {
	out := make([]memberDTO, 0, len(items))
	for _, m := range items {
		out = append(out, memberDTO{UserID: m.UserID, DisplayName: m.DisplayName, JoinedAt: m.JoinedAt})
	}
	return out
}

func boostRuleToDTO(rule boost.LeagueRule) boostRuleDTO {
	windows := make([]usageWindowDTO, 0, len(rule.Windows))
	for _, w := range rule.Windows {
		windows = append(windows, usageWindowDTO{StartRound: w.StartRound, EndRound: w.EndRound, MaxUses: w.MaxUses})
	}
	return boostRuleDTO{
		Code:               rule.Code,
		Enabled:            rule.Enabled,
		TotalUsesPerSeason: rule.TotalUsesPerSeason,
		Windows:            windows,
	}
}

func decisionToDTO(d boost.Decision) boostDecisionDTO {
	out := boostDecisionDTO{
		Outcome:             string(d.Outcome),
		Reason:              d.Reason,
		RemainingSeasonUses: d.RemainingSeasonUses,
		RemainingWindowUses: d.RemainingWindowUses,
	}
	if d.Window != nil {
		out.Window = &usageWindowDTO{StartRound: d.Window.StartRound, EndRound: d.Window.EndRound, MaxUses: d.Window.MaxUses}
	}
	return out
}

func boostOverviewToDTO(o usecase.BoostOverview) boostOverviewDTO {
	items := make([]boostAvailabilityDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, boostAvailabilityDTO{
			Code:        item.Definition.Code,
			Name:        item.Definition.Name,
			Description: item.Definition.Description,
			EffectKind:  string(item.Effect.Kind),
			EffectValue: item.Effect.Value,
			Decision:    decisionToDTO(item.Decision),
		})
	}
	return boostOverviewDTO{LeagueID: o.LeagueID, RoundID: o.RoundID, Items: items}
}

func applyBoostToDTO(res usecase.ApplyBoostResult) applyBoostDTO {
	out := applyBoostDTO{Applied: res.Applied, Decision: decisionToDTO(res.Decision)}
	if res.Applied {
		item := roundResultToDTO(res.Result)
		out.Result = &item
	}
	return out
}

func roundResultToDTO(r result.RoundResult) roundResultDTO {
	return roundResultDTO{
		RoundID:      r.RoundID,
		RoundNumber:  r.RoundNumber,
		BasePoints:   r.BasePoints,
		FinalPoints:  r.FinalPoints,
		ExactScores:  r.ExactScores,
		BoostApplied: r.BoostApplied,
		BoostCode:    r.BoostCode,
	}
}

func standingsToDTO(s usecase.Standings) standingsDTO {
	entries := make([]leaderboardEntryDTO, 0, len(s.Entries))
	for _, e := range s.Entries {
		entries = append(entries, entryToDTO(e))
	}
	return standingsDTO{
		LeagueID: s.LeagueID,
		Scope:    string(s.Scope),
		Month:    s.Month,
		Policy:   string(s.Policy),
		Entries:  entries,
	}
}

func entryToDTO(e leaderboard.Entry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		Rank:         e.Rank,
		UserID:       e.UserID,
		DisplayName:  e.DisplayName,
		Value:        e.Value,
		PreviousRank: e.PreviousRank,
		Movement:     string(e.Movement),
	}
}

func summaryToDTO(s usecase.SeasonSummary) seasonSummaryDTO {
	return seasonSummaryDTO{
		LeagueID:      s.LeagueID,
		UserID:        s.UserID,
		DisplayName:   s.DisplayName,
		Rank:          s.Rank,
		TotalPoints:   s.TotalPoints,
		AveragePoints: s.AveragePoints,
		HighestPoints: s.HighestPoints,
		RoundsPlayed:  s.RoundsPlayed,
		ExactScores:   s.ExactScores,
		BoostsUsed:    s.BoostsUsed,
	}
}
