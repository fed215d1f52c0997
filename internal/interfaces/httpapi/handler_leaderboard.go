package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/leaderboard"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetLeaderboard")
	defer span.End()
	r = r.WithContext(ctx)

	userID, _ := userIDFromContext(ctx)
	leagueID := r.PathValue("leagueID")

	query := r.URL.Query()
	scope, err := leaderboard.ParseScope(query.Get("scope"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}
	month, err := parseMonth(query.Get("month"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.leaderboardService.Standings(ctx, usecase.StandingsRequest{
		LeagueID: leagueID,
		ViewerID: userID,
		Scope:    scope,
		Month:    month,
	})
	if err != nil {
		h.fail(w, r, "get leaderboard failed", err, "league_id", leagueID, "scope", scope)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(standings))
}

func (h *Handler) GetLeaderboardOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetLeaderboardOverview")
	defer span.End()
	r = r.WithContext(ctx)

	userID, _ := userIDFromContext(ctx)
	leagueID := r.PathValue("leagueID")

	overview, err := h.leaderboardService.Overview(ctx, leagueID, userID)
	if err != nil {
		h.fail(w, r, "get leaderboard overview failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardOverviewDTO{
		LeagueID: overview.LeagueID,
		Season:   standingsToDTO(overview.Season),
		Month:    standingsToDTO(overview.Month),
		Exact:    standingsToDTO(overview.Exact),
	})
}

func (h *Handler) GetSeasonSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetSeasonSummary")
	defer span.End()
	r = r.WithContext(ctx)

	userID, _ := userIDFromContext(ctx)
	leagueID := r.PathValue("leagueID")

	summary, err := h.leaderboardService.Summary(ctx, leagueID, userID)
	if err != nil {
		h.fail(w, r, "get season summary failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summaryToDTO(summary))
}

func parseMonth(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	month, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month must be YYYY-MM, got %q", usecase.ErrInvalidInput, raw)
	}
	return month, nil
}
