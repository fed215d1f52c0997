package httpapi

import (
	"net/http"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "CreateLeague")
	defer span.End()
	r = r.WithContext(ctx)

	var req createLeagueRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.leagueService.CreateLeague(ctx, usecase.CreateLeagueInput{
		SeasonID:         req.SeasonID,
		Name:             req.Name,
		OwnerUserID:      req.OwnerUserID,
		OwnerDisplayName: req.OwnerDisplayName,
	})
	if err != nil {
		h.fail(w, r, "create league failed", err, "season_id", req.SeasonID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, leagueToDTO(created))
}

func (h *Handler) AddLeagueMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "AddLeagueMember")
	defer span.End()
	r = r.WithContext(ctx)

	leagueID := r.PathValue("leagueID")
	var req addMemberRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	member, err := h.leagueService.AddMember(ctx, leagueID, req.UserID, req.DisplayName)
	if err != nil {
		h.fail(w, r, "add league member failed", err, "league_id", leagueID, "user_id", req.UserID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, memberDTO{
		UserID:      member.UserID,
		DisplayName: member.DisplayName,
		JoinedAt:    member.JoinedAt,
	})
}

func (h *Handler) ListLeagueMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListLeagueMembers")
	defer span.End()
	r = r.WithContext(ctx)

	leagueID := r.PathValue("leagueID")
	members, err := h.leagueService.ListMembers(ctx, leagueID)
	if err != nil {
		h.fail(w, r, "list league members failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, membersToDTO(members))
}

func (h *Handler) ConfigureBoostRule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ConfigureBoostRule")
	defer span.End()
	r = r.WithContext(ctx)

	leagueID := r.PathValue("leagueID")
	code := r.PathValue("code")
	var req configureBoostRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	windows := make([]boost.UsageWindow, 0, len(req.Windows))
	for _, item := range req.Windows {
		windows = append(windows, boost.UsageWindow{
			StartRound: item.StartRound,
			EndRound:   item.EndRound,
			MaxUses:    item.MaxUses,
		})
	}

	saved, err := h.leagueService.ConfigureBoost(ctx, boost.LeagueRule{
		LeagueID:           leagueID,
		Code:               code,
		Enabled:            req.Enabled,
		TotalUsesPerSeason: req.TotalUsesPerSeason,
		Windows:            windows,
	})
	if err != nil {
		h.fail(w, r, "configure boost rule failed", err, "league_id", leagueID, "code", code)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boostRuleToDTO(saved))
}

func (h *Handler) ListBoostRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListBoostRules")
	defer span.End()
	r = r.WithContext(ctx)

	leagueID := r.PathValue("leagueID")
	rules, err := h.leagueService.ListBoostRules(ctx, leagueID)
	if err != nil {
		h.fail(w, r, "list boost rules failed", err, "league_id", leagueID)
		return
	}

	items := make([]boostRuleDTO, 0, len(rules))
	for _, rule := range rules {
		items = append(items, boostRuleToDTO(rule))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
