package httpapi

import "net/http"

func (h *Handler) GetBoostOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetBoostOverview")
	defer span.End()
	r = r.WithContext(ctx)

	userID, _ := userIDFromContext(ctx)
	leagueID := r.PathValue("leagueID")
	roundID := r.PathValue("roundID")

	overview, err := h.boostService.Overview(ctx, userID, leagueID, roundID)
	if err != nil {
		h.fail(w, r, "boost overview failed", err, "league_id", leagueID, "round_id", roundID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boostOverviewToDTO(overview))
}

// ApplyBoost answers 200 with applied=false when the decision denies the boost;
// only request and state errors map to 4xx.
func (h *Handler) ApplyBoost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ApplyBoost")
	defer span.End()
	r = r.WithContext(ctx)

	userID, _ := userIDFromContext(ctx)
	leagueID := r.PathValue("leagueID")
	roundID := r.PathValue("roundID")
	code := r.PathValue("code")

	res, err := h.boostService.Apply(ctx, userID, leagueID, roundID, code)
	if err != nil {
		h.fail(w, r, "apply boost failed", err, "league_id", leagueID, "round_id", roundID, "code", code)
		return
	}

	status := http.StatusOK
	if res.Applied {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, applyBoostToDTO(res))
}
