package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAdminToken(adminToken, h)
	}

	mux.Handle("POST /v1/admin/rounds", admin(handler.CreateRound))
	mux.Handle("POST /v1/admin/rounds/{roundID}/matches", admin(handler.AddMatch))
	mux.Handle("POST /v1/admin/rounds/{roundID}/publish", admin(handler.PublishRound))
	mux.Handle("POST /v1/admin/rounds/{roundID}/complete", admin(handler.CompleteRound))
	// Re-runs finalization; safe to repeat after a partial league failure.
	mux.Handle("POST /v1/admin/rounds/{roundID}/finalize", admin(handler.FinalizeRound))
	mux.Handle("POST /v1/admin/matches/{matchID}/start", admin(handler.StartMatch))
	mux.Handle("POST /v1/admin/matches/{matchID}/result", admin(handler.RecordMatchResult))

	mux.Handle("POST /v1/admin/leagues", admin(handler.CreateLeague))
	mux.Handle("POST /v1/admin/leagues/{leagueID}/members", admin(handler.AddLeagueMember))
	mux.Handle("PUT /v1/admin/leagues/{leagueID}/boosts/{code}", admin(handler.ConfigureBoostRule))
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler, predictionLimiter *UserRateLimiter) {
	user := func(h http.HandlerFunc) http.Handler {
		return RequireUser(h)
	}

	mux.Handle("GET /v1/rounds/{roundID}", user(handler.GetRound))
	mux.Handle("PUT /v1/rounds/{roundID}/predictions", RequireUser(RateLimitByUser(predictionLimiter, http.HandlerFunc(handler.SubmitPredictions))))
	mux.Handle("GET /v1/rounds/{roundID}/predictions/me", user(handler.ListMyPredictions))

	mux.Handle("GET /v1/leagues/{leagueID}/members", user(handler.ListLeagueMembers))
	mux.Handle("GET /v1/leagues/{leagueID}/boost-rules", user(handler.ListBoostRules))
	mux.Handle("GET /v1/leagues/{leagueID}/rounds/{roundID}/boosts", user(handler.GetBoostOverview))
	mux.Handle("POST /v1/leagues/{leagueID}/rounds/{roundID}/boosts/{code}", user(handler.ApplyBoost))

	mux.Handle("GET /v1/leagues/{leagueID}/leaderboard", user(handler.GetLeaderboard))
	mux.Handle("GET /v1/leagues/{leagueID}/leaderboard/overview", user(handler.GetLeaderboardOverview))
	mux.Handle("GET /v1/leagues/{leagueID}/summary", user(handler.GetSeasonSummary))
}
