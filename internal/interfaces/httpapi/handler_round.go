package httpapi

import (
	"net/http"

	"github.com/riskibarqy/prediction-league/internal/usecase"
)

func (h *Handler) CreateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "CreateRound")
	defer span.End()
	r = r.WithContext(ctx)

	var req createRoundRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.roundService.CreateRound(ctx, usecase.CreateRoundInput{
		SeasonID:   req.SeasonID,
		Number:     req.Number,
		StartsAt:   req.StartsAt,
		DeadlineAt: req.DeadlineAt,
	})
	if err != nil {
		h.fail(w, r, "create round failed", err, "season_id", req.SeasonID, "number", req.Number)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roundToDTO(created))
}

func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetRound")
	defer span.End()
	r = r.WithContext(ctx)

	roundID := r.PathValue("roundID")
	item, err := h.roundService.GetRound(ctx, roundID)
	if err != nil {
		h.fail(w, r, "get round failed", err, "round_id", roundID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(item))
}

func (h *Handler) AddMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "AddMatch")
	defer span.End()
	r = r.WithContext(ctx)

	roundID := r.PathValue("roundID")
	var req addMatchRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	match, err := h.roundService.AddMatch(ctx, usecase.AddMatchInput{
		RoundID:    roundID,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		KickoffAt:  req.KickoffAt,
	})
	if err != nil {
		h.fail(w, r, "add match failed", err, "round_id", roundID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(match))
}

func (h *Handler) PublishRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "PublishRound")
	defer span.End()
	r = r.WithContext(ctx)

	roundID := r.PathValue("roundID")
	req, ok := h.decodeTransition(w, r)
	if !ok {
		return
	}

	published, err := h.roundService.Publish(ctx, roundID, req.ExpectedVersion)
	if err != nil {
		h.fail(w, r, "publish round failed", err, "round_id", roundID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(published))
}

func (h *Handler) CompleteRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "CompleteRound")
	defer span.End()
	r = r.WithContext(ctx)

	roundID := r.PathValue("roundID")
	req, ok := h.decodeTransition(w, r)
	if !ok {
		return
	}

	completed, report, err := h.roundService.Complete(ctx, roundID, req.ExpectedVersion)
	if err != nil {
		h.fail(w, r, "complete round failed", err, "round_id", roundID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, completeRoundDTO{
		Round:    roundToDTO(completed),
		Finalize: finalizeReportToDTO(report),
	})
}

func (h *Handler) FinalizeRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "FinalizeRound")
	defer span.End()
	r = r.WithContext(ctx)

	roundID := r.PathValue("roundID")
	report, err := h.roundService.Finalize(ctx, roundID)
	if err != nil {
		h.fail(w, r, "finalize round failed", err, "round_id", roundID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, finalizeReportToDTO(report))
}

func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "StartMatch")
	defer span.End()
	r = r.WithContext(ctx)

	matchID := r.PathValue("matchID")
	match, err := h.roundService.StartMatch(ctx, matchID)
	if err != nil {
		h.fail(w, r, "start match failed", err, "match_id", matchID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(match))
}

func (h *Handler) RecordMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RecordMatchResult")
	defer span.End()
	r = r.WithContext(ctx)

	matchID := r.PathValue("matchID")
	var req matchResultRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	match, err := h.roundService.RecordMatchResult(ctx, matchID, *req.HomeScore, *req.AwayScore)
	if err != nil {
		h.fail(w, r, "record match result failed", err, "match_id", matchID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(match))
}

// decodeTransition accepts an empty body as "no version check".
func (h *Handler) decodeTransition(w http.ResponseWriter, r *http.Request) (transitionRoundRequest, bool) {
	var req transitionRoundRequest
	if r.ContentLength == 0 {
		return req, true
	}
	if err := h.decodeAndValidate(r.Context(), w, r, &req); err != nil {
		writeError(r.Context(), w, err)
		return req, false
	}
	return req, true
}
