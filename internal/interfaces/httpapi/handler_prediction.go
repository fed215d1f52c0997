package httpapi

import (
	"net/http"

	"github.com/riskibarqy/prediction-league/internal/usecase"
)

func (h *Handler) SubmitPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SubmitPredictions")
	defer span.End()
	r = r.WithContext(ctx)

	userID, _ := userIDFromContext(ctx)
	roundID := r.PathValue("roundID")

	var req submitPredictionsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inputs := make([]usecase.PredictionInput, 0, len(req.Predictions))
	for _, item := range req.Predictions {
		inputs = append(inputs, usecase.PredictionInput{
			MatchID:   item.MatchID,
			HomeScore: *item.HomeScore,
			AwayScore: *item.AwayScore,
		})
	}

	saved, err := h.predictionService.Submit(ctx, userID, roundID, inputs)
	if err != nil {
		h.fail(w, r, "submit predictions failed", err, "user_id", userID, "round_id", roundID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionsToDTO(saved))
}

func (h *Handler) ListMyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListMyPredictions")
	defer span.End()
	r = r.WithContext(ctx)

	userID, _ := userIDFromContext(ctx)
	roundID := r.PathValue("roundID")

	items, err := h.predictionService.ListMine(ctx, userID, roundID)
	if err != nil {
		h.fail(w, r, "list predictions failed", err, "user_id", userID, "round_id", roundID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionsToDTO(items))
}
