package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type Handler struct {
	roundService       *usecase.RoundService
	predictionService  *usecase.PredictionService
	boostService       *usecase.BoostService
	leaderboardService *usecase.LeaderboardService
	leagueService      *usecase.LeagueService
	logger             *logging.Logger
	validator          *validator.Validate
}

type HandlerDeps struct {
	Rounds      *usecase.RoundService
	Predictions *usecase.PredictionService
	Boosts      *usecase.BoostService
	Leaderboard *usecase.LeaderboardService
	Leagues     *usecase.LeagueService
	Logger      *logging.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		roundService:       deps.Rounds,
		predictionService:  deps.Predictions,
		boostService:       deps.Boosts,
		leaderboardService: deps.Leaderboard,
		leagueService:      deps.Leagues,
		logger:             logger.Named("httpapi.handler"),
		validator:          validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail logs server-side failures at error and client mistakes at warn.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error, args ...any) {
	ctx := r.Context()
	args = append(args, "error", err)
	if mapError(ctx, err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	writeError(ctx, w, err)
}
