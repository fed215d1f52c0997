package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	envelopeAPIVersion = "2.0"
	errorDomain        = "prediction-league"
	internalMessage    = "internal server error"
)

var errRateLimited = errors.New("rate limit exceeded")

// envelope is the body of every response: data on success, error otherwise.
type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

// errorItem carries machine-readable reasons. The first item is always the
// error class; a second one names the domain rule that tripped, if known.
type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
	// Detail is the domain-level reason, empty when none matched.
	Detail string
}

type errorClass struct {
	target error
	mappedError
}

var errorClasses = []errorClass{
	{usecase.ErrInvalidInput, mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"}},
	{usecase.ErrUnauthorized, mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized", Status: "UNAUTHENTICATED"}},
	{usecase.ErrForbidden, mappedError{HTTPStatus: http.StatusForbidden, Reason: "forbidden", Status: "PERMISSION_DENIED"}},
	{usecase.ErrConflict, mappedError{HTTPStatus: http.StatusConflict, Reason: "conflict", Status: "ABORTED"}},
	{errRateLimited, mappedError{HTTPStatus: http.StatusTooManyRequests, Reason: "rateLimitExceeded", Status: "RESOURCE_EXHAUSTED"}},
	{usecase.ErrDependencyUnavailable, mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"}},
}

var internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

// domainReasons is checked in order; the first match wins.
var domainReasons = []struct {
	target error
	reason string
}{
	{round.ErrDeadlinePassed, "deadlinePassed"},
	{round.ErrRoundNotOpen, "roundNotOpen"},
	{round.ErrRoundClosed, "roundClosed"},
	{round.ErrVersionConflict, "versionConflict"},
	{round.ErrInvalidTransition, "invalidTransition"},
	{round.ErrNoMatches, "noMatches"},
	{round.ErrMatchesIncomplete, "matchesIncomplete"},
	{round.ErrInvalidMatchState, "invalidMatchState"},
	{round.ErrInvalidScore, "invalidScore"},
	{round.ErrDuplicateRound, "duplicateRound"},
	{round.ErrNotDraft, "roundNotDraft"},
	{boost.ErrAlreadyBoosted, "alreadyBoosted"},
	{boost.ErrUsageConflict, "boostUsageConflict"},
	{membership.ErrDuplicateLeague, "duplicateLeague"},
}

// writeJSON encodes into a pooled buffer first so a failed encode never
// leaves a half-written body behind a 2xx status.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w.Header().Set("Content-Type", "application/json")
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"apiVersion":"2.0","error":{"code":500,"message":"internal server error","status":"INTERNAL"}}`))
		return
	}
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, envelope{APIVersion: envelopeAPIVersion, Data: data})
}

// writeError maps err onto the envelope. Messages of unmapped errors never
// reach the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	message := internalMessage
	if mapped.HTTPStatus != http.StatusInternalServerError && err != nil {
		message = err.Error()
	}
	writeErrorBody(ctx, w, mapped, message)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeErrorBody(ctx, w, internalError, internalMessage)
}

func writeErrorBody(ctx context.Context, w http.ResponseWriter, mapped mappedError, message string) {
	items := []errorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}}
	if mapped.Detail != "" {
		items = append(items, errorItem{Domain: errorDomain, Reason: mapped.Detail, Message: message})
	}
	writeJSON(ctx, w, mapped.HTTPStatus, envelope{
		APIVersion: envelopeAPIVersion,
		Error: &errorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  items,
		},
	})
}

func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	for _, class := range errorClasses {
		if !errors.Is(err, class.target) {
			continue
		}
		out := class.mappedError
		for _, d := range domainReasons {
			if errors.Is(err, d.target) {
				out.Detail = d.reason
				break
			}
		}
		return out
	}
	return internalError
}
