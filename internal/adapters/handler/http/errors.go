package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

var errInvalidBody = &domain.Error{Kind: domain.KindInvalidInput, Code: "invalid_body", Message: "invalid request body"}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {error, message}. Untyped errors are logged and
// reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	typed := domain.AsError(err)
	if typed.Kind == domain.KindInternal || typed.Kind == domain.KindTransient {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, statusFor(typed.Kind), errorResponse{Error: typed.Code, Message: typed.Message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
