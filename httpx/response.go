package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fieldbind/fieldbind"
	"github.com/fieldbind/fieldbind/bind"
)

// JSONResponse is the standard response envelope.
type JSONResponse struct {
	Code  string       `json:"code,omitempty"`
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries the error payload; Details holds the aggregated
// field -> messages mapping for validation rejections.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RespondError classifies err and writes exactly one structured rejection:
// an aggregated validation report maps to 422 with the full
// field -> messages detail, request-level binding errors to their 4xx
// status, HTTPError to its own code, anything else to 500. 4xx rejections
// log at warn, 5xx at error, both with the request ID extractor attached
// to the logger.
func RespondError(ctx context.Context, w http.ResponseWriter, log *slog.Logger, err error) {
	status, detail := classify(err)

	if log != nil {
		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		log.LogAttrs(ctx, level, "request rejected",
			slog.Int("status", status),
			slog.String("code", detail.Code),
			slog.String("error", err.Error()),
		)
	}

	Respond(w, status, JSONResponse{Code: detail.Code, Error: detail})
}

func classify(err error) (int, *ErrorDetail) {
	var rep fieldbind.Report
	if errors.As(err, &rep) {
		return http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    rep.Code,
			Message: rep.Title,
			Details: rep.Details(),
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, &ErrorDetail{
			Code:    httpErr.Key,
			Message: http.StatusText(httpErr.Code),
		}
	}

	switch {
	case errors.Is(err, bind.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, &ErrorDetail{
			Code:    ErrRequestEntityTooLarge.Key,
			Message: err.Error(),
		}
	case errors.Is(err, bind.ErrMissingContentType), errors.Is(err, bind.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, &ErrorDetail{
			Code:    ErrUnsupportedMediaType.Key,
			Message: err.Error(),
		}
	case errors.Is(err, bind.ErrInvalidJSON):
		return http.StatusBadRequest, &ErrorDetail{
			Code:    ErrBadRequest.Key,
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, &ErrorDetail{
		Code:    ErrInternalServerError.Key,
		Message: "An error occurred processing your request",
	}
}
