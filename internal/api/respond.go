package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeEmptyID, errors.ErrCodeSameEndpoint,
		errors.ErrCodeMissingEndpoint, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeUnknownNode, errors.ErrCodeEdgeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeReadOnlyAccess:
		return http.StatusForbidden
	case errors.ErrCodeDuplicateID:
		return http.StatusConflict
	case errors.ErrCodeInvalidDirection, errors.ErrCodeNoPath:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError reports err with its code. Errors without a code are logged and
// surface as INTERNAL_ERROR without their message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" || code == errors.ErrCodeInternal {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		code, msg = errors.ErrCodeInternal, "internal error"
	}
	var e *errors.Error
	if code == errors.ErrCodeInvalidInput && stderrors.As(err, &e) && e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	writeJSON(w, statusFor(code), errorResponse{Error: errorBody{Code: code, Message: msg}})
}

// decode reads a JSON body into v and checks its validate tags.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return graph.Validate(v)
}
