package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/lightning/pkg/errors"
	"github.com/matzehuels/lightning/pkg/store"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and a coded JSON body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	msg := errors.UserMessage(err)
	if status >= 500 && code == errors.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func classify(err error) (int, errors.Code) {
	var maxBytes *http.MaxBytesError
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, errors.ErrCodeJobNotFound
	case stderrors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput
	}

	code := errors.GetCode(err)
	switch {
	case code == "":
		return http.StatusInternalServerError, errors.ErrCodeInternal
	case errors.IsClientError(err):
		return http.StatusBadRequest, code
	case code == errors.ErrCodeNotFound, code == errors.ErrCodeJobNotFound, code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound, code
	case code == errors.ErrCodeJobNotReady:
		return http.StatusConflict, code
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented, code
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, code
	}
	return http.StatusInternalServerError, code
}
