package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rpggio/reelboard/internal/mcp"
)

const codeInternal = "INTERNAL"

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// writeDomainError maps a store error onto an HTTP status and a stable code.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	apiErr := mcp.MapError(err)
	if apiErr == nil {
		logger.Error("request failed", "error", err)
		writeErrorCode(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}
	writeErrorCode(w, statusForCode(apiErr.Code), apiErr.Code, apiErr.Message)
}

func statusForCode(code string) int {
	switch code {
	case mcp.CodeInvalidInput, mcp.CodeInvalidStatus:
		return http.StatusBadRequest
	case mcp.CodeLoadFailed:
		return http.StatusBadGateway
	case mcp.CodeMovieNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON object strictly; unknown fields are rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorCode(w, http.StatusRequestEntityTooLarge, mcp.CodeInvalidInput, "request body too large")
			return false
		}
		writeErrorCode(w, http.StatusBadRequest, mcp.CodeInvalidInput, "malformed JSON body: "+err.Error())
		return false
	}
	return true
}
