package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/reelboard/internal/mcp"
)

// JSON-RPC 2.0 error codes.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInternal       = -32603
	// ErrApplication is a board error; the data holds the mcp.APIError.
	ErrApplication = -32000
)

var (
	errParse          = errors.New("parse error")
	errInvalidRequest = errors.New("invalid request")
)

// Request is a single JSON-RPC 2.0 call naming one board tool.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Data    *mcp.APIError `json:"data,omitempty"`
}

// ParseRequest reads one request. Batches are not supported.
func ParseRequest(body io.Reader) (Request, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return Request{}, fmt.Errorf("%w: %v", errParse, err)
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, fmt.Errorf("%w: not a request object", errInvalidRequest)
	}
	if req.JSONRPC != "2.0" {
		return Request{}, fmt.Errorf("%w: jsonrpc must be \"2.0\"", errInvalidRequest)
	}
	if req.Method == "" {
		return Request{}, fmt.Errorf("%w: method is required", errInvalidRequest)
	}
	return req, nil
}

// toRPCError maps a parse or dispatch error onto a JSON-RPC error object.
// ok is false for errors with no client-facing code.
func toRPCError(err error) (rpcErr *Error, ok bool) {
	var apiErr *mcp.APIError
	switch {
	case errors.Is(err, errParse):
		return &Error{Code: ErrParseCode, Message: err.Error()}, true
	case errors.Is(err, errInvalidRequest):
		return &Error{Code: ErrInvalidReq, Message: err.Error()}, true
	case errors.Is(err, mcp.ErrUnknownMethod):
		return &Error{Code: ErrMethodNotFound, Message: err.Error()}, true
	case errors.As(err, &apiErr):
		return &Error{Code: ErrApplication, Message: apiErr.Message, Data: apiErr}, true
	}
	return &Error{Code: ErrInternal, Message: "internal error"}, false
}

// WriteResult writes a JSON-RPC success response.
func WriteResult(w http.ResponseWriter, id any, result any) {
	writeRPC(w, Response{JSONRPC: "2.0", Result: result, ID: id})
}

// WriteError writes err as a JSON-RPC error response.
func WriteError(w http.ResponseWriter, id any, rpcErr *Error) {
	writeRPC(w, Response{JSONRPC: "2.0", Error: rpcErr, ID: id})
}

func writeRPC(w http.ResponseWriter, payload Response) {
	writeJSON(w, http.StatusOK, payload)
}
