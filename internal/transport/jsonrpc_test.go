package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/reelboard/internal/mcp"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"get_board","params":{"query":"war"},"id":1}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "2.0", req.JSONRPC)
	require.Equal(t, "get_board", req.Method)
	require.Equal(t, json.RawMessage(`{"query":"war"}`), req.Params)
}

func TestParseRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "not json", body: `{"jsonrpc":`, want: errParse},
		{name: "batch", body: `[{"jsonrpc":"2.0","method":"ping","id":1}]`, want: errInvalidRequest},
		{name: "missing method", body: `{"jsonrpc":"2.0","id":1}`, want: errInvalidRequest},
		{name: "wrong version", body: `{"jsonrpc":"1.0","method":"ping","id":1}`, want: errInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(bytes.NewBufferString(tt.body))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestToRPCError(t *testing.T) {
	apiErr := &mcp.APIError{Code: mcp.CodeInvalidStatus, Message: "bad status"}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOK   bool
	}{
		{name: "parse", err: fmt.Errorf("%w: eof", errParse), wantCode: ErrParseCode, wantOK: true},
		{name: "invalid", err: errInvalidRequest, wantCode: ErrInvalidReq, wantOK: true},
		{name: "unknown method", err: fmt.Errorf("%w: drop", mcp.ErrUnknownMethod), wantCode: ErrMethodNotFound, wantOK: true},
		{name: "board error", err: fmt.Errorf("wrapped: %w", apiErr), wantCode: ErrApplication, wantOK: true},
		{name: "other", err: errors.New("disk on fire"), wantCode: ErrInternal, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rpcErr, ok := toRPCError(tt.err)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantCode, rpcErr.Code)
		})
	}

	rpcErr, _ := toRPCError(apiErr)
	require.Same(t, apiErr, rpcErr.Data)

	rpcErr, _ = toRPCError(errors.New("disk on fire"))
	require.NotContains(t, rpcErr.Message, "disk")
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 1, &Error{Code: ErrApplication, Message: "bad status", Data: &mcp.APIError{Code: mcp.CodeInvalidStatus, Message: "bad status"}})

	require.Equal(t, 200, rec.Code)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"bad status","data":{"code":"INVALID_STATUS","message":"bad status"}}}`, rec.Body.String())
}
