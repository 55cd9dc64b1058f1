package functional_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/rpggio/reelboard/internal/testserver"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      any             `json:"id,omitempty"`
}

type rpcError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func postJSON(t *testing.T, url string, payload any) (int, []byte) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func rpcCall(t *testing.T, url, method string, params any) rpcResponse {
	t.Helper()

	payload := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		payload["params"] = params
	}

	status, body := postJSON(t, url, payload)
	require.Equal(t, http.StatusOK, status, "body: %s", body)

	var result rpcResponse
	require.NoError(t, json.Unmarshal(body, &result))
	return result
}

// callTool makes a tools/call request against /mcp and unwraps the text result.
func callTool(t *testing.T, ts *testserver.TestServer, toolName string, args any) (json.RawMessage, bool) {
	t.Helper()

	params := map[string]any{"name": toolName}
	if args != nil {
		params["arguments"] = args
	}

	resp := rpcCall(t, ts.URL("/mcp"), "tools/call", params)
	require.Nil(t, resp.Error, "RPC error: %v", resp.Error)

	var toolResult struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &toolResult))
	require.NotEmpty(t, toolResult.Content)
	return json.RawMessage(toolResult.Content[0].Text), toolResult.IsError
}

func mustCallTool(t *testing.T, ts *testserver.TestServer, toolName string, args any) json.RawMessage {
	t.Helper()
	text, isErr := callTool(t, ts, toolName, args)
	require.False(t, isErr, "Tool error: %s", text)
	return text
}

type boardView struct {
	Query     string      `json:"query"`
	Load      loadView    `json:"load"`
	Watchlist []movieView `json:"watchlist"`
	Watching  []movieView `json:"watching"`
	Watched   []movieView `json:"watched"`
}

type loadView struct {
	Phase string `json:"phase"`
	Error string `json:"error"`
}

type movieView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Review string `json:"review"`
	Status string `json:"status"`
}

func names(movies []movieView) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Name
	}
	return out
}

func TestFunctional_LoadThenBoard(t *testing.T) {
	ts := testserver.New(t)

	var before loadView
	require.NoError(t, json.Unmarshal(mustCallTool(t, ts, "get_load_state", nil), &before))
	require.Equal(t, "not-started", before.Phase)

	load := mustCallTool(t, ts, "load_movies", nil)
	var loaded struct {
		Phase  string      `json:"phase"`
		Movies []movieView `json:"movies"`
	}
	require.NoError(t, json.Unmarshal(load, &loaded))
	require.Equal(t, "loaded", loaded.Phase)
	require.Len(t, loaded.Movies, 8)

	var board boardView
	require.NoError(t, json.Unmarshal(mustCallTool(t, ts, "get_board", nil), &board))
	require.Equal(t, "loaded", board.Load.Phase)
	require.Equal(t, []string{"Inception", "The Shawshank Redemption", "Star Wars"}, names(board.Watchlist))
	require.Equal(t, []string{"Interstellar", "The Dark Knight"}, names(board.Watching))
	require.Equal(t, []string{"Pulp Fiction", "The Matrix", "Spirited Away"}, names(board.Watched))
}

func TestFunctional_AddMoveReviewScenario(t *testing.T) {
	ts := testserver.New(t)
	mustCallTool(t, ts, "load_movies", nil)

	var added struct {
		Movie movieView `json:"movie"`
	}
	require.NoError(t, json.Unmarshal(mustCallTool(t, ts, "add_movie", map[string]any{"name": "  Dune  "}), &added))
	require.Equal(t, movieView{ID: 9, Name: "Dune", Status: "watchlist"}, added.Movie)

	var moved struct {
		Found   bool       `json:"found"`
		Changed bool       `json:"changed"`
		Movie   *movieView `json:"movie"`
	}
	require.NoError(t, json.Unmarshal(mustCallTool(t, ts, "move_movie", map[string]any{"id": 9, "status": "watching"}), &moved))
	require.True(t, moved.Found)
	require.True(t, moved.Changed)
	require.Equal(t, "watching", moved.Movie.Status)

	mustCallTool(t, ts, "update_review", map[string]any{"id": 9, "review": "loud"})

	var board boardView
	require.NoError(t, json.Unmarshal(mustCallTool(t, ts, "get_board", map[string]any{"query": "DUNE"}), &board))
	require.Equal(t, "DUNE", board.Query)
	require.Empty(t, board.Watchlist)
	require.Equal(t, []movieView{{ID: 9, Name: "Dune", Review: "loud", Status: "watching"}}, board.Watching)
	require.Empty(t, board.Watched)
}

func TestFunctional_UnknownIDIsNotAnError(t *testing.T) {
	ts := testserver.New(t)
	mustCallTool(t, ts, "load_movies", nil)

	text := mustCallTool(t, ts, "move_movie", map[string]any{"id": 404, "status": "watched"})
	require.JSONEq(t, `{"found":false,"changed":false}`, string(text))
}

func TestFunctional_InvalidInputIsToolError(t *testing.T) {
	ts := testserver.New(t)
	mustCallTool(t, ts, "load_movies", nil)

	text, isErr := callTool(t, ts, "add_movie", map[string]any{"name": "   "})
	require.True(t, isErr)
	require.Contains(t, string(text), "INVALID_INPUT")

	text, isErr = callTool(t, ts, "move_movie", map[string]any{"id": 1, "status": "someday"})
	require.True(t, isErr)
	require.Contains(t, string(text), "INVALID_STATUS")
}

func TestFunctional_RecentActivity(t *testing.T) {
	ts := testserver.New(t)
	mustCallTool(t, ts, "load_movies", nil)
	mustCallTool(t, ts, "add_movie", map[string]any{"name": "Dune"})

	var activity struct {
		Enabled bool `json:"enabled"`
		Entries []struct {
			Type string `json:"type"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(mustCallTool(t, ts, "recent_activity", map[string]any{"limit": 5}), &activity))
	require.True(t, activity.Enabled)
	require.NotEmpty(t, activity.Entries)
	require.Equal(t, "movie_added", activity.Entries[0].Type)
}

func TestFunctional_JSONRPCEndpoint(t *testing.T) {
	ts := testserver.New(t)

	resp := rpcCall(t, ts.URL("/rpc"), "load_movies", nil)
	require.Nil(t, resp.Error)

	resp = rpcCall(t, ts.URL("/rpc"), "set_search_query", map[string]any{"query": "the"})
	require.Nil(t, resp.Error)

	resp = rpcCall(t, ts.URL("/rpc"), "list_movies", map[string]any{"status": "watched"})
	require.Nil(t, resp.Error)
	var list struct {
		Movies []movieView `json:"movies"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &list))
	require.Equal(t, []string{"The Matrix"}, names(list.Movies))

	resp = rpcCall(t, ts.URL("/rpc"), "no_such_method", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, -32601, resp.Error.Code)

	resp = rpcCall(t, ts.URL("/rpc"), "move_movie", map[string]any{"id": 1, "status": "later"})
	require.NotNil(t, resp.Error)
	require.Equal(t, -32000, resp.Error.Code)
	require.Equal(t, "INVALID_STATUS", resp.Error.Data["code"])
}

func TestFunctional_RESTBoard(t *testing.T) {
	ts := testserver.New(t)

	status, body := postJSON(t, ts.URL("/api/load"), map[string]any{})
	require.Equal(t, http.StatusOK, status, "body: %s", body)

	status, body = postJSON(t, ts.URL("/api/movies"), map[string]any{"name": "Arrival", "status": "watched"})
	require.Equal(t, http.StatusCreated, status, "body: %s", body)

	resp, err := http.Get(ts.URL("/api/board"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var board boardView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&board))
	require.Contains(t, names(board.Watched), "Arrival")
}
