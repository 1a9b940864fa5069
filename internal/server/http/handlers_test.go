package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negachess/internal/engine"
	"negachess/internal/server/game"
)

func newTestServer(t *testing.T, webDir string) (*httptest.Server, *game.Manager) {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Seed = 7
	games := game.NewManager(game.WithStrategy(engine.StrategyRandom, cfg), game.WithTick(time.Millisecond))
	h := NewHandler(games, nil, engine.StrategyNegamax, cfg)
	srv := httptest.NewServer(NewRouter(h, webDir))
	t.Cleanup(func() {
		srv.Close()
		games.Close()
	})
	return srv, games
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func newGame(t *testing.T, srv *httptest.Server, req NewGameRequest) GameResponse {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/games", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var g GameResponse
	decode(t, resp, &g)
	return g
}

func TestGameLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, "")

	g := newGame(t, srv, NewGameRequest{White: "human", Black: "human"})
	assert.NotEmpty(t, g.GameID)
	assert.Equal(t, "white", g.ToMove)
	assert.Len(t, g.LegalMoves, 20)
	assert.Equal(t, "ongoing", g.Status)

	resp := postJSON(t, srv.URL+"/api/games/"+g.GameID+"/moves", MoveRequest{Move: "e2e4"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &g)
	assert.Equal(t, "black", g.ToMove)
	assert.Equal(t, "e2e4", g.LastMove)
	assert.Equal(t, 1, g.Ply)

	resp, err := http.Get(srv.URL + "/api/games/" + g.GameID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &g)
	assert.Equal(t, []string{"e4"}, g.History)

	resp = postJSON(t, srv.URL+"/api/games/"+g.GameID+"/undo", struct{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &g)
	assert.Equal(t, 0, g.Ply)

	resp = postJSON(t, srv.URL+"/api/games/"+g.GameID+"/undo", struct{}{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestMoveErrors(t *testing.T) {
	srv, _ := newTestServer(t, "")
	g := newGame(t, srv, NewGameRequest{FEN: "8/P7/8/8/8/8/8/k1K5 w - - 0 1"})

	cases := []struct {
		name   string
		id     string
		move   string
		status int
	}{
		{"illegal", g.GameID, "a7a6", http.StatusBadRequest},
		{"garbage", g.GameID, "xyz", http.StatusBadRequest},
		{"promotion", g.GameID, "a7a8", http.StatusUnprocessableEntity},
		{"missing game", "nope", "a7a8q", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/games/"+tc.id+"/moves", MoveRequest{Move: tc.move})
			var e ErrorResponse
			decode(t, resp, &e)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotEmpty(t, e.Error)
		})
	}

	resp, err := http.Post(srv.URL+"/api/games", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/games", NewGameRequest{FEN: "not a fen"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/games", NewGameRequest{White: "robot"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestNotHumanTurn(t *testing.T) {
	srv, _ := newTestServer(t, "")
	g := newGame(t, srv, NewGameRequest{White: "engine", Black: "human"})
	assert.True(t, g.Thinking)

	resp := postJSON(t, srv.URL+"/api/games/"+g.GameID+"/moves", MoveRequest{Move: "e2e4"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestPGNEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")
	g := newGame(t, srv, NewGameRequest{})
	for _, mv := range []string{"d2d4", "d7d5"} {
		resp := postJSON(t, srv.URL+"/api/games/"+g.GameID+"/moves", MoveRequest{Move: mv})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/games/" + g.GameID + "/pgn")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "1. d4 d5")
}

func TestAnalyze(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp := postJSON(t, srv.URL+"/api/analyze", AnalyzeRequest{
		Position: "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
		MaxDepth: 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var a AnalyzeResponse
	decode(t, resp, &a)
	assert.Equal(t, "a1a8", a.BestMove)
	assert.Equal(t, engine.MateValue, a.Score)
	assert.Equal(t, "ok", a.Status)
	assert.Positive(t, a.Nodes)

	resp = postJSON(t, srv.URL+"/api/analyze", AnalyzeRequest{
		Position: "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1",
		Strategy: "greedy",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &a)
	assert.Equal(t, "d1d5", a.BestMove)

	resp = postJSON(t, srv.URL+"/api/analyze", AnalyzeRequest{
		Position: "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	a = AnalyzeResponse{}
	decode(t, resp, &a)
	assert.Empty(t, a.BestMove)
	assert.Equal(t, "stalemate", a.Status)

	resp = postJSON(t, srv.URL+"/api/analyze", AnalyzeRequest{
		Position: "4k3/8/8/8/8/8/8/4K3 w - - 0 1",
		Strategy: "alphazero",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAnalyzeDepthLimit(t *testing.T) {
	srv, _ := newTestServer(t, "")
	for _, depth := range []int{maxAnalyzeDepth + 1, 12, -1} {
		resp := postJSON(t, srv.URL+"/api/analyze", AnalyzeRequest{
			Position: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			MaxDepth: depth,
		})
		var e ErrorResponse
		decode(t, resp, &e)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "depth %d", depth)
		assert.Contains(t, e.Error, "max_depth")
	}
}

func TestWebSocketStreamsSnapshots(t *testing.T) {
	srv, games := newTestServer(t, "")
	g := newGame(t, srv, NewGameRequest{})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/games/" + g.GameID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first GameResponse
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, 0, first.Ply)

	_, err = games.Play(g.GameID, "e2e4")
	require.NoError(t, err)

	var next GameResponse
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, "e2e4", next.LastMove)
	assert.Equal(t, "black", next.ToMove)
}

func TestWebSocketUnknownGame(t *testing.T) {
	srv, _ := newTestServer(t, "")
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/games/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStaticRoutes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>board</h1>"), 0o644))
	srv, _ := newTestServer(t, dir)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/web/", resp.Header.Get("Location"))

	resp, err = http.Get(srv.URL + "/web/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "board")
}
