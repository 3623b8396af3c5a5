package server

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/friendschat/games/internal/leaderboard"
	"github.com/friendschat/games/internal/msgcat"
	"github.com/friendschat/games/internal/service/games"
)

func newTestServer(t *testing.T) (*Server, *games.MemRepository) {
	t.Helper()
	repo := games.NewMemRepository()
	svc := games.NewService(repo, nil, nil, games.Config{BotSeed: 5}, zap.NewNop())
	boards := leaderboard.NewProjector(repo, nil, 0, zap.NewNop())
	messages, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	return New(svc, boards, messages, zap.NewNop()), repo
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Retryable bool   `json:"retryable"`
	} `json:"error"`
}

func doRequest(t *testing.T, s *Server, method, path string, userID int64, body string) (int, testEnvelope) {
	t.Helper()
	var ctx fasthttp.RequestCtx
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if userID != 0 {
		req.Header.Set("X-User-Id", fmt.Sprint(userID))
	}
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}
	ctx.Init(&req, nil, nil)

	s.route(&ctx)

	var env testEnvelope
	if err := json.Unmarshal(ctx.Response.Body(), &env); err != nil {
		t.Fatalf("decode response %q: %v", ctx.Response.Body(), err)
	}
	return ctx.Response.StatusCode(), env
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	status, env := doRequest(t, s, "GET", "/healthz", 0, "")
	if status != fasthttp.StatusOK || !env.Success {
		t.Fatalf("health: status=%d env=%+v", status, env)
	}
}

func TestAuthenticationRequired(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/api/games/active", "/api/stats"} {
		status, env := doRequest(t, s, "GET", path, 0, "")
		if status != fasthttp.StatusUnauthorized || env.Success {
			t.Fatalf("%s without identity: status=%d", path, status)
		}
	}

	// The leaderboard is public.
	status, _ := doRequest(t, s, "GET", "/api/leaderboard", 0, "")
	if status != fasthttp.StatusOK {
		t.Fatalf("public leaderboard: status=%d", status)
	}
}

func TestCreateAndMoveFlow(t *testing.T) {
	s, _ := newTestServer(t)

	status, env := doRequest(t, s, "POST", "/api/games", 7, `{"game_type":"chess"}`)
	if status != fasthttp.StatusCreated || !env.Success {
		t.Fatalf("create: status=%d env=%+v", status, env)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode created game: %v", err)
	}

	movePath := fmt.Sprintf("/api/games/%d/move", created.ID)
	status, env = doRequest(t, s, "POST", movePath, 7, `{"move":{"from":[6,4],"to":[4,4]}}`)
	if status != fasthttp.StatusOK || !env.Success {
		t.Fatalf("move: status=%d env=%+v", status, env)
	}
	var moved struct {
		BotMove *struct {
			From [2]int `json:"from"`
			To   [2]int `json:"to"`
		} `json:"bot_move"`
		Ended struct {
			IsEnd bool `json:"is_end"`
		} `json:"game_ended"`
	}
	if err := json.Unmarshal(env.Data, &moved); err != nil {
		t.Fatalf("decode move response: %v", err)
	}
	if moved.BotMove == nil || moved.Ended.IsEnd {
		t.Fatalf("move response = %+v", moved)
	}
}

func TestErrorMapping(t *testing.T) {
	s, _ := newTestServer(t)

	status, env := doRequest(t, s, "POST", "/api/games", 7, `{"game_type":"chess"}`)
	if status != fasthttp.StatusCreated {
		t.Fatalf("create: %d", status)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Illegal move is a semantic rejection, not a bad request.
	movePath := fmt.Sprintf("/api/games/%d/move", created.ID)
	status, env = doRequest(t, s, "POST", movePath, 7, `{"move":{"from":[7,0],"to":[5,0]}}`)
	if status != fasthttp.StatusUnprocessableEntity {
		t.Fatalf("illegal move: status=%d", status)
	}
	if env.Error == nil || env.Error.Code != "illegal_move" {
		t.Fatalf("illegal move error = %+v", env.Error)
	}

	// Foreign and missing games are both 404.
	status, _ = doRequest(t, s, "POST", movePath, 8, `{"move":{"from":[6,4],"to":[4,4]}}`)
	if status != fasthttp.StatusNotFound {
		t.Fatalf("foreign move: status=%d", status)
	}
	status, _ = doRequest(t, s, "GET", "/api/games/99999", 7, "")
	if status != fasthttp.StatusNotFound {
		t.Fatalf("missing game: status=%d", status)
	}

	status, _ = doRequest(t, s, "POST", "/api/games", 7, `{"game_type":"checkers"}`)
	if status != fasthttp.StatusBadRequest {
		t.Fatalf("bad game type: status=%d", status)
	}
	status, _ = doRequest(t, s, "POST", movePath, 7, `not json`)
	if status != fasthttp.StatusBadRequest {
		t.Fatalf("malformed body: status=%d", status)
	}
}

func TestResignEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	_, env := doRequest(t, s, "POST", "/api/games", 7, `{"game_type":"sudoku"}`)
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	status, env := doRequest(t, s, "POST", fmt.Sprintf("/api/games/%d/resign", created.ID), 7, "")
	if status != fasthttp.StatusOK || !env.Success {
		t.Fatalf("resign: status=%d env=%+v", status, env)
	}

	// Stats now reflect the loss.
	status, env = doRequest(t, s, "GET", "/api/stats", 7, "")
	if status != fasthttp.StatusOK {
		t.Fatalf("stats: status=%d", status)
	}
	var stats struct {
		SudokuLosses int `json:"sudoku_losses"`
	}
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.SudokuLosses != 1 {
		t.Fatalf("sudoku losses = %d", stats.SudokuLosses)
	}
}
