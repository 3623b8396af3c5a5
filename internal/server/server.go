// Package server exposes the games service over HTTP. Identity arrives as
// the X-User-Id header set by the social app's gateway after session auth;
// this service never sees credentials.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/friendschat/games/internal/domain"
	"github.com/friendschat/games/internal/leaderboard"
	"github.com/friendschat/games/internal/msgcat"
	"github.com/friendschat/games/internal/service/games"
	"github.com/friendschat/games/pkg/gamedto"
)

type Server struct {
	svc       *games.Service
	boards    *leaderboard.Projector
	messages  *msgcat.Catalog
	logger    *zap.Logger
	inner     *fasthttp.Server
	startedAt time.Time
}

func New(svc *games.Service, boards *leaderboard.Projector, messages *msgcat.Catalog, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		svc:       svc,
		boards:    boards,
		messages:  messages,
		logger:    logger,
		startedAt: time.Now(),
	}
	s.inner = &fasthttp.Server{
		Handler:            s.route,
		Name:               "friendschat-games",
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.inner.ListenAndServe(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- s.inner.Shutdown() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type envelope struct {
	Success bool                 `json:"success"`
	Data    any                  `json:"data,omitempty"`
	Error   *gamedto.DomainError `json:"error,omitempty"`
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	if path == "/healthz" && method == fasthttp.MethodGet {
		s.handleHealth(ctx)
		return
	}
	if path == "/api/leaderboard" && method == fasthttp.MethodGet {
		s.handleLeaderboard(ctx, "")
		return
	}
	if rest, ok := strings.CutPrefix(path, "/api/leaderboard/"); ok && method == fasthttp.MethodGet {
		s.handleLeaderboard(ctx, rest)
		return
	}

	userID, ok := s.identity(ctx)
	if !ok {
		return
	}

	switch {
	case path == "/api/games" && method == fasthttp.MethodPost:
		s.handleCreate(ctx, userID)
	case path == "/api/games/active" && method == fasthttp.MethodGet:
		s.handleActive(ctx, userID)
	case path == "/api/games/history" && method == fasthttp.MethodGet:
		s.handleHistory(ctx, userID)
	case path == "/api/stats" && method == fasthttp.MethodGet:
		s.handleStats(ctx, userID)
	case strings.HasPrefix(path, "/api/games/"):
		s.routeGame(ctx, userID, strings.TrimPrefix(path, "/api/games/"), method)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, gamedto.CodeNotFound, "not found")
	}
}

func (s *Server) routeGame(ctx *fasthttp.RequestCtx, userID int64, rest, method string) {
	idPart, action, _ := strings.Cut(rest, "/")
	gameID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || gameID <= 0 {
		s.writeError(ctx, fasthttp.StatusBadRequest, gamedto.CodeInvalidInput, "invalid game id")
		return
	}

	switch {
	case action == "" && method == fasthttp.MethodGet:
		s.handleGame(ctx, userID, gameID)
	case action == "moves" && method == fasthttp.MethodGet:
		s.handleMoves(ctx, userID, gameID)
	case action == "move" && method == fasthttp.MethodPost:
		s.handleMove(ctx, userID, gameID)
	case action == "resign" && method == fasthttp.MethodPost:
		s.handleResign(ctx, userID, gameID)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, gamedto.CodeNotFound, "not found")
	}
}

// identity parses the trusted X-User-Id header. Absence means the gateway
// did not authenticate the caller.
func (s *Server) identity(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw := string(ctx.Request.Header.Peek("X-User-Id"))
	if raw == "" {
		s.writeError(ctx, fasthttp.StatusUnauthorized, gamedto.CodeUnauthorized, "authentication required")
		return 0, false
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		s.writeError(ctx, fasthttp.StatusUnauthorized, gamedto.CodeUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	s.writeJSON(ctx, fasthttp.StatusOK, envelope{Success: true, Data: map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	}})
}

func (s *Server) handleCreate(ctx *fasthttp.RequestCtx, userID int64) {
	var req gamedto.CreateGameRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, gamedto.CodeInvalidInput, "invalid request body")
		return
	}
	gameType, ok := domain.ParseGameType(req.GameType)
	if !ok {
		s.writeError(ctx, fasthttp.StatusBadRequest, gamedto.CodeInvalidInput, "unknown game type")
		return
	}

	game, err := s.svc.CreateGame(ctx, userID, gameType)
	if err != nil {
		s.writeServiceError(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusCreated, envelope{Success: true, Data: toGameSummary(game, true)})
}

func (s *Server) handleMove(ctx *fasthttp.RequestCtx, userID, gameID int64) {
	var req gamedto.MoveRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || len(req.Move) == 0 {
		s.writeError(ctx, fasthttp.StatusBadRequest, gamedto.CodeInvalidInput, s.message("move.invalid", nil, "invalid move payload"))
		return
	}

	result, err := s.svc.ApplyMove(ctx, userID, gameID, req.Move)
	if err != nil {
		s.writeServiceError(ctx, err)
		return
	}

	resp := gamedto.MoveResponse{
		Game:   toGameSummary(result.Game, true),
		MoveID: result.MoveID,
		Ended:  gamedto.GameEnded{IsEnd: result.Ended.IsEnd, Result: result.Ended.Result},
	}
	if result.BotMove != nil {
		resp.BotMove = &gamedto.BotMove{From: result.BotMove.From, To: result.BotMove.To}
	}
	s.writeJSON(ctx, fasthttp.StatusOK, envelope{Success: true, Data: resp})
}

func (s *Server) handleResign(ctx *fasthttp.RequestCtx, userID, gameID int64) {
	game, err := s.svc.Resign(ctx, userID, gameID)
	if err != nil {
		s.writeServiceError(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, envelope{Success: true, Data: map[string]any{
		"game":    toGameSummary(game, true),
		"message": s.message("game.resigned", nil, "resigned"),
	}})
}

func (s *Server) handleGame(ctx *fasthttp.RequestCtx, userID, gameID int64) {
	game, err := s.svc.Game(ctx, userID, gameID)
	if err != nil {
		s.writeServiceError(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, envelope{Success: true, Data: toGameSummary(game, true)})
}

func (s *Server) handleMoves(ctx *fasthttp.RequestCtx, userID, gameID int64) {
	moves, err := s.svc.Moves(ctx, userID, gameID)
	if err != nil {
		s.writeServiceError(ctx, err)
		return
	}
	out := make([]gamedto.MoveRecord, 0, len(moves))
	for _, m := range moves {
		out = append(out, gamedto.MoveRecord{
			ID:         m.ID,
			GameID:     m.GameID,
			PlayerID:   m.PlayerID,
			MoveNumber: m.MoveNumber,
			Move:       json.RawMessage(m.Payload),
			CreatedAt:  m.CreatedAt,
		})
	}
	s.writeJSON(ctx, fasthttp.StatusOK, envelope{Success: true, Data: out})
}

func (s *Server) handleActive(ctx *fasthttp.RequestCtx, userID int64) {
	gamesList, err := s.svc.ActiveGames(ctx, userID)
	if err != nil {
		s.writeServiceError(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, envelope{Success: true, Data: toGameSummaries(gamesList)})
}

func (s *Server) handleHistory(ctx *fasthttp.RequestCtx, userID int64) {
	args := ctx.QueryArgs()
	var gameType domain.GameType
	if raw := string(args.Peek("type")); raw != "" {
		parsed, ok := domain.ParseGameType(raw)
		if !ok {
			s.writeError(ctx, fasthttp.StatusBadRequest, gamedto.CodeInvalidInput, "unknown game type")
			return
		}
		gameType = parsed
	}
	offset, _ := strconv.Atoi(string(args.Peek("offset")))

	gamesList, err := s.svc.FinishedGames(ctx, userID, gameType, offset)
	if err != nil {
		s.writeServiceError(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, envelope{Success: true, Data: toGameSummaries(gamesList)})
}

func (s *Server) handleStats(ctx *fasthttp.RequestCtx, userID int64) {
	stats, err := s.svc.Stats(ctx, userID)
	if err != nil {
		s.writeServiceError(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, envelope{Success: true, Data: toStatsResponse(stats)})
}

func (s *Server) handleLeaderboard(ctx *fasthttp.RequestCtx, filter string) {
	limit, _ := strconv.Atoi(string(ctx.QueryArgs().Peek("limit")))
	entries, err := s.boards.Top(ctx, filter, limit)
	if err != nil {
		s.writeServiceError(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, envelope{Success: true, Data: entries})
}

func (s *Server) writeServiceError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, games.ErrInvalidGameType):
		s.writeError(ctx, fasthttp.StatusBadRequest, gamedto.CodeInvalidInput, "unknown game type")
	case errors.Is(err, games.ErrInvalidMove):
		s.writeError(ctx, fasthttp.StatusBadRequest, gamedto.CodeInvalidInput, s.message("move.invalid", nil, "invalid move payload"))
	case errors.Is(err, games.ErrIllegalMove):
		s.writeError(ctx, fasthttp.StatusUnprocessableEntity, gamedto.CodeIllegalMove, s.message("move.illegal", nil, "move not allowed"))
	case errors.Is(err, games.ErrGameNotFound):
		s.writeError(ctx, fasthttp.StatusNotFound, gamedto.CodeNotFound, s.message("game.not_found", nil, "game not found"))
	case errors.Is(err, games.ErrStaleGame):
		s.writeError(ctx, fasthttp.StatusConflict, gamedto.CodeConflict, s.message("move.conflict", nil, "game state conflict"))
	default:
		s.logger.Error("request failed",
			zap.ByteString("path", ctx.Path()),
			zap.Error(err))
		s.writeError(ctx, fasthttp.StatusInternalServerError, gamedto.CodeInternal, "internal error")
	}
}

func (s *Server) message(key string, data any, fallback string) string {
	if s.messages == nil {
		return fallback
	}
	out, err := s.messages.Render(key, data)
	if err != nil {
		return fallback
	}
	return out
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, code, msg string) {
	s.writeJSON(ctx, status, envelope{Success: false, Error: &gamedto.DomainError{
		Code:      code,
		Message:   msg,
		Retryable: code == gamedto.CodeConflict,
	}})
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json; charset=utf-8")
	if err := json.NewEncoder(ctx).Encode(body); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func toGameSummary(g *domain.Game, includeState bool) gamedto.GameSummary {
	out := gamedto.GameSummary{
		ID:          g.ID,
		SessionUUID: g.SessionUUID,
		GameType:    string(g.Type),
		GameMode:    string(g.Mode),
		Status:      string(g.Status),
		CurrentTurn: g.CurrentTurn,
		Result:      string(g.Result),
		WinnerID:    g.WinnerID,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if includeState {
		out.State = json.RawMessage(g.State)
	}
	if !g.FinishedAt.IsZero() {
		t := g.FinishedAt
		out.FinishedAt = &t
	}
	return out
}

func toGameSummaries(gamesList []*domain.Game) []gamedto.GameSummary {
	out := make([]gamedto.GameSummary, 0, len(gamesList))
	for _, g := range gamesList {
		// Listings stay light; clients fetch full state per game.
		out = append(out, toGameSummary(g, false))
	}
	return out
}

func toStatsResponse(s *domain.Stats) gamedto.StatsResponse {
	return gamedto.StatsResponse{
		UserID:           s.UserID,
		ChessWins:        s.ChessWins,
		ChessLosses:      s.ChessLosses,
		ChessDraws:       s.ChessDraws,
		ChessTotalGames:  s.ChessTotalGames,
		ChessBotWins:     s.ChessBotWins,
		ChessPvPWins:     s.ChessPvPWins,
		SudokuWins:       s.SudokuWins,
		SudokuLosses:     s.SudokuLosses,
		SudokuTotalGames: s.SudokuTotalGames,
		SudokuBotWins:    s.SudokuBotWins,
		SudokuPvPWins:    s.SudokuPvPWins,
		TotalWins:        s.TotalWins(),
		TotalGames:       s.TotalGames(),
		TotalPoints:      s.TotalPoints,
		Rating:           s.Rating,
		HighestRating:    s.HighestRating,
		WinPercentage:    s.WinPercentage(),
	}
}
