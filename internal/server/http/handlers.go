package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"negachess/internal/chess"
	"negachess/internal/engine"
	"negachess/internal/server/game"
)

// 分析接口允许的最大深度，再深一次请求就能占住一个核很久
const maxAnalyzeDepth = 6

type Handler struct {
	games     *game.Manager
	log       *zap.SugaredLogger
	strategy  string
	engineCfg engine.Config
}

func NewHandler(games *game.Manager, log *zap.SugaredLogger, strategy string, cfg engine.Config) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{
		games:     games,
		log:       log,
		strategy:  strategy,
		engineCfg: cfg,
	}
}

func (h *Handler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(h.log, w, http.StatusBadRequest, "bad json")
		return
	}
	white, err := game.ParsePlayerKind(req.White)
	if err != nil {
		writeJSONError(h.log, w, http.StatusBadRequest, err.Error())
		return
	}
	black, err := game.ParsePlayerKind(req.Black)
	if err != nil {
		writeJSONError(h.log, w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.games.NewGame(game.Players{White: white, Black: black}, req.FEN)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(h.log, w, http.StatusCreated, snapshotToResponse(snap))
}

func (h *Handler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	snap, err := h.games.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, snapshotToResponse(snap))
}

func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(h.log, w, http.StatusBadRequest, "bad json")
		return
	}
	snap, err := h.games.Play(chi.URLParam(r, "id"), req.Move)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, snapshotToResponse(snap))
}

func (h *Handler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.games.Undo)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.games.Reset)
}

func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.games.Resume)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op func(id string) (game.Snapshot, error)) {
	snap, err := op(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, snapshotToResponse(snap))
}

func (h *Handler) HandlePGN(w http.ResponseWriter, r *http.Request) {
	pgn, err := h.games.PGN(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-chess-pgn; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(pgn))
}

// HandleAnalyze 给一个局面算一步，不落子
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(h.log, w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Position == "" {
		writeJSONError(h.log, w, http.StatusBadRequest, "missing position")
		return
	}
	pos, err := chess.DecodePosition(req.Position)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if req.MaxDepth < 0 || req.MaxDepth > maxAnalyzeDepth {
		writeJSONError(h.log, w, http.StatusBadRequest, fmt.Sprintf("max_depth must be between 1 and %d", maxAnalyzeDepth))
		return
	}

	cfg := h.engineCfg
	if cfg.MaxDepth > maxAnalyzeDepth {
		cfg.MaxDepth = maxAnalyzeDepth
	}
	if req.MaxDepth > 0 {
		cfg.MaxDepth = req.MaxDepth
	}
	name := req.Strategy
	if name == "" {
		name = h.strategy
	}
	strategy, err := engine.NewStrategy(name, cfg, engine.WithLogger(h.log))
	if err != nil {
		h.writeError(w, err)
		return
	}

	moves := pos.GenerateLegalMoves()
	if len(moves) == 0 {
		writeJSON(h.log, w, http.StatusOK, AnalyzeResponse{Status: pos.Outcome().String()})
		return
	}

	start := time.Now()
	resp := AnalyzeResponse{Status: "ok"}
	if eng, ok := strategy.(*engine.Engine); ok {
		res, err := eng.Search(r.Context(), pos, moves)
		if err != nil {
			h.writeError(w, err)
			return
		}
		resp.BestMove = res.BestMove.UCI()
		resp.Score = res.Score
		resp.Depth = res.Depth
		resp.Nodes = res.Nodes
	} else {
		mv, err := strategy.SelectMove(r.Context(), pos, moves)
		if err != nil {
			h.writeError(w, err)
			return
		}
		resp.BestMove = mv.UCI()
	}
	resp.TimeMs = time.Since(start).Milliseconds()
	writeJSON(h.log, w, http.StatusOK, resp)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, chess.ErrInvalidFEN),
		errors.Is(err, engine.ErrUnknownStrategy):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotHumanTurn),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, chess.ErrNoMoveToUndo):
		return http.StatusConflict
	case errors.Is(err, game.ErrPromotionRequired):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.log.Errorw("request failed", "err", err)
	}
	writeJSONError(h.log, w, status, err.Error())
}

func writeJSON(log *zap.SugaredLogger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("writeJSON encode error: %v", err)
	}
}

func writeJSONError(log *zap.SugaredLogger, w http.ResponseWriter, status int, msg string) {
	writeJSON(log, w, status, ErrorResponse{Error: msg})
	log.Debugf("writeJSONError: %s", msg)
}
