package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"svw.info/pairs/internal/adapters/sse"
	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/generator"
	"svw.info/pairs/internal/infrastructure/storage"
	"svw.info/pairs/internal/session"
	"svw.info/pairs/internal/usecase"
)

type Handler struct {
	UC     *usecase.Service
	Events *sse.Broadcaster
}

func New(uc *usecase.Service, events *sse.Broadcaster) *Handler {
	return &Handler{UC: uc, Events: events}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/games", h.handleNewGame)
	mux.HandleFunc("GET /api/games/{id}", h.handleGetGame)
	mux.HandleFunc("POST /api/games/{id}/select", h.handleSelect)
	mux.HandleFunc("POST /api/games/{id}/pair", h.handlePair)
	mux.HandleFunc("POST /api/games/{id}/add", h.handleAdd)
	mux.HandleFunc("POST /api/games/{id}/restart", h.handleRestart)
	mux.HandleFunc("GET /api/games/{id}/hint", h.handleHint)
	mux.HandleFunc("GET /api/games/{id}/events", h.handleEvents)
	mux.HandleFunc("/api/generate", h.handleGenerate)
	mux.HandleFunc("/api/save", h.handleSave)
	mux.HandleFunc("/api/load", h.handleLoad)
	mux.HandleFunc("/api/list", h.handleList)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(v)
}

type errorResp struct {
	Error string `json:"error"`
}

// statusFor maps engine and service errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrGameNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, session.ErrInvalidIndex),
		errors.Is(err, session.ErrTileInactive),
		errors.Is(err, generator.ErrInvalidTarget),
		errors.Is(err, session.ErrBadSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoAdds),
		errors.Is(err, session.ErrFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResp{Error: err.Error()})
}

// decode reads an optional JSON body; an empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ---- Games ----

type newGameReq struct {
	Seed int64 `json:"seed,omitempty"`
}

type gameResp struct {
	Game domain.Snapshot `json:"game"`
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	snap, err := h.UC.NewGame(r.Context(), req.Seed)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, gameResp{Game: snap})
}

func (h *Handler) handleGetGame(w http.ResponseWriter, r *http.Request) {
	snap, err := h.UC.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResp{Game: snap})
}

type selectReq struct {
	Index *int `json:"index"`
}

type pairReq struct {
	A *int `json:"a"`
	B *int `json:"b"`
}

type moveResp struct {
	Move session.MoveResult `json:"move"`
	Game domain.Snapshot    `json:"game"`
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := decode(r, &req); err != nil || req.Index == nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid JSON or missing index"})
		return
	}
	res, snap, err := h.UC.Select(r.Context(), r.PathValue("id"), *req.Index)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveResp{Move: res, Game: snap})
}

func (h *Handler) handlePair(w http.ResponseWriter, r *http.Request) {
	var req pairReq
	if err := decode(r, &req); err != nil || req.A == nil || req.B == nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid JSON or missing a/b"})
		return
	}
	res, snap, err := h.UC.Pair(r.Context(), r.PathValue("id"), *req.A, *req.B)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveResp{Move: res, Game: snap})
}

type addResp struct {
	Added []int           `json:"added"`
	Game  domain.Snapshot `json:"game"`
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	idx, snap, err := h.UC.AddTiles(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addResp{Added: idx, Game: snap})
}

func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.UC.Restart(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResp{Game: snap})
}

type hintResp struct {
	Found bool        `json:"found"`
	Hint  domain.Hint `json:"hint,omitempty"`
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	hh, ok, err := h.UC.Hint(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hintResp{Found: ok, Hint: hh})
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.UC.Get(id); err != nil {
		writeErr(w, err)
		return
	}
	if h.Events == nil {
		http.Error(w, "events not enabled", http.StatusNotImplemented)
		return
	}
	h.Events.Serve(w, r, id)
}

// ---- Generate ----

type generateReq struct {
	Target int   `json:"target,omitempty"`
	Seed   int64 `json:"seed,omitempty"`
}

type generateResp struct {
	Values     []int  `json:"values,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
	Target     int    `json:"target,omitempty"`
	DurationMs int64  `json:"durationMs,omitempty"`
	Nodes      int    `json:"nodes,omitempty"`
	Attempts   int    `json:"attempts,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResp{Error: "method not allowed"})
		return
	}
	var req generateReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, generateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	target := req.Target
	if target == 0 {
		target = domain.DefaultSchedule.Target(1)
	}
	vals, st, err := h.UC.Generate(r.Context(), seed, target)
	if err != nil {
		writeJSON(w, statusFor(err), generateResp{Error: err.Error(), Attempts: st.Attempts})
		return
	}
	writeJSON(w, http.StatusOK, generateResp{
		Values:     vals,
		Seed:       seed,
		Target:     target,
		DurationMs: st.Duration.Milliseconds(),
		Nodes:      st.Nodes,
		Attempts:   st.Attempts,
	})
}

// ---- Save / Load / List ----

type idReq struct {
	ID string `json:"id"`
}

type saveResp struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResp{Error: "method not allowed"})
		return
	}
	var req idReq
	if err := decode(r, &req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, saveResp{Error: "invalid JSON or missing id"})
		return
	}
	if err := h.UC.Save(r.Context(), req.ID); err != nil {
		writeJSON(w, statusFor(err), saveResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, saveResp{ID: req.ID})
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResp{Error: "method not allowed"})
		return
	}
	var req idReq
	if err := decode(r, &req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid JSON or missing id"})
		return
	}
	snap, err := h.UC.Load(r.Context(), req.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResp{Game: snap})
}

type listResp struct {
	Games []domain.SnapshotMeta `json:"games"`
	Error string                `json:"error,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResp{Error: "method not allowed"})
		return
	}
	gs, err := h.UC.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, listResp{Error: err.Error()})
		return
	}
	if gs == nil {
		gs = []domain.SnapshotMeta{}
	}
	writeJSON(w, http.StatusOK, listResp{Games: gs})
}
