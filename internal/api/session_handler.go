// Package api exposes the review engine over HTTP. Handlers translate
// requests into session operations and map the engine's sentinel errors
// onto status codes; all review semantics live in internal/review.
package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lexvault/lexvault-api/internal/api/shared"
	"github.com/lexvault/lexvault-api/internal/domain"
	"github.com/lexvault/lexvault-api/internal/review"
)

// SessionHandler handles review session API requests.
type SessionHandler struct {
	manager *review.Manager
}

// NewSessionHandler creates a new SessionHandler over the given manager.
func NewSessionHandler(manager *review.Manager) *SessionHandler {
	if manager == nil {
		panic("manager cannot be nil")
	}
	return &SessionHandler{manager: manager}
}

// Routes mounts the session endpoints on a fresh chi router.
func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.AbandonSession)
		r.Post("/reveal", h.Reveal)
		r.Post("/answer", h.SubmitAnswer)
		r.Post("/grade", h.CommitGrade)
		r.Post("/advance", h.Advance)
		r.Post("/keys", h.HandleKey)
	})
	return r
}

// CreateSessionRequest is the payload for starting a review session.
type CreateSessionRequest struct {
	FolderIDs []uuid.UUID `json:"folder_ids"`
	Mode      string      `json:"mode" validate:"required"`
}

// AnswerRequest carries a typed answer for the current card.
type AnswerRequest struct {
	Text string `json:"text"`
}

// GradeRequest carries a self-assessed grade for a revealed card.
type GradeRequest struct {
	Grade int `json:"grade" validate:"required,min=1,max=4"`
}

// KeyRequest carries a raw key press to dispatch against the session.
type KeyRequest struct {
	Key string `json:"key" validate:"required"`
}

// CreateSession handles POST /sessions.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error(), nil)
		return
	}

	mode := domain.QuizMode(req.Mode)
	session, err := h.manager.Start(r.Context(), req.FolderIDs, mode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuizMode):
			shared.RespondWithError(w, r, http.StatusBadRequest, "Unrecognized quiz mode", err)
		case errors.Is(err, review.ErrEmptyPool):
			shared.RespondWithError(w, r, http.StatusConflict, "No words available in the selected folders", err)
		default:
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to start session", err)
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, session.Snapshot())
}

// GetSession handles GET /sessions/{sessionID}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session.Snapshot())
}

// AbandonSession handles DELETE /sessions/{sessionID}.
func (h *SessionHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.manager.Abandon(id); err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Session not found", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reveal handles POST /sessions/{sessionID}/reveal.
func (h *SessionHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.Reveal(); err != nil {
		h.respondActionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session.Snapshot())
}

// SubmitAnswer handles POST /sessions/{sessionID}/answer.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := session.SubmitAnswer(req.Text); err != nil {
		h.respondActionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session.Snapshot())
}

// CommitGrade handles POST /sessions/{sessionID}/grade.
func (h *SessionHandler) CommitGrade(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req GradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error(), nil)
		return
	}
	if err := session.CommitGrade(domain.Grade(req.Grade)); err != nil {
		h.respondActionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session.Snapshot())
}

// Advance handles POST /sessions/{sessionID}/advance.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.Advance(); err != nil {
		h.respondActionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session.Snapshot())
}

// HandleKey handles POST /sessions/{sessionID}/keys. Keys that have no
// binding in the current phase are accepted and ignored, matching how
// a client-side key listener behaves.
func (h *SessionHandler) HandleKey(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req KeyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error(), nil)
		return
	}
	if err := session.HandleKey(req.Key); err != nil {
		h.respondActionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*review.Session, bool) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return nil, false
	}
	session, err := h.manager.Get(id)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Session not found", err)
		return nil, false
	}
	return session, true
}

func (h *SessionHandler) respondActionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, review.ErrInvalidAction):
		shared.RespondWithError(w, r, http.StatusConflict, "Action not allowed in the current phase", err)
	case errors.Is(err, domain.ErrInvalidGrade):
		shared.RespondWithError(w, r, http.StatusBadRequest, "Grade must be between 1 and 4", err)
	default:
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Session operation failed", err)
	}
}
