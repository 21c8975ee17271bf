// Package handler exposes the interview workflow as a JSON HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/skillcheck/interviewer/internal/archive"
	"github.com/skillcheck/interviewer/internal/model"
	"github.com/skillcheck/interviewer/internal/orchestrator"
	"github.com/skillcheck/interviewer/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	orch          *orchestrator.Orchestrator
	store         *store.Store
	archive       *archive.Archive
	questionCount int
}

// New creates a new Handler. The archive may be nil when archiving is
// disabled; questionCount is the default interview length when the start
// request does not set one.
func New(o *orchestrator.Orchestrator, s *store.Store, a *archive.Archive, questionCount int) *Handler {
	return &Handler{orch: o, store: s, archive: a, questionCount: questionCount}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/interview/start", h.handleStart)
	r.Post("/interview/answer", h.handleAnswer)
	r.Get("/interview/status", h.handleStatus)
	r.Post("/interview/pause", h.handlePause)
	r.Post("/interview/resume", h.handleResume)
	r.Get("/interview/history", h.handleHistory)
	r.Get("/admin/analytics", h.handleAnalytics)
	r.Get("/admin/questions", h.handleListQuestions)
	r.Delete("/admin/questions/{id}", h.handleDeleteQuestion)
	if h.archive != nil {
		r.Get("/admin/archive", h.handleArchiveList)
		r.Get("/admin/archive/{interviewID}", h.handleArchiveGet)
	}
}

type startRequest struct {
	Role          model.Role        `json:"role"`
	CandidateInfo map[string]string `json:"candidate_info"`
	QuestionCount int               `json:"question_count"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role == "" {
		writeError(w, http.StatusBadRequest, "role is required")
		return
	}

	count := req.QuestionCount
	if count <= 0 {
		count = h.questionCount
	}
	result := h.orch.StartInterview(req.Role, req.CandidateInfo, count)
	writeJSON(w, http.StatusOK, result)
}

type answerRequest struct {
	Response string `json:"response"`
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.orch.SubmitAnswer(r.Context(), req.Response)
	if err != nil {
		writeOrchestratorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.orch.Status())
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.Pause(); err != nil {
		writeOrchestratorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	question, err := h.orch.Resume()
	if err != nil {
		writeOrchestratorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "resumed",
		"current_question": question,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	sessions := h.orch.History(limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(sessions),
		"interviews": sessions,
	})
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.orch.Analytics())
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions := h.store.Questions()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(questions),
		"questions": questions,
	})
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	if !h.store.DeleteQuestion(id) {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleArchiveList(w http.ResponseWriter, r *http.Request) {
	results, err := h.archive.List()
	if err != nil {
		slog.Error("list archive", "error", err)
		writeError(w, http.StatusInternalServerError, "archive unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(results),
		"interviews": results,
	})
}

func (h *Handler) handleArchiveGet(w http.ResponseWriter, r *http.Request) {
	result, err := h.archive.Get(chi.URLParam(r, "interviewID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "interview not found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeOrchestratorError maps session-state sentinels to client-facing
// statuses; anything else is a server error.
func writeOrchestratorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orchestrator.ErrNoSession):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orchestrator.ErrNoQuestion):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, orchestrator.ErrNotPaused):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("interview request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
