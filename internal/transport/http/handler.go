package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/hieudo2808/lms-project-sub000/internal/app"
	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

// Handler exposes the attempt lifecycle over REST. The caller's identity
// arrives in X-User-ID, resolved by the platform's auth middleware upstream;
// this service never reads an implicit security context.
type Handler struct {
	service *app.AttemptService
}

func NewHandler(service *app.AttemptService) *Handler {
	return &Handler{service: service}
}

// Register wires the attempt routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/quizzes/{quizID}/attempts", h.StartAttempt)
	mux.HandleFunc("GET /api/quizzes/{quizID}/attempts", h.ListAttempts)
	mux.HandleFunc("POST /api/attempts/{attemptID}/answers", h.SubmitAnswer)
	mux.HandleFunc("POST /api/attempts/{attemptID}/finish", h.FinishAttempt)
	mux.HandleFunc("GET /api/attempts/{attemptID}", h.GetAttempt)
}

type submitAnswerRequest struct {
	QuestionID        uuid.UUID   `json:"questionId"`
	SelectedAnswerID  *uuid.UUID  `json:"selectedAnswerId,omitempty"`
	SelectedAnswerIDs []uuid.UUID `json:"selectedAnswerIds,omitempty"`
	FreeText          string      `json:"freeText,omitempty"`
}

// selections merges the singular convenience field into the list form.
func (req submitAnswerRequest) selections() []uuid.UUID {
	selected := req.SelectedAnswerIDs
	if req.SelectedAnswerID != nil {
		selected = append([]uuid.UUID{*req.SelectedAnswerID}, selected...)
	}
	return selected
}

func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	quizID, ok := pathUUID(w, r, "quizID")
	if !ok {
		return
	}

	view, err := h.service.StartAttempt(r.Context(), userID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	attemptID, ok := pathUUID(w, r, "attemptID")
	if !ok {
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.QuestionID == uuid.Nil {
		writeBadRequest(w, "questionId is required")
		return
	}

	ack, err := h.service.SubmitAnswer(r.Context(), userID, attemptID, req.QuestionID, req.selections(), req.FreeText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

func (h *Handler) FinishAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	attemptID, ok := pathUUID(w, r, "attemptID")
	if !ok {
		return
	}

	view, err := h.service.FinishAttempt(r.Context(), userID, attemptID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	quizID, ok := pathUUID(w, r, "quizID")
	if !ok {
		return
	}

	views, err := h.service.ListMyAttempts(r.Context(), userID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	attemptID, ok := pathUUID(w, r, "attemptID")
	if !ok {
		return
	}

	view, err := h.service.AttemptResult(r.Context(), userID, attemptID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(r.Header.Get("X-User-ID"))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorPayload{Error: "missing or invalid X-User-ID"})
		return uuid.Nil, false
	}
	return userID, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeBadRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

type errorPayload struct {
	Error string `json:"error"`
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorPayload{Error: msg})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorPayload{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrAttemptNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAttemptAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrQuizNotPublished),
		errors.Is(err, domain.ErrAttemptLimitExceeded),
		errors.Is(err, domain.ErrAttemptNotActive),
		errors.Is(err, domain.ErrDuplicateAttempt),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
