package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"qna/internal/qna/models"
	"qna/pkg/platform/httputil"
)

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	questions, err := h.questions.List(ctx)
	if err != nil {
		h.writeError(ctx, w, "failed to list questions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, questions)
}

func (h *Handler) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.writeError(ctx, w, "invalid question id", err)
		return
	}
	q, err := h.questions.Get(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "failed to get question", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) handleListQuestionAnswers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.writeError(ctx, w, "invalid question id", err)
		return
	}
	if _, err := h.questions.Get(ctx, id); err != nil {
		h.writeError(ctx, w, "failed to get question", err)
		return
	}
	answers, err := h.questions.ListAnswers(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "failed to list answers", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, answers)
}

func (h *Handler) handleListUserQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	questions, err := h.questions.ListByUser(ctx, chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(ctx, w, "failed to list user questions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, questions)
}

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := caller(ctx)
	if err == nil {
		err = authorizeCreateQuestion(identity)
	}
	if err != nil {
		h.writeError(ctx, w, "create question rejected", err)
		return
	}

	var req createQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(ctx, w, "invalid create question request", err)
		return
	}
	if err := h.syncCaller(ctx, identity); err != nil {
		h.writeError(ctx, w, "failed to sync caller", err)
		return
	}

	q, err := h.questions.Create(ctx, models.CreateQuestionCommand{
		Title:       req.Title,
		Content:     req.Content,
		OwnerUserID: identity.UserID,
	})
	if err != nil {
		h.writeError(ctx, w, "failed to create question", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, q)
}

func (h *Handler) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := caller(ctx)
	if err != nil {
		h.writeError(ctx, w, "update question rejected", err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(ctx, w, "invalid question id", err)
		return
	}
	var req updateQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(ctx, w, "invalid update question request", err)
		return
	}
	if err := checkBodyID(req.ID, id); err != nil {
		h.writeError(ctx, w, "invalid update question request", err)
		return
	}

	existing, err := h.questions.Get(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "failed to get question", err)
		return
	}
	if err := authorizeModifyQuestion(identity, existing); err != nil {
		h.writeError(ctx, w, "update question rejected", err)
		return
	}
	if err := h.syncCaller(ctx, identity); err != nil {
		h.writeError(ctx, w, "failed to sync caller", err)
		return
	}

	q, err := h.questions.Update(ctx, models.UpdateQuestionCommand{ID: id, Title: req.Title, Content: req.Content})
	if err != nil {
		h.writeError(ctx, w, "failed to update question", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := caller(ctx)
	if err != nil {
		h.writeError(ctx, w, "delete question rejected", err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(ctx, w, "invalid question id", err)
		return
	}

	existing, err := h.questions.Get(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "failed to get question", err)
		return
	}
	if err := authorizeModifyQuestion(identity, existing); err != nil {
		h.writeError(ctx, w, "delete question rejected", err)
		return
	}
	if err := h.syncCaller(ctx, identity); err != nil {
		h.writeError(ctx, w, "failed to sync caller", err)
		return
	}

	if err := h.questions.Delete(ctx, id); err != nil {
		h.writeError(ctx, w, "failed to delete question", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
