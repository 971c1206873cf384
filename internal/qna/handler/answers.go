package handler

import (
	"net/http"

	"qna/internal/qna/models"
	"qna/pkg/platform/httputil"
)

func (h *Handler) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	answers, err := h.answers.List(ctx)
	if err != nil {
		h.writeError(ctx, w, "failed to list answers", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, answers)
}

func (h *Handler) handleGetAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.writeError(ctx, w, "invalid answer id", err)
		return
	}
	a, err := h.answers.Get(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "failed to get answer", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleCreateAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := caller(ctx)
	if err == nil {
		err = authorizeManageAnswers(identity)
	}
	if err != nil {
		h.writeError(ctx, w, "create answer rejected", err)
		return
	}

	var req createAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(ctx, w, "invalid create answer request", err)
		return
	}
	if _, err := h.questions.Get(ctx, req.QuestionID); err != nil {
		h.writeError(ctx, w, "failed to get question", err)
		return
	}
	if err := h.syncCaller(ctx, identity); err != nil {
		h.writeError(ctx, w, "failed to sync caller", err)
		return
	}

	a, err := h.answers.Create(ctx, models.CreateAnswerCommand{
		QuestionID:  req.QuestionID,
		Content:     req.Content,
		OwnerUserID: identity.UserID,
	})
	if err != nil {
		h.writeError(ctx, w, "failed to create answer", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) handleUpdateAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := caller(ctx)
	if err == nil {
		err = authorizeManageAnswers(identity)
	}
	if err != nil {
		h.writeError(ctx, w, "update answer rejected", err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(ctx, w, "invalid answer id", err)
		return
	}
	var req updateAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(ctx, w, "invalid update answer request", err)
		return
	}
	if err := checkBodyID(req.ID, id); err != nil {
		h.writeError(ctx, w, "invalid update answer request", err)
		return
	}
	if err := h.syncCaller(ctx, identity); err != nil {
		h.writeError(ctx, w, "failed to sync caller", err)
		return
	}

	a, err := h.answers.Update(ctx, models.UpdateAnswerCommand{ID: id, Content: req.Content})
	if err != nil {
		h.writeError(ctx, w, "failed to update answer", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := caller(ctx)
	if err == nil {
		err = authorizeManageAnswers(identity)
	}
	if err != nil {
		h.writeError(ctx, w, "delete answer rejected", err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(ctx, w, "invalid answer id", err)
		return
	}
	if err := h.syncCaller(ctx, identity); err != nil {
		h.writeError(ctx, w, "failed to sync caller", err)
		return
	}

	if err := h.answers.Delete(ctx, id); err != nil {
		h.writeError(ctx, w, "failed to delete answer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
