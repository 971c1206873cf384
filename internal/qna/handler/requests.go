package handler

import (
	"encoding/json"
	"net/http"

	dErrors "qna/pkg/domain-errors"
)

type createQuestionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ID is optional; when present it must match the path id.
type updateQuestionRequest struct {
	ID      *int64 `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createAnswerRequest struct {
	QuestionID int64  `json:"question_id"`
	Content    string `json:"content"`
}

type updateAnswerRequest struct {
	ID      *int64 `json:"id,omitempty"`
	Content string `json:"content"`
}

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}

func checkBodyID(bodyID *int64, pathID int64) error {
	if bodyID != nil && *bodyID != pathID {
		return dErrors.Wrap(errIDMismatch, dErrors.CodeBadRequest, errIDMismatch.Error())
	}
	return nil
}
