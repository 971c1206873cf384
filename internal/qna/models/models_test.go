package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "qna/pkg/domain-errors"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func requireInvalidField(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	de, ok := dErrors.As(err)
	require.True(t, ok, "expected coded error, got %v", err)
	assert.Equal(t, dErrors.CodeValidation, de.Code)
	assert.Equal(t, field, de.Field)
}

func TestValidateQuestionFields(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		field   string
	}{
		{name: "empty title", title: "", content: "x", field: "title"},
		{name: "whitespace title", title: "  \t", content: "x", field: "title"},
		{name: "title over limit", title: strings.Repeat("a", MaxTitleLength+1), content: "x", field: "title"},
		{name: "empty content", title: "Why?", content: "", field: "content"},
		{name: "whitespace content", title: "Why?", content: "\n ", field: "content"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			requireInvalidField(t, ValidateQuestionFields(tc.title, tc.content), tc.field)
		})
	}

	t.Run("title at limit counts characters not bytes", func(t *testing.T) {
		title := strings.Repeat("ş", MaxTitleLength)
		assert.NoError(t, ValidateQuestionFields(title, "x"))
	})
}

func TestNewQuestion(t *testing.T) {
	t.Run("stamps lifecycle fields", func(t *testing.T) {
		local := fixedNow.In(time.FixedZone("TRT", 3*60*60))
		q, err := NewQuestion("Why?", "Explain X", "u1", local)
		require.NoError(t, err)

		assert.Zero(t, q.ID)
		assert.Equal(t, "Why?", q.Title)
		assert.Equal(t, "Explain X", q.Content)
		assert.Equal(t, "u1", q.OwnerUserID)
		assert.True(t, q.IsActive)
		assert.Nil(t, q.UpdatedAt)
		assert.Equal(t, time.UTC, q.CreatedAt.Location())
		assert.True(t, q.CreatedAt.Equal(fixedNow))
	})

	t.Run("requires owner", func(t *testing.T) {
		_, err := NewQuestion("Why?", "Explain X", " ", fixedNow)
		requireInvalidField(t, err, "owner_user_id")
	})
}

func TestQuestionApplyEdit(t *testing.T) {
	q, err := NewQuestion("Why?", "Explain X", "u1", fixedNow)
	require.NoError(t, err)
	q.ID = 7

	t.Run("rejects invalid title without mutating", func(t *testing.T) {
		requireInvalidField(t, q.ApplyEdit("", "x", fixedNow), "title")
		assert.Equal(t, "Why?", q.Title)
		assert.Nil(t, q.UpdatedAt)
	})

	t.Run("overwrites content fields only", func(t *testing.T) {
		later := fixedNow.Add(time.Hour)
		require.NoError(t, q.ApplyEdit("How?", "Explain Y", later))

		assert.Equal(t, int64(7), q.ID)
		assert.Equal(t, "How?", q.Title)
		assert.Equal(t, "Explain Y", q.Content)
		assert.Equal(t, "u1", q.OwnerUserID)
		assert.True(t, q.CreatedAt.Equal(fixedNow))
		require.NotNil(t, q.UpdatedAt)
		assert.True(t, q.UpdatedAt.Equal(later))
	})
}

func TestQuestionAttachAnswers(t *testing.T) {
	q := &Question{ID: 1}
	q.AttachAnswers([]*Answer{
		{ID: 1, QuestionID: 1},
		{ID: 2, QuestionID: 2},
		{ID: 3, QuestionID: 1},
	})

	require.Len(t, q.Answers, 2)
	assert.Equal(t, int64(1), q.Answers[0].ID)
	assert.Equal(t, int64(3), q.Answers[1].ID)

	summary := q.Summary()
	assert.Nil(t, summary.Answers)
	assert.Len(t, q.Answers, 2)
}

func TestHydratedQuestionWithoutAnswersEncodesEmptyList(t *testing.T) {
	q := &Question{ID: 1, Title: "T", Content: "C"}
	q.AttachAnswers(nil)

	raw, err := json.Marshal(q)
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Contains(t, decoded, "answers")
	assert.JSONEq(t, `[]`, string(decoded["answers"]))
}

func TestOwnership(t *testing.T) {
	q := &Question{OwnerUserID: "u1"}
	assert.True(t, q.IsOwnedBy("u1"))
	assert.False(t, q.IsOwnedBy("u2"))
	assert.False(t, q.IsOwnedBy(""))

	a := &Answer{OwnerUserID: "admin"}
	assert.True(t, a.IsOwnedBy("admin"))
	assert.False(t, a.IsOwnedBy(""))
}

func TestNewAnswer(t *testing.T) {
	t.Run("stamps lifecycle fields", func(t *testing.T) {
		a, err := NewAnswer(1, "Because Y", "admin", fixedNow)
		require.NoError(t, err)
		assert.Equal(t, int64(1), a.QuestionID)
		assert.True(t, a.IsActive)
		assert.Nil(t, a.UpdatedAt)
		assert.True(t, a.CreatedAt.Equal(fixedNow))
	})

	t.Run("rejects empty content", func(t *testing.T) {
		_, err := NewAnswer(1, "  ", "admin", fixedNow)
		requireInvalidField(t, err, "content")
	})

	t.Run("edit keeps question link", func(t *testing.T) {
		a, err := NewAnswer(1, "Because Y", "admin", fixedNow)
		require.NoError(t, err)
		require.NoError(t, a.ApplyEdit("Because Z", fixedNow.Add(time.Minute)))
		assert.Equal(t, "Because Z", a.Content)
		assert.Equal(t, int64(1), a.QuestionID)
		require.NotNil(t, a.UpdatedAt)
	})
}
