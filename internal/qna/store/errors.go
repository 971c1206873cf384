// Package store holds the persistence facts shared by the question/answer
// store implementations.
package store

import (
	"errors"
	"fmt"

	"qna/pkg/platform/sentinel"
)

var (
	// ErrQuestionNotFound is returned when an answer references a question
	// that does not exist. It matches sentinel.ErrNotFound.
	ErrQuestionNotFound = fmt.Errorf("referenced question %w", sentinel.ErrNotFound)

	// ErrUnknownOwner is returned when a row references a user id with no
	// user row. It deliberately does not match sentinel.ErrNotFound: a missing
	// owner is a store failure, not a missing resource.
	ErrUnknownOwner = errors.New("owner user does not exist")

	// ErrUserReferenced is returned when deleting a user that still owns
	// questions or answers. It matches sentinel.ErrConflict.
	ErrUserReferenced = fmt.Errorf("user still owns content: %w", sentinel.ErrConflict)
)
