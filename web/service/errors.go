// Package service implements the persistence and authorization rules behind
// the quillpress HTTP API.
package service

import (
	"errors"
	"fmt"

	"github.com/quillpress/blog-api/database"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrCommentDeleted     = errors.New("comment has been deleted")
	ErrInvalidParent      = errors.New("parent comment must belong to the same blog")
)

// InputError is a client mistake tied to one request field. MessageID names
// the localized message reported for it.
type InputError struct {
	Field     string
	MessageID string
	Err       error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return e.Field + " is invalid"
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func inputError(field, messageID string, err error) error {
	return &InputError{Field: field, MessageID: messageID, Err: err}
}

// notFound maps gorm's missing-record error onto ErrNotFound.
func notFound(err error) error {
	if database.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}
