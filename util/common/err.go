// Package common holds small error helpers shared across the quillpress packages.
package common

import (
	"errors"
	"fmt"

	"github.com/quillpress/blog-api/logger"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

// Combine joins the non-nil errors, returning nil when every error is nil.
func Combine(errs ...error) error {
	return errors.Join(errs...)
}

// Recover must be deferred directly. It logs the panic value under msg and
// returns it so callers can decide whether to continue.
func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, " panic: ", panicErr)
		}
	}
	return panicErr
}
