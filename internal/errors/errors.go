// Package errors provides sentinel errors shared across the bot's components.
package errors

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrAnswerNotFound  = errors.New("answer not found")
	ErrSessionNotFound = errors.New("session not found")
)
