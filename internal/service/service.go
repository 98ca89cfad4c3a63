// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the store
//
// Services accept plain values and return models or apperror kinds. They never
// see an *http.Request and never pick a status code; the handler translates.
//
// Every service takes repository interfaces, not a concrete store, so the same
// code runs on MongoDB in production, SQLite in development and in-memory
// fakes in the tests.
package service

import (
	"errors"

	"github.com/sakif/donation-hub/internal/apperror"
)

// Messages shared by more than one service.
const (
	msgNotAuthorised    = "User not Authorised"
	msgIncorrectPincode = "Incorrect Pincode"
)

// errorList builds the {"errors":[{"msg":...}]} response for rule failures
// that are not tied to one input field.
func errorList(msg string) error {
	return apperror.Validation([]apperror.FieldError{{Msg: msg}})
}

// isLookupMiss reports whether err means "no such record", counting an id the
// store cannot parse as a miss.
func isLookupMiss(err error) bool {
	return errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrInvalidID)
}
