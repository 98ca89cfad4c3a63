// Package validation collects input-check failures into the error list the
// API returns on 400: {"errors":[{"msg":..., "param":..., "location":"body"}]}.
//
// Checks never stop at the first failure; every failing field is reported,
// in the order the checks were declared.
package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/sakif/donation-hub/internal/apperror"
)

// Checker accumulates field errors. The zero value is ready to use.
type Checker struct {
	errs []apperror.FieldError
}

// New returns an empty Checker.
func New() *Checker {
	return &Checker{}
}

// Required fails when value is empty after trimming whitespace.
func (c *Checker) Required(field, value, msg string) *Checker {
	if strings.TrimSpace(value) == "" {
		c.add(field, msg)
	}
	return c
}

// Email fails unless value is a bare address such as "a@x.com".
// Display-name forms ("A <a@x.com>") are rejected.
func (c *Checker) Email(field, value, msg string) *Checker {
	if !IsEmail(value) {
		c.add(field, msg)
	}
	return c
}

// MinLength fails when value has fewer than n characters.
func (c *Checker) MinLength(field, value string, n int, msg string) *Checker {
	if utf8.RuneCountInString(value) < n {
		c.add(field, msg)
	}
	return c
}

// Err returns nil if every check passed, otherwise an *apperror.AppError
// of kind ErrValidation listing each failure.
func (c *Checker) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return apperror.Validation(c.errs)
}

func (c *Checker) add(field, msg string) {
	c.errs = append(c.errs, apperror.FieldError{Msg: msg, Param: field, Location: "body"})
}

// IsEmail reports whether s is a plain email address with a dotted domain.
func IsEmail(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
