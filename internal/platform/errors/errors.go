// Package errors defines typed application errors for the site.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindUnavailable  Kind = "unavailable"
	KindConfig       Kind = "config"
)

// Error is a typed application failure.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

// Error renders the human-readable message.
func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// EC builds a typed Error with a machine-readable code for API responses.
func EC(kind Kind, code string, message string) error {
	return Error{Kind: kind, Code: strings.TrimSpace(code), Message: message}
}

// ErrorCode returns the machine-readable code when available.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return ""
	}
	return strings.TrimSpace(appErr.Code)
}

// IsNotFound reports whether err classifies as a not-found failure.
func IsNotFound(err error) bool {
	var appErr Error
	return stderrors.As(err, &appErr) && appErr.Kind == KindNotFound
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindConfig:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
