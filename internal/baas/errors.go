package baas

import (
	"errors"
	"fmt"
)

// ErrorKind classifies API failures.
type ErrorKind string

const (
	KindAuth      ErrorKind = "auth"
	KindNotFound  ErrorKind = "not_found"
	KindTransport ErrorKind = "transport"
	KindMalformed ErrorKind = "malformed"
	KindUpstream  ErrorKind = "upstream"
)

// APIError is returned for every failed API call.
type APIError struct {
	Kind       ErrorKind
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s failed (HTTP %d): %s", e.Operation, e.StatusCode, msg)
	case msg != "":
		return fmt.Sprintf("%s failed: %s", e.Operation, msg)
	default:
		return fmt.Sprintf("%s failed", e.Operation)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to an MCP client for this error.
func (e *APIError) UserMessage() string {
	switch e.Kind {
	case KindAuth:
		return "Authentication failed. Check your Meeting BaaS API key."
	case KindNotFound:
		return "Not found: " + e.detail("the requested resource does not exist")
	case KindTransport:
		return "Could not reach the Meeting BaaS API: " + e.detail("network error")
	case KindMalformed:
		return "Unexpected response from the Meeting BaaS API: " + e.detail("malformed data")
	default:
		return "Meeting BaaS API error: " + e.Error()
	}
}

func (e *APIError) detail(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fallback
}

func kindForStatus(code int) ErrorKind {
	switch {
	case code == 401 || code == 403:
		return KindAuth
	case code == 404:
		return KindNotFound
	default:
		return KindUpstream
	}
}

func isKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return isKind(err, KindAuth) }

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsMalformed reports whether the API answered with data the client could not use.
func IsMalformed(err error) bool { return isKind(err, KindMalformed) }
