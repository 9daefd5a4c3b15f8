package account

import (
	"errors"
	"net/http"
)

// Error codes
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodeCache         = "CACHE_ERROR"
)

// Client-facing messages
const (
	MsgRepoNameRequired     = "Repository name is required"
	MsgTitleAndBodyRequired = "Title and body are required"
	MsgTokenNotConfigured   = "GitHub token is not configured. Please set GITHUB_TOKEN environment variable."
	MsgUserNotConfigured    = "GitHub username is not configured. Please set GITHUB_USERNAME environment variable."
)

// Domain errors

type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error returns Message verbatim; it is what clients see.
func (e *DomainError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Predefined domain errors

func ErrValidation(message string) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: message,
	}
}

func ErrConfiguration(message string) *DomainError {
	return &DomainError{
		Code:    CodeConfiguration,
		Message: message,
	}
}

// ErrUpstream wraps a GitHub API failure, keeping the remote message as-is
func ErrUpstream(message string, err error) *DomainError {
	return &DomainError{
		Code:    CodeUpstream,
		Message: message,
		Err:     err,
	}
}

// WrapUpstream prefixes an upstream failure with the operation that failed
func WrapUpstream(operation string, err error) *DomainError {
	return ErrUpstream(operation+": "+err.Error(), err)
}

// ErrCache describes a cache store failure. It is logged, never returned to clients.
func ErrCache(operation, key string, err error) *DomainError {
	return &DomainError{
		Code:    CodeCache,
		Message: "cache " + operation + " failed for key " + key,
		Err:     err,
	}
}

// HasCode reports whether any error in err's chain is a DomainError with code
func HasCode(err error, code string) bool {
	var de *DomainError
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// HTTPStatus maps an error to the response status
func HTTPStatus(err error) int {
	if HasCode(err, CodeValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
