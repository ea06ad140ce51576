// Package services holds the application logic behind the HTTP handlers.
// Every operation returns a uniform Result envelope instead of a Go error:
// the envelope is the wire contract with the map client and carries either
// a human-readable message or a data payload, never an error and data
// together.
package services

// Code is a machine-readable sub-status accompanying failed results.
type Code string

const (
	CodeUnauthenticated    Code = "unauthenticated"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeRateLimited        Code = "rate_limited"
	CodeValidationError    Code = "validation_error"
	CodePersistenceError   Code = "persistence_error"
	CodeUpstreamError      Code = "upstream_error"
	CodeConfigurationError Code = "configuration_error"
	CodeDuplicateReview    Code = "duplicate_review"
	CodeSystemError        Code = "system_error"
)

// Result is the success/failure envelope returned by every service call.
type Result struct {
	Success bool   `json:"success"`
	Code    Code   `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(message string) Result {
	return Result{Success: true, Message: message}
}

func okData(data any) Result {
	return Result{Success: true, Data: data}
}

func fail(code Code, message string) Result {
	return Result{Success: false, Code: code, Message: message}
}
