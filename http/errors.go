package http

import (
	"errors"
	"fmt"
	"strings"
)

// StatusNonApplication is the code reported for every failure that did not come
// from the service's error envelope. The real HTTP status is not observable
// because requests ask the service to always answer 200.
const StatusNonApplication = 500

// GatewayTimeoutMarker identifies a transient transport failure.
const GatewayTimeoutMarker = "504 GATEWAY_TIMEOUT"

// ClientError is the error type returned by the executor.
type ClientError interface {
	error
	Type() ErrorType
	// Code is the status handed to callers: the embedded status for application
	// errors, StatusNonApplication otherwise.
	Code() int
	// Reason is the human readable message for the failure.
	Reason() string
}

// ErrorType defines the category of client error
type ErrorType string

const (
	TransportError   ErrorType = "transport"
	ApplicationError ErrorType = "application"
	ProtocolError    ErrorType = "protocol"
	ValidationError  ErrorType = "validation"
)

// transportError is a failure reported by the network layer or by an
// intermediary answering with a non-2xx status.
type transportError struct {
	reason     string
	httpStatus int
	wrapped    error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("transport error: %s", e.reason)
}

func (e *transportError) Type() ErrorType { return TransportError }
func (e *transportError) Code() int       { return StatusNonApplication }
func (e *transportError) Reason() string  { return e.reason }
func (e *transportError) Unwrap() error   { return e.wrapped }

// HTTPStatus is the status observed on the wire, or 0 when no response arrived.
func (e *transportError) HTTPStatus() int { return e.httpStatus }

// applicationError is the service's {"status","message","request"} envelope.
type applicationError struct {
	status  int
	message string
}

func (e *applicationError) Error() string {
	return fmt.Sprintf("application error: %s (status: %d)", e.message, e.status)
}

func (e *applicationError) Type() ErrorType { return ApplicationError }
func (e *applicationError) Code() int       { return e.status }
func (e *applicationError) Reason() string  { return e.message }

// protocolError is a response the client cannot interpret.
type protocolError struct {
	message string
	wrapped error
}

func (e *protocolError) Error() string {
	return fmt.Sprintf("protocol error: %s", e.Reason())
}

func (e *protocolError) Type() ErrorType { return ProtocolError }
func (e *protocolError) Code() int       { return StatusNonApplication }
func (e *protocolError) Unwrap() error   { return e.wrapped }

func (e *protocolError) Reason() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

// validationError represents a request rejected before it was sent.
type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType { return ValidationError }
func (e *validationError) Code() int       { return StatusNonApplication }
func (e *validationError) Reason() string  { return e.message }

// NewTransportError creates a transport error. httpStatus is 0 when the
// failure happened before a response was received.
func NewTransportError(reason string, httpStatus int, wrapped error) ClientError {
	return &transportError{reason: reason, httpStatus: httpStatus, wrapped: wrapped}
}

// NewApplicationError creates an error from the service's error envelope.
func NewApplicationError(status int, message string) ClientError {
	return &applicationError{status: status, message: message}
}

// NewProtocolError creates a protocol error.
func NewProtocolError(message string, wrapped error) ClientError {
	return &protocolError{message: message, wrapped: wrapped}
}

// NewValidationError creates a new validation error
func NewValidationError(message, field string) ClientError {
	return &validationError{message: message, field: field}
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsTransient reports whether err is a transport failure carrying the gateway
// timeout marker.
func IsTransient(err error) bool {
	var te *transportError
	if !errors.As(err, &te) {
		return false
	}
	return strings.Contains(te.reason, GatewayTimeoutMarker)
}

// StatusCode returns the (code, true) pair a caller should act on, or false
// when err is not a ClientError.
func StatusCode(err error) (int, bool) {
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Code(), true
	}
	return 0, false
}

// HTTPStatus returns the HTTP status observed on a transport failure.
func HTTPStatus(err error) (int, bool) {
	var te *transportError
	if errors.As(err, &te) && te.httpStatus != 0 {
		return te.httpStatus, true
	}
	return 0, false
}

// IsSuccessStatus checks if a status code represents success (2xx)
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
