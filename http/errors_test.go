package http

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        ClientError
		errType    ErrorType
		code       int
		reason     string
		errMessage string
	}{
		{
			name:       "transport",
			err:        NewTransportError("504 GATEWAY_TIMEOUT", 504, nil),
			errType:    TransportError,
			code:       500,
			reason:     "504 GATEWAY_TIMEOUT",
			errMessage: "transport error: 504 GATEWAY_TIMEOUT",
		},
		{
			name:       "application",
			err:        NewApplicationError(404, "Not found"),
			errType:    ApplicationError,
			code:       404,
			reason:     "Not found",
			errMessage: "application error: Not found (status: 404)",
		},
		{
			name:       "protocol with cause",
			err:        NewProtocolError("response is not valid JSON", errors.New("bad byte")),
			errType:    ProtocolError,
			code:       500,
			reason:     "response is not valid JSON: bad byte",
			errMessage: "protocol error: response is not valid JSON: bad byte",
		},
		{
			name:       "validation",
			err:        NewValidationError("URL cannot be empty", "url"),
			errType:    ValidationError,
			code:       500,
			reason:     "URL cannot be empty",
			errMessage: "validation error: URL cannot be empty (field: url)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, tt.err.Type())
			assert.Equal(t, tt.code, tt.err.Code())
			assert.Equal(t, tt.reason, tt.err.Reason())
			assert.Equal(t, tt.errMessage, tt.err.Error())
			assert.True(t, IsErrorType(tt.err, tt.errType))
		})
	}
}

func TestIsErrorTypeWrapped(t *testing.T) {
	err := fmt.Errorf("gamer: %w", NewApplicationError(401, "Unauthorized"))
	assert.True(t, IsErrorType(err, ApplicationError))
	assert.False(t, IsErrorType(err, TransportError))
	assert.False(t, IsErrorType(nil, TransportError))
	assert.False(t, IsErrorType(errors.New("plain"), TransportError))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(NewTransportError("504 GATEWAY_TIMEOUT", 504, nil)))
	assert.True(t, IsTransient(NewTransportError("504 GATEWAY_TIMEOUT: dial timeout", 0, nil)))
	assert.False(t, IsTransient(NewTransportError("502 BAD_GATEWAY", 502, nil)))
	assert.False(t, IsTransient(NewApplicationError(504, "504 GATEWAY_TIMEOUT")))
	assert.False(t, IsTransient(errors.New("504 GATEWAY_TIMEOUT")))
	assert.False(t, IsTransient(nil))
}

func TestStatusCodeAndHTTPStatus(t *testing.T) {
	code, ok := StatusCode(NewApplicationError(409, "Conflict"))
	assert.True(t, ok)
	assert.Equal(t, 409, code)

	_, ok = StatusCode(errors.New("plain"))
	assert.False(t, ok)

	status, ok := HTTPStatus(NewTransportError("502 BAD_GATEWAY", 502, nil))
	assert.True(t, ok)
	assert.Equal(t, 502, status)

	_, ok = HTTPStatus(NewTransportError("connection refused", 0, nil))
	assert.False(t, ok)
}

func TestTransportErrorUnwrap(t *testing.T) {
	err := NewTransportError("context canceled", 0, context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsSuccessStatus(t *testing.T) {
	assert.True(t, IsSuccessStatus(200))
	assert.True(t, IsSuccessStatus(204))
	assert.False(t, IsSuccessStatus(199))
	assert.False(t, IsSuccessStatus(300))
	assert.False(t, IsSuccessStatus(504))
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "504 GATEWAY_TIMEOUT", statusText(504))
	assert.Equal(t, "502 BAD_GATEWAY", statusText(502))
	assert.Equal(t, "599 UNKNOWN", statusText(599))
}
