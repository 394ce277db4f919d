package observability

import "errors"

// ErrNilConfig is returned when Validate is called on a nil Config pointer.
var ErrNilConfig = errors.New("observability: config is nil")

// ErrInvalidProtocol is returned when the protocol is not "http" or "grpc".
var ErrInvalidProtocol = errors.New("observability: protocol must be either 'http' or 'grpc'")

// ErrInvalidEndpointFormat is returned when the endpoint format doesn't match the protocol.
// gRPC endpoints must NOT include a scheme (use "host:port" format).
var ErrInvalidEndpointFormat = errors.New("observability: invalid endpoint format for protocol")
