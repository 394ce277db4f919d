package http

import (
	"fmt"
	nethttp "net/http"
	"net/url"
	"runtime"

	"github.com/gameup-io/gameup-go/codec"
	"github.com/gameup-io/gameup-go/trace"
)

// Version is the SDK version reported in the client identifier.
const Version = "1.0.0"

const (
	headerUserAgent       = "User-Agent"
	headerAccept          = "Accept"
	headerContentType     = "Content-Type"
	headerAuthorization   = "Authorization"
	headerAcceptEncoding  = "Accept-Encoding"
	headerContentEncoding = "Content-Encoding"

	mediaTypeJSON = "application/json"

	paramStatus = "_status"
	paramMethod = "_method"
)

// UserAgent is the client identifier sent unless the platform forbids
// setting User-Agent.
func UserAgent() string {
	return fmt.Sprintf("gameup-go/%s (Go %s; %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

type prepareOptions struct {
	userAgent         string
	restrictUserAgent bool
	compressRequests  bool
	compressResponses bool
	requestID         string
}

// prepared is a request ready to hand to the transport.
type prepared struct {
	url     string
	headers HeaderSet
	body    []byte
}

// prepare turns a Request into the wire form: status override and method
// tunnelling parameters, ordered headers and the possibly compressed body.
func prepare(req *Request, opts prepareOptions) (*prepared, error) {
	target, err := tunnelURL(req.URL(), req.Method())
	if err != nil {
		return nil, err
	}

	headers := make(HeaderSet, 0, 7)
	if !opts.restrictUserAgent && opts.userAgent != "" {
		headers.Set(headerUserAgent, opts.userAgent)
	}
	headers.Set(headerAccept, mediaTypeJSON)
	headers.Set(headerContentType, mediaTypeJSON)
	headers.Set(headerAuthorization, req.AuthHeader())
	if opts.requestID != "" {
		headers.Set(trace.HeaderXRequestID, opts.requestID)
	}
	if opts.compressResponses {
		headers.Set(headerAcceptEncoding, codec.ContentEncodingGzip)
	}

	body := req.Body()
	if opts.compressRequests && codec.ShouldCompress(body) {
		compressed, err := codec.Compress(body)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("failed to compress body: %v", err), "body")
		}
		body = compressed
		headers.Set(headerContentEncoding, codec.ContentEncodingGzip)
	}

	return &prepared{url: target, headers: headers, body: body}, nil
}

// tunnelURL appends _status=200 and, for verbs other than GET, _method=VERB.
// Existing query parameters are kept in front.
func tunnelURL(rawURL, method string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", NewValidationError(fmt.Sprintf("invalid URL: %v", err), "url")
	}
	if u.Scheme == "" || u.Host == "" {
		return "", NewValidationError("URL must be absolute", "url")
	}

	params := paramStatus + "=200"
	if method != nethttp.MethodGet {
		params += "&" + paramMethod + "=" + method
	}

	if u.RawQuery == "" {
		u.RawQuery = params
	} else {
		u.RawQuery += "&" + params
	}
	return u.String(), nil
}
