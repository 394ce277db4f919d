package http

import (
	"fmt"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/gameup-io/gameup-go/codec"
)

// classify interprets a non-empty 2xx body. It returns the payload text on
// success, an application error for the service's error envelope and a
// protocol error for anything it cannot read.
func classify(body []byte, headers nethttp.Header, decompress bool) (string, error) {
	text := string(body)
	if decompress && isGzipEncoded(headers) && codec.IsGzip(body) {
		inflated, err := codec.Decompress(body)
		if err != nil {
			return "", NewProtocolError("failed to decompress response", err)
		}
		text = inflated
	}

	if !gjson.Valid(text) {
		return "", NewProtocolError("response is not valid JSON", nil)
	}
	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return "", NewProtocolError("response is not a JSON object", nil)
	}

	status := doc.Get("status")
	message := doc.Get("message")
	if !status.Exists() || !message.Exists() || !doc.Get("request").Exists() {
		return text, nil
	}

	code, err := strconv.Atoi(strings.TrimSpace(status.String()))
	if err != nil {
		return "", NewProtocolError(fmt.Sprintf("error status %q is not an integer", status.String()), err)
	}
	return "", NewApplicationError(code, message.String())
}

func isGzipEncoded(headers nethttp.Header) bool {
	return strings.EqualFold(strings.TrimSpace(headers.Get(headerContentEncoding)), codec.ContentEncodingGzip)
}
