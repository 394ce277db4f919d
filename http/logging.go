package http

import (
	nethttp "net/http"
	"time"
)

const defaultMaxPayloadLogBytes = 1024

func (e *executor) logRequest(httpReq *nethttp.Request, body []byte, requestID string, attempt int) {
	logEvent := e.logger.Info().
		Str("direction", "outbound").
		Str("method", httpReq.Method).
		Str("url", httpReq.URL.String()).
		Str("request_id", requestID).
		Int("attempt", attempt)

	if len(httpReq.Header) > 0 {
		logEvent.Int("header_count", len(httpReq.Header))
	}

	if len(body) > 0 {
		logEvent.Int("body_size", len(body))
	}

	logEvent.Msg("GameUp request")

	if !e.config.LogPayloads {
		return
	}

	debugEvent := e.logger.Debug().
		Str("direction", "outbound").
		Str("request_id", requestID).
		Interface("headers", map[string][]string(httpReq.Header))
	if len(body) > 0 {
		debugEvent.Str("body_preview", e.preview(body))
	}
	debugEvent.Msg("GameUp request payload")
}

func (e *executor) logResponse(status int, headers nethttp.Header, body []byte, elapsed time.Duration, callCount int64, requestID string) {
	logEvent := e.logger.Info().
		Str("direction", "inbound").
		Str("request_id", requestID).
		Int("status", status).
		Dur("elapsed", elapsed).
		Int64("call_count", callCount)

	if len(body) > 0 {
		logEvent.Int("body_size", len(body))
	}

	logEvent.Msg("GameUp response")

	if !e.config.LogPayloads {
		return
	}

	debugEvent := e.logger.Debug().
		Str("direction", "inbound").
		Str("request_id", requestID).
		Interface("headers", map[string][]string(headers))
	if len(body) > 0 {
		debugEvent.Str("body_preview", e.preview(body))
	}
	debugEvent.Msg("GameUp response payload")
}

func (e *executor) logFailure(req *Request, err error, requestID string) {
	logEvent := e.logger.Error().
		Err(err).
		Str("request_id", requestID)
	if req != nil {
		logEvent.Str("method", req.Method()).
			Str("url", req.URL()).
			Int("retries", req.Retries())
	}
	if code, ok := StatusCode(err); ok {
		logEvent.Int("status", code)
	}
	logEvent.Msg("GameUp request failed")
}

func (e *executor) preview(body []byte) string {
	limit := e.config.MaxPayloadLogBytes
	if limit <= 0 {
		limit = defaultMaxPayloadLogBytes
	}
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "...(truncated)"
}
