// Package http executes authenticated requests against the GameUp service.
//
// Every request is sent with _status=200 so the service always answers 200;
// the logical outcome lives in the body. Non-GET verbs also travel as a
// _method query parameter for environments that cannot send them natively.
//
// Outcomes
//   - Empty 2xx body: success with an empty payload.
//   - JSON object containing status, message and request: application error
//     carrying the embedded status and message.
//   - Any other JSON object: success, payload returned verbatim.
//   - Transport failure (network error, client timeout, non-2xx from an
//     intermediary): reported with the fixed status 500 and the transport text.
//   - Body that is not a JSON object, or a gzip body that fails to inflate:
//     protocol error, status 500.
//
// Retries
//   - Off unless Config.RetriesEnabled is set.
//   - Only transport errors containing "504 GATEWAY_TIMEOUT" are retried.
//     Client-side timeouts are reported in that form.
//   - At most Config.MaxRetries (default 2) extra attempts per Request, each
//     after a uniformly random delay in [RetryMinDelay, RetryMaxDelay).
//
// Compression
//   - CompressResponses adds Accept-Encoding: gzip and inflates responses that
//     declare Content-Encoding: gzip and start with the gzip magic number.
//   - CompressRequests gzips bodies larger than 300 bytes.
package http
