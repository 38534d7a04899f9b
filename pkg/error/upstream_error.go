package error

import "net/http"

// UpstreamError wraps failures from the LINE platform or the Sheets API.
// Callers absorb these locally; they must never decide an HTTP response.
type UpstreamError string

func (err UpstreamError) Error() string {
	return string(err)
}

func (err UpstreamError) ErrCode() string {
	return "UPSTREAM_ERROR"
}

func (err UpstreamError) StatusCode() int {
	return http.StatusBadGateway
}
