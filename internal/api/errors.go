package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an error response we keep.
const maxErrorBody = 64 << 10

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method  string
	URL     string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s %s: %d %s", e.Method, e.URL, e.Code, e.Message)
}

// NotFound reports whether the server answered 404.
func (e *StatusError) NotFound() bool { return e.Code == http.StatusNotFound }

func newStatusError(req *http.Request, resp *http.Response) *StatusError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Method:  req.Method,
		URL:     req.URL.String(),
		Code:    resp.StatusCode,
		Message: errorMessage(resp, b),
	}
}

// errorMessage prefers a JSON message field, then the raw body, then the
// status text.
func errorMessage(resp *http.Response, body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var m struct {
			Message  string          `json:"message"`
			Mensagem string          `json:"mensagem"`
			Detail   json.RawMessage `json:"detail"`
		}
		if json.Unmarshal(body, &m) == nil {
			switch {
			case m.Message != "":
				return m.Message
			case m.Mensagem != "":
				return m.Mensagem
			case len(m.Detail) > 0:
				var s string
				if json.Unmarshal(m.Detail, &s) == nil {
					return s
				}
				return string(m.Detail)
			}
		}
	}
	if len(body) > 0 {
		return string(body)
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return strings.TrimSpace(resp.Status)
}
