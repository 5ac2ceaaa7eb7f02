package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Detail)
}

func newStatusError(code int, body []byte) *StatusError {
	detail := strings.TrimSpace(string(body))
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		var s string
		switch {
		case len(payload.Detail) > 0 && json.Unmarshal(payload.Detail, &s) == nil:
			detail = s
		case len(payload.Detail) > 0:
			detail = string(payload.Detail)
		case payload.Message != "":
			detail = payload.Message
		}
	}
	return &StatusError{Code: code, Detail: truncateDetail(detail, maxDetailLen)}
}

const maxDetailLen = 200

// truncateDetail cuts s to at most n bytes without splitting a rune.
func truncateDetail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func statusCode(err error) int {
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Code
	}
	return 0
}

// IsUnauthorized reports a 401, which means the stored session is no longer valid.
func IsUnauthorized(err error) bool {
	return statusCode(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}
