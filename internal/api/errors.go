package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError carries the backend's HTTP status and its message, verbatim.
// Booking rejections in particular must reach the user unaltered: the
// client has no way to repair a stale seat or an expired promotion, so the
// backend's explanation is the whole story.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// AsAPIError unwraps err to an *APIError when one is present.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// errorFromResponse drains a non-2xx response into an *APIError.  The
// backend answers with {"error": "..."} on most endpoints and
// {"detail": "..."} on auth views; anything else falls back to the raw
// body.
func errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	msg := ""
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			msg = payload.Error
		} else if payload.Detail != "" {
			msg = payload.Detail
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
