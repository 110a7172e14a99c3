package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-tms-client/internal/errors"
)

// APIError is a non-2xx gateway response reduced to one human-readable message.
type APIError struct {
	StatusCode int
	Field      string // set when the message came from a field-level validation error
	Message    string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Is maps the status code onto the shared sentinels so callers can use errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case errors.ErrInvalidRequest:
		return e.StatusCode == http.StatusBadRequest
	case errors.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case errors.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case errors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case errors.ErrConflict:
		return e.StatusCode == http.StatusConflict
	case errors.ErrThrottled:
		return e.StatusCode == http.StatusTooManyRequests
	case errors.ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// StatusCode returns the HTTP status of err when it is an *APIError, otherwise 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// parseAPIError reads the error payload shapes the backend emits:
//
//	{"detail": "..."}                     -> message
//	{"name": ["This field is required."]} -> "name: This field is required."
//	["message"]                           -> message
//
// A top-level detail wins wherever it appears; otherwise the first field in document order
// is used. Anything unreadable becomes "HTTP <status>".
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: fmt.Sprintf("HTTP %d", status)}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return apiErr
	}

	switch trimmed[0] {
	case '{':
		field, message, ok := firstFieldMessage(trimmed)
		if ok {
			apiErr.Field, apiErr.Message = field, message
		}
	case '[', '"':
		if message := firstString(trimmed); message != "" {
			apiErr.Message = message
		}
	}
	return apiErr
}

func firstFieldMessage(body []byte) (field, message string, ok bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if _, err := dec.Token(); err != nil {
		return "", "", false
	}

	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return field, message, ok
		}
		key, _ := keyToken.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return field, message, ok
		}
		text := firstString(value)
		if key == "detail" && text != "" {
			return "", text, true
		}
		if !ok && text != "" {
			field, message, ok = key, text, true
		}
	}
	return field, message, ok
}

// firstString returns the first string value found in a JSON value, descending into lists
// and objects in document order. Object keys are skipped.
func firstString(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	var objects []bool // true for each open object, false for each open list
	expectKey := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				objects = append(objects, true)
				expectKey = true
				continue
			case '[':
				objects = append(objects, false)
				expectKey = false
				continue
			default:
				objects = objects[:len(objects)-1]
			}
		case string:
			if expectKey {
				expectKey = false
				continue
			}
			return v
		}
		expectKey = len(objects) > 0 && objects[len(objects)-1]
	}
}
