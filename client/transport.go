package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	green      = "\033[32m"
	blue       = "\033[34m"
	cyan       = "\033[36m"
	yellow     = "\033[33m"
	magenta    = "\033[35m"
	red        = "\033[31m"
	gray       = "\033[90m"
	resetColor = "\033[0m"
)

var methodColors = map[string]string{
	http.MethodGet:    green,
	http.MethodPost:   blue,
	http.MethodPut:    cyan,
	http.MethodDelete: yellow,
	http.MethodPatch:  magenta,
}

// loggingTransport prints one coloured line per exchange at debug level.
type loggingTransport struct {
	next http.RoundTripper
	log  zerolog.Logger
}

func newLoggingTransport(next http.RoundTripper, log zerolog.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, log: log}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.log.Debug().Msg(routeLine(req.Method, req.URL.Path, 0, time.Since(started)))
		return nil, err
	}
	t.log.Debug().Msg(routeLine(req.Method, req.URL.Path, resp.StatusCode, time.Since(started)))
	return resp, nil
}

func routeLine(method, path string, status int, elapsed time.Duration) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = gray
	}
	statusText := "ERR"
	if status > 0 {
		statusText = fmt.Sprintf("%d", status)
	}
	if status == 0 || status >= http.StatusBadRequest {
		statusText = red + statusText + resetColor
	}
	return fmt.Sprintf("[%-19s] %s %s %s", color+paddedMethod+resetColor, path, statusText, elapsed.Round(time.Millisecond))
}
