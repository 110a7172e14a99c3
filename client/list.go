package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// page is one response of a list endpoint. The backend answers with a bare array or wraps
// it in results (cursor pagination) or data.
type page struct {
	Next    string          `json:"next"`
	Results json.RawMessage `json:"results"`
	Data    json.RawMessage `json:"data"`
}

// listAll GETs path and follows cursor links until exhausted or the page limit is hit.
func listAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	items := []T{}
	next := path
	for pages := 0; next != ""; pages++ {
		if pages >= c.pageLimit {
			c.log.Warn().Str("path", path).Int("pages", pages).Msg("page limit reached, list truncated")
			break
		}

		var raw json.RawMessage
		if err := c.Request(ctx, http.MethodGet, next, nil, &raw); err != nil {
			return nil, err
		}
		batch, following, err := decodePage[T](raw)
		if err != nil {
			return nil, fmt.Errorf("[listAll] %s: %w", path, err)
		}
		items = append(items, batch...)

		if following != "" && !c.sameHost(following) {
			c.log.Warn().Str("next", following).Msg("cursor link leaves the gateway host, not followed")
			break
		}
		next = following
	}
	return items, nil
}

func decodePage[T any](raw json.RawMessage) ([]T, string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, "", nil
	}

	var items []T
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, "", err
		}
		return items, "", nil
	}

	var p page
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, "", err
	}
	list := p.Results
	if len(list) == 0 {
		list = p.Data
	}
	if len(list) == 0 || bytes.Equal(bytes.TrimSpace(list), []byte("null")) {
		return nil, p.Next, nil
	}
	if err := json.Unmarshal(list, &items); err != nil {
		return nil, "", err
	}
	return items, p.Next, nil
}

func (c *Client) sameHost(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return !u.IsAbs() || strings.EqualFold(u.Host, c.baseURL.Host)
}

// withQuery appends the non-zero ids in params to path.
func withQuery(path string, params map[string]int64) string {
	values := url.Values{}
	for key, id := range params {
		if id != 0 {
			values.Set(key, strconv.FormatInt(id, 10))
		}
	}
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
