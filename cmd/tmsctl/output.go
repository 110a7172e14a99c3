package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	jmespath "github.com/jmespath-community/go-jmespath"
	"gopkg.in/yaml.v3"

	"github.com/jrsteele09/go-tms-client/internal/errors"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", formatTable:
		return formatTable, nil
	case formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("output %q (valid options: table, json, yaml): %w", s, errors.ErrInvalidRequest)
	}
}

// tableFunc writes rows; columns are tab separated.
type tableFunc func(w io.Writer) error

type renderer struct {
	w      io.Writer
	format outputFormat
	query  string
}

// render writes v in the chosen format. A --query result has no table shape, so it is
// printed as JSON when the table format is active.
func (r renderer) render(v any, table tableFunc) error {
	format := r.format
	if r.query != "" || table == nil {
		data, err := toDocument(v)
		if err != nil {
			return err
		}
		if r.query != "" {
			if data, err = jmespath.Search(r.query, data); err != nil {
				return fmt.Errorf("query %q: %w", r.query, err)
			}
		}
		v = data
		if format == formatTable {
			format = formatJSON
		}
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		data, err := toDocument(v)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
		if err := table(tw); err != nil {
			return err
		}
		return tw.Flush()
	}
}

// toDocument turns v into plain maps and slices keyed by the JSON field names.
func toDocument(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	return doc, nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, line string) error {
	_, err := fmt.Fprintln(w, line)
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func idOrDash(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}
