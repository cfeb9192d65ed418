// Package parser turns raw text lines in skein's comma-separated log grammar
// into model.Message values.
//
// The grammar is one line per entry, fields separated by commas:
//
//	Level,Severity,Timestamp,Message   (4 fields, Level must be "E")
//	Level,Timestamp,Message            (3 fields)
//
// Level tags are "I" (Info), "W" (Warning) and "E" (Error). Severity and
// Timestamp are signed integers. A line that does not match the grammar is
// never an error: it degrades to an Unknown message carrying the original
// line, so one malformed line cannot abort processing of a file.
package parser

import (
	"strconv"
	"strings"

	"skein/internal/model"
)

// ParseLine classifies a single line. The field count decides the shape:
// exactly 4 fields are tried as an error entry with severity, exactly 3 as an
// entry without one, and anything else falls straight through to Unknown.
func ParseLine(line string) model.Message {
	fields := strings.Split(line, ",")

	switch len(fields) {
	case 4:
		if known, ok := buildKnown(fields[0], &fields[1], fields[2], fields[3]); ok {
			return known
		}
	case 3:
		if known, ok := buildKnown(fields[0], nil, fields[1], fields[2]); ok {
			return known
		}
	}

	return model.Unknown{Text: line}
}

// ParseFile parses newline-separated content in input order. Empty content
// yields no entries; otherwise the result has one message per line.
func ParseFile(content string) []model.Message {
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	msgs := make([]model.Message, len(lines))
	for i, line := range lines {
		msgs[i] = ParseLine(line)
	}
	return msgs
}

// FilterUnknown returns only the Unknown entries, preserving order.
func FilterUnknown(msgs []model.Message) []model.Message {
	var out []model.Message
	for _, m := range msgs {
		if _, ok := m.(model.Unknown); ok {
			out = append(out, m)
		}
	}
	return out
}

// ErrorsAbove parses content and returns the rendered form of every error
// entry whose severity is strictly greater than threshold, in input order.
// Non-error entries and unparseable lines are excluded.
func ErrorsAbove(content string, threshold int) []string {
	var out []string
	for _, m := range ParseFile(content) {
		known, ok := m.(model.Known)
		if !ok {
			continue
		}
		if err, ok := known.Level.(model.Error); ok && err.Severity > threshold {
			out = append(out, known.String())
		}
	}
	return out
}

// buildKnown resolves the level and timestamp fields. Both must succeed, and
// resolution stops at the first failure; the caller falls back to Unknown.
func buildKnown(levelTag string, severity *string, timestamp, text string) (model.Known, bool) {
	level, ok := parseLevel(levelTag, severity)
	if !ok {
		return model.Known{}, false
	}

	ts, ok := parseInt(timestamp)
	if !ok {
		return model.Known{}, false
	}

	return model.Known{Level: level, Timestamp: ts, Text: text}, true
}

// parseLevel maps a level tag to its Level variant. "E" additionally needs a
// severity field that parses as an integer; a 3-field "E" line therefore
// always fails here, which is intended: an error entry without a severity is
// malformed.
func parseLevel(tag string, severity *string) (model.Level, bool) {
	switch tag {
	case "I":
		return model.Info{}, true
	case "W":
		return model.Warning{}, true
	case "E":
		if severity == nil {
			return nil, false
		}
		sev, ok := parseInt(*severity)
		if !ok {
			return nil, false
		}
		return model.Error{Severity: sev}, true
	default:
		return nil, false
	}
}

// parseInt wraps strconv.Atoi into an option-shaped result. Severity and
// timestamp are unbounded; no range checks.
func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
