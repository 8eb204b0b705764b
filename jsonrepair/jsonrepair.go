// Package jsonrepair decodes JSON from model output that is almost, but
// not quite, valid: fenced in markdown, commented, or carrying trailing
// commas. Each repair is applied only after a strict decode fails, so
// well-formed input passes through untouched.
package jsonrepair

import (
	"encoding/json"
	"strings"

	"github.com/shoplens/shoplens"
)

// StripFences removes a surrounding markdown code fence, with or without
// a language tag, and returns the inner text.
func StripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		first := strings.TrimSpace(t[:i])
		// Drop a language tag like "json" on the opening fence line.
		if first == "" || !strings.ContainsAny(first, "{[\"") {
			t = t[i+1:]
		}
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// Extract returns the first balanced JSON object or array in s, for
// responses that wrap the payload in prose.
func Extract(s string) string {
	start := -1
	var open, close byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start, open = i, s[i]
			close = '}'
			if open == '[' {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return s
	}
	depth := 0
	inStr := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case inStr:
			if c == '\\' {
				i++
			} else if c == '"' {
				inStr = false
			}
		case c == '"':
			inStr = true
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}

// StripComments removes // line comments and /* block comments outside of
// string literals.
func StripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inStr := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				inStr = false
			}
			continue
		}
		switch {
		case c == '"':
			inStr = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FixTrailingCommas removes commas that directly precede a closing
// bracket or brace.
func FixTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inStr := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				inStr = false
			}
			continue
		}
		if c == '"' {
			inStr = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// QuoteBareKeys wraps unquoted object keys in double quotes. This is the
// most aggressive pass and runs last: it only touches identifiers that
// sit between a `{` or `,` and a `:`.
func QuoteBareKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	inStr := false
	expectKey := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				inStr = false
			}
			continue
		}
		switch {
		case c == '"':
			inStr = true
			expectKey = false
			b.WriteByte(c)
		case c == '{' || c == ',':
			expectKey = true
			b.WriteByte(c)
		case expectKey && isIdentByte(c):
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			k := j
			for k < len(s) && (s[k] == ' ' || s[k] == '\t' || s[k] == '\n' || s[k] == '\r') {
				k++
			}
			if k < len(s) && s[k] == ':' {
				b.WriteByte('"')
				b.WriteString(s[i:j])
				b.WriteByte('"')
			} else {
				b.WriteString(s[i:j])
			}
			i = j - 1
			expectKey = false
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			b.WriteByte(c)
		default:
			expectKey = false
			b.WriteByte(c)
		}
	}
	return b.String()
}

// QuoteBareValues wraps unquoted word values in double quotes, leaving
// JSON literals and numbers alone. It only touches identifier runs that
// directly follow a `:`.
func QuoteBareValues(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	inStr := false
	expectValue := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				inStr = false
			}
			continue
		}
		switch {
		case c == '"':
			inStr = true
			expectValue = false
			b.WriteByte(c)
		case c == ':':
			expectValue = true
			b.WriteByte(c)
		case expectValue && isIdentByte(c):
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			word := s[i:j]
			if word == "true" || word == "false" || word == "null" || isNumeric(word) {
				b.WriteString(word)
			} else {
				b.WriteByte('"')
				b.WriteString(word)
				b.WriteByte('"')
			}
			i = j - 1
			expectValue = false
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			b.WriteByte(c)
		default:
			expectValue = false
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Decode unmarshals data into v, escalating through repairs until one
// yields valid JSON. It fails with EPARSE when nothing does.
func Decode(data string, v any) error {
	stages := []func(string) string{
		func(s string) string { return s },
		StripFences,
		func(s string) string { return Extract(StripFences(s)) },
		func(s string) string { return FixTrailingCommas(StripComments(Extract(StripFences(s)))) },
		func(s string) string {
			return QuoteBareKeys(FixTrailingCommas(StripComments(Extract(StripFences(s)))))
		},
		func(s string) string {
			return QuoteBareValues(QuoteBareKeys(FixTrailingCommas(StripComments(Extract(StripFences(s))))))
		},
	}
	var err error
	for _, stage := range stages {
		if err = json.Unmarshal([]byte(stage(data)), v); err == nil {
			return nil
		}
	}
	return shoplens.Errorf(shoplens.EPARSE, "jsonrepair: undecodable model output: %v", err)
}
