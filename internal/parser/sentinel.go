package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Directive comments recognised in source units.
const (
	EntitySentinel   = "//beangen:bean"
	PropertySentinel = "//beangen:property"
	DerivedSentinel  = "//beangen:derived"
	AbstractMarker   = "//beangen:abstract"
)

var argKey = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// matchSentinel reports whether the trimmed line is token, optionally
// followed by a parenthesized argument list, and returns the list text.
func matchSentinel(line, token string) (string, bool) {
	if line == token {
		return "", true
	}
	if strings.HasPrefix(line, token+"(") {
		return line[len(token):], true
	}
	return "", false
}

// isDirective reports whether the trimmed line is any beangen directive.
func isDirective(line string) bool {
	return strings.HasPrefix(line, "//beangen:")
}

// parseArgs parses `(key="value", other=value)` into a map.
func parseArgs(text string) (map[string]string, error) {
	args := make(map[string]string)
	if text == "" {
		return args, nil
	}
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return nil, fmt.Errorf("argument list %q must be enclosed in parentheses", text)
	}
	inner := strings.TrimSpace(text[1 : len(text)-1])
	if inner == "" {
		return args, nil
	}
	parts, err := splitArgs(inner)
	if err != nil {
		return nil, err
	}
	for _, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("argument %q is not key=value", part)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !argKey.MatchString(key) {
			return nil, fmt.Errorf("invalid argument key %q", key)
		}
		if _, dup := args[key]; dup {
			return nil, fmt.Errorf("duplicate argument %q", key)
		}
		if strings.HasPrefix(value, `"`) {
			unquoted, err := strconv.Unquote(value)
			if err != nil {
				return nil, fmt.Errorf("argument %s: invalid quoted value %s", key, value)
			}
			value = unquoted
		}
		args[key] = value
	}
	return args, nil
}

// splitArgs splits on commas that are not inside double quotes.
func splitArgs(s string) ([]string, error) {
	var parts []string
	var current strings.Builder
	quoted := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == '"':
			quoted = !quoted
		case r == ',' && !quoted:
			part := strings.TrimSpace(current.String())
			if part == "" {
				return nil, fmt.Errorf("empty argument in %q", s)
			}
			parts = append(parts, part)
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote in %q", s)
	}
	part := strings.TrimSpace(current.String())
	if part == "" {
		return nil, fmt.Errorf("empty argument in %q", s)
	}
	return append(parts, part), nil
}

// checkKeys fails on the first key that is not allowed, in sorted order.
func checkKeys(args map[string]string, allowed ...string) error {
	var unknown []string
	for key := range args {
		found := false
		for _, a := range allowed {
			if a == key {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	first := unknown[0]
	for _, k := range unknown[1:] {
		if k < first {
			first = k
		}
	}
	return fmt.Errorf("unknown argument %q (allowed: %s)", first, strings.Join(allowed, ", "))
}
