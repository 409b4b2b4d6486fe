package lexer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"pyas/pkg/regex"
)

// Rule maps a compiled pattern to the token type it produces. Line is the
// rule's line in its source file.
type Rule struct {
	Type    string
	Pattern *regex.Regex
	Line    int
}

// RuleError reports a malformed line in a rule file.
type RuleError struct {
	Line int
	Msg  string
	Err  error
}

func (e *RuleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rules line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("rules line %d: %s", e.Line, e.Msg)
}

func (e *RuleError) Unwrap() error { return e.Err }

// ParseRules reads rules, one per line, in the form
//
//	<type> <pattern>
//
// The pattern runs to the end of the line with leading whitespace removed.
// Blank lines and lines starting with '#' are skipped.
func ParseRules(r io.Reader) ([]Rule, error) {
	var rules []Rule
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || trimmed[0] == '#' {
			continue
		}

		sep := strings.IndexAny(trimmed, " \t")
		if sep < 0 {
			return nil, &RuleError{Line: lineNo, Msg: fmt.Sprintf("rule %q has no pattern", trimmed)}
		}
		typ := trimmed[:sep]
		pattern := strings.TrimLeft(trimmed[sep:], " \t")
		if pattern == "" {
			return nil, &RuleError{Line: lineNo, Msg: fmt.Sprintf("rule %q has no pattern", typ)}
		}

		re, err := regex.Compile(pattern)
		if err != nil {
			return nil, &RuleError{Line: lineNo, Msg: fmt.Sprintf("bad pattern for %s", typ), Err: err}
		}
		rules = append(rules, Rule{Type: typ, Pattern: re, Line: lineNo})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// LoadRules reads a rule file from disk.
func LoadRules(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rules, err := ParseRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}
