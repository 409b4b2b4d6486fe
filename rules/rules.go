// Package rules ships the default lexer rule file for .pyasm sources.
package rules

import (
	_ "embed"
	"strings"

	"pyas/pkg/lexer"
)

//go:embed pyasm.lex
var source string

// Source returns the text of the default rule file.
func Source() string { return source }

// Default parses the embedded rule file.
func Default() ([]lexer.Rule, error) {
	return lexer.ParseRules(strings.NewReader(source))
}
