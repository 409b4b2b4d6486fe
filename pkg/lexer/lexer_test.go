package lexer

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const testRules = `# comment lines and blank lines are ignored

blank    [ \t]+
newline  \n
kw::if   if
kw::ifx  ifx
ident    [a-z]+
num      [0-9]+
maybe    x?
`

func mustRules(t *testing.T, src string) []Rule {
	t.Helper()
	rules, err := ParseRules(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	return rules
}

func TestParseRules(t *testing.T) {
	rules := mustRules(t, testRules)
	var types []string
	for _, r := range rules {
		types = append(types, r.Type)
	}
	want := []string{"blank", "newline", "kw::if", "kw::ifx", "ident", "num", "maybe"}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("types = %v; want %v", types, want)
	}
	if rules[0].Line != 3 {
		t.Errorf("first rule line = %d; want 3", rules[0].Line)
	}
	if rules[2].Pattern.Pattern() != "if" {
		t.Errorf("pattern = %q; want %q", rules[2].Pattern.Pattern(), "if")
	}
}

func TestParseRulesErrors(t *testing.T) {
	tests := []struct {
		src  string
		line int
	}{
		{"ok a\nlonely\n", 2},
		{"ok a\n\nbad [z-a]\n", 3},
		{"trailing   \n", 1},
	}
	for _, tc := range tests {
		_, err := ParseRules(strings.NewReader(tc.src))
		var re *RuleError
		if !errors.As(err, &re) {
			t.Errorf("ParseRules(%q) error = %v; want *RuleError", tc.src, err)
			continue
		}
		if re.Line != tc.line {
			t.Errorf("ParseRules(%q) error line = %d; want %d", tc.src, re.Line, tc.line)
		}
	}
}

func TestLexFirstRuleWins(t *testing.T) {
	tokens, err := Lex(mustRules(t, testRules), "ifx if 42\nabc")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	want := []Token{
		{Type: "kw::if", Value: "if", Line: 1, Column: 0},
		{Type: "ident", Value: "x", Line: 1, Column: 2},
		{Type: "blank", Value: " ", Line: 1, Column: 3},
		{Type: "kw::if", Value: "if", Line: 1, Column: 4},
		{Type: "blank", Value: " ", Line: 1, Column: 6},
		{Type: "num", Value: "42", Line: 1, Column: 7},
		{Type: "newline", Value: "\n", Line: 1, Column: 9},
		{Type: "ident", Value: "abc", Line: 2, Column: 0},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokens =\n%v\nwant\n%v", tokens, want)
	}
}

func TestLexSkipsZeroLengthMatches(t *testing.T) {
	// "maybe" matches the empty string everywhere; it must never produce a
	// token or stall the lexer.
	rules := mustRules(t, "maybe x?\nnum [0-9]+\n")
	tokens, err := Lex(rules, "x1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 || tokens[0].Type != "maybe" || tokens[1].Type != "num" {
		t.Errorf("tokens = %v", tokens)
	}
}

func TestLexError(t *testing.T) {
	_, err := Lex(mustRules(t, testRules), "abc\n  12 $")
	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("error = %v; want *lexer.Error", err)
	}
	if le.Line != 2 || le.Column != 5 || le.Char != '$' {
		t.Errorf("error = %+v; want line 2, column 5, char '$'", le)
	}
	if !strings.Contains(le.Error(), `'$'`) {
		t.Errorf("message %q does not show the character", le.Error())
	}
}

func TestLexEmpty(t *testing.T) {
	tokens, err := Lex(mustRules(t, testRules), "")
	if err != nil || len(tokens) != 0 {
		t.Errorf("Lex(\"\") = %v, %v", tokens, err)
	}
}

func TestPrefilterMatchesPlainLexer(t *testing.T) {
	tests := []struct {
		name  string
		rules string
		src   string
	}{
		{"shared start", testRules, "if ifx ab 12 x\nifif iff 7"},
		// "bc" ends before "abcd" does although it starts later.
		{"overlapping literals", "long abcd\nshort bc\nany .\n", "abcd"},
		{"nested literal", "long abcde\nshort bc\nother cd\nany .\n", "xabcdeabcx"},
		{"suffix literal", "long abc\nshort c\nany .\n", "zabcabzc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rules := mustRules(t, tc.rules)
			withFilter, err := New(rules).Lex(tc.src)
			if err != nil {
				t.Fatal(err)
			}
			plain := &Lexer{rules: rules}
			without, err := plain.Lex(tc.src)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(withFilter, without) {
				t.Errorf("prefiltered tokens differ:\n%v\n%v", withFilter, without)
			}
		})
	}
}

func TestPrefilterOverlappingLiterals(t *testing.T) {
	tokens, err := Lex(mustRules(t, "long abcd\nshort bc\nany .\n"), "abcd")
	if err != nil {
		t.Fatal(err)
	}
	want := []Token{{Type: "long", Value: "abcd", Line: 1, Column: 0}}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokens = %v; want %v", tokens, want)
	}
}

func TestPrefilterLiterals(t *testing.T) {
	pf := newPrefilter(mustRules(t, testRules))
	if pf == nil {
		t.Fatal("no prefilter built")
	}
	want := []bool{false, true, true, true, false, false, false}
	if !reflect.DeepEqual(pf.literal, want) {
		t.Errorf("literal = %v; want %v", pf.literal, want)
	}

	scan := pf.scan("ab if")
	if scan.startsAt(0) || scan.startsAt(1) || scan.startsAt(2) {
		t.Errorf("literal reported before position 3")
	}
	if !scan.startsAt(3) {
		t.Errorf("literal at 3 not reported")
	}
	if scan.startsAt(4) {
		t.Errorf("literal reported at 4")
	}
}

func TestPrefilterWithoutLiterals(t *testing.T) {
	if pf := newPrefilter(mustRules(t, "num [0-9]+\n")); pf != nil {
		t.Errorf("prefilter built for rules without literals")
	}
}

func TestTokenMatches(t *testing.T) {
	tok := Token{Type: "number::hex", Value: "0x1"}
	tests := []struct {
		pattern string
		want    bool
	}{
		{"number::hex", true},
		{"number::*", true},
		{"*", true},
		{"number::int", false},
		{"string::*", false},
	}
	for _, tc := range tests {
		if got := tok.Matches(tc.pattern); got != tc.want {
			t.Errorf("Matches(%q) = %v; want %v", tc.pattern, got, tc.want)
		}
	}
	if !tok.Is("number::hex") || tok.Is("number::*") {
		t.Errorf("Is should compare types exactly")
	}
	if got := tok.String(); got != `[0:0:number::hex] "0x1"` {
		t.Errorf("String() = %q", got)
	}
}
