package parser

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"pyas/pkg/lexer"
	"pyas/pkg/pyobj"
)

type setting struct {
	key       string
	valueType string
	required  bool
	apply     func(c *pyobj.Code, v string) error
}

// settings lists the .set keys in the order missing keys are reported.
var settings = []setting{
	{"version_pyvm", lexer.TypeUint, true, func(c *pyobj.Code, v string) error {
		n, err := strconv.Atoi(v)
		c.VersionPyVM = n
		return err
	}},
	{"flags", lexer.TypeHex, true, func(c *pyobj.Code, v string) error {
		n, err := strconv.ParseUint(v, 0, 32)
		c.Flags = uint32(n)
		return err
	}},
	{"filename", lexer.TypeString, true, func(c *pyobj.Code, v string) error {
		s, err := strconv.Unquote(v)
		c.Filename = s
		return err
	}},
	{"name", lexer.TypeString, true, func(c *pyobj.Code, v string) error {
		s, err := strconv.Unquote(v)
		c.Name = s
		return err
	}},
	{"stack_size", lexer.TypeUint, true, func(c *pyobj.Code, v string) error {
		n, err := strconv.ParseInt(v, 10, 32)
		c.StackSize = int32(n)
		return err
	}},
	{"arg_count", lexer.TypeUint, true, func(c *pyobj.Code, v string) error {
		n, err := strconv.ParseInt(v, 10, 32)
		c.ArgCount = int32(n)
		return err
	}},
	{"firstlineno", lexer.TypeUint, false, func(c *pyobj.Code, v string) error {
		n, err := strconv.ParseInt(v, 10, 32)
		c.FirstLineNo = int32(n)
		return err
	}},
}

func lookupSetting(key string) (setting, bool) {
	i := slices.IndexFunc(settings, func(s setting) bool { return s.key == key })
	if i < 0 {
		return setting{}, false
	}
	return settings[i], true
}

// parseSettings consumes the leading block of .set lines.
func (p *Parser) parseSettings(code *pyobj.Code) error {
	var seen []string
	var last lexer.Token

	for {
		p.skipLayout()
		if p.atEOF() || !p.peek().Is(lexer.TypeSet) {
			break
		}
		last = p.advance()

		keyTok, err := p.expect(lexer.TypeSymbol, "setting name")
		if err != nil {
			return err
		}
		s, ok := lookupSetting(keyTok.Value)
		if !ok {
			return p.errorf(keyTok, "unknown setting %q", keyTok.Value)
		}
		if slices.Contains(seen, s.key) {
			return p.errorf(keyTok, "duplicate setting %q", s.key)
		}
		seen = append(seen, s.key)

		valTok, err := p.expect(s.valueType, s.valueType+" value for "+s.key)
		if err != nil {
			return err
		}
		if err := s.apply(code, valTok.Value); err != nil {
			return p.errorf(valTok, "bad value for %s: %v", s.key, err)
		}

		// The rest of a .set line is ignored.
		for !p.atEOF() && !p.peek().Is(lexer.TypeNewline) {
			p.pos++
		}
	}

	var missing []string
	for _, s := range settings {
		if s.required && !slices.Contains(seen, s.key) {
			missing = append(missing, s.key)
		}
	}
	if len(missing) > 0 {
		at := last
		if at == (lexer.Token{}) {
			at = p.peek()
		}
		return p.errorf(at, "missing settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
