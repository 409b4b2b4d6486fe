package lexer

import (
	"github.com/coregx/ahocorasick"
)

// prefilter indexes every rule whose pattern is plain text. Directive and
// opcode rules make up most of a rule file, and at most positions none of
// them can match, so one automaton search replaces trying each of them.
type prefilter struct {
	auto    *ahocorasick.Automaton
	literal []bool // indexed like the rule slice
	maxLen  int    // longest literal
}

func newPrefilter(rules []Rule) *prefilter {
	pf := &prefilter{literal: make([]bool, len(rules))}
	builder := ahocorasick.NewBuilder()
	count := 0
	for i, r := range rules {
		lit, ok := r.Pattern.Literal()
		if !ok {
			continue
		}
		builder.AddPattern([]byte(lit))
		pf.literal[i] = true
		pf.maxLen = max(pf.maxLen, len(lit))
		count++
	}
	if count == 0 {
		return nil
	}
	auto, err := builder.Build()
	if err != nil {
		// Without an automaton every rule is tried.
		return nil
	}
	pf.auto = auto
	return pf
}

func (pf *prefilter) isLiteral(rule int) bool {
	return pf != nil && pf.literal[rule]
}

// literalScan tracks the window in which the next literal occurrence must
// start. Find reports the occurrence that ends first, which is not always the
// one that starts first, so only its end bounds the search: no literal can
// start before end-maxLen.
type literalScan struct {
	pf    *prefilter
	src   []byte
	lo    int  // no literal starts in [searched, lo)
	hi    int  // a literal starts at hi
	valid bool // lo and hi describe the last search
	done  bool // no literal occurs at or after the last search
}

func (pf *prefilter) scan(src string) *literalScan {
	return &literalScan{pf: pf, src: []byte(src)}
}

// startsAt reports whether some literal rule may match at pos. Positions
// must not decrease between calls.
func (s *literalScan) startsAt(pos int) bool {
	if s.pf == nil {
		return true
	}
	if s.done {
		return false
	}
	if !s.valid || pos > s.hi {
		m := s.pf.auto.Find(s.src, pos)
		if m == nil {
			s.done = true
			return false
		}
		s.lo = max(pos, m.End-s.pf.maxLen)
		s.hi = m.Start
		s.valid = true
	}
	switch {
	case pos < s.lo:
		return false
	case pos == s.hi:
		return true
	}
	// A longer literal may start here and end after the reported one.
	return s.pf.auto.FindAt(s.src, pos) != nil
}
