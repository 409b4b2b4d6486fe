package regex

// Match reports whether the pattern matches a prefix of input and returns the
// end of the match. On failure the end is where matching stopped.
func (r *Regex) Match(input string) (bool, int) {
	return r.MatchAt(input, 0)
}

// MatchAt is like Match but starts at byte offset start.
func (r *Regex) MatchAt(input string, start int) (bool, int) {
	if start < 0 || start > len(input) {
		return false, start
	}
	return matchGroups(r.groups, input, start)
}

// Match compiles pattern and matches it against input. An invalid pattern
// never matches.
func Match(pattern, input string) (bool, int) {
	re, err := Compile(pattern)
	if err != nil {
		return false, 0
	}
	return re.Match(input)
}

// matchGroups only backtracks at quantified groups. Star and plus take the
// longest run first and give characters back one at a time; '?' tries one
// character before none.
func matchGroups(groups []CharGroup, input string, pos int) (bool, int) {
	if len(groups) == 0 {
		return true, pos
	}
	g := &groups[0]
	rest := groups[1:]

	switch g.quant {
	case QuantNone:
		if pos >= len(input) || !g.Has(input[pos]) {
			return false, pos
		}
		return matchGroups(rest, input, pos+1)

	case QuantQuestion:
		if pos < len(input) && g.Has(input[pos]) {
			if ok, end := matchGroups(rest, input, pos+1); ok {
				return true, end
			}
		}
		if ok, end := matchGroups(rest, input, pos); ok {
			return true, end
		}
		return false, pos

	default:
		run := pos
		for run < len(input) && g.Has(input[run]) {
			run++
		}
		least := pos
		if g.quant == QuantPlus {
			least++
		}
		for end := run; end >= least; end-- {
			if ok, e := matchGroups(rest, input, end); ok {
				return true, e
			}
		}
		return false, pos
	}
}
