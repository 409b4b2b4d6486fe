package regex

// Quantifier controls how many input characters a CharGroup may consume.
type Quantifier uint8

const (
	QuantNone     Quantifier = iota // exactly one
	QuantStar                       // zero or more
	QuantPlus                       // one or more
	QuantQuestion                   // zero or one
)

func (q Quantifier) String() string {
	switch q {
	case QuantStar:
		return "*"
	case QuantPlus:
		return "+"
	case QuantQuestion:
		return "?"
	}
	return ""
}

// charsetSize is the number of characters a group can hold. Bytes at or above
// it are never members of any group.
const charsetSize = 128

// CharGroup is one compiled regex atom: a 7-bit character set, a negation
// flag and a quantifier. Groups are built by Compile and never change after.
type CharGroup struct {
	set     [charsetSize]bool
	negated bool
	quant   Quantifier
}

func (g *CharGroup) add(c byte) {
	g.set[c] = true
}

func (g *CharGroup) addRange(lo, hi byte) {
	for c := int(lo); c <= int(hi); c++ {
		g.set[c] = true
	}
}

func (g *CharGroup) addAll() {
	for c := range g.set {
		g.set[c] = true
	}
}

// Has reports whether c satisfies the group's membership test.
func (g CharGroup) Has(c byte) bool {
	if c >= charsetSize {
		return false
	}
	return g.set[c] != g.negated
}

func (g CharGroup) Negated() bool { return g.negated }

func (g CharGroup) Quantifier() Quantifier { return g.quant }

// Members returns the stored set in ascending order, ignoring negation.
func (g CharGroup) Members() []byte {
	var out []byte
	for c, ok := range g.set {
		if ok {
			out = append(out, byte(c))
		}
	}
	return out
}

func (g CharGroup) isAny() bool {
	if g.negated {
		return false
	}
	for _, ok := range g.set {
		if !ok {
			return false
		}
	}
	return true
}

// literal returns the single character the group matches when it is a plain
// unquantified, non-negated one-member set.
func (g CharGroup) literal() (byte, bool) {
	if g.negated || g.quant != QuantNone {
		return 0, false
	}
	found := -1
	for c, ok := range g.set {
		if !ok {
			continue
		}
		if found >= 0 {
			return 0, false
		}
		found = c
	}
	if found < 0 {
		return 0, false
	}
	return byte(found), true
}
