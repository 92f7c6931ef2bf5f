package rewrite

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Boundary restricts the character adjoining a match.
type Boundary int

const (
	BoundarySeparator Boundary = iota
	BoundaryAny
	BoundaryLetter
	BoundaryDigit
)

func (b Boundary) String() string {
	switch b {
	case BoundarySeparator:
		return "separator"
	case BoundaryAny:
		return "any"
	case BoundaryLetter:
		return "letter"
	case BoundaryDigit:
		return "digit"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

func boundaryForMarker(c byte) (Boundary, bool) {
	switch c {
	case '*':
		return BoundaryAny, true
	case '+':
		return BoundaryLetter, true
	case '#':
		return BoundaryDigit, true
	}
	return BoundarySeparator, false
}

var ErrEmptyPattern = errors.New("empty pattern")

// Rule is a compiled pattern/replacement pair.
type Rule struct {
	// Pattern as written, markers included
	Pattern     string
	Core        string
	Replacement string
	Precede     Boundary
	Follow      Boundary
}

// ParseRule strips the trailing marker, then the leading one.
func ParseRule(pattern, replacement string) (Rule, error) {
	core := pattern
	follow := BoundarySeparator
	precede := BoundarySeparator

	if core != "" {
		if b, ok := boundaryForMarker(core[len(core)-1]); ok {
			follow = b
			core = core[:len(core)-1]
		}
	}
	if core != "" {
		if b, ok := boundaryForMarker(core[0]); ok {
			precede = b
			core = core[1:]
		}
	}
	if core == "" {
		return Rule{}, fmt.Errorf("%w: %q", ErrEmptyPattern, pattern)
	}

	return Rule{
		Pattern:     pattern,
		Core:        core,
		Replacement: replacement,
		Precede:     precede,
		Follow:      follow,
	}, nil
}

func isSeparator(c rune) bool {
	switch c {
	case ' ', '\u00a0', '.', ',', '"', '-':
		return true
	}
	return false
}

func isLetter(c rune) bool {
	return !isSeparator(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func precedeOK(b Boundary, c rune) bool {
	switch b {
	case BoundaryAny:
		return true
	case BoundaryLetter:
		return isLetter(c)
	case BoundaryDigit:
		return isDigit(c)
	default:
		return isSeparator(c) || c == '\''
	}
}

func followOK(b Boundary, c rune) bool {
	switch b {
	case BoundaryAny:
		return true
	case BoundaryLetter:
		return isLetter(c)
	case BoundaryDigit:
		return isDigit(c)
	default:
		return isSeparator(c)
	}
}

// Apply rewrites every non-overlapping occurrence whose neighbours satisfy
// the rule's boundaries. Neighbours are read from the input line.
func (r Rule) Apply(line string) string {
	if !strings.Contains(line, r.Core) {
		return line
	}

	var sb strings.Builder
	sb.Grow(len(line) + len(r.Replacement))

	start := 0
	for {
		i := strings.Index(line[start:], r.Core)
		if i < 0 {
			sb.WriteString(line[start:])
			break
		}
		index := start + i
		end := index + len(r.Core)

		okBefore := true
		if index > 0 {
			prev, _ := utf8.DecodeLastRuneInString(line[:index])
			okBefore = precedeOK(r.Precede, prev)
		}
		okAfter := true
		if end < len(line) {
			next, _ := utf8.DecodeRuneInString(line[end:])
			okAfter = followOK(r.Follow, next)
		}

		sb.WriteString(line[start:index])
		atEnd := end >= len(line)
		switch {
		case okBefore && okAfter && atEnd:
			// no trailing space at the end of a line
			sb.WriteString(strings.TrimSuffix(r.Replacement, " "))
		case okBefore && okAfter:
			sb.WriteString(r.Replacement)
		default:
			sb.WriteString(r.Core)
		}

		start = end
		if atEnd {
			break
		}
	}
	return sb.String()
}

// ApplyRule parses pattern and applies it once to line. An invalid pattern
// leaves the line unchanged.
func ApplyRule(line, pattern, replacement string) string {
	r, err := ParseRule(pattern, replacement)
	if err != nil {
		return line
	}
	return r.Apply(line)
}
