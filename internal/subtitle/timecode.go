package subtitle

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidTime = errors.New("invalid time")

// signed millisecond count
type Millis int64

func (m Millis) String() string {
	return FormatTime(m)
}

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// parses [sign][H:][M:]S[(.|,)fraction] into milliseconds.
// A minus at the start of any group negates the whole value, some real
// files carry a stray '-' inside the hour or minute group.
func ParseTime(s string) (Millis, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTime)
	}

	negative := false
	rest := s
	switch rest[0] {
	case '-':
		negative = true
		rest = rest[1:]
	case '+':
		rest = rest[1:]
	}

	groups := strings.Split(rest, ":")
	if len(groups) > 3 {
		return 0, fmt.Errorf("%w: too many groups in %q", ErrInvalidTime, s)
	}

	last := groups[len(groups)-1]
	seconds, fraction, hasFraction := cutFraction(last)
	groups[len(groups)-1] = seconds

	// weights for [H, M, S] aligned to the right
	weights := []int64{msPerHour, msPerMinute, msPerSecond}
	weights = weights[len(weights)-len(groups):]

	var total int64
	for i, g := range groups {
		if strings.HasPrefix(g, "-") {
			negative = true
			g = g[1:]
		}
		v, err := parseDigits(g)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTime, s, err)
		}
		total += v * weights[i]
		if total > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTime, s)
		}
	}

	if hasFraction {
		ms, err := parseFraction(fraction)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTime, s, err)
		}
		total += ms
		if total > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTime, s)
		}
	}

	if negative {
		total = -total
	}
	return Millis(total), nil
}

func cutFraction(s string) (whole, fraction string, found bool) {
	i := strings.IndexAny(s, ".,")
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

func parseDigits(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("missing digits")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("unexpected character %q", c)
		}
	}
	// anything longer cannot fit the 32-bit range anyway
	if len(s) > 10 {
		return 0, errors.New("value too large")
	}
	return strconv.ParseInt(s, 10, 64)
}

// right-pads 1 to 3 digits to millisecond precision
func parseFraction(s string) (int64, error) {
	if len(s) == 0 || len(s) > 3 {
		return 0, fmt.Errorf("fraction %q must have 1 to 3 digits", s)
	}
	v, err := parseDigits(s)
	if err != nil {
		return 0, err
	}
	for i := len(s); i < 3; i++ {
		v *= 10
	}
	return v, nil
}

// formats milliseconds as HH:MM:SS,mmm
func FormatTime(ms Millis) string {
	sign := ""
	v := int64(ms)
	if v < 0 {
		sign = "-"
		v = -v
	}
	hours := v / msPerHour
	minutes := (v % msPerHour) / msPerMinute
	seconds := (v % msPerMinute) / msPerSecond
	millis := v % msPerSecond

	return fmt.Sprintf("%s%02d:%02d:%02d,%03d", sign, hours, minutes, seconds, millis)
}
