package subtitle

import (
	"errors"
	"math"
)

var ErrTooManyEntries = errors.New("too many entries")

// a last entry further than this from the previous one is treated as garbage
const maxTrailingGap Millis = 5 * 60 * 60 * 1000

// rewrites every text line, returns how many lines changed
func (s *Subtitle) ApplyTextRules(rw LineRewriter) int {
	changed := 0
	for i := range s.Entries {
		lines := s.Entries[i].Lines
		for j, line := range lines {
			fixed := rw.ReplaceOne(line)
			if fixed != line {
				lines[j] = fixed
				changed++
			}
		}
	}
	return changed
}

// adds shift to every entry and spreads stretch linearly across the
// eligible entries, 0 for the first up to stretch for the last
func (s *Subtitle) ApplyTimeShiftStretch(shift, stretch Millis) error {
	if shift == 0 && stretch == 0 {
		return nil
	}
	if len(s.Entries) > math.MaxInt32 {
		return ErrTooManyEntries
	}

	eligible := len(s.Entries)
	if ShouldExcludeLast(s.Entries) {
		eligible--
	}
	doStretch := stretch != 0 && eligible >= 2

	for i := range s.Entries {
		offset := shift
		if doStretch && i < eligible {
			offset += stretchOffset(i, eligible, stretch)
		}
		s.Entries[i].Start += offset
		s.Entries[i].End += offset
	}
	return nil
}

// floor(i * stretch / (n-1))
func stretchOffset(i, n int, stretch Millis) Millis {
	num := int64(i) * int64(stretch)
	den := int64(n - 1)
	q := num / den
	if num%den != 0 && (num < 0) != (den < 0) {
		q--
	}
	return Millis(q)
}

// reports whether the last entry should not count for stretching
func ShouldExcludeLast(entries []Entry) bool {
	switch len(entries) {
	case 0:
		return false
	case 1:
		return entries[0].Start <= 0
	}
	last := entries[len(entries)-1].Start
	prev := entries[len(entries)-2].Start
	return last < prev || last-prev > maxTrailingGap
}
