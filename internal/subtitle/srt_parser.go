package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrBadIndex     = errors.New("bad index")
	ErrBadTimeRange = errors.New("bad time range")
	ErrTooMuchText  = errors.New("too much text")
)

// line-numbered parse failure
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type parseState int

const (
	wantsIndex parseState = iota
	wantsTimeRange
	wantsFirstText
	// a blank line came where the first text line was expected
	wantsFirstTextRetry
	wantsMoreText
)

func (s parseState) String() string {
	switch s {
	case wantsIndex:
		return "WantsIndex"
	case wantsTimeRange:
		return "WantsTimeRange"
	case wantsFirstText:
		return "WantsFirstText"
	case wantsFirstTextRetry:
		return "WantsFirstTextRetry"
	case wantsMoreText:
		return "WantsMoreText"
	default:
		return fmt.Sprintf("parseState(%d)", int(s))
	}
}

type effect int

const (
	effectNone effect = iota
	effectSetIndex
	effectSetTimes
	effectAppendText
	effectFlush
	// flush the current entry and start a new one with index
	effectFlushAndStart
)

type transition struct {
	next   parseState
	effect effect
	index  int
	start  Millis
	end    Millis
	text   string
}

// computes the next state for one trimmed line; current is read, never modified
func step(state parseState, current Entry, line string) (transition, error) {
	blank := line == ""

	switch state {
	case wantsIndex:
		if blank {
			return transition{next: wantsIndex}, nil
		}
		index, err := parseIndex(line)
		if err != nil {
			return transition{}, fmt.Errorf("%w: %v", ErrBadIndex, err)
		}
		return transition{next: wantsTimeRange, effect: effectSetIndex, index: index}, nil

	case wantsTimeRange:
		left, right, ok := strings.Cut(line, "-->")
		if !ok {
			return transition{}, fmt.Errorf("%w: missing \"-->\"", ErrBadTimeRange)
		}
		start, err := ParseTime(strings.TrimSpace(left))
		if err != nil {
			return transition{}, err
		}
		end, err := ParseTime(strings.TrimSpace(right))
		if err != nil {
			return transition{}, err
		}
		return transition{next: wantsFirstText, effect: effectSetTimes, start: start, end: end}, nil

	case wantsFirstText:
		if blank {
			return transition{next: wantsFirstTextRetry}, nil
		}
		return transition{next: wantsMoreText, effect: effectAppendText, text: line}, nil

	case wantsFirstTextRetry:
		if blank {
			return transition{next: wantsFirstTextRetry}, nil
		}
		// an index following the previous one means the entry really was empty
		if index, err := parseIndex(line); err == nil && index == current.Index+1 {
			return transition{next: wantsTimeRange, effect: effectFlushAndStart, index: index}, nil
		}
		return transition{next: wantsMoreText, effect: effectAppendText, text: line}, nil

	case wantsMoreText:
		if blank {
			return transition{next: wantsIndex, effect: effectFlush}, nil
		}
		if len(current.Lines) >= MaxLines {
			return transition{}, fmt.Errorf("%w for entry %d", ErrTooMuchText, current.Index)
		}
		return transition{next: wantsMoreText, effect: effectAppendText, text: line}, nil
	}

	return transition{}, fmt.Errorf("unknown parser state %v", state)
}

func parseIndex(s string) (int, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// parses whole-file SRT text
func Parse(text string) (*Subtitle, error) {
	var entries []Entry
	var current Entry
	state := wantsIndex

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), len(text)+1)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimRightFunc(line, unicode.IsSpace)

		tr, err := step(state, current, line)
		if err != nil {
			return nil, &ParseError{Line: lineNum, Text: line, Err: err}
		}

		switch tr.effect {
		case effectSetIndex:
			current.Index = tr.index
		case effectSetTimes:
			current.Start = tr.start
			current.End = tr.end
		case effectAppendText:
			current.Lines = append(current.Lines, tr.text)
		case effectFlush:
			entries = append(entries, current)
			current = Entry{}
		case effectFlushAndStart:
			entries = append(entries, current)
			current = Entry{Index: tr.index}
		}
		state = tr.next
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT text: %w", err)
	}

	// the last entry may not be followed by a blank line
	if len(current.Lines) > 0 {
		entries = append(entries, current)
	}

	return &Subtitle{Entries: entries}, nil
}
