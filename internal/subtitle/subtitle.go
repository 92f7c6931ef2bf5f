package subtitle

// upper bound on text lines per entry
const MaxLines = 5

// represents single subtitle entry
type Entry struct {
	Index int
	Start Millis
	End   Millis
	Lines []string
}

// represents complete subtitle track
type Subtitle struct {
	Entries  []Entry
	Encoding Encoding
}

// number of text lines across all entries
func (s *Subtitle) LineCount() int {
	n := 0
	for _, e := range s.Entries {
		n += len(e.Lines)
	}
	return n
}

// interface for line-level text correction
type LineRewriter interface {
	ReplaceOne(line string) string
}
