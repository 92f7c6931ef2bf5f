package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mgpai22/fixsrt/internal/fileutil"
)

// UTF-8 byte order mark written ahead of every saved file
var BOM = []byte{0xEF, 0xBB, 0xBF}

const crlf = "\r\n"

// interface for writing subtitles to files
type Writer interface {
	Write(sub *Subtitle, path string) error
}

// SubRip format
type SRTWriter struct {
	// omit the leading byte order mark
	NoBOM bool
}

func NewWriter() *SRTWriter {
	return &SRTWriter{}
}

// renders entries in file order, CRLF terminated
func (s *Subtitle) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}

	for _, entry := range s.Entries {
		cw.writeString(strconv.Itoa(entry.Index))
		cw.writeString(crlf)
		cw.writeString(FormatTime(entry.Start))
		cw.writeString(" --> ")
		cw.writeString(FormatTime(entry.End))
		cw.writeString(crlf)
		for _, line := range entry.Lines {
			cw.writeString(line)
			cw.writeString(crlf)
		}
		cw.writeString(crlf)
		if cw.err != nil {
			return cw.n, cw.err
		}
	}

	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// serialized SRT without byte order mark
func (s *Subtitle) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = s.WriteTo(&buf)
	return buf.Bytes()
}

// writes the subtitle through a work file that replaces path only on success
func (w *SRTWriter) Write(sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	wf, err := fileutil.CreateWorkFile(path)
	if err != nil {
		return fmt.Errorf("cannot create work file: %w", err)
	}
	defer wf.Rollback()

	if !w.NoBOM {
		if _, err := wf.Write(BOM); err != nil {
			return fmt.Errorf("cannot write BOM: %w", err)
		}
	}
	if _, err := sub.WriteTo(wf); err != nil {
		return fmt.Errorf("cannot write subtitles: %w", err)
	}

	return wf.Commit()
}

// saves with a leading BOM
func Save(sub *Subtitle, path string) error {
	return NewWriter().Write(sub, path)
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) writeString(s string) {
	if c.err != nil {
		return
	}
	n, err := io.WriteString(c.w, s)
	c.n += int64(n)
	c.err = err
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
