package subtitle

import (
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"
)

type LoadOptions struct {
	// compose decomposed accents so literal rules can match them
	NormalizeNFC bool
}

func Load(path string) (*Subtitle, error) {
	return LoadWithOptions(path, LoadOptions{})
}

// reads, decodes and parses an SRT file
func LoadWithOptions(path string, opts LoadOptions) (*Subtitle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}

	text, enc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if opts.NormalizeNFC {
		text = norm.NFC.String(text)
	}

	sub, err := Parse(text)
	if err != nil {
		return nil, err
	}
	sub.Encoding = enc
	return sub, nil
}
