package subtitle

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dimchansky/utfbom"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

var (
	ErrInvalidUTF8         = errors.New("invalid UTF-8")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)

// source text encoding as detected by Decode
type Encoding string

const (
	EncodingUTF8BOM     Encoding = "utf-8-bom"
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingUTF16LE     Encoding = "utf-16le"
	EncodingUTF16BE     Encoding = "utf-16be"
)

// turns raw file bytes into text: BOM-marked UTF-8 must be valid, BOM-less
// input is UTF-8 when it validates and Windows-1252 otherwise
func Decode(data []byte) (string, Encoding, error) {
	rd, enc := utfbom.Skip(bytes.NewReader(data))
	rest, err := io.ReadAll(rd)
	if err != nil {
		return "", "", fmt.Errorf("read content: %w", err)
	}

	switch enc {
	case utfbom.UTF8:
		if !utf8.Valid(rest) {
			return "", EncodingUTF8BOM, ErrInvalidUTF8
		}
		return string(rest), EncodingUTF8BOM, nil
	case utfbom.UTF16LittleEndian:
		return decodeUTF16(rest, xunicode.LittleEndian, EncodingUTF16LE)
	case utfbom.UTF16BigEndian:
		return decodeUTF16(rest, xunicode.BigEndian, EncodingUTF16BE)
	case utfbom.UTF32LittleEndian, utfbom.UTF32BigEndian:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc)
	}

	if utf8.Valid(rest) {
		return string(rest), EncodingUTF8, nil
	}
	return DecodeWindows1252(rest), EncodingWindows1252, nil
}

// maps every byte to a code point, 0x80-0x9F through the Windows-1252 table.
// The five bytes Windows-1252 leaves undefined pass through as C1 controls.
func DecodeWindows1252(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		switch b {
		case 0x81, 0x8d, 0x8f, 0x90, 0x9d:
			sb.WriteRune(rune(b))
		default:
			sb.WriteRune(charmap.Windows1252.DecodeByte(b))
		}
	}
	return sb.String()
}

func decodeUTF16(data []byte, order xunicode.Endianness, enc Encoding) (string, Encoding, error) {
	out, err := xunicode.UTF16(order, xunicode.IgnoreBOM).NewDecoder().Bytes(data)
	if err != nil {
		return "", enc, fmt.Errorf("decode %s: %w", enc, err)
	}
	return string(out), enc, nil
}
