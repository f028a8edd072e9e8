package printer

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"labelgen/internal/config"
)

// Encoder converts UTF-8 documents to a printer code page. ZPL printers pick
// their code page with ^CI; the configured encoding must match it.
type Encoder struct {
	name    string
	charmap *charmap.Charmap
}

// NewEncoder returns the encoder for a printer.encoding value.
func NewEncoder(name string) (*Encoder, error) {
	canonical := config.NormalizeEncoding(name)
	switch canonical {
	case "", "utf-8":
		return &Encoder{name: "utf-8"}, nil
	case "cp437":
		return &Encoder{name: canonical, charmap: charmap.CodePage437}, nil
	case "cp850":
		return &Encoder{name: canonical, charmap: charmap.CodePage850}, nil
	case "cp1252":
		return &Encoder{name: canonical, charmap: charmap.Windows1252}, nil
	default:
		return nil, fmt.Errorf("unsupported printer encoding %q", name)
	}
}

// Name returns the canonical encoding name.
func (e *Encoder) Name() string {
	return e.name
}

// Encode transcodes data. UTF-8 output is validated and passed through; a
// rune the code page cannot represent is an error.
func (e *Encoder) Encode(data []byte) ([]byte, error) {
	if e.charmap == nil {
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("document is not valid utf-8")
		}
		return data, nil
	}
	out, err := e.charmap.NewEncoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.name, err)
	}
	return out, nil
}
