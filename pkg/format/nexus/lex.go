package nexus

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
)

// Magic is the header every NEXUS file starts with.
const Magic = "#NEXUS"

// Tokenizer splits a NEXUS stream into words and the punctuation tokens "="
// and ";". Bracketed comments are skipped, nested ones included, and
// single-quoted text is read literally with '' standing for one quote.
type Tokenizer struct {
	br      *bufio.Reader
	pending string
}

// NewTokenizer checks the magic header and returns a tokenizer positioned
// right after it.
func NewTokenizer(r io.Reader) (*Tokenizer, error) {
	br := bufio.NewReader(r)
	head := make([]byte, len(Magic))
	n, err := io.ReadFull(br, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "nexus: read header")
	}
	if string(head[:n]) != Magic {
		return nil, errors.Formatf("the input is not a NEXUS file")
	}
	return &Tokenizer{br: br}, nil
}

// Next returns the next token, or io.EOF at the end of input.
func (t *Tokenizer) Next() (string, error) {
	if t.pending != "" {
		tok := t.pending
		t.pending = ""
		return tok, nil
	}

	var tok strings.Builder
	for {
		r, _, err := t.br.ReadRune()
		if err == io.EOF {
			if tok.Len() > 0 {
				return tok.String(), nil
			}
			return "", io.EOF
		}
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeIO, err, "nexus: read")
		}

		switch {
		case r == '=' || r == ';':
			if tok.Len() > 0 {
				t.pending = string(r)
				return tok.String(), nil
			}
			return string(r), nil
		case r == '[':
			if err := t.skipComment(); err != nil {
				return "", err
			}
		case r == '\'':
			if err := t.readQuoted(&tok); err != nil {
				return "", err
			}
		case unicode.IsSpace(r):
			if tok.Len() > 0 {
				return tok.String(), nil
			}
		default:
			tok.WriteRune(r)
		}
	}
}

// skipComment consumes input up to the ']' closing an already opened '['.
func (t *Tokenizer) skipComment() error {
	depth := 1
	for depth > 0 {
		r, _, err := t.br.ReadRune()
		if err == io.EOF {
			return errors.Formatf("nexus: EOF inside a comment")
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "nexus: read")
		}
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		}
	}
	return nil
}

// readQuoted appends quoted text to tok up to the closing quote.
func (t *Tokenizer) readQuoted(tok *strings.Builder) error {
	for {
		r, _, err := t.br.ReadRune()
		if err == io.EOF {
			return errors.Formatf("nexus: EOF inside a quoted value")
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "nexus: read")
		}
		if r != '\'' {
			tok.WriteRune(r)
			continue
		}
		next, _, err := t.br.ReadRune()
		if err == nil && next == '\'' {
			tok.WriteRune('\'')
			continue
		}
		if err == nil {
			_ = t.br.UnreadRune()
		}
		return nil
	}
}
