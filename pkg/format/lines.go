package format

import (
	"bufio"
	"io"
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
)

// LineReader reads newline-terminated lines of any length and supports
// pushing one line back.
type LineReader struct {
	br      *bufio.Reader
	pending *string
	eof     bool
	n       int
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &LineReader{br: br}
	}
	return &LineReader{br: bufio.NewReader(r)}
}

// ReadLine returns the next line without its "\n" or "\r\n" terminator.
// It returns io.EOF when no data is left; a final line without terminator is
// still returned.
func (l *LineReader) ReadLine() (string, error) {
	if l.pending != nil {
		s := *l.pending
		l.pending = nil
		l.n++
		return s, nil
	}
	if l.eof {
		return "", io.EOF
	}
	s, err := l.br.ReadString('\n')
	if err == io.EOF {
		l.eof = true
		if s == "" {
			return "", io.EOF
		}
	} else if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "read line %d", l.n+1)
	}
	l.n++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}

// Unread pushes line back so the next ReadLine returns it.
func (l *LineReader) Unread(line string) {
	l.pending = &line
	l.n--
}

// Line returns the number of the line most recently returned.
func (l *LineReader) Line() int { return l.n }

// IsBlank reports whether s contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
