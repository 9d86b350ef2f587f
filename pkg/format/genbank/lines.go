package genbank

import (
	"io"
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/format"
)

// indent is the column width of a flat-file keyword area. A physical line
// whose first indent columns are blank continues the previous logical line.
const indent = 12

// logicalLines reassembles continuation lines into one logical line each,
// joined with a single space and trimmed.
type logicalLines struct {
	lr      *format.LineReader
	current string
	started bool
	done    bool
}

func newLogicalLines(r io.Reader) *logicalLines {
	return &logicalLines{lr: format.NewLineReader(r)}
}

// Next returns the next logical line, or io.EOF.
func (l *logicalLines) Next() (string, error) {
	if l.done {
		return "", io.EOF
	}
	if !l.started {
		first, err := l.nextNonBlank()
		if err == io.EOF {
			l.done = true
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}
		l.current = strings.TrimSpace(first)
		l.started = true
	}

	for {
		line, err := l.nextNonBlank()
		if err == io.EOF {
			l.done = true
			return l.current, nil
		}
		if err != nil {
			return "", err
		}
		if isContinuation(line) {
			l.current += " " + strings.TrimSpace(line)
			continue
		}
		out := l.current
		l.current = strings.TrimSpace(line)
		return out, nil
	}
}

// find advances to the first logical line starting with prefix. ok is false
// when the input ends first.
func (l *logicalLines) find(prefix string) (string, bool, error) {
	for {
		line, err := l.Next()
		if err == io.EOF {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		if strings.HasPrefix(line, prefix) {
			return line, true, nil
		}
	}
}

func (l *logicalLines) nextNonBlank() (string, error) {
	for {
		line, err := l.lr.ReadLine()
		if err != nil {
			return "", err
		}
		if !format.IsBlank(line) {
			return line, nil
		}
	}
}

func isContinuation(line string) bool {
	return len(line) > indent && strings.TrimSpace(line[:indent]) == ""
}
