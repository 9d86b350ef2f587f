package fasta

import (
	"io"
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// entry is one raw FASTA entry: the header without '>' and the joined
// sequence lines.
type entry struct {
	header   string
	sequence string
}

// splitter cuts a FASTA stream into entries. Lines before the first '>' are
// ignored, blank lines are skipped and trailing whitespace is trimmed.
type splitter struct {
	lines   *format.LineReader
	started bool
}

func newSplitter(r io.Reader) *splitter {
	return &splitter{lines: format.NewLineReader(r)}
}

func (s *splitter) next() (entry, error) {
	if !s.started {
		for {
			line, err := s.lines.ReadLine()
			if err != nil {
				return entry{}, err
			}
			if strings.HasPrefix(line, ">") {
				s.lines.Unread(line)
				break
			}
		}
		s.started = true
	}

	line, err := s.lines.ReadLine()
	if err != nil {
		return entry{}, err
	}
	e := entry{header: strings.TrimRightFunc(line, isSpace)[1:]}

	var seq strings.Builder
	for {
		line, err := s.lines.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entry{}, err
		}
		if format.IsBlank(line) {
			continue
		}
		if strings.HasPrefix(line, ">") {
			s.lines.Unread(line)
			break
		}
		seq.WriteString(strings.TrimRightFunc(line, isSpace))
	}
	e.sequence = seq.String()
	return e, nil
}

// entryReader adapts a splitter to format.Reader with a per-format builder.
type entryReader struct {
	schema *record.Schema
	split  *splitter
	build  func(schema *record.Schema, e entry) (*record.Record, error)
}

func (r *entryReader) Schema() *record.Schema { return r.schema }

func (r *entryReader) Read() (*record.Record, error) {
	e, err := r.split.next()
	if err != nil {
		return nil, err
	}
	return r.build(r.schema, e)
}
