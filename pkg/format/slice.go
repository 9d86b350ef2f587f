package format

import (
	"io"

	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// SliceReader serves records from memory.
type SliceReader struct {
	schema *record.Schema
	recs   []*record.Record
	pos    int
}

// NewSliceReader returns a Reader over recs, all built from schema.
func NewSliceReader(schema *record.Schema, recs []*record.Record) *SliceReader {
	return &SliceReader{schema: schema, recs: recs}
}

// Schema implements Reader.
func (s *SliceReader) Schema() *record.Schema { return s.schema }

// Read implements Reader.
func (s *SliceReader) Read() (*record.Record, error) {
	if s.pos >= len(s.recs) {
		return nil, io.EOF
	}
	r := s.recs[s.pos]
	s.pos++
	return r, nil
}
