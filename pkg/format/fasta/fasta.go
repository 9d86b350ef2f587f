// Package fasta implements the FASTA family of formats: plain FASTA, the
// Haplotype Viewer FASTA dialect, FastQ, Genbank submission FASTA and MoID
// FASTA.
//
// All readers except FastQ share one entry splitter: an entry starts at a
// line beginning with '>' and its sequence is the concatenation of the
// following non-blank lines.
package fasta

import (
	"fmt"
	"io"

	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/naming"
	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// Fields is the schema of plain FASTA and Hapview records.
var Fields = []string{record.FieldSeqid, record.FieldSequence}

var fastaSchema = record.MustSchema(Fields...)

// Descriptor is the plain FASTA format.
var Descriptor = &format.Descriptor{
	Name:           "fasta",
	Description:    "FASTA",
	Extension:      ".fas",
	FileExtensions: []string{".fas", ".fasta", ".fa", ".fna", ".ffn"},
	Fields:         Fields,
	NewReader:      NewReader,
	NewWriter:      NewWriter,
}

// NewReader returns a FASTA reader. The whole header line after '>' becomes
// the seqid.
func NewReader(r io.Reader) (format.Reader, error) {
	return &entryReader{schema: fastaSchema, split: newSplitter(r), build: buildPlain}, nil
}

func buildPlain(schema *record.Schema, e entry) (*record.Record, error) {
	return schema.New(map[string]string{
		record.FieldSeqid:    e.header,
		record.FieldSequence: e.sequence,
	})
}

// Writer streams records as FASTA, naming each with the schema's assembler.
type Writer struct {
	w     io.Writer
	names *naming.Assembler
}

// NewWriter returns a FASTA writer.
func NewWriter(w io.Writer, schema *record.Schema, _ format.Env) (format.Writer, error) {
	return &Writer{w: w, names: naming.NewAssembler(schema, false)}, nil
}

// Push implements format.Writer.
func (fw *Writer) Push(r *record.Record) error {
	_, err := fmt.Fprintf(fw.w, ">%s\n%s\n", fw.names.Name(r), r.Sequence())
	return err
}

// Finish implements format.Writer.
func (fw *Writer) Finish() error { return nil }
