package fasta

import (
	"fmt"
	"io"
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// FastQ field names.
const (
	FieldQualityID    = "quality_score_identifier"
	FieldQualityScore = "quality_score"
)

// FastQFields is the schema of FastQ records.
var FastQFields = []string{record.FieldSeqid, record.FieldSequence, FieldQualityID, FieldQualityScore}

var fastqSchema = record.MustSchema(FastQFields...)

// FastQ is the four-line FastQ format.
var FastQ = &format.Descriptor{
	Name:           "fastq",
	Description:    "FastQ",
	Extension:      ".fastq",
	FileExtensions: []string{".fastq", ".fq"},
	Fields:         FastQFields,
	NewReader:      NewFastQReader,
	NewWriter:      NewFastQWriter,
}

// FastQReader reads '@'-introduced four-line records.
type FastQReader struct {
	lines *format.LineReader
}

// NewFastQReader returns a FastQ reader.
func NewFastQReader(r io.Reader) (format.Reader, error) {
	return &FastQReader{lines: format.NewLineReader(r)}, nil
}

// Schema implements format.Reader.
func (fr *FastQReader) Schema() *record.Schema { return fastqSchema }

// Read implements format.Reader. Lines outside a record are skipped; a record
// cut short by EOF is a FORMAT_ERROR.
func (fr *FastQReader) Read() (*record.Record, error) {
	var head string
	for {
		line, err := fr.lines.ReadLine()
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(line, "@") {
			head = line
			break
		}
	}

	var rest [3]string
	for i := range rest {
		line, err := fr.lines.ReadLine()
		if err == io.EOF {
			return nil, errors.Formatf("fastq: record %q ends before its quality line", head[1:])
		}
		if err != nil {
			return nil, err
		}
		rest[i] = strings.TrimRightFunc(line, isSpace)
	}

	return fastqSchema.New(map[string]string{
		record.FieldSeqid:    strings.TrimRightFunc(head[1:], isSpace),
		record.FieldSequence: rest[0],
		FieldQualityID:       rest[1],
		FieldQualityScore:    rest[2],
	})
}

// FastQWriter streams FastQ records.
type FastQWriter struct {
	w io.Writer
}

// NewFastQWriter returns a FastQ writer. The schema must declare all four
// FastQ fields.
func NewFastQWriter(w io.Writer, schema *record.Schema, _ format.Env) (format.Writer, error) {
	for _, f := range FastQFields {
		if !schema.Has(f) {
			return nil, errors.Fieldf("FastQ requires the fields seqid, sequence, %s and %s", FieldQualityID, FieldQualityScore)
		}
	}
	return &FastQWriter{w: w}, nil
}

// Push implements format.Writer.
func (fw *FastQWriter) Push(r *record.Record) error {
	_, err := fmt.Fprintf(fw.w, "@%s\n%s\n%s\n%s\n",
		r.Seqid(), r.Sequence(), r.Get(FieldQualityID), r.Get(FieldQualityScore))
	return err
}

// Finish implements format.Writer.
func (fw *FastQWriter) Finish() error { return nil }

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}
