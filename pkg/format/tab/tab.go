// Package tab reads and writes tab-separated record tables.
//
// The "tab" format carries a header line naming the fields, so its schema is
// derived from the input. The "tab_noheaders" format is a bare two column
// table of seqid and sequence.
package tab

import (
	"io"
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/naming"
	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// Descriptor is the tab-separated format with a header line.
var Descriptor = &format.Descriptor{
	Name:           "tab",
	Description:    "tab-separated table with a header line",
	Extension:      ".tab",
	FileExtensions: []string{".tab", ".tsv"},
	NewReader:      NewReader,
	NewWriter:      NewWriter,
}

// NoHeaders is the two column seqid/sequence table.
var NoHeaders = &format.Descriptor{
	Name:        "tab_noheaders",
	Description: "tab-separated seqid and sequence, no header",
	Extension:   ".txt",
	Fields:      []string{record.FieldSeqid, record.FieldSequence},
	NewReader:   NewNoHeadersReader,
	NewWriter:   NewNoHeadersWriter,
}

var sequenceAliases = map[string]string{
	"seq":       record.FieldSequence,
	"sequences": record.FieldSequence,
}

// NormalizeField converts a header cell to a field name: trimmed,
// lower-cased, with spaces and hyphens turned into underscores.
func NormalizeField(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)
	if alias, ok := sequenceAliases[name]; ok {
		return alias
	}
	return name
}

// =============================================================================
// tab
// =============================================================================

// Reader reads a headed table. The header is consumed by NewReader.
type Reader struct {
	lr     *format.LineReader
	schema *record.Schema
	header []string
}

// NewReader reads the header line and returns the table reader. An input
// without a header has the minimal seqid/sequence schema and no records.
func NewReader(r io.Reader) (format.Reader, error) {
	lr := format.NewLineReader(r)
	var line string
	for {
		l, err := lr.ReadLine()
		if err == io.EOF {
			return &Reader{lr: lr, schema: record.MustSchema(record.FieldSequence)}, nil
		}
		if err != nil {
			return nil, err
		}
		if !format.IsBlank(l) {
			line = l
			break
		}
	}

	cells := strings.Split(line, "\t")
	header := make([]string, len(cells))
	for i, c := range cells {
		header[i] = NormalizeField(c)
	}
	s, err := record.NewSchema(header...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormat, err, "tab: invalid header")
	}
	return &Reader{lr: lr, schema: s, header: header}, nil
}

// Schema implements format.Reader.
func (tr *Reader) Schema() *record.Schema { return tr.schema }

// Read implements format.Reader. Missing trailing cells are empty.
func (tr *Reader) Read() (*record.Record, error) {
	for {
		line, err := tr.lr.ReadLine()
		if err != nil {
			return nil, err
		}
		if format.IsBlank(line) {
			continue
		}
		cells := strings.Split(line, "\t")
		if len(cells) > len(tr.header) {
			return nil, errors.Formatf("tab: line %d has %d values for %d columns",
				tr.lr.Line(), len(cells), len(tr.header))
		}
		values := make(map[string]string, len(cells))
		for i, c := range cells {
			values[tr.header[i]] = strings.TrimSpace(c)
		}
		return tr.schema.New(values)
	}
}

// Writer writes the schema fields as a header, then one row per record.
type Writer struct {
	w      io.Writer
	fields []string
	header bool
}

// NewWriter returns a headed table writer.
func NewWriter(w io.Writer, s *record.Schema, _ format.Env) (format.Writer, error) {
	return &Writer{w: w, fields: s.Fields()}, nil
}

// Push implements format.Writer.
func (tw *Writer) Push(r *record.Record) error {
	if err := tw.writeHeader(); err != nil {
		return err
	}
	values := r.Values()
	for i, v := range values {
		values[i] = cell(v)
	}
	return tw.row(values)
}

// Finish implements format.Writer. An empty input still gets its header.
func (tw *Writer) Finish() error {
	return tw.writeHeader()
}

func (tw *Writer) writeHeader() error {
	if tw.header {
		return nil
	}
	tw.header = true
	return tw.row(tw.fields)
}

func (tw *Writer) row(cells []string) error {
	_, err := io.WriteString(tw.w, strings.Join(cells, "\t")+"\n")
	return err
}

var cellReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func cell(v string) string { return cellReplacer.Replace(v) }

// =============================================================================
// tab_noheaders
// =============================================================================

var noHeadersSchema = record.MustSchema(record.FieldSeqid, record.FieldSequence)

// NoHeadersReader reads "seqid<TAB>sequence" lines.
type NoHeadersReader struct {
	lr *format.LineReader
}

// NewNoHeadersReader returns a tab_noheaders reader.
func NewNoHeadersReader(r io.Reader) (format.Reader, error) {
	return &NoHeadersReader{lr: format.NewLineReader(r)}, nil
}

// Schema implements format.Reader.
func (nr *NoHeadersReader) Schema() *record.Schema { return noHeadersSchema }

// Read implements format.Reader.
func (nr *NoHeadersReader) Read() (*record.Record, error) {
	for {
		line, err := nr.lr.ReadLine()
		if err != nil {
			return nil, err
		}
		if format.IsBlank(line) {
			continue
		}
		seqid, seq, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, errors.Formatf("tab_noheaders: line %d has no tab separating seqid and sequence", nr.lr.Line())
		}
		return noHeadersSchema.New(map[string]string{
			record.FieldSeqid:    strings.TrimSpace(seqid),
			record.FieldSequence: strings.TrimSpace(seq),
		})
	}
}

// NoHeadersWriter writes the assembled name and sequence of each record.
type NoHeadersWriter struct {
	w     io.Writer
	names *naming.Assembler
}

// NewNoHeadersWriter returns a tab_noheaders writer.
func NewNoHeadersWriter(w io.Writer, s *record.Schema, _ format.Env) (format.Writer, error) {
	return &NoHeadersWriter{w: w, names: naming.NewAssembler(s, false)}, nil
}

// Push implements format.Writer.
func (nw *NoHeadersWriter) Push(r *record.Record) error {
	_, err := io.WriteString(nw.w, nw.names.Name(r)+"\t"+cell(r.Sequence())+"\n")
	return err
}

// Finish implements format.Writer.
func (nw *NoHeadersWriter) Finish() error { return nil }
