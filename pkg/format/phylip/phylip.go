// Package phylip reads and writes sequential Phylip alignments, in both the
// strict form with fixed 10 character names and the relaxed form with names
// of any length.
package phylip

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dnaconvert/dnaconvert/pkg/aggregate"
	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/naming"
	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// NameWidth is the fixed name column of strict Phylip.
const NameWidth = 10

// Fields is the schema of Phylip records.
var Fields = []string{record.FieldSeqid, record.FieldSequence}

var schema = record.MustSchema(Fields...)

// Descriptor is the strict Phylip format.
var Descriptor = &format.Descriptor{
	Name:           "phylip",
	Description:    "Phylip, 10 character names",
	Extension:      ".phy",
	FileExtensions: []string{".phy", ".phylip"},
	Fields:         Fields,
	NewReader:      NewReader,
	NewWriter:      NewWriter,
}

// Relaxed is the relaxed Phylip format.
var Relaxed = &format.Descriptor{
	Name:        "relaxed_phylip",
	Description: "relaxed Phylip, names of any length",
	Extension:   ".phy",
	Fields:      Fields,
	NewReader:   NewRelaxedReader,
	NewWriter:   NewRelaxedWriter,
}

// =============================================================================
// Reading
// =============================================================================

// Reader skips the header line and yields one record per non-blank line.
type Reader struct {
	lr    *format.LineReader
	split func(line string) (name, seq string)
	init  bool
}

// NewReader returns a strict Phylip reader.
func NewReader(r io.Reader) (format.Reader, error) {
	return &Reader{lr: format.NewLineReader(r), split: splitFixed}, nil
}

// NewRelaxedReader returns a relaxed Phylip reader.
func NewRelaxedReader(r io.Reader) (format.Reader, error) {
	return &Reader{lr: format.NewLineReader(r), split: splitRelaxed}, nil
}

// Schema implements format.Reader.
func (pr *Reader) Schema() *record.Schema { return schema }

// Read implements format.Reader.
func (pr *Reader) Read() (*record.Record, error) {
	if !pr.init {
		pr.init = true
		if _, err := pr.lr.ReadLine(); err != nil {
			return nil, err
		}
	}
	for {
		line, err := pr.lr.ReadLine()
		if err != nil {
			return nil, err
		}
		if format.IsBlank(line) {
			continue
		}
		name, seq := pr.split(line)
		return schema.New(map[string]string{
			record.FieldSeqid:    name,
			record.FieldSequence: seq,
		})
	}
}

// splitFixed takes the first NameWidth characters as the name and the rest,
// whitespace removed, as the sequence.
func splitFixed(line string) (string, string) {
	runes := []rune(line)
	if len(runes) <= NameWidth {
		return strings.TrimRightFunc(line, unicode.IsSpace), ""
	}
	name := strings.TrimRightFunc(string(runes[:NameWidth]), unicode.IsSpace)
	return name, removeSpace(string(runes[NameWidth:]))
}

// splitRelaxed splits on the first whitespace run.
func splitRelaxed(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], removeSpace(line[i:])
}

func removeSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// =============================================================================
// Writing
// =============================================================================

// Writer buffers records and writes them aligned under a "<count> <length>"
// header.
type Writer struct {
	w       io.Writer
	env     format.Env
	names   *naming.Assembler
	unique  naming.Unicifier
	agg     *aggregate.Sequence
	records []*record.Record
}

// NewWriter returns a strict Phylip writer. Names are assembled with the
// species abbreviated and made unique within NameWidth characters.
func NewWriter(w io.Writer, s *record.Schema, env format.Env) (format.Writer, error) {
	return &Writer{
		w:      w,
		env:    env,
		names:  naming.NewAssembler(s, true),
		unique: env.Limited(NameWidth),
		agg:    aggregate.NewSequence(),
	}, nil
}

// NewRelaxedWriter returns a relaxed Phylip writer. Names are assembled
// without abbreviation or length limit, and are not made unique.
func NewRelaxedWriter(w io.Writer, s *record.Schema, env format.Env) (format.Writer, error) {
	return &Writer{
		w:     w,
		env:   env,
		names: naming.NewAssembler(s, false),
		agg:   aggregate.NewSequence(),
	}, nil
}

// Push implements format.Writer.
func (pw *Writer) Push(r *record.Record) error {
	pw.agg.Send(r)
	pw.records = append(pw.records, r)
	return nil
}

// Finish implements format.Writer.
func (pw *Writer) Finish() error {
	pad := aggregate.Aligner(pw.agg.Max(), pw.agg.Min(), pw.env.Warnings)

	var b strings.Builder
	fmt.Fprintf(&b, "%d %d\n", len(pw.records), pw.agg.Max())
	for _, r := range pw.records {
		name := pw.names.Name(r)
		if pw.unique != nil {
			name = pw.unique.Unique(name)
		}
		fmt.Fprintf(&b, "%s %s\n", name, pad(r.Sequence()))
	}
	_, err := io.WriteString(pw.w, b.String())
	return err
}
