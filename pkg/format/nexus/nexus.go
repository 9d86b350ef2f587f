// Package nexus reads and writes sequence matrices in the NEXUS format.
//
// Reading is a three stage pipeline: a Tokenizer produces words and
// punctuation, Commands groups them into (name, arguments) pairs, and a
// Machine interprets the commands of each block, emitting the taxa of every
// matrix whose datatype holds sequences.
package nexus

import (
	"fmt"
	"io"
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/aggregate"
	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/naming"
	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// Fields is the schema of NEXUS records.
var Fields = []string{record.FieldSeqid, record.FieldSequence}

var schema = record.MustSchema(Fields...)

// Descriptor is the NEXUS format.
var Descriptor = &format.Descriptor{
	Name:           "nexus",
	Description:    "NEXUS",
	Extension:      ".nex",
	FileExtensions: []string{".nex", ".nexus", ".nxs"},
	Fields:         Fields,
	NewReader:      NewReader,
	NewWriter:      NewWriter,
}

// Reader yields the taxa of every sequence matrix in a NEXUS file.
type Reader struct {
	cmds    *Commands
	machine Machine
	queue   []Taxon
}

// NewReader returns a NEXUS reader. It fails with a FORMAT_ERROR when the
// input does not start with the NEXUS magic header.
func NewReader(r io.Reader) (format.Reader, error) {
	cmds, err := NewCommands(r)
	if err != nil {
		return nil, err
	}
	return &Reader{cmds: cmds}, nil
}

// Schema implements format.Reader.
func (nr *Reader) Schema() *record.Schema { return schema }

// Read implements format.Reader.
func (nr *Reader) Read() (*record.Record, error) {
	for len(nr.queue) == 0 {
		name, args, err := nr.cmds.Next()
		if err != nil {
			return nil, err
		}
		taxa, err := nr.machine.Execute(name, args)
		if err != nil {
			return nil, err
		}
		nr.queue = taxa
	}
	t := nr.queue[0]
	nr.queue = nr.queue[1:]
	return schema.New(map[string]string{
		record.FieldSeqid:    t.Name,
		record.FieldSequence: t.Sequence,
	})
}

const formatLine = "format datatype=DNA missing=N missing=? Gap=- Interleave=yes;"

// Writer buffers records and writes one interleaved DNA data block.
type Writer struct {
	w       io.Writer
	env     format.Env
	names   *naming.Assembler
	unique  naming.Unicifier
	agg     *aggregate.Sequence
	seqid   *aggregate.Acc[int]
	records []*record.Record
}

// NewWriter returns a NEXUS writer.
func NewWriter(w io.Writer, s *record.Schema, env format.Env) (format.Writer, error) {
	nw := &Writer{
		w:      w,
		env:    env,
		names:  naming.NewAssembler(s, false),
		unique: env.Limited(100),
		agg:    aggregate.NewSequence(),
	}
	nw.seqid = aggregate.Add(&nw.agg.Aggregator, 0, aggregate.SeqidMax)
	return nw, nil
}

// Push implements format.Writer. The record's final name is assigned here,
// before the seqid width is aggregated.
func (nw *Writer) Push(r *record.Record) error {
	r = r.Clone()
	r.SetSeqid(nw.unique.Unique(nw.names.Name(r)))
	nw.agg.Send(r)
	nw.records = append(nw.records, r)
	return nil
}

// Finish implements format.Writer.
func (nw *Writer) Finish() error {
	pad := aggregate.Aligner(nw.agg.Max(), nw.agg.Min(), nw.env.Warnings)

	var b strings.Builder
	b.WriteString(Magic + "\n\nbegin data;\n\n")
	fmt.Fprintf(&b, "dimensions Nchar=%d Ntax=%d;\n", nw.agg.Max(), len(nw.records))
	b.WriteString(formatLine + "\n\n")
	b.WriteString("matrix\n")
	for _, r := range nw.records {
		fmt.Fprintf(&b, "%-*s %s\n", nw.seqid.Value, r.Seqid(), pad(r.Sequence()))
	}
	b.WriteString(";\n\nend;\n")

	_, err := io.WriteString(nw.w, b.String())
	return err
}
