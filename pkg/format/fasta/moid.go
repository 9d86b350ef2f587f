package fasta

import (
	"fmt"
	"io"
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/naming"
	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// MoIDFields is the schema of MoID records.
var MoIDFields = []string{record.FieldSeqid, naming.FieldSpecies, record.FieldSequence}

var moidSchema = record.MustSchema(MoIDFields...)

// MoID is the FASTA dialect with ">name|species" headers.
var MoID = &format.Descriptor{
	Name:        "moid_fas",
	Description: "MoID FASTA",
	Extension:   ".fas",
	Fields:      MoIDFields,
	NewReader:   NewMoIDReader,
	NewWriter:   NewMoIDWriter,
}

// NewMoIDReader returns a MoID reader. The header is split on its first '|'.
func NewMoIDReader(r io.Reader) (format.Reader, error) {
	return &entryReader{schema: moidSchema, split: newSplitter(r), build: buildMoID}, nil
}

func buildMoID(schema *record.Schema, e entry) (*record.Record, error) {
	seqid, species, _ := strings.Cut(e.header, "|")
	return schema.New(map[string]string{
		record.FieldSeqid:    seqid,
		naming.FieldSpecies:  species,
		record.FieldSequence: e.sequence,
	})
}

// MoIDWriter streams records as MoID FASTA.
type MoIDWriter struct {
	w       io.Writer
	idField string
	species string
	names   *naming.Assembler
	unique  naming.Unicifier
}

// NewMoIDWriter returns a MoID writer. Names come from specimen_voucher or
// isolate when the schema declares either; otherwise they are assembled with
// an abbreviated species and kept within 10 characters.
func NewMoIDWriter(w io.Writer, schema *record.Schema, env format.Env) (format.Writer, error) {
	mw := &MoIDWriter{
		w:      w,
		names:  naming.NewAssembler(schema, true),
		unique: env.Limited(10),
	}
	for _, f := range []string{fieldVoucher, "isolate"} {
		if schema.Has(f) {
			mw.idField = f
			break
		}
	}
	for _, f := range []string{naming.FieldSpecies, fieldOrganism} {
		if schema.Has(f) {
			mw.species = f
			break
		}
	}
	return mw, nil
}

// Push implements format.Writer.
func (mw *MoIDWriter) Push(r *record.Record) error {
	var name string
	if mw.idField != "" {
		name = naming.Sanitize(r.Get(mw.idField))
	} else {
		name = mw.unique.Unique(mw.names.Name(r))
	}
	species := ""
	if mw.species != "" {
		species = naming.Sanitize(r.Get(mw.species))
	}
	_, err := fmt.Fprintf(mw.w, ">%s|%s\n%s\n", name, species, r.Sequence())
	return err
}

// Finish implements format.Writer.
func (mw *MoIDWriter) Finish() error { return nil }
