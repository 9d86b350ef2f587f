package fasta

import (
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/dnaconvert/dnaconvert/pkg/aggregate"
	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/naming"
	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// Hapview is the FASTA dialect of the Haplotype Viewer. Each name carries a
// short species code after a '.' and all sequences are padded to one length.
var Hapview = &format.Descriptor{
	Name:        "fasta_hapview",
	Description: "FASTA for Haplotype Viewer",
	Extension:   ".fas",
	Fields:      Fields,
	Internal:    true,
	NewReader:   NewReader,
	NewWriter:   NewHapviewWriter,
}

// HapviewWriter buffers every record, then writes them aligned with species
// codes.
type HapviewWriter struct {
	w       io.Writer
	schema  *record.Schema
	env     format.Env
	field   string
	agg     *aggregate.Sequence
	species *aggregate.Acc[*aggregate.Set]
	records []*record.Record
}

// NewHapviewWriter returns a Hapview writer.
func NewHapviewWriter(w io.Writer, schema *record.Schema, env format.Env) (format.Writer, error) {
	hw := &HapviewWriter{
		w:      w,
		schema: schema,
		env:    env,
		field:  naming.SpeciesField(schema),
		agg:    aggregate.NewSequence(),
	}
	if hw.field != "" {
		hw.species = aggregate.Add(&hw.agg.Aggregator, aggregate.NewSet(), aggregate.FieldSet(hw.field))
	}
	return hw, nil
}

// Push implements format.Writer.
func (hw *HapviewWriter) Push(r *record.Record) error {
	hw.agg.Send(r)
	hw.records = append(hw.records, r)
	return nil
}

// Finish implements format.Writer.
func (hw *HapviewWriter) Finish() error {
	code, err := hw.speciesCoder()
	if err != nil {
		return err
	}
	pad := aggregate.Aligner(hw.agg.Max(), hw.agg.Min(), hw.env.Warnings)
	names := naming.NewAssembler(hw.schema, false)
	unique := hw.env.Limited(100)

	for _, r := range hw.records {
		name := unique.Unique(names.Name(r))
		if _, err := fmt.Fprintf(hw.w, ">%s.%s\n%s\n", name, code(r), pad(r.Sequence())); err != nil {
			return err
		}
	}
	return nil
}

// speciesCoder returns the function mapping a record to its species code.
func (hw *HapviewWriter) speciesCoder() (func(*record.Record) string, error) {
	if hw.field == "" {
		n := 0
		return func(*record.Record) string {
			n++
			return strconv.Itoa(n - 1)
		}, nil
	}

	codes, err := SpeciesCodes(hw.species.Value.Items())
	if err != nil {
		return nil, err
	}
	return func(r *record.Record) string {
		return codes[r.Get(hw.field)]
	}, nil
}

var binomialSep = regexp.MustCompile(`[ _]`)

// SpeciesCodes assigns each binomial name the first four characters of its
// specific epithet, made unique by appending a counter without separator.
// A name without a genus/epithet separator is a FIELD_ERROR.
func SpeciesCodes(species []string) (map[string]string, error) {
	unique := naming.NewUnlimited("")
	codes := make(map[string]string, len(species))
	for _, name := range species {
		loc := binomialSep.FindStringIndex(name)
		if loc == nil {
			return nil, errors.Fieldf("malformed species name %q", name)
		}
		epithet := []rune(name[loc[1]:])
		if len(epithet) > 4 {
			epithet = epithet[:4]
		}
		codes[name] = unique.Unique(string(epithet))
	}
	return codes, nil
}
