package fasta

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/naming"
	"github.com/dnaconvert/dnaconvert/pkg/record"
	"github.com/dnaconvert/dnaconvert/pkg/warn"
)

// genbankFields are the source modifiers accepted by the Genbank submission
// tools, in their hyphenated spelling.
var genbankFields = []string{
	"seqid", "organism", "accession", "specimen-voucher", "strain", "isolate", "country", "sequence",
	"mol-type", "altitude", "bio-material", "cell-line", "cell-type", "chromosome", "citation", "clone",
	"clone-lib", "collected-by", "collection-date", "cultivar", "culture-collectiondb-xref", "dev-stage",
	"ecotype", "environmental-samplefocus", "germlinehaplogroup", "haplotype", "host", "identified-by",
	"isolation-source", "lab-host", "lat-lon", "macronuclearmap", "mating-type", "metagenome-source",
	"note", "organelle", "PCR-primersplasmid", "pop-variant", "proviralrearrangedsegment", "serotype",
	"serovar", "sex", "sub-clone", "submitter-seqid", "sub-species", "sub-strain", "tissue-lib",
	"tissue-type", "transgenictype-material", "variety",
}

// Location fields fused into "country" on output.
const (
	fieldCountry  = "country"
	fieldRegion   = "region"
	fieldLocality = "locality"
	fieldOrganism = "organism"
	fieldVoucher  = "specimen_voucher"
)

var (
	genbankSet    = make(map[string]bool, len(genbankFields))
	GenbankFields []string
	genbankSchema *record.Schema
)

func init() {
	for _, f := range genbankFields {
		genbankSet[f] = true
		u := underscore(f)
		GenbankFields = append(GenbankFields, u)
		if u == fieldCountry {
			GenbankFields = append(GenbankFields, fieldRegion, fieldLocality)
		}
	}
	genbankSchema = record.MustSchema(GenbankFields...)
	GenbankFasta.Fields = GenbankFields
}

func underscore(s string) string { return strings.ReplaceAll(s, "-", "_") }
func hyphenate(s string) string  { return strings.ReplaceAll(s, "_", "-") }

// GenbankFasta is the FASTA layout read by the Genbank submission tools:
// ">seqid [modifier=value] [modifier=value]".
var GenbankFasta = &format.Descriptor{
	Name:        "fasta_gbexport",
	Description: "FASTA for Genbank submission",
	Extension:   ".fas",
	NewReader:   NewGenbankFastaReader,
	NewWriter:   NewGenbankFastaWriter,
}

var (
	modifierRegex = regexp.MustCompile(`\[([^=\]]+)=([^\]]+)\]`)
	placeSep      = regexp.MustCompile(`[,:] `)
)

// NewGenbankFastaReader returns a Genbank submission FASTA reader.
// Modifiers that are not Genbank source modifiers are dropped.
func NewGenbankFastaReader(r io.Reader) (format.Reader, error) {
	return &entryReader{schema: genbankSchema, split: newSplitter(r), build: buildGenbank}, nil
}

func buildGenbank(schema *record.Schema, e entry) (*record.Record, error) {
	seqid, attrs, _ := strings.Cut(strings.TrimLeftFunc(e.header, isSpace), " ")
	values := map[string]string{
		record.FieldSeqid:    strings.TrimSpace(seqid),
		record.FieldSequence: e.sequence,
	}

	for _, m := range modifierRegex.FindAllStringSubmatch(attrs, -1) {
		field := underscore(strings.TrimSpace(m[1]))
		value := strings.TrimSpace(m[2])
		if field == fieldCountry {
			country, region, locality := SplitPlace(value)
			values[fieldCountry] = country
			values[fieldRegion] = region
			values[fieldLocality] = locality
			continue
		}
		if schema.Has(field) && field != record.FieldSeqid && field != record.FieldSequence {
			values[field] = value
		}
	}
	return schema.New(values)
}

// SplitPlace splits "country: region, locality" into its parts. Parts beyond
// the third are kept in the locality.
func SplitPlace(value string) (country, region, locality string) {
	parts := placeSep.Split(value, 3)
	parts = append(parts, "", "")
	return parts[0], parts[1], parts[2]
}

// FusePlace joins location parts back into one Genbank country value.
func FusePlace(country, region, locality string) string {
	switch {
	case region != "" && locality != "":
		return country + ": " + region + ", " + locality
	case region != "":
		return country + ": " + region
	case locality != "":
		return country + ": " + locality
	}
	return country
}

// GenbankFastaWriter streams records as Genbank submission FASTA.
type GenbankFastaWriter struct {
	w        io.Writer
	env      format.Env
	fields   []string
	organism bool // emit organism from species
	names    *naming.Assembler
	unique   naming.Unicifier
}

// NewGenbankFastaWriter returns a Genbank submission FASTA writer. When the
// schema lacks an organism or a source identifier a missing-identity warning
// is recorded immediately.
func NewGenbankFastaWriter(w io.Writer, schema *record.Schema, env format.Env) (format.Writer, error) {
	gw := &GenbankFastaWriter{
		w:      w,
		env:    env,
		unique: env.Limited(25),
	}

	for _, f := range schema.Fields() {
		if f == record.FieldSeqid || f == record.FieldSequence {
			continue
		}
		if genbankSet[hyphenate(f)] {
			gw.fields = append(gw.fields, f)
		}
	}
	gw.organism = !schema.Has(fieldOrganism) && schema.Has(naming.FieldSpecies)

	hasOrganism := schema.Has(fieldOrganism) || schema.Has(naming.FieldSpecies)
	hasIdentifier := false
	for _, f := range []string{fieldVoucher, "isolate", "clone", "haplotype"} {
		if schema.Has(f) {
			hasIdentifier = true
		}
	}
	if !hasOrganism || !hasIdentifier {
		env.Warnings.Add(warn.MissingIdentity)
	}

	var nameFields []string
	for _, f := range []string{fieldOrganism, naming.FieldSpecies, fieldVoucher} {
		if schema.Has(f) && !(f == naming.FieldSpecies && schema.Has(fieldOrganism)) {
			nameFields = append(nameFields, f)
		}
	}
	gw.names = naming.NewAssemblerFields(nameFields, false)
	return gw, nil
}

// Push implements format.Writer.
func (gw *GenbankFastaWriter) Push(r *record.Record) error {
	seq := strings.Trim(r.Sequence(), "nN?")
	if len(seq) < 200 {
		gw.env.Warnings.Add(warn.ShortSequence)
	}
	if strings.Contains(seq, "-") {
		gw.env.Warnings.Add(warn.GapCharacters)
	}

	name := naming.Sanitize(r.Seqid())
	if name == "" {
		name = gw.names.Name(r)
	}

	var b strings.Builder
	b.WriteString(">")
	b.WriteString(gw.unique.Unique(name))
	if gw.organism {
		writeModifier(&b, fieldOrganism, r.Get(naming.FieldSpecies))
	}
	for _, f := range gw.fields {
		v := r.Get(f)
		if f == fieldCountry {
			v = FusePlace(v, r.Get(fieldRegion), r.Get(fieldLocality))
		}
		writeModifier(&b, f, v)
	}
	b.WriteString("\n")
	b.WriteString(seq)
	b.WriteString("\n")

	_, err := io.WriteString(gw.w, b.String())
	return err
}

func writeModifier(b *strings.Builder, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(b, " [%s=%s]", hyphenate(field), value)
}

// Finish implements format.Writer.
func (gw *GenbankFastaWriter) Finish() error { return nil }
