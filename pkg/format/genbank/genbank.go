// Package genbank reads the Genbank flat-file format.
//
// A flat file is a sequence of entries, each running from a LOCUS line to a
// "//" terminator:
//
//	LOCUS       AB000001     500 bp    DNA     linear   INV 01-JAN-2000
//	DEFINITION  Example sequence.
//	ACCESSION   AB000001
//	REFERENCE   1
//	  AUTHORS   Doe,J.
//	  TITLE     Direct Submission
//	  JOURNAL   Submitted (01-JAN-2000)
//	FEATURES             Location/Qualifiers
//	     source          1..500
//	                     /organism="Homo sapiens"
//	ORIGIN
//	        1 acgtacgtac gtacgtacgt
//	//
//
// Keyword lines before FEATURES become record metadata, the qualifiers of the
// source feature become optional fields, and the ORIGIN block is the
// sequence. The format cannot be written.
package genbank

import (
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// RequiredFields must be present in the metadata of every entry.
var RequiredFields = []string{"accession", "authors", "title", "journal"}

// Fields is the schema of Genbank records, in output order.
var Fields = []string{
	"seqid", "organism", "accession", "specimen_voucher", "strain", "isolate", "country",
	"sequence", "authors", "title", "journal", "mol_type", "altitude", "bio_material",
	"cell_line", "cell_type", "chromosome", "citation", "clone", "clone_lib", "collected_by",
	"collection_date", "cultivar", "culture_collection", "db_xref", "dev_stage", "ecotype",
	"environmental_samplefocus", "germlinehaplogroup", "haplotype", "host", "identified_by",
	"isolation_source", "lab_host", "lat_lon", "macronuclearmap", "mating_type",
	"metagenome_source", "note", "organelle", "PCR_primersplasmid", "pop_variant", "product",
	"proviralrearrangedsegment", "serotype", "serovar", "sex", "sub_clone", "submitter_seqid",
	"sub_species", "sub_strain", "tissue_lib", "tissue_type", "transgenictype_material",
	"variety",
}

var schema = record.MustSchema(Fields...)

// Descriptor is the read-only Genbank flat-file format.
var Descriptor = &format.Descriptor{
	Name:           "genbank",
	Description:    "Genbank flat file (read-only)",
	Extension:      ".gb",
	FileExtensions: []string{".gb", ".gbk", ".genbank"},
	Fields:         Fields,
	NewReader:      NewReader,
}

var (
	qualifierPattern = regexp.MustCompile(`/([^=\s"/]+)="([^"]*)"`)
	productPattern   = regexp.MustCompile(`/product="([^"]*)"`)
)

// Reader yields one record per flat-file entry.
type Reader struct {
	lines *logicalLines
}

// NewReader returns a Genbank flat-file reader.
func NewReader(r io.Reader) (format.Reader, error) {
	return &Reader{lines: newLogicalLines(r)}, nil
}

// Schema implements format.Reader.
func (gr *Reader) Schema() *record.Schema { return schema }

// Read implements format.Reader. An entry whose FEATURES line never appears
// ends the input.
func (gr *Reader) Read() (*record.Record, error) {
	meta, err := gr.metadata()
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, io.EOF
	}
	features, err := gr.features()
	if err != nil {
		return nil, err
	}
	seq, err := gr.sequence()
	if err != nil {
		return nil, err
	}

	values := map[string]string{record.FieldSequence: seq}
	for _, f := range RequiredFields {
		v, ok := meta[f]
		if !ok {
			return nil, errors.Formatf("the Genbank entry %s has no %s field", meta["locus"], strings.ToUpper(f))
		}
		values[f] = v
	}
	values[record.FieldSeqid] = meta["accession"]
	if def, ok := meta["definition"]; ok {
		values[record.FieldSeqid] = def
	}
	for _, f := range Fields {
		if _, set := values[f]; set {
			continue
		}
		values[f] = features[strings.ToLower(f)]
	}
	return schema.New(values)
}

// metadata collects the keyword lines from LOCUS up to FEATURES. The first
// value of a keyword wins. It returns nil when no complete header is left.
func (gr *Reader) metadata() (map[string]string, error) {
	line, ok, err := gr.lines.find("LOCUS")
	if err != nil || !ok {
		return nil, err
	}
	meta := make(map[string]string)
	for !strings.HasPrefix(line, "FEATURES") {
		key, value := splitKeyword(line)
		key = strings.ToLower(key)
		if _, seen := meta[key]; !seen {
			meta[key] = value
		}
		line, err = gr.lines.Next()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return meta, nil
}

// features reads the source feature qualifiers and the first product
// qualifier, stopping after ORIGIN.
func (gr *Reader) features() (map[string]string, error) {
	line, ok, err := gr.lines.find("source")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Formatf("the Genbank file is missing a source feature")
	}

	features := make(map[string]string)
	for _, m := range qualifierPattern.FindAllStringSubmatch(line, -1) {
		key := strings.ToLower(m[1])
		if _, seen := features[key]; !seen {
			features[key] = m[2]
		}
	}
	for !strings.HasPrefix(line, "ORIGIN") {
		if _, found := features["product"]; !found {
			if m := productPattern.FindStringSubmatch(line); m != nil {
				features["product"] = m[1]
			}
		}
		line, err = gr.lines.Next()
		if err == io.EOF {
			return nil, errors.Formatf("the Genbank file is missing a sequence")
		}
		if err != nil {
			return nil, err
		}
	}
	return features, nil
}

// sequence concatenates the ORIGIN block up to the "//" terminator, skipping
// position numbers.
func (gr *Reader) sequence() (string, error) {
	var seq strings.Builder
	for {
		line, err := gr.lines.Next()
		if err == io.EOF {
			return "", errors.Formatf("the Genbank file has an incomplete sequence")
		}
		if err != nil {
			return "", err
		}
		for _, word := range strings.Fields(line) {
			if isDigits(word) {
				continue
			}
			if before, ok := strings.CutSuffix(word, "//"); ok {
				seq.WriteString(before)
				return seq.String(), nil
			}
			seq.WriteString(word)
		}
		if strings.HasPrefix(line, "//") {
			return seq.String(), nil
		}
	}
}

// splitKeyword splits a logical line into its first word and the rest.
func splitKeyword(line string) (string, string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
