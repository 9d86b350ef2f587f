package naming

import (
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// FieldSpecies is the field moved to the front of assembled names.
const FieldSpecies = "species"

// Assembler derives a record name from the name-forming fields of a schema:
// every field before "sequence" other than "seqid".
type Assembler struct {
	fields     []string
	abbreviate bool
}

// NewAssembler returns an assembler for schema. With abbreviate set, a leading
// species value "Genus epithet" is shortened to "Gen epithet" before
// sanitizing.
func NewAssembler(schema *record.Schema, abbreviate bool) *Assembler {
	return NewAssemblerFields(schema.NameFields(), abbreviate)
}

// NewAssemblerFields returns an assembler over an explicit field list.
func NewAssemblerFields(fields []string, abbreviate bool) *Assembler {
	ordered := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == FieldSpecies {
			ordered = append(ordered, f)
		}
	}
	for _, f := range fields {
		if f != FieldSpecies {
			ordered = append(ordered, f)
		}
	}
	return &Assembler{fields: ordered, abbreviate: abbreviate}
}

// Name returns the assembled name of r. With no name-forming fields it is the
// sanitized seqid; otherwise the sanitized non-empty field values joined by
// "_".
func (a *Assembler) Name(r *record.Record) string {
	if len(a.fields) == 0 {
		return Sanitize(r.Seqid())
	}

	parts := make([]string, 0, len(a.fields))
	for i, f := range a.fields {
		v := r.Get(f)
		if v == "" {
			continue
		}
		if i == 0 && a.abbreviate && f == FieldSpecies {
			v = AbbreviateSpecies(v)
		}
		if s := Sanitize(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "_")
}

// AbbreviateSpecies shortens the genus of a binomial name to its first three
// characters: "Homo sapiens" becomes "Hom sapiens". A value without an
// epithet is returned unchanged.
func AbbreviateSpecies(species string) string {
	fields := strings.Fields(species)
	if len(fields) < 2 {
		return species
	}
	genus := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(species), genus))
	return truncate(genus, 3) + " " + rest
}
