// Package record defines the canonical per-entry data unit exchanged between
// format readers and writers.
//
// A Record is an ordered mapping from field name to string value. The field
// set is declared once per conversion by a Schema, and every Record built from
// that Schema carries exactly its fields. Absent values are the empty string,
// never a missing key.
//
// # Usage
//
//	schema := record.MustSchema("seqid", "species", "sequence")
//	rec, err := schema.New(map[string]string{
//	    "seqid":    "A1",
//	    "sequence": "ACGT",
//	})
//	rec.Get("species") // ""
package record

import (
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
)

// Field names present in every schema.
const (
	FieldSeqid    = "seqid"
	FieldSequence = "sequence"
)

// =============================================================================
// Schema
// =============================================================================

// Schema is an ordered, immutable list of field names.
type Schema struct {
	fields []string
	index  map[string]int
}

// NewSchema builds a schema from an ordered field list.
//
// The list must contain "sequence". When "seqid" is absent it is prepended,
// so both fields are always present. Empty or duplicate names are rejected.
func NewSchema(fields ...string) (*Schema, error) {
	s := &Schema{index: make(map[string]int, len(fields)+1)}

	hasSeqid := false
	for _, f := range fields {
		if f == FieldSeqid {
			hasSeqid = true
			break
		}
	}
	if !hasSeqid {
		s.add(FieldSeqid)
	}

	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return nil, errors.Fieldf("schema contains an empty field name")
		}
		if _, dup := s.index[f]; dup {
			return nil, errors.Fieldf("schema contains duplicate field %q", f)
		}
		s.add(f)
	}

	if _, ok := s.index[FieldSequence]; !ok {
		return nil, errors.Fieldf("schema has no %q field", FieldSequence)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It is intended for the
// static schemas declared by format packages.
func MustSchema(fields ...string) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) add(f string) {
	s.index[f] = len(s.fields)
	s.fields = append(s.fields, f)
}

// Fields returns a copy of the ordered field list.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Has reports whether the schema declares field.
func (s *Schema) Has(field string) bool {
	_, ok := s.index[field]
	return ok
}

// Index returns the position of field, or -1.
func (s *Schema) Index(field string) int {
	if i, ok := s.index[field]; ok {
		return i
	}
	return -1
}

// NameFields returns the fields preceding "sequence", excluding "seqid".
// These are the fields writers may use to assemble a record name.
func (s *Schema) NameFields() []string {
	var out []string
	for _, f := range s.fields[:s.index[FieldSequence]] {
		if f != FieldSeqid {
			out = append(out, f)
		}
	}
	return out
}

// New builds a record from values. Keys outside the schema are rejected and
// missing keys default to the empty string.
func (s *Schema) New(values map[string]string) (*Record, error) {
	r := s.Empty()
	for k, v := range values {
		i, ok := s.index[k]
		if !ok {
			return nil, errors.Fieldf("unknown field %q", k)
		}
		r.values[i] = v
	}
	return r, nil
}

// Empty returns a record with every field set to "".
func (s *Schema) Empty() *Record {
	return &Record{schema: s, values: make([]string, len(s.fields))}
}

// =============================================================================
// Record
// =============================================================================

// Record is one sequence entry plus its metadata fields.
type Record struct {
	schema *Schema
	values []string
}

// Schema returns the schema the record was built from.
func (r *Record) Schema() *Schema { return r.schema }

// Get returns the value of field, or "" if the schema does not declare it.
func (r *Record) Get(field string) string {
	if i, ok := r.schema.index[field]; ok {
		return r.values[i]
	}
	return ""
}

// Set assigns a declared field.
func (r *Record) Set(field, value string) error {
	i, ok := r.schema.index[field]
	if !ok {
		return errors.Fieldf("unknown field %q", field)
	}
	r.values[i] = value
	return nil
}

// Seqid returns the "seqid" field.
func (r *Record) Seqid() string { return r.values[r.schema.index[FieldSeqid]] }

// Sequence returns the "sequence" field.
func (r *Record) Sequence() string { return r.values[r.schema.index[FieldSequence]] }

// SetSeqid replaces the "seqid" field.
func (r *Record) SetSeqid(v string) { r.values[r.schema.index[FieldSeqid]] = v }

// SetSequence replaces the "sequence" field.
func (r *Record) SetSequence(v string) { r.values[r.schema.index[FieldSequence]] = v }

// Values returns a copy of the values in schema order.
func (r *Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Map returns the record as a field → value map.
func (r *Record) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for i, f := range r.schema.fields {
		m[f] = r.values[i]
	}
	return m
}

// Clone returns an independent copy sharing the schema.
func (r *Record) Clone() *Record {
	return &Record{schema: r.schema, values: r.Values()}
}
