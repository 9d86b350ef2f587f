// Package format defines the reader/writer contract shared by every sequence
// file format and the descriptor that ties a format name to its schema,
// reader and writer.
//
// Format implementations live in subpackages (fasta, nexus, genbank, phylip,
// tab). Each exports Descriptor values; the formats package assembles them
// into the canonical registry.
//
// # Readers
//
// A Reader is pull-based: Read returns one record per call and io.EOF once
// the input is exhausted. Its Schema is fixed before the first Read.
//
// # Writers
//
// A Writer receives records through Push and completes the output in Finish.
// Streaming writers emit on every Push; writers that need statistics over
// the whole record set buffer in Push and emit everything in Finish.
package format

import (
	"io"
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/naming"
	"github.com/dnaconvert/dnaconvert/pkg/record"
	"github.com/dnaconvert/dnaconvert/pkg/warn"
)

// Reader produces records lazily.
type Reader interface {
	// Schema returns the field list every produced record carries.
	Schema() *record.Schema

	// Read returns the next record, or io.EOF when there are no more.
	Read() (*record.Record, error)
}

// Writer consumes records.
type Writer interface {
	// Push hands one record to the writer. Records built from a schema
	// other than the one the writer was created with are not supported.
	Push(r *record.Record) error

	// Finish completes the output. It must be called exactly once.
	Finish() error
}

// Env carries per-run writer settings.
type Env struct {
	// Warnings receives validation warnings. May be nil.
	Warnings *warn.Collector

	// DisableRenaming switches length-limited unicifiers to truncate-only.
	DisableRenaming bool
}

// Limited returns a length-limited unicifier honoring DisableRenaming.
func (e Env) Limited(limit int) *naming.Limited {
	return naming.NewLimited(limit, e.DisableRenaming)
}

// Descriptor describes one file format.
type Descriptor struct {
	// Name is the registry keyword (e.g. "fasta", "relaxed_phylip").
	Name string

	// Description is a one-line human-readable summary.
	Description string

	// Extension is the file extension used for converted output, with dot.
	Extension string

	// FileExtensions lists input file extensions that identify the format.
	// Used by Detect. May be empty.
	FileExtensions []string

	// Fields is the static schema of records read from this format, or nil
	// when the reader derives it from the input.
	Fields []string

	// Internal marks formats hidden from interactive listings.
	Internal bool

	// NewReader opens a reader over r. Nil for write-only formats.
	NewReader func(r io.Reader) (Reader, error)

	// NewWriter opens a writer for records of schema. Nil for read-only
	// formats.
	NewWriter func(w io.Writer, schema *record.Schema, env Env) (Writer, error)
}

// Readable reports whether the format can be read.
func (d *Descriptor) Readable() bool { return d.NewReader != nil }

// Writable reports whether the format can be written.
func (d *Descriptor) Writable() bool { return d.NewWriter != nil }

// Reader opens a reader, failing with UNSUPPORTED for write-only formats.
func (d *Descriptor) Reader(r io.Reader) (Reader, error) {
	if d.NewReader == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "reading the %s format is not supported", d.Name)
	}
	return d.NewReader(r)
}

// Writer opens a writer, failing with UNSUPPORTED for read-only formats.
func (d *Descriptor) Writer(w io.Writer, schema *record.Schema, env Env) (Writer, error) {
	if d.NewWriter == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "conversion to the %s format is not supported", d.Name)
	}
	return d.NewWriter(w, schema, env)
}

// =============================================================================
// Lookup
// =============================================================================

// Find returns the descriptor named name (case-insensitive) from all, or nil.
func Find(name string, all []*Descriptor) *Descriptor {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range all {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Resolve is like Find but returns an INVALID_FORMAT error listing the known
// names when nothing matches.
func Resolve(name string, all []*Descriptor) (*Descriptor, error) {
	if d := Find(name, all); d != nil {
		return d, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (available: %s)",
		name, strings.Join(Names(all), ", "))
}

// Names returns the descriptor names in order.
func Names(all []*Descriptor) []string {
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	return names
}

// Detect guesses the format of path from its extension, ignoring a trailing
// ".gz". It returns nil when no descriptor claims the extension.
func Detect(path string, all []*Descriptor) *Descriptor {
	lower := strings.ToLower(strings.TrimSuffix(strings.ToLower(path), ".gz"))
	for _, d := range all {
		for _, ext := range d.FileExtensions {
			if strings.HasSuffix(lower, ext) {
				return d
			}
		}
	}
	return nil
}

// ReadAll drains r.
func ReadAll(r Reader) ([]*record.Record, error) {
	var out []*record.Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// WriteAll pushes every record to w and finishes it.
func WriteAll(w Writer, recs []*record.Record) error {
	for _, r := range recs {
		if err := w.Push(r); err != nil {
			return err
		}
	}
	return w.Finish()
}
