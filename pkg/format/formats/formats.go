// Package formats provides the complete list of supported sequence formats.
//
// This package exists to break import cycles: the individual format packages
// (fasta, nexus, etc.) import pkg/format, so pkg/format cannot import them
// back. Consumers that need the full format list import this package.
//
// Usage:
//
//	import "github.com/dnaconvert/dnaconvert/pkg/format/formats"
//
//	for _, d := range formats.All {
//	    fmt.Println(d.Name, d.Extension)
//	}
package formats

import (
	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/format/fasta"
	"github.com/dnaconvert/dnaconvert/pkg/format/genbank"
	"github.com/dnaconvert/dnaconvert/pkg/format/nexus"
	"github.com/dnaconvert/dnaconvert/pkg/format/phylip"
	"github.com/dnaconvert/dnaconvert/pkg/format/tab"
)

// All is the canonical list of supported formats, in registry order.
var All = []*format.Descriptor{
	tab.Descriptor,
	tab.NoHeaders,
	fasta.Descriptor,
	fasta.GenbankFasta,
	fasta.Hapview,
	fasta.FastQ,
	nexus.Descriptor,
	genbank.Descriptor,
	phylip.Descriptor,
	phylip.Relaxed,
	fasta.MoID,
}

// Find returns the format with the given name (case-insensitive), or nil.
func Find(name string) *format.Descriptor {
	return format.Find(name, All)
}

// Resolve returns the named format or an INVALID_FORMAT error.
func Resolve(name string) (*format.Descriptor, error) {
	return format.Resolve(name, All)
}

// Detect guesses a format from a file name extension, or returns nil.
func Detect(path string) *format.Descriptor {
	return format.Detect(path, All)
}

// Names returns the names of every registered format.
func Names() []string {
	return format.Names(All)
}

// Readable returns the formats that can be read.
func Readable() []*format.Descriptor {
	var out []*format.Descriptor
	for _, d := range All {
		if d.Readable() {
			out = append(out, d)
		}
	}
	return out
}

// Writable returns the formats that can be written.
func Writable() []*format.Descriptor {
	var out []*format.Descriptor
	for _, d := range All {
		if d.Writable() {
			out = append(out, d)
		}
	}
	return out
}
