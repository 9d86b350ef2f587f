// Package pkg provides the libraries behind dnaconvert, a converter between
// DNA sequence file formats.
//
// # Overview
//
// A conversion pulls records from a format reader and pushes them to a
// format writer. Records carry an ordered set of named string fields; every
// record has at least "seqid" and "sequence". The libraries are organized as:
//
//  1. [record] - Schema and Record
//  2. [format] - Reader/Writer contract and format descriptors, with one
//     subpackage per format family and [format/formats] as the registry
//  3. [naming] and [aggregate] - sequence name assembly, sanitizing and
//     uniquing, and whole-input statistics for buffering writers
//  4. [convert] - the conversion runner plus file, directory and zip helpers
//  5. [config], [errors], [warn], [observability], [buildinfo] - ambient
//     support shared by the CLI and the HTTP server
//
// # Data Flow
//
//	input bytes
//	     ↓
//	format.Reader (fasta, nexus, genbank, phylip, tab)
//	     ↓
//	record.Record stream
//	     ↓
//	format.Writer (names assembled, uniqued and aligned as the format needs)
//	     ↓
//	output bytes + warnings
//
// # Quick Start
//
//	runner := convert.NewRunner(nil)
//	res, err := runner.Convert(ctx, os.Stdin, os.Stdout, "fasta", "nexus", convert.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range res.Warnings {
//	    fmt.Fprintln(os.Stderr, w.Message)
//	}
package pkg
