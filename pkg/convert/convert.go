// Package convert drives one format reader into one format writer.
//
// A conversion resolves both formats from the registry, opens the reader
// over the source, opens the writer for the reader's schema, then pulls
// records one at a time and pushes them to the writer. Records with an empty
// sequence are skipped unless Options.AllowEmptySequences is set. Validation
// warnings never abort a conversion; they are returned on the Result.
//
// # Usage
//
//	runner := convert.NewRunner(logger)
//	res, err := runner.Convert(ctx, os.Stdin, os.Stdout, "fasta", "nexus", convert.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, w := range res.Warnings {
//	    fmt.Fprintln(os.Stderr, w.Message)
//	}
//
// File and directory helpers open and close the streams themselves and
// remove partial output when a conversion fails.
package convert

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/format/formats"
	"github.com/dnaconvert/dnaconvert/pkg/observability"
	"github.com/dnaconvert/dnaconvert/pkg/warn"
)

// Runner executes conversions against a format registry.
//
// A Runner holds no per-conversion state; the same Runner can be reused for
// any number of sequential conversions.
type Runner struct {
	Formats []*format.Descriptor
	Logger  *log.Logger
}

// NewRunner creates a runner over the full format registry.
// If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Formats: formats.All, Logger: logger}
}

// Resolve returns the input and output descriptors for a conversion. An
// output format that cannot be written fails here, before any input is
// read.
func (r *Runner) Resolve(from, to string) (in, out *format.Descriptor, err error) {
	if in, err = format.Resolve(from, r.Formats); err != nil {
		return nil, nil, err
	}
	if out, err = format.Resolve(to, r.Formats); err != nil {
		return nil, nil, err
	}
	if !in.Readable() {
		return nil, nil, errors.New(errors.ErrCodeUnsupported, "reading the %s format is not supported", in.Name)
	}
	if !out.Writable() {
		return nil, nil, errors.New(errors.ErrCodeUnsupported, "conversion to the %s format is not supported", out.Name)
	}
	return in, out, nil
}

// Convert reads src as format from and writes it to dst as format to.
// On error, whatever reached dst is incomplete and must be discarded.
func (r *Runner) Convert(ctx context.Context, src io.Reader, dst io.Writer, from, to string, opts Options) (*Result, error) {
	in, out, err := r.Resolve(from, to)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()

	res := &Result{ID: uuid.NewString(), From: in.Name, To: out.Name}
	logger := opts.Logger.With("id", res.ID[:8])
	hooks := observability.Conversion()

	warnings := warn.NewCollector()
	warnings.OnAdd(func(w warn.Warning) {
		logger.Warn(w.Message, "kind", w.Kind)
		hooks.OnWarning(ctx, res.ID, string(w.Kind))
	})

	start := time.Now()
	hooks.OnConvertStart(ctx, res.ID, in.Name, out.Name)
	logger.Debug("converting", "from", in.Name, "to", out.Name)

	err = r.run(ctx, src, dst, in, out, opts, warnings, &res.Stats)
	res.Stats.Duration = time.Since(start)
	res.Warnings = warnings.Warnings()

	hooks.OnConvertComplete(ctx, res.ID, in.Name, out.Name, observability.ConversionStats{
		Read:     res.Stats.Read,
		Written:  res.Stats.Written,
		Skipped:  res.Stats.Skipped,
		Duration: res.Stats.Duration,
	}, err)
	if err != nil {
		return nil, err
	}

	logger.Info("converted records",
		"from", in.Name,
		"to", out.Name,
		"read", res.Stats.Read,
		"written", res.Stats.Written,
		"skipped", res.Stats.Skipped,
		"warnings", len(res.Warnings),
		"duration", res.Stats.Duration)
	return res, nil
}

func (r *Runner) run(ctx context.Context, src io.Reader, dst io.Writer, in, out *format.Descriptor,
	opts Options, warnings *warn.Collector, stats *Stats) error {
	reader, err := in.Reader(src)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	bw := bufio.NewWriter(dst)
	writer, err := out.Writer(bw, reader.Schema(), format.Env{
		Warnings:        warnings,
		DisableRenaming: opts.DisableAutomaticRenaming,
	})
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		stats.Read++

		if rec.Sequence() == "" && !opts.AllowEmptySequences {
			stats.Skipped++
			opts.Logger.Debug("skipping record with empty sequence", "seqid", rec.Seqid())
			continue
		}
		if err := writer.Push(rec); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		stats.Written++
	}

	if err := writer.Finish(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "flush output")
	}
	return nil
}
