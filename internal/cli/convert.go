package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dnaconvert/dnaconvert/pkg/convert"
	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format/formats"
)

// stdio is the path that selects stdin or stdout.
const stdio = "-"

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	conversionFlags
	output string // output file path (stdout if empty)
	pick   bool   // always choose formats interactively
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert a sequence file to another format",
		Long: `Convert a sequence file to another format.

The input is read from stdin when omitted or "-", and the result is written
to stdout unless --output is set. Files ending in .gz are decompressed on
input and compressed on output. The input format is detected from the file
extension when --from is not given.`,
		Example: `  dnaconvert convert seqs.fasta -t nexus -o seqs.nex
  cat seqs.tab | dnaconvert convert -f tab -t relaxed_phylip
  dnaconvert convert reads.fq.gz -t fasta --pick`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := stdio
			if len(args) == 1 {
				input = args[0]
			}
			return c.runConvert(cmd.Context(), input, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the formats interactively")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, input string, opts *convertOpts) error {
	opts.resolve(c.Config)
	if opts.from == "" && input != stdio {
		if d := formats.Detect(input); d != nil {
			opts.from = d.Name
		}
	}
	if err := c.pickFormats(&opts.conversionFlags, opts.pick, input != stdio); err != nil {
		return err
	}
	if opts.from == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input format required (--from)")
	}
	if opts.to == "" {
		return errors.New(errors.ErrCodeInvalidInput, "output format required (--to)")
	}

	runner := c.newRunner()
	prog := newProgress(c.Logger)

	res, err := c.convertStreams(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Converted %d records from %s to %s", res.Stats.Written, res.From, res.To))
	c.ui.stats(res.Stats)
	if opts.output != "" {
		c.ui.file(opts.output)
	}
	c.ui.warnings(resultWarnings(res))
	return nil
}

// convertStreams wires input and output paths to the runner.
func (c *CLI) convertStreams(ctx context.Context, runner *convert.Runner, input string, opts *convertOpts) (*convert.Result, error) {
	convOpts := c.options(&opts.conversionFlags)

	if input != stdio && opts.output != "" {
		return runner.ConvertFile(ctx, input, opts.output, opts.from, opts.to, convOpts)
	}

	var src io.Reader = c.stdin
	if input != stdio {
		if _, _, err := runner.Resolve(opts.from, opts.to); err != nil {
			return nil, err
		}
		r, closeSrc, err := convert.OpenInput(input)
		if err != nil {
			return nil, err
		}
		defer closeSrc()
		src = r
	}

	if opts.output != "" {
		return runner.ConvertToFile(ctx, src, opts.output, opts.from, opts.to, convOpts)
	}
	return runner.Convert(ctx, src, c.stdout, opts.from, opts.to, convOpts)
}

// pickFormats opens the format picker for formats still unset, or for both
// when force is set. The picker needs an interactive terminal and a file
// input; stdin input carries the data.
func (c *CLI) pickFormats(f *conversionFlags, force, fileInput bool) error {
	if !fileInput || !c.interactive() {
		if force {
			return errors.New(errors.ErrCodeInvalidInput, "--pick needs a file argument and an interactive terminal")
		}
		return nil
	}
	if force || f.from == "" {
		d, err := pickFormat("Input format", formats.Readable(), f.from)
		if err != nil {
			return err
		}
		f.from = d.Name
	}
	if force || f.to == "" {
		d, err := pickFormat("Output format", formats.Writable(), f.to)
		if err != nil {
			return err
		}
		f.to = d.Name
	}
	return nil
}
