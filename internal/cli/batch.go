package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dnaconvert/dnaconvert/pkg/convert"
	"github.com/dnaconvert/dnaconvert/pkg/errors"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	conversionFlags
	zip string // archive path for the converted directory
}

// batchCommand creates the batch command for converting directories.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch <input-dir> <output-dir>",
		Short: "Convert every file in a directory",
		Long: `Convert every regular file in a directory.

Each output file is named after its input with the extension of the output
format. Without --from, the format of each file is detected from its
extension. A file that fails to convert is reported and the batch continues.`,
		Example: `  dnaconvert batch alignments/ phylip/ -t relaxed_phylip
  dnaconvert batch uploads/ out/ -f fasta -t nexus --zip nexus.zip`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], args[1], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.zip, "zip", "", "also package the output directory into this zip archive")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, inDir, outDir string, opts *batchOpts) error {
	opts.resolve(c.Config)
	if opts.to == "" {
		return errors.New(errors.ErrCodeInvalidInput, "output format required (--to)")
	}

	runner := c.newRunner()
	prog := newProgress(c.Logger)

	var spinner *Spinner
	if c.interactive() {
		spinner = newSpinnerWithContext(ctx, c.ui.w, fmt.Sprintf("Converting %s to %s...", inDir, opts.to))
		spinner.Start()
	}
	batch, err := runner.ConvertDir(ctx, inDir, outDir, opts.from, opts.to, c.options(&opts.conversionFlags))
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	for _, f := range batch.Files {
		if f.Err != nil {
			c.ui.fail("%s", f.Input)
			c.ui.detail("%s", errors.UserMessage(f.Err))
			continue
		}
		c.ui.success("%s", f.Input)
		c.ui.file(f.Output)
	}
	c.ui.warnings(batch.Warnings())

	if opts.zip != "" {
		if err := writeArchive(outDir, opts.zip); err != nil {
			return err
		}
		c.ui.info("Archive written")
		c.ui.file(opts.zip)
	}

	prog.done(fmt.Sprintf("Converted %d of %d files", batch.Converted, len(batch.Files)))
	if batch.Failed > 0 {
		return fmt.Errorf("%d of %d files failed to convert", batch.Failed, len(batch.Files))
	}
	return nil
}

// writeArchive zips dir into path, removing the archive on failure.
func writeArchive(dir, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	err = convert.ZipDir(dir, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(errors.ErrCodeIO, cerr, "close %s", path)
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}
