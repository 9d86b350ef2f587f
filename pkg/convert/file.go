package convert

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/naming"
)

const gzipExt = ".gz"

// =============================================================================
// Single files
// =============================================================================

// ConvertFile converts the file at inPath into outPath. An empty from is
// detected from the input file extension. Input ending in ".gz" is
// decompressed and output ending in ".gz" is compressed. On failure the
// output file is removed.
func (r *Runner) ConvertFile(ctx context.Context, inPath, outPath, from, to string, opts Options) (*Result, error) {
	if from == "" {
		d := format.Detect(inPath, r.Formats)
		if d == nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot detect the format of %s", filepath.Base(inPath))
		}
		from = d.Name
	}
	if _, _, err := r.Resolve(from, to); err != nil {
		return nil, err
	}

	src, closeSrc, err := OpenInput(inPath)
	if err != nil {
		return nil, err
	}
	defer closeSrc()
	return r.ConvertToFile(ctx, src, outPath, from, to, opts)
}

// ConvertToFile converts src into a new file at outPath, compressing it when
// outPath ends in ".gz". On failure the output file is removed.
func (r *Runner) ConvertToFile(ctx context.Context, src io.Reader, outPath, from, to string, opts Options) (*Result, error) {
	if _, _, err := r.Resolve(from, to); err != nil {
		return nil, err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create %s", outPath)
	}

	res, err := r.convertTo(ctx, src, f, outPath, from, to, opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(errors.ErrCodeIO, cerr, "close %s", outPath)
	}
	if err != nil {
		_ = os.Remove(outPath)
		return nil, err
	}
	return res, nil
}

func (r *Runner) convertTo(ctx context.Context, src io.Reader, f *os.File, outPath, from, to string, opts Options) (*Result, error) {
	if !strings.HasSuffix(strings.ToLower(outPath), gzipExt) {
		return r.Convert(ctx, src, f, from, to, opts)
	}
	zw := pgzip.NewWriter(f)
	res, err := r.Convert(ctx, src, zw, from, to, opts)
	if cerr := zw.Close(); err == nil && cerr != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, cerr, "compress %s", outPath)
	}
	return res, err
}

// OpenInput opens path, decompressing gzip input. The returned function
// closes every layer.
func OpenInput(path string) (io.Reader, func(), error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), gzipExt) {
		return f, func() { _ = f.Close() }, nil
	}
	zr, err := pgzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, errors.Wrap(errors.ErrCodeFormat, err, "%s is not gzip compressed", filepath.Base(path))
	}
	return zr, func() {
		_ = zr.Close()
		_ = f.Close()
	}, nil
}

// =============================================================================
// Directories
// =============================================================================

// FileResult is the outcome of converting one file of a batch.
type FileResult struct {
	Input  string  `json:"input"`
	Output string  `json:"output,omitempty"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// BatchResult collects the per-file outcomes of ConvertDir.
type BatchResult struct {
	Files     []FileResult `json:"files"`
	Converted int          `json:"converted"`
	Failed    int          `json:"failed"`
}

// OutputName returns the name of the converted file for input: its stem
// without any ".gz" and format extension, plus ext.
func OutputName(input, ext string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, gzipExt)
	base = strings.TrimSuffix(base, strings.ToUpper(gzipExt))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return stem + ext
}

// ConvertDir converts every regular, non-hidden file in inDir and writes the
// results to outDir, named after the input with the output format's
// extension. A file that fails is recorded in the result and the batch
// continues. An empty from detects the format of each file from its
// extension.
func (r *Runner) ConvertDir(ctx context.Context, inDir, outDir, from, to string, opts Options) (*BatchResult, error) {
	if from != "" {
		if _, _, err := r.Resolve(from, to); err != nil {
			return nil, err
		}
	}
	out, err := format.Resolve(to, r.Formats)
	if err != nil {
		return nil, err
	}
	if !out.Writable() {
		return nil, errors.New(errors.ErrCodeUnsupported, "conversion to the %s format is not supported", out.Name)
	}

	entries, err := os.ReadDir(inDir)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read directory %s", inDir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read directory %s", inDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create directory %s", outDir)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	outputs := naming.NewUnlimited("_")
	batch := &BatchResult{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		stem := strings.TrimSuffix(OutputName(name, out.Extension), out.Extension)
		outName := outputs.Unique(stem) + out.Extension

		fr := FileResult{Input: name, Output: outName}
		fr.Result, fr.Err = r.ConvertFile(ctx,
			filepath.Join(inDir, name), filepath.Join(outDir, outName), from, to, opts)
		if fr.Err != nil {
			fr.Output = ""
			batch.Failed++
			r.Logger.Warn("conversion failed", "file", name, "error", errors.UserMessage(fr.Err))
		} else {
			batch.Converted++
		}
		batch.Files = append(batch.Files, fr)
	}
	return batch, nil
}

// Warnings returns the distinct warnings of every converted file, in
// first-seen order.
func (b *BatchResult) Warnings() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range b.Files {
		if f.Result == nil {
			continue
		}
		for _, w := range f.Result.Warnings {
			if !seen[w.Message] {
				seen[w.Message] = true
				out = append(out, w.Message)
			}
		}
	}
	return out
}

// walkFiles lists the regular files under dir, relative to it, in lexical
// order.
func walkFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}
