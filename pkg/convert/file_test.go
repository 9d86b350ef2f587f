package convert

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/pgzip"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		input, ext, want string
	}{
		{"seqs.fas", ".phy", "seqs.phy"},
		{"dir/seqs.fasta.gz", ".nex", "seqs.nex"},
		{"SEQS.FAS.GZ", ".tab", "SEQS.tab"},
		{"noext", ".fas", "noext.fas"},
		{".hidden", ".fas", ".hidden.fas"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := OutputName(tt.input, tt.ext); got != tt.want {
				t.Errorf("OutputName(%q, %q) = %q, want %q", tt.input, tt.ext, got, tt.want)
			}
		})
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.fasta")
	out := filepath.Join(dir, "out.txt")
	writeFile(t, in, ">a\nACGT\n")

	res, err := NewRunner(nil).ConvertFile(context.Background(), in, out, "", "tab_noheaders", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.From != "fasta" {
		t.Errorf("detected format = %q, want fasta", res.From)
	}
	if got := readFile(t, out); got != "a\tACGT\n" {
		t.Errorf("output = %q", got)
	}
}

func TestConvertFileGzip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.fas.gz")
	out := filepath.Join(dir, "out.tab.gz")

	var buf bytes.Buffer
	zw := pgzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(">a\nACGT\n"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, in, buf.String())

	if _, err := NewRunner(nil).ConvertFile(context.Background(), in, out, "", "tab", Options{}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := pgzip.NewReader(f)
	if err != nil {
		t.Fatalf("output is not gzip: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "seqid\tsequence\na\tACGT\n" {
		t.Errorf("output = %q", got)
	}
}

func TestConvertFileErrors(t *testing.T) {
	dir := t.TempDir()
	runner := NewRunner(nil)
	ctx := context.Background()

	t.Run("missing input", func(t *testing.T) {
		_, err := runner.ConvertFile(ctx, filepath.Join(dir, "nope.fas"), filepath.Join(dir, "o.txt"), "", "fasta", Options{})
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("error = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("undetectable", func(t *testing.T) {
		in := filepath.Join(dir, "data.bin")
		writeFile(t, in, "x")
		_, err := runner.ConvertFile(ctx, in, filepath.Join(dir, "o.txt"), "", "fasta", Options{})
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("error = %v, want INVALID_FORMAT", err)
		}
	})

	t.Run("partial output removed", func(t *testing.T) {
		in := filepath.Join(dir, "bad.nex")
		out := filepath.Join(dir, "bad.fas")
		writeFile(t, in, "#NEXUS begin data; dimensions nchar=4; format datatype=DNA; matrix a ACGT b AC")
		_, err := runner.ConvertFile(ctx, in, out, "", "fasta", Options{})
		if !errors.IsFormatError(err) {
			t.Fatalf("error = %v, want FORMAT_ERROR", err)
		}
		if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
			t.Errorf("partial output %s was left behind", out)
		}
	})
}

func TestConvertDir(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "converted")

	writeFile(t, filepath.Join(inDir, "a.fas"), ">a\nACGT\n>b\nAC\n")
	writeFile(t, filepath.Join(inDir, "a.fasta"), ">c\nGG\n")
	writeFile(t, filepath.Join(inDir, "broken.fas"), "")
	writeFile(t, filepath.Join(inDir, "broken.nex"), "not nexus")
	writeFile(t, filepath.Join(inDir, ".hidden.fas"), ">x\nA\n")
	if err := os.Mkdir(filepath.Join(inDir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	batch, err := NewRunner(nil).ConvertDir(context.Background(), inDir, outDir, "", "phylip", Options{})
	if err != nil {
		t.Fatal(err)
	}

	if batch.Converted != 3 || batch.Failed != 1 {
		t.Errorf("converted = %d, failed = %d", batch.Converted, batch.Failed)
	}

	outputs := make(map[string]string)
	for _, f := range batch.Files {
		if f.Err == nil {
			outputs[f.Input] = f.Output
		}
	}
	want := map[string]string{"a.fas": "a.phy", "a.fasta": "a_1.phy", "broken.fas": "broken.phy"}
	for in, out := range want {
		if outputs[in] != out {
			t.Errorf("output of %s = %q, want %q", in, outputs[in], out)
		}
	}

	entries, _ := os.ReadDir(outDir)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) != 3 || names[0] != "a.phy" || names[1] != "a_1.phy" || names[2] != "broken.phy" {
		t.Errorf("output directory holds %v", names)
	}
	if got := readFile(t, filepath.Join(outDir, "a.phy")); got != "2 4\na0 ACGT\nb1 AC--\n" {
		t.Errorf("a.phy = %q", got)
	}
	if ws := batch.Warnings(); len(ws) != 1 {
		t.Errorf("batch warnings = %v", ws)
	}
}

func TestConvertDirUnsupportedOutput(t *testing.T) {
	_, err := NewRunner(nil).ConvertDir(context.Background(), t.TempDir(), t.TempDir(), "", "genbank", Options{})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("error = %v, want UNSUPPORTED", err)
	}
}

func TestZipDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.fas"), ">a\nACGT\n")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "sub", "b.fas"), ">b\nGG\n")

	var buf bytes.Buffer
	if err := ZipDir(dir, &buf); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		got[f.Name] = string(data)
	}
	want := map[string]string{"a.fas": ">a\nACGT\n", "sub/b.fas": ">b\nGG\n"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v", got)
	}
	for name, content := range want {
		if got[name] != content {
			t.Errorf("%s = %q, want %q", name, got[name], content)
		}
	}
}
