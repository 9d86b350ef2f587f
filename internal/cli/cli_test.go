package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
)

// testCLI returns a non-interactive CLI whose output is captured and whose
// configuration lives in a temporary directory.
func testCLI(t *testing.T, stdin string) (c *CLI, stdout, stderr *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	c = New(stderr, LogInfo)
	c.stdin = strings.NewReader(stdin)
	c.stdout = stdout
	c.interactive = func() bool { return false }
	return c, stdout, stderr
}

func execute(c *CLI, args ...string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRootCommand(t *testing.T) {
	c, _, _ := testCLI(t, "")
	root := c.RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	sort.Strings(names)
	want := []string{"batch", "completion", "config", "convert", "formats", "serve"}
	for _, w := range want {
		found := false
		for _, n := range names {
			if n == w {
				found = true
			}
		}
		if !found {
			t.Errorf("command %q not registered (have %v)", w, names)
		}
	}
}

func TestConvertStdio(t *testing.T) {
	c, stdout, stderr := testCLI(t, ">a\nACGTAC\n>b\nACG\n")

	if err := execute(c, "convert", "-f", "fasta", "-t", "relaxed_phylip"); err != nil {
		t.Fatal(err)
	}
	if got := stdout.String(); got != "2 6\na ACGTAC\nb ACG---\n" {
		t.Errorf("stdout = %q", got)
	}
	if !strings.Contains(stderr.String(), "dash-signs have been added") {
		t.Errorf("warning not reported on stderr: %q", stderr.String())
	}
}

func TestConvertFiles(t *testing.T) {
	c, stdout, _ := testCLI(t, "")
	dir := t.TempDir()
	in := filepath.Join(dir, "seqs.fasta")
	out := filepath.Join(dir, "seqs.txt")
	writeFile(t, in, ">a\nACGT\n>empty\n")

	if err := execute(c, "convert", in, "-t", "tab_noheaders", "-o", out, "--allow-empty-sequences"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "a\tACGT\nempty\t\n" {
		t.Errorf("output = %q", got)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", stdout.String())
	}
}

func TestConvertConfigDefaults(t *testing.T) {
	c, stdout, _ := testCLI(t, ">a\nACGT\n")
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, cfgPath, "default_input_format = \"fasta\"\ndefault_output_format = \"tab\"\n")

	if err := execute(c, "--config", cfgPath, "convert"); err != nil {
		t.Fatal(err)
	}
	if got := stdout.String(); got != "seqid\tsequence\na\tACGT\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	fasta := filepath.Join(dir, "a.fas")
	writeFile(t, fasta, ">a\nACGT\n")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input format", []string{"convert", "-t", "fasta"}, errors.ErrCodeInvalidInput},
		{"missing output format", []string{"convert", fasta}, errors.ErrCodeInvalidInput},
		{"unknown format", []string{"convert", fasta, "-t", "fastb"}, errors.ErrCodeInvalidFormat},
		{"genbank output", []string{"convert", fasta, "-t", "genbank"}, errors.ErrCodeUnsupported},
		{"pick without terminal", []string{"convert", fasta, "--pick"}, errors.ErrCodeInvalidInput},
		{"missing file", []string{"convert", filepath.Join(dir, "nope.fas"), "-t", "nexus"}, errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, stdout, _ := testCLI(t, "")
			err := execute(c, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout = %q", stdout.String())
			}
		})
	}
}

func TestBatch(t *testing.T) {
	c, _, stderr := testCLI(t, "")
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	archive := filepath.Join(t.TempDir(), "out.zip")

	writeFile(t, filepath.Join(inDir, "one.fas"), ">a\nACGT\n")
	writeFile(t, filepath.Join(inDir, "two.fasta"), ">b\nGG\n")

	if err := execute(c, "batch", inDir, outDir, "-t", "nexus", "--zip", archive); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"one.nex", "two.nex"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	zr, err := zip.OpenReader(archive)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	if len(zr.File) != 2 {
		t.Errorf("archive holds %d files, want 2", len(zr.File))
	}
	if !strings.Contains(stderr.String(), "one.nex") {
		t.Errorf("status output = %q", stderr.String())
	}
}

func TestBatchReportsFailures(t *testing.T) {
	c, _, stderr := testCLI(t, "")
	inDir := t.TempDir()
	writeFile(t, filepath.Join(inDir, "good.fas"), ">a\nACGT\n")
	writeFile(t, filepath.Join(inDir, "bad.nex"), "garbage")

	err := execute(c, "batch", inDir, t.TempDir(), "-t", "fasta")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(stderr.String(), "bad.nex") {
		t.Errorf("failure not reported: %q", stderr.String())
	}
}

func TestFormatsCommand(t *testing.T) {
	c, stdout, _ := testCLI(t, "")
	if err := execute(c, "formats", "--fields"); err != nil {
		t.Fatal(err)
	}
	out := stdout.String()
	for _, name := range []string{"fasta", "relaxed_phylip", "genbank", "tab_noheaders", "specimen_voucher"} {
		if !strings.Contains(out, name) {
			t.Errorf("formats output lacks %q", name)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	c, stdout, _ := testCLI(t, "")
	if err := execute(c, "config", "path"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(stdout.String()), filepath.Join("dnaconvert", "config.toml")) {
		t.Errorf("config path = %q", stdout.String())
	}

	c, stdout, _ = testCLI(t, "")
	if err := execute(c, "config", "show"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), `nexus_parser = "internal"`) {
		t.Errorf("config show = %q", stdout.String())
	}
}

func TestCompletionCommand(t *testing.T) {
	c, stdout, _ := testCLI(t, "")
	if err := execute(c, "completion", "bash"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "dnaconvert") {
		t.Error("bash completion does not mention the program")
	}
}
