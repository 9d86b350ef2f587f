package nexus

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/record"
	"github.com/dnaconvert/dnaconvert/pkg/warn"
)

func tokens(t *testing.T, input string) ([]string, error) {
	t.Helper()
	tz, err := NewTokenizer(strings.NewReader(input))
	if err != nil {
		return nil, err
	}
	var out []string
	for {
		tok, err := tz.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
}

func TestTokenizer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "comment skipped",
			input: "#NEXUS\nbegin data;\n[note]a b;\n",
			want:  []string{"begin", "data", ";", "a", "b", ";"},
		},
		{
			name:  "punctuation splits words",
			input: "#NEXUS nchar=12;",
			want:  []string{"nchar", "=", "12", ";"},
		},
		{
			name:  "leading punctuation",
			input: "#NEXUS datatype =DNA",
			want:  []string{"datatype", "=", "DNA"},
		},
		{
			name:  "nested comment",
			input: "#NEXUS a [outer [inner] still comment] b",
			want:  []string{"a", "b"},
		},
		{
			name:  "quoted",
			input: "#NEXUS 'Homo sapiens' 'it''s' ''",
			want:  []string{"Homo sapiens", "it's"},
		},
		{
			name:  "last token without newline",
			input: "#NEXUS\nend",
			want:  []string{"end"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tokens(t, tt.input)
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokens = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad magic", "#NEXUX\nbegin;"},
		{"short input", "#NE"},
		{"EOF in comment", "#NEXUS [never closed"},
		{"EOF in quote", "#NEXUS 'never closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens(t, tt.input)
			if !errors.IsFormatError(err) {
				t.Errorf("error = %v, want FORMAT_ERROR", err)
			}
		})
	}
}

func TestCommands(t *testing.T) {
	cmds, err := NewCommands(strings.NewReader("#NEXUS\nBEGIN data;\nDimensions ntax=2 nchar=4;\nEND;"))
	if err != nil {
		t.Fatal(err)
	}

	name, args, err := cmds.Next()
	if err != nil || name != "begin" {
		t.Fatalf("first command = %q, %v", name, err)
	}
	arg, ok, _ := args.Next()
	if !ok || arg != "data" {
		t.Errorf("first arg = %q", arg)
	}

	// dimensions arguments are left unread and must be discarded
	if name, _, _ = cmds.Next(); name != "dimensions" {
		t.Fatalf("second command = %q", name)
	}
	if name, _, _ = cmds.Next(); name != "end" {
		t.Fatalf("third command = %q", name)
	}
	if _, _, err = cmds.Next(); err != io.EOF {
		t.Errorf("after last command err = %v, want io.EOF", err)
	}

	t.Run("EOF inside command", func(t *testing.T) {
		cmds, _ := NewCommands(strings.NewReader("#NEXUS matrix a ACGT"))
		_, args, err := cmds.Next()
		if err != nil {
			t.Fatal(err)
		}
		err = args.Drain()
		if !errors.IsFormatError(err) {
			t.Errorf("error = %v, want FORMAT_ERROR", err)
		}
	})
}

func readAll(t *testing.T, input string) ([]*record.Record, error) {
	t.Helper()
	r, err := Descriptor.Reader(strings.NewReader(input))
	if err != nil {
		return nil, err
	}
	return format.ReadAll(r)
}

func pairs(recs []*record.Record) [][2]string {
	var out [][2]string
	for _, r := range recs {
		out = append(out, [2]string{r.Seqid(), r.Sequence()})
	}
	return out
}

func TestReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][2]string
	}{
		{
			name: "sequential",
			input: `#NEXUS
begin data;
  dimensions ntax=2 nchar=8;
  format datatype=dna missing=? gap=-;
  matrix
    taxon_1 ACGT ACGT
    'taxon 2' ACGTACG-
  ;
end;
`,
			want: [][2]string{{"taxon_1", "ACGTACGT"}, {"taxon 2", "ACGTACG-"}},
		},
		{
			name: "interleaved",
			input: `#NEXUS
begin data;
  dimensions ntax=2 nchar=8;
  format datatype=DNA interleave;
  matrix
    a ACGT
    b TTTT
    a GGGG
    b CCCC
  ;
end;
`,
			want: [][2]string{{"a", "ACGTGGGG"}, {"b", "TTTTCCCC"}},
		},
		{
			name: "non-sequence datatype ignored",
			input: `#NEXUS
begin data;
  dimensions nchar=2;
  format datatype=standard;
  matrix a 01 b 10;
end;
begin data;
  dimensions nchar=2;
  format datatype=protein;
  matrix c MK;
end;
`,
			want: [][2]string{{"c", "MK"}},
		},
		{
			name: "state reset at end",
			input: `#NEXUS
begin data; format datatype=DNA; end;
begin trees; matrix x y; end;
`,
			want: nil,
		},
		{
			name: "interleave=no",
			input: `#NEXUS
begin data; dimensions nchar=4; format datatype=DNA interleave=no;
matrix a AC GT; end;
`,
			want: [][2]string{{"a", "ACGT"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := readAll(t, tt.input)
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got := pairs(recs); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("records = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing nchar", "#NEXUS begin data; format datatype=DNA; matrix a ACGT; end;"},
		{"odd interleave", "#NEXUS begin data; format datatype=DNA interleave; matrix a ACGT b; end;"},
		{"short sequence", "#NEXUS begin data; dimensions nchar=10; format datatype=DNA; matrix a ACGT; end;"},
		{"unterminated matrix", "#NEXUS begin data; dimensions nchar=4; format datatype=DNA; matrix a ACGT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAll(t, tt.input)
			if !errors.IsFormatError(err) {
				t.Errorf("error = %v, want FORMAT_ERROR", err)
			}
		})
	}
}

func TestWriter(t *testing.T) {
	s := record.MustSchema(Fields...)
	a, _ := s.New(map[string]string{"seqid": "alpha", "sequence": "ACGTAC"})
	b, _ := s.New(map[string]string{"seqid": "b", "sequence": "ACG"})

	w := warn.NewCollector()
	var buf bytes.Buffer
	nw, err := Descriptor.Writer(&buf, s, format.Env{Warnings: w})
	if err != nil {
		t.Fatal(err)
	}
	if err := format.WriteAll(nw, []*record.Record{a, b}); err != nil {
		t.Fatal(err)
	}

	want := "#NEXUS\n\nbegin data;\n\n" +
		"dimensions Nchar=6 Ntax=2;\n" +
		"format datatype=DNA missing=N missing=? Gap=- Interleave=yes;\n\n" +
		"matrix\n" +
		"alpha0 ACGTAC\n" +
		"b1     ACG---\n" +
		";\n\nend;\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
	if !w.Has(warn.UnequalLength) {
		t.Error("expected unequal-length warning")
	}
	if a.Seqid() != "alpha" {
		t.Errorf("writer mutated the pushed record: seqid = %q", a.Seqid())
	}

	recs, err := readAll(t, buf.String())
	if err != nil {
		t.Fatalf("reading written output: %v", err)
	}
	want2 := [][2]string{{"alpha0", "ACGTAC"}, {"b1", "ACG---"}}
	if got := pairs(recs); !reflect.DeepEqual(got, want2) {
		t.Errorf("read back = %v, want %v", got, want2)
	}
}
