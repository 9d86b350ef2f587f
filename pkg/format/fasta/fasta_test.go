package fasta

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/naming"
	"github.com/dnaconvert/dnaconvert/pkg/record"
	"github.com/dnaconvert/dnaconvert/pkg/warn"
)

func readAll(t *testing.T, d *format.Descriptor, input string) []*record.Record {
	t.Helper()
	r, err := d.Reader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	recs, err := format.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return recs
}

func writeAll(t *testing.T, d *format.Descriptor, schema *record.Schema, env format.Env, recs []*record.Record) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := d.Writer(&buf, schema, env)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if err := format.WriteAll(w, recs); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	return buf.String()
}

func mustRecords(t *testing.T, s *record.Schema, rows ...map[string]string) []*record.Record {
	t.Helper()
	var out []*record.Record
	for _, row := range rows {
		r, err := s.New(row)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		out = append(out, r)
	}
	return out
}

func TestFastaRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][2]string
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "single line",
			input: ">seq1\nACGT\n",
			want:  [][2]string{{"seq1", "ACGT"}},
		},
		{
			name:  "multi line with blanks",
			input: "junk before\n>seq 1  \nACG  \n\nTTA\n>seq2\r\nGG\r\n",
			want:  [][2]string{{"seq 1", "ACGTTA"}, {"seq2", "GG"}},
		},
		{
			name:  "no trailing newline",
			input: ">a\nAC",
			want:  [][2]string{{"a", "AC"}},
		},
		{
			name:  "empty sequence",
			input: ">a\n>b\nAC\n",
			want:  [][2]string{{"a", ""}, {"b", "AC"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := readAll(t, Descriptor, tt.input)
			var got [][2]string
			for _, r := range recs {
				got = append(got, [2]string{r.Seqid(), r.Sequence()})
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("records = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFastaRoundTrip(t *testing.T) {
	s := record.MustSchema(Fields...)
	in := mustRecords(t, s,
		map[string]string{"seqid": "Bufo bufo #1", "sequence": "ACGTTGCA"},
		map[string]string{"seqid": "Müller-2", "sequence": "AC--NN"},
		map[string]string{"seqid": "x", "sequence": "A"},
	)

	out := writeAll(t, Descriptor, s, format.Env{}, in)
	back := readAll(t, Descriptor, out)

	if len(back) != len(in) {
		t.Fatalf("read back %d records, want %d", len(back), len(in))
	}
	for i := range in {
		if want := naming.Sanitize(in[i].Seqid()); back[i].Seqid() != want {
			t.Errorf("record %d seqid = %q, want %q", i, back[i].Seqid(), want)
		}
		if back[i].Sequence() != in[i].Sequence() {
			t.Errorf("record %d sequence = %q, want %q", i, back[i].Sequence(), in[i].Sequence())
		}
	}
}

func TestHapviewWrite(t *testing.T) {
	t.Run("species codes", func(t *testing.T) {
		s := record.MustSchema("seqid", "species", "sequence")
		recs := mustRecords(t, s,
			map[string]string{"seqid": "a", "species": "Bufo bufo", "sequence": "ACGT"},
			map[string]string{"seqid": "b", "species": "Bufo bufonis", "sequence": "AC"},
			map[string]string{"seqid": "c", "species": "Rana temporaria", "sequence": "ACG"},
		)
		w := warn.NewCollector()
		got := writeAll(t, Hapview, s, format.Env{Warnings: w}, recs)

		want := ">Bufo_bufo0.bufo\nACGT\n>Bufo_bufonis1.bufo1\nAC--\n>Rana_temporaria2.temp\nACG-\n"
		if got != want {
			t.Errorf("output =\n%s\nwant\n%s", got, want)
		}
		if !w.Has(warn.UnequalLength) {
			t.Error("expected unequal-length warning")
		}
	})

	t.Run("sequential codes", func(t *testing.T) {
		s := record.MustSchema(Fields...)
		recs := mustRecords(t, s,
			map[string]string{"seqid": "x", "sequence": "AC"},
			map[string]string{"seqid": "y", "sequence": "GT"},
		)
		got := writeAll(t, Hapview, s, format.Env{}, recs)
		if want := ">x0.0\nAC\n>y1.1\nGT\n"; got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
	})

	t.Run("malformed species", func(t *testing.T) {
		s := record.MustSchema("seqid", "species", "sequence")
		recs := mustRecords(t, s, map[string]string{"seqid": "a", "species": "Bufo", "sequence": "AC"})
		w, _ := Hapview.Writer(&bytes.Buffer{}, s, format.Env{})
		err := format.WriteAll(w, recs)
		if !errors.IsFieldError(err) {
			t.Errorf("error = %v, want FIELD_ERROR", err)
		}
	})
}

func TestFastQ(t *testing.T) {
	input := "@r1\nACGT\n+\nIIII\n@r2\nGG\n+r2\nII\n"
	recs := readAll(t, FastQ, input)
	if len(recs) != 2 {
		t.Fatalf("read %d records, want 2", len(recs))
	}
	if recs[1].Get(FieldQualityID) != "+r2" || recs[1].Get(FieldQualityScore) != "II" {
		t.Errorf("record 2 = %v", recs[1].Map())
	}

	out := writeAll(t, FastQ, recs[0].Schema(), format.Env{}, recs)
	if out != input {
		t.Errorf("round trip = %q, want %q", out, input)
	}

	t.Run("truncated", func(t *testing.T) {
		r, _ := FastQ.Reader(strings.NewReader("@r1\nACGT\n+\n"))
		if _, err := r.Read(); !errors.IsFormatError(err) {
			t.Errorf("error = %v, want FORMAT_ERROR", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := FastQ.Writer(&bytes.Buffer{}, record.MustSchema(Fields...), format.Env{})
		if !errors.IsFieldError(err) {
			t.Errorf("error = %v, want FIELD_ERROR", err)
		}
	})
}

func TestGenbankFastaRead(t *testing.T) {
	input := ">AB1 [organism=Bufo bufo] [specimen-voucher=V1] [country=Italy: Lazio, Rome] [foo=bar]\nACGT\n"
	recs := readAll(t, GenbankFasta, input)
	if len(recs) != 1 {
		t.Fatalf("read %d records, want 1", len(recs))
	}
	r := recs[0]
	want := map[string]string{
		"seqid":            "AB1",
		"organism":         "Bufo bufo",
		"specimen_voucher": "V1",
		"country":          "Italy",
		"region":           "Lazio",
		"locality":         "Rome",
		"sequence":         "ACGT",
	}
	for k, v := range want {
		if got := r.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestGenbankFastaWrite(t *testing.T) {
	s := record.MustSchema("seqid", "species", "specimen_voucher", "country", "region", "locality", "sequence")
	recs := mustRecords(t, s, map[string]string{
		"species":          "Bufo bufo",
		"specimen_voucher": "V 1",
		"country":          "Italy",
		"region":           "Lazio",
		"locality":         "Rome",
		"sequence":         "nnACGT-N?",
	})

	w := warn.NewCollector()
	got := writeAll(t, GenbankFasta, s, format.Env{Warnings: w}, recs)
	want := ">Bufo_bufo_V_10 [organism=Bufo bufo] [specimen-voucher=V 1] [country=Italy: Lazio, Rome]\nACGT-\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	kinds := []warn.Kind{}
	for _, x := range w.Warnings() {
		kinds = append(kinds, x.Kind)
	}
	wantKinds := []warn.Kind{warn.ShortSequence, warn.GapCharacters}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("warnings = %v, want %v", kinds, wantKinds)
	}

	t.Run("missing identity", func(t *testing.T) {
		w := warn.NewCollector()
		if _, err := GenbankFasta.Writer(&bytes.Buffer{}, record.MustSchema(Fields...), format.Env{Warnings: w}); err != nil {
			t.Fatal(err)
		}
		if !w.Has(warn.MissingIdentity) {
			t.Error("expected missing-identity warning")
		}
	})
}

func TestFusePlace(t *testing.T) {
	tests := []struct {
		country, region, locality string
		want                      string
	}{
		{"Italy", "", "", "Italy"},
		{"Italy", "Lazio", "", "Italy: Lazio"},
		{"Italy", "", "Rome", "Italy: Rome"},
		{"Italy", "Lazio", "Rome", "Italy: Lazio, Rome"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FusePlace(tt.country, tt.region, tt.locality); got != tt.want {
				t.Errorf("FusePlace() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoID(t *testing.T) {
	t.Run("voucher name", func(t *testing.T) {
		s := record.MustSchema("species", "specimen_voucher", "sequence")
		recs := mustRecords(t, s, map[string]string{
			"specimen_voucher": "SV 01",
			"species":          "Abc def",
			"sequence":         "ACGT",
		})
		if got := writeAll(t, MoID, s, format.Env{}, recs); got != ">SV_01|Abc_def\nACGT\n" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("assembled name", func(t *testing.T) {
		s := record.MustSchema(MoIDFields...)
		recs := mustRecords(t, s, map[string]string{"seqid": "x", "species": "Rattus norvegicus", "sequence": "ACGT"})
		if got := writeAll(t, MoID, s, format.Env{}, recs); got != ">Rat_norve0|Rattus_norvegicus\nACGT\n" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("read", func(t *testing.T) {
		recs := readAll(t, MoID, ">SV_01|Abc_def\nAC\nGT\n")
		if len(recs) != 1 || recs[0].Seqid() != "SV_01" || recs[0].Get("species") != "Abc_def" || recs[0].Sequence() != "ACGT" {
			t.Errorf("records = %v", recs[0].Map())
		}
	})
}
