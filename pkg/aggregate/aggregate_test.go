package aggregate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dnaconvert/dnaconvert/pkg/record"
	"github.com/dnaconvert/dnaconvert/pkg/warn"
)

func records(t *testing.T, s *record.Schema, rows ...map[string]string) []*record.Record {
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

func TestSequenceAggregator(t *testing.T) {
	s := record.MustSchema("seqid", "species", "sequence")
	recs := records(t, s,
		map[string]string{"seqid": "a", "species": "Bufo bufo", "sequence": "ACGTAC"},
		map[string]string{"seqid": "longer", "species": "Rana temporaria", "sequence": "AC"},
		map[string]string{"seqid": "b", "species": "Bufo bufo", "sequence": "ACGT"},
	)

	agg := NewSequence()
	if agg.Min() != 0 || agg.Max() != 0 {
		t.Errorf("empty aggregator = (%d, %d), want (0, 0)", agg.Max(), agg.Min())
	}
	seqid := Add(&agg.Aggregator, 0, SeqidMax)
	species := Add(&agg.Aggregator, NewSet(), FieldSet("species"))

	for _, r := range recs {
		agg.Send(r)
	}

	if agg.Max() != 6 {
		t.Errorf("Max() = %d, want 6", agg.Max())
	}
	if agg.Min() != 2 {
		t.Errorf("Min() = %d, want 2", agg.Min())
	}
	if seqid.Value != 6 {
		t.Errorf("SeqidMax = %d, want 6", seqid.Value)
	}
	want := []string{"Bufo bufo", "Rana temporaria"}
	if got := species.Value.Items(); !reflect.DeepEqual(got, want) {
		t.Errorf("species = %v, want %v", got, want)
	}
}

func TestAligner(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		w := warn.NewCollector()
		pad := Aligner(4, 4, w)
		if got := pad("ACGT"); got != "ACGT" {
			t.Errorf("pad() = %q", got)
		}
		if len(w.Warnings()) != 0 {
			t.Error("equal lengths should not warn")
		}
	})

	t.Run("padding", func(t *testing.T) {
		w := warn.NewCollector()
		pad := Aligner(6, 2, w)
		for _, seq := range []string{"AC", "ACGT", "ACGTAC"} {
			got := pad(seq)
			if len(got) != 6 {
				t.Errorf("pad(%q) = %q, want length 6", seq, got)
			}
			if strings.Trim(got[len(seq):], "-") != "" {
				t.Errorf("pad(%q) = %q, padding must be '-'", seq, got)
			}
		}
		if ws := w.Warnings(); len(ws) != 1 || ws[0].Kind != warn.UnequalLength {
			t.Errorf("warnings = %v, want one unequal-length", ws)
		}
	})
}
