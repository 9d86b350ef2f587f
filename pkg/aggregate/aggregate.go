// Package aggregate collects statistics over a buffered record set before a
// two-pass writer emits its output.
//
// An Aggregator is a list of (seed, reducer) pairs. Each record sent to it
// updates every accumulator; the current values are read back from the typed
// handles returned when the pairs were registered.
//
//	agg := aggregate.NewSequence()
//	seqidMax := aggregate.Add(&agg.Aggregator, 0, aggregate.SeqidMax)
//	for _, r := range records {
//	    agg.Send(r)
//	}
//	pad := aggregate.Aligner(agg.Max(), agg.Min(), warnings)
package aggregate

import (
	"github.com/dnaconvert/dnaconvert/pkg/record"
)

// Aggregator feeds records to a set of reducers.
type Aggregator struct {
	reducers []func(*record.Record)
}

// Acc is a typed accumulator registered on an Aggregator.
type Acc[T any] struct {
	Value T
}

// Add registers a reducer with its seed and returns the accumulator handle.
func Add[T any](a *Aggregator, seed T, reduce func(acc T, r *record.Record) T) *Acc[T] {
	acc := &Acc[T]{Value: seed}
	a.reducers = append(a.reducers, func(r *record.Record) {
		acc.Value = reduce(acc.Value, r)
	})
	return acc
}

// Send updates every accumulator with r.
func (a *Aggregator) Send(r *record.Record) {
	for _, reduce := range a.reducers {
		reduce(r)
	}
}

// =============================================================================
// Sequence lengths
// =============================================================================

// Sequence is an Aggregator preloaded with maximum and minimum sequence
// length reducers.
type Sequence struct {
	Aggregator
	max *Acc[int]
	min *Acc[int]
}

// NewSequence returns a Sequence aggregator.
func NewSequence() *Sequence {
	s := &Sequence{}
	s.max = Add(&s.Aggregator, 0, MaxLength)
	s.min = Add(&s.Aggregator, -1, MinLength)
	return s
}

// Max returns the longest sequence length seen.
func (s *Sequence) Max() int { return s.max.Value }

// Min returns the shortest sequence length seen, or 0 before any record.
func (s *Sequence) Min() int {
	if s.min.Value < 0 {
		return 0
	}
	return s.min.Value
}

// MaxLength is the reducer for the longest sequence.
func MaxLength(acc int, r *record.Record) int {
	return max(acc, len(r.Sequence()))
}

// MinLength is the reducer for the shortest sequence. A negative acc means no
// record has been seen.
func MinLength(acc int, r *record.Record) int {
	l := len(r.Sequence())
	if acc < 0 {
		return l
	}
	return min(acc, l)
}

// SeqidMax is the reducer for the longest seqid.
func SeqidMax(acc int, r *record.Record) int {
	return max(acc, len(r.Seqid()))
}

// =============================================================================
// Ordered sets
// =============================================================================

// Set is an insertion-ordered set of strings.
type Set struct {
	items []string
	index map[string]bool
}

// NewSet returns an empty set.
func NewSet() *Set { return &Set{index: make(map[string]bool)} }

// Add inserts v if absent.
func (s *Set) Add(v string) {
	if !s.index[v] {
		s.index[v] = true
		s.items = append(s.items, v)
	}
}

// Items returns the members in first-seen order.
func (s *Set) Items() []string { return s.items }

// Len returns the member count.
func (s *Set) Len() int { return len(s.items) }

// FieldSet returns a reducer collecting the distinct values of field.
func FieldSet(field string) func(*Set, *record.Record) *Set {
	return func(acc *Set, r *record.Record) *Set {
		acc.Add(r.Get(field))
		return acc
	}
}
