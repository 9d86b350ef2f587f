package nexus

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
)

// Taxon is one row of a NEXUS matrix.
type Taxon struct {
	Name     string
	Sequence string
}

var sequenceDatatype = regexp.MustCompile(`(?i)DNA|RNA|Nucleotide|Protein`)

// Machine interprets NEXUS commands and extracts sequence matrices. Its state
// belongs to the current block and is reset by "end" and "endblock".
type Machine struct {
	// ReadMatrix is set by a format command declaring a sequence datatype.
	ReadMatrix bool

	// Interleave is set by a format command with the interleave keyword.
	Interleave bool

	// NChar is the sequence length from the dimensions command; 0 when unset.
	NChar int
}

// Reset returns the machine to the start-of-block state.
func (m *Machine) Reset() {
	*m = Machine{}
}

// Execute runs one command. Only "matrix" produces taxa; unknown commands are
// no-ops.
func (m *Machine) Execute(name string, args *Args) ([]Taxon, error) {
	switch name {
	case "format":
		return nil, m.format(args)
	case "dimensions":
		return nil, m.dimensions(args)
	case "end", "endblock":
		m.Reset()
		return nil, nil
	case "matrix":
		if !m.ReadMatrix {
			return nil, nil
		}
		if m.Interleave {
			return interleaved(args)
		}
		return m.sequential(args)
	}
	return nil, nil
}

func (m *Machine) format(args *Args) error {
	for {
		arg, ok, err := args.Next()
		if err != nil || !ok {
			return err
		}
		switch strings.ToLower(arg) {
		case "datatype":
			value, ok, err := assignment(args)
			if err != nil || !ok {
				return err
			}
			if sequenceDatatype.MatchString(value) {
				m.ReadMatrix = true
			}
		case "interleave":
			m.Interleave = true
			if next, ok, err := args.Peek(); err != nil {
				return err
			} else if ok && next == "=" {
				value, _, err := assignment(args)
				if err != nil {
					return err
				}
				m.Interleave = !strings.EqualFold(value, "no")
			}
		}
	}
}

func (m *Machine) dimensions(args *Args) error {
	for {
		arg, ok, err := args.Next()
		if err != nil || !ok {
			return err
		}
		if !strings.EqualFold(arg, "nchar") {
			continue
		}
		value, ok, err := assignment(args)
		if err != nil || !ok {
			return err
		}
		if n, err := strconv.Atoi(value); err == nil {
			m.NChar = n
		}
	}
}

// assignment reads "= value". ok is false when the arguments end first; a
// missing "=" yields an empty value.
func assignment(args *Args) (string, bool, error) {
	eq, ok, err := args.Next()
	if err != nil || !ok {
		return "", ok, err
	}
	if eq != "=" {
		return "", true, nil
	}
	return args.Next()
}

// interleaved reads (name, fragment) pairs, concatenating fragments per name
// in first-seen order.
func interleaved(args *Args) ([]Taxon, error) {
	var order []string
	seqs := make(map[string]*strings.Builder)
	for {
		name, ok, err := args.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		frag, ok, err := args.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Formatf("nexus: %s has no corresponding sequence", name)
		}
		b, seen := seqs[name]
		if !seen {
			b = &strings.Builder{}
			seqs[name] = b
			order = append(order, name)
		}
		b.WriteString(frag)
	}

	taxa := make([]Taxon, len(order))
	for i, name := range order {
		taxa[i] = Taxon{Name: name, Sequence: seqs[name].String()}
	}
	return taxa, nil
}

// sequential reads each name followed by tokens until NChar characters.
func (m *Machine) sequential(args *Args) ([]Taxon, error) {
	if m.NChar <= 0 {
		return nil, errors.Formatf("cannot parse non-interleaved NEXUS file without an 'nchar' value")
	}
	var taxa []Taxon
	for {
		name, ok, err := args.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return taxa, nil
		}
		var seq strings.Builder
		for seq.Len() < m.NChar {
			frag, ok, err := args.Next()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.Formatf("nexus: sequence of %s ends after %d of %d characters", name, seq.Len(), m.NChar)
			}
			seq.WriteString(frag)
		}
		taxa = append(taxa, Taxon{Name: name, Sequence: seq.String()})
	}
}
