package nexus

import (
	"io"
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
)

// Args iterates over the arguments of one command, up to its ';'.
type Args struct {
	tz     *Tokenizer
	peeked *string
	done   bool
}

// Next returns the next argument. ok is false once the terminating ';' has
// been consumed. Reaching EOF before the ';' is a FORMAT_ERROR.
func (a *Args) Next() (arg string, ok bool, err error) {
	if a.peeked != nil {
		arg = *a.peeked
		a.peeked = nil
		return arg, true, nil
	}
	if a.done {
		return "", false, nil
	}
	tok, err := a.tz.Next()
	if err == io.EOF {
		return "", false, errors.Formatf("nexus: EOF inside a command")
	}
	if err != nil {
		return "", false, err
	}
	if tok == ";" {
		a.done = true
		return "", false, nil
	}
	return tok, true, nil
}

// Peek returns the next argument without consuming it.
func (a *Args) Peek() (string, bool, error) {
	if a.peeked != nil {
		return *a.peeked, true, nil
	}
	arg, ok, err := a.Next()
	if ok {
		a.peeked = &arg
	}
	return arg, ok, err
}

// Drain consumes the remaining arguments.
func (a *Args) Drain() error {
	for {
		_, ok, err := a.Next()
		if err != nil || !ok {
			return err
		}
	}
}

// Commands groups tokens into commands: a lower-cased name followed by its
// arguments.
type Commands struct {
	tz   *Tokenizer
	args *Args
}

// NewCommands returns a command stream over a NEXUS input.
func NewCommands(r io.Reader) (*Commands, error) {
	tz, err := NewTokenizer(r)
	if err != nil {
		return nil, err
	}
	return &Commands{tz: tz}, nil
}

// Next returns the next command. Arguments of the previous command that were
// not read are discarded first. It returns io.EOF when no command is left.
func (c *Commands) Next() (string, *Args, error) {
	if c.args != nil {
		if err := c.args.Drain(); err != nil {
			return "", nil, err
		}
		c.args = nil
	}

	for {
		tok, err := c.tz.Next()
		if err != nil {
			return "", nil, err
		}
		if tok == ";" {
			continue
		}
		c.args = &Args{tz: c.tz}
		return strings.ToLower(tok), c.args, nil
	}
}
