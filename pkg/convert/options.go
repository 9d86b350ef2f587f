package convert

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dnaconvert/dnaconvert/pkg/warn"
)

// Options control one conversion.
// This struct supports JSON serialization for API requests.
type Options struct {
	// AllowEmptySequences keeps records whose sequence is empty. By default
	// they are skipped.
	AllowEmptySequences bool `json:"allow_empty_sequences,omitempty"`

	// DisableAutomaticRenaming switches every length-limited name unicifier
	// to truncation only, so names may collide.
	DisableAutomaticRenaming bool `json:"disable_automatic_renaming,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset runtime options.
func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Result describes a finished conversion.
type Result struct {
	// ID identifies the run in logs and hooks.
	ID string `json:"id"`

	// From and To are the resolved format names.
	From string `json:"from"`
	To   string `json:"to"`

	// Warnings holds each warning kind raised, once, in first-seen order.
	Warnings []warn.Warning `json:"warnings"`

	Stats Stats `json:"stats"`
}

// Stats contains conversion counters and timing.
type Stats struct {
	Read     int           `json:"read"`
	Written  int           `json:"written"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}
