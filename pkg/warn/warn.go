// Package warn collects non-fatal validation warnings raised while writing a
// conversion's output.
//
// Each warning Kind is reported at most once per conversion run, in the order
// the kinds were first raised, no matter how many records trigger it.
package warn

// Kind identifies a category of validation warning.
type Kind string

// Warning kinds.
const (
	UnequalLength   Kind = "unequal-length"
	ShortSequence   Kind = "short-sequence"
	GapCharacters   Kind = "gap-characters"
	MissingIdentity Kind = "missing-identity"
)

var messages = map[Kind]string{
	UnequalLength: "The requested output format requires all sequences to be of equal length which is not the case in your input file. " +
		"Probably your sequences are unaligned. To complete the conversion, dash-signs have been added at the end of the shorter sequences " +
		"to adjust their length, but this may impede proper analysis - please check.",
	ShortSequence: "Some of your sequences are <200 bp in length and therefore will probably not accepted by the GenBank nucleotide database",
	GapCharacters: "Some of your sequences contain dashes (gaps) which is only allowed if you submit them as alignment. " +
		"If you do not wish to submit your sequences as alignment, please remove the dashes before conversion.",
	MissingIdentity: "Your file has been converted. However, apparently in your input either the organism, or a unique source identifier " +
		"(specimen-voucher, isolate, clone) was missing, which may be required for submission to GenBank",
}

// Warning is a single non-fatal diagnostic.
type Warning struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (w Warning) String() string { return w.Message }

// Message returns the user-facing text for a kind.
func Message(k Kind) string {
	if m, ok := messages[k]; ok {
		return m
	}
	return string(k)
}

// Collector accumulates warnings for one conversion run.
// A nil *Collector discards everything.
type Collector struct {
	seen  map[Kind]bool
	list  []Warning
	onAdd func(Warning)
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[Kind]bool)}
}

// OnAdd registers fn to be called the first time each kind is added.
func (c *Collector) OnAdd(fn func(Warning)) {
	if c != nil {
		c.onAdd = fn
	}
}

// Add records kind unless it was already recorded. It reports whether the
// warning was new.
func (c *Collector) Add(kind Kind) bool {
	if c == nil || c.seen[kind] {
		return false
	}
	c.seen[kind] = true
	w := Warning{Kind: kind, Message: Message(kind)}
	c.list = append(c.list, w)
	if c.onAdd != nil {
		c.onAdd(w)
	}
	return true
}

// Has reports whether kind was recorded.
func (c *Collector) Has(kind Kind) bool {
	return c != nil && c.seen[kind]
}

// Warnings returns the recorded warnings in first-seen order.
func (c *Collector) Warnings() []Warning {
	if c == nil {
		return nil
	}
	out := make([]Warning, len(c.list))
	copy(out, c.list)
	return out
}
