package naming

import "strconv"

// Unicifier turns candidate names into names distinct within one run.
type Unicifier interface {
	Unique(name string) string
}

// Limited keeps names within a length budget by overwriting their end with
// a run-scoped counter: the n-th call returns name[:limit-len(n)] + n.
type Limited struct {
	limit        int
	count        int
	truncateOnly bool
}

// NewLimited returns a length-limited unicifier. With disableRenaming set it
// only truncates to limit, and duplicates are possible.
func NewLimited(limit int, disableRenaming bool) *Limited {
	return &Limited{limit: limit, truncateOnly: disableRenaming}
}

// Unique implements Unicifier.
func (u *Limited) Unique(name string) string {
	if u.truncateOnly {
		return truncate(name, u.limit)
	}
	suffix := strconv.Itoa(u.count)
	u.count++
	return truncate(name, u.limit-len(suffix)) + suffix
}

// Unlimited returns a name unchanged the first time it is seen and appends
// sep and the count of prior occurrences afterwards: "a", "a_1", "a_2".
type Unlimited struct {
	sep  string
	seen map[string]int
}

// NewUnlimited returns an unlimited unicifier joining suffixes with sep.
func NewUnlimited(sep string) *Unlimited {
	return &Unlimited{sep: sep, seen: make(map[string]int)}
}

// Unique implements Unicifier.
func (u *Unlimited) Unique(name string) string {
	n, ok := u.seen[name]
	if !ok {
		u.seen[name] = 1
		return name
	}
	u.seen[name] = n + 1
	return name + u.sep + strconv.Itoa(n)
}
