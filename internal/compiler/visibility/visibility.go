// Package visibility defines the bit-flag lattice describing the context a
// type is viewed in (read from a service, sent on create, ...).
package visibility

import (
	"fmt"
	"strings"
	"sync"

	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	strutil "github.com/conduit-lang/prism/internal/util/strings"
)

// Visibility is a set of operational contexts.
type Visibility uint32

const (
	Read Visibility = 1 << iota
	Create
	Update
	Delete
	Query

	All = Read | Create | Update | Delete | Query

	// Item marks a node nested in a collection, where no metadata applies.
	// It is not a real visibility and never appears in labels.
	Item Visibility = 1 << 20
)

var flagLabels = []struct {
	flag  Visibility
	label string
}{
	{Read, "read"},
	{Create, "create"},
	{Update, "update"},
	{Delete, "delete"},
	{Query, "query"},
}

var (
	labelCache  sync.Map // Visibility -> []string
	suffixCache sync.Map // Visibility -> string
)

// Labels returns the lowercase labels of v in read, create, update, delete,
// query order. The Item flag is ignored. An empty visibility is an internal
// error.
func (v Visibility) Labels() []string {
	v &^= Item
	if cached, ok := labelCache.Load(v); ok {
		return cached.([]string)
	}

	var labels []string
	for _, fl := range flagLabels {
		if v&fl.flag != 0 {
			labels = append(labels, fl.label)
		}
	}
	diagnostics.Assert(len(labels) > 0, "invalid visibility %d", uint32(v))

	actual, _ := labelCache.LoadOrStore(v, labels)
	return actual.([]string)
}

// Suffix returns the name suffix for models projected at v: empty for plain
// Read, otherwise the capitalized labels joined by "Or", plus "Item" when the
// Item flag is set.
func (v Visibility) Suffix() string {
	if cached, ok := suffixCache.Load(v); ok {
		return cached.(string)
	}

	var suffix string
	if v&^Item != Read {
		suffix = strutil.JoinCapitalized(v.Labels(), "Or")
	}
	if v&Item != 0 {
		suffix += "Item"
	}

	actual, _ := suffixCache.LoadOrStore(v, suffix)
	return actual.(string)
}

// Has reports whether v includes every flag in other.
func (v Visibility) Has(other Visibility) bool {
	return v&other == other
}

func (v Visibility) String() string {
	if v&^Item == 0 {
		if v&Item != 0 {
			return "item"
		}
		return "none"
	}
	s := strings.Join(v.Labels(), "|")
	if v&Item != 0 {
		s += "|item"
	}
	return s
}

// Parse converts labels such as "read" or "create" into a visibility.
func Parse(labels ...string) (Visibility, error) {
	var v Visibility
	for _, raw := range labels {
		label := strings.ToLower(strings.TrimSpace(raw))
		found := false
		for _, fl := range flagLabels {
			if fl.label == label {
				v |= fl.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown visibility %q", raw)
		}
	}
	return v, nil
}
