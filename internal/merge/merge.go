// Package merge copies requested icon states from a source icon into a
// destination icon, reporting what happened to each one.
package merge

import (
	"github.com/dmitools/dmicopy/internal/dmi"
)

// Outcome classifies what the merge did with one requested state.
type Outcome int

const (
	// OutcomeIdentical means the destination already held an equal state.
	OutcomeIdentical Outcome = iota
	// OutcomeReplaced means an existing state was overwritten in place.
	OutcomeReplaced
	// OutcomeAdded means the state was appended to the destination.
	OutcomeAdded
	// OutcomeMissing means the requested name matched nothing in the source.
	OutcomeMissing
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIdentical:
		return "identical in both files"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeAdded:
		return "added"
	case OutcomeMissing:
		return "not found in source"
	default:
		return "unknown"
	}
}

// Entry is one line of the merge report.
type Entry struct {
	Name    string
	Outcome Outcome
}

// States copies every source state whose name is in requested into dst.
// Replacements keep their position in dst; new states are appended in the
// order they appear in the source sheet, not in the request. Requested
// names absent from the source are reported but never fail the merge.
func States(src, dst *dmi.Icon, requested []string) []Entry {
	wanted := make(map[string]bool, len(requested))
	for _, name := range requested {
		wanted[name] = true
	}

	var entries []Entry
	var toAppend []*dmi.State
	matched := make(map[string]bool)

	for _, incoming := range src.States {
		if !wanted[incoming.Name] {
			continue
		}
		matched[incoming.Name] = true

		existing := dst.FindState(incoming.Name)
		switch {
		case existing == nil:
			toAppend = append(toAppend, incoming)
		case existing.Equal(incoming):
			entries = append(entries, Entry{Name: incoming.Name, Outcome: OutcomeIdentical})
		default:
			for i, st := range dst.States {
				if st.Name == incoming.Name {
					dst.States[i] = incoming
					break
				}
			}
			entries = append(entries, Entry{Name: incoming.Name, Outcome: OutcomeReplaced})
		}
	}

	for _, st := range toAppend {
		dst.States = append(dst.States, st)
		entries = append(entries, Entry{Name: st.Name, Outcome: OutcomeAdded})
	}

	reported := make(map[string]bool)
	for _, name := range requested {
		if !matched[name] && !reported[name] {
			reported[name] = true
			entries = append(entries, Entry{Name: name, Outcome: OutcomeMissing})
		}
	}
	return entries
}
