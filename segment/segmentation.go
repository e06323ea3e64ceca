package segment

import (
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/pagesect/model"
)

// Segmentation holds the result of a segmentation pass: the named groups in
// rule-table order, plus the fragments that matched no group (orphans seen
// before any heading). Groups are pairwise disjoint and
// FragmentCount()+DroppedCount() always equals the input size.
type Segmentation struct {
	// Groups in rule-table order. Every group from the vocabulary is present,
	// possibly empty.
	Groups []Group

	// Dropped are fragments classified into no group, in reading order.
	Dropped []model.Fragment

	// Input is the number of fragments the pass consumed.
	Input int
}

// GroupCount returns the number of groups (empty groups included).
func (s *Segmentation) GroupCount() int {
	if s == nil {
		return 0
	}
	return len(s.Groups)
}

// Group returns the group with the given name, or nil if the vocabulary has
// no such group.
func (s *Segmentation) Group(name string) *Group {
	if s == nil {
		return nil
	}
	for i := range s.Groups {
		if s.Groups[i].Name == name {
			return &s.Groups[i]
		}
	}
	return nil
}

// FragmentCount returns the total number of grouped fragments.
func (s *Segmentation) FragmentCount() int {
	if s == nil {
		return 0
	}
	total := 0
	for i := range s.Groups {
		total += len(s.Groups[i].Fragments)
	}
	return total
}

// DroppedCount returns the number of fragments that joined no group.
func (s *Segmentation) DroppedCount() int {
	if s == nil {
		return 0
	}
	return len(s.Dropped)
}

// Render writes a human-readable listing of the groups: one header line per
// group followed by one line per member (bounding box plus trimmed text).
// Group order and within-group member order are preserved exactly.
func (s *Segmentation) Render(w io.Writer) error {
	if s == nil {
		return nil
	}

	for i := range s.Groups {
		g := &s.Groups[i]
		if _, err := fmt.Fprintf(w, "--- %s ---\n", g.Name); err != nil {
			return err
		}
		for _, frag := range g.Fragments {
			if _, err := fmt.Fprintf(w, "%s\n", frag.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

// String returns the rendered listing.
func (s *Segmentation) String() string {
	var sb strings.Builder
	_ = s.Render(&sb)
	return sb.String()
}
