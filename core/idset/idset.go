// Package idset keeps a flat list of (identifier, title) pairs in step
// with a tree of sequence records.
//
// A Set is built from a Source, edited in place, and written back with
// ApplyTo. Its length never changes after construction; ApplyTo refuses
// to write when the source no longer has the same shape.
package idset

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/seqmod/core/errors"
	"github.com/FocuswithJustin/seqmod/core/seqtree"
)

// Source is a sequence-record tree that can be walked and relabelled.
// *seqtree.Tree satisfies it.
type Source interface {
	Labels() []seqtree.Label
	Relabel(labels []seqtree.Label) error
}

// Set is the identifier/title collection. ids, titles and segment always
// have the same length, and index i refers to the same sequence in all
// three.
type Set struct {
	ids     []string
	titles  []string
	segment []bool
}

// FromTree captures the labels of src in depth-first order.
func FromTree(src Source) *Set {
	return FromLabels(src.Labels())
}

// FromLabels builds a set from explicit labels.
func FromLabels(labels []seqtree.Label) *Set {
	s := &Set{
		ids:     make([]string, len(labels)),
		titles:  make([]string, len(labels)),
		segment: make([]bool, len(labels)),
	}
	for i, l := range labels {
		s.ids[i] = l.ID
		s.titles[i] = l.Title
		s.segment[i] = l.Segment
	}
	return s
}

// Len is the total number of entries, segments included. Identifier
// uniqueness is checked across all of them.
func (s *Set) Len() int { return len(s.ids) }

// ActiveLen counts the entries that are not segments. Only these receive
// defaults.
func (s *Set) ActiveLen() int {
	n := 0
	for _, seg := range s.segment {
		if !seg {
			n++
		}
	}
	return n
}

// ID returns the identifier at i.
func (s *Set) ID(i int) string { return s.ids[i] }

// Title returns the title at i.
func (s *Set) Title(i int) string { return s.titles[i] }

// IsSegment reports whether entry i is a member of a segmented set.
func (s *Set) IsSegment(i int) bool { return s.segment[i] }

// SetID replaces the identifier at i.
func (s *Set) SetID(i int, id string) { s.ids[i] = id }

// SetTitle replaces the title at i.
func (s *Set) SetTitle(i int, title string) { s.titles[i] = title }

// Labels returns the entries as tree labels.
func (s *Set) Labels() []seqtree.Label {
	labels := make([]seqtree.Label, len(s.ids))
	for i := range s.ids {
		labels[i] = seqtree.Label{ID: s.ids[i], Title: s.titles[i], Segment: s.segment[i]}
	}
	return labels
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return &Set{
		ids:     append([]string(nil), s.ids...),
		titles:  append([]string(nil), s.titles...),
		segment: append([]bool(nil), s.segment...),
	}
}

// Equal reports whether two sets hold the same entries.
func (s *Set) Equal(o *Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i := range s.ids {
		if s.ids[i] != o.ids[i] || s.titles[i] != o.titles[i] || s.segment[i] != o.segment[i] {
			return false
		}
	}
	return true
}

// ApplyTo writes the set back onto src. It refuses while structural
// defects remain, and fails with a precondition error when the number of
// records or their segment pattern differs from the set. Nothing is
// written on failure.
func (s *Set) ApplyTo(src Source) error {
	if err := s.refuseOnDefects("apply"); err != nil {
		return err
	}

	current := src.Labels()
	if len(current) != s.Len() {
		return errors.NewPrecondition("apply", fmt.Sprintf("%d sequences", s.Len()), fmt.Sprintf("%d", len(current)))
	}
	for i, l := range current {
		if l.Segment != s.segment[i] {
			return errors.NewPrecondition("apply",
				fmt.Sprintf("segment=%t at %d", s.segment[i], i),
				fmt.Sprintf("segment=%t", l.Segment))
		}
	}
	return src.Relabel(s.Labels())
}

func (s *Set) refuseOnDefects(op string) error {
	defects := s.Check()
	if len(defects) == 0 {
		return nil
	}
	msgs := make([]string, len(defects))
	for i, d := range defects {
		msgs[i] = d.String()
	}
	return errors.NewStructural(op, msgs)
}

func foldID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
