// Package seqtree is a minimal sequence-record tree: plain records and
// segmented sets whose children are segments of one assembled sequence.
package seqtree

import (
	"fmt"

	"github.com/FocuswithJustin/seqmod/core/errors"
)

// Record is a sequence, or a segmented set when it has segments.
type Record struct {
	id       string
	title    string
	residues string
	segments []*Record
}

// NewRecord creates a plain sequence record.
func NewRecord(id, title, residues string) *Record {
	return &Record{id: id, title: title, residues: residues}
}

// NewSegmentedSet creates a set wrapping the given segments. The wrapper
// carries its own identifier and title but no residues.
func NewSegmentedSet(id, title string, segments ...*Record) *Record {
	return &Record{id: id, title: title, segments: segments}
}

func (r *Record) ID() string       { return r.id }
func (r *Record) Title() string    { return r.title }
func (r *Record) Residues() string { return r.residues }

// Segments returns the children of a segmented set, nil for a plain record.
func (r *Record) Segments() []*Record { return r.segments }

// IsSegmentedSet reports whether r wraps segments.
func (r *Record) IsSegmentedSet() bool { return r.segments != nil }

// Label is the (identifier, title, segment) triple the tree exposes for
// each record, in depth-first order.
type Label struct {
	ID      string
	Title   string
	Segment bool
}

// Tree is an ordered list of top-level records.
type Tree struct {
	records []*Record
}

// NewTree creates a tree over records.
func NewTree(records ...*Record) *Tree {
	return &Tree{records: records}
}

// Records returns the top-level records.
func (t *Tree) Records() []*Record { return t.records }

// Labels walks the tree depth-first. A segmented set contributes its own
// label followed by one segment label per child.
func (t *Tree) Labels() []Label {
	var labels []Label
	for _, r := range t.records {
		labels = append(labels, Label{ID: r.id, Title: r.title})
		for _, seg := range r.segments {
			labels = append(labels, Label{ID: seg.id, Title: seg.title, Segment: true})
		}
	}
	return labels
}

// Relabel writes identifiers and titles back in the order Labels produced
// them. The number of labels and their segment pattern must match the
// tree exactly; nothing is written otherwise.
func (t *Tree) Relabel(labels []Label) error {
	current := t.Labels()
	if len(current) != len(labels) {
		return errors.NewPrecondition("relabel", fmt.Sprintf("%d labels", len(current)), fmt.Sprintf("%d", len(labels)))
	}
	for i := range current {
		if current[i].Segment != labels[i].Segment {
			return errors.NewPrecondition("relabel",
				fmt.Sprintf("segment=%t at %d", current[i].Segment, i),
				fmt.Sprintf("segment=%t", labels[i].Segment))
		}
	}

	i := 0
	for _, r := range t.records {
		r.id, r.title = labels[i].ID, labels[i].Title
		i++
		for _, seg := range r.segments {
			seg.id, seg.title = labels[i].ID, labels[i].Title
			i++
		}
	}
	return nil
}
