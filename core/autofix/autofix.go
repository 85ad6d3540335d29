// Package autofix proposes corrections for identifier and bracket defects
// in a title set.
//
// Strategies never modify their input. Each returns a Proposal: the list
// of changes and a copy of the set with all of them applied. A caller may
// accept the whole copy or apply a subset of the changes with Apply.
package autofix

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/seqmod/core/bracket"
	"github.com/FocuswithJustin/seqmod/core/idset"
	"github.com/FocuswithJustin/seqmod/internal/validation"
)

// IdentifierJoin joins an identifier to the word recovered from its title.
const IdentifierJoin = "_"

// Change rewrites the identifier and title of one entry.
type Change struct {
	Index    int
	OldID    string
	NewID    string
	OldTitle string
	NewTitle string
	Reason   string
}

func (c Change) String() string {
	var parts []string
	if c.OldID != c.NewID {
		parts = append(parts, fmt.Sprintf("id %q -> %q", c.OldID, c.NewID))
	}
	if c.OldTitle != c.NewTitle {
		parts = append(parts, fmt.Sprintf("title %q -> %q", c.OldTitle, c.NewTitle))
	}
	return fmt.Sprintf("%s: %s", c.Reason, strings.Join(parts, ", "))
}

// Proposal is the outcome of one strategy.
type Proposal struct {
	Set     *idset.Set
	Changes []Change
}

// Empty reports whether the strategy found nothing to change.
func (p Proposal) Empty() bool { return len(p.Changes) == 0 }

// Apply returns a copy of s with changes applied.
func Apply(s *idset.Set, changes ...Change) *idset.Set {
	out := s.Clone()
	for _, c := range changes {
		out.SetID(c.Index, c.NewID)
		out.SetTitle(c.Index, c.NewTitle)
	}
	return out
}

func propose(s *idset.Set, changes []Change) Proposal {
	return Proposal{Set: Apply(s, changes...), Changes: changes}
}

// IdentifierSpaces handles identifiers that were cut short at a space: an
// identifier that collides (case-insensitively) with another one gets the
// first word of its title appended, and that word is removed from the
// title. Titles starting with '[' and words that are not valid
// identifiers are left alone.
func IdentifierSpaces(s *idset.Set) Proposal {
	counts := make(map[string]int, s.Len())
	for i := 0; i < s.Len(); i++ {
		counts[strings.ToLower(s.ID(i))]++
	}

	var changes []Change
	for i := 0; i < s.Len(); i++ {
		id, title := s.ID(i), s.Title(i)
		if id == "" || counts[strings.ToLower(id)] < 2 {
			continue
		}
		trimmed := strings.TrimLeft(title, " \t")
		if strings.HasPrefix(trimmed, "[") {
			continue
		}
		word := leadingWord(trimmed)
		if word == "" || strings.ContainsAny(word, "=\"") {
			continue
		}
		newID := id + IdentifierJoin + word
		if validation.ValidateIdentifier(newID) != nil {
			continue
		}
		changes = append(changes, Change{
			Index:    i,
			OldID:    id,
			NewID:    newID,
			OldTitle: title,
			NewTitle: strings.TrimLeft(trimmed[len(word):], " \t"),
			Reason:   "identifier continues into title",
		})
	}
	return propose(s, changes)
}

// leadingWord returns the run of non-space, non-bracket characters at the
// start of s.
func leadingWord(s string) string {
	end := strings.IndexAny(s, " \t[]")
	if end < 0 {
		return s
	}
	return s[:end]
}

// IdentifierBrackets moves everything from the first '[' of an identifier
// to the front of its title, so bracketed material is read as modifiers.
func IdentifierBrackets(s *idset.Set) Proposal {
	var changes []Change
	for i := 0; i < s.Len(); i++ {
		id, title := s.ID(i), s.Title(i)
		at := strings.IndexByte(id, '[')
		if at < 0 {
			continue
		}
		tail := id[at:]
		newTitle := tail
		if t := strings.TrimLeft(title, " \t"); t != "" {
			newTitle = tail + " " + t
		}
		changes = append(changes, Change{
			Index:    i,
			OldID:    id,
			NewID:    id[:at],
			OldTitle: title,
			NewTitle: newTitle,
			Reason:   "bracket in identifier",
		})
	}
	return propose(s, changes)
}

// Brackets repairs the bracket grammar of every title that has a defect.
func Brackets(s *idset.Set) Proposal {
	var changes []Change
	for i := 0; i < s.Len(); i++ {
		title := s.Title(i)
		d := bracket.Detect(title)
		if d == bracket.NoError {
			continue
		}
		fixed := RepairAllBrackets(title)
		if fixed == title {
			continue
		}
		changes = append(changes, Change{
			Index:    i,
			OldID:    s.ID(i),
			NewID:    s.ID(i),
			OldTitle: title,
			NewTitle: fixed,
			Reason:   d.String(),
		})
	}
	return propose(s, changes)
}
