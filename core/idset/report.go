package idset

import (
	"context"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/seqmod/core/bracket"
	"github.com/FocuswithJustin/seqmod/core/errors"
	"github.com/FocuswithJustin/seqmod/core/modifier"
	"github.com/FocuswithJustin/seqmod/core/orgtable"
	"github.com/FocuswithJustin/seqmod/internal/logging"
	"github.com/FocuswithJustin/seqmod/internal/validation"
)

// DefectKind classifies a structural defect.
type DefectKind int

// DefectKind values.
const (
	DuplicateID DefectKind = iota + 1
	MissingID
	ReservedCharacter
	InvalidID
)

func (k DefectKind) String() string {
	switch k {
	case DuplicateID:
		return "duplicate identifier"
	case MissingID:
		return "missing identifier"
	case ReservedCharacter:
		return "reserved character in identifier"
	case InvalidID:
		return "invalid identifier"
	default:
		return "unknown defect"
	}
}

// StructuralDefect is an identifier problem that blocks defaulting and
// write-back.
type StructuralDefect struct {
	Kind   DefectKind
	Index  int
	ID     string
	First  int    // DuplicateID: index of the first entry using the identifier
	Detail string // InvalidID: why the identifier was rejected
}

func (d StructuralDefect) String() string {
	switch d.Kind {
	case DuplicateID:
		return fmt.Sprintf("%s %q at %d (first at %d)", d.Kind, d.ID, d.Index, d.First)
	case MissingID:
		return fmt.Sprintf("%s at %d", d.Kind, d.Index)
	case InvalidID:
		return fmt.Sprintf("%s %q at %d: %s", d.Kind, d.ID, d.Index, d.Detail)
	default:
		return fmt.Sprintf("%s %q at %d", d.Kind, d.ID, d.Index)
	}
}

// Check finds duplicate (case-insensitive), missing and malformed
// identifiers across every entry, segments included. An identifier
// holding a reserved character is always reported, duplicated or not.
func (s *Set) Check() []StructuralDefect {
	var defects []StructuralDefect
	seen := make(map[string]int, len(s.ids))

	for i, id := range s.ids {
		if strings.TrimSpace(id) == "" {
			defects = append(defects, StructuralDefect{Kind: MissingID, Index: i})
			continue
		}

		if err := validation.ValidateIdentifier(id); err != nil {
			kind := InvalidID
			if errors.Is(err, validation.ErrReservedCharacter) {
				kind = ReservedCharacter
			}
			defects = append(defects, StructuralDefect{Kind: kind, Index: i, ID: id, Detail: err.Error()})
		}

		key := foldID(id)
		if first, dup := seen[key]; dup {
			defects = append(defects, StructuralDefect{Kind: DuplicateID, Index: i, ID: id, First: first})
			continue
		}
		seen[key] = i
	}
	return defects
}

// GrammarDefect is the first bracket defect of one title.
type GrammarDefect struct {
	Index  int
	ID     string
	Defect bracket.Defect
}

func (d GrammarDefect) String() string {
	return fmt.Sprintf("%s: %s at offset %d", d.ID, d.Defect.Err, d.Defect.Offset)
}

// SemanticDefect is one modifier problem of one title.
type SemanticDefect struct {
	Index   int
	ID      string
	Problem modifier.Problem
}

func (d SemanticDefect) String() string {
	return fmt.Sprintf("%s: %s", d.ID, d.Problem)
}

// Report collects every defect of a set. Grammar and semantic defects are
// recoverable; structural defects block ApplyTo and the defaulting passes.
type Report struct {
	Grammar    []GrammarDefect
	Semantic   []SemanticDefect
	Structural []StructuralDefect
}

// Len is the total number of defects.
func (r Report) Len() int {
	return len(r.Grammar) + len(r.Semantic) + len(r.Structural)
}

// Empty reports whether no defect was found.
func (r Report) Empty() bool { return r.Len() == 0 }

// Log emits one log record per defect.
func (r Report) Log(ctx context.Context) {
	for _, d := range r.Structural {
		logging.DefectReported(ctx, "structural", d.ID, d.Kind.String(), "index", d.Index)
	}
	for _, d := range r.Grammar {
		logging.DefectReported(ctx, "grammar", d.ID, d.Defect.Err.String(), "index", d.Index, "offset", d.Defect.Offset)
	}
	for _, d := range r.Semantic {
		logging.DefectReported(ctx, "semantic", d.ID, d.Problem.String(), "index", d.Index)
	}
}

// Validate checks every entry and reports all defects without stopping at
// the first. Titles are parsed up to their first malformed pair. When
// table is not nil, organism names missing from it are reported as well.
func (s *Set) Validate(table *orgtable.Table) Report {
	r := Report{Structural: s.Check()}

	for i, title := range s.titles {
		if d := bracket.Check(title); d.Err != bracket.NoError {
			r.Grammar = append(r.Grammar, GrammarDefect{Index: i, ID: s.ids[i], Defect: d})
		}

		mods := modifier.ParseAll(title)
		for _, p := range modifier.Check(mods) {
			r.Semantic = append(r.Semantic, SemanticDefect{Index: i, ID: s.ids[i], Problem: p})
		}
		if table == nil {
			continue
		}
		for _, m := range mods {
			if m.Kind != modifier.Organism || m.Value == "" {
				continue
			}
			if _, ok := table.Lookup(m.Value); !ok {
				r.Semantic = append(r.Semantic, SemanticDefect{
					Index:   i,
					ID:      s.ids[i],
					Problem: modifier.Problem{Kind: modifier.UnknownOrganism, Name: m.Raw, Value: m.Value},
				})
			}
		}
	}
	return r
}
