package idset

import (
	"context"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/seqmod/core/defline"
	"github.com/FocuswithJustin/seqmod/core/errors"
	"github.com/FocuswithJustin/seqmod/core/modifier"
	"github.com/FocuswithJustin/seqmod/core/orgtable"
	"github.com/FocuswithJustin/seqmod/internal/logging"
)

// gapValues are values that read as "not set" and may be overwritten by a
// default.
var gapValues = map[string]bool{
	"":        true,
	"unknown": true,
	"not-set": true,
}

func isGap(v string) bool {
	return gapValues[strings.ToLower(strings.TrimSpace(v))]
}

// scopes returns the organism scopes of title, or one scope spanning the
// whole title when it has no organism tag.
func scopes(title string) []defline.Scope {
	if sc := defline.OrganismScopes(title); len(sc) > 0 {
		return sc
	}
	return []defline.Scope{{Tag: -1, Start: 0, End: len(title)}}
}

// fill sets name in every scope of every non-segment title where it is
// missing or a gap value. valueFor picks the value per scope; an empty
// result leaves the scope alone. Scopes are visited last to first so
// earlier offsets stay valid.
func (s *Set) fill(op, name string, valueFor func(title string, sc defline.Scope) string) (int, error) {
	if err := s.refuseOnDefects(op); err != nil {
		return 0, err
	}

	changed := 0
	for i, title := range s.titles {
		if s.segment[i] {
			continue
		}
		updated := title
		sc := scopes(title)
		for j := len(sc) - 1; j >= 0; j-- {
			if v, ok := defline.ValueInScope(updated, sc[j], name); ok && !isGap(v) {
				continue
			}
			value := valueFor(updated, sc[j])
			if value == "" {
				continue
			}
			updated = defline.ReplaceInScope(updated, sc[j], name, value)
		}
		if updated != title {
			s.titles[i] = updated
			changed++
		}
	}
	return changed, nil
}

func (s *Set) applyFixed(ctx context.Context, op, name string, kind modifier.Kind, value string) (int, error) {
	canon, ok := modifier.NormalizeValue(kind, value)
	if !ok {
		return 0, errors.NewValidation(name, "illegal default value "+strconv.Quote(value))
	}
	changed, err := s.fill(op, name, func(string, defline.Scope) string { return canon })
	if err != nil {
		return 0, err
	}
	logging.DefaultsApplied(ctx, name, canon, changed)
	return changed, nil
}

// ApplyDefaultMolType sets moltype wherever it is not already given. It
// returns the number of titles changed.
func (s *Set) ApplyDefaultMolType(ctx context.Context, value string) (int, error) {
	return s.applyFixed(ctx, "default moltype", modifier.NameMolType, modifier.MoleculeType, value)
}

// ApplyDefaultTopology sets topology in every organism scope that lacks
// one.
func (s *Set) ApplyDefaultTopology(ctx context.Context, value string) (int, error) {
	return s.applyFixed(ctx, "default topology", modifier.NameTopology, modifier.Topology, value)
}

// ApplyDefaultLocation sets location in every organism scope that lacks
// one.
func (s *Set) ApplyDefaultLocation(ctx context.Context, value string) (int, error) {
	return s.applyFixed(ctx, "default location", modifier.NameLocation, modifier.Location, value)
}

// ApplyDefaultGeneticCode sets genetic_code in every organism scope that
// lacks one, computed from the scope's organism and location. Scopes whose
// code is unknown, or zero in the table, are left alone.
func (s *Set) ApplyDefaultGeneticCode(ctx context.Context, table *orgtable.Table) (int, error) {
	changed, err := s.fill("default genetic code", modifier.NameGeneticCode, func(title string, sc defline.Scope) string {
		location, _ := defline.ValueInScope(title, sc, modifier.NameLocation)
		code := table.GeneticCodeFor(sc.Organism, location)
		if code <= 0 {
			return ""
		}
		return strconv.Itoa(code)
	})
	if err != nil {
		return 0, err
	}
	logging.DefaultsApplied(ctx, modifier.NameGeneticCode, "from organism table", changed, "table", table.Fingerprint())
	return changed, nil
}
