// Package orgtable maps organism names to genetic codes and lineage, and
// computes the genetic code a sequence should default to.
//
// A Table is immutable once built. Hosts construct one (usually through a
// Provider) and pass it to whatever needs it.
package orgtable

import (
	"strings"
)

// Genetic code sentinels.
const (
	// UnknownCode means no genetic code could be determined. It is distinct
	// from 0, which is a legitimate "unset" value in the table.
	UnknownCode = -1
	// PlastidCode is used for every plastid-like location regardless of
	// organism.
	PlastidCode = 11
)

// Entry is one organism row.
type Entry struct {
	Name        string // taxonomic name
	CommonName  string
	NuclearCode int
	MitoCode    int
	Division    string
	TaxID       int
	Lineage     string
}

// Table is a read-only organism lookup keyed by case-insensitive name and
// by taxonomy id.
type Table struct {
	entries     []Entry
	byName      map[string]int
	byTaxID     map[int]int
	fingerprint string
}

// NewTable indexes entries. When two entries share a name (or a tax id)
// the first one wins.
func NewTable(entries []Entry, fingerprint string) *Table {
	t := &Table{
		entries:     entries,
		byName:      make(map[string]int, len(entries)),
		byTaxID:     make(map[int]int, len(entries)),
		fingerprint: fingerprint,
	}
	for i, e := range entries {
		key := nameKey(e.Name)
		if _, dup := t.byName[key]; !dup {
			t.byName[key] = i
		}
		if e.TaxID > 0 {
			if _, dup := t.byTaxID[e.TaxID]; !dup {
				t.byTaxID[e.TaxID] = i
			}
		}
	}
	return t
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of every entry in load order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Fingerprint identifies the source the table was loaded from.
func (t *Table) Fingerprint() string {
	if t == nil {
		return ""
	}
	return t.fingerprint
}

// Lookup finds an organism by exact, case-insensitive name.
func (t *Table) Lookup(name string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	i, ok := t.byName[nameKey(name)]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// ByTaxID finds an organism by taxonomy id.
func (t *Table) ByTaxID(id int) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	i, ok := t.byTaxID[id]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Bucket groups locations by which genetic code applies to them.
type Bucket int

// Bucket values.
const (
	Nuclear Bucket = iota
	Mitochondrial
	Plastid
)

func (b Bucket) String() string {
	switch b {
	case Mitochondrial:
		return "mitochondrial"
	case Plastid:
		return "plastid"
	default:
		return "nuclear"
	}
}

var buckets = map[string]Bucket{
	"mitochondrion": Mitochondrial,
	"kinetoplast":   Mitochondrial,
	"hydrogenosome": Mitochondrial,
	"chloroplast":   Plastid,
	"chromoplast":   Plastid,
	"plastid":       Plastid,
	"cyanelle":      Plastid,
	"apicoplast":    Plastid,
	"leucoplast":    Plastid,
	"proplastid":    Plastid,
}

// LocationBucket classifies a location by exact, case-insensitive match.
// Blank and unrecognized locations are Nuclear.
func LocationBucket(location string) Bucket {
	return buckets[strings.ToLower(strings.TrimSpace(location))]
}

// GeneticCodeFor returns the genetic code for an organism at a location.
// Plastid locations always use PlastidCode. Otherwise the organism's
// nuclear or mitochondrial code is returned, or UnknownCode when the
// organism is blank or not in the table. A nil table knows no organisms.
func (t *Table) GeneticCodeFor(organism, location string) int {
	bucket := LocationBucket(location)
	if bucket == Plastid {
		return PlastidCode
	}
	if strings.TrimSpace(organism) == "" {
		return UnknownCode
	}
	e, ok := t.Lookup(organism)
	if !ok {
		return UnknownCode
	}
	if bucket == Mitochondrial {
		return e.MitoCode
	}
	return e.NuclearCode
}
