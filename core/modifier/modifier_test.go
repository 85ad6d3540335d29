package modifier

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseAllCanonicalizesAliases(t *testing.T) {
	mods := ParseAll("seq [org=Mus musculus] [mol_type=mRNA]")

	type nv struct{ Name, Value string }
	var got []nv
	for _, m := range mods {
		got = append(got, nv{m.Name, m.Value})
	}
	want := []nv{{"organism", "Mus musculus"}, {"moltype", "mRNA"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseAll mismatch (-want +got):\n%s", diff)
	}
	if mods[0].Kind != Organism || mods[1].Kind != MoleculeType {
		t.Errorf("kinds = %v, %v", mods[0].Kind, mods[1].Kind)
	}
	if mods[0].Raw != "org" {
		t.Errorf("Raw = %q, want org", mods[0].Raw)
	}
}

func TestParseOne(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		from     int
		want     Modifier
		wantSpan Span
		wantOK   bool
	}{
		{
			name:     "simple pair",
			title:    "x [strain=B6] y",
			want:     Modifier{Name: "strain", Raw: "strain", Kind: SourceQualifier, Value: "B6", HasValue: true},
			wantSpan: Span{Start: 2, End: 13, Eq: 9},
			wantOK:   true,
		},
		{
			name:     "whitespace trimmed",
			title:    "[  Isolation Source =  soil  ]",
			want:     Modifier{Name: "isolation_source", Raw: "Isolation Source", Kind: SourceQualifier, Value: "soil", HasValue: true},
			wantSpan: Span{Start: 0, End: 30, Eq: 20},
			wantOK:   true,
		},
		{
			name:     "quoted value unquoted",
			title:    `[note="has [brackets]"]`,
			want:     Modifier{Name: NameSubSourceNote, Raw: "note", Kind: SourceQualifier, Value: "has [brackets]", HasValue: true},
			wantSpan: Span{Start: 0, End: 23, Eq: 5},
			wantOK:   true,
		},
		{
			name:     "flag pair",
			title:    "[DNA]",
			want:     Modifier{Name: "dna", Raw: "DNA", Kind: Molecule, Value: "dna"},
			wantSpan: Span{Start: 0, End: 5, Eq: -1},
			wantOK:   true,
		},
		{
			name:     "unrecognized name",
			title:    "[colour=blue]",
			want:     Modifier{Name: "colour", Raw: "colour", Kind: SourceQualifier, Subtype: SubtypeUnrecognized, Value: "blue", HasValue: true},
			wantSpan: Span{Start: 0, End: 13, Eq: 7},
			wantOK:   true,
		},
		{
			name:     "empty value",
			title:    "[strain=]",
			want:     Modifier{Name: "strain", Raw: "strain", Kind: SourceQualifier, HasValue: true},
			wantSpan: Span{Start: 0, End: 9, Eq: 7},
			wantOK:   true,
		},
		{name: "from skips earlier pair", title: "[a=b] [strain=c]", from: 5,
			want:     Modifier{Name: "strain", Raw: "strain", Kind: SourceQualifier, Value: "c", HasValue: true},
			wantSpan: Span{Start: 6, End: 16, Eq: 13}, wantOK: true},
		{name: "no pair", title: "plain title"},
		{name: "missing equals", title: "[strain B6]"},
		{name: "multiple equals", title: "[a=b=c]"},
		{name: "no name", title: "[=x]"},
		{name: "unterminated", title: "[a=b"},
		{name: "not a flag", title: "[transgenic]"},
		{name: "stray equals first", title: "a=b [c=d]"},
	}

	ignoreSubtype := cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".Subtype"
	}, cmp.Ignore())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, span, ok := ParseOne(tt.title, tt.from)
			if ok != tt.wantOK {
				t.Fatalf("ParseOne(%q) ok = %v, want %v", tt.title, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			opts := cmp.Options{}
			if tt.want.Subtype != SubtypeUnrecognized {
				opts = append(opts, ignoreSubtype)
				if !got.Recognized() {
					t.Errorf("%q not recognized", got.Raw)
				}
			}
			if diff := cmp.Diff(tt.want, got, opts...); diff != "" {
				t.Errorf("modifier mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantSpan, span); diff != "" {
				t.Errorf("span mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAllStopsAtUnparseableRemainder(t *testing.T) {
	tests := []struct {
		title string
		want  []string
	}{
		{"", nil},
		{"[a=1] [b=2] [c=3]", []string{"a", "b", "c"}},
		{"[a=1] [b 2] [c=3]", []string{"a"}},
		{"[a=1] x=y [c=3]", []string{"a"}},
		{"[a=1] [dna] [orf]", []string{"a", "dna", "orf"}},
		{`[note="x=y"] [c=3]`, []string{"Note-SubSrc", "c"}},
	}
	for _, tt := range tests {
		var got []string
		for _, m := range ParseAll(tt.title) {
			got = append(got, m.Name)
		}
		if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("ParseAll(%q) mismatch (-want +got):\n%s", tt.title, diff)
		}
	}
}

func TestSpanValueBounds(t *testing.T) {
	title := "[strain =  B6 ] [dna]"
	_, spans := ParseAllWithSpans(title)
	if len(spans) != 2 {
		t.Fatalf("got %d spans", len(spans))
	}
	s, e := spans[0].ValueBounds(title)
	if title[s:e] != "B6" {
		t.Errorf("value bounds = %q, want B6", title[s:e])
	}
	s, e = spans[1].ValueBounds(title)
	if s != e || title[s] != ']' {
		t.Errorf("flag bounds = %d,%d", s, e)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		kind   Kind
		wantOK bool
	}{
		{"organism", "organism", Organism, true},
		{"ORG", "organism", Organism, true},
		{"Mol-Type", "moltype", MoleculeType, true},
		{"comment", NameSubSourceNote, SourceQualifier, true},
		{"note", NameSubSourceNote, SourceQualifier, true},
		{"geo_loc_name", "country", SourceQualifier, true},
		{"genetic code", NameGeneticCode, GeneticCode, true},
		{"mgcode", NameMitoCode, MitochondrialGeneticCode, true},
		{"ec", "EC_number", Protein, true},
		{"frobnicate", "", SourceQualifier, false},
	}
	for _, tt := range tests {
		def, ok := Lookup(tt.raw)
		if ok != tt.wantOK {
			t.Errorf("Lookup(%q) ok = %v", tt.raw, ok)
			continue
		}
		if ok && (def.Name != tt.want || def.Kind != tt.kind) {
			t.Errorf("Lookup(%q) = %s/%v, want %s/%v", tt.raw, def.Name, def.Kind, tt.want, tt.kind)
		}
	}
}

func TestSubtypesAreUniqueAndStable(t *testing.T) {
	seen := make(map[Subtype]string)
	for i, def := range Definitions() {
		if def.Subtype != Subtype(i+1) {
			t.Errorf("%s has subtype %d at position %d", def.Name, def.Subtype, i)
		}
		if prev, dup := seen[def.Subtype]; dup {
			t.Errorf("%s and %s share subtype %d", prev, def.Name, def.Subtype)
		}
		seen[def.Subtype] = def.Name
	}
}

func TestAliasesResolve(t *testing.T) {
	for alias, target := range aliases {
		if _, ok := byName[normalize(target)]; !ok {
			t.Errorf("alias %q points at unknown name %q", alias, target)
		}
	}
}

func TestSameName(t *testing.T) {
	if !SameName("mol_type", "MolType") {
		t.Error("mol_type and MolType should match")
	}
	if !SameName("colour", "COLOUR") {
		t.Error("unrecognized names compare case-insensitively")
	}
	if SameName("strain", "isolate") {
		t.Error("strain and isolate are different modifiers")
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		kind   Kind
		value  string
		want   string
		wantOK bool
	}{
		{Topology, "Circular", "circular", true},
		{Topology, "ring", "", false},
		{Location, "MITOCHONDRION", "mitochondrion", true},
		{MoleculeType, "genomic_DNA", "genomic DNA", true},
		{MoleculeType, "mrna", "mRNA", true},
		{MoleculeType, "protein", "", false},
		{Molecule, "RNA", "rna", true},
		{Origin, "synthetic", "synthetic", true},
		{Technique, "WGS", "wgs", true},
		{GeneticCode, "11", "11", true},
		{GeneticCode, "Vertebrate Mitochondrial", "2", true},
		{MitochondrialGeneticCode, "7", "", false},
		{NuclearGeneticCode, "0", "", false},
		{Organism, "Homo sapiens", "Homo sapiens", true},
		{CommonName, "  ", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeValue(tt.kind, tt.value)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeValue(%v, %q) = %q, %v; want %q, %v", tt.kind, tt.value, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestGeneticCodeID(t *testing.T) {
	for _, id := range []int{1, 2, 3, 4, 5, 6, 9, 10, 11, 12, 13, 14, 15, 16, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 33} {
		name, ok := GeneticCodeName(id)
		if !ok {
			t.Errorf("code %d missing", id)
			continue
		}
		if got, ok := GeneticCodeID(name); !ok || got != id {
			t.Errorf("GeneticCodeID(%q) = %d, %v", name, got, ok)
		}
	}
	for _, bad := range []string{"", "7", "32", "-1", "Martian"} {
		if _, ok := GeneticCodeID(bad); ok {
			t.Errorf("GeneticCodeID(%q) accepted", bad)
		}
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"", "true", "YES", " t "} {
		if b, ok := ParseBool(v); !ok || !b {
			t.Errorf("ParseBool(%q) = %v, %v", v, b, ok)
		}
	}
	for _, v := range []string{"false", "No"} {
		if b, ok := ParseBool(v); !ok || b {
			t.Errorf("ParseBool(%q) = %v, %v", v, b, ok)
		}
	}
	if _, ok := ParseBool("maybe"); ok {
		t.Error("ParseBool(maybe) accepted")
	}
}

func TestCheckReportsEveryProblem(t *testing.T) {
	title := "[colour=blue] [topology=ring] [transgenic=perhaps] [strain=] [location=plastid] [germline] [dna] [orf]"
	// [germline] is not a flag word, so parsing stops before it.
	mods := ParseAll(title)
	if len(mods) != 5 {
		t.Fatalf("parsed %d modifiers, want 5", len(mods))
	}

	want := []Problem{
		{Kind: UnrecognizedName, Name: "colour", Value: "blue"},
		{Kind: IllegalValue, Name: "topology", Value: "ring"},
		{Kind: NonBooleanValue, Name: "transgenic", Value: "perhaps"},
		{Kind: MissingValue, Name: "strain"},
	}
	if diff := cmp.Diff(want, Check(mods)); diff != "" {
		t.Errorf("Check mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckAcceptsFlagsAndBooleans(t *testing.T) {
	mods := ParseAll("[dna] [orf] [transgenic=yes] [environmental_sample=] [gcode=11] [moltype=genomic DNA]")
	if problems := Check(mods); len(problems) != 0 {
		t.Errorf("unexpected problems: %v", problems)
	}
}

func TestProblemString(t *testing.T) {
	p := Problem{Kind: IllegalValue, Name: "topology", Value: "ring"}
	if got := p.String(); got != `illegal value: topology="ring"` {
		t.Errorf("String() = %q", got)
	}
	p = Problem{Kind: MissingValue, Name: "strain"}
	if got := p.String(); got != "missing value: strain" {
		t.Errorf("String() = %q", got)
	}
}
