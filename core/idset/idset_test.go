package idset

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/FocuswithJustin/seqmod/core/bracket"
	"github.com/FocuswithJustin/seqmod/core/errors"
	"github.com/FocuswithJustin/seqmod/core/modifier"
	"github.com/FocuswithJustin/seqmod/core/orgtable"
	"github.com/FocuswithJustin/seqmod/core/seqtree"
)

func titles(s *Set) []string {
	out := make([]string, s.Len())
	for i := range out {
		out[i] = s.Title(i)
	}
	return out
}

func setOf(titleByID ...string) *Set {
	var labels []seqtree.Label
	for i := 0; i+1 < len(titleByID); i += 2 {
		labels = append(labels, seqtree.Label{ID: titleByID[i], Title: titleByID[i+1]})
	}
	return FromLabels(labels)
}

func segmentedTree() *seqtree.Tree {
	return seqtree.NewTree(
		seqtree.NewSegmentedSet("flu", "[organism=Influenza A virus]",
			seqtree.NewRecord("seg1", "[segment=1]", "ACGT"),
			seqtree.NewRecord("seg2", "[segment=2]", "ACGT"),
			seqtree.NewRecord("seg3", "[segment=3]", "ACGT"),
		),
	)
}

func TestSegmentedSetCounts(t *testing.T) {
	s := FromTree(segmentedTree())

	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
	if s.ActiveLen() != 1 {
		t.Errorf("ActiveLen() = %d, want 1", s.ActiveLen())
	}

	n, err := s.ApplyDefaultTopology(context.Background(), "linear")
	if err != nil {
		t.Fatalf("ApplyDefaultTopology: %v", err)
	}
	if n != 1 {
		t.Errorf("changed = %d, want 1", n)
	}
	want := []string{
		"[organism=Influenza A virus] [topology=linear]",
		"[segment=1]",
		"[segment=2]",
		"[segment=3]",
	}
	if diff := cmp.Diff(want, titles(s)); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicateSegmentIDsAreChecked(t *testing.T) {
	tree := seqtree.NewTree(
		seqtree.NewSegmentedSet("set", "",
			seqtree.NewRecord("SEG", "", "A"),
			seqtree.NewRecord("seg", "", "A"),
		),
	)
	defects := FromTree(tree).Check()
	if len(defects) != 1 || defects[0].Kind != DuplicateID || defects[0].Index != 2 || defects[0].First != 1 {
		t.Errorf("Check() = %v, want one duplicate at 2", defects)
	}
}

func TestCheck(t *testing.T) {
	s := setOf(
		"seq1", "",
		"SEQ1", "",
		"", "",
		"a[b", "",
		"a[b", "",
		"has space", "",
		"ok", "",
	)
	got := s.Check()
	want := []StructuralDefect{
		{Kind: DuplicateID, Index: 1, ID: "SEQ1", First: 0},
		{Kind: MissingID, Index: 2},
		{Kind: ReservedCharacter, Index: 3, ID: "a[b"},
		{Kind: ReservedCharacter, Index: 4, ID: "a[b"},
		{Kind: DuplicateID, Index: 4, ID: "a[b", First: 3},
		{Kind: InvalidID, Index: 5, ID: "has space"},
	}
	ignoreDetail := cmp.Transformer("noDetail", func(d StructuralDefect) StructuralDefect {
		d.Detail = ""
		return d
	})
	if diff := cmp.Diff(want, got, ignoreDetail); diff != "" {
		t.Errorf("Check() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultTopologyPerOrganism(t *testing.T) {
	s := setOf("seq1", "[organism=A] [topology=circular] [organism=B]")

	if _, err := s.ApplyDefaultTopology(context.Background(), "Linear"); err != nil {
		t.Fatalf("ApplyDefaultTopology: %v", err)
	}
	want := "[organism=A] [topology=circular] [organism=B] [topology=linear]"
	if got := s.Title(0); got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
}

func TestDefaultsFillGapsOnly(t *testing.T) {
	s := setOf(
		"a", "[moltype=mRNA]",
		"b", "[moltype=unknown] desc",
		"c", "plain text",
		"d", "[organism=Mus musculus] [moltype=not-set] [organism=Rattus rattus]",
	)
	n, err := s.ApplyDefaultMolType(context.Background(), "genomic_DNA")
	if err != nil {
		t.Fatalf("ApplyDefaultMolType: %v", err)
	}
	if n != 3 {
		t.Errorf("changed = %d, want 3", n)
	}
	want := []string{
		"[moltype=mRNA]",
		"[moltype=genomic DNA] desc",
		"plain text [moltype=genomic DNA]",
		"[organism=Mus musculus] [moltype=genomic DNA] [organism=Rattus rattus] [moltype=genomic DNA]",
	}
	if diff := cmp.Diff(want, titles(s)); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsRejectIllegalValue(t *testing.T) {
	s := setOf("a", "")
	_, err := s.ApplyDefaultLocation(context.Background(), "moon")
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("err = %v, want invalid input", err)
	}
	if s.Title(0) != "" {
		t.Errorf("title changed to %q", s.Title(0))
	}
}

func TestDefaultsRefuseOnStructuralDefects(t *testing.T) {
	s := setOf("a", "x", "A", "y")
	n, err := s.ApplyDefaultTopology(context.Background(), "linear")
	if !errors.Is(err, errors.ErrStructural) {
		t.Fatalf("err = %v, want structural", err)
	}
	var se *errors.StructuralError
	if !errors.As(err, &se) || len(se.Defects) != 1 {
		t.Errorf("err = %#v, want one defect", err)
	}
	if n != 0 || s.Title(0) != "x" || s.Title(1) != "y" {
		t.Errorf("titles changed: %q", titles(s))
	}
}

func TestApplyDefaultGeneticCode(t *testing.T) {
	table := orgtable.NewTable([]orgtable.Entry{
		{Name: "Homo sapiens", NuclearCode: 1, MitoCode: 2},
		{Name: "Unset", NuclearCode: 0, MitoCode: 0},
	}, "")

	s := setOf(
		"a", "[organism=Homo sapiens]",
		"b", "[organism=homo sapiens] [location=mitochondrion]",
		"c", "[location=chloroplast]",
		"d", "[organism=Nobody]",
		"e", "[organism=Homo sapiens] [genetic_code=5]",
		"f", "[organism=Unset]",
		"g", "[organism=Homo sapiens] [organism=Nobody] [location=plastid]",
	)
	n, err := s.ApplyDefaultGeneticCode(context.Background(), table)
	if err != nil {
		t.Fatalf("ApplyDefaultGeneticCode: %v", err)
	}
	if n != 4 {
		t.Errorf("changed = %d, want 4", n)
	}
	want := []string{
		"[organism=Homo sapiens] [genetic_code=1]",
		"[organism=homo sapiens] [location=mitochondrion] [genetic_code=2]",
		"[location=chloroplast] [genetic_code=11]",
		"[organism=Nobody]",
		"[organism=Homo sapiens] [genetic_code=5]",
		"[organism=Unset]",
		"[organism=Homo sapiens] [genetic_code=1] [organism=Nobody] [location=plastid] [genetic_code=11]",
	}
	if diff := cmp.Diff(want, titles(s)); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyTo(t *testing.T) {
	tree := segmentedTree()
	s := FromTree(tree)
	s.SetTitle(0, "[organism=Influenza B virus]")
	s.SetID(1, "segA")

	if err := s.ApplyTo(tree); err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	labels := tree.Labels()
	if labels[0].Title != "[organism=Influenza B virus]" || labels[1].ID != "segA" {
		t.Errorf("labels not written: %+v", labels)
	}
}

func TestApplyToRefusesStructuralDefects(t *testing.T) {
	tree := segmentedTree()
	s := FromTree(tree)
	s.SetID(2, "SEGA")
	s.SetID(3, "sega")
	s.SetTitle(0, "changed")

	err := s.ApplyTo(tree)
	if !errors.Is(err, errors.ErrStructural) {
		t.Fatalf("err = %v, want structural", err)
	}
	if tree.Labels()[0].Title != "[organism=Influenza A virus]" {
		t.Error("tree was modified")
	}
}

func TestApplyToShapeMismatch(t *testing.T) {
	s := FromTree(segmentedTree())

	fewer := seqtree.NewTree(seqtree.NewRecord("flu", "", "A"))
	if err := s.ApplyTo(fewer); !errors.Is(err, errors.ErrInternal) {
		t.Errorf("count mismatch: err = %v, want internal", err)
	}

	flat := seqtree.NewTree(
		seqtree.NewRecord("flu", "", "A"),
		seqtree.NewRecord("seg1", "", "A"),
		seqtree.NewRecord("seg2", "", "A"),
		seqtree.NewRecord("seg3", "", "A"),
	)
	err := s.ApplyTo(flat)
	var pe *errors.PreconditionError
	if !errors.As(err, &pe) {
		t.Errorf("pattern mismatch: err = %v, want precondition", err)
	}
	if flat.Labels()[0].Title != "" {
		t.Error("tree was modified")
	}
}

func TestClone(t *testing.T) {
	s := setOf("a", "x")
	c := s.Clone()
	c.SetTitle(0, "y")
	if s.Title(0) != "x" {
		t.Error("Clone shares storage")
	}
	if s.Equal(c) {
		t.Error("Equal() = true after edit")
	}
	c.SetTitle(0, "x")
	if !s.Equal(c) {
		t.Error("Equal() = false for identical sets")
	}
}

func TestValidate(t *testing.T) {
	table := orgtable.NewTable([]orgtable.Entry{{Name: "Homo sapiens", NuclearCode: 1, MitoCode: 2}}, "")
	s := setOf(
		"a", "[organism=Homo sapiens] [topology=linear]",
		"b", "[organism=Nobody] [topology=square] [frobnicate=1] [transgenic=maybe]",
		"c", "[strain=B6",
		"A", "[moltype=]",
	)

	r := s.Validate(table)

	if len(r.Structural) != 1 || r.Structural[0].Kind != DuplicateID {
		t.Errorf("Structural = %v", r.Structural)
	}
	if len(r.Grammar) != 1 || r.Grammar[0].ID != "c" || r.Grammar[0].Defect.Err != bracket.MismatchedBrackets {
		t.Errorf("Grammar = %v", r.Grammar)
	}

	var got []modifier.ProblemKind
	for _, d := range r.Semantic {
		got = append(got, d.Problem.Kind)
	}
	want := []modifier.ProblemKind{
		modifier.IllegalValue,
		modifier.UnrecognizedName,
		modifier.NonBooleanValue,
		modifier.UnknownOrganism,
		modifier.MissingValue,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("semantic kinds mismatch (-want +got):\n%s", diff)
	}
	if r.Len() != 7 || r.Empty() {
		t.Errorf("Len() = %d, want 7", r.Len())
	}

	if clean := setOf("a", "[organism=Homo sapiens]").Validate(table); !clean.Empty() {
		t.Errorf("clean set reported %v", clean)
	}
	if noTable := setOf("b", "[organism=Nobody]").Validate(nil); !noTable.Empty() {
		t.Errorf("nil table reported %v", noTable)
	}
}
