package modifier

import (
	"slices"
	"strconv"
	"strings"
)

// Legal values for the enumerated modifiers. Matching is
// case-insensitive; molecule types also treat '_' as a space.
var (
	Locations = []string{
		"genomic", "chloroplast", "chromoplast", "kinetoplast", "mitochondrion",
		"plastid", "macronuclear", "extrachrom", "plasmid", "transposon",
		"insertion_seq", "cyanelle", "proviral", "virion", "nucleomorph",
		"apicoplast", "leucoplast", "proplastid", "endogenous_virus",
		"hydrogenosome", "chromosome", "chromatophore",
	}

	Origins = []string{
		"natural", "natmut", "mut", "artificial", "synthetic", "other",
	}

	Topologies = []string{
		"linear", "circular", "tandem", "other",
	}

	Molecules = []string{
		"dna", "rna",
	}

	MoleculeTypes = []string{
		"genomic DNA", "genomic RNA", "mRNA", "tRNA", "rRNA", "other RNA",
		"other DNA", "transcribed RNA", "viral cRNA", "unassigned DNA",
		"unassigned RNA", "cRNA", "ncRNA", "snRNA", "snoRNA", "scRNA",
		"tmRNA", "precursor RNA",
	}

	Techniques = []string{
		"standard", "est", "sts", "survey", "genemap", "physmap", "derived",
		"concept-trans", "seq-pept", "both", "seq-pept-overlap",
		"seq-pept-homol", "concept-trans-a", "htgs-1", "htgs-2", "htgs-3",
		"fli-cdna", "htgs-0", "htc", "wgs", "barcode", "composite-wgs-htgs",
		"tsa", "targeted",
	}
)

// geneticCodes maps NCBI translation table ids to their names.
var geneticCodes = map[int]string{
	1:  "Standard",
	2:  "Vertebrate Mitochondrial",
	3:  "Yeast Mitochondrial",
	4:  "Mold Mitochondrial",
	5:  "Invertebrate Mitochondrial",
	6:  "Ciliate Nuclear",
	9:  "Echinoderm Mitochondrial",
	10: "Euplotid Nuclear",
	11: "Bacterial, Archaeal and Plant Plastid",
	12: "Alternative Yeast Nuclear",
	13: "Ascidian Mitochondrial",
	14: "Alternative Flatworm Mitochondrial",
	15: "Blepharisma Macronuclear",
	16: "Chlorophycean Mitochondrial",
	21: "Trematode Mitochondrial",
	22: "Scenedesmus obliquus Mitochondrial",
	23: "Thraustochytrium Mitochondrial",
	24: "Rhabdopleuridae Mitochondrial",
	25: "Candidate Division SR1 and Gracilibacteria",
	26: "Pachysolen tannophilus Nuclear",
	27: "Karyorelict Nuclear",
	28: "Condylostoma Nuclear",
	29: "Mesodinium Nuclear",
	30: "Peritrich Nuclear",
	31: "Blastocrithidia Nuclear",
	33: "Cephalodiscidae Mitochondrial",
}

// GeneticCodeID resolves a genetic code written as a table id ("11") or a
// table name ("Standard").
func GeneticCodeID(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if id, err := strconv.Atoi(v); err == nil {
		_, ok := geneticCodes[id]
		return id, ok
	}
	for id, name := range geneticCodes {
		if strings.EqualFold(name, v) {
			return id, true
		}
	}
	return 0, false
}

// GeneticCodeName returns the table name for a genetic code id.
func GeneticCodeName(id int) (string, bool) {
	name, ok := geneticCodes[id]
	return name, ok
}

// Legal returns the canonical spelling of value among legal, matched
// case-insensitively.
func Legal(legal []string, value string) (string, bool) {
	value = strings.TrimSpace(value)
	i := slices.IndexFunc(legal, func(s string) bool { return strings.EqualFold(s, value) })
	if i < 0 {
		return "", false
	}
	return legal[i], true
}

// ParseBool interprets the value of a non-text modifier. An empty value
// means the modifier is simply present.
func ParseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "true", "yes", "t", "y", "1":
		return true, true
	case "false", "no", "f", "n", "0":
		return false, true
	default:
		return false, false
	}
}

// NormalizeValue returns the canonical spelling of value for a modifier of
// kind k, and whether the value is legal for that kind. Free-text kinds
// accept any non-empty value unchanged.
func NormalizeValue(k Kind, value string) (string, bool) {
	value = strings.TrimSpace(value)
	switch k {
	case Location:
		return Legal(Locations, value)
	case Origin:
		return Legal(Origins, value)
	case Topology:
		return Legal(Topologies, value)
	case Molecule:
		return Legal(Molecules, value)
	case MoleculeType:
		return Legal(MoleculeTypes, strings.ReplaceAll(value, "_", " "))
	case Technique:
		return Legal(Techniques, value)
	case GeneticCode, NuclearGeneticCode, MitochondrialGeneticCode:
		id, ok := GeneticCodeID(value)
		if !ok {
			return "", false
		}
		return strconv.Itoa(id), true
	default:
		return value, value != ""
	}
}
