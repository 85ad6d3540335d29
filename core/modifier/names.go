package modifier

import "strings"

// Kind is the semantic class of a modifier. Every canonical name resolves
// to exactly one Kind.
type Kind int

// Kind values.
const (
	SourceQualifier Kind = iota
	Organism
	Location
	Lineage
	GeneticCode
	NuclearGeneticCode
	MitochondrialGeneticCode
	GeneticCodeComment
	MoleculeType
	Molecule
	Origin
	Topology
	CommonName
	Technique
	Protein
)

var kindNames = map[Kind]string{
	SourceQualifier:          "source qualifier",
	Organism:                 "organism",
	Location:                 "location",
	Lineage:                  "lineage",
	GeneticCode:              "genetic code",
	NuclearGeneticCode:       "nuclear genetic code",
	MitochondrialGeneticCode: "mitochondrial genetic code",
	GeneticCodeComment:       "genetic code comment",
	MoleculeType:             "molecule type",
	Molecule:                 "molecule",
	Origin:                   "origin",
	Topology:                 "topology",
	CommonName:               "common name",
	Technique:                "technique",
	Protein:                  "protein",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown kind"
}

// IsGeneticCode reports whether k is one of the three genetic code kinds.
func (k Kind) IsGeneticCode() bool {
	return k == GeneticCode || k == NuclearGeneticCode || k == MitochondrialGeneticCode
}

// Subtype numbers a canonical name. Numbers are stable positions in the
// canonical table, starting at 1.
type Subtype int

// SubtypeUnrecognized marks a modifier whose name matched nothing.
const SubtypeUnrecognized Subtype = -1

// Definition describes one canonical modifier name.
type Definition struct {
	Name    string  // canonical spelling
	Kind    Kind    // semantic class
	Subtype Subtype // position in the canonical table
	NonText bool    // presence alone carries the meaning
	Flag    string  // value implied by a valueless flag pair, e.g. [dna]
}

// Canonical names referenced outside the table.
const (
	NameOrganism           = "organism"
	NameLocation           = "location"
	NameLineage            = "lineage"
	NameGeneticCode        = "genetic_code"
	NameNuclearCode        = "gcode"
	NameMitoCode           = "mgcode"
	NameGeneticCodeComment = "genetic_code_comment"
	NameMolType            = "moltype"
	NameMolecule           = "molecule"
	NameOrigin             = "origin"
	NameTopology           = "topology"
	NameCommonName         = "common_name"
	NameTechnique          = "tech"
	NameSubSourceNote      = "Note-SubSrc"
	NameOrgModNote         = "Note-OrgMod"
)

// canonical lists every recognized modifier. Source qualifiers follow the
// INSDC /source qualifier vocabulary.
var canonical = []Definition{
	{Name: NameOrganism, Kind: Organism},
	{Name: NameLocation, Kind: Location},
	{Name: NameLineage, Kind: Lineage},
	{Name: NameGeneticCode, Kind: GeneticCode},
	{Name: NameNuclearCode, Kind: NuclearGeneticCode},
	{Name: NameMitoCode, Kind: MitochondrialGeneticCode},
	{Name: NameGeneticCodeComment, Kind: GeneticCodeComment},
	{Name: NameMolType, Kind: MoleculeType},
	{Name: NameMolecule, Kind: Molecule},
	{Name: "dna", Kind: Molecule, NonText: true, Flag: "dna"},
	{Name: "rna", Kind: Molecule, NonText: true, Flag: "rna"},
	{Name: NameOrigin, Kind: Origin},
	{Name: NameTopology, Kind: Topology},
	{Name: NameCommonName, Kind: CommonName},
	{Name: NameTechnique, Kind: Technique},

	{Name: "protein", Kind: Protein},
	{Name: "prot_desc", Kind: Protein},
	{Name: "gene", Kind: Protein},
	{Name: "gene_syn", Kind: Protein},
	{Name: "function", Kind: Protein},
	{Name: "EC_number", Kind: Protein},
	{Name: "orf", Kind: Protein, NonText: true, Flag: "orf"},

	// organism modifiers
	{Name: "strain", Kind: SourceQualifier},
	{Name: "sub_strain", Kind: SourceQualifier},
	{Name: "type", Kind: SourceQualifier},
	{Name: "subtype", Kind: SourceQualifier},
	{Name: "variety", Kind: SourceQualifier},
	{Name: "serotype", Kind: SourceQualifier},
	{Name: "serogroup", Kind: SourceQualifier},
	{Name: "serovar", Kind: SourceQualifier},
	{Name: "cultivar", Kind: SourceQualifier},
	{Name: "pathovar", Kind: SourceQualifier},
	{Name: "chemovar", Kind: SourceQualifier},
	{Name: "biovar", Kind: SourceQualifier},
	{Name: "biotype", Kind: SourceQualifier},
	{Name: "group", Kind: SourceQualifier},
	{Name: "subgroup", Kind: SourceQualifier},
	{Name: "isolate", Kind: SourceQualifier},
	{Name: "acronym", Kind: SourceQualifier},
	{Name: "dosage", Kind: SourceQualifier},
	{Name: "host", Kind: SourceQualifier},
	{Name: "sub_species", Kind: SourceQualifier},
	{Name: "specimen_voucher", Kind: SourceQualifier},
	{Name: "authority", Kind: SourceQualifier},
	{Name: "forma", Kind: SourceQualifier},
	{Name: "forma_specialis", Kind: SourceQualifier},
	{Name: "ecotype", Kind: SourceQualifier},
	{Name: "synonym", Kind: SourceQualifier},
	{Name: "anamorph", Kind: SourceQualifier},
	{Name: "teleomorph", Kind: SourceQualifier},
	{Name: "breed", Kind: SourceQualifier},
	{Name: "culture_collection", Kind: SourceQualifier},
	{Name: "bio_material", Kind: SourceQualifier},
	{Name: "metagenome_source", Kind: SourceQualifier},
	{Name: "type_material", Kind: SourceQualifier},
	{Name: NameOrgModNote, Kind: SourceQualifier},

	// subsource modifiers
	{Name: "chromosome", Kind: SourceQualifier},
	{Name: "map", Kind: SourceQualifier},
	{Name: "clone", Kind: SourceQualifier},
	{Name: "sub_clone", Kind: SourceQualifier},
	{Name: "haplotype", Kind: SourceQualifier},
	{Name: "haplogroup", Kind: SourceQualifier},
	{Name: "genotype", Kind: SourceQualifier},
	{Name: "sex", Kind: SourceQualifier},
	{Name: "mating_type", Kind: SourceQualifier},
	{Name: "cell_line", Kind: SourceQualifier},
	{Name: "cell_type", Kind: SourceQualifier},
	{Name: "tissue_type", Kind: SourceQualifier},
	{Name: "clone_lib", Kind: SourceQualifier},
	{Name: "dev_stage", Kind: SourceQualifier},
	{Name: "frequency", Kind: SourceQualifier},
	{Name: "lab_host", Kind: SourceQualifier},
	{Name: "pop_variant", Kind: SourceQualifier},
	{Name: "tissue_lib", Kind: SourceQualifier},
	{Name: "plasmid_name", Kind: SourceQualifier},
	{Name: "transposon_name", Kind: SourceQualifier},
	{Name: "insertion_seq_name", Kind: SourceQualifier},
	{Name: "plastid_name", Kind: SourceQualifier},
	{Name: "endogenous_virus_name", Kind: SourceQualifier},
	{Name: "country", Kind: SourceQualifier},
	{Name: "segment", Kind: SourceQualifier},
	{Name: "isolation_source", Kind: SourceQualifier},
	{Name: "lat_lon", Kind: SourceQualifier},
	{Name: "altitude", Kind: SourceQualifier},
	{Name: "collection_date", Kind: SourceQualifier},
	{Name: "collected_by", Kind: SourceQualifier},
	{Name: "identified_by", Kind: SourceQualifier},
	{Name: "fwd_primer_seq", Kind: SourceQualifier},
	{Name: "rev_primer_seq", Kind: SourceQualifier},
	{Name: "fwd_primer_name", Kind: SourceQualifier},
	{Name: "rev_primer_name", Kind: SourceQualifier},
	{Name: "linkage_group", Kind: SourceQualifier},
	{Name: "phenotype", Kind: SourceQualifier},
	{Name: "transgenic", Kind: SourceQualifier, NonText: true},
	{Name: "environmental_sample", Kind: SourceQualifier, NonText: true},
	{Name: "germline", Kind: SourceQualifier, NonText: true},
	{Name: "rearranged", Kind: SourceQualifier, NonText: true},
	{Name: "metagenomic", Kind: SourceQualifier, NonText: true},
	{Name: NameSubSourceNote, Kind: SourceQualifier},
}

// aliases maps alternative spellings (normalized) to canonical names.
var aliases = map[string]string{
	"org":                "organism",
	"mol_type":           NameMolType,
	"mol":                NameMolecule,
	"note":               NameSubSourceNote,
	"comment":            NameSubSourceNote,
	"subsource_note":     NameSubSourceNote,
	"subsrc_note":        NameSubSourceNote,
	"orgmod_note":        NameOrgModNote,
	"technique":          NameTechnique,
	"genetic_code_id":    NameGeneticCode,
	"nuclear_code":       NameNuclearCode,
	"mito_code":          NameMitoCode,
	"mitochondrial_code": NameMitoCode,
	"gc_comment":         NameGeneticCodeComment,
	"common":             NameCommonName,
	"nat_host":           "host",
	"specific_host":      "host",
	"substrain":          "sub_strain",
	"subspecies":         "sub_species",
	"subclone":           "sub_clone",
	"geo_loc_name":       "country",
	"plasmid":            "plasmid_name",
	"transposon":         "transposon_name",
	"insertion_seq":      "insertion_seq_name",
	"plastid":            "plastid_name",
	"endogenous_virus":   "endogenous_virus_name",
	"gene_synonym":       "gene_syn",
	"protein_desc":       "prot_desc",
	"ec":                 "EC_number",
}

var byName = buildIndex()

func buildIndex() map[string]Definition {
	idx := make(map[string]Definition, len(canonical))
	for i := range canonical {
		canonical[i].Subtype = Subtype(i + 1)
		idx[normalize(canonical[i].Name)] = canonical[i]
	}
	return idx
}

// normalize folds case and treats '-' and ' ' like '_' so that
// "Isolation Source", "isolation-source" and "isolation_source" match.
func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '\t' {
			return '_'
		}
		return r
	}, name)
}

// Canonicalize resolves a raw modifier name through the alias table. The
// result is the canonical spelling when the name is recognized and the
// trimmed raw name otherwise.
func Canonicalize(raw string) string {
	if def, ok := Lookup(raw); ok {
		return def.Name
	}
	return strings.TrimSpace(raw)
}

// Lookup resolves raw (case-insensitive, aliases honored) to its definition.
func Lookup(raw string) (Definition, bool) {
	n := normalize(raw)
	if target, ok := aliases[n]; ok {
		n = normalize(target)
	}
	def, ok := byName[n]
	return def, ok
}

// SameName reports whether two raw names resolve to the same modifier.
func SameName(a, b string) bool {
	return strings.EqualFold(Canonicalize(a), Canonicalize(b))
}

// Definitions returns a copy of the canonical table in subtype order.
func Definitions() []Definition {
	out := make([]Definition, len(canonical))
	copy(out, canonical)
	return out
}
