package orgtable

import (
	"io"
	"strconv"

	"github.com/FocuswithJustin/seqmod/core/cas"
	"github.com/FocuswithJustin/seqmod/core/errors"
	"github.com/FocuswithJustin/seqmod/core/xml"
)

const formatTaxonomy = "taxonomy XML"

// taxonFields maps Entry fields to their location inside an NCBI
// <Taxon> element.
var taxonFields = struct {
	taxID, name, common, genbankCommon, division, gcode, mgcode, lineage string
}{
	taxID:         "TaxId",
	name:          "ScientificName",
	common:        "OtherNames/CommonName",
	genbankCommon: "OtherNames/GenbankCommonName",
	division:      "Division",
	gcode:         "GeneticCode/GCId",
	mgcode:        "MitoGeneticCode/MGCId",
	lineage:       "Lineage",
}

// LoadTaxonomyXML reads an NCBI taxonomy <TaxaSet> document. Only
// top-level taxa become entries; the nested taxa of <LineageEx> are
// ignored.
func LoadTaxonomyXML(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("read", "", err)
	}
	doc, err := xml.Load(data)
	if err != nil {
		pe := &errors.ParseError{Format: formatTaxonomy, Message: err.Error(), Err: errors.ErrInvalidInput}
		var se *xml.SyntaxError
		if errors.As(err, &se) {
			pe.Line, pe.Message = se.Line, se.Message
		}
		return nil, pe
	}

	taxa, err := doc.Select("/TaxaSet/Taxon")
	if err != nil {
		return nil, errors.Wrap(err, "select taxa")
	}

	entries := make([]Entry, 0, len(taxa))
	for i, taxon := range taxa {
		e, err := taxonEntry(taxon)
		if err != nil {
			return nil, errors.NewParse(formatTaxonomy, "", 0, "taxon "+strconv.Itoa(i+1)+": "+err.Error())
		}
		entries = append(entries, e)
	}
	return NewTable(entries, cas.Fingerprint(data)), nil
}

func taxonEntry(taxon *xml.Node) (Entry, error) {
	text := func(expr string) string {
		s, _ := taxon.Field(expr)
		return s
	}

	e := Entry{
		Name:       text(taxonFields.name),
		CommonName: text(taxonFields.genbankCommon),
		Division:   text(taxonFields.division),
		Lineage:    text(taxonFields.lineage),
	}
	if e.CommonName == "" {
		e.CommonName = text(taxonFields.common)
	}
	if e.Name == "" {
		return Entry{}, errors.NewValidation("ScientificName", "missing")
	}

	var err error
	if e.TaxID, err = parseInt(text(taxonFields.taxID)); err != nil {
		return Entry{}, errors.NewValidation("TaxId", err.Error())
	}
	if e.NuclearCode, err = parseInt(text(taxonFields.gcode)); err != nil {
		return Entry{}, errors.NewValidation("GCId", err.Error())
	}
	if e.MitoCode, err = parseInt(text(taxonFields.mgcode)); err != nil {
		return Entry{}, errors.NewValidation("MGCId", err.Error())
	}
	return e, nil
}
