package orgtable

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/seqmod/core/cas"
	"github.com/FocuswithJustin/seqmod/core/errors"
	"github.com/FocuswithJustin/seqmod/internal/logging"
	"github.com/FocuswithJustin/seqmod/internal/validation"
)

// Injectable functions for testing.
var (
	osOpen      = os.Open
	xzNewReader = func(r io.Reader) (io.Reader, error) { return xz.NewReader(r) }
)

const (
	formatTable   = "organism table"
	formatLineage = "lineage table"
)

// Column order of the organism table.
const (
	colName = iota
	colCommonName
	colNuclearCode
	colMitoCode
	colDivision
	colTaxID
	numColumns
)

// Load reads a tab-delimited organism table and, when lineage is not nil,
// a tax-id keyed lineage table. The first line of the organism table is a
// header. The fingerprint covers both streams.
func Load(orgs, lineage io.Reader) (*Table, error) {
	return load(orgs, lineage, "", "")
}

func load(orgs, lineage io.Reader, orgPath, lineagePath string) (*Table, error) {
	fp := cas.NewFingerprinter()

	entries, err := readOrganisms(io.TeeReader(orgs, fp), orgPath)
	if err != nil {
		return nil, err
	}
	if lineage != nil {
		if err := readLineage(io.TeeReader(lineage, fp), lineagePath, entries); err != nil {
			return nil, err
		}
	}
	return NewTable(entries, fp.Sum()), nil
}

func newTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

func readOrganisms(r io.Reader, path string) ([]Entry, error) {
	cr := newTSVReader(r)
	var entries []Entry
	header := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &errors.ParseError{Format: formatTable, Path: path, Line: csvLine(err), Message: "malformed row", Err: err}
		}
		line, _ := cr.FieldPos(0)
		if header {
			header = false
			continue
		}
		if len(rec) < numColumns {
			return nil, errors.NewParse(formatTable, path, line,
				"expected "+strconv.Itoa(numColumns)+" columns, got "+strconv.Itoa(len(rec)))
		}

		e := Entry{
			Name:       strings.TrimSpace(rec[colName]),
			CommonName: strings.TrimSpace(rec[colCommonName]),
			Division:   strings.TrimSpace(rec[colDivision]),
		}
		if e.Name == "" {
			return nil, errors.NewParse(formatTable, path, line, "empty taxonomic name")
		}
		ints := []struct {
			col  int
			name string
			dst  *int
		}{
			{colNuclearCode, "nuclear genetic code", &e.NuclearCode},
			{colMitoCode, "mitochondrial genetic code", &e.MitoCode},
			{colTaxID, "taxonomy id", &e.TaxID},
		}
		for _, f := range ints {
			v, err := parseInt(rec[f.col])
			if err != nil {
				return nil, errors.NewParse(formatTable, path, line, f.name+" is not an integer: "+strconv.Quote(rec[f.col]))
			}
			*f.dst = v
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// readLineage fills Entry.Lineage from "taxid<TAB>lineage" rows. A first
// row whose tax id is not a number is taken as a header.
func readLineage(r io.Reader, path string, entries []Entry) error {
	byTaxID := make(map[int][]int)
	for i, e := range entries {
		if e.TaxID > 0 {
			byTaxID[e.TaxID] = append(byTaxID[e.TaxID], i)
		}
	}

	cr := newTSVReader(r)
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &errors.ParseError{Format: formatLineage, Path: path, Line: csvLine(err), Message: "malformed row", Err: err}
		}
		line, _ := cr.FieldPos(0)
		id, idErr := parseInt(rec[0])
		if first {
			first = false
			if idErr != nil {
				continue
			}
		}
		if idErr != nil {
			return errors.NewParse(formatLineage, path, line, "taxonomy id is not an integer: "+strconv.Quote(rec[0]))
		}
		if len(rec) < 2 {
			return errors.NewParse(formatLineage, path, line, "missing lineage column")
		}
		for _, i := range byTaxID[id] {
			entries[i].Lineage = strings.TrimSpace(rec[1])
		}
	}
}

func csvLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return 0
}

// parseInt accepts an empty field as 0.
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// Open loads an organism table from disk. The format is detected from the
// file content: tab-delimited text (optionally xz-compressed), NCBI
// taxonomy XML, or a SQLite database written by SaveSQLite. lineagePath is
// optional and only applies to tab-delimited tables.
func Open(ctx context.Context, orgPath, lineagePath string) (*Table, error) {
	if err := validation.ValidatePath(orgPath); err != nil {
		return nil, errors.NewValidation("organism_table", err.Error())
	}

	orgs, kind, closeOrgs, err := openInput(orgPath)
	if err != nil {
		return nil, err
	}
	defer closeOrgs()

	var t *Table
	switch kind {
	case validation.FileTypeSQLite:
		t, err = LoadSQLite(ctx, orgPath)
	case validation.FileTypeXML:
		t, err = LoadTaxonomyXML(orgs)
	default:
		var lineage io.Reader
		if lineagePath != "" {
			var closeLineage func()
			lineage, _, closeLineage, err = openInput(lineagePath)
			if err != nil {
				return nil, err
			}
			defer closeLineage()
		}
		t, err = load(orgs, lineage, orgPath, lineagePath)
	}
	if err != nil {
		return nil, err
	}
	if lineagePath != "" && (kind == validation.FileTypeSQLite || kind == validation.FileTypeXML) {
		logging.Warn("lineage table ignored", "source", orgPath, "format", string(kind))
	}

	logging.TableLoaded(orgPath, t.Len(), t.Fingerprint(), "format", string(kind))
	return t, nil
}

// openInput opens path, sniffs its type and unwraps xz compression. The
// returned kind describes the decompressed content.
func openInput(path string) (io.Reader, validation.FileType, func(), error) {
	f, err := osOpen(path)
	if err != nil {
		return nil, "", nil, errors.NewIO("open", path, err)
	}
	closeFn := func() { f.Close() }

	kind, r, err := validation.SniffFileType(f)
	if err != nil {
		closeFn()
		return nil, "", nil, errors.NewIO("read", path, err)
	}

	switch kind {
	case validation.FileTypeXZ:
		zr, err := xzNewReader(r)
		if err != nil {
			closeFn()
			return nil, "", nil, errors.NewIO("decompress", path, err)
		}
		kind, r, err = validation.SniffFileType(zr)
		if err != nil {
			closeFn()
			return nil, "", nil, errors.NewIO("decompress", path, err)
		}
		if kind == validation.FileTypeSQLite {
			closeFn()
			return nil, "", nil, errors.NewUnsupported("compressed SQLite table", "decompress "+path+" first")
		}
	case validation.FileTypeGzip:
		closeFn()
		return nil, "", nil, errors.NewUnsupported("gzip organism table", "use xz or plain text")
	}
	return r, kind, closeFn, nil
}
