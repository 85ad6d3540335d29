package orgtable

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/seqmod/core/errors"
)

const orgsTSV = "name\tcommon\tgcode\tmgcode\tdivision\ttaxid\n" +
	"Homo sapiens\thuman\t1\t2\tPRI\t9606\n" +
	"Saccharomyces cerevisiae\tbaker's yeast\t1\t3\tPLN\t4932\n" +
	"Escherichia coli\t\t11\t0\tBCT\t562\n"

const lineageTSV = "tax_id\tlineage\n" +
	"9606\tEukaryota; Metazoa; Chordata; Primates; Hominidae; Homo\n" +
	"562\tBacteria; Proteobacteria; Enterobacterales; Escherichia\n"

const taxaXML = `<?xml version="1.0"?>
<TaxaSet>
  <Taxon>
    <TaxId>9606</TaxId>
    <ScientificName>Homo sapiens</ScientificName>
    <OtherNames><GenbankCommonName>human</GenbankCommonName></OtherNames>
    <Division>PRI</Division>
    <GeneticCode><GCId>1</GCId></GeneticCode>
    <MitoGeneticCode><MGCId>2</MGCId></MitoGeneticCode>
    <Lineage>Eukaryota; Metazoa; Chordata; Primates; Hominidae; Homo</Lineage>
    <LineageEx><Taxon><TaxId>9605</TaxId><ScientificName>Homo</ScientificName></Taxon></LineageEx>
  </Taxon>
  <Taxon>
    <TaxId>4932</TaxId>
    <ScientificName>Saccharomyces cerevisiae</ScientificName>
    <OtherNames><CommonName>baker's yeast</CommonName></OtherNames>
    <Division>PLN</Division>
    <GeneticCode><GCId>1</GCId></GeneticCode>
    <MitoGeneticCode><MGCId>3</MGCId></MitoGeneticCode>
  </Taxon>
  <Taxon>
    <TaxId>562</TaxId>
    <ScientificName>Escherichia coli</ScientificName>
    <Division>BCT</Division>
    <GeneticCode><GCId>11</GCId></GeneticCode>
    <Lineage>Bacteria; Proteobacteria; Enterobacterales; Escherichia</Lineage>
  </Taxon>
</TaxaSet>`

func loadFixture(t *testing.T) *Table {
	t.Helper()
	table, err := Load(strings.NewReader(orgsTSV), strings.NewReader(lineageTSV))
	require.NoError(t, err)
	return table
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func xzBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	table := loadFixture(t)

	assert.Equal(t, 3, table.Len())
	assert.Len(t, table.Fingerprint(), 64)

	human, ok := table.Lookup("HOMO SAPIENS")
	require.True(t, ok)
	assert.Equal(t, Entry{
		Name:        "Homo sapiens",
		CommonName:  "human",
		NuclearCode: 1,
		MitoCode:    2,
		Division:    "PRI",
		TaxID:       9606,
		Lineage:     "Eukaryota; Metazoa; Chordata; Primates; Hominidae; Homo",
	}, human)

	yeast, ok := table.ByTaxID(4932)
	require.True(t, ok)
	assert.Equal(t, "Saccharomyces cerevisiae", yeast.Name)
	assert.Empty(t, yeast.Lineage)

	_, ok = table.Lookup("Homo")
	assert.False(t, ok, "lookup is exact, not prefix")
}

func TestLoadWithoutLineage(t *testing.T) {
	table, err := Load(strings.NewReader(orgsTSV), nil)
	require.NoError(t, err)
	e, ok := table.Lookup("Escherichia coli")
	require.True(t, ok)
	assert.Empty(t, e.Lineage)
	assert.NotEqual(t, loadFixture(t).Fingerprint(), table.Fingerprint())
}

func TestLoadLineageWithoutHeader(t *testing.T) {
	lineage := "9606\tHomo lineage\n"
	table, err := Load(strings.NewReader(orgsTSV), strings.NewReader(lineage))
	require.NoError(t, err)
	e, _ := table.ByTaxID(9606)
	assert.Equal(t, "Homo lineage", e.Lineage)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		orgs    string
		lineage string
		line    int
	}{
		{"short row", "h\n" + "Homo sapiens\thuman\t1\n", "", 2},
		{"bad code", "h\n" + "A\ta\t1\t1\tX\t1\n" + "B\tb\tone\t1\tX\t2\n", "", 3},
		{"empty name", "h\n" + "\ta\t1\t1\tX\t1\n", "", 2},
		{"bad lineage id", "h\n", "id\tlineage\n9606\tok\nabc\tbad\n", 3},
		{"missing lineage column", "h\n", "9606\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lineage *strings.Reader
			if tt.lineage != "" {
				lineage = strings.NewReader(tt.lineage)
			}
			var err error
			if lineage != nil {
				_, err = Load(strings.NewReader(tt.orgs), lineage)
			} else {
				_, err = Load(strings.NewReader(tt.orgs), nil)
			}
			require.Error(t, err)

			var pe *errors.ParseError
			require.True(t, errors.As(err, &pe), "got %T", err)
			assert.Equal(t, tt.line, pe.Line)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		})
	}
}

func TestGeneticCodeFor(t *testing.T) {
	table := loadFixture(t)
	tests := []struct {
		organism string
		location string
		want     int
	}{
		{"", "chloroplast", PlastidCode},
		{"", "", UnknownCode},
		{"Homo sapiens", "", 1},
		{"homo SAPIENS", "Mitochondrion", 2},
		{"Homo sapiens", "kinetoplast", 2},
		{"Homo sapiens", "Chloroplast", PlastidCode},
		{"Homo sapiens", "apicoplast", PlastidCode},
		{"Homo sapiens", "mitochondrial", 1},
		{"Homo sapiens", "genomic", 1},
		{"Saccharomyces cerevisiae", "hydrogenosome", 3},
		{"Escherichia coli", "mitochondrion", 0},
		{"Unknown organism", "", UnknownCode},
		{"Unknown organism", "plastid", PlastidCode},
	}
	for _, tt := range tests {
		got := table.GeneticCodeFor(tt.organism, tt.location)
		assert.Equal(t, tt.want, got, "GeneticCodeFor(%q, %q)", tt.organism, tt.location)
	}

	var empty *Table
	assert.Equal(t, UnknownCode, empty.GeneticCodeFor("Homo sapiens", ""))
	assert.Equal(t, PlastidCode, empty.GeneticCodeFor("", "cyanelle"))
}

func TestLocationBucket(t *testing.T) {
	assert.Equal(t, Nuclear, LocationBucket(""))
	assert.Equal(t, Nuclear, LocationBucket("nucleomorph"))
	assert.Equal(t, Mitochondrial, LocationBucket(" MITOCHONDRION "))
	assert.Equal(t, Plastid, LocationBucket("Leucoplast"))
	assert.Equal(t, Nuclear, LocationBucket("chloroplast stroma"))
	assert.Equal(t, "plastid", Plastid.String())
}

func TestOpenPlainAndXZAgree(t *testing.T) {
	dir := t.TempDir()
	plainOrgs := writeFile(t, dir, "orgs.tsv", []byte(orgsTSV))
	plainLineage := writeFile(t, dir, "lineage.tsv", []byte(lineageTSV))
	xzOrgs := writeFile(t, dir, "orgs.tsv.xz", xzBytes(t, orgsTSV))
	xzLineage := writeFile(t, dir, "lineage.tsv.xz", xzBytes(t, lineageTSV))

	ctx := context.Background()
	plain, err := Open(ctx, plainOrgs, plainLineage)
	require.NoError(t, err)
	compressed, err := Open(ctx, xzOrgs, xzLineage)
	require.NoError(t, err)

	assert.Equal(t, plain.Entries(), compressed.Entries())
	assert.Equal(t, plain.Fingerprint(), compressed.Fingerprint())
	assert.Equal(t, loadFixture(t).Fingerprint(), plain.Fingerprint())
}

func TestTaxonomyXMLMatchesTSV(t *testing.T) {
	fromXML, err := LoadTaxonomyXML(strings.NewReader(taxaXML))
	require.NoError(t, err)
	fromTSV := loadFixture(t)

	assert.Equal(t, fromTSV.Entries(), fromXML.Entries())
	for _, org := range []string{"Homo sapiens", "Saccharomyces cerevisiae", "Escherichia coli", "nobody"} {
		for _, loc := range []string{"", "mitochondrion", "plastid"} {
			assert.Equal(t, fromTSV.GeneticCodeFor(org, loc), fromXML.GeneticCodeFor(org, loc), "%s/%s", org, loc)
		}
	}
}

func TestOpenDetectsXML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "taxa.xml", []byte(taxaXML))
	table, err := Open(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

func TestLoadTaxonomyXMLErrors(t *testing.T) {
	_, err := LoadTaxonomyXML(strings.NewReader("<TaxaSet><Taxon></TaxaSet>"))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput), "malformed XML: %v", err)

	_, err = LoadTaxonomyXML(strings.NewReader("<TaxaSet><Taxon><TaxId>x</TaxId><ScientificName>A</ScientificName></Taxon></TaxaSet>"))
	var pe *errors.ParseError
	assert.True(t, errors.As(err, &pe), "bad tax id: %v", err)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	original := loadFixture(t)
	dbPath := filepath.Join(t.TempDir(), "orgs.db")

	require.NoError(t, SaveSQLite(ctx, dbPath, original))
	// Saving twice replaces rather than appends.
	require.NoError(t, SaveSQLite(ctx, dbPath, original))

	restored, err := LoadSQLite(ctx, dbPath)
	require.NoError(t, err)
	assert.Equal(t, original.Entries(), restored.Entries())
	assert.Equal(t, original.Fingerprint(), restored.Fingerprint())

	opened, err := Open(ctx, dbPath, "")
	require.NoError(t, err)
	assert.Equal(t, original.Entries(), opened.Entries())
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, err := Open(ctx, "", "")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput), "empty path: %v", err)

	_, err = Open(ctx, filepath.Join(dir, "missing.tsv"), "")
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr), "missing file: %v", err)

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = zw.Write([]byte(orgsTSV))
	require.NoError(t, zw.Close())
	gzPath := writeFile(t, dir, "orgs.tsv.gz", gz.Bytes())
	_, err = Open(ctx, gzPath, "")
	assert.True(t, errors.Is(err, errors.ErrUnsupported), "gzip: %v", err)
}

func TestProviderLoadsOnce(t *testing.T) {
	calls := 0
	p := NewProvider(func() (*Table, error) {
		calls++
		return Load(strings.NewReader(orgsTSV), nil)
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table, err := p.Table()
			assert.NoError(t, err)
			assert.Equal(t, 3, table.Len())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestFileProviderRemembersFailure(t *testing.T) {
	p := FileProvider(context.Background(), filepath.Join(t.TempDir(), "missing.tsv"), "")
	_, err1 := p.Table()
	_, err2 := p.Table()
	require.Error(t, err1)
	assert.Same(t, err1, err2)
}
