package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/seqmod/core/autofix"
	"github.com/FocuswithJustin/seqmod/core/cas"
	"github.com/FocuswithJustin/seqmod/core/defline"
	"github.com/FocuswithJustin/seqmod/core/errors"
	"github.com/FocuswithJustin/seqmod/core/idset"
	"github.com/FocuswithJustin/seqmod/core/modifier"
	"github.com/FocuswithJustin/seqmod/core/orgtable"
	"github.com/FocuswithJustin/seqmod/core/sqlite"
	"github.com/FocuswithJustin/seqmod/internal/logging"
)

// CheckCmd reports every defect of a FASTA file.
type CheckCmd struct {
	File string `arg:"" help:"FASTA file" type:"existingfile"`
	JSON bool   `name:"json" help:"Print the report as JSON"`
}

type defectJSON struct {
	Class  string `json:"class"`
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

type reportJSON struct {
	Batch     string       `json:"batch"`
	File      string       `json:"file"`
	Sequences int          `json:"sequences"`
	Active    int          `json:"active"`
	Defects   []defectJSON `json:"defects"`
}

func (c *CheckCmd) Run(rt *runtime) error {
	_, set, err := load(c.File)
	if err != nil {
		return err
	}
	table, err := rt.table()
	if err != nil {
		return err
	}

	report := set.Validate(table)
	report.Log(rt.ctx)
	defects := flattenReport(report)

	if c.JSON {
		out := reportJSON{
			Batch:     logging.GetBatchID(rt.ctx),
			File:      c.File,
			Sequences: set.Len(),
			Active:    set.ActiveLen(),
			Defects:   defects,
		}
		if out.Defects == nil {
			out.Defects = []defectJSON{}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Fprintln(rt.out, string(data))
	} else {
		fmt.Fprintf(rt.out, "%s: %d sequences (%d active)\n", c.File, set.Len(), set.ActiveLen())
		for _, d := range defects {
			line := fmt.Sprintf("  %-10s %-12s %s", d.Class, d.ID, d.Kind)
			if d.Detail != "" {
				line += ": " + d.Detail
			}
			fmt.Fprintln(rt.out, line)
		}
	}

	if len(defects) > 0 {
		return fmt.Errorf("%d defect(s) found", len(defects))
	}
	if !c.JSON {
		fmt.Fprintln(rt.out, "  no defects")
	}
	return nil
}

func flattenReport(r idset.Report) []defectJSON {
	var out []defectJSON
	for _, d := range r.Structural {
		out = append(out, defectJSON{Class: "structural", Index: d.Index, ID: d.ID, Kind: d.Kind.String(), Detail: d.Detail})
	}
	for _, d := range r.Grammar {
		out = append(out, defectJSON{Class: "grammar", Index: d.Index, ID: d.ID, Kind: d.Defect.Err.String(),
			Detail: fmt.Sprintf("offset %d", d.Defect.Offset)})
	}
	for _, d := range r.Semantic {
		detail := d.Problem.Name
		if d.Problem.Value != "" {
			detail += "=" + d.Problem.Value
		}
		out = append(out, defectJSON{Class: "semantic", Index: d.Index, ID: d.ID, Kind: d.Problem.Kind.String(), Detail: detail})
	}
	return out
}

// FixCmd runs the correction strategies and writes the accepted changes.
type FixCmd struct {
	File string `arg:"" help:"FASTA file" type:"existingfile"`
	Out  string `short:"o" help:"Output path (default: rewrite FILE)" type:"path"`
	Yes  bool   `short:"y" help:"Accept every suggestion without asking"`
}

var strategies = []struct {
	name string
	run  func(*idset.Set) autofix.Proposal
}{
	{"identifier brackets", autofix.IdentifierBrackets},
	{"identifier spaces", autofix.IdentifierSpaces},
	{"brackets", autofix.Brackets},
}

func (c *FixCmd) Run(rt *runtime) error {
	tree, set, err := load(c.File)
	if err != nil {
		return err
	}

	prompt := rt.prompt(c.Yes)
	defer prompt.Close()

	accepted := 0
	for _, s := range strategies {
		proposal := s.run(set)
		var take []autofix.Change
		for _, ch := range proposal.Changes {
			fmt.Fprintf(rt.out, "[%s] %s: %s\n", s.name, set.ID(ch.Index), ch)
			ok, err := prompt.Confirm("apply?")
			if err != nil {
				return err
			}
			if ok {
				take = append(take, ch)
				logging.InfoContext(rt.ctx, "suggestion accepted", "strategy", s.name, "index", ch.Index)
			}
		}
		set = autofix.Apply(set, take...)
		accepted += len(take)
	}

	if accepted == 0 {
		fmt.Fprintln(rt.out, "no changes")
		return nil
	}
	if err := rt.save(tree, set, c.File, c.Out); err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "applied %d change(s)\n", accepted)
	return nil
}

// SetCmd sets a modifier in every title.
type SetCmd struct {
	File     string `arg:"" help:"FASTA file" type:"existingfile"`
	Name     string `arg:"" help:"Modifier name"`
	Value    string `arg:"" help:"Modifier value; empty removes the modifier"`
	Organism string `help:"Only edit the scope of this organism"`
	Out      string `short:"o" help:"Output path (default: rewrite FILE)" type:"path"`
}

func (c *SetCmd) Run(rt *runtime) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.NewValidation("name", "modifier name is empty")
	}
	if c.Value != "" {
		m := modifier.New(c.Name, c.Value, true)
		if p, bad := modifier.CheckOne(m); bad {
			if p.Kind != modifier.UnrecognizedName {
				return errors.NewValidation(c.Name, p.String())
			}
			logging.WarnContext(rt.ctx, "unrecognized modifier name", "name", c.Name)
		}
	}

	return rt.editTitles(c.File, c.Out, func(title string) string {
		if c.Organism != "" {
			return defline.ReplaceForOrganism(title, c.Name, c.Value, c.Organism)
		}
		return defline.Replace(title, c.Name, c.Value)
	})
}

// RemoveCmd removes a modifier from every title.
type RemoveCmd struct {
	File     string `arg:"" help:"FASTA file" type:"existingfile"`
	Name     string `arg:"" help:"Modifier name"`
	Organism string `help:"Only edit the scope of this organism"`
	Out      string `short:"o" help:"Output path (default: rewrite FILE)" type:"path"`
}

func (c *RemoveCmd) Run(rt *runtime) error {
	return rt.editTitles(c.File, c.Out, func(title string) string {
		if c.Organism != "" {
			return defline.RemoveForOrganism(title, c.Name, c.Organism)
		}
		return defline.RemoveAll(title, c.Name)
	})
}

// editTitles rewrites every title with edit and saves the file when at
// least one title changed.
func (rt *runtime) editTitles(in, out string, edit func(string) string) error {
	tree, set, err := load(in)
	if err != nil {
		return err
	}

	changed := 0
	for i := 0; i < set.Len(); i++ {
		title := set.Title(i)
		if updated := edit(title); updated != title {
			set.SetTitle(i, updated)
			changed++
		}
	}
	if changed == 0 {
		fmt.Fprintln(rt.out, "no changes")
		return nil
	}
	if err := rt.save(tree, set, in, out); err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "updated %d title(s)\n", changed)
	return nil
}

// DefaultsCmd fills gaps with default values.
type DefaultsCmd struct {
	File     string `arg:"" help:"FASTA file" type:"existingfile"`
	MolType  string `name:"moltype" help:"Default molecule type (default: default_moltype from config)"`
	Topology string `help:"Default topology (default: default_topology from config)"`
	Location string `help:"Default location (default: default_location from config)"`
	Gcode    bool   `help:"Compute genetic codes from the organism table"`
	Out      string `short:"o" help:"Output path (default: rewrite FILE)" type:"path"`
}

func (c *DefaultsCmd) Run(rt *runtime) error {
	pick := func(flag, cfg string) string {
		if flag != "" {
			return flag
		}
		return cfg
	}
	moltype := pick(c.MolType, rt.cfg.DefaultMolType)
	topology := pick(c.Topology, rt.cfg.DefaultTopology)
	location := pick(c.Location, rt.cfg.DefaultLocation)
	if moltype == "" && topology == "" && location == "" && !c.Gcode {
		return errors.NewValidation("defaults", "nothing to apply: give --moltype, --topology, --location or --gcode")
	}

	var table *orgtable.Table
	if c.Gcode {
		var err error
		if table, err = rt.requireTable(); err != nil {
			return err
		}
	}

	tree, set, err := load(c.File)
	if err != nil {
		return err
	}

	passes := []struct {
		name  string
		value string
		apply func() (int, error)
	}{
		{modifier.NameMolType, moltype, func() (int, error) { return set.ApplyDefaultMolType(rt.ctx, moltype) }},
		{modifier.NameTopology, topology, func() (int, error) { return set.ApplyDefaultTopology(rt.ctx, topology) }},
		{modifier.NameLocation, location, func() (int, error) { return set.ApplyDefaultLocation(rt.ctx, location) }},
	}
	if c.Gcode {
		passes = append(passes, struct {
			name  string
			value string
			apply func() (int, error)
		}{modifier.NameGeneticCode, "from organism table", func() (int, error) { return set.ApplyDefaultGeneticCode(rt.ctx, table) }})
	}

	total := 0
	for _, p := range passes {
		if p.value == "" {
			continue
		}
		n, err := p.apply()
		if err != nil {
			return err
		}
		fmt.Fprintf(rt.out, "%s: %d title(s)\n", p.name, n)
		total += n
	}
	if total == 0 {
		return nil
	}
	return rt.save(tree, set, c.File, c.Out)
}

// GcodeCmd looks up a genetic code.
type GcodeCmd struct {
	Organism string `arg:"" help:"Organism name; may be empty for plastid locations"`
	Location string `help:"Location of the sequence, e.g. mitochondrion"`
}

func (c *GcodeCmd) Run(rt *runtime) error {
	// Plastid locations answer without an organism table.
	lookup := rt.requireTable
	if orgtable.LocationBucket(c.Location) == orgtable.Plastid {
		lookup = rt.table
	}
	table, err := lookup()
	if err != nil {
		return err
	}
	code := table.GeneticCodeFor(c.Organism, c.Location)
	if code == orgtable.UnknownCode {
		return errors.NewNotFound("organism", c.Organism)
	}
	name, _ := modifier.GeneticCodeName(code)
	fmt.Fprintf(rt.out, "%d\t%s\t%s\n", code, orgtable.LocationBucket(c.Location), name)
	return nil
}

// OrgdbImportCmd persists an organism table to SQLite.
type OrgdbImportCmd struct {
	Table   string `arg:"" help:"Organism table (TSV, optionally xz, or taxonomy XML)" type:"existingfile"`
	DB      string `arg:"" help:"SQLite database to write" type:"path"`
	Lineage string `help:"Lineage table" type:"existingfile"`
}

func (c *OrgdbImportCmd) Run(rt *runtime) error {
	table, err := orgtable.Open(rt.ctx, c.Table, c.Lineage)
	if err != nil {
		return err
	}
	driver := sqlite.Current()
	logging.DebugContext(rt.ctx, "sqlite driver", "driver", driver.Name, "type", driver.Type, "package", driver.Package)
	if err := orgtable.SaveSQLite(rt.ctx, c.DB, table); err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "imported %d organisms into %s (blake3 %s)\n", table.Len(), c.DB, table.Fingerprint())
	return nil
}

// RestoreCmd puts a snapshot taken before an in-place rewrite back.
type RestoreCmd struct {
	File string `arg:"" help:"FASTA file that was rewritten" type:"path"`
	Hash string `arg:"" help:"Snapshot hash printed when the file was rewritten"`
}

func (c *RestoreCmd) Run(rt *runtime) error {
	if !cas.IsValidHash(c.Hash) {
		return errors.NewValidation("hash", "not a BLAKE3 hex digest: "+c.Hash)
	}
	store, _, err := rt.snapshotStore(c.File)
	if err != nil {
		return err
	}
	data, err := store.Retrieve(c.Hash)
	if err != nil {
		if errors.Is(err, cas.ErrBlobNotFound) {
			return errors.NewNotFound("snapshot", c.Hash)
		}
		return err
	}
	if err := writeFile(c.File, bytes.NewReader(data)); err != nil {
		return errors.NewIO("write", c.File, err)
	}
	logging.InfoContext(rt.ctx, "snapshot restored", "path", c.File, "blake3", c.Hash)
	fmt.Fprintf(rt.out, "restored %s\n", c.File)
	return nil
}
