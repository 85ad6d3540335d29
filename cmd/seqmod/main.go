// Command seqmod checks and edits the [name=value] modifiers in the titles
// of a FASTA file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/seqmod/core/orgtable"
	"github.com/FocuswithJustin/seqmod/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for seqmod.
type CLI struct {
	// Global flags
	Config    string `help:"Config file (JSONC); defaults to ./.seqmod.json" type:"path"`
	OrgTable  string `name:"org-table" help:"Organism table: TSV (optionally xz), taxonomy XML or SQLite" type:"path"`
	Lineage   string `help:"Lineage table for a TSV organism table" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (json, text)"`

	Check    CheckCmd    `cmd:"" help:"Report grammar, semantic and structural defects"`
	Fix      FixCmd      `cmd:"" help:"Propose corrections and apply the accepted ones"`
	Set      SetCmd      `cmd:"" help:"Set a modifier in every title"`
	Remove   RemoveCmd   `cmd:"" help:"Remove a modifier from every title"`
	Defaults DefaultsCmd `cmd:"" help:"Fill missing modifiers with default values"`
	Gcode    GcodeCmd    `cmd:"" help:"Look up the genetic code of an organism"`
	Restore  RestoreCmd  `cmd:"" help:"Restore a file from a snapshot"`
	Orgdb    OrgdbGroup  `cmd:"" help:"Organism database operations"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// OrgdbGroup contains organism database operations.
type OrgdbGroup struct {
	Import OrgdbImportCmd `cmd:"" help:"Import an organism table into a SQLite database"`
}

// runtime is the state shared by every command: resolved configuration,
// the lazily loaded organism table and where output goes.
type runtime struct {
	ctx    context.Context
	cfg    Config
	out    io.Writer
	tables *orgtable.Provider
	prompt func(yes bool) confirmer
}

func newRuntime(cli *CLI, out io.Writer) (*runtime, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := LoadConfig(cli.Config, wd)
	if err != nil {
		return nil, err
	}

	// Flags override the config file.
	if cli.OrgTable != "" {
		cfg.OrganismTable = cli.OrgTable
		cfg.LineageTable = cli.Lineage
		cfg.OrganismDB = ""
		cfg.TaxonomyXML = ""
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.LogFormat = cli.LogFormat
	}
	logging.InitLogger(logging.ParseLevel(cfg.LogLevel), logging.ParseFormat(cfg.LogFormat))

	batch := uuid.NewString()
	ctx := logging.WithBatchID(context.Background(), batch)
	if cfg.Source != "" {
		logging.DebugContext(ctx, "config loaded", "path", cfg.Source)
	}
	return buildRuntime(ctx, cfg, out), nil
}

func buildRuntime(ctx context.Context, cfg Config, out io.Writer) *runtime {
	return &runtime{
		ctx:    ctx,
		cfg:    cfg,
		out:    out,
		tables: tableProvider(ctx, cfg),
		prompt: newPrompt,
	}
}

// tableProvider picks the configured organism source: a database first,
// then taxonomy XML, then a TSV table. It returns nil when none is set.
func tableProvider(ctx context.Context, cfg Config) *orgtable.Provider {
	switch {
	case cfg.OrganismDB != "":
		return orgtable.FileProvider(ctx, cfg.OrganismDB, "")
	case cfg.TaxonomyXML != "":
		return orgtable.FileProvider(ctx, cfg.TaxonomyXML, "")
	case cfg.OrganismTable != "":
		return orgtable.FileProvider(ctx, cfg.OrganismTable, cfg.LineageTable)
	}
	return nil
}

// table returns the organism table, or nil when none is configured.
func (rt *runtime) table() (*orgtable.Table, error) {
	if rt.tables == nil {
		return nil, nil
	}
	return rt.tables.Table()
}

func (rt *runtime) requireTable() (*orgtable.Table, error) {
	if rt.tables == nil {
		return nil, fmt.Errorf("no organism table configured: set organism_table in %s or pass --org-table", ConfigFileName)
	}
	return rt.tables.Table()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(rt *runtime) error {
	fmt.Fprintf(rt.out, "seqmod version %s\n", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("seqmod"),
		kong.Description("Check and edit the modifiers of FASTA sequence titles"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	rt, err := newRuntime(&cli, os.Stdout)
	ctx.FatalIfErrorf(err)
	err = ctx.Run(rt)
	ctx.FatalIfErrorf(err)
}
