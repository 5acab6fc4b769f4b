package main

import "flag"

// Flags holds all command-line flags
type Flags struct {
	// Commands
	Import     *string // File or directory with YAML documents to import
	Export     *string // Table to export as YAML document
	ExportXLSX *string // Table to export as XLSX
	List       *bool
	Columns    *string // Table whose columns to print

	// Import options
	Table     *string // Target table (overrides config)
	Match     *string // Comma-separated match fields (overrides config)
	Delimiter *string // List value join delimiter
	DryRun    *bool
	Force     *bool   // Import even if document checksum is unchanged
	StateFile *string // Checksum state file path

	// Export options
	Output      *string
	Sheet       *string
	SkipColumns *string // Comma-separated columns to exclude
	Compress    *bool   // Write .zst compressed YAML

	// Config Creation
	CreateConfigPG     *bool
	CreateConfigMSSQL  *bool
	CreateConfigSQLite *bool
	CreateConfigMySQL  *bool

	// Misc
	Config  *string
	Version *bool
	Help    *bool
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	f := &Flags{}

	// Commands
	f.Import = flag.String("import", "", "Import YAML document(s) into database (file or directory)")
	f.Export = flag.String("export", "", "Export table to YAML document (table name)")
	f.ExportXLSX = flag.String("export-xlsx", "", "Export table directly to XLSX (table name)")
	f.List = flag.Bool("list", false, "List all tables in database")
	f.Columns = flag.String("columns", "", "Show columns of a table (table name)")

	// Import options
	f.Table = flag.String("table", "", "Target table name (overrides config)")
	f.Match = flag.String("match", "", "Match fields, comma-separated (overrides config)")
	f.Delimiter = flag.String("delimiter", "", "Delimiter for flattening list values (default \",\")")
	f.DryRun = flag.Bool("dry-run", false, "Resolve and count records without writing")
	f.Force = flag.Bool("force", false, "Import files even if their checksum is unchanged")
	f.StateFile = flag.String("state-file", "", "Checksum state file (overrides config)")

	// Export options
	f.Output = flag.String("output", "", "Output file path (default: auto-generated)")
	f.Sheet = flag.String("sheet", "", "Excel sheet name for XLSX export (default: table name)")
	f.SkipColumns = flag.String("skip-columns", "", "Columns to exclude from export, comma-separated")
	f.Compress = flag.Bool("compress", false, "Compress exported YAML with zstd (.zst)")

	// Config Creation
	f.CreateConfigPG = flag.Bool("create-config-pg", false, "Create sample PostgreSQL config file")
	f.CreateConfigMSSQL = flag.Bool("create-config-mssql", false, "Create sample MS SQL config file")
	f.CreateConfigSQLite = flag.Bool("create-config-sqlite", false, "Create sample SQLite config file")
	f.CreateConfigMySQL = flag.Bool("create-config-mysql", false, "Create sample MySQL config file")

	// Misc
	f.Config = flag.String("config", "config.yaml", "Configuration file path")
	f.Version = flag.Bool("version", false, "Show version information")
	f.Help = flag.Bool("help", false, "Show detailed help with examples")

	flag.Parse()

	return f
}
