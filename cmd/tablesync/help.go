package main

import "fmt"

const version = "1.2.0"

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("tablesync version %s\n", version)
	fmt.Println("TableSync - YAML to database reconciliation importer")
	fmt.Println("https://github.com/MaxServ/tablesync")
}

// PrintHelp prints comprehensive help information
func PrintHelp() {
	fmt.Println("TableSync - YAML to database reconciliation importer")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Println("USAGE:")
	fmt.Println("  tablesync [command] [options]")
	fmt.Println()

	fmt.Println("COMMANDS:")
	fmt.Println()

	fmt.Println("  Database Operations:")
	fmt.Println("    --import <path>            Import YAML document(s) into database (file or directory)")
	fmt.Println("    --export <table>           Export table to YAML document")
	fmt.Println("    --export-xlsx <table>      Export table directly to XLSX")
	fmt.Println("    --list                     List all tables in database")
	fmt.Println("    --columns <table>          Show columns of a table")
	fmt.Println()

	fmt.Println("OPTIONS:")
	fmt.Println()

	fmt.Println("  Import:")
	fmt.Println("    --table <name>             Target table name (overrides config)")
	fmt.Println("    --match <fields>           Match fields, comma-separated (overrides config)")
	fmt.Println("    --delimiter <s>            Delimiter for flattening list values (default: \",\")")
	fmt.Println("    --dry-run                  Resolve and count records without writing")
	fmt.Println("    --force                    Import files even if their checksum is unchanged")
	fmt.Println("    --state-file <file>        Checksum state file (overrides config)")
	fmt.Println()

	fmt.Println("  Export:")
	fmt.Println("    --output <file>            Output file path (default: auto-generated)")
	fmt.Println("    --sheet <name>             Excel sheet name (default: table name)")
	fmt.Println("    --skip-columns <fields>    Columns to exclude from export, comma-separated")
	fmt.Println("    --compress                 Compress exported YAML with zstd (.zst)")
	fmt.Println()

	fmt.Println("  Configuration:")
	fmt.Println("    --config <file>            Configuration file (default: config.yaml)")
	fmt.Println("    --create-config-pg         Create PostgreSQL config template")
	fmt.Println("    --create-config-mssql      Create MS SQL config template")
	fmt.Println("    --create-config-sqlite     Create SQLite config template")
	fmt.Println("    --create-config-mysql      Create MySQL config template")
	fmt.Println()

	fmt.Println("  Misc:")
	fmt.Println("    --version                  Show version information")
	fmt.Println("    --help                     Show this help message")
	fmt.Println()

	fmt.Println("EXAMPLES:")
	fmt.Println()

	fmt.Println("  # List all tables")
	fmt.Println("  tablesync --list --config pg.yaml")
	fmt.Println()

	fmt.Println("  # Import a single document, matching rows by title")
	fmt.Println("  tablesync --import groups.yaml --table fe_groups --match title")
	fmt.Println()

	fmt.Println("  # Import a directory of documents using config settings")
	fmt.Println("  tablesync --import ./fixtures --config prod.yaml")
	fmt.Println()

	fmt.Println("  # Preview an import without writing")
	fmt.Println("  tablesync --import groups.yaml --table fe_groups --match title --dry-run")
	fmt.Println()

	fmt.Println("  # Export a table back to YAML, without service columns")
	fmt.Println("  tablesync --export fe_groups --skip-columns uid,tstamp,crdate")
	fmt.Println()

	fmt.Println("  # Export a table to Excel")
	fmt.Println("  tablesync --export-xlsx fe_groups --output groups.xlsx")
	fmt.Println()

	fmt.Println("CONFIG FILE (config.yaml):")
	fmt.Println()
	fmt.Println("  database:")
	fmt.Println("    type: postgres")
	fmt.Println("    host: localhost")
	fmt.Println("    port: 5432")
	fmt.Println("    database: mydb")
	fmt.Println("    user: postgres")
	fmt.Println("    password: secret")
	fmt.Println()
	fmt.Println("  import:")
	fmt.Println("    table: fe_groups")
	fmt.Println("    match_fields: [title]")
	fmt.Println("    state_file: tablesync-state.json")
	fmt.Println()
	fmt.Println("  audit:")
	fmt.Println("    enabled: true")
	fmt.Println("    file: audit.log")
}
