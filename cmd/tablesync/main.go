package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/MaxServ/tablesync/cmd/tablesync/commands"
	"github.com/MaxServ/tablesync/pkg/adapters"
	"github.com/MaxServ/tablesync/pkg/importer"
	"github.com/MaxServ/tablesync/pkg/notify"
	"github.com/MaxServ/tablesync/pkg/resultlog"

	// Database adapters register themselves in the factory
	_ "github.com/MaxServ/tablesync/pkg/adapters/mssql"
	_ "github.com/MaxServ/tablesync/pkg/adapters/mysql"
	_ "github.com/MaxServ/tablesync/pkg/adapters/postgres"
	_ "github.com/MaxServ/tablesync/pkg/adapters/sqlite"
)

func main() {
	ctx := context.Background()

	// Parse flags
	flags := ParseFlags()

	// Handle version
	if *flags.Version {
		PrintVersion()
		os.Exit(0)
	}

	// Handle help
	if *flags.Help {
		PrintHelp()
		os.Exit(0)
	}

	// Handle config creation
	if *flags.CreateConfigPG {
		createConfigTemplate("postgres")
		return
	}
	if *flags.CreateConfigMSSQL {
		createConfigTemplate("mssql")
		return
	}
	if *flags.CreateConfigSQLite {
		createConfigTemplate("sqlite")
		return
	}
	if *flags.CreateConfigMySQL {
		createConfigTemplate("mysql")
		return
	}

	// If no command was specified, show help
	if !commandWasSpecified(flags) {
		PrintHelp()
		os.Exit(1)
	}

	// Load configuration
	config, err := LoadConfig(*flags.Config)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}

	// Build adapter config
	adapterConfig := adapters.Config{
		Type:   config.Database.Type,
		DSN:    config.Database.BuildDSN(),
		Schema: config.Database.Schema,
	}

	// Route commands
	var cmdErr error

	switch {
	case *flags.List:
		cmdErr = commands.ListTables(ctx, adapterConfig)

	case *flags.Columns != "":
		cmdErr = commands.ShowColumns(ctx, adapterConfig, *flags.Columns)

	case *flags.Export != "":
		ext := "yaml"
		if *flags.Compress || config.Export.Compress {
			ext = "yaml.zst"
		}
		cmdErr = commands.ExportTable(ctx, adapterConfig, commands.ExportOptions{
			TableName:   *flags.Export,
			OutputFile:  determineOutputFile(*flags.Output, *flags.Export, ext),
			SkipColumns: skipColumns(flags, config),
		})

	case *flags.ExportXLSX != "":
		cmdErr = commands.ExportTableToXLSX(ctx, adapterConfig, commands.ExportOptions{
			TableName:   *flags.ExportXLSX,
			OutputFile:  determineOutputFile(*flags.Output, *flags.ExportXLSX, "xlsx"),
			SheetName:   *flags.Sheet,
			SkipColumns: skipColumns(flags, config),
		})

	case *flags.Import != "":
		opts := buildImportOptions(flags, config)
		if opts.Table == "" {
			fatal("Target table is required: use --table or set import.table in config")
		}
		if len(opts.MatchFields) == 0 {
			fatal("Match fields are required: use --match or set import.match_fields in config")
		}

		stats, runErr := commands.ImportDocuments(ctx, adapterConfig, opts)
		publishResult(ctx, config, stats, runErr)
		cmdErr = runErr
	}

	// Handle errors
	if cmdErr != nil {
		fatal("Command failed: %v", cmdErr)
	}
}

// buildImportOptions merges flag overrides into config import settings
func buildImportOptions(flags *Flags, config *Config) commands.ImportOptions {
	opts := commands.ImportOptions{
		Path:           *flags.Import,
		Table:          config.Import.Table,
		MatchFields:    config.Import.MatchFields,
		Delimiter:      config.Import.Delimiter,
		TimestampField: config.Import.TimestampField,
		CreationField:  config.Import.CreationField,
		StateFile:      config.Import.StateFile,
		DryRun:         *flags.DryRun,
		Force:          *flags.Force,
	}

	if *flags.Table != "" {
		opts.Table = *flags.Table
	}
	if *flags.Match != "" {
		opts.MatchFields = splitList(*flags.Match)
	}
	if *flags.Delimiter != "" {
		opts.Delimiter = *flags.Delimiter
	}
	if *flags.StateFile != "" {
		opts.StateFile = *flags.StateFile
	}
	if config.Audit.Enabled {
		opts.AuditFile = config.Audit.File
		if opts.AuditFile == "" {
			opts.AuditFile = "audit.log"
		}
	}

	return opts
}

// publishResult pushes the run outcome to Redis and/or a message broker
// when configured. Publication failures are warnings, not errors: the
// import itself already finished.
func publishResult(ctx context.Context, config *Config, stats *importer.RunStats, runErr error) {
	if stats == nil {
		return
	}

	if config.ResultLog.Enabled {
		publisher := resultlog.NewRedisPublisher(config.ResultLog)
		defer publisher.Close()

		if err := publisher.Publish(ctx, stats, runErr); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to publish result to Redis: %v\n", err)
		} else {
			fmt.Println("✓ Result published to Redis")
		}
	}

	if config.Notify.Enabled {
		publisher, err := notify.New(config.Notify)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create notifier: %v\n", err)
			return
		}
		if err := publisher.Connect(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to connect to broker: %v\n", err)
			return
		}
		defer publisher.Close()

		if err := notify.PublishResult(ctx, publisher, stats, runErr); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to publish event: %v\n", err)
		} else {
			fmt.Printf("✓ Event published to %s\n", publisher.GetBrokerType())
		}
	}
}

// createConfigTemplate creates a sample configuration file
func createConfigTemplate(dbType string) {
	config := CreateSampleConfig(dbType)

	if err := SaveConfig("config.yaml", config); err != nil {
		fatal("Failed to save config: %v", err)
	}

	fmt.Printf("✓ Created sample %s config: config.yaml\n", dbType)
	fmt.Println("Edit the file with your database credentials and run:")
	fmt.Printf("  tablesync --list --config config.yaml\n")
}

// skipColumns merges the --skip-columns flag with config export settings
func skipColumns(flags *Flags, config *Config) []string {
	if *flags.SkipColumns != "" {
		return splitList(*flags.SkipColumns)
	}
	return config.Export.SkipColumns
}

// determineOutputFile determines output file name
func determineOutputFile(output, baseName, ext string) string {
	if output != "" {
		return output
	}

	if !strings.HasSuffix(baseName, "."+ext) {
		return baseName + "." + ext
	}
	return baseName
}

// splitList splits a comma-separated flag value, trimming whitespace
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// commandWasSpecified checks if any command was specified
func commandWasSpecified(flags *Flags) bool {
	return *flags.List ||
		*flags.Columns != "" ||
		*flags.Export != "" ||
		*flags.ExportXLSX != "" ||
		*flags.Import != ""
}

// fatal prints error and exits
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
