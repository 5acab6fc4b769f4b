package commands

import (
	"context"
	"fmt"

	"github.com/MaxServ/tablesync/pkg/adapters"
	"github.com/MaxServ/tablesync/pkg/export"
)

// ExportOptions holds options for export operations
type ExportOptions struct {
	TableName   string
	OutputFile  string
	SheetName   string // XLSX only
	SkipColumns []string
}

// ExportTable exports a table to a YAML document
func ExportTable(ctx context.Context, config adapters.Config, opts ExportOptions) error {
	fmt.Printf("Exporting table '%s'...\n", opts.TableName)

	adapter, err := adapters.New(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}
	defer adapter.Close(ctx)

	err = export.ToYAML(ctx, adapter, opts.TableName, opts.OutputFile, export.Options{
		SkipColumns: opts.SkipColumns,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("✓ Export complete: %s\n", opts.OutputFile)
	return nil
}

// ExportTableToXLSX exports a table directly to an Excel file
func ExportTableToXLSX(ctx context.Context, config adapters.Config, opts ExportOptions) error {
	fmt.Printf("Exporting table '%s' to XLSX...\n", opts.TableName)

	adapter, err := adapters.New(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}
	defer adapter.Close(ctx)

	err = export.ToXLSX(ctx, adapter, opts.TableName, opts.OutputFile, opts.SheetName, export.Options{
		SkipColumns: opts.SkipColumns,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("✓ Export complete: %s\n", opts.OutputFile)
	return nil
}
