package commands

import (
	"context"
	"fmt"

	"github.com/MaxServ/tablesync/pkg/adapters"
)

// ListTables lists all tables in the database
func ListTables(ctx context.Context, config adapters.Config) error {
	adapter, err := adapters.New(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}
	defer adapter.Close(ctx)

	tables, err := adapter.GetTableNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	if len(tables) == 0 {
		fmt.Println("No tables found")
		return nil
	}

	fmt.Printf("Found %d table(s):\n", len(tables))
	for i, table := range tables {
		fmt.Printf("  %d. %s\n", i+1, table)
	}

	return nil
}

// ShowColumns prints the columns of a table in declaration order
func ShowColumns(ctx context.Context, config adapters.Config, tableName string) error {
	adapter, err := adapters.New(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}
	defer adapter.Close(ctx)

	exists, err := adapter.TableExists(ctx, tableName)
	if err != nil {
		return fmt.Errorf("failed to check table: %w", err)
	}
	if !exists {
		return fmt.Errorf("table '%s' does not exist", tableName)
	}

	columns, err := adapter.GetTableColumns(ctx, tableName)
	if err != nil {
		return fmt.Errorf("failed to get columns: %w", err)
	}

	fmt.Printf("Table '%s' has %d column(s):\n", tableName, len(columns))
	for i, col := range columns {
		fmt.Printf("  %d. %s\n", i+1, col)
	}

	return nil
}
