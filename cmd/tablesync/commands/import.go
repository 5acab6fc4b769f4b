package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MaxServ/tablesync/pkg/adapters"
	"github.com/MaxServ/tablesync/pkg/audit"
	"github.com/MaxServ/tablesync/pkg/importer"
	"github.com/MaxServ/tablesync/pkg/syncstate"
)

// ImportOptions holds options for import operations
type ImportOptions struct {
	// Path is a YAML document or a directory of documents
	Path string

	Table       string
	MatchFields []string
	Delimiter   string

	TimestampField string
	CreationField  string

	DryRun bool
	Force  bool

	// StateFile enables checksum-based skipping of unchanged documents
	StateFile string

	// AuditFile enables JSON-lines audit logging
	AuditFile string
}

// ImportDocuments imports YAML documents into the database and returns run statistics.
func ImportDocuments(ctx context.Context, config adapters.Config, opts ImportOptions) (*importer.RunStats, error) {
	files, err := DiscoverDocuments(opts.Path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no YAML documents found at %s", opts.Path)
	}

	fmt.Printf("Importing %d document(s) into table '%s'...\n", len(files), opts.Table)
	if opts.DryRun {
		fmt.Println("Dry run: no changes will be written")
	}

	// Create adapter
	adapter, err := adapters.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter: %w", err)
	}
	defer adapter.Close(ctx)

	// Optional checksum state
	var state *syncstate.Manager
	if opts.StateFile != "" {
		state, err = syncstate.NewManager(opts.StateFile, true)
		if err != nil {
			return nil, fmt.Errorf("failed to load state file: %w", err)
		}
	}

	// Optional audit log
	var auditLog *audit.Logger
	if opts.AuditFile != "" {
		appender, err := audit.NewFileAppender(opts.AuditFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit log: %w", err)
		}
		auditLog = audit.NewLogger(func(err error) {
			fmt.Fprintf(os.Stderr, "Warning: audit write failed: %v\n", err)
		}, appender)
		defer auditLog.Close()
	}

	imp, err := importer.New(adapter, importer.Options{
		Table:         opts.Table,
		MatchFields:   opts.MatchFields,
		Delimiter:     opts.Delimiter,
		ModifiedField: opts.TimestampField,
		CreatedField:  opts.CreationField,
		DryRun:        opts.DryRun,
		Force:         opts.Force,
		State:         state,
		Audit:         auditLog,
	})
	if err != nil {
		return nil, err
	}

	imp.FileDone = func(fs importer.FileStats) {
		switch {
		case fs.Skipped:
			fmt.Printf("- %s: unchanged, skipped\n", fs.Path)
		case fs.Err != nil:
			fmt.Printf("✗ %s: %v\n", fs.Path, fs.Err)
		default:
			fmt.Printf("✓ %s: %d updated, %d inserted, %d failed\n",
				fs.Path, fs.Updated, fs.Inserted, fs.Failed)
			for _, msg := range fs.Errors {
				fmt.Printf("  ! %s\n", msg)
			}
		}
	}

	stats, err := imp.Run(ctx, files)
	if err != nil {
		return stats, fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("✓ Import complete: %d file(s), %d updated, %d inserted, %d failed (%s)\n",
		stats.FilesProcessed, stats.Updated, stats.Inserted, stats.Failed, stats.Duration.Round(1e6))
	if stats.FilesSkipped > 0 {
		fmt.Printf("✓ Skipped %d unchanged file(s)\n", stats.FilesSkipped)
	}

	return stats, nil
}

// DiscoverDocuments returns the YAML documents at path. A file path is
// returned as-is; a directory is scanned (non-recursively) for
// *.yaml, *.yml and their .zst compressed variants, sorted by name.
func DiscoverDocuments(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isDocumentName(entry.Name()) {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// isDocumentName reports whether name looks like an importable document.
func isDocumentName(name string) bool {
	base := strings.TrimSuffix(name, ".zst")
	return strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".yml")
}
