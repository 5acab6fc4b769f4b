package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEntry_Builders(t *testing.T) {
	entry := NewEntry(OpImport, StatusSuccess).
		WithTable("fe_groups").
		WithFile("groups.yaml").
		WithRecordsAffected(5).
		WithMetadata("inserted", 5)

	if entry.Table != "fe_groups" || entry.File != "groups.yaml" {
		t.Errorf("Builder did not apply: %+v", entry)
	}
	if entry.Metadata["inserted"] != 5 {
		t.Errorf("Metadata not set: %v", entry.Metadata)
	}

	// WithError переводит запись в failure
	entry = NewEntry(OpInsert, StatusSuccess).WithError(errors.New("boom"))
	if entry.Status != StatusFailure || entry.ErrorMessage != "boom" {
		t.Errorf("WithError did not apply: %+v", entry)
	}
}

func TestFileAppender_JSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "audit.log")

	appender, err := NewFileAppender(path)
	if err != nil {
		t.Fatalf("NewFileAppender failed: %v", err)
	}

	logger := NewLogger(nil, appender)
	logger.Log(NewEntry(OpImport, StatusSuccess).WithTable("fe_groups"))
	logger.Log(NewEntry(OpSkip, StatusSuccess).WithFile("a.yaml"))
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open log: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("Invalid JSON line: %v", err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("Expected 2 entries, got %d", lines)
	}
}

func TestLogger_NilSafe(t *testing.T) {
	var logger *Logger

	// Не должно паниковать
	logger.Log(NewEntry(OpImport, StatusSuccess))
	if err := logger.Close(); err != nil {
		t.Errorf("Nil logger Close should return nil, got %v", err)
	}
}
