package document

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

const sampleDoc = `
fe_groups:
  admins:
    title: "Administrators"
    description: "Full access"
    subgroup: [2, 3]
  editors:
    title: "Editors"
    description: "Content access"

fe_users:
  - username: "alice"
    usergroup: [1]
  - username: "bob"
    usergroup: [1, 2]
`

func TestParse_Tables(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Порядок таблиц - порядок файла
	tables := doc.Tables()
	expected := []string{"fe_groups", "fe_users"}
	if !reflect.DeepEqual(tables, expected) {
		t.Errorf("Expected tables %v, got %v", expected, tables)
	}
}

func TestRecords_MappingSection(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	records, err := doc.Records("fe_groups")
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	// Порядок записей - порядок файла
	if records[0]["title"] != "Administrators" {
		t.Errorf("Expected first record Administrators, got %v", records[0]["title"])
	}
	if records[1]["title"] != "Editors" {
		t.Errorf("Expected second record Editors, got %v", records[1]["title"])
	}

	// Список остается списком до стадии сплющивания
	if _, ok := records[0]["subgroup"].([]any); !ok {
		t.Errorf("Expected subgroup to be a list, got %T", records[0]["subgroup"])
	}
}

func TestRecords_SequenceSection(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	records, err := doc.Records("fe_users")
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0]["username"] != "alice" {
		t.Errorf("Expected alice first, got %v", records[0]["username"])
	}
}

func TestRecords_MissingTable(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Отсутствующая секция - не ошибка, просто нет записей
	records, err := doc.Records("tt_content")
	if err != nil {
		t.Fatalf("Expected no error for missing table, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Empty file", ""},
		{"Only comment", "# nothing here\n"},
		{"Explicit null", "null\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.data))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if tables := doc.Tables(); len(tables) != 0 {
				t.Errorf("Expected no tables, got %v", tables)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Scalar top level", "just a string"},
		{"Sequence top level", "- a\n- b\n"},
		{"Broken syntax", "key: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestRecords_ScalarEntry(t *testing.T) {
	doc, err := Parse([]byte("fe_groups:\n  admins: \"not a mapping\"\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	_, err = doc.Records("fe_groups")
	if err == nil {
		t.Fatal("Expected error for scalar record, got nil")
	}
	if !strings.Contains(err.Error(), "admins") {
		t.Errorf("Expected entry key in error, got: %v", err)
	}
}

func TestLoad_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yaml")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Tables()) != 2 {
		t.Errorf("Expected 2 tables, got %d", len(doc.Tables()))
	}
}

func TestLoad_CompressedFile(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("Failed to create encoder: %v", err)
	}
	compressed := enc.EncodeAll([]byte(sampleDoc), nil)
	enc.Close()

	path := filepath.Join(t.TempDir(), "groups.yaml.zst")
	if err := os.WriteFile(path, compressed, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	records, err := doc.Records("fe_groups")
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestChecksum(t *testing.T) {
	a := Checksum([]byte("fe_groups:\n"))
	b := Checksum([]byte("fe_groups:\n"))
	c := Checksum([]byte("fe_users:\n"))

	if a != b {
		t.Errorf("Checksum is not stable: %s != %s", a, b)
	}
	if a == c {
		t.Error("Different content produced the same checksum")
	}
	if len(a) != 16 {
		t.Errorf("Expected 16 hex chars, got %q", a)
	}
}
