package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MaxServ/tablesync/pkg/adapters"
	"github.com/MaxServ/tablesync/pkg/adapters/sqlite"
	"github.com/MaxServ/tablesync/pkg/document"
	"github.com/MaxServ/tablesync/pkg/syncstate"
)

// newTestAdapter создает sqlite адаптер с таблицей fe_groups
func newTestAdapter(t *testing.T) *sqlite.Adapter {
	t.Helper()

	ctx := context.Background()
	adapter, err := sqlite.NewAdapter(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create adapter: %v", err)
	}
	t.Cleanup(func() { adapter.Close(ctx) })

	_, err = adapter.DB().ExecContext(ctx, `
		CREATE TABLE fe_groups (
			uid INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			subgroup TEXT,
			tstamp INTEGER DEFAULT 0,
			crdate INTEGER DEFAULT 0
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create test table: %v", err)
	}

	return adapter
}

// writeDoc пишет YAML документ во временный файл
func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}
	return path
}

// fixedNow возвращает источник времени с заданной unix-секундой
func fixedNow(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

func newTestImporter(t *testing.T, adapter adapters.Adapter, opts Options) *Importer {
	t.Helper()
	if opts.Table == "" {
		opts.Table = "fe_groups"
	}
	if len(opts.MatchFields) == 0 {
		opts.MatchFields = []string{"title"}
	}
	imp, err := New(adapter, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return imp
}

func TestNew_Validation(t *testing.T) {
	adapter := newTestAdapter(t)

	if _, err := New(nil, Options{Table: "t", MatchFields: []string{"a"}}); err == nil {
		t.Error("Expected error for nil adapter")
	}
	if _, err := New(adapter, Options{MatchFields: []string{"a"}}); err == nil {
		t.Error("Expected error for empty table")
	}
	if _, err := New(adapter, Options{Table: "t"}); err == nil {
		t.Error("Expected error for empty match fields")
	}
}

func TestValidateMatchFields_Missing(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	dir := t.TempDir()

	doc := writeDoc(t, dir, "groups.yaml", "fe_groups:\n  g1:\n    title: A\n")

	imp := newTestImporter(t, adapter, Options{MatchFields: []string{"no_such_column"}})

	// Ошибка валидации фатальна: прогон прерывается до записей
	stats, err := imp.Run(ctx, []string{doc})
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if stats.Total() != 0 {
		t.Errorf("Expected no records processed, got %d", stats.Total())
	}

	_, rows, err := adapter.ReadTable(ctx, "fe_groups")
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no writes, got %d rows", len(rows))
	}
}

func TestRun_InsertThenUpdate(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	dir := t.TempDir()

	doc := writeDoc(t, dir, "groups.yaml", `
fe_groups:
  admins:
    title: "Administrators"
    description: "Full access"
`)

	// Первый прогон: записи нет, вставка с tstamp и crdate
	imp := newTestImporter(t, adapter, Options{Now: fixedNow(1000)})
	stats, err := imp.Run(ctx, []string{doc})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Inserted != 1 || stats.Updated != 0 || stats.Failed != 0 {
		t.Fatalf("Expected 1 insert, got %+v", stats)
	}

	row, found, err := adapter.FindOne(ctx, "fe_groups", []adapters.Condition{
		{Field: "title", Value: "Administrators"},
	})
	if err != nil || !found {
		t.Fatalf("Row not found after insert: %v", err)
	}
	if row["tstamp"] != int64(1000) || row["crdate"] != int64(1000) {
		t.Errorf("Expected tstamp=crdate=1000, got tstamp=%v crdate=%v", row["tstamp"], row["crdate"])
	}

	// Второй прогон с изменившимися данными: обновление, crdate не трогается
	doc2 := writeDoc(t, dir, "groups2.yaml", `
fe_groups:
  admins:
    title: "Administrators"
    description: "Everything"
`)

	imp = newTestImporter(t, adapter, Options{Now: fixedNow(2000)})
	stats, err = imp.Run(ctx, []string{doc2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Updated != 1 || stats.Inserted != 0 {
		t.Fatalf("Expected 1 update, got %+v", stats)
	}

	row, _, err = adapter.FindOne(ctx, "fe_groups", []adapters.Condition{
		{Field: "title", Value: "Administrators"},
	})
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if row["description"] != "Everything" {
		t.Errorf("Update did not apply: %v", row["description"])
	}
	if row["tstamp"] != int64(2000) {
		t.Errorf("Expected tstamp=2000, got %v", row["tstamp"])
	}
	if row["crdate"] != int64(1000) {
		t.Errorf("crdate must not change on update, got %v", row["crdate"])
	}

	// Одна строка, а не две: запись сопоставилась, дубликата нет
	_, rows, err := adapter.ReadTable(ctx, "fe_groups")
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(rows))
	}
}

func TestRun_ListFlattening(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	dir := t.TempDir()

	doc := writeDoc(t, dir, "groups.yaml", `
fe_groups:
  admins:
    title: "Administrators"
    subgroup: [2, 3, 5]
`)

	imp := newTestImporter(t, adapter, Options{Now: fixedNow(1000)})
	if _, err := imp.Run(ctx, []string{doc}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	row, _, err := adapter.FindOne(ctx, "fe_groups", []adapters.Condition{
		{Field: "title", Value: "Administrators"},
	})
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if row["subgroup"] != "2,3,5" {
		t.Errorf("Expected flattened list 2,3,5, got %v", row["subgroup"])
	}
}

func TestRun_NestedMappingFails(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	dir := t.TempDir()

	// Вторая запись с вложенным mapping не проходит,
	// остальные записи файла обрабатываются
	doc := writeDoc(t, dir, "groups.yaml", `
fe_groups:
  good:
    title: "Good"
  bad:
    title: "Bad"
    settings:
      nested: true
  also_good:
    title: "Also good"
`)

	imp := newTestImporter(t, adapter, Options{Now: fixedNow(1000)})
	stats, err := imp.Run(ctx, []string{doc})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Inserted != 2 || stats.Failed != 1 {
		t.Errorf("Expected 2 inserted + 1 failed, got %+v", stats)
	}
	if len(stats.Files) != 1 || len(stats.Files[0].Errors) != 1 {
		t.Errorf("Expected one record diagnostic, got %v", stats.Files)
	}
}

func TestRun_ParseFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	dir := t.TempDir()

	broken := writeDoc(t, dir, "broken.yaml", "fe_groups: [unclosed")
	good := writeDoc(t, dir, "good.yaml", "fe_groups:\n  g:\n    title: Good\n")

	imp := newTestImporter(t, adapter, Options{Now: fixedNow(1000)})
	stats, err := imp.Run(ctx, []string{broken, good})
	if err != nil {
		t.Fatalf("Run must not fail on a broken file: %v", err)
	}

	if stats.FilesFailed != 1 || stats.FilesProcessed != 1 {
		t.Errorf("Expected 1 failed + 1 processed file, got %+v", stats)
	}
	if stats.Inserted != 1 {
		t.Errorf("Expected good file to be imported, got %+v", stats)
	}
}

func TestRun_CountersAreSumOfFiles(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	dir := t.TempDir()

	a := writeDoc(t, dir, "a.yaml", "fe_groups:\n  g1:\n    title: A\n  g2:\n    title: B\n")
	b := writeDoc(t, dir, "b.yaml", "fe_groups:\n  g3:\n    title: C\n")

	imp := newTestImporter(t, adapter, Options{Now: fixedNow(1000)})
	stats, err := imp.Run(ctx, []string{a, b})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var updated, inserted, failed int
	for _, fs := range stats.Files {
		updated += fs.Updated
		inserted += fs.Inserted
		failed += fs.Failed
	}

	if stats.Updated != updated || stats.Inserted != inserted || stats.Failed != failed {
		t.Errorf("Run counters must equal the sum over files: %+v", stats)
	}
	if stats.Inserted != 3 {
		t.Errorf("Expected 3 inserts, got %d", stats.Inserted)
	}
}

func TestRun_DryRun(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	dir := t.TempDir()

	doc := writeDoc(t, dir, "groups.yaml", "fe_groups:\n  g:\n    title: A\n")

	imp := newTestImporter(t, adapter, Options{DryRun: true, Now: fixedNow(1000)})
	stats, err := imp.Run(ctx, []string{doc})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Inserted != 1 {
		t.Errorf("Dry run should count outcomes, got %+v", stats)
	}

	_, rows, err := adapter.ReadTable(ctx, "fe_groups")
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Dry run must not write, got %d rows", len(rows))
	}
}

func TestRun_StateSkipAndForce(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	dir := t.TempDir()

	doc := writeDoc(t, dir, "groups.yaml", "fe_groups:\n  g:\n    title: A\n")

	state, err := syncstate.NewManager(filepath.Join(dir, "state.json"), true)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	// Первый прогон импортирует и запоминает контрольную сумму
	imp := newTestImporter(t, adapter, Options{State: state, Now: fixedNow(1000)})
	stats, err := imp.Run(ctx, []string{doc})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Inserted != 1 || stats.FilesSkipped != 0 {
		t.Fatalf("Unexpected first run stats: %+v", stats)
	}

	// Второй прогон с тем же файлом пропускается
	imp = newTestImporter(t, adapter, Options{State: state, Now: fixedNow(2000)})
	stats, err = imp.Run(ctx, []string{doc})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.FilesSkipped != 1 || stats.Total() != 0 {
		t.Errorf("Expected file to be skipped, got %+v", stats)
	}

	// Force импортирует несмотря на неизменную сумму
	imp = newTestImporter(t, adapter, Options{State: state, Force: true, Now: fixedNow(3000)})
	stats, err = imp.Run(ctx, []string{doc})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.FilesSkipped != 0 || stats.Updated != 1 {
		t.Errorf("Expected forced update, got %+v", stats)
	}
}

func TestMatchClause(t *testing.T) {
	adapter := newTestAdapter(t)
	imp := newTestImporter(t, adapter, Options{MatchFields: []string{"title", "description"}})

	// Порядок условий следует порядку полей соответствия
	clause := imp.MatchClause(document.Record{
		"description": "d",
		"title":       "t",
		"other":       "x",
	})
	if len(clause) != 2 {
		t.Fatalf("Expected 2 conditions, got %d", len(clause))
	}
	if clause[0].Field != "title" || clause[1].Field != "description" {
		t.Errorf("Conditions out of order: %+v", clause)
	}

	// Отсутствующие в записи поля пропускаются
	clause = imp.MatchClause(document.Record{"description": "d"})
	if len(clause) != 1 || clause[0].Field != "description" {
		t.Errorf("Expected single description condition, got %+v", clause)
	}

	// Пустой набор условий - запись всегда вставляется
	clause = imp.MatchClause(document.Record{"other": "x"})
	if len(clause) != 0 {
		t.Errorf("Expected empty clause, got %+v", clause)
	}
}

func TestRun_EmptyClauseInserts(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	dir := t.TempDir()

	// Поле соответствия description отсутствует в записи: всегда вставка
	doc := writeDoc(t, dir, "groups.yaml", "fe_groups:\n  g:\n    title: A\n")

	imp := newTestImporter(t, adapter, Options{MatchFields: []string{"description"}, Now: fixedNow(1000)})

	for i := 0; i < 2; i++ {
		if _, err := imp.Run(ctx, []string{doc}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	}

	_, rows, err := adapter.ReadTable(ctx, "fe_groups")
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 inserted rows, got %d", len(rows))
	}
}

func TestStampTimestamps(t *testing.T) {
	rec := document.Record{"title": "A"}
	now := time.Unix(4242, 0)

	// Несопоставленная запись: обе отметки
	out := StampTimestamps(rec, now, "tstamp", "crdate")
	if out["tstamp"] != int64(4242) || out["crdate"] != int64(4242) {
		t.Errorf("Expected both stamps, got %v", out)
	}

	// Сопоставленная запись: только tstamp
	out = StampTimestamps(rec, now, "tstamp", "")
	if out["tstamp"] != int64(4242) {
		t.Errorf("Expected tstamp, got %v", out)
	}
	if _, ok := out["crdate"]; ok {
		t.Error("crdate must not be stamped for matched records")
	}

	// Функция чистая: исходная запись не изменяется
	if _, ok := rec["tstamp"]; ok {
		t.Error("StampTimestamps modified the source record")
	}
}
