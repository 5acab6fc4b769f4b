// Package importer реализует сверку YAML документов с таблицами БД.
//
// Каждая запись документа сопоставляется с существующей строкой таблицы
// по настраиваемому набору полей соответствия (match fields). Найденная
// строка обновляется, отсутствующая — вставляется. Поля соответствия
// проверяются против реальных колонок таблицы до начала прогона.
//
// Пример использования:
//
//	imp, err := importer.New(adapter, importer.Options{
//		Table:       "fe_groups",
//		MatchFields: []string{"title"},
//	})
//	if err != nil {
//		return err
//	}
//	stats, err := imp.Run(ctx, []string{"groups.yaml"})
package importer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/MaxServ/tablesync/pkg/adapters"
	"github.com/MaxServ/tablesync/pkg/audit"
	"github.com/MaxServ/tablesync/pkg/document"
	"github.com/MaxServ/tablesync/pkg/syncstate"
)

// Options определяет параметры прогона импорта.
type Options struct {
	// Table — целевая таблица БД.
	Table string

	// MatchFields — упорядоченный набор полей соответствия.
	// Каждое поле должно существовать как колонка таблицы.
	MatchFields []string

	// Delimiter — разделитель при склейке списочных значений.
	// По умолчанию document.DefaultDelimiter.
	Delimiter string

	// ModifiedField — колонка отметки времени изменения (по умолчанию "tstamp").
	ModifiedField string

	// CreatedField — колонка отметки времени создания (по умолчанию "crdate").
	CreatedField string

	// DryRun — разрешить чтение, но не выполнять записи.
	DryRun bool

	// Force — импортировать файл даже при совпадении контрольной суммы.
	Force bool

	// Now — источник текущего времени (для тестов). По умолчанию time.Now.
	Now func() time.Time

	// State — менеджер состояния для пропуска неизменённых файлов (опционально).
	State *syncstate.Manager

	// Audit — журнал аудита (опционально).
	Audit *audit.Logger
}

// Importer выполняет сверку документов с таблицей через адаптер БД.
type Importer struct {
	adapter adapters.Adapter
	opts    Options

	// Заполняется ValidateMatchFields.
	columns     map[string]struct{}
	hasModified bool
	hasCreated  bool

	// FileDone вызывается после обработки каждого файла (опционально).
	FileDone func(FileStats)
}

// New создаёт Importer с проверкой обязательных параметров.
func New(adapter adapters.Adapter, opts Options) (*Importer, error) {
	if adapter == nil {
		return nil, fmt.Errorf("adapter is required")
	}
	if opts.Table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	if len(opts.MatchFields) == 0 {
		return nil, fmt.Errorf("at least one match field is required")
	}
	if opts.Delimiter == "" {
		opts.Delimiter = document.DefaultDelimiter
	}
	if opts.ModifiedField == "" {
		opts.ModifiedField = "tstamp"
	}
	if opts.CreatedField == "" {
		opts.CreatedField = "crdate"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Importer{
		adapter: adapter,
		opts:    opts,
	}, nil
}

// ValidateMatchFields проверяет, что все поля соответствия существуют
// как колонки целевой таблицы. Ошибка фатальна: прогон не начинается.
func (im *Importer) ValidateMatchFields(ctx context.Context) error {
	columns, err := im.adapter.GetTableColumns(ctx, im.opts.Table)
	if err != nil {
		return fmt.Errorf("failed to get columns of table %s: %w", im.opts.Table, err)
	}

	im.columns = make(map[string]struct{}, len(columns))
	for _, col := range columns {
		im.columns[col] = struct{}{}
	}

	for _, field := range im.opts.MatchFields {
		if _, ok := im.columns[field]; !ok {
			return fmt.Errorf("match field %q does not exist in table %s", field, im.opts.Table)
		}
	}

	// Отметки времени ставятся только в реально существующие колонки.
	_, im.hasModified = im.columns[im.opts.ModifiedField]
	_, im.hasCreated = im.columns[im.opts.CreatedField]

	return nil
}

// Run выполняет импорт перечисленных файлов и возвращает сводную статистику.
//
// Ошибка валидации полей соответствия прерывает прогон до каких-либо
// записей. Ошибки разбора отдельных файлов и ошибки отдельных записей
// не фатальны: файл или запись пропускается, прогон продолжается.
func (im *Importer) Run(ctx context.Context, paths []string) (*RunStats, error) {
	stats := &RunStats{
		Table:     im.opts.Table,
		StartTime: im.opts.Now(),
	}

	if err := im.ValidateMatchFields(ctx); err != nil {
		im.opts.Audit.Log(audit.NewEntry(audit.OpValidate, audit.StatusFailure).
			WithTable(im.opts.Table).
			WithError(err))
		stats.finish(im.opts.Now())
		return stats, err
	}

	for _, path := range paths {
		fs := im.importFile(ctx, path)
		stats.add(fs)

		if im.FileDone != nil {
			im.FileDone(fs)
		}
	}

	stats.finish(im.opts.Now())
	return stats, nil
}

// importFile обрабатывает один файл документа.
func (im *Importer) importFile(ctx context.Context, path string) FileStats {
	fs := FileStats{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		fs.Err = fmt.Errorf("failed to read %s: %w", path, err)
		im.auditFile(fs)
		return fs
	}

	fs.Checksum = document.Checksum(data)
	if im.opts.State != nil && !im.opts.Force && im.opts.State.Unchanged(path, fs.Checksum) {
		fs.Skipped = true
		im.auditFile(fs)
		return fs
	}

	doc, err := document.ParseFile(path, data)
	if err != nil {
		fs.Err = err
		im.auditFile(fs)
		return fs
	}

	records, err := doc.Records(im.opts.Table)
	if err != nil {
		fs.Err = fmt.Errorf("invalid section %s in %s: %w", im.opts.Table, path, err)
		im.auditFile(fs)
		return fs
	}

	for i, rec := range records {
		fs.Records++

		outcome, err := im.Apply(ctx, rec)
		switch {
		case err != nil:
			fs.Failed++
			fs.Errors = append(fs.Errors, fmt.Sprintf("record %d: %v", i+1, err))
		case outcome == OutcomeUpdated:
			fs.Updated++
		case outcome == OutcomeInserted:
			fs.Inserted++
		default:
			fs.Failed++
			fs.Errors = append(fs.Errors, fmt.Sprintf("record %d: update affected no rows", i+1))
		}
	}

	if im.opts.State != nil && !im.opts.DryRun && fs.Failed == 0 {
		if err := im.opts.State.UpdateState(path, fs.Checksum, fs.Updated, fs.Inserted); err != nil {
			fs.Errors = append(fs.Errors, fmt.Sprintf("failed to save state: %v", err))
		}
	}

	im.auditFile(fs)
	return fs
}

// Apply проводит одну запись через полный цикл: сплющивание,
// сопоставление, простановка отметок времени и ровно одна запись в БД.
func (im *Importer) Apply(ctx context.Context, rec document.Record) (Outcome, error) {
	if bad := document.MappingFields(rec); len(bad) > 0 {
		return OutcomeFailed, fmt.Errorf("nested mapping in field(s) %v is not importable", bad)
	}

	flat := document.Flatten(rec, im.opts.Delimiter)

	clause := im.MatchClause(flat)
	_, matched, err := im.Resolve(ctx, clause)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to match record: %w", err)
	}

	stamped := im.stamp(flat, matched)

	if im.opts.DryRun {
		if matched {
			return OutcomeUpdated, nil
		}
		return OutcomeInserted, nil
	}

	if matched {
		affected, err := im.adapter.Update(ctx, im.opts.Table, adapters.Values(stamped), clause)
		if err != nil {
			return OutcomeFailed, fmt.Errorf("failed to update record: %w", err)
		}
		if affected == 0 {
			return OutcomeFailed, nil
		}
		return OutcomeUpdated, nil
	}

	if err := im.adapter.Insert(ctx, im.opts.Table, adapters.Values(stamped)); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to insert record: %w", err)
	}
	return OutcomeInserted, nil
}

// MatchClause строит условия поиска по полям соответствия в их порядке.
// Поля, отсутствующие в записи, пропускаются.
func (im *Importer) MatchClause(rec document.Record) []adapters.Condition {
	conds := make([]adapters.Condition, 0, len(im.opts.MatchFields))
	for _, field := range im.opts.MatchFields {
		if value, ok := rec[field]; ok {
			conds = append(conds, adapters.Condition{Field: field, Value: value})
		}
	}
	return conds
}

// Resolve ищет существующую строку по условиям соответствия.
// Пустой набор условий означает отсутствие соответствия: запись вставляется.
func (im *Importer) Resolve(ctx context.Context, conds []adapters.Condition) (adapters.Row, bool, error) {
	if len(conds) == 0 {
		return nil, false, nil
	}
	return im.adapter.FindOne(ctx, im.opts.Table, conds)
}

// stamp проставляет отметки времени в существующие колонки таблицы.
func (im *Importer) stamp(rec document.Record, matched bool) document.Record {
	modified, created := "", ""
	if im.hasModified {
		modified = im.opts.ModifiedField
	}
	if im.hasCreated && !matched {
		created = im.opts.CreatedField
	}
	return StampTimestamps(rec, im.opts.Now(), modified, created)
}

// StampTimestamps возвращает копию записи с отметками времени в формате
// unix-секунд. Пустое имя поля означает, что отметка не ставится.
func StampTimestamps(rec document.Record, now time.Time, modifiedField, createdField string) document.Record {
	out := make(document.Record, len(rec)+2)
	for k, v := range rec {
		out[k] = v
	}

	unix := now.Unix()
	if modifiedField != "" {
		out[modifiedField] = unix
	}
	if createdField != "" {
		out[createdField] = unix
	}
	return out
}

// auditFile пишет итог обработки файла в журнал аудита.
func (im *Importer) auditFile(fs FileStats) {
	if im.opts.Audit == nil {
		return
	}

	entry := audit.NewEntry(audit.OpImport, audit.StatusSuccess).
		WithTable(im.opts.Table).
		WithFile(fs.Path).
		WithRecordsAffected(int64(fs.Updated + fs.Inserted)).
		WithMetadata("updated", fs.Updated).
		WithMetadata("inserted", fs.Inserted).
		WithMetadata("failed", fs.Failed)

	switch {
	case fs.Skipped:
		entry.Operation = audit.OpSkip
	case fs.Err != nil:
		entry.Status = audit.StatusFailure
		entry.ErrorMessage = fs.Err.Error()
	case fs.Failed > 0:
		entry.Status = audit.StatusPartial
	}

	im.opts.Audit.Log(entry)
}
