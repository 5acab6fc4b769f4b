package audit

import (
	"encoding/json"
	"time"
)

// Operation - тип операции
type Operation string

const (
	OpImport   Operation = "import"   // Импорт файла
	OpExport   Operation = "export"   // Экспорт таблицы
	OpValidate Operation = "validate" // Валидация match-полей
	OpUpdate   Operation = "update"   // Обновление строки
	OpInsert   Operation = "insert"   // Вставка строки
	OpSkip     Operation = "skip"     // Пропуск неизмененного файла
)

// Status - статус выполнения операции
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusPartial Status = "partial"
)

// Entry - запись в audit логе
type Entry struct {
	// Timestamp - время операции
	Timestamp time.Time `json:"timestamp"`

	// Operation - тип операции
	Operation Operation `json:"operation"`

	// Status - статус выполнения
	Status Status `json:"status"`

	// Table - целевая таблица
	Table string `json:"table,omitempty"`

	// File - обрабатываемый файл
	File string `json:"file,omitempty"`

	// RecordsAffected - количество затронутых записей
	RecordsAffected int64 `json:"records_affected,omitempty"`

	// Duration - длительность операции
	Duration time.Duration `json:"duration,omitempty"`

	// ErrorMessage - сообщение об ошибке
	ErrorMessage string `json:"error_message,omitempty"`

	// Metadata - дополнительные метаданные (счетчики, match-поля и т.д.)
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewEntry - создать новую audit запись
func NewEntry(operation Operation, status Status) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Operation: operation,
		Status:    status,
	}
}

// WithTable - установить таблицу
func (e *Entry) WithTable(table string) *Entry {
	e.Table = table
	return e
}

// WithFile - установить файл
func (e *Entry) WithFile(file string) *Entry {
	e.File = file
	return e
}

// WithRecordsAffected - установить количество записей
func (e *Entry) WithRecordsAffected(count int64) *Entry {
	e.RecordsAffected = count
	return e
}

// WithDuration - установить длительность
func (e *Entry) WithDuration(duration time.Duration) *Entry {
	e.Duration = duration
	return e
}

// WithError - установить ошибку
func (e *Entry) WithError(err error) *Entry {
	if err != nil {
		e.ErrorMessage = err.Error()
		e.Status = StatusFailure
	}
	return e
}

// WithMetadata - добавить метаданные
func (e *Entry) WithMetadata(key string, value any) *Entry {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// ToJSON - преобразовать в JSON
func (e *Entry) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
