package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Appender - приемник audit записей
type Appender interface {
	Append(entry *Entry) error
	Close() error
}

// FileAppender - запись audit лога в файл в формате JSON lines
type FileAppender struct {
	mu       sync.Mutex
	file     *os.File
	filePath string
}

// NewFileAppender - создать file appender
func NewFileAppender(filePath string) (*FileAppender, error) {
	// Создаем директорию если не существует
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}

	return &FileAppender{
		file:     file,
		filePath: filePath,
	}, nil
}

// Append - записать entry в файл
func (fa *FileAppender) Append(entry *Entry) error {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	data, err := entry.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	data = append(data, '\n')

	if _, err := fa.file.Write(data); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}

	return nil
}

// Close - закрыть файл
func (fa *FileAppender) Close() error {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	if fa.file != nil {
		return fa.file.Close()
	}
	return nil
}
