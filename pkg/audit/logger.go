// Package audit реализует журнал операций импорта/экспорта.
// Каждая операция (запуск, файл, запись) фиксируется отдельной
// JSON-записью, что позволяет восстановить историю изменений
// справочных данных в БД.
package audit

import (
	"sync"
)

// Logger - логгер аудита, пишущий во все подключенные appenders.
// Безопасен для конкурентного использования; nil *Logger игнорирует
// все вызовы, поэтому аудит можно не включать.
type Logger struct {
	mu        sync.Mutex
	appenders []Appender
	onError   func(error)
}

// NewLogger - создать новый audit logger
// onError вызывается при ошибке записи (может быть nil)
func NewLogger(onError func(error), appenders ...Appender) *Logger {
	return &Logger{
		appenders: appenders,
		onError:   onError,
	}
}

// Log - записать entry во все appenders
func (l *Logger) Log(entry *Entry) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, appender := range l.appenders {
		if err := appender.Append(entry); err != nil && l.onError != nil {
			l.onError(err)
		}
	}
}

// LogSuccess - записать успешную операцию
func (l *Logger) LogSuccess(operation Operation) *Entry {
	entry := NewEntry(operation, StatusSuccess)
	l.Log(entry)
	return entry
}

// LogFailure - записать неуспешную операцию
func (l *Logger) LogFailure(operation Operation, err error) *Entry {
	entry := NewEntry(operation, StatusFailure).WithError(err)
	l.Log(entry)
	return entry
}

// Close - закрыть все appenders
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, appender := range l.appenders {
		if err := appender.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
