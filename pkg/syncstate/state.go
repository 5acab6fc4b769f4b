// Package syncstate хранит состояние импорта между запусками.
// По контрольной сумме файла определяет, изменился ли документ
// с прошлого импорта, чтобы не обрабатывать его повторно.
package syncstate

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// FileState представляет состояние импорта для конкретного файла
type FileState struct {
	Path       string    `json:"path"`
	Checksum   string    `json:"checksum"`    // xxh3 хеш содержимого файла (hex)
	ImportedAt time.Time `json:"imported_at"` // Время последнего успешного импорта
	Updated    int       `json:"updated"`     // Обновлено строк при последнем импорте
	Inserted   int       `json:"inserted"`    // Вставлено строк при последнем импорте
}

// Manager управляет состоянием импорта для нескольких файлов
type Manager struct {
	mu        sync.RWMutex
	states    map[string]*FileState // path -> state
	stateFile string                // Путь к файлу состояния
	autoSave  bool                  // Автоматически сохранять при изменениях
}

// NewManager создает новый менеджер состояния
func NewManager(stateFile string, autoSave bool) (*Manager, error) {
	m := &Manager{
		states:    make(map[string]*FileState),
		stateFile: stateFile,
		autoSave:  autoSave,
	}

	// Загружаем существующее состояние если файл существует
	if _, err := os.Stat(stateFile); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load state: %w", err)
		}
	}

	return m, nil
}

// Unchanged проверяет, совпадает ли контрольная сумма файла с сохраненной.
// Для файла без сохраненного состояния всегда false.
func (m *Manager) Unchanged(path, checksum string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, exists := m.states[path]
	return exists && state.Checksum == checksum
}

// GetState возвращает копию состояния для файла или nil если его нет
func (m *Manager) GetState(path string) *FileState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, exists := m.states[path]
	if !exists {
		return nil
	}

	// Возвращаем копию чтобы избежать race conditions
	stateCopy := *state
	return &stateCopy
}

// UpdateState фиксирует успешный импорт файла
func (m *Manager) UpdateState(path, checksum string, updated, inserted int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[path] = &FileState{
		Path:       path,
		Checksum:   checksum,
		ImportedAt: time.Now(),
		Updated:    updated,
		Inserted:   inserted,
	}

	if m.autoSave {
		return m.saveUnsafe()
	}

	return nil
}

// Reset сбрасывает состояние для файла (для принудительного ре-импорта)
func (m *Manager) Reset(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, path)

	if m.autoSave {
		return m.saveUnsafe()
	}

	return nil
}

// ResetAll сбрасывает все состояния
func (m *Manager) ResetAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states = make(map[string]*FileState)

	if m.autoSave {
		return m.saveUnsafe()
	}

	return nil
}

// Save сохраняет состояние в файл
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveUnsafe()
}

// saveUnsafe сохраняет без блокировки (вызывается когда lock уже взят)
func (m *Manager) saveUnsafe() error {
	data, err := json.MarshalIndent(m.states, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(m.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// Load загружает состояние из файла
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.stateFile)
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	states := make(map[string]*FileState)
	if err := json.Unmarshal(data, &states); err != nil {
		return fmt.Errorf("failed to unmarshal state: %w", err)
	}

	m.states = states
	return nil
}

// GetAllStates возвращает копии всех состояний
func (m *Manager) GetAllStates() map[string]*FileState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]*FileState)
	for k, v := range m.states {
		stateCopy := *v
		result[k] = &stateCopy
	}

	return result
}

// GetStatePath возвращает путь к файлу состояния
func (m *Manager) GetStatePath() string {
	return m.stateFile
}
