// Package notify публикует итоги прогона импорта в очередь сообщений.
//
// Поддерживаются RabbitMQ и Apache Kafka. Публикация односторонняя:
// пакет только отправляет события, потребление остается за внешними
// системами (оркестраторы, мониторинг).
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MaxServ/tablesync/pkg/importer"
)

// Publisher представляет универсальный интерфейс публикации событий
type Publisher interface {
	// Connect устанавливает соединение с брокером
	Connect(ctx context.Context) error

	// Close закрывает соединение с брокером
	Close() error

	// Send отправляет событие (JSON) в очередь/топик
	Send(ctx context.Context, message []byte) error

	// Ping проверяет доступность брокера
	Ping(ctx context.Context) error

	// GetBrokerType возвращает тип брокера (rabbitmq, kafka)
	GetBrokerType() string
}

// Config содержит параметры подключения к message broker
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Type    string `yaml:"type"` // rabbitmq, kafka

	// RabbitMQ
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Queue    string `yaml:"queue"`
	VHost    string `yaml:"vhost"`
	UseTLS   bool   `yaml:"use_tls"`

	// Параметры очереди RabbitMQ (должны совпадать с существующей очередью!)
	Durable    bool `yaml:"durable"`
	AutoDelete bool `yaml:"auto_delete"`
	Exclusive  bool `yaml:"exclusive"`

	// Kafka
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// New создает новый Publisher на основе конфигурации
func New(cfg Config) (Publisher, error) {
	switch cfg.Type {
	case "rabbitmq":
		return NewRabbitMQ(cfg)
	case "kafka":
		return NewKafka(cfg)
	default:
		return nil, fmt.Errorf("unsupported broker type: %s (supported: rabbitmq, kafka)", cfg.Type)
	}
}

// Event - событие завершения прогона импорта
type Event struct {
	Table          string    `json:"table"`
	Status         string    `json:"status"` // "success" | "failed"
	FinishedAt     time.Time `json:"finished_at"`
	DurationMs     int64     `json:"duration_ms"`
	FilesProcessed int       `json:"files_processed"`
	FilesSkipped   int       `json:"files_skipped"`
	RowsUpdated    int       `json:"rows_updated"`
	RowsInserted   int       `json:"rows_inserted"`
	RowsFailed     int       `json:"rows_failed"`
	Error          string    `json:"error,omitempty"`
}

// PublishResult формирует событие из статистики прогона и отправляет его.
// execErr == nil означает успешное выполнение.
func PublishResult(ctx context.Context, p Publisher, stats *importer.RunStats, execErr error) error {
	event := Event{
		Table:          stats.Table,
		Status:         "success",
		FinishedAt:     stats.EndTime,
		DurationMs:     stats.Duration.Milliseconds(),
		FilesProcessed: stats.FilesProcessed,
		FilesSkipped:   stats.FilesSkipped,
		RowsUpdated:    stats.Updated,
		RowsInserted:   stats.Inserted,
		RowsFailed:     stats.Failed,
	}
	if execErr != nil {
		event.Status = "failed"
		event.Error = execErr.Error()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.Send(ctx, payload); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
