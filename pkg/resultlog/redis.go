package resultlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MaxServ/tablesync/pkg/importer"
)

// Config - параметры публикации результата импорта в Redis
type Config struct {
	Enabled  bool   `yaml:"enabled"`
	Name     string `yaml:"name"` // логическое имя импорта
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      int    `yaml:"ttl"` // секунды жизни state-ключа
}

// SetDefaults устанавливает значения по умолчанию.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = "localhost:6379"
	}
	if c.TTL == 0 {
		c.TTL = 3600
	}
}

// Validate проверяет корректность конфигурации.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Name == "" {
		return fmt.Errorf("result_log: name is required")
	}
	return nil
}

// ImportResult представляет итог прогона импорта, публикуемый в Redis
// после завершения (успешного или с ошибкой).
//
// Redis-ключи:
//
//	SET  tablesync:import:<name>:state  <JSON>  EX <ttl>  — для GET-запросов оркестратора
//	PUB  tablesync:import:<name>                          — для event-driven маршрутизации
type ImportResult struct {
	ImportName     string    `json:"import_name"`
	Table          string    `json:"table"`
	Status         string    `json:"status"` // "success" | "failed"
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	DurationMs     int64     `json:"duration_ms"`
	FilesProcessed int       `json:"files_processed"`
	FilesSkipped   int       `json:"files_skipped"`
	RowsUpdated    int       `json:"rows_updated"`
	RowsInserted   int       `json:"rows_inserted"`
	RowsFailed     int       `json:"rows_failed"`
	Error          *string   `json:"error,omitempty"`
}

// RedisPublisher публикует результат прогона импорта в Redis
type RedisPublisher struct {
	client *redis.Client
	config Config
}

// NewRedisPublisher создает новый Redis publisher на основе конфигурации
func NewRedisPublisher(config Config) *RedisPublisher {
	config.SetDefaults()
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})
	return &RedisPublisher{client: client, config: config}
}

// Publish публикует итог прогона импорта:
//   - SET tablesync:import:<name>:state <JSON> EX <ttl>  → для опроса (polling)
//   - PUBLISH tablesync:import:<name> <JSON>             → для подписки (pub/sub)
//
// Вызывается независимо от исхода прогона. execErr == nil означает успех.
func (p *RedisPublisher) Publish(ctx context.Context, stats *importer.RunStats, execErr error) error {
	result := ImportResult{
		ImportName:     p.config.Name,
		Table:          stats.Table,
		StartedAt:      stats.StartTime,
		FinishedAt:     stats.EndTime,
		DurationMs:     stats.Duration.Milliseconds(),
		FilesProcessed: stats.FilesProcessed,
		FilesSkipped:   stats.FilesSkipped,
		RowsUpdated:    stats.Updated,
		RowsInserted:   stats.Inserted,
		RowsFailed:     stats.Failed,
	}

	if execErr != nil {
		result.Status = "failed"
		errStr := execErr.Error()
		result.Error = &errStr
	} else {
		result.Status = "success"
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	stateKey := fmt.Sprintf("tablesync:import:%s:state", p.config.Name)
	eventChannel := fmt.Sprintf("tablesync:import:%s", p.config.Name)
	ttl := time.Duration(p.config.TTL) * time.Second

	// SET ключ с TTL — оркестратор может GET для получения последнего состояния
	if err := p.client.Set(ctx, stateKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}

	// PUBLISH событие — оркестратор может SUBSCRIBE для event-driven маршрутизации
	if err := p.client.Publish(ctx, eventChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis PUBLISH failed: %w", err)
	}

	return nil
}

// Close закрывает соединение с Redis
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
