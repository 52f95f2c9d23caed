package resultlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ruslano69/gssdash/pkg/etl"
)

// defaultTTL используется, если ttl в конфигурации не задан
const defaultTTL = time.Hour

// Stats — итоги сборки дашборда, собираемые при старте
type Stats struct {
	StartTime           time.Time
	EndTime             time.Time
	RowsLoaded          int
	Artifacts           int
	DegenerateArtifacts int
	SourceChecksum      string
	PageChecksum        string
}

// BuildResult представляет состояние сборки дашборда, публикуемое в Redis
// после завершения (успешного или с ошибкой).
//
// Redis-ключи:
//
//	SET  gssdash:build:<name>:state  <JSON>  EX <ttl>  — для GET-запросов оркестратора
//	PUB  gssdash:build:<name>                          — для event-driven маршрутизации
type BuildResult struct {
	DashboardName       string    `json:"dashboard_name"`
	ResultName          string    `json:"result_name"`
	Status              string    `json:"status"` // "success" | "failed"
	StartedAt           time.Time `json:"started_at"`
	FinishedAt          time.Time `json:"finished_at"`
	DurationMs          int64     `json:"duration_ms"`
	RowsLoaded          int       `json:"rows_loaded"`
	Artifacts           int       `json:"artifacts"`
	DegenerateArtifacts int       `json:"degenerate_artifacts"`
	SourceChecksum      string    `json:"source_checksum,omitempty"`
	PageChecksum        string    `json:"page_checksum,omitempty"`
	Error               *string   `json:"error,omitempty"`
}

// RedisPublisher публикует результат сборки в Redis
type RedisPublisher struct {
	client *redis.Client
	config etl.ResultLogConfig
}

// NewRedisPublisher создает новый Redis publisher на основе конфигурации
func NewRedisPublisher(config etl.ResultLogConfig) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})
	return &RedisPublisher{client: client, config: config}
}

// StateKey возвращает ключ последнего состояния
func (p *RedisPublisher) StateKey() string {
	return fmt.Sprintf("gssdash:build:%s:state", p.config.Name)
}

// Channel возвращает канал событий
func (p *RedisPublisher) Channel() string {
	return fmt.Sprintf("gssdash:build:%s", p.config.Name)
}

// Publish публикует результат сборки:
//   - SET gssdash:build:<name>:state <JSON> EX <ttl>  → для опроса (polling)
//   - PUBLISH gssdash:build:<name> <JSON>              → для подписки (pub/sub)
//
// Вызывается независимо от результата (success или failed).
// buildErr == nil означает успешную сборку.
func (p *RedisPublisher) Publish(ctx context.Context, dashboardName string, stats Stats, buildErr error) error {
	result := BuildResult{
		DashboardName:       dashboardName,
		ResultName:          p.config.Name,
		StartedAt:           stats.StartTime,
		FinishedAt:          stats.EndTime,
		DurationMs:          stats.EndTime.Sub(stats.StartTime).Milliseconds(),
		RowsLoaded:          stats.RowsLoaded,
		Artifacts:           stats.Artifacts,
		DegenerateArtifacts: stats.DegenerateArtifacts,
		SourceChecksum:      stats.SourceChecksum,
		PageChecksum:        stats.PageChecksum,
	}

	if buildErr != nil {
		result.Status = "failed"
		errStr := buildErr.Error()
		result.Error = &errStr
	} else {
		result.Status = "success"
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	ttl := time.Duration(p.config.TTL) * time.Second
	if ttl <= 0 {
		ttl = defaultTTL
	}

	// SET ключ с TTL — оркестратор может GET для получения последнего состояния
	if err := p.client.Set(ctx, p.StateKey(), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}

	// PUBLISH событие — оркестратор может SUBSCRIBE для event-driven маршрутизации
	if err := p.client.Publish(ctx, p.Channel(), payload).Err(); err != nil {
		return fmt.Errorf("redis PUBLISH failed: %w", err)
	}

	return nil
}

// Close закрывает соединение с Redis
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
