package etl

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// SourceConfig определяет CSV-источник данных.
// Поддерживаемые схемы URL: http, https, file (или путь без схемы), s3.
type SourceConfig struct {
	Name     string   `yaml:"name"`      // Имя источника (используется как имя таблицы в workspace)
	URL      string   `yaml:"url"`       // Адрес CSV: https://..., file:///..., s3://bucket/key или путь
	Encoding string   `yaml:"encoding"`  // Кодировка: cp1252, latin1, utf-8
	NAValues []string `yaml:"na_values"` // Токены, которые превращаются в NULL
	Timeout  int      `yaml:"timeout"`   // Таймаут загрузки в секундах (0 = 60 по умолчанию)
	Checksum string   `yaml:"checksum"`  // Ожидаемый xxh3 сырых байт; пусто = не проверяется
	S3       S3Config `yaml:"s3"`        // Только для s3:// источников
}

// S3Config содержит параметры доступа к S3-совместимому хранилищу.
// Пустые AccessKey/SecretKey — используется стандартная цепочка учетных данных AWS.
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // Для MinIO и других S3-совместимых хранилищ
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// ResultLogConfig определяет параметры публикации результата сборки дашборда
// Позволяет оркестратору отслеживать состояния через Redis (GET/SUBSCRIBE)
type ResultLogConfig struct {
	Type     string `yaml:"type"`     // Тип: redis (пустое = отключено)
	Address  string `yaml:"address"`  // Адрес Redis, например "127.0.0.1:6379"
	Name     string `yaml:"name"`     // Имя результата (ключ/канал), например "GSS_2018"
	Password string `yaml:"password"` // Пароль Redis (опционально)
	DB       int    `yaml:"db"`       // Индекс базы данных Redis (по умолчанию 0)
	TTL      int    `yaml:"ttl"`      // TTL ключа в секундах (по умолчанию 3600)
}

// Scheme возвращает схему URL источника. Путь без схемы считается file.
func (s *SourceConfig) Scheme() string {
	u, err := url.Parse(s.URL)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 { // C:\data.csv
		return "file"
	}
	return strings.ToLower(u.Scheme)
}

// Validate проверяет корректность SourceConfig
func (s *SourceConfig) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}

	switch s.Scheme() {
	case "http", "https", "file":
	case "s3":
		if _, _, err := parseS3URL(s.URL); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported url scheme '%s', must be one of: http, https, file, s3", s.Scheme())
	}

	if s.Encoding != "" {
		if _, err := htmlindex.Get(s.Encoding); err != nil {
			return fmt.Errorf("unsupported encoding '%s': %w", s.Encoding, err)
		}
	}

	if s.Timeout < 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// SetDefaults устанавливает значения по умолчанию для необязательных полей
func (s *SourceConfig) SetDefaults() {
	if s.Encoding == "" {
		s.Encoding = "utf-8"
	}
	if s.Timeout == 0 {
		s.Timeout = 60 // 60 секунд по умолчанию
	}
	if s.Scheme() == "s3" && s.S3.Region == "" {
		s.S3.Region = "us-east-1"
	}
}

// Validate проверяет корректность ResultLogConfig
func (r *ResultLogConfig) Validate() error {
	if r.Type == "" || r.Type == "none" {
		return nil
	}
	if r.Type != "redis" {
		return fmt.Errorf("unsupported type '%s', must be 'redis'", r.Type)
	}
	if r.Address == "" {
		return fmt.Errorf("address is required when type is 'redis'")
	}
	if r.Name == "" {
		return fmt.Errorf("name is required when type is 'redis'")
	}
	return nil
}

// Enabled сообщает, включена ли публикация результата
func (r *ResultLogConfig) Enabled() bool {
	return r.Type == "redis"
}
