package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ruslano69/gssdash/pkg/chart"
	"github.com/ruslano69/gssdash/pkg/dashboard"
	"github.com/ruslano69/gssdash/pkg/etl"
	"github.com/ruslano69/gssdash/pkg/processors"
)

const defaultPort = 8050

// ServeConfig — конфигурация gssdash
type ServeConfig struct {
	Server     ServerSection       `yaml:"server"`
	Source     etl.SourceConfig    `yaml:"source"`
	Columns    []string            `yaml:"columns"` // переопределяет проекцию цепочки по умолчанию
	Rename     map[string]string   `yaml:"rename"`
	Processors []processors.Config `yaml:"processors"`
	Theme      ThemeSection        `yaml:"theme"`
	Page       PageSection         `yaml:"page"`
	ResultLog  etl.ResultLogConfig `yaml:"result_log"`

	// InMemoryAggregates считает агрегаты в Go вместо SQLite-представлений
	InMemoryAggregates bool `yaml:"in_memory_aggregates"`
}

// ServerSection — параметры HTTP сервера
type ServerSection struct {
	Name         string        `yaml:"name"`  // имя дашборда в логах и result_log
	Port         int           `yaml:"port"`  // HTTP порт, по умолчанию 8050
	Debug        bool          `yaml:"debug"` // подробные ошибки и no-store кеширование
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ThemeSection — цвета оформления #RRGGBB
type ThemeSection struct {
	Background string `yaml:"background"`
	Font       string `yaml:"font"`
}

// PageSection — заголовок и вводный текст страницы
type PageSection struct {
	Title       string `yaml:"title"`
	ContextFile string `yaml:"context_file"` // Markdown для вкладки Overview
}

// defaultConfig возвращает конфигурацию, с которой дашборд строится без файла
func defaultConfig() *ServeConfig {
	return &ServeConfig{
		Server: ServerSection{Name: "gssdash"},
		Source: dashboard.DefaultSource(),
		Theme: ThemeSection{
			Background: chart.DefaultBackground,
			Font:       chart.DefaultFont,
		},
	}
}

// loadConfig читает YAML поверх значений по умолчанию и валидирует результат.
// Пустой path означает конфигурацию по умолчанию.
func loadConfig(path string) (*ServeConfig, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *ServeConfig) validate() error {
	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if _, err := chart.ParseTheme(c.Theme.Background, c.Theme.Font); err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	if err := c.ResultLog.Validate(); err != nil {
		return fmt.Errorf("result_log: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port %d", c.Server.Port)
	}
	if len(c.Processors) > 0 && (len(c.Columns) > 0 || len(c.Rename) > 0) {
		return fmt.Errorf("columns/rename cannot be combined with an explicit processors list")
	}
	for i, p := range c.Processors {
		if p.Type == "" {
			return fmt.Errorf("processors[%d]: type is required", i)
		}
	}
	return nil
}

func (c *ServeConfig) setDefaults() {
	if c.Server.Name == "" {
		c.Server.Name = "gssdash"
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.ResultLog.Enabled() && c.ResultLog.Name == "" {
		c.ResultLog.Name = c.Server.Name
	}
	c.Source.SetDefaults()

	if len(c.Processors) == 0 {
		c.Processors = dashboard.DefaultProcessors()
		c.overrideProjection()
	}
}

// overrideProjection подставляет columns/rename в проектор цепочки по умолчанию
func (c *ServeConfig) overrideProjection() {
	for i := range c.Processors {
		if c.Processors[i].Type != "column_projector" {
			continue
		}
		if len(c.Columns) > 0 {
			c.Processors[i].Params["columns"] = c.Columns
		}
		if len(c.Rename) > 0 {
			c.Processors[i].Params["rename"] = c.Rename
		}
		return
	}
}

// dashboardOptions переводит конфигурацию в параметры сборки
func (c *ServeConfig) dashboardOptions() (dashboard.Options, error) {
	theme, err := chart.ParseTheme(c.Theme.Background, c.Theme.Font)
	if err != nil {
		return dashboard.Options{}, err
	}

	opts := dashboard.Options{
		Name:               c.Server.Name,
		Source:             c.Source,
		Processors:         c.Processors,
		Theme:              theme,
		Title:              c.Page.Title,
		InMemoryAggregates: c.InMemoryAggregates,
	}
	if c.Page.ContextFile != "" {
		data, err := os.ReadFile(c.Page.ContextFile)
		if err != nil {
			return dashboard.Options{}, fmt.Errorf("failed to read context file: %w", err)
		}
		opts.Context = string(data)
	}
	return opts, nil
}
