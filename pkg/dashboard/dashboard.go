// Package dashboard выполняет стартовый пайплайн один раз и возвращает
// неизменяемый Dashboard: загрузка → очистка → агрегаты → артефакты → страница.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ruslano69/gssdash/pkg/aggregate"
	"github.com/ruslano69/gssdash/pkg/chart"
	"github.com/ruslano69/gssdash/pkg/core/table"
	"github.com/ruslano69/gssdash/pkg/etl"
	"github.com/ruslano69/gssdash/pkg/layout"
	"github.com/ruslano69/gssdash/pkg/metrics"
	"github.com/ruslano69/gssdash/pkg/processors"
	"github.com/ruslano69/gssdash/pkg/resultlog"
	"github.com/ruslano69/gssdash/pkg/survey"
)

// Options — параметры сборки
type Options struct {
	Name       string
	Source     etl.SourceConfig
	Processors []processors.Config
	Theme      chart.Theme
	Title      string
	Context    string // Markdown вкладки Overview

	// InMemoryAggregates считает агрегаты функциями Go вместо SQL-представлений workspace
	InMemoryAggregates bool

	HTTPClient *http.Client
}

// Dashboard — все производные данные, построенные при старте.
// После Build значение только читается.
type Dashboard struct {
	Name      string
	Page      []byte
	ETag      string
	Summary   []aggregate.GenderRow
	Counts    []aggregate.ResponseCount
	Artifacts []*chart.Artifact
	Stats     resultlog.Stats
}

// SummaryTables возвращает две производные таблицы с заголовками для отображения
func (d *Dashboard) SummaryTables() []*table.Table {
	return []*table.Table{
		aggregate.GenderTable(d.Summary),
		aggregate.CountsTable(d.Counts),
	}
}

// Build выполняет весь пайплайн. Любая ошибка загрузки, схемы или приведения
// значений прерывает сборку; пустые графики заменяются заглушками.
// Возвращаемая Stats заполнена и при ошибке.
func Build(ctx context.Context, opts Options) (*Dashboard, resultlog.Stats, error) {
	stats := resultlog.Stats{StartTime: time.Now()}
	d, err := build(ctx, opts, &stats)
	stats.EndTime = time.Now()
	if d != nil {
		d.Stats = stats
	}
	return d, stats, err
}

func build(ctx context.Context, opts Options, stats *resultlog.Stats) (*Dashboard, error) {
	if opts.Name == "" {
		opts.Name = "gssdash"
	}
	if opts.Source.URL == "" {
		opts.Source = DefaultSource()
	}
	if opts.Processors == nil {
		opts.Processors = DefaultProcessors()
	}
	if opts.Theme.IsZero() {
		opts.Theme = chart.DefaultTheme()
	}

	if err := opts.Source.Validate(); err != nil {
		return nil, fmt.Errorf("invalid source: %w", err)
	}

	chain, err := processors.CreateChainFromConfigs(opts.Processors)
	if err != nil {
		return nil, fmt.Errorf("invalid processors: %w", err)
	}

	// 1. Загрузка
	start := time.Now()
	loader := etl.NewLoader(opts.Source)
	if opts.HTTPClient != nil {
		loader.WithHTTPClient(opts.HTTPClient)
	}
	loaded, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load failed: %w", err)
	}
	stats.SourceChecksum = loaded.Checksum
	log.Info().
		Str("source", opts.Source.URL).
		Int("rows", loaded.Table.Len()).
		Int("bytes", loaded.Bytes).
		Str("checksum", loaded.Checksum).
		Dur("duration", metrics.ObserveStage("load", start)).
		Msg("Source loaded")

	// 2. Очистка
	start = time.Now()
	cleaned, err := chain.Process(ctx, loaded.Table)
	if err != nil {
		return nil, fmt.Errorf("clean failed: %w", err)
	}
	records, err := survey.Decode(cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	stats.RowsLoaded = len(records)
	metrics.LoadedRows.Set(float64(len(records)))
	log.Info().
		Strs("processors", chain.Names()).
		Int("columns", len(cleaned.Fields)).
		Dur("duration", metrics.ObserveStage("clean", start)).
		Msg("Survey cleaned")

	// 3. Агрегаты
	start = time.Now()
	var summary []aggregate.GenderRow
	var counts []aggregate.ResponseCount
	if opts.InMemoryAggregates {
		summary = aggregate.MeansBySex(records)
		counts = aggregate.CountBySexResponse(records)
	} else {
		summary, counts, err = aggregateInWorkspace(ctx, cleaned)
		if err != nil {
			return nil, fmt.Errorf("aggregate failed: %w", err)
		}
	}
	log.Info().
		Int("groups", len(summary)).
		Int("response_pairs", len(counts)).
		Bool("sql", !opts.InMemoryAggregates).
		Dur("duration", metrics.ObserveStage("aggregate", start)).
		Msg("Aggregates computed")

	// 4. Артефакты и тема
	start = time.Now()
	artifacts := chart.BuildAll(summary, counts, records, opts.Theme)
	stats.Artifacts = len(artifacts)
	for _, a := range artifacts {
		if a.Degenerate() {
			stats.DegenerateArtifacts++
		}
	}
	log.Info().
		Int("artifacts", len(artifacts)).
		Int("degenerate", stats.DegenerateArtifacts).
		Dur("duration", metrics.ObserveStage("chart", start)).
		Msg("Artifacts built")

	// 5. Страница
	start = time.Now()
	page, err := layout.Compose(artifacts, layout.Options{
		Title:   opts.Title,
		Context: opts.Context,
		Theme:   opts.Theme,
	})
	if err != nil {
		return nil, fmt.Errorf("layout failed: %w", err)
	}
	stats.PageChecksum = processors.ComputeChecksum(page)
	log.Info().
		Int("bytes", len(page)).
		Dur("duration", metrics.ObserveStage("layout", start)).
		Msg("Page composed")

	return &Dashboard{
		Name:      opts.Name,
		Page:      page,
		ETag:      `"` + stats.PageChecksum + `"`,
		Summary:   summary,
		Counts:    counts,
		Artifacts: artifacts,
	}, nil
}

// aggregateInWorkspace загружает очищенную таблицу в SQLite :memory: и читает
// агрегаты из SQL-представлений. Workspace закрывается сразу после расчета.
func aggregateInWorkspace(ctx context.Context, cleaned *table.Table) ([]aggregate.GenderRow, []aggregate.ResponseCount, error) {
	ws, err := etl.NewWorkspace(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer ws.Close()

	if err := ws.LoadTable(ctx, cleaned); err != nil {
		return nil, nil, err
	}
	if err := aggregate.CreateViews(ctx, ws, cleaned.Name); err != nil {
		return nil, nil, err
	}

	summary, err := aggregate.GenderSummary(ctx, ws)
	if err != nil {
		return nil, nil, err
	}
	counts, err := aggregate.BreadwinnerCounts(ctx, ws)
	if err != nil {
		return nil, nil, err
	}
	return summary, counts, nil
}
