package etl

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/ruslano69/gssdash/pkg/core/table"
	"github.com/ruslano69/gssdash/pkg/processors"
)

// LoadResult представляет загруженные данные одного источника
type LoadResult struct {
	Table    *table.Table
	Checksum string // xxh3 сырых байт источника
	Bytes    int
	Duration time.Duration
}

// Loader отвечает за загрузку CSV из источника
type Loader struct {
	source SourceConfig
	client *http.Client
	na     map[string]bool
}

// NewLoader создает новый загрузчик данных
func NewLoader(source SourceConfig) *Loader {
	source.SetDefaults()

	na := make(map[string]bool, len(source.NAValues))
	for _, tok := range source.NAValues {
		na[tok] = true
	}

	return &Loader{
		source: source,
		client: http.DefaultClient,
		na:     na,
	}
}

// WithHTTPClient подменяет HTTP клиент (тесты, прокси)
func (l *Loader) WithHTTPClient(client *http.Client) *Loader {
	l.client = client
	return l
}

// Load скачивает источник, декодирует кодировку и разбирает CSV с заголовком.
// Пустые ячейки и ячейки, точно совпадающие с NA-токеном, становятся NULL.
// Все колонки загружаются как TEXT; типизацию выполняют процессоры.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	start := time.Now()

	if l.source.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(l.source.Timeout)*time.Second)
		defer cancel()
	}

	raw, err := l.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("source '%s': %w", l.source.Name, err)
	}

	if l.source.Checksum != "" {
		if err := processors.ValidateChecksum(raw, l.source.Checksum); err != nil {
			return nil, fmt.Errorf("source '%s': %w: %v", l.source.Name, table.ErrResourceUnavailable, err)
		}
	}

	text, err := decode(raw, l.source.Encoding)
	if err != nil {
		return nil, fmt.Errorf("source '%s': %w", l.source.Name, err)
	}

	t, err := l.parse(text)
	if err != nil {
		return nil, fmt.Errorf("source '%s': %w", l.source.Name, err)
	}

	return &LoadResult{
		Table:    t,
		Checksum: processors.ComputeChecksum(raw),
		Bytes:    len(raw),
		Duration: time.Since(start),
	}, nil
}

// decode переводит байты из кодировки источника в UTF-8
func decode(raw []byte, encoding string) ([]byte, error) {
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported encoding '%s'", table.ErrSchemaMismatch, encoding)
	}

	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", table.ErrSchemaMismatch, encoding, err)
	}
	return bytes.TrimPrefix(out, []byte("\ufeff")), nil
}

func (l *Loader) parse(text []byte) (*table.Table, error) {
	r := csv.NewReader(bytes.NewReader(text))

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", table.ErrSchemaMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: malformed header: %v", table.ErrSchemaMismatch, err)
	}

	fields := make([]table.Field, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has empty name", table.ErrSchemaMismatch, i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate column '%s'", table.ErrSchemaMismatch, name)
		}
		seen[name] = true
		fields[i] = table.Field{Name: name, Type: table.TypeText}
	}

	t := table.New(l.source.Name, fields)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ErrFieldCount для рваных строк, ParseError для битых кавычек
			return nil, fmt.Errorf("%w: %v", table.ErrSchemaMismatch, err)
		}

		row := make([]table.Value, len(record))
		for i, cell := range record {
			if cell == "" || l.na[cell] {
				row[i] = table.Null
				continue
			}
			row[i] = table.Str(cell)
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}
