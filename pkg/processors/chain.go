package processors

import (
	"context"
	"fmt"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

// Chain представляет цепочку процессоров
type Chain struct {
	processors []Processor
}

// NewChain создает новую цепочку процессоров
func NewChain(processors ...Processor) *Chain {
	return &Chain{
		processors: processors,
	}
}

// Process выполняет все процессоры в цепочке последовательно
func (c *Chain) Process(ctx context.Context, t *table.Table) (*table.Table, error) {
	result := t
	for i, proc := range c.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		result, err = proc.Process(ctx, result)
		if err != nil {
			return nil, fmt.Errorf("processor %d (%s) failed: %w", i, proc.Name(), err)
		}
	}

	return result, nil
}

// Add добавляет процессор в цепочку
func (c *Chain) Add(processor Processor) {
	c.processors = append(c.processors, processor)
}

// Len возвращает количество процессоров в цепочке
func (c *Chain) Len() int {
	return len(c.processors)
}

// Names возвращает имена процессоров в порядке выполнения
func (c *Chain) Names() []string {
	names := make([]string, len(c.processors))
	for i, p := range c.processors {
		names[i] = p.Name()
	}
	return names
}
