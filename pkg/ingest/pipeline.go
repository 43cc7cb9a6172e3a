// Package ingest loads the task sheet into a TaskIndex.
//
// An ingestion either replaces the whole working set with the actionable
// rows or, on any failure, leaves it empty and records the error. Ingest
// never returns an error past its own boundary; callers read it from the
// Result. There is no retry: callers re-run Ingest when they want fresh data.
package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/harrisonrobin/harvestboard/pkg/csvsheet"
	"github.com/harrisonrobin/harvestboard/pkg/index"
	"github.com/harrisonrobin/harvestboard/pkg/model"
	"github.com/harrisonrobin/harvestboard/pkg/util"
)

// Source yields the sheet as rows of cells, header row first.
type Source interface {
	Rows(ctx context.Context) ([][]string, error)
}

// Result is the outcome of one ingestion.
type Result struct {
	Tasks []model.Task
	Err   error
	At    time.Time
}

// Pipeline is not safe for concurrent Ingest calls.
type Pipeline struct {
	source    Source
	index     *index.TaskIndex
	keyColumn string
	logger    *log.Logger
	now       func() time.Time

	subscribers []func(Result)
	last        Result
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithKeyColumn sets the column the write-back key is read from.
func WithKeyColumn(column string) Option {
	return func(p *Pipeline) { p.keyColumn = column }
}

func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func NewPipeline(src Source, idx *index.TaskIndex, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    src,
		index:     idx,
		keyColumn: model.ColUID,
		logger:    log.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe registers fn to be called after every ingestion, including
// failed ones.
func (p *Pipeline) Subscribe(fn func(Result)) {
	p.subscribers = append(p.subscribers, fn)
}

// LastResult returns the result of the most recent ingestion.
func (p *Pipeline) LastResult() Result {
	return p.last
}

// Ingest fetches, parses and filters the sheet, then replaces the index.
func (p *Pipeline) Ingest(ctx context.Context) Result {
	tasks, err := p.load(ctx)
	if err != nil {
		p.logger.Printf("Warning: ingestion failed: %v", err)
		tasks = nil
	}
	p.index.ReplaceAll(tasks)

	res := Result{Tasks: p.index.All(), Err: err, At: p.now()}
	p.last = res
	for _, fn := range p.subscribers {
		fn(res)
	}
	return res
}

func (p *Pipeline) load(ctx context.Context) ([]model.Task, error) {
	rows, err := p.source.Rows(ctx)
	if err != nil {
		return nil, err
	}
	records, err := csvsheet.Records(rows, p.keyColumn)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return Filter(records), nil
}

// Filter keeps the actionable tasks, preserving order.
func Filter(tasks []model.Task) []model.Task {
	var actionable []model.Task
	for _, t := range tasks {
		if Actionable(t) {
			actionable = append(actionable, t)
		}
	}
	return actionable
}

// Actionable reports whether a task belongs in the working set: it names a
// crop, has a harvest date, is not completed, and has a positive quantity.
func Actionable(t model.Task) bool {
	if strings.TrimSpace(t.Get(model.ColCrop)) == "" {
		return false
	}
	if util.NormalizeDate(t.Get(model.ColHarvestDate)) == "" {
		return false
	}
	if strings.TrimSpace(t.Get(model.ColStatus)) == model.StatusCompleted {
		return false
	}
	_, ok := util.ParseQuantity(t.Get(model.ColQuantity))
	return ok
}
