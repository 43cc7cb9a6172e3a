package index

import (
	"errors"
	"fmt"
	"sync"

	"github.com/harrisonrobin/harvestboard/pkg/model"
	"github.com/harrisonrobin/harvestboard/pkg/util"
)

// ErrNotFound is returned when a row key is not in the current load.
var ErrNotFound = errors.New("task not found")

// TaskIndex holds the working set of one ingestion cycle: the tasks in
// source order plus a row-key map over the same entries.
type TaskIndex struct {
	mu    sync.RWMutex
	order []*model.Task
	byKey map[int]*model.Task
}

func NewTaskIndex() *TaskIndex {
	return &TaskIndex{byKey: make(map[int]*model.Task)}
}

// ReplaceAll swaps both views for the given tasks in one step.
func (idx *TaskIndex) ReplaceAll(tasks []model.Task) {
	order := make([]*model.Task, 0, len(tasks))
	byKey := make(map[int]*model.Task, len(tasks))
	for _, t := range tasks {
		task := t.Clone()
		order = append(order, &task)
		byKey[task.RowKey] = &task
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.order = order
	idx.byKey = byKey
}

// All returns copies of the current tasks in source order.
func (idx *TaskIndex) All() []model.Task {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	tasks := make([]model.Task, 0, len(idx.order))
	for _, t := range idx.order {
		tasks = append(tasks, t.Clone())
	}
	return tasks
}

func (idx *TaskIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.order)
}

// ByKey returns a copy of the task with the given row key.
func (idx *TaskIndex) ByKey(rowKey int) (model.Task, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	t, ok := idx.byKey[rowKey]
	if !ok {
		return model.Task{}, fmt.Errorf("row %d: %w", rowKey, ErrNotFound)
	}
	return t.Clone(), nil
}

// ByDate returns the tasks whose re-normalized harvest date equals date
// exactly. The comparison is textual, so malformed dates never match.
func (idx *TaskIndex) ByDate(date string) []model.Task {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var tasks []model.Task
	for _, t := range idx.order {
		if util.NormalizeDate(t.Get(model.ColHarvestDate)) == date {
			tasks = append(tasks, t.Clone())
		}
	}
	return tasks
}

// lookup returns the entry at rowKey only if it still carries uid. Row keys
// are positions and a reload can put a different task at the same row.
// Callers must hold idx.mu.
func (idx *TaskIndex) lookup(rowKey int, uid string) (*model.Task, error) {
	t, ok := idx.byKey[rowKey]
	if !ok {
		return nil, fmt.Errorf("row %d: %w", rowKey, ErrNotFound)
	}
	if t.UID != uid {
		return nil, fmt.Errorf("row %d now holds %q, not %q: %w", rowKey, t.UID, uid, ErrNotFound)
	}
	return t, nil
}

// ApplyFieldUpdates writes fields into the task at rowKey whose UID is uid.
func (idx *TaskIndex) ApplyFieldUpdates(rowKey int, uid string, fields map[string]string) (model.Task, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	t, err := idx.lookup(rowKey, uid)
	if err != nil {
		return model.Task{}, err
	}
	if t.Fields == nil {
		t.Fields = make(map[string]string, len(fields))
	}
	for k, v := range fields {
		t.Fields[k] = v
	}
	return t.Clone(), nil
}

// Remove drops the task at rowKey whose UID is uid from both views.
func (idx *TaskIndex) Remove(rowKey int, uid string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, err := idx.lookup(rowKey, uid); err != nil {
		return err
	}
	delete(idx.byKey, rowKey)
	for i, t := range idx.order {
		if t.RowKey == rowKey {
			idx.order = append(idx.order[:i:i], idx.order[i+1:]...)
			break
		}
	}
	return nil
}
