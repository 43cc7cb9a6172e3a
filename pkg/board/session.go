// Package board tracks the single task a user has open and the edits they are
// composing for it.
package board

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/harrisonrobin/harvestboard/pkg/index"
	"github.com/harrisonrobin/harvestboard/pkg/model"
	"github.com/harrisonrobin/harvestboard/pkg/reconcile"
)

// ErrNoOpenTask is returned by operations that need an open task.
var ErrNoOpenTask = errors.New("no task is open")

// Session holds at most one open task. Opening another task, or closing,
// discards any unsaved edits.
type Session struct {
	index      *index.TaskIndex
	reconciler *reconcile.Reconciler
	logger     *log.Logger

	openKey int
	pending model.Edits
}

func NewSession(idx *index.TaskIndex, r *reconcile.Reconciler, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{index: idx, reconciler: r, logger: logger}
}

// Open makes rowKey the open task with an empty set of pending edits.
func (s *Session) Open(rowKey int) (model.Task, error) {
	task, err := s.index.ByKey(rowKey)
	if err != nil {
		return model.Task{}, err
	}
	s.openKey = rowKey
	s.pending = model.Edits{}
	return task, nil
}

// OpenKey returns the open row key, or 0 when nothing is open.
func (s *Session) OpenKey() int {
	return s.openKey
}

// Set records an edit for the open task. Only editable columns are accepted.
func (s *Session) Set(column, value string) error {
	if s.openKey == 0 {
		return ErrNoOpenTask
	}
	if !isEditable(column) {
		return fmt.Errorf("column %q is not editable", column)
	}
	s.pending[column] = value
	return nil
}

// Pending returns a copy of the unsaved edits.
func (s *Session) Pending() model.Edits {
	edits := make(model.Edits, len(s.pending))
	for k, v := range s.pending {
		edits[k] = v
	}
	return edits
}

// Close discards the open task and its edits.
func (s *Session) Close() {
	s.openKey = 0
	s.pending = nil
}

// Submit sends the pending edits for the open task. On an updated outcome the
// task stays open with fresh, empty edits; on completion the session closes.
// A write that lands after the task left the index is logged and reported as
// a normal outcome.
func (s *Session) Submit(ctx context.Context, completing bool) (reconcile.Outcome, error) {
	if s.openKey == 0 {
		return reconcile.Outcome{}, ErrNoOpenTask
	}
	task, err := s.index.ByKey(s.openKey)
	if err != nil {
		s.Close()
		return reconcile.Outcome{}, err
	}

	out, err := s.reconciler.Submit(ctx, task, s.Pending(), completing)
	if errors.Is(err, index.ErrNotFound) {
		s.logger.Printf("Warning: update to row %d saved remotely but not merged locally", task.RowKey)
		s.Close()
		return out, nil
	}
	if err != nil {
		return out, err
	}

	if out.Kind == reconcile.Completed {
		s.Close()
	} else {
		s.pending = model.Edits{}
	}
	return out, nil
}

func isEditable(column string) bool {
	for _, c := range model.EditableFields {
		if c == column {
			return true
		}
	}
	return false
}
