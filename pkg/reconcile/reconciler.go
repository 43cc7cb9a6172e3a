// Package reconcile turns a user's edits into a keyed remote update and, once
// the remote side accepts it, merges the result into the local TaskIndex.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/harrisonrobin/harvestboard/pkg/index"
	"github.com/harrisonrobin/harvestboard/pkg/model"
	"github.com/harrisonrobin/harvestboard/pkg/util"
)

var (
	// ErrMissingKey is returned when the task has no write-back key.
	ErrMissingKey = errors.New("task has no uid")
	// ErrIncompleteFields is returned when a completing submission leaves a
	// required field blank.
	ErrIncompleteFields = errors.New("required fields missing for completion")
)

// Writer is the write-back boundary.
type Writer interface {
	Update(ctx context.Context, key string, changes model.ChangeSet) error
}

// OutcomeKind says what happened to the local task after a successful write.
type OutcomeKind int

const (
	// Updated means the task stays in the working set with merged fields.
	Updated OutcomeKind = iota
	// Completed means the task left the working set.
	Completed
)

func (k OutcomeKind) String() string {
	if k == Completed {
		return "completed"
	}
	return "updated"
}

// Outcome is an applied change set.
type Outcome struct {
	Kind    OutcomeKind
	Changes model.ChangeSet
	// Task is the merged local copy; zero when the merge target is gone.
	Task    model.Task
}

type Reconciler struct {
	writer Writer
	index  *index.TaskIndex
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock replaces the clock used for completion dates.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Reconciler) { r.logger = logger }
}

func NewReconciler(w Writer, idx *index.TaskIndex, opts ...Option) *Reconciler {
	r := &Reconciler{writer: w, index: idx, now: time.Now, logger: log.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit validates edits for task, writes the change set keyed by task.UID and
// merges it locally. No network call is made when validation fails.
//
// If the write succeeds but the task has since left the index (a reload ran
// while the write was in flight and dropped it, or put another task at its
// row), Submit returns the outcome together with an
// error wrapping index.ErrNotFound. Callers should treat that as a lost local
// update; the remote row has been changed.
func (r *Reconciler) Submit(ctx context.Context, task model.Task, edits model.Edits, completing bool) (Outcome, error) {
	if strings.TrimSpace(task.UID) == "" {
		return Outcome{}, fmt.Errorf("row %d: %w", task.RowKey, ErrMissingKey)
	}
	if completing {
		if missing := missingForCompletion(edits); len(missing) > 0 {
			return Outcome{}, fmt.Errorf("%w: %s", ErrIncompleteFields, strings.Join(missing, ", "))
		}
	}

	changes := BuildChangeSet(edits, completing, util.Today(r.now()))
	if err := r.writer.Update(ctx, task.UID, changes); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Kind: Updated, Changes: changes}
	if changes.Status() == model.StatusCompleted {
		out.Kind = Completed
	}

	merged, err := r.index.ApplyFieldUpdates(task.RowKey, task.UID, changes)
	if err != nil {
		r.logger.Printf("Warning: row %d was written but is no longer loaded: %v", task.RowKey, err)
		return out, err
	}
	out.Task = merged

	if out.Kind == Completed {
		if err := r.index.Remove(task.RowKey, task.UID); err != nil {
			return out, err
		}
	}
	return out, nil
}
