package app

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/pkg/log"
)

// TaskFactory builds the automation task for a newly observed entity.
type TaskFactory func(*domain.Entity) *Task

// ReconcileResult lists the ids started and retired by one cycle, sorted.
type ReconcileResult struct {
	Started []string
	Retired []string
}

type entry struct {
	entity *domain.Entity
	task   *Task
	ctx    context.Context
	cancel context.CancelFunc
}

// Registry owns the entity id to Entity mapping.
//
// Reconcile is the only writer. It builds a new map and swaps it in, so
// Entities and Lookup read a consistent version without taking a lock.
type Registry struct {
	mu      sync.Mutex
	entries atomic.Pointer[map[string]*entry]

	newTask TaskFactory
	workers Workers
	logger  log.Logger
}

// NewRegistry creates an empty registry. Every launched task is tracked
// with workers so shutdown can wait for it.
func NewRegistry(newTask TaskFactory, workers Workers, logger log.Logger) *Registry {
	r := &Registry{
		newTask: newTask,
		workers: workers,
		logger:  log.With(logger, log.Component("reconciler")),
	}
	empty := map[string]*entry{}
	r.entries.Store(&empty)
	return r
}

// Reconcile diffs the provider's current list against the known entities.
//
// Ids not yet known get a new entity and a task launched under ctx. Known
// entities whose task has terminated are removed. An id missing from infos
// is never retired on that basis alone, and a known id is never restarted.
func (r *Registry) Reconcile(ctx context.Context, infos []domain.EntityInfo) ReconcileResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	known := *r.entries.Load()
	next := make(map[string]*entry, len(known)+len(infos))
	var res ReconcileResult

	for id, e := range known {
		if !e.entity.Active() {
			e.cancel()
			res.Retired = append(res.Retired, id)
			continue
		}
		next[id] = e
	}

	var launch []*entry
	for _, info := range infos {
		if _, ok := known[info.ID]; ok {
			continue
		}
		if _, ok := next[info.ID]; ok {
			continue
		}
		entity := domain.NewEntity(info)
		taskCtx, cancel := context.WithCancel(ctx)
		e := &entry{entity: entity, task: r.newTask(entity), ctx: taskCtx, cancel: cancel}
		next[info.ID] = e
		launch = append(launch, e)
		res.Started = append(res.Started, info.ID)
	}

	r.entries.Store(&next)

	for _, e := range launch {
		r.workers.AddWorker()
		go func(e *entry) {
			defer r.workers.WorkerDone()
			e.task.Run(e.ctx)
		}(e)
	}

	sort.Strings(res.Started)
	sort.Strings(res.Retired)
	for _, id := range res.Started {
		r.logger.Info("entity started", log.Entity(id))
	}
	for _, id := range res.Retired {
		r.logger.Info("entity retired", log.Entity(id))
	}
	return res
}

// Entities returns the known entities sorted by id. Inactive entities stay
// listed until the next reconcile removes them.
func (r *Registry) Entities() []*domain.Entity {
	m := *r.entries.Load()
	out := make([]*domain.Entity, 0, len(m))
	for _, e := range m {
		out = append(out, e.entity)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Lookup returns the entity with id.
func (r *Registry) Lookup(id string) (*domain.Entity, bool) {
	e, ok := (*r.entries.Load())[id]
	if !ok {
		return nil, false
	}
	return e.entity, true
}

// TaskState returns the automation state of id's task.
func (r *Registry) TaskState(id string) (domain.AutomationState, bool) {
	e, ok := (*r.entries.Load())[id]
	if !ok {
		return 0, false
	}
	return e.task.State(), true
}

// Len returns the number of known entities.
func (r *Registry) Len() int {
	return len(*r.entries.Load())
}

// Cancel stops id's task. Reconcile never calls it; entities that vanish
// from the provider keep their task until it terminates on its own.
func (r *Registry) Cancel(id string) bool {
	e, ok := (*r.entries.Load())[id]
	if !ok {
		return false
	}
	e.cancel()
	return true
}

// CancelAll stops every task. Used at shutdown.
func (r *Registry) CancelAll() {
	for _, e := range *r.entries.Load() {
		e.cancel()
	}
}
