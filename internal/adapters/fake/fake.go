// Package fake provides a scriptable in-memory provider for tests.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/rspctl/rsp/internal/domain"
)

// Call operations recorded by Provider.
const (
	OpTriggerAction     = "trigger_action"
	OpTriggerSeparation = "trigger_separation"
	OpSetDeployed       = "set_deployed"
	OpSetActionGroup    = "set_action_group"
)

// Call is one recorded mutating call.
type Call struct {
	Op        string
	Entity    string
	Component string
	Action    string
	Deployed  bool
	Group     int
}

// Provider implements ports.Provider over an in-memory vessel table.
type Provider struct {
	mu sync.Mutex

	order   []string
	names   map[string]string
	states  map[string]*domain.PhysicalState
	hidden  map[string]bool
	calls   []Call
	closed  bool
	listErr error

	readErr    map[string]error
	readPanic  map[string]bool
	triggerErr map[string]error
	actionErr  map[string]error

	// separate makes jettison triggers take effect immediately.
	separate bool
}

// NewProvider creates an empty provider whose triggers separate fairings.
func NewProvider() *Provider {
	return &Provider{
		names:      make(map[string]string),
		states:     make(map[string]*domain.PhysicalState),
		hidden:     make(map[string]bool),
		readErr:    make(map[string]error),
		readPanic:  make(map[string]bool),
		triggerErr: make(map[string]error),
		actionErr:  make(map[string]error),
		separate:   true,
	}
}

// Add registers a vessel.
func (p *Provider) Add(id, name string, st domain.PhysicalState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.states[id]; !ok {
		p.order = append(p.order, id)
	}
	p.names[id] = name
	cp := clone(st)
	p.states[id] = &cp
}

// Remove destroys a vessel. Later reads return domain.ErrEntityNotFound.
func (p *Provider) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.states, id)
	delete(p.names, id)
	for i, o := range p.order {
		if o == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Update mutates a vessel's state in place.
func (p *Provider) Update(id string, fn func(*domain.PhysicalState)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if st, ok := p.states[id]; ok {
		fn(st)
		st.FairingAttached = domain.FairingAttachedIn(st.Fairings)
	}
}

// SetHidden omits id from ListEntities without destroying it.
func (p *Provider) SetHidden(id string, hidden bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden[id] = hidden
}

// SetListError makes ListEntities fail with err until cleared with nil.
func (p *Provider) SetListError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listErr = err
}

// SetReadError makes ReadState(id) fail with err until cleared with nil.
func (p *Provider) SetReadError(id string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.readErr, id)
		return
	}
	p.readErr[id] = err
}

// SetReadPanic makes ReadState(id) panic.
func (p *Provider) SetReadPanic(id string, v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readPanic[id] = v
}

// SetTriggerError makes every mutating call on id fail with err.
func (p *Provider) SetTriggerError(id string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.triggerErr, id)
		return
	}
	p.triggerErr[id] = err
}

// SetActionError makes module events on id fail with err. Direct
// separation still works.
func (p *Provider) SetActionError(id string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.actionErr, id)
		return
	}
	p.actionErr[id] = err
}

// SetSeparateOnTrigger controls whether jettison triggers take effect.
func (p *Provider) SetSeparateOnTrigger(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.separate = v
}

// Calls returns every mutating call in order.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// CountCalls returns how many calls of op were made against id.
func (p *Provider) CountCalls(op, id string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if c.Op == op && c.Entity == id {
			n++
		}
	}
	return n
}

// Closed reports whether Close was called.
func (p *Provider) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// ListEntities implements ports.Provider.
func (p *Provider) ListEntities(ctx context.Context) ([]domain.EntityInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listErr != nil {
		return nil, p.listErr
	}
	out := make([]domain.EntityInfo, 0, len(p.order))
	for _, id := range p.order {
		if p.hidden[id] {
			continue
		}
		out = append(out, domain.EntityInfo{ID: id, Name: p.names[id]})
	}
	return out, nil
}

// ReadState implements ports.Provider.
func (p *Provider) ReadState(ctx context.Context, id string) (domain.PhysicalState, error) {
	if err := ctx.Err(); err != nil {
		return domain.PhysicalState{}, err
	}
	p.mu.Lock()
	if p.readPanic[id] {
		p.mu.Unlock()
		panic(fmt.Sprintf("fake: read %s", id))
	}
	defer p.mu.Unlock()
	if err := p.readErr[id]; err != nil {
		return domain.PhysicalState{}, err
	}
	st, ok := p.states[id]
	if !ok {
		return domain.PhysicalState{}, fmt.Errorf("%w: %s", domain.ErrEntityNotFound, id)
	}
	return clone(*st), nil
}

// TriggerAction implements ports.Provider.
func (p *Provider) TriggerAction(ctx context.Context, id, componentID, action string) error {
	return p.mutate(ctx, Call{Op: OpTriggerAction, Entity: id, Component: componentID, Action: action}, func(st *domain.PhysicalState) error {
		if err := p.actionErr[id]; err != nil {
			return err
		}
		return p.jettison(st, componentID)
	})
}

// TriggerSeparation implements ports.Provider.
func (p *Provider) TriggerSeparation(ctx context.Context, id, componentID string) error {
	return p.mutate(ctx, Call{Op: OpTriggerSeparation, Entity: id, Component: componentID}, func(st *domain.PhysicalState) error {
		return p.jettison(st, componentID)
	})
}

// SetDeployed implements ports.Provider.
func (p *Provider) SetDeployed(ctx context.Context, id, componentID string, deployed bool) error {
	return p.mutate(ctx, Call{Op: OpSetDeployed, Entity: id, Component: componentID, Deployed: deployed}, func(st *domain.PhysicalState) error {
		for _, parts := range [][]domain.Component{st.Deployables, st.LandingGear} {
			for i := range parts {
				if parts[i].ID == componentID {
					parts[i].Deployed = deployed
					return nil
				}
			}
		}
		return fmt.Errorf("fake: no part %s on %s", componentID, id)
	})
}

// SetActionGroup implements ports.Provider.
func (p *Provider) SetActionGroup(ctx context.Context, id string, group int, state bool) error {
	return p.mutate(ctx, Call{Op: OpSetActionGroup, Entity: id, Group: group, Deployed: state}, func(*domain.PhysicalState) error {
		return nil
	})
}

// Close implements ports.Provider.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *Provider) mutate(ctx context.Context, c Call, apply func(*domain.PhysicalState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, c)
	if err := p.triggerErr[c.Entity]; err != nil {
		return err
	}
	st, ok := p.states[c.Entity]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrEntityNotFound, c.Entity)
	}
	return apply(st)
}

// jettison must be called with mu held.
func (p *Provider) jettison(st *domain.PhysicalState, componentID string) error {
	if !p.separate {
		return nil
	}
	for i := range st.Fairings {
		if st.Fairings[i].ID == componentID {
			st.Fairings[i].Jettisoned = true
			st.FairingAttached = domain.FairingAttachedIn(st.Fairings)
			return nil
		}
	}
	return fmt.Errorf("fake: no fairing %s", componentID)
}

func clone(st domain.PhysicalState) domain.PhysicalState {
	st.Fairings = cloneParts(st.Fairings)
	st.Deployables = cloneParts(st.Deployables)
	st.LandingGear = cloneParts(st.LandingGear)
	return st
}

func cloneParts(in []domain.Component) []domain.Component {
	if in == nil {
		return nil
	}
	out := make([]domain.Component, len(in))
	for i, c := range in {
		c.Actions = append([]string(nil), c.Actions...)
		out[i] = c
	}
	return out
}
