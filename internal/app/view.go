package app

import (
	"fmt"
	"sync/atomic"

	"github.com/rspctl/rsp/internal/domain"
)

type viewState struct {
	focus string
	mode  string
}

// View is the operator's dashboard selection. Commands write it and the
// publisher stamps it onto every batch.
type View struct {
	v atomic.Pointer[viewState]
}

// NewView creates a view in surface mode with no focus.
func NewView() *View {
	v := &View{}
	v.v.Store(&viewState{mode: domain.ModeSurface})
	return v
}

// Focus returns the tracked entity id, or "" if none was chosen.
func (v *View) Focus() string {
	return v.v.Load().focus
}

// Mode returns the display mode.
func (v *View) Mode() string {
	return v.v.Load().mode
}

// SetFocus tracks id.
func (v *View) SetFocus(id string) {
	for {
		old := v.v.Load()
		next := &viewState{focus: id, mode: old.mode}
		if v.v.CompareAndSwap(old, next) {
			return
		}
	}
}

// SetMode switches the display mode.
func (v *View) SetMode(mode string) error {
	if !domain.ValidMode(mode) {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidPayload, mode)
	}
	for {
		old := v.v.Load()
		next := &viewState{focus: old.focus, mode: mode}
		if v.v.CompareAndSwap(old, next) {
			return nil
		}
	}
}
