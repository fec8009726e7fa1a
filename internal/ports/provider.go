package ports

import (
	"context"

	"github.com/rspctl/rsp/internal/domain"
)

// Provider is the capability set rsp needs from the simulation.
// Every call is independently fallible; callers treat each call site as
// its own failure domain.
type Provider interface {
	// ListEntities enumerates the vehicles that can currently be controlled.
	// Returns an error wrapping domain.ErrConnectionLost when the link to
	// the simulation itself is gone.
	ListEntities(ctx context.Context) ([]domain.EntityInfo, error)

	// ReadState reads one vehicle's physical state and part inventory.
	// Returns domain.ErrEntityNotFound once the vehicle no longer exists.
	ReadState(ctx context.Context, id string) (domain.PhysicalState, error)

	// TriggerAction invokes a named separation event on a fairing module.
	TriggerAction(ctx context.Context, id, componentID, action string) error

	// TriggerSeparation jettisons a fairing part directly.
	TriggerSeparation(ctx context.Context, id, componentID string) error

	// SetDeployed extends or retracts a deployable part.
	SetDeployed(ctx context.Context, id, componentID string, deployed bool) error

	// SetActionGroup sets a numbered action group on a vehicle.
	SetActionGroup(ctx context.Context, id string, group int, state bool) error

	// Close releases the connection.
	Close() error
}
