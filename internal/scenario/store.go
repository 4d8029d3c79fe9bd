// Package scenario loads case definitions and checks them before they
// reach the game engine.
package scenario

import (
	"context"
	"errors"

	"interrogation/internal/game"
)

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrInvalidScenario  = errors.New("invalid scenario")
)

// Store loads a scenario by id. Implementations return errors wrapping
// ErrScenarioNotFound or ErrInvalidScenario. Returned scenarios are shared
// and must be treated as read-only.
type Store interface {
	Load(ctx context.Context, id string) (*game.Scenario, error)
}
