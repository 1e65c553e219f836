// Package session keeps the per-login state: who is signed in, their sales
// screen and their copy of the inventory ledger.
package session

import (
	"context"
	"errors"
	"time"

	"bizhub/backend/internal/inventory"
	"bizhub/backend/internal/pos"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConflict        = errors.New("session update conflict")
)

type State struct {
	ID        string           `json:"id"`
	Role      string           `json:"role"`
	StaffName string           `json:"staff_name"`
	Sales     pos.Session      `json:"sales"`
	Inventory inventory.Ledger `json:"inventory"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// expired reports whether a session with the given expiry is over at now.
// A zero expiry never lapses.
func expired(expiresAt time.Time, now time.Time) bool {
	return !expiresAt.IsZero() && !now.Before(expiresAt)
}

// UpdateFunc derives the next state from the current one. Returning an error
// abandons the update and leaves the stored state untouched.
type UpdateFunc func(State) (State, error)

// Store serializes updates per session id. Expired sessions behave as if
// they were never created.
type Store interface {
	Create(ctx context.Context, state State) error
	Get(ctx context.Context, id string) (State, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (State, error)
	Delete(ctx context.Context, id string) error
}
