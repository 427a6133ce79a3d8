// Package secrets resolves shared webhook secrets from configuration.
//
// Each receiver owns a secret table: an optional default secret plus
// per-subscription overrides keyed by subscription id. The empty id is a
// valid key and selects the default secret. Length bounds are enforced
// here, at resolution time, so callers never see an out-of-range secret.
package secrets

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates no secret exists for the receiver/id pair.
	ErrNotConfigured = errors.New("secret not configured")

	// ErrOutOfRange indicates a configured secret violates the caller's
	// length bounds.
	ErrOutOfRange = errors.New("secret length out of range")
)

// Resolver maps a receiver name and subscription id to a shared secret.
type Resolver interface {
	Resolve(receiver, id string, minLen, maxLen int) (string, error)
}

// Table holds the secrets for a single receiver.
type Table struct {
	// Default applies when no per-id override matches (and to the empty id).
	Default string

	// ByID holds per-subscription overrides.
	ByID map[string]string
}

// Store is an immutable, in-memory Resolver backed by per-receiver tables.
// It is safe for concurrent use once built.
type Store struct {
	tables map[string]Table
}

// NewStore builds a Store from receiver-name → table mappings.
func NewStore(tables map[string]Table) *Store {
	copied := make(map[string]Table, len(tables))
	for name, t := range tables {
		copied[name] = t
	}
	return &Store{tables: copied}
}

// Resolve returns the secret for the given receiver and subscription id.
// Per-id overrides win over the default. A missing secret or one outside
// [minLen, maxLen] is a hard failure; there is no default-allow.
func (s *Store) Resolve(receiver, id string, minLen, maxLen int) (string, error) {
	table, ok := s.tables[receiver]
	if !ok {
		return "", fmt.Errorf("receiver %q: %w", receiver, ErrNotConfigured)
	}

	secret := table.Default
	if id != "" {
		if override, ok := table.ByID[id]; ok {
			secret = override
		}
	}

	if secret == "" {
		return "", fmt.Errorf("receiver %q id %q: %w", receiver, id, ErrNotConfigured)
	}

	if len(secret) < minLen || len(secret) > maxLen {
		return "", fmt.Errorf("receiver %q id %q: length %d outside [%d, %d]: %w",
			receiver, id, len(secret), minLen, maxLen, ErrOutOfRange)
	}

	return secret, nil
}
