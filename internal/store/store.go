// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
)

// Repository persists session aggregates. The whole aggregate is written on
// every mutation and restored verbatim on load; there is no partial or delta
// persistence.
type Repository interface {
	// GetSession retrieves a session by id. A missing session returns
	// (nil, nil).
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// SaveSession creates or wholesale-overwrites a session document.
	SaveSession(ctx context.Context, session *domain.Session) error

	// DeleteSession removes a session.
	DeleteSession(ctx context.Context, sessionID string) error

	// CleanupExpiredSessions removes sessions idle longer than ttl and
	// returns the number removed.
	CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
