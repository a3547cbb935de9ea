package storage

import (
	"context"
	"errors"
	"time"

	"event-rsvp/internal/models"
)

var (
	// ErrNotFound is returned when no guest matches the given key.
	ErrNotFound = errors.New("guest not found")
	// ErrDuplicateEmail is returned when an insert would violate the
	// one-row-per-email invariant.
	ErrDuplicateEmail = errors.New("email already registered")
)

// GuestStore is the persistence contract the lifecycle depends on.
type GuestStore interface {
	Insert(ctx context.Context, guest *models.Guest) error
	GetByID(ctx context.Context, id string) (*models.Guest, error)
	GetByEmail(ctx context.Context, email string) (*models.Guest, error)
	GetByToken(ctx context.Context, token string) (*models.Guest, error)
	SetApproval(ctx context.Context, id, token string) error
	SetStatus(ctx context.Context, id string, status models.Status) error
	// MarkCheckedIn flips checked_in for the guest if and only if it is
	// still false. Returns false when the guest was already checked in.
	MarkCheckedIn(ctx context.Context, id string, at time.Time) (bool, error)
	List(ctx context.Context) ([]*models.Guest, error)
}

// SettingsStore persists the editable event settings.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}
