// Package lifecycle owns the guest state machine: registration,
// approval, rejection and the one-time check-in.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"event-rsvp/internal/models"
	"event-rsvp/internal/qr"
	"event-rsvp/internal/storage"
)

// Notifier delivers the approval email. Failures are reported but never
// roll back an approval.
type Notifier interface {
	SendApprovalEmail(ctx context.Context, to, name string, hasCompanion bool, qrImage []byte) error
}

// QREncoder renders an issued token as a scannable image.
type QREncoder interface {
	Encode(token string) ([]byte, error)
}

// Lifecycle coordinates guest state transitions against the store and
// its collaborators.
type Lifecycle struct {
	store    storage.GuestStore
	notifier Notifier
	encoder  QREncoder
	log      zerolog.Logger
}

// New creates a lifecycle service.
func New(store storage.GuestStore, notifier Notifier, encoder QREncoder, log zerolog.Logger) *Lifecycle {
	return &Lifecycle{
		store:    store,
		notifier: notifier,
		encoder:  encoder,
		log:      log.With().Str("component", "lifecycle").Logger(),
	}
}

// RegisterInput carries the public RSVP form fields.
type RegisterInput struct {
	Name          string
	Email         string
	Phone         string
	Instagram     string
	HasCompanion  bool
	AcceptedTerms bool
}

// Register creates a new pending guest from a form submission.
func (l *Lifecycle) Register(ctx context.Context, in RegisterInput) (*models.Guest, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)

	switch {
	case name == "":
		return nil, &ValidationError{Field: "name", Reason: "required"}
	case email == "":
		return nil, &ValidationError{Field: "email", Reason: "required"}
	case phone == "":
		return nil, &ValidationError{Field: "phone", Reason: "required"}
	case !in.AcceptedTerms:
		return nil, &ValidationError{Field: "accepted_terms", Reason: "the image consent terms must be accepted"}
	}

	// The unique index on email backs this check; the lookup exists to
	// give the caller a friendly error without hitting the constraint.
	if _, err := l.store.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	guest := &models.Guest{
		Name:          name,
		Email:         email,
		Phone:         phone,
		Instagram:     strings.TrimSpace(in.Instagram),
		HasCompanion:  in.HasCompanion,
		AcceptedTerms: true,
		Status:        models.StatusPending,
	}
	if err := l.store.Insert(ctx, guest); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	l.log.Info().Str("guest_id", guest.ID).Str("email", guest.Email).Msg("Guest registered")
	return guest, nil
}

// ApprovalResult is the outcome of an approval. The approval itself is
// durable even when the notification failed; NotificationErr carries the
// non-fatal warning in that case.
type ApprovalResult struct {
	Guest           *models.Guest
	NotificationErr error
}

// Notified reports whether the approval email went out.
func (r *ApprovalResult) Notified() bool {
	return r.NotificationErr == nil
}

// Approve marks the guest approved and issues a fresh QR credential.
// Approving an already-approved or previously-rejected guest is allowed
// and simply re-issues the credential. The approval is persisted before
// the email is attempted; a notification failure is downgraded to a
// warning on the result.
func (l *Lifecycle) Approve(ctx context.Context, guestID string) (*ApprovalResult, error) {
	guest, err := l.store.GetByID(ctx, guestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load guest: %w", err)
	}

	token := qr.NewToken(guest.ID)
	if err := l.store.SetApproval(ctx, guest.ID, token); err != nil {
		return nil, fmt.Errorf("failed to persist approval: %w", err)
	}
	guest.Status = models.StatusApproved
	guest.QRToken = token

	result := &ApprovalResult{Guest: guest}
	result.NotificationErr = l.notify(ctx, guest)
	if result.NotificationErr != nil {
		l.log.Warn().Err(result.NotificationErr).
			Str("guest_id", guest.ID).
			Msg("Guest approved but notification failed")
	} else {
		l.log.Info().Str("guest_id", guest.ID).Msg("Guest approved and notified")
	}
	return result, nil
}

// Reject marks the guest rejected. It is allowed from any status and
// leaves an existing token and check-in state untouched.
func (l *Lifecycle) Reject(ctx context.Context, guestID string) (*models.Guest, error) {
	guest, err := l.store.GetByID(ctx, guestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load guest: %w", err)
	}
	if err := l.store.SetStatus(ctx, guest.ID, models.StatusRejected); err != nil {
		return nil, fmt.Errorf("failed to persist rejection: %w", err)
	}
	guest.Status = models.StatusRejected

	l.log.Info().Str("guest_id", guest.ID).Msg("Guest rejected")
	return guest, nil
}

// CheckIn admits the guest behind a scanned or manually entered code.
// The second scan of the same code deterministically fails with
// ErrAlreadyCheckedIn and never re-stamps the check-in time.
func (l *Lifecycle) CheckIn(ctx context.Context, token string) (*models.Guest, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	guest, err := l.store.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up code: %w", err)
	}
	return l.admit(ctx, guest)
}

// CheckInByID admits a guest from the door list without scanning. Same
// guards as CheckIn.
func (l *Lifecycle) CheckInByID(ctx context.Context, guestID string) (*models.Guest, error) {
	guest, err := l.store.GetByID(ctx, guestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load guest: %w", err)
	}
	return l.admit(ctx, guest)
}

// AddApproved is the admin shortcut for adding a guest who skips the
// public form: the guest is created without the form-only fields, then
// approved like any other, including the credential email.
func (l *Lifecycle) AddApproved(ctx context.Context, name, email string) (*ApprovalResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if email == "" {
		return nil, &ValidationError{Field: "email", Reason: "required"}
	}

	if _, err := l.store.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	guest := &models.Guest{
		Name:          name,
		Email:         email,
		AcceptedTerms: true,
		Status:        models.StatusPending,
	}
	if err := l.store.Insert(ctx, guest); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}
	return l.Approve(ctx, guest.ID)
}

func (l *Lifecycle) admit(ctx context.Context, guest *models.Guest) (*models.Guest, error) {
	if !guest.Approved() {
		return nil, ErrNotApproved
	}
	if guest.CheckedIn {
		return nil, ErrAlreadyCheckedIn
	}

	now := time.Now().UTC()
	ok, err := l.store.MarkCheckedIn(ctx, guest.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to persist check-in: %w", err)
	}
	if !ok {
		// Lost the race against a concurrent scan of the same guest.
		return nil, ErrAlreadyCheckedIn
	}
	guest.CheckedIn = true
	guest.CheckedInAt = &now

	l.log.Info().Str("guest_id", guest.ID).Str("name", guest.Name).Msg("Guest checked in")
	return guest, nil
}

func (l *Lifecycle) notify(ctx context.Context, guest *models.Guest) error {
	image, err := l.encoder.Encode(guest.QRToken)
	if err != nil {
		return fmt.Errorf("failed to render QR image: %w", err)
	}
	if err := l.notifier.SendApprovalEmail(ctx, guest.Email, guest.Name, guest.HasCompanion, image); err != nil {
		return fmt.Errorf("failed to send approval email: %w", err)
	}
	return nil
}
