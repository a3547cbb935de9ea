package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"event-rsvp/internal/models"
)

//go:embed schema.sql
var schema string

// SQLiteStore implements GuestStore and SettingsStore on a local SQLite
// database. Single-row updates are serialized by SQLite itself.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and applies the
// schema. Use ":memory:" for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers anyway; a single connection also keeps
	// ":memory:" databases from vanishing between pooled connections.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert stores a new guest, assigning an id and creation timestamp if
// they are missing. A second row for the same email (case-insensitive)
// fails with ErrDuplicateEmail.
func (s *SQLiteStore) Insert(ctx context.Context, guest *models.Guest) error {
	if guest.ID == "" {
		guest.ID = uuid.NewString()
	}
	if guest.CreatedAt.IsZero() {
		guest.CreatedAt = time.Now().UTC()
	}
	if guest.Status == "" {
		guest.Status = models.StatusPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guests (id, name, email, phone, instagram, has_companion,
			accepted_terms, status, qr_token, checked_in, checked_in_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, guest.ID, guest.Name, guest.Email, guest.Phone, guest.Instagram,
		guest.HasCompanion, guest.AcceptedTerms, string(guest.Status),
		guest.QRToken, guest.CheckedIn, nullTime(guest.CheckedInAt), guest.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert guest: %w", err)
	}
	return nil
}

// GetByID retrieves a guest by id.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*models.Guest, error) {
	return s.getByWhere(ctx, "id = ?", id)
}

// GetByEmail retrieves a guest by email, case-insensitively.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (*models.Guest, error) {
	return s.getByWhere(ctx, "lower(email) = lower(?)", email)
}

// GetByToken retrieves a guest by its QR token. The match is exact and
// case-sensitive; empty tokens never match.
func (s *SQLiteStore) GetByToken(ctx context.Context, token string) (*models.Guest, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return s.getByWhere(ctx, "qr_token = ?", token)
}

// SetApproval marks the guest approved with a freshly issued token.
func (s *SQLiteStore) SetApproval(ctx context.Context, id, token string) error {
	return s.update(ctx, "UPDATE guests SET status = ?, qr_token = ? WHERE id = ?",
		string(models.StatusApproved), token, id)
}

// SetStatus updates only the guest status. Token and check-in state are
// left untouched.
func (s *SQLiteStore) SetStatus(ctx context.Context, id string, status models.Status) error {
	return s.update(ctx, "UPDATE guests SET status = ? WHERE id = ?", string(status), id)
}

// MarkCheckedIn performs the check-in as a single conditional update so
// that concurrent scans of the same guest cannot both succeed. Returns
// false when the guest was already checked in.
func (s *SQLiteStore) MarkCheckedIn(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE guests SET checked_in = 1, checked_in_at = ? WHERE id = ? AND checked_in = 0",
		at.UTC(), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark checked in: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// List returns all guests, newest-created first.
func (s *SQLiteStore) List(ctx context.Context) ([]*models.Guest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, instagram, has_companion, accepted_terms,
			status, qr_token, checked_in, checked_in_at, created_at
		FROM guests
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	defer rows.Close()

	var guests []*models.Guest
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, guest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	return guests, nil
}

// GetSetting returns the stored value for key, or "" when unset.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM event_settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts a setting value.
func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) getByWhere(ctx context.Context, where string, arg any) (*models.Guest, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, instagram, has_companion, accepted_terms,
			status, qr_token, checked_in, checked_in_at, created_at
		FROM guests WHERE `+where, arg)
	guest, err := scanGuest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return guest, nil
}

func (s *SQLiteStore) update(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update guest: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGuest(row scanner) (*models.Guest, error) {
	guest := &models.Guest{}
	var status string
	var checkedInAt sql.NullTime
	err := row.Scan(&guest.ID, &guest.Name, &guest.Email, &guest.Phone,
		&guest.Instagram, &guest.HasCompanion, &guest.AcceptedTerms,
		&status, &guest.QRToken, &guest.CheckedIn, &checkedInAt, &guest.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan guest: %w", err)
	}
	guest.Status = models.Status(status)
	if checkedInAt.Valid {
		t := checkedInAt.Time
		guest.CheckedInAt = &t
	}
	return guest, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
