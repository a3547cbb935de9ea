package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-rsvp/internal/models"
	"event-rsvp/internal/qr"
	"event-rsvp/internal/storage"
)

// fakeNotifier records approval emails and can be told to fail.
type fakeNotifier struct {
	mu    sync.Mutex
	sends []sentMail
	fail  error
}

type sentMail struct {
	to      string
	name    string
	company bool
	image   []byte
}

func (f *fakeNotifier) SendApprovalEmail(_ context.Context, to, name string, hasCompanion bool, qrImage []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sends = append(f.sends, sentMail{to: to, name: name, company: hasCompanion, image: qrImage})
	return nil
}

func (f *fakeNotifier) sent() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMail(nil), f.sends...)
}

func setupLifecycle(t *testing.T) (*Lifecycle, *storage.SQLiteStore, *fakeNotifier) {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	notifier := &fakeNotifier{}
	lc := New(store, notifier, qr.Encoder{}, zerolog.Nop())
	return lc, store, notifier
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:          "Ana",
		Email:         "ana@x.com",
		Phone:         "+5584999990000",
		AcceptedTerms: true,
	}
}

func TestRegister(t *testing.T) {
	lc, _, _ := setupLifecycle(t)
	ctx := context.Background()

	guest, err := lc.Register(ctx, validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, guest.ID)
	assert.Equal(t, models.StatusPending, guest.Status)
	assert.False(t, guest.CheckedIn)
	assert.Nil(t, guest.CheckedInAt)
	assert.Empty(t, guest.QRToken)
	assert.True(t, guest.AcceptedTerms)
}

func TestRegisterNormalizesFields(t *testing.T) {
	lc, _, _ := setupLifecycle(t)

	guest, err := lc.Register(context.Background(), RegisterInput{
		Name:          "  Ana Souza  ",
		Email:         " Ana@X.COM ",
		Phone:         " +55 84 99999-0000 ",
		Instagram:     " @ana ",
		AcceptedTerms: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza", guest.Name)
	assert.Equal(t, "ana@x.com", guest.Email)
	assert.Equal(t, "+55 84 99999-0000", guest.Phone)
	assert.Equal(t, "@ana", guest.Instagram)
}

func TestRegisterValidation(t *testing.T) {
	lc, store, _ := setupLifecycle(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "  " }, "name"},
		{"missing email", func(in *RegisterInput) { in.Email = "" }, "email"},
		{"missing phone", func(in *RegisterInput) { in.Phone = "" }, "phone"},
		{"terms not accepted", func(in *RegisterInput) { in.AcceptedTerms = false }, "accepted_terms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := lc.Register(ctx, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	guests, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, guests, "failed registrations must not create rows")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	lc, store, _ := setupLifecycle(t)
	ctx := context.Background()

	_, err := lc.Register(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Bo"
	in.Email = "ANA@x.com"
	_, err = lc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	guests, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, guests, 1, "duplicate registration must not create a second row")
}

func TestApprove(t *testing.T) {
	lc, store, notifier := setupLifecycle(t)
	ctx := context.Background()

	guest, err := lc.Register(ctx, validInput())
	require.NoError(t, err)

	result, err := lc.Approve(ctx, guest.ID)
	require.NoError(t, err)
	assert.True(t, result.Notified())
	assert.Equal(t, models.StatusApproved, result.Guest.Status)
	assert.NotEmpty(t, result.Guest.QRToken)

	stored, err := store.GetByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Guest.QRToken, stored.QRToken)

	sends := notifier.sent()
	require.Len(t, sends, 1)
	assert.Equal(t, "ana@x.com", sends[0].to)
	assert.Equal(t, "Ana", sends[0].name)
	assert.NotEmpty(t, sends[0].image)
}

func TestApproveReissuesToken(t *testing.T) {
	lc, store, notifier := setupLifecycle(t)
	ctx := context.Background()

	guest, err := lc.Register(ctx, validInput())
	require.NoError(t, err)

	first, err := lc.Approve(ctx, guest.ID)
	require.NoError(t, err)
	second, err := lc.Approve(ctx, guest.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.Guest.QRToken, second.Guest.QRToken, "re-approval must issue a fresh token")
	assert.Len(t, notifier.sent(), 2, "each approval notifies once")

	guests, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, guests, 1)
}

func TestApproveNotificationFailureIsNonFatal(t *testing.T) {
	lc, store, notifier := setupLifecycle(t)
	ctx := context.Background()

	guest, err := lc.Register(ctx, validInput())
	require.NoError(t, err)

	notifier.fail = errors.New("smtp unreachable")
	result, err := lc.Approve(ctx, guest.ID)
	require.NoError(t, err, "approval must not fail on notification errors")
	assert.False(t, result.Notified())
	assert.Error(t, result.NotificationErr)

	stored, err := store.GetByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status, "approval is durable despite email failure")
	assert.NotEmpty(t, stored.QRToken)
}

func TestApproveUnknownGuest(t *testing.T) {
	lc, _, _ := setupLifecycle(t)
	_, err := lc.Approve(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectKeepsTokenAndCheckIn(t *testing.T) {
	lc, store, _ := setupLifecycle(t)
	ctx := context.Background()

	guest, err := lc.Register(ctx, validInput())
	require.NoError(t, err)
	approved, err := lc.Approve(ctx, guest.ID)
	require.NoError(t, err)
	_, err = lc.CheckIn(ctx, approved.Guest.QRToken)
	require.NoError(t, err)

	rejected, err := lc.Reject(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)

	stored, err := store.GetByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, approved.Guest.QRToken, stored.QRToken)
	assert.True(t, stored.CheckedIn)
}

func TestRejectUnknownGuest(t *testing.T) {
	lc, _, _ := setupLifecycle(t)
	_, err := lc.Reject(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckInIdempotence(t *testing.T) {
	lc, store, _ := setupLifecycle(t)
	ctx := context.Background()

	guest, err := lc.Register(ctx, validInput())
	require.NoError(t, err)
	approved, err := lc.Approve(ctx, guest.ID)
	require.NoError(t, err)
	token := approved.Guest.QRToken

	admitted, err := lc.CheckIn(ctx, token)
	require.NoError(t, err)
	assert.True(t, admitted.CheckedIn)
	require.NotNil(t, admitted.CheckedInAt)
	firstStamp := *admitted.CheckedInAt

	_, err = lc.CheckIn(ctx, token)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	stored, err := store.GetByID(ctx, guest.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CheckedInAt)
	assert.True(t, stored.CheckedInAt.Equal(firstStamp), "second scan must not re-stamp checked_in_at")
}

func TestCheckInTrimsToken(t *testing.T) {
	lc, _, _ := setupLifecycle(t)
	ctx := context.Background()

	guest, err := lc.Register(ctx, validInput())
	require.NoError(t, err)
	approved, err := lc.Approve(ctx, guest.ID)
	require.NoError(t, err)

	admitted, err := lc.CheckIn(ctx, "  "+approved.Guest.QRToken+"\n")
	require.NoError(t, err)
	assert.True(t, admitted.CheckedIn)
}

func TestCheckInUnknownToken(t *testing.T) {
	lc, _, _ := setupLifecycle(t)
	ctx := context.Background()

	_, err := lc.CheckIn(ctx, "EVT1-nobody-deadbeef")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = lc.CheckIn(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckInRejectedGuest(t *testing.T) {
	lc, store, _ := setupLifecycle(t)
	ctx := context.Background()

	guest, err := lc.Register(ctx, validInput())
	require.NoError(t, err)
	approved, err := lc.Approve(ctx, guest.ID)
	require.NoError(t, err)
	_, err = lc.Reject(ctx, guest.ID)
	require.NoError(t, err)

	// The token survives rejection but must no longer admit anyone.
	_, err = lc.CheckIn(ctx, approved.Guest.QRToken)
	assert.ErrorIs(t, err, ErrNotApproved)

	stored, err := store.GetByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.False(t, stored.CheckedIn)
}

func TestCheckInByID(t *testing.T) {
	lc, _, _ := setupLifecycle(t)
	ctx := context.Background()

	guest, err := lc.Register(ctx, validInput())
	require.NoError(t, err)

	_, err = lc.CheckInByID(ctx, guest.ID)
	assert.ErrorIs(t, err, ErrNotApproved, "pending guests cannot be admitted")

	_, err = lc.Approve(ctx, guest.ID)
	require.NoError(t, err)

	admitted, err := lc.CheckInByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.True(t, admitted.CheckedIn)

	_, err = lc.CheckInByID(ctx, guest.ID)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	_, err = lc.CheckInByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddApproved(t *testing.T) {
	lc, _, notifier := setupLifecycle(t)
	ctx := context.Background()

	result, err := lc.AddApproved(ctx, "Manual Guest", "Manual@X.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, result.Guest.Status)
	assert.Equal(t, "manual@x.com", result.Guest.Email)
	assert.NotEmpty(t, result.Guest.QRToken)
	assert.Len(t, notifier.sent(), 1)

	_, err = lc.AddApproved(ctx, "Again", "manual@x.com")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = lc.AddApproved(ctx, "", "x@y.com")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

// Full walk through the happy path: register, approve, check in, and the
// rejected second scan.
func TestGuestJourney(t *testing.T) {
	lc, _, _ := setupLifecycle(t)
	ctx := context.Background()

	guest, err := lc.Register(ctx, RegisterInput{
		Name:          "Ana",
		Email:         "ana@x.com",
		Phone:         "+5584999990000",
		AcceptedTerms: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, guest.Status)

	result, err := lc.Approve(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, result.Guest.Status)
	require.NotEmpty(t, result.Guest.QRToken)

	admitted, err := lc.CheckIn(ctx, result.Guest.QRToken)
	require.NoError(t, err)
	assert.True(t, admitted.CheckedIn)

	_, err = lc.CheckIn(ctx, result.Guest.QRToken)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}
