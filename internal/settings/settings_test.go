package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-rsvp/internal/models"
	"event-rsvp/internal/storage"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return New(store, models.EventInfo{
		Name:     "Default Event",
		Date:     "TBD",
		Location: "Venue TBD",
	})
}

func TestEventInfoDefaults(t *testing.T) {
	svc := setupService(t)

	info, err := svc.EventInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Default Event", info.Name)
	assert.Equal(t, "TBD", info.Date)
	assert.Empty(t, info.WhatsAppGroupLink)
}

func TestSaveOverridesDefaults(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, models.EventInfo{
		Name:              "EP Recording",
		Date:              "Oct 9, 15:00",
		Location:          "Prainha",
		Address:           "Av. Senador Dinarte Mariz, 4077",
		WhatsAppGroupLink: "https://chat.whatsapp.com/xyz",
	}))

	info, err := svc.EventInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EP Recording", info.Name)
	assert.Equal(t, "Oct 9, 15:00", info.Date)
	assert.Equal(t, "Prainha", info.Location)
	assert.Equal(t, "https://chat.whatsapp.com/xyz", info.WhatsAppGroupLink)
}
