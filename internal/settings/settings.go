// Package settings exposes the editable event configuration: values
// saved from the admin panel override the defaults from the environment.
package settings

import (
	"context"
	"fmt"

	"event-rsvp/internal/models"
	"event-rsvp/internal/storage"
)

// Service reads and writes event settings on top of config defaults.
type Service struct {
	store    storage.SettingsStore
	defaults models.EventInfo
}

// New creates a settings service with the given fallback defaults.
func New(store storage.SettingsStore, defaults models.EventInfo) *Service {
	return &Service{store: store, defaults: defaults}
}

// EventInfo returns the current event details, stored values first.
func (s *Service) EventInfo(ctx context.Context) (models.EventInfo, error) {
	info := s.defaults
	fields := []struct {
		key string
		dst *string
	}{
		{models.SettingEventName, &info.Name},
		{models.SettingEventDate, &info.Date},
		{models.SettingEventLocation, &info.Location},
		{models.SettingEventAddress, &info.Address},
		{models.SettingWhatsAppGroupLink, &info.WhatsAppGroupLink},
		{models.SettingContactPhone, &info.ContactPhone},
		{models.SettingContactEmail, &info.ContactEmail},
	}
	for _, f := range fields {
		value, err := s.store.GetSetting(ctx, f.key)
		if err != nil {
			return info, fmt.Errorf("failed to load setting %q: %w", f.key, err)
		}
		if value != "" {
			*f.dst = value
		}
	}
	return info, nil
}

// Save persists the event details from the admin settings form.
func (s *Service) Save(ctx context.Context, info models.EventInfo) error {
	fields := map[string]string{
		models.SettingEventName:         info.Name,
		models.SettingEventDate:         info.Date,
		models.SettingEventLocation:     info.Location,
		models.SettingEventAddress:      info.Address,
		models.SettingWhatsAppGroupLink: info.WhatsAppGroupLink,
		models.SettingContactPhone:      info.ContactPhone,
		models.SettingContactEmail:      info.ContactEmail,
	}
	for key, value := range fields {
		if err := s.store.SetSetting(ctx, key, value); err != nil {
			return fmt.Errorf("failed to save setting %q: %w", key, err)
		}
	}
	return nil
}
