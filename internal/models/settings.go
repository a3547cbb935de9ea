package models

// Setting keys stored in the event_settings table.
const (
	SettingEventName         = "event_name"
	SettingEventDate         = "event_date"
	SettingEventLocation     = "event_location"
	SettingEventAddress      = "event_address"
	SettingWhatsAppGroupLink = "whatsapp_group_link"
	SettingContactPhone      = "contact_phone"
	SettingContactEmail      = "contact_email"
)

// EventInfo is the displayable event configuration, assembled from
// stored settings with config defaults filling the gaps.
type EventInfo struct {
	Name              string
	Date              string
	Location          string
	Address           string
	WhatsAppGroupLink string
	ContactPhone      string
	ContactEmail      string
}
