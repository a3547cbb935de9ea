package mailer

import (
	"html/template"

	"event-rsvp/internal/models"
)

const qrAttachmentName = "qrcode.png"

type approvalData struct {
	Name         string
	HasCompanion bool
	Event        models.EventInfo
}

var approvalTemplate = template.Must(template.New("approval").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="margin-bottom: 8px;">{{.Event.Name}}</h1>
    <p style="font-size: 18px; color: #444;">Your attendance is confirmed!</p>
  </div>

  <p style="font-size: 16px;">Hi {{.Name}},</p>
  <p style="font-size: 16px;">You are officially on the guest list.</p>

  <div style="background: #f8f9fa; padding: 20px; border-radius: 10px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Event details</h3>
    <p style="margin: 4px 0;"><strong>Date:</strong> {{.Event.Date}}</p>
    <p style="margin: 4px 0;"><strong>Location:</strong> {{.Event.Location}}</p>
    {{if .Event.Address}}<p style="margin: 4px 0;"><strong>Address:</strong> {{.Event.Address}}</p>{{end}}
    {{if .HasCompanion}}<p style="margin: 4px 0;"><strong>Companion:</strong> yes</p>{{end}}
  </div>

  <div style="text-align: center; margin: 25px 0; padding: 20px; border: 2px dashed #ccc; border-radius: 10px;">
    <h3 style="margin-top: 0;">Your QR code</h3>
    <img src="cid:qrcode.png" alt="QR code" style="max-width: 250px;">
    <p style="color: #666; font-size: 14px;">Present this code at the entrance. It is unique and non-transferable.</p>
  </div>

  <div style="background: #e8f5e8; padding: 18px; border-radius: 10px; border-left: 4px solid #28a745;">
    <h4 style="margin-top: 0;">Important</h4>
    <ul style="margin: 0; padding-left: 20px;">
      <li>Arrive early to make check-in easier</li>
      <li>Keep a screenshot of this code as backup</li>
      <li>Bring a photo ID</li>
      {{if .HasCompanion}}<li>Your companion must arrive with you</li>{{end}}
    </ul>
  </div>

  <div style="text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; color: #777;">
    {{if .Event.ContactPhone}}<p style="margin: 4px 0;">WhatsApp: {{.Event.ContactPhone}}</p>{{end}}
    {{if .Event.ContactEmail}}<p style="margin: 4px 0;">Email: {{.Event.ContactEmail}}</p>{{end}}
    <p style="font-size: 12px;">This email was sent automatically, please do not reply.</p>
  </div>
</body>
</html>
`))
