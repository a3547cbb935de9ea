// Package qr issues check-in credentials and renders them as QR images.
//
// Token scheme: EVT1-<guest-id>-<32 hex chars>. The random component
// comes from crypto/rand, so a token cannot be guessed from the guest id
// and every approval issues a distinct credential. Decoding back to the
// token string happens on the scanning device; the server only ever sees
// the decoded string.
package qr

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// ImageSize is the pixel width of generated QR images.
const ImageSize = 300

// NewToken issues a fresh credential for the given guest.
func NewToken(guestID string) string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("qr: read random: %v", err))
	}
	return fmt.Sprintf("EVT1-%s-%s", guestID, hex.EncodeToString(buf))
}

// Encoder renders tokens as scannable PNG images.
type Encoder struct{}

// Encode returns a PNG containing the token.
func (Encoder) Encode(token string) ([]byte, error) {
	png, err := qrcode.Encode(token, qrcode.Medium, ImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
