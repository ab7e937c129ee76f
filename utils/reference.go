package utils

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

// referenceAlphabet is the character set reference codes are drawn from.
const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferenceLength is the fixed length of a booking reference code.
const ReferenceLength = 16

// GenerateReferenceCode produces a 16-character code of uppercase letters and
// digits. Uniqueness against existing bookings is the caller's job; this only
// guarantees the draw is unpredictable.
func GenerateReferenceCode() (string, error) {
	buf := make([]byte, ReferenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return string(buf), nil
}

// GenerateConfirmationToken produces the unguessable capability used in the
// customer confirmation link. A random UUID, never derived from booking data.
func GenerateConfirmationToken() string {
	return uuid.NewString()
}
