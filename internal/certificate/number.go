package certificate

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewNumber returns CERT-YYYYMMDD-XXXXXXXX with an 8 character random suffix.
func NewNumber(issuedAt time.Time) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	var suffix strings.Builder
	for _, b := range buf {
		suffix.WriteByte(numberAlphabet[int(b)%len(numberAlphabet)])
	}
	return fmt.Sprintf("CERT-%s-%s", issuedAt.UTC().Format("20060102"), suffix.String()), nil
}
