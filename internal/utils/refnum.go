package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Reference prefixes for orders and bookings.
const (
	OrderRefPrefix   = "ORD"
	BookingRefPrefix = "BKG"
)

// Ambiguous characters (0/O, 1/I/L) are excluded since references are read
// back over the phone.
const refAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateReference returns a human-readable reference number such as
// ORD-20260831-K7PM2X. The suffix comes from crypto/rand, so concurrent
// requests cannot collide the way a count-then-append scheme would; the
// unique index on the column backs the remaining 31^6 odds.
func GenerateReference(prefix string) (string, error) {
	suffix := make([]byte, 6)
	max := big.NewInt(int64(len(refAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = refAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), suffix), nil
}

// GenerateOTPCode returns a 6-digit numeric one-time code.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
