package bookings

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateBookingReference generates a unique, human-presentable booking
// reference, e.g. "TKT-20260828-QWJZNF". The random part uses crypto/rand so
// references stay collision-resistant and are never reused, even after
// cancellation.
func GenerateBookingReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("TKT-%s-%s", timestamp, string(randomPart)), nil
}

// GenerateTransactionID generates a transaction identifier for free-event
// bookings that never touch the gateway.
func GenerateTransactionID() string {
	timestamp := time.Now().Unix()
	shortUUID := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", timestamp, strings.ToUpper(shortUUID))
}
