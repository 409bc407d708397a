package ledger

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/brightvolt/backoffice-backend/pkg/enums"
)

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewReference builds a human-readable transaction reference such as
// TXN-PUR-20260831-K7M2Q9RD. Uniqueness is enforced by the storage layer.
func NewReference(t enums.TransactionType, at time.Time) string {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		nanos := at.UnixNano()
		for i := range suffix {
			suffix[i] = referenceAlphabet[int(nanos>>uint(i*5))&31]
		}
	} else {
		for i := range suffix {
			suffix[i] = referenceAlphabet[int(suffix[i])%len(referenceAlphabet)]
		}
	}
	return fmt.Sprintf("TXN-%s-%s-%s", t.ReferencePrefix(), at.UTC().Format("20060102"), suffix)
}
