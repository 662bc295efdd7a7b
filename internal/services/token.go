package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// ShareTokenTTL is how long a minted test link stays valid.
const ShareTokenTTL = 7 * 24 * time.Hour

// NewShareToken mints an opaque session token. The instrument prefix and
// millisecond component keep links recognizable and unique per mint; the
// suffix comes from crypto/rand so the token is not guessable.
func NewShareToken(instrument InstrumentType, now time.Time) (string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", NewUnavailableError("token generation failed")
	}
	return fmt.Sprintf("%s_%d_%s", instrument, now.UnixMilli(), hex.EncodeToString(b)), nil
}

// ShareTokenExpiry computes the expiry instant for a token minted at now.
func ShareTokenExpiry(now time.Time) time.Time {
	return now.Add(ShareTokenTTL)
}
