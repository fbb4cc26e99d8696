package remote

import (
	"crypto/rand"
	"fmt"
	"time"
)

// codeAlphabet avoids ambiguous characters (0/O, 1/I) since invite
// codes are read aloud between partners.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// codeLength is the fixed invite code length.
const codeLength = 6

// InviteTTL is how long a partner invite stays claimable.
const InviteTTL = 15 * time.Minute

// GenerateInviteCode creates a random 6-character invite code.
func GenerateInviteCode() string {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}
