package booking

import "crypto/rand"

// codeAlphabet excludes visually ambiguous characters (0/O, 1/I/L) so
// confirmation codes survive being read over the phone.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 8

// NewConfirmationCode produces a short human-shareable booking code of
// the form "CV" plus eight random characters.  Generation alone is
// probabilistic; true global uniqueness is enforced by the UNIQUE
// constraint on bookings.confirmation_code, and the caller retries
// with a fresh code when the insert reports a collision.
func NewConfirmationCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, 2+codeLength)
	out[0], out[1] = 'C', 'V'
	for i, b := range buf {
		out[2+i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}
