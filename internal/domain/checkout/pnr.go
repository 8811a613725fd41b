package checkout

import "crypto/rand"

const (
	pnrLength  = 6
	pnrCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GeneratePNR returns a fresh 6-character booking reference drawn from
// [A-Z0-9]. It is regenerated for every checkout attempt; uniqueness across
// orders is the backend's problem.
func GeneratePNR() string {
	buf := make([]byte, pnrLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = pnrCharset[int(b)%len(pnrCharset)]
	}
	return string(buf)
}
