package helpers

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewPublicID returns a shareable card handle: card-<unix millis>-<9 random base36 chars>.
func NewPublicID(now time.Time) string {
	return "card-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + randomBase36(9)
}

func randomBase36(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(base36)))
	for i := range out {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		out[i] = base36[v.Int64()]
	}
	return string(out)
}
