package substitution

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const alnumAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Functions replaces every occurrence of the fixed token set `guid()`,
// `string()`, `timestamp()` with a freshly generated value. Each occurrence,
// including repeats of the same token, gets its own independent value — this
// layer has no fixed point.
func Functions(text string) string {
	text = replaceAll(text, "guid()", newGUID)
	text = replaceAll(text, "string()", newRandomString)
	text = replaceAll(text, "timestamp()", newTimestamp)
	return text
}

func replaceAll(text, token string, gen func() string) string {
	var b strings.Builder
	rest := text
	for {
		i := strings.Index(rest, token)
		if i < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:i])
		b.WriteString(gen())
		rest = rest[i+len(token):]
	}
	return b.String()
}

// newGUID returns 32 lowercase hex characters: a v4 UUID with its dashes
// stripped.
func newGUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

// newRandomString returns a 20-character alphanumeric token.
func newRandomString() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read on the standard reader only fails if the OS
		// entropy source is unavailable; fall back to a fixed-width zero
		// string rather than panicking mid-substitution.
		return strings.Repeat("0", 20)
	}
	out := make([]byte, 20)
	for i, b := range buf {
		out[i] = alnumAlphabet[int(b)%len(alnumAlphabet)]
	}
	return string(out)
}

// newTimestamp returns the current Unix time in seconds, as decimal text.
func newTimestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}
