// Package reference generates human-readable booking references. The format
// is "FB" followed by the current millisecond timestamp in uppercase base 36
// and three random base-36 characters. Collisions are unlikely but not
// impossible; uniqueness is enforced by the bookings table constraint and
// callers retry with a fresh reference on a duplicate.
package reference

import (
	"crypto/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	prefix       = "FB"
	alphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffixLength = 3
)

var pattern = regexp.MustCompile(`^FB[0-9A-Z]{6,16}$`)

// rejection threshold: the largest multiple of len(alphabet) that fits in a
// byte, so the modulo below stays uniform.
const maxUnbiased = 256 - 256%len(alphabet)

func New() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	suffix := make([]byte, 0, suffixLength)
	buf := make([]byte, suffixLength)
	for len(suffix) < suffixLength {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand never fails on supported platforms
			panic(err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased || len(suffix) == suffixLength {
				continue
			}
			suffix = append(suffix, alphabet[int(b)%len(alphabet)])
		}
	}
	return prefix + ts + string(suffix)
}

// Valid reports whether s looks like a booking reference. It is a format
// check only, not an existence check.
func Valid(s string) bool {
	return pattern.MatchString(s)
}
