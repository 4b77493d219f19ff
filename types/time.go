package types

import (
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
)

// Time is a consensus timestamp represented as seconds since the Unix
// epoch plus a nanosecond remainder, rather than as a language time.Time,
// so that values round-trip exactly through the canonical vote encoding
// without a timezone or monotonic-reading surprise.
type Time struct {
	Seconds *big.Int
	Nanos   int32 // always in [0, 1e9)
}

// ParseRFC3339 parses an RFC 3339 timestamp with an optional fractional
// seconds component of up to 9 digits, per the /commit document's time
// fields. time.RFC3339Nano's layout accepts a fraction of any length (Go's
// parser truncates beyond 9 digits and zero-fills a shorter one), which is
// exactly the zero-right-pad-then-truncate-to-9 rule this field needs.
func ParseRFC3339(s string) (Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Time{}, fmt.Errorf("timestamp: %q is not RFC3339: %w", s, err)
	}
	return Time{Seconds: big.NewInt(t.Unix()), Nanos: int32(t.Nanosecond())}, nil
}

// IsZero reports whether t is the unset value.
func (t Time) IsZero() bool {
	return t.Seconds == nil
}

func (t Time) String() string {
	if t.IsZero() {
		return "<nil>"
	}
	return time.Unix(t.Seconds.Int64(), int64(t.Nanos)).UTC().Format(time.RFC3339Nano)
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (t Time) MarshalZerologObject(e *zerolog.Event) {
	if t.IsZero() {
		e.Str("time", "")
		return
	}
	e.Str("time", t.String())
}
