// Package timecode turns event-relative time expressions into integer sort keys.
//
// Two dialects are supported. The matchday dialect orders running-order items:
//
//	-HH:MM[:SS]   before kickoff
//	+HH:MM[:SS]   after kickoff
//	HT+HH:MM[:SS] after the half-time whistle
//	FT+HH:MM[:SS] after the full-time whistle
//	HH:MM[:SS]    absolute clock time
//
// The fan-zone dialect orders perpetual schedules with minute offsets (T-30,
// T+10, -00:30, +01:00), named markers (KO, HT START, HT WINDOW, HT END, FT,
// INTER-MATCH, CLOSE) and minutes after full time (FT+15 or a trailing +15).
//
// Parsing never fails. Unrecognized input yields a Code whose key is the
// dialect's sentinel so it sorts last, and whose Recognized method reports
// false so callers can validate at entry time.
package timecode

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Band is the disjoint range a time expression sorts into.
type Band int

const (
	// BandBeforeKickoff covers offsets before the nominal start.
	BandBeforeKickoff Band = iota
	// BandAfterKickoff covers positive kickoff offsets.
	BandAfterKickoff
	// BandHalfTime covers offsets measured from the half-time whistle.
	BandHalfTime
	// BandFullTime covers offsets measured from the full-time whistle.
	BandFullTime
	// BandClock covers absolute wall-clock times.
	BandClock
	// BandUnrecognized marks input outside the grammar.
	BandUnrecognized
)

// String implements fmt.Stringer.
func (b Band) String() string {
	switch b {
	case BandBeforeKickoff:
		return "before-kickoff"
	case BandAfterKickoff:
		return "after-kickoff"
	case BandHalfTime:
		return "half-time"
	case BandFullTime:
		return "full-time"
	case BandClock:
		return "clock"
	default:
		return "unrecognized"
	}
}

// BandSpan is the width of one matchday band in seconds. It exceeds the
// largest two-digit-hour offset (99:59:59) so bands never overlap.
const BandSpan = 1_000_000

const (
	// Unrecognized is the matchday key for input outside the grammar.
	Unrecognized = (int(BandUnrecognized) + 1) * BandSpan
	// FanZoneUnrecognized is the fan-zone key for input outside the grammar.
	FanZoneUnrecognized = 1_000_000
)

// Code is the tagged result of parsing a time expression: either a
// recognized key inside a band, or the unrecognized sentinel.
type Code struct {
	key        int
	band       Band
	recognized bool
}

// Key returns the sort key. Unrecognized codes return the dialect sentinel.
func (c Code) Key() int { return c.key }

// Band reports which band the expression fell into.
func (c Code) Band() Band { return c.band }

// Recognized reports whether the expression matched the grammar.
func (c Code) Recognized() bool { return c.recognized }

// String implements fmt.Stringer.
func (c Code) String() string {
	if !c.recognized {
		return "unrecognized"
	}
	return fmt.Sprintf("%s(%d)", c.band, c.key)
}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// Parse decodes a matchday running-order time expression.
func Parse(raw string) Code {
	s := compact(raw)
	switch {
	case strings.HasPrefix(s, "HT+"):
		return offsetCode(s[3:], BandHalfTime)
	case strings.HasPrefix(s, "FT+"):
		return offsetCode(s[3:], BandFullTime)
	case strings.HasPrefix(s, "-"):
		seconds, ok := clockSeconds(s[1:], 99)
		if !ok {
			return unrecognized()
		}
		return Code{key: -seconds, band: BandBeforeKickoff, recognized: true}
	case strings.HasPrefix(s, "+"):
		return offsetCode(s[1:], BandAfterKickoff)
	default:
		// Absolute clock time is bounded to a single day.
		seconds, ok := clockSeconds(s, 23)
		if !ok {
			return unrecognized()
		}
		return Code{key: int(BandClock)*BandSpan + seconds, band: BandClock, recognized: true}
	}
}

// Key returns the matchday sort key for raw.
func Key(raw string) int { return Parse(raw).Key() }

// IsRecognized reports whether raw is a valid matchday time expression.
func IsRecognized(raw string) bool { return Parse(raw).Recognized() }

// Compare orders two matchday expressions by key.
func Compare(a, b string) int { return cmp.Compare(Key(a), Key(b)) }

func offsetCode(s string, band Band) Code {
	seconds, ok := clockSeconds(s, 99)
	if !ok {
		return unrecognized()
	}
	return Code{key: int(band)*BandSpan + seconds, band: band, recognized: true}
}

func unrecognized() Code {
	return Code{key: Unrecognized, band: BandUnrecognized}
}

// clockSeconds parses HH:MM or HH:MM:SS into seconds, rejecting minute or
// second fields above 59 and hours above maxHours.
func clockSeconds(s string, maxHours int) (int, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds := 0
	if m[3] != "" {
		seconds, _ = strconv.Atoi(m[3])
	}
	if hours > maxHours || minutes > 59 || seconds > 59 {
		return 0, false
	}
	return hours*3600 + minutes*60 + seconds, true
}

// compact upper-cases and strips all whitespace.
func compact(raw string) string {
	return strings.Join(strings.Fields(strings.ToUpper(raw)), "")
}
