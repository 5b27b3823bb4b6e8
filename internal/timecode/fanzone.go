package timecode

import (
	"regexp"
	"strconv"
)

// Fan-zone marker keys, in minutes relative to kickoff.
const (
	KickoffMinute    = 0
	HalfTimeStart    = 45
	HalfTimeWindow   = 50
	HalfTimeEnd      = 60
	FullTimeMinute   = 90
	InterMatchMinute = 500
	CloseMinute      = 1000
)

var fanZoneMarkers = map[string]Code{
	"KO":          {key: KickoffMinute, band: BandAfterKickoff, recognized: true},
	"HTSTART":     {key: HalfTimeStart, band: BandHalfTime, recognized: true},
	"HTWINDOW":    {key: HalfTimeWindow, band: BandHalfTime, recognized: true},
	"HTEND":       {key: HalfTimeEnd, band: BandHalfTime, recognized: true},
	"FT":          {key: FullTimeMinute, band: BandFullTime, recognized: true},
	"INTER-MATCH": {key: InterMatchMinute, band: BandFullTime, recognized: true},
	"INTERMATCH":  {key: InterMatchMinute, band: BandFullTime, recognized: true},
	"CLOSE":       {key: CloseMinute, band: BandFullTime, recognized: true},
}

// Minute counts are capped at five digits so every recognized key stays
// below FanZoneUnrecognized.
var (
	rawOffsetPattern   = regexp.MustCompile(`^T([+-])(\d{1,5})$`)
	afterFullPattern   = regexp.MustCompile(`^(?:FT)?\+(\d{1,5})$`)
	signedClockPattern = regexp.MustCompile(`^([+-])(\d{1,2}:\d{2}(?::\d{2})?)$`)
)

// ParseFanZone decodes a fan-zone schedule time expression. Keys are minutes
// relative to kickoff.
func ParseFanZone(raw string) Code {
	s := compact(raw)
	if code, ok := fanZoneMarkers[s]; ok {
		return code
	}

	if m := rawOffsetPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return fanZoneUnrecognized()
		}
		if m[1] == "-" {
			return Code{key: -n, band: BandBeforeKickoff, recognized: true}
		}
		return Code{key: n, band: BandAfterKickoff, recognized: true}
	}

	// +HH:MM must be tried before the bare +N form.
	if m := signedClockPattern.FindStringSubmatch(s); m != nil {
		seconds, ok := clockSeconds(m[2], 99)
		if !ok {
			return fanZoneUnrecognized()
		}
		minutes := seconds / 60
		if m[1] == "-" {
			return Code{key: -minutes, band: BandBeforeKickoff, recognized: true}
		}
		return Code{key: minutes, band: BandAfterKickoff, recognized: true}
	}

	if m := afterFullPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return fanZoneUnrecognized()
		}
		return Code{key: FullTimeMinute + n, band: BandFullTime, recognized: true}
	}

	return fanZoneUnrecognized()
}

// FanZoneKey returns the fan-zone sort key for raw.
func FanZoneKey(raw string) int { return ParseFanZone(raw).Key() }

// IsRecognizedFanZone reports whether raw is a valid fan-zone time expression.
func IsRecognizedFanZone(raw string) bool { return ParseFanZone(raw).Recognized() }

// FanZoneMarkers lists the named markers in schedule order.
func FanZoneMarkers() []string {
	return []string{"KO", "HT START", "HT WINDOW", "HT END", "FT", "INTER-MATCH", "CLOSE"}
}

func fanZoneUnrecognized() Code {
	return Code{key: FanZoneUnrecognized, band: BandUnrecognized}
}
