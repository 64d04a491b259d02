package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format renders an elapsed-seconds value as an SRT timestamp HH:MM:SS,mmm.
// The millisecond component is truncated, not rounded, so a cue boundary never
// drifts past the audio it came from. Negative input clamps to zero; the
// engines this feeds never produce negative offsets, but a clamp keeps the
// output well-formed if one ever does.
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	// Derive every component from total milliseconds. Splitting off the
	// fractional second first and scaling it separately loses a ULP for
	// values like 3599.999 and lands on the previous millisecond.
	ms := int64(math.Trunc(seconds * 1000))
	hours := ms / 3600000
	minutes := ms / 60000 % 60
	secs := ms / 1000 % 60
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// Parse converts an SRT timestamp back to seconds. Both comma and period
// millisecond separators are accepted.
func Parse(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
