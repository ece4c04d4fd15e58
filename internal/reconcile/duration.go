package reconcile

import (
	"fmt"

	"github.com/hamed0406/statusmap/internal/domain"
)

const (
	LabelOngoing    = "duration so far"
	LabelLastOutage = "duration of last outage"
)

// Duration is the popup duration line for a host.
type Duration struct {
	Label   string `json:"label"`
	Seconds int64  `json:"seconds"`
}

// DurationLabelAndSeconds picks the outage clock for a host at nowSec.
//
// A DOWN host reports time elapsed since it was last seen up. Anything else
// reports the length of the most recently completed outage. Results are
// clamped at zero, so missing or out-of-order timestamps give 0.
func DurationLabelAndSeconds(it domain.SnapshotItem, nowSec int64) Duration {
	lastUp := ToSeconds(it.LastTimeUp)
	lastDown := ToSeconds(it.LastTimeDown)

	if EffectiveStatus(it) == domain.StatusDown {
		return Duration{Label: LabelOngoing, Seconds: clamp(nowSec - lastUp)}
	}
	return Duration{Label: LabelLastOutage, Seconds: clamp(lastUp - lastDown)}
}

// FormatDuration renders seconds as "1d 2h 3m 4s". The day part is dropped
// when zero; hours, minutes and seconds are always present.
func FormatDuration(seconds int64) string {
	s := clamp(seconds)
	d := s / 86400
	s %= 86400
	h := s / 3600
	s %= 3600
	m := s / 60
	s %= 60

	if d > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", d, h, m, s)
	}
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
