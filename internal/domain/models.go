package domain

import "strings"

// Status is the display state of a monitored host.
type Status string

const (
	StatusUp      Status = "UP"
	StatusDown    Status = "DOWN"
	StatusWarning Status = "WARNING"
	StatusUnknown Status = "UNKNOWN"
)

// ParseStatus maps free text onto a Status. Anything unrecognised is UNKNOWN.
func ParseStatus(s string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusUp:
		return StatusUp
	case StatusDown:
		return StatusDown
	case StatusWarning:
		return StatusWarning
	default:
		return StatusUnknown
	}
}

// Severity orders statuses for aggregation: UP < UNKNOWN < WARNING < DOWN.
func (s Status) Severity() int {
	switch s {
	case StatusDown:
		return 3
	case StatusWarning:
		return 2
	case StatusUnknown:
		return 1
	case StatusUp:
		return 0
	default:
		// unrecognised values rank like UNKNOWN
		return 1
	}
}

// Worst returns the most severe status in the set, or UP when the set is empty.
func Worst(statuses ...Status) Status {
	worst := StatusUp
	for _, s := range statuses {
		switch s {
		case StatusUp, StatusDown, StatusWarning, StatusUnknown:
		default:
			s = StatusUnknown
		}
		if s.Severity() > worst.Severity() {
			worst = s
		}
	}
	return worst
}

// Site is one directory entry: a named place on the map backed by a Nagios host.
type Site struct {
	Name string  `yaml:"name" json:"name"`
	Host string  `yaml:"host" json:"host"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Lng  float64 `yaml:"lng" json:"lng"`
}

// SnapshotItem is one host's record in a status poll.
//
// LastTimeUp and LastTimeDown are epochs in either seconds or milliseconds;
// the source never says which. 0 means the event was never recorded.
type SnapshotItem struct {
	Host                   string  `json:"host"`
	Name                   string  `json:"name"`
	Status                 Status  `json:"status"`
	IsFlapping             bool    `json:"is_flapping"`
	LastTimeUp             float64 `json:"last_time_up"`
	LastTimeDown           float64 `json:"last_time_down"`
	LastDowntimeDurationMS *int64  `json:"last_downtime_duration_ms,omitempty"`
	PluginOutput           string  `json:"plugin_output"`
	Lat                    float64 `json:"lat"`
	Lng                    float64 `json:"lng"`
}
