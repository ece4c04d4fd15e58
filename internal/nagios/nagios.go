package nagios

import (
	"context"

	"github.com/hamed0406/statusmap/internal/domain"
)

// HostStatus is what Nagios knows about a single host.
//
// Timestamps are passed through unconverted; statusjson.cgi reports
// milliseconds while older CGIs and fixtures use seconds.
type HostStatus struct {
	Host         string
	Status       domain.Status
	IsFlapping   bool
	LastTimeUp   float64
	LastTimeDown float64
	PluginOutput string
}

// Fetcher looks up the current status of one host.
// On error the returned HostStatus is still usable: UNKNOWN with zero times.
type Fetcher interface {
	Lookup(ctx context.Context, host string) (HostStatus, error)
}

// Unknown is the degraded record used whenever a lookup fails.
func Unknown(host string) HostStatus {
	return HostStatus{Host: host, Status: domain.StatusUnknown}
}

// StatusFromCode maps the statusjson host status bitmask onto a display status.
// 2 is UP, 4 is DOWN, 0 means no data; everything else (pending,
// unreachable) is shown as a warning.
func StatusFromCode(code int) domain.Status {
	switch code {
	case 2:
		return domain.StatusUp
	case 4:
		return domain.StatusDown
	case 0:
		return domain.StatusUnknown
	default:
		return domain.StatusWarning
	}
}
