package reconcile

import "github.com/hamed0406/statusmap/internal/domain"

// Row is a snapshot item after reconciliation, ready for a marker and popup.
type Row struct {
	Host           string        `json:"host"`
	Name           string        `json:"name"`
	Status         domain.Status `json:"status"`
	RawStatus      domain.Status `json:"raw_status"`
	IsFlapping     bool          `json:"is_flapping"`
	PluginOutput   string        `json:"plugin_output"`
	LastTimeDownMS int64         `json:"last_time_down_ms"`
	Duration       Duration      `json:"duration"`
	DurationText   string        `json:"duration_text"`
	Lat            float64       `json:"lat"`
	Lng            float64       `json:"lng"`
}

// BuildRows reconciles every item of a snapshot against the same clock.
func BuildRows(items []domain.SnapshotItem, nowSec int64) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		d := DurationLabelAndSeconds(it, nowSec)
		rows = append(rows, Row{
			Host:           it.Host,
			Name:           it.Name,
			Status:         EffectiveStatus(it),
			RawStatus:      domain.ParseStatus(string(it.Status)),
			IsFlapping:     it.IsFlapping,
			PluginOutput:   it.PluginOutput,
			LastTimeDownMS: ToMilliseconds(it.LastTimeDown),
			Duration:       d,
			DurationText:   FormatDuration(d.Seconds),
			Lat:            it.Lat,
			Lng:            it.Lng,
		})
	}
	return rows
}

// WorstRow returns the most severe status among rows, UP when empty.
func WorstRow(rows []Row) domain.Status {
	statuses := make([]domain.Status, 0, len(rows))
	for _, r := range rows {
		statuses = append(statuses, r.Status)
	}
	return domain.Worst(statuses...)
}
