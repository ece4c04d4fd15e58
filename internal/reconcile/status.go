package reconcile

import "github.com/hamed0406/statusmap/internal/domain"

// EffectiveStatus folds the flapping override into the raw status.
// A flapping host is WARNING even when Nagios reports it DOWN.
func EffectiveStatus(it domain.SnapshotItem) domain.Status {
	if it.IsFlapping {
		return domain.StatusWarning
	}
	return domain.ParseStatus(string(it.Status))
}

// WorstOf returns the most severe effective status across a snapshot.
func WorstOf(items []domain.SnapshotItem) domain.Status {
	statuses := make([]domain.Status, 0, len(items))
	for _, it := range items {
		statuses = append(statuses, EffectiveStatus(it))
	}
	return domain.Worst(statuses...)
}
