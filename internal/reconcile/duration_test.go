package reconcile

import (
	"testing"

	"github.com/hamed0406/statusmap/internal/domain"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0h 0m 0s"},
		{65, "0h 1m 5s"},
		{3600, "1h 0m 0s"},
		{86400, "1d 0h 0m 0s"},
		{90065, "1d 1h 1m 5s"},
		{-10, "0h 0m 0s"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.in); got != c.want {
			t.Fatalf("FormatDuration(%d)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestDuration_DownCountsSinceLastUp(t *testing.T) {
	it := domain.SnapshotItem{Status: domain.StatusDown, LastTimeUp: 1000}
	got := DurationLabelAndSeconds(it, 1500)
	if got.Seconds != 500 || got.Label != LabelOngoing {
		t.Fatalf("got %+v", got)
	}
}

func TestDuration_UpMeasuresLastOutageAcrossMillisecondInputs(t *testing.T) {
	it := domain.SnapshotItem{
		Status:       domain.StatusUp,
		LastTimeUp:   2000000000000,
		LastTimeDown: 1999999000000,
	}
	got := DurationLabelAndSeconds(it, 0)
	if got.Seconds != 1000 || got.Label != LabelLastOutage {
		t.Fatalf("got %+v", got)
	}
}

func TestDuration_MixedUnits(t *testing.T) {
	// up in seconds, down in milliseconds
	it := domain.SnapshotItem{Status: domain.StatusWarning, LastTimeUp: 1700000600, LastTimeDown: 1700000000000}
	if got := DurationLabelAndSeconds(it, 0); got.Seconds != 600 {
		t.Fatalf("got %+v", got)
	}
}

func TestDuration_FlappingDownUsesLastOutageBranch(t *testing.T) {
	it := domain.SnapshotItem{Status: domain.StatusDown, IsFlapping: true, LastTimeUp: 200, LastTimeDown: 100}
	got := DurationLabelAndSeconds(it, 10_000)
	if got.Label != LabelLastOutage || got.Seconds != 100 {
		t.Fatalf("got %+v", got)
	}
}

func TestDuration_NeverNegative(t *testing.T) {
	stamps := []float64{0, -1, 1, 500, 1700000000, 1700000000000, 2000000000000}
	for _, st := range []domain.Status{domain.StatusUp, domain.StatusDown} {
		for _, up := range stamps {
			for _, down := range stamps {
				for _, now := range []int64{0, 1, 1700000000, -50} {
					it := domain.SnapshotItem{Status: st, LastTimeUp: up, LastTimeDown: down}
					if got := DurationLabelAndSeconds(it, now); got.Seconds < 0 {
						t.Fatalf("negative duration %+v for up=%v down=%v now=%d", got, up, down, now)
					}
				}
			}
		}
	}
}
