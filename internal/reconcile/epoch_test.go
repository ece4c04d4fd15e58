package reconcile

import (
	"math"
	"testing"
)

func TestToMilliseconds(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{-5, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{1, 1000},
		{1700000000, 1700000000000},
		{999999999999, 999999999999000},
		{1e12, 1000000000000},
		{2000000000000, 2000000000000},
		{1700000000123.9, 1700000000123},
		{9.3e15, 9300000000000000},
		{1e17, 100000000000000000},
		{math.MaxInt64, 0},
	}
	for _, c := range cases {
		if got := ToMilliseconds(c.in); got != c.want {
			t.Fatalf("ToMilliseconds(%v)=%d want %d", c.in, got, c.want)
		}
	}
}

func TestToSeconds(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{-1, 0},
		{math.NaN(), 0},
		{1500.7, 1500},
		{1700000000, 1700000000},
		{2000000000000, 2000000000},
		{1999999000999, 1999999000},
		{9.3e15, 9300000000000},
		{1e17, 100000000000000},
	}
	for _, c := range cases {
		if got := ToSeconds(c.in); got != c.want {
			t.Fatalf("ToSeconds(%v)=%d want %d", c.in, got, c.want)
		}
	}
}

func TestToSecondsAndToMillisecondsAgree(t *testing.T) {
	for _, v := range []float64{1, 1000, 1700000000, 999999999999, 1e12, 2000000000000, 1999999000000, 9.3e15, 1e17} {
		if ms, s := ToMilliseconds(v), ToSeconds(v); ms != s*1000 {
			t.Fatalf("v=%v: ms=%d seconds=%d", v, ms, s)
		}
	}
}
