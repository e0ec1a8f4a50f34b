package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Freeze pins Now to t and returns a func restoring the previous source.
func Freeze(t time.Time) (restore func()) {
	prev := NowFunc
	NowFunc = func() time.Time { return t }
	return func() { NowFunc = prev }
}

// AddBusinessDays moves t forward by n working days, skipping Saturdays and
// Sundays. The time of day is preserved.
func AddBusinessDays(t time.Time, n int) time.Time {
	ret := t
	for n > 0 {
		ret = ret.AddDate(0, 0, 1)
		switch ret.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		n--
	}
	return ret
}
