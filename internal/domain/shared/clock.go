package shared

import "time"

// Clock provides the logical timestamp (unix seconds) used for due-date and
// overdue comparisons. Abstracting it keeps lifecycle tests deterministic.
type Clock interface {
	Now() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// FixedClock always returns the same instant. Test helper.
type FixedClock int64

func (c FixedClock) Now() int64 {
	return int64(c)
}
