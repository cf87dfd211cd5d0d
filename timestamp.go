package seriallog

import "time"

// TimestampLayout renders local date and time as "YYYY-MM-DD,HH:MM:SS," so
// the stamp forms the first two columns of a CSV row.
const TimestampLayout = "2006-01-02,15:04:05,"

// Clock returns the current wall-clock time.
type Clock func() time.Time

// FormatTimestamp formats t in local time using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// stamper hands out capture times that never go backwards within a session,
// even if the wall clock is stepped back underneath it.
type stamper struct {
	now  Clock
	last time.Time
}

func newStamper(now Clock) *stamper {
	if now == nil {
		now = time.Now
	}
	return &stamper{now: now}
}

func (s *stamper) stamp() time.Time {
	t := s.now()
	if t.Before(s.last) {
		t = s.last
	}
	s.last = t
	return t
}
