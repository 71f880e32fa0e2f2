// Package quota models call allowances of rate-limited external providers.
package quota

import "time"

// Period is a quota accounting window.
type Period string

const (
	// Daily resets at 00:00 UTC.
	Daily Period = "daily"
	// Monthly resets on the 1st at 00:00 UTC.
	Monthly Period = "monthly"
)

// Start returns the UTC start of the window containing t.
func (p Period) Start(t time.Time) time.Time {
	t = t.UTC()
	if p == Monthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Label names the window containing t, e.g. 2026-03-14 or 2026-03.
func (p Period) Label(t time.Time) string {
	if p == Monthly {
		return t.UTC().Format("2006-01")
	}
	return t.UTC().Format("2006-01-02")
}

// Snapshot is the state of one window.
type Snapshot struct {
	Period Period
	Limit  int64 // 0 means unlimited
	Used   int64
}

// Remaining returns calls left, or -1 when unlimited.
func (s Snapshot) Remaining() int64 {
	if s.Limit == 0 {
		return -1
	}
	if s.Used >= s.Limit {
		return 0
	}
	return s.Limit - s.Used
}

// Exhausted reports whether a limited window is spent.
func (s Snapshot) Exhausted() bool {
	return s.Limit > 0 && s.Used >= s.Limit
}
