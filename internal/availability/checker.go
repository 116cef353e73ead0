package availability

import (
	"time"

	"sarpras/pkg/model"
)

const DefaultMinLeadDays = 2

// MaxRangeDays bounds any range of days checked in one request.
const MaxRangeDays = 366

// Reason says why a day is not selectable.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonLeadTime Reason = "LEAD_TIME"
	ReasonBorrowed Reason = "BORROWED"
	ReasonRented   Reason = "RENTED"
)

// Verdict is the outcome of checking one day for one asset.
type Verdict struct {
	Day      time.Time `json:"day"`
	Blocked  bool      `json:"blocked"`
	Reason   Reason    `json:"reason,omitempty"`
	RecordID string    `json:"recordId,omitempty"`
}

type Checker struct {
	loc         *time.Location
	minLeadDays int
	now         func() time.Time
}

type Option func(*Checker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

func NewChecker(loc *time.Location, minLeadDays int, opts ...Option) *Checker {
	if loc == nil {
		loc = time.UTC
	}
	if minLeadDays < 0 {
		minLeadDays = DefaultMinLeadDays
	}
	c := &Checker{loc: loc, minLeadDays: minLeadDays, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) Location() *time.Location { return c.loc }

// Today is the current calendar day in the campus time zone.
func (c *Checker) Today() time.Time {
	return model.DayOf(c.now(), c.loc)
}

// Earliest is the first day a new booking may start on.
func (c *Checker) Earliest() time.Time {
	return c.Today().AddDate(0, 0, c.minLeadDays)
}

// Day turns a candidate date into the calendar day it names. Candidates carry
// no time of day, so their own wall-clock date is taken as is.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsBlocked reports whether date may not be chosen for assetID.
func (c *Checker) IsBlocked(date time.Time, assetID string, borrowings, rentals Calendar) bool {
	return c.Check(date, assetID, borrowings, rentals).Blocked
}

// Check is IsBlocked with the reason and the blocking record attached.
func (c *Checker) Check(date time.Time, assetID string, borrowings, rentals Calendar) Verdict {
	return c.check(Day(date), c.Earliest(), assetID, borrowings, rentals)
}

func (c *Checker) check(day, earliest time.Time, assetID string, borrowings, rentals Calendar) Verdict {
	if day.Before(earliest) {
		return Verdict{Day: day, Blocked: true, Reason: ReasonLeadTime}
	}
	if r := c.find(day, assetID, borrowings); r != nil {
		return Verdict{Day: day, Blocked: true, Reason: ReasonBorrowed, RecordID: r.RecordID()}
	}
	if r := c.find(day, assetID, rentals); r != nil {
		return Verdict{Day: day, Blocked: true, Reason: ReasonRented, RecordID: r.RecordID()}
	}
	return Verdict{Day: day}
}

func (c *Checker) find(day time.Time, assetID string, cal Calendar) Record {
	for _, r := range cal {
		if r == nil || r.Status() == model.PengajuanRejected {
			continue
		}
		if !r.Link().Matches(assetID) {
			continue
		}
		start, end := r.Range()
		s, ok := start.Day(c.loc)
		if !ok {
			continue
		}
		e, ok := end.Day(c.loc)
		if !ok {
			continue
		}
		if !day.Before(s) && !day.After(e) {
			return r
		}
	}
	return nil
}

// BlockedDays lists the days in [from, to] to render disabled for assetID.
func (c *Checker) BlockedDays(assetID string, from, to time.Time, borrowings, rentals Calendar) []Verdict {
	var out []Verdict
	earliest := c.Earliest()
	for day := Day(from); !day.After(Day(to)); day = day.AddDate(0, 0, 1) {
		if v := c.check(day, earliest, assetID, borrowings, rentals); v.Blocked {
			out = append(out, v)
		}
	}
	return out
}

// RangeBlocked returns the first blocked day of [start, end] for assetID.
// Callers bound the range with MaxRangeDays.
func (c *Checker) RangeBlocked(assetID string, start, end time.Time, borrowings, rentals Calendar) (Verdict, bool) {
	earliest := c.Earliest()
	for day := Day(start); !day.After(Day(end)); day = day.AddDate(0, 0, 1) {
		if v := c.check(day, earliest, assetID, borrowings, rentals); v.Blocked {
			return v, true
		}
	}
	return Verdict{}, false
}
