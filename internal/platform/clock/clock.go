// Package clock abstracts wall time so streak and chart-window logic can be
// tested against simulated day boundaries
package clock

import "time"

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock in UTC
type System struct{}

// Now implements Clock
func (System) Now() time.Time { return time.Now().UTC() }

// Fake is a settable clock for tests
type Fake struct{ t time.Time }

// NewFake returns a Fake frozen at t
func NewFake(t time.Time) *Fake { return &Fake{t: t} }

// Now implements Clock
func (f *Fake) Now() time.Time { return f.t }

// Set moves the fake clock to t
func (f *Fake) Set(t time.Time) { f.t = t }

// Advance moves the fake clock forward by d
func (f *Fake) Advance(d time.Duration) { f.t = f.t.Add(d) }

// Date is a calendar day, comparable and usable as a map key
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today is DateOf(c.Now())
func Today(c Clock) Date { return DateOf(c.Now()) }

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days later (n may be negative)
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

// IsZero reports whether d is the zero date
func (d Date) IsZero() bool { return d == Date{} }

// String formats as 2006-01-02
func (d Date) String() string { return d.Time().Format(time.DateOnly) }

// Weekday returns the short weekday name ("Mon")
func (d Date) Weekday() string { return d.Time().Format("Mon") }

// MarshalText encodes as 2006-01-02 so Date works as a JSON map key
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes a 2006-01-02 value
func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse(time.DateOnly, string(b))
	if err != nil {
		return err
	}
	*d = DateOf(t)
	return nil
}

// DaysBetween returns b - a in whole calendar days
func DaysBetween(a, b Date) int {
	return int(b.Time().Sub(a.Time()) / (24 * time.Hour))
}
