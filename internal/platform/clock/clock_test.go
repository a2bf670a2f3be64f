package clock

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOfTruncates(t *testing.T) {
	ts := time.Date(2025, time.March, 9, 23, 59, 58, 0, time.UTC)
	d := DateOf(ts)
	if d != (Date{2025, time.March, 9}) {
		t.Fatalf("DateOf = %v", d)
	}
	if d.String() != "2025-03-09" {
		t.Fatalf("String = %q", d.String())
	}
}

func TestAddDaysAcrossMonthBoundary(t *testing.T) {
	d := Date{2025, time.January, 31}
	if got := d.AddDays(1); got != (Date{2025, time.February, 1}) {
		t.Fatalf("AddDays(1) = %v", got)
	}
	if got := d.AddDays(-31); got != (Date{2024, time.December, 31}) {
		t.Fatalf("AddDays(-31) = %v", got)
	}
}

func TestDaysBetween(t *testing.T) {
	a := Date{2025, time.February, 27}
	b := Date{2025, time.March, 2}
	if got := DaysBetween(a, b); got != 3 {
		t.Fatalf("DaysBetween = %d, want 3", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Fatalf("DaysBetween reversed = %d, want -3", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Fatalf("DaysBetween same = %d", got)
	}
}

func TestDateAsJSONMapKey(t *testing.T) {
	in := map[Date]int{{2025, time.June, 1}: 4}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[Date]int
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out[Date{2025, time.June, 1}] != 4 {
		t.Fatalf("round trip lost the entry: %v", out)
	}
}

func TestFakeClock(t *testing.T) {
	f := NewFake(time.Date(2025, time.May, 5, 12, 0, 0, 0, time.UTC))
	f.Advance(13 * time.Hour)
	if Today(f) != (Date{2025, time.May, 6}) {
		t.Fatalf("Advance should cross the day boundary, got %v", Today(f))
	}
}
