package tz

import (
	"testing"
	"time"
)

func TestComposeMatchesUnix(t *testing.T) {
	cases := []CalendarTime{
		{1970, 1, 1, 0, 0, 0},
		{1999, 12, 31, 23, 59, 59},
		{2000, 2, 29, 12, 0, 0},
		{2024, 2, 29, 12, 0, 0},
		{2025, 3, 30, 1, 0, 0},
		{2099, 12, 31, 23, 59, 59},
		{2100, 3, 1, 0, 0, 0},
	}
	for _, c := range cases {
		want := time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, c.Second, 0, time.UTC).Unix()
		if got := Compose(c); int64(got) != want {
			t.Errorf("Compose(%s): expected %d, got %d", c, want, got)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	// Walk every day of 2000-2100 at a few times of day.
	start := Compose(CalendarTime{Year: 2000, Month: 1, Day: 1})
	end := Compose(CalendarTime{Year: 2101, Month: 1, Day: 1})
	for e := start; e < end; e += secsPerDay {
		for _, tod := range []Epoch{0, 1, 3599, 43200, secsPerDay - 1} {
			in := Decompose(e + tod)
			if !in.Valid() {
				t.Fatalf("Decompose(%d) produced invalid %s", e+tod, in)
			}
			if got := Decompose(Compose(in)); got != in {
				t.Fatalf("round trip of %s gave %s", in, got)
			}
		}
	}
}

func TestDecomposeMatchesStdlib(t *testing.T) {
	for _, e := range []Epoch{0, 951782400, 1709208000, 1743296399, 4102444799} {
		want := time.Unix(int64(e), 0).UTC()
		got := Decompose(e)
		if got.Year != want.Year() || got.Month != int(want.Month()) || got.Day != want.Day() ||
			got.Hour != want.Hour() || got.Minute != want.Minute() || got.Second != want.Second() {
			t.Errorf("Decompose(%d): expected %s, got %s", e, want.Format("2006-01-02 15:04:05"), got)
		}
	}
}

func TestDecomposeBeforeEpoch(t *testing.T) {
	got := Decompose(-1)
	want := CalendarTime{1969, 12, 31, 23, 59, 59}
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if d := DayOfWeek(-1); d != Wednesday {
		t.Errorf("expected Wednesday, got %s", d)
	}
}

func TestDayOfWeekReference(t *testing.T) {
	e := Compose(CalendarTime{Year: 2025, Month: 1, Day: 1})
	if d := DayOfWeek(e); d != Wednesday {
		t.Errorf("2025-01-01: expected Wednesday (3), got %s (%d)", d, int(d))
	}
	if d := DayOfWeek(0); d != Thursday {
		t.Errorf("1970-01-01: expected Thursday, got %s", d)
	}
	for day := 1; day <= 31; day++ {
		e := Compose(CalendarTime{Year: 2025, Month: 3, Day: day, Hour: 13})
		want := time.Date(2025, time.March, day, 13, 0, 0, 0, time.UTC).Weekday()
		if got := DayOfWeek(e); int(got) != int(want) {
			t.Errorf("2025-03-%02d: expected %s, got %s", day, want, got)
		}
	}
}

func TestLeapYears(t *testing.T) {
	for year, leap := range map[int]bool{1900: false, 2000: true, 2023: false, 2024: true, 2100: false} {
		if IsLeap(year) != leap {
			t.Errorf("IsLeap(%d): expected %v", year, leap)
		}
	}
	if DaysIn(2024, 2) != 29 || DaysIn(2025, 2) != 28 || DaysIn(2025, 13) != 0 {
		t.Error("DaysIn gave wrong February lengths")
	}
}

func TestCalendarTimeValid(t *testing.T) {
	if (CalendarTime{2025, 2, 29, 0, 0, 0}).Valid() {
		t.Error("2025-02-29 should be invalid")
	}
	if !(CalendarTime{2024, 2, 29, 23, 59, 59}).Valid() {
		t.Error("2024-02-29 23:59:59 should be valid")
	}
	if (CalendarTime{2025, 1, 1, 24, 0, 0}).Valid() {
		t.Error("hour 24 should be invalid")
	}
}
