package calendar

import (
	"testing"
	"time"

	"github.com/airatk/budget-api/internal/core"
)

func TestFillMissingDates(t *testing.T) {
	first := core.NewDate(2023, 3, 1)
	last := core.NewDate(2023, 3, 5)
	sparse := []core.DatedValue[core.Money]{
		{Date: core.NewDate(2023, 3, 2), Value: core.Money{Cents: 1000}},
		{Date: core.NewDate(2023, 3, 4), Value: core.Money{Cents: 500}},
	}

	dense := FillMissingDates(sparse, core.Money{}, first, last)

	if len(dense) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(dense))
	}
	wantCents := []int64{0, 1000, 0, 500, 0}
	for i, dv := range dense {
		wantDate := core.NewDate(2023, 3, i+1)
		if !dv.Date.Equal(wantDate.Time) {
			t.Fatalf("entry %d: date %v, want %v", i, dv.Date, wantDate)
		}
		if dv.Value.Cents != wantCents[i] {
			t.Fatalf("entry %d: %d cents, want %d", i, dv.Value.Cents, wantCents[i])
		}
	}
}

func TestFillMissingDatesEmptySparse(t *testing.T) {
	first := core.NewDate(2024, 2, 27)
	last := core.NewDate(2024, 3, 2) // crosses a leap-year month boundary

	dense := FillMissingDates(nil, core.DayStat{}, first, last)

	if len(dense) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(dense))
	}
	for i, dv := range dense {
		if dv.Value != (core.DayStat{}) {
			t.Fatalf("entry %d: expected default value, got %+v", i, dv.Value)
		}
		if i > 0 && !dense[i-1].Date.Before(dv.Date.Time) {
			t.Fatalf("entries not strictly ascending at %d", i)
		}
	}
}

func TestFillMissingDatesSingleDay(t *testing.T) {
	day := core.NewDate(2025, 6, 15)
	dense := FillMissingDates(nil, core.Money{Cents: 7}, day, day)
	if len(dense) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(dense))
	}
	if dense[0].Value.Cents != 7 {
		t.Fatalf("default not applied by value: %+v", dense[0])
	}
}

func TestFillMissingDatesCompositeDefault(t *testing.T) {
	first := core.NewDate(2025, 1, 1)
	last := core.NewDate(2025, 1, 3)
	def := core.DayStat{Current: core.Money{Cents: 0}, Average: core.Money{Cents: 0}}
	sparse := []core.DatedValue[core.DayStat]{
		{Date: core.NewDate(2025, 1, 2), Value: core.DayStat{Current: core.Money{Cents: 100}, Average: core.Money{Cents: 50}}},
	}

	dense := FillMissingDates(sparse, def, first, last)

	if dense[0].Value != def || dense[2].Value != def {
		t.Fatalf("composite default not applied: %+v", dense)
	}
	if dense[1].Value.Current.Cents != 100 || dense[1].Value.Average.Cents != 50 {
		t.Fatalf("sparse value lost: %+v", dense[1])
	}
}

func TestDayCount(t *testing.T) {
	cases := []struct {
		first, last core.Date
		want        int
	}{
		{core.NewDate(2023, 1, 1), core.NewDate(2023, 1, 1), 1},
		{core.NewDate(2023, 1, 1), core.NewDate(2023, 1, 31), 31},
		{core.NewDate(2024, 2, 1), core.NewDate(2024, 2, 29), 29},
		{core.NewDate(2023, 12, 25), core.NewDate(2024, 1, 5), 12},
	}
	for i, tc := range cases {
		if got := DayCount(tc.first, tc.last); got != tc.want {
			t.Fatalf("case %d: DayCount = %d, want %d", i, got, tc.want)
		}
	}
}

func TestMonthBoundaries(t *testing.T) {
	cases := []struct {
		in          time.Time
		first, last core.Date
	}{
		{time.Date(2023, 2, 14, 10, 30, 0, 0, time.UTC), core.NewDate(2023, 2, 1), core.NewDate(2023, 2, 28)},
		{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), core.NewDate(2024, 2, 1), core.NewDate(2024, 2, 29)},
		{time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), core.NewDate(2023, 12, 1), core.NewDate(2023, 12, 31)},
	}
	for i, tc := range cases {
		first, last := MonthBoundaries(tc.in)
		if !first.Equal(tc.first.Time) || !last.Equal(tc.last.Time) {
			t.Fatalf("case %d: got (%v, %v), want (%v, %v)", i, first, last, tc.first, tc.last)
		}
	}
}
