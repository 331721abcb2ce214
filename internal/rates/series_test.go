package rates

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func obs(code string, date time.Time, mid float64) Observation {
	return Observation{Code: code, Date: date, Mid: mid}
}

func TestBuildSeriesIdenticalPairIsEmpty(t *testing.T) {
	t.Parallel()

	series := []Observation{obs("USD", day(2024, 1, 1), 4.0)}
	for _, rng := range SupportedRanges {
		if points := BuildSeries("USD", "USD", series, series, rng); len(points) != 0 {
			t.Fatalf("%s: expected empty series for identical pair, got %d points", rng, len(points))
		}
	}
}

func TestBuildSeriesAgainstBase(t *testing.T) {
	t.Parallel()

	// 2024-01-01 was a Monday, 2024-01-02 a Tuesday.
	fromSeries := []Observation{
		obs("USD", day(2024, 1, 1), 4.0),
		obs("USD", day(2024, 1, 2), 4.1),
	}

	points := BuildSeries("USD", "PLN", fromSeries, nil, RangeWeek)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Label != "01 Mon" || points[0].Value != 4.0 {
		t.Fatalf("unexpected first point: %+v", points[0])
	}
	if points[1].Label != "02 Tue" || points[1].Value != 4.1 {
		t.Fatalf("unexpected second point: %+v", points[1])
	}
}

func TestBuildSeriesFromBase(t *testing.T) {
	t.Parallel()

	toSeries := []Observation{
		obs("EUR", day(2024, 1, 1), 4.0),
		obs("EUR", day(2024, 1, 2), 5.0),
	}

	// The from leg is the base currency: driving dates come from the to
	// leg and each value is 1/toRate.
	points := BuildSeries("PLN", "EUR", nil, toSeries, RangeWeek)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Value != 0.25 || points[1].Value != 0.2 {
		t.Fatalf("unexpected values: %f %f", points[0].Value, points[1].Value)
	}
}

func TestBuildSeriesCrossPair(t *testing.T) {
	t.Parallel()

	fromSeries := []Observation{
		obs("USD", day(2024, 1, 1), 4.0),
		obs("USD", day(2024, 1, 2), 4.2),
	}
	toSeries := []Observation{
		obs("EUR", day(2024, 1, 1), 5.0),
		obs("EUR", day(2024, 1, 2), 4.2),
	}

	points := BuildSeries("USD", "EUR", fromSeries, toSeries, RangeMonth)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Value != 0.8 {
		t.Fatalf("expected 0.8, got %f", points[0].Value)
	}
	if points[1].Value != 1.0 {
		t.Fatalf("expected 1.0, got %f", points[1].Value)
	}
	if points[0].Label != "1 Jan" || points[1].Label != "2 Jan" {
		t.Fatalf("unexpected labels: %s %s", points[0].Label, points[1].Label)
	}
}

func TestBuildSeriesAlignsByDateNotPosition(t *testing.T) {
	t.Parallel()

	// The to leg is missing Jan 2. Positional pairing would divide Jan 2's
	// from rate by Jan 3's to rate; date alignment drops Jan 2 instead.
	fromSeries := []Observation{
		obs("USD", day(2024, 1, 1), 4.0),
		obs("USD", day(2024, 1, 2), 4.2),
		obs("USD", day(2024, 1, 3), 4.4),
	}
	toSeries := []Observation{
		obs("EUR", day(2024, 1, 1), 2.0),
		obs("EUR", day(2024, 1, 3), 2.2),
	}

	points := BuildSeries("USD", "EUR", fromSeries, toSeries, RangeWeek)
	if len(points) != 2 {
		t.Fatalf("expected 2 aligned points, got %d", len(points))
	}
	if points[0].Value != 2.0 {
		t.Fatalf("expected Jan 1 cross-rate 2.0, got %f", points[0].Value)
	}
	if points[1].Value != 2.0 {
		t.Fatalf("expected Jan 3 cross-rate 2.0, got %f", points[1].Value)
	}
	if !points[1].Date.Equal(day(2024, 1, 3)) {
		t.Fatalf("expected second point on Jan 3, got %v", points[1].Date)
	}
}

func TestBuildSeriesDailyOnePointPerObservation(t *testing.T) {
	t.Parallel()

	var fromSeries, toSeries []Observation
	for i := 0; i < 5; i++ {
		d := day(2024, 2, 5+i)
		fromSeries = append(fromSeries, obs("USD", d, 4.0+float64(i)/100))
		toSeries = append(toSeries, obs("EUR", d, 4.3))
	}

	for _, rng := range []Range{RangeWeek, RangeMonth} {
		points := BuildSeries("USD", "EUR", fromSeries, toSeries, rng)
		if len(points) != len(fromSeries) {
			t.Fatalf("%s: expected %d points, got %d", rng, len(fromSeries), len(points))
		}
	}
}

func TestBuildSeriesMonthlyAveraging(t *testing.T) {
	t.Parallel()

	fromSeries := []Observation{
		obs("USD", day(2024, 1, 2), 4.0),
		obs("USD", day(2024, 1, 15), 4.2),
		obs("USD", day(2024, 2, 1), 4.4),
		obs("USD", day(2024, 2, 20), 4.6),
		obs("USD", day(2024, 3, 5), 5.0),
	}

	points := BuildSeries("USD", "PLN", fromSeries, nil, RangeYear)
	if len(points) != 3 {
		t.Fatalf("expected one point per month, got %d", len(points))
	}

	expected := []struct {
		label string
		value float64
	}{
		{"Jan", 4.1},
		{"Feb", 4.5},
		{"Mar", 5.0},
	}
	for i, want := range expected {
		if points[i].Label != want.label {
			t.Fatalf("point %d: expected label %s, got %s", i, want.label, points[i].Label)
		}
		if math.Abs(points[i].Value-want.value) > 1e-9 {
			t.Fatalf("point %d: expected mean %f, got %f", i, want.value, points[i].Value)
		}
	}
}

func TestBuildSeriesMonthlySkipsUnalignedDays(t *testing.T) {
	t.Parallel()

	fromSeries := []Observation{
		obs("USD", day(2024, 1, 2), 4.0),
		obs("USD", day(2024, 1, 3), 6.0),
	}
	// Only Jan 2 exists on the to leg; the Jan 3 reading must not enter
	// the monthly mean.
	toSeries := []Observation{
		obs("EUR", day(2024, 1, 2), 2.0),
	}

	points := BuildSeries("USD", "EUR", fromSeries, toSeries, RangeYear)
	if len(points) != 1 {
		t.Fatalf("expected 1 monthly point, got %d", len(points))
	}
	if points[0].Value != 2.0 {
		t.Fatalf("expected mean 2.0 over the single aligned day, got %f", points[0].Value)
	}
}

func TestBuildSeriesUnsortedInput(t *testing.T) {
	t.Parallel()

	fromSeries := []Observation{
		obs("USD", day(2024, 1, 3), 4.4),
		obs("USD", day(2024, 1, 1), 4.0),
		obs("USD", day(2024, 1, 2), 4.2),
	}

	points := BuildSeries("USD", "PLN", fromSeries, nil, RangeWeek)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if !points[i-1].Date.Before(points[i].Date) {
			t.Fatalf("points not in ascending date order: %v >= %v", points[i-1].Date, points[i].Date)
		}
	}
}

func TestBuildSeriesEmptyLegs(t *testing.T) {
	t.Parallel()

	if points := BuildSeries("USD", "EUR", nil, nil, RangeWeek); len(points) != 0 {
		t.Fatalf("expected empty series, got %d points", len(points))
	}
}
