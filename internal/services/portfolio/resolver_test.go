package portfolio

import (
	"testing"
	"time"

	"github.com/tomhartley/ledgerd/internal/models"
)

func barsFor(symbol string, closes map[string]float64) []models.PriceBar {
	// Keys must be "2006-01-02"; output is ascending by date.
	var bars []models.PriceBar
	for key, close := range closes {
		date, _ := time.Parse("2006-01-02", key)
		bars = append(bars, models.PriceBar{Symbol: symbol, Date: date, Close: close})
	}
	for i := 0; i < len(bars); i++ {
		for j := i + 1; j < len(bars); j++ {
			if bars[j].Date.Before(bars[i].Date) {
				bars[i], bars[j] = bars[j], bars[i]
			}
		}
	}
	return bars
}

func TestFindClosingPriceAsOfExactDay(t *testing.T) {
	bars := barsFor("X", map[string]float64{
		"2024-06-03": 100,
		"2024-06-04": 102,
	})

	price, barDate, found := findClosingPriceAsOf(bars, day(2024, 6, 4))
	if !found {
		t.Fatal("expected a bar")
	}
	if price != 102 {
		t.Errorf("price = %v, want 102", price)
	}
	if !barDate.Equal(day(2024, 6, 4)) {
		t.Errorf("bar date = %v, want 2024-06-04", barDate)
	}
}

func TestFindClosingPriceAsOfBackwardFill(t *testing.T) {
	// Friday close serves the weekend and any non-trading gap after it.
	bars := barsFor("X", map[string]float64{
		"2024-06-07": 110, // Friday
		"2024-06-10": 115, // Monday
	})

	for _, d := range []time.Time{day(2024, 6, 8), day(2024, 6, 9)} {
		price, barDate, found := findClosingPriceAsOf(bars, d)
		if !found {
			t.Fatalf("expected a bar for %v", d)
		}
		if price != 110 {
			t.Errorf("price as of %v = %v, want 110 (Friday close)", d, price)
		}
		if !barDate.Equal(day(2024, 6, 7)) {
			t.Errorf("bar date = %v, want 2024-06-07", barDate)
		}
	}
}

func TestFindClosingPriceAsOfBeforeHistory(t *testing.T) {
	bars := barsFor("X", map[string]float64{"2024-06-07": 110})

	_, _, found := findClosingPriceAsOf(bars, day(2024, 6, 1))
	if found {
		t.Error("expected no bar before the first cached date")
	}
}

func TestFindClosingPriceAsOfEmpty(t *testing.T) {
	_, _, found := findClosingPriceAsOf(nil, day(2024, 6, 1))
	if found {
		t.Error("expected no bar for empty history")
	}
}

func TestPreviousClose(t *testing.T) {
	bars := barsFor("X", map[string]float64{
		"2024-06-06": 108,
		"2024-06-07": 110,
	})

	prev, ok := previousClose(bars, day(2024, 6, 7))
	if !ok {
		t.Fatal("expected a previous close")
	}
	if prev != 108 {
		t.Errorf("previous close = %v, want 108 (strictly before the day)", prev)
	}
}

func TestGenerateCalendarDates(t *testing.T) {
	dates := generateCalendarDates(day(2024, 6, 1), day(2024, 6, 10))

	if len(dates) != 10 {
		t.Fatalf("got %d dates, want 10", len(dates))
	}
	if !dates[0].Equal(day(2024, 6, 1)) {
		t.Errorf("first date = %v, want 2024-06-01", dates[0])
	}
	if !dates[9].Equal(day(2024, 6, 10)) {
		t.Errorf("last date = %v, want 2024-06-10", dates[9])
	}
}

func TestGenerateCalendarDatesEndBeforeStart(t *testing.T) {
	dates := generateCalendarDates(day(2024, 6, 10), day(2024, 6, 1))
	if dates != nil {
		t.Fatalf("expected nil for end before start, got %d dates", len(dates))
	}
}
