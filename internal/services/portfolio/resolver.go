package portfolio

import (
	"sort"
	"time"

	"github.com/tomhartley/ledgerd/internal/models"
)

// findClosingPriceAsOf uses binary search on cached bars (ascending by
// date) to find the last bar at or before the target date. Non-trading
// days resolve to the previous close, which is what backward-filled
// history needs. O(log N) per lookup.
func findClosingPriceAsOf(bars []models.PriceBar, asOf time.Time) (closePrice float64, barDate time.Time, found bool) {
	if len(bars) == 0 {
		return 0, time.Time{}, false
	}

	target := asOf.Truncate(24 * time.Hour)

	// First index whose bar date is strictly after the target; the bar
	// before it is the close we want.
	idx := sort.Search(len(bars), func(i int) bool {
		return bars[i].Date.Truncate(24 * time.Hour).After(target)
	})
	if idx == 0 {
		return 0, time.Time{}, false
	}

	bar := bars[idx-1]
	return bar.Close, bar.Date.Truncate(24 * time.Hour), true
}

// latestClose returns the most recent cached close for a symbol's bars.
func latestClose(bars []models.PriceBar) (float64, bool) {
	if len(bars) == 0 {
		return 0, false
	}
	return bars[len(bars)-1].Close, true
}

// previousClose returns the last close strictly before the given day, for
// day-change calculation against a live quote.
func previousClose(bars []models.PriceBar, day time.Time) (float64, bool) {
	price, _, found := findClosingPriceAsOf(bars, day.AddDate(0, 0, -1))
	return price, found
}

// generateCalendarDates produces one date per day from start to end
// (inclusive), calendar days rather than trading days.
func generateCalendarDates(start, end time.Time) []time.Time {
	start = start.Truncate(24 * time.Hour)
	end = end.Truncate(24 * time.Hour)

	if end.Before(start) {
		return nil
	}

	days := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
