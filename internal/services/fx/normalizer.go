// Package fx normalizes quoted prices into a display currency and
// maintains the cached GBP/USD rate.
package fx

import "strings"

// IsMinorUnit reports whether the currency code is a minor-unit sterling
// quote (pence). LSE equities quote in GBX (sometimes written GBp):
// 100 GBX = 1 GBP.
func IsMinorUnit(currency string) bool {
	c := strings.TrimSpace(currency)
	return strings.EqualFold(c, "GBX") || c == "GBp"
}

// majorUnit collapses minor-unit codes onto their major currency.
func majorUnit(currency string) string {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if c == "GBX" {
		return "GBP"
	}
	return c
}

// Multiplier returns the factor that converts a price already expressed in
// major units of native into display, given the GBP→USD rate. Any non-USD
// native heading to a USD display uses the GBP rate, and vice versa; pairs
// that never touch USD stay unconverted. A zero or negative rate degrades
// to 1 so valuation keeps working unconverted when FX data is unavailable.
func Multiplier(native, display string, gbpUsd float64) float64 {
	from := majorUnit(native)
	to := strings.ToUpper(strings.TrimSpace(display))
	if from == to {
		return 1
	}
	if gbpUsd <= 0 {
		return 1
	}
	switch {
	case from == "USD":
		return 1 / gbpUsd
	case to == "USD":
		return gbpUsd
	}
	return 1
}

// DisplayPrice converts a source-quoted price into the display currency:
// minor units are scaled to major units first, then the FX factor applies.
func DisplayPrice(price float64, native, display string, gbpUsd float64) float64 {
	if IsMinorUnit(native) {
		price = price / 100
	}
	return price * Multiplier(native, display, gbpUsd)
}
