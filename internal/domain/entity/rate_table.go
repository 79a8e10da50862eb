package entity

import (
	"math"
)

// RateTable maps a currency code to its exchange value against a single
// implicit base currency (the base currency's own entry is conventionally 1).
// A table is fetched fresh for every report request and never persisted.
type RateTable map[string]float64

// The two codes rate sources have historically used for the euro. Some
// sources publish one, some the other; Normalize makes both resolve.
const (
	EuroCode      = "EUR"
	EuroAliasCode = "EURO"
)

// KnownCurrencies is the fixed currency alphabet accepted at the API edge.
var KnownCurrencies = []string{"USD", "ILS", "GBP", EuroCode, EuroAliasCode}

// IsKnownCurrency reports whether code belongs to the supported alphabet.
func IsKnownCurrency(code string) bool {
	for _, c := range KnownCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// Normalize returns a copy of t in which, if exactly one of the two euro
// codes is present, the missing one is added with the same value. When both
// are present they are left untouched even if they disagree; which value a
// conversion sees then depends only on the code string it asked for. The
// input table is never mutated.
func (t RateTable) Normalize() RateTable {
	out := make(RateTable, len(t)+1)
	for code, rate := range t {
		out[code] = rate
	}

	short, hasShort := out[EuroCode]
	long, hasLong := out[EuroAliasCode]
	switch {
	case hasShort && !hasLong:
		out[EuroAliasCode] = short
	case hasLong && !hasShort:
		out[EuroCode] = long
	}

	return out
}

// Convert translates amount from one currency code to another by pivoting
// through the table's implicit base currency. Conversion problems degrade
// rather than abort: a non-finite amount converts to 0, and a code missing
// from the table leaves the amount unconverted, so an aggregate built from a
// partial table stays usable.
func (t RateTable) Convert(amount float64, from, to string) float64 {
	if from == to {
		return amount
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}

	norm := t.Normalize()
	fromRate, okFrom := norm[from]
	toRate, okTo := norm[to]
	if !okFrom || !okTo {
		return amount
	}

	return amount / fromRate * toRate
}
