// Package history reconciles two independently-sourced daily series with
// different calendars into one aligned series.
package history

import "sort"

// MergedRow is one aligned observation. Derived is computed by the caller's
// derive function once both sides are resolved.
type MergedRow struct {
	Date    string
	ValueA  float64
	ValueB  float64
	Derived float64
}

// Merge walks the sorted union of dates present in either series. A side
// missing an observation for a date is forward-filled from its most recent
// prior value; a row is emitted only once both sides have a resolved value.
// Output is deterministic: merging the same inputs twice yields identical
// rows.
func Merge(seriesA, seriesB map[string]float64, derive func(a, b float64) float64) []MergedRow {
	dates := make([]string, 0, len(seriesA)+len(seriesB))
	seen := make(map[string]struct{}, len(seriesA)+len(seriesB))
	for date := range seriesA {
		if _, ok := seen[date]; !ok {
			seen[date] = struct{}{}
			dates = append(dates, date)
		}
	}
	for date := range seriesB {
		if _, ok := seen[date]; !ok {
			seen[date] = struct{}{}
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	out := make([]MergedRow, 0, len(dates))
	var lastA, lastB float64
	var haveA, haveB bool
	for _, date := range dates {
		if v, ok := seriesA[date]; ok {
			lastA, haveA = v, true
		}
		if v, ok := seriesB[date]; ok {
			lastB, haveB = v, true
		}
		if !haveA || !haveB {
			continue
		}
		row := MergedRow{Date: date, ValueA: lastA, ValueB: lastB}
		if derive != nil {
			row.Derived = derive(lastA, lastB)
		}
		out = append(out, row)
	}
	return out
}
