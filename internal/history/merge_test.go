package history

import (
	"reflect"
	"testing"
)

func TestMergeAlignedSeries(t *testing.T) {
	nominal := map[string]float64{
		"2025-01-01": 4.0,
		"2025-01-02": 4.1,
	}
	breakeven := map[string]float64{
		"2025-01-01": 2.0,
		"2025-01-02": 2.2,
	}

	rows := Merge(nominal, breakeven, func(a, b float64) float64 { return a - b })
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Date != "2025-01-01" || rows[1].Date != "2025-01-02" {
		t.Fatalf("rows out of order: %v %v", rows[0].Date, rows[1].Date)
	}
	if rows[1].Derived != 4.1-2.2 {
		t.Fatalf("unexpected derived value: %v", rows[1].Derived)
	}
}

func TestMergeForwardFills(t *testing.T) {
	nominal := map[string]float64{
		"2025-01-01": 4.0,
		"2025-01-02": 4.1,
		"2025-01-03": 4.2,
	}
	// Market holiday on the 2nd for this series.
	breakeven := map[string]float64{
		"2025-01-01": 2.0,
		"2025-01-03": 2.3,
	}

	rows := Merge(nominal, breakeven, func(a, b float64) float64 { return a - b })
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1].ValueB != 2.0 {
		t.Fatalf("expected forward-filled 2.0 on the 2nd, got %v", rows[1].ValueB)
	}
	if rows[1].ValueA != 4.1 {
		t.Fatalf("fresh observation should win over fill: %v", rows[1].ValueA)
	}
}

func TestMergeEmitsOnlyWhenBothResolved(t *testing.T) {
	nominal := map[string]float64{
		"2025-01-01": 4.0,
		"2025-01-02": 4.1,
	}
	// Second series starts a day later: no fill exists for the 1st.
	breakeven := map[string]float64{
		"2025-01-02": 2.2,
	}

	rows := Merge(nominal, breakeven, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Date != "2025-01-02" {
		t.Fatalf("unexpected row date: %v", rows[0].Date)
	}
}

func TestMergeDeterministic(t *testing.T) {
	nominal := map[string]float64{
		"2025-01-01": 4.0,
		"2025-01-03": 4.2,
		"2025-01-05": 4.4,
	}
	breakeven := map[string]float64{
		"2025-01-02": 2.1,
		"2025-01-04": 2.2,
	}

	first := Merge(nominal, breakeven, func(a, b float64) float64 { return a - b })
	second := Merge(nominal, breakeven, func(a, b float64) float64 { return a - b })
	if !reflect.DeepEqual(first, second) {
		t.Fatal("merge of identical inputs produced different rows")
	}
}

func TestMergeEmptyInput(t *testing.T) {
	if rows := Merge(nil, map[string]float64{"2025-01-01": 1}, nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
	if rows := Merge(nil, nil, nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
